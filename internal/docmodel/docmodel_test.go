package docmodel

import (
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
	"git.home.luguber.info/inful/docenrich/internal/frontmatter"
	"github.com/stretchr/testify/require"
)

func TestParse_NoFrontmatter_RoundTrip(t *testing.T) {
	content := "# Hello\n\nBody\n"

	doc, err := Parse(content)
	require.NoError(t, err)
	require.False(t, doc.HadFrontmatter())
	require.Empty(t, doc.FrontmatterRaw())
	require.Equal(t, content, doc.Body())
	require.Equal(t, 0, doc.BodyOffset())
	require.Equal(t, content, doc.String())
}

func TestParse_WithFrontmatter_BodyOffset(t *testing.T) {
	content := "---\ntitle: \"Hi\"\n---\n# Hi\n"

	doc, err := Parse(content)
	require.NoError(t, err)
	require.True(t, doc.HadFrontmatter())
	require.Equal(t, "# Hi\n", content[doc.BodyOffset():])
	require.Equal(t, content, doc.String())

	fields, err := doc.Fields()
	require.NoError(t, err)
	require.Equal(t, []frontmatter.Field{{Key: "title", Value: "Hi"}}, fields)
}

func TestParse_MissingClosingDelimiter_ReturnsFrontmatterError(t *testing.T) {
	_, err := Parse("---\nkey: value\n# body\n")
	require.Error(t, err)
	require.ErrorIs(t, err, frontmatter.ErrMissingClosingDelimiter)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestSplitBody_FallsBackToWholeContent(t *testing.T) {
	body, offset := SplitBody("---\nunterminated\n")
	require.Equal(t, "---\nunterminated\n", body)
	require.Equal(t, 0, offset)
}

func TestParseFile_ReadsFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("---\na: 1\n---\nbody\n"), 0o600))

	doc, err := ParseFile(path)
	require.NoError(t, err)
	require.Equal(t, "body\n", doc.Body())

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.md"))
	require.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestWithFrontmatter_ReplacesBlockKeepsBody(t *testing.T) {
	doc, err := Parse("# Body\n")
	require.NoError(t, err)

	out, err := doc.WithFrontmatter([]frontmatter.Field{{Key: "title", Value: "Body"}})
	require.NoError(t, err)
	require.Equal(t, "---\ntitle: \"Body\"\n---\n# Body\n", out)
}

func TestWithMetadata_MetadataWinsAndLeads(t *testing.T) {
	doc, err := Parse("---\nweight: 3\ntitle: \"Old\"\n---\nBody\n")
	require.NoError(t, err)

	meta := NewMetadata()
	meta.Title = "New"
	meta.Tags.Add("go")
	meta.SetExtra("word_count", 1)

	out, err := doc.WithMetadata(meta)
	require.NoError(t, err)
	require.Equal(t,
		"---\ntitle: \"New\"\nweight: 3\ntags:\n  - \"go\"\nword_count: 1\n---\nBody\n",
		out)
}

func TestWithMetadata_MalformedBlockFails(t *testing.T) {
	doc, err := Parse("---\ntitle: [unclosed\n---\nBody\n")
	require.NoError(t, err)

	_, err = doc.WithMetadata(NewMetadata())
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}
