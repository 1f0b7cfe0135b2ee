package toc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnchor(t *testing.T) {
	tests := map[string]string{
		"API Reference":       "api-reference",
		"GET /users/{id}":     "get-usersid",
		"  Hello,  World! ":   "hello-world",
		"snake_case and-dash": "snakecase-and-dash",
		"Ünïcode Tïtle":       "ünïcode-tïtle",
	}
	for in, want := range tests {
		require.Equal(t, want, Anchor(in), in)
	}
}

func TestGenerate_SingleHeadingIsEmpty(t *testing.T) {
	entries := New(Options{}).Generate("# Only Title\n\nSome text.\n")
	require.NotNil(t, entries)
	require.Empty(t, entries)
}

func TestGenerate_BuildsTree(t *testing.T) {
	entries := New(Options{}).Generate("---\ntitle: x\n---\n# Title\n\n## A\n\ntext\n\n## B\n")

	require.Len(t, entries, 1)
	require.Equal(t, "Title", entries[0].Title)
	require.Len(t, entries[0].Children, 2)
	require.Equal(t, Entry{Level: 2, Title: "A", Anchor: "a"}, entries[0].Children[0])
	require.Equal(t, Entry{Level: 2, Title: "B", Anchor: "b"}, entries[0].Children[1])
}

func TestGenerate_OutOfOrderLevelsBecomeSiblings(t *testing.T) {
	entries := New(Options{}).Generate("## A\n# B\n## C\n")
	require.Len(t, entries, 2)
	require.Equal(t, "A", entries[0].Title)
	require.Equal(t, "B", entries[1].Title)
	require.Equal(t, "C", entries[1].Children[0].Title)
}

func TestGenerate_DeduplicatesAnchors(t *testing.T) {
	entries := New(Options{}).Generate("## Setup\n## Setup\n## Setup\n")
	require.Len(t, entries, 3)
	require.Equal(t, "setup", entries[0].Anchor)
	require.Equal(t, "setup-2", entries[1].Anchor)
	require.Equal(t, "setup-3", entries[2].Anchor)
}

func TestGenerate_MaxDepthAndFences(t *testing.T) {
	content := "## A\n### B\n#### C\n```\n## Not a heading\n```\n## D\n"
	entries := New(Options{}).Generate(content)

	require.Len(t, entries, 2)
	require.Equal(t, "A", entries[0].Title)
	require.Len(t, entries[0].Children, 1)
	require.Equal(t, "B", entries[0].Children[0].Title)
	require.Empty(t, entries[0].Children[0].Children)
	require.Equal(t, "D", entries[1].Title)
}

func TestGenerate_StripsInlineMarkup(t *testing.T) {
	entries := New(Options{}).Generate("## The `run` **command** ##\n## See [docs](./d.md)\n")
	require.Equal(t, "The run command", entries[0].Title)
	require.Equal(t, "the-run-command", entries[0].Anchor)
	require.Equal(t, "See docs", entries[1].Title)
}

const source = "---\ntitle: \"T\"\n---\n# Title\n\nIntro.\n\n## Install\n\n### Linux\n\n## Usage\n"

const withTOC = "---\ntitle: \"T\"\n---\n# Title\n\n" +
	"## Table of Contents\n\n" +
	"- [Install](#install)\n" +
	"  - [Linux](#linux)\n" +
	"- [Usage](#usage)\n\n" +
	"Intro.\n\n## Install\n\n### Linux\n\n## Usage\n"

func TestInsert_AfterFirstH1(t *testing.T) {
	b := New(Options{})

	require.False(t, b.HasExisting(source))
	out := b.Insert(source)
	require.Equal(t, withTOC, out)
	require.True(t, b.HasExisting(out))
	require.Equal(t, out, b.Insert(out))
}

func TestInsert_TopOfBodyWithoutH1(t *testing.T) {
	b := New(Options{})
	in := "## A\n\ntext\n\n## B\n"

	out := b.Insert(in)
	require.Equal(t, "## Table of Contents\n\n- [A](#a)\n- [B](#b)\n\n## A\n\ntext\n\n## B\n", out)
	require.Equal(t, in, b.Remove(out))
}

func TestInsert_NoOpWhenTooFewHeadings(t *testing.T) {
	b := New(Options{})
	for _, in := range []string{"# Title\n\nText.\n", "# A\n\n# B\n"} {
		require.Equal(t, in, b.Insert(in))
	}
}

func TestEntries_OnlyLevelOneSections(t *testing.T) {
	b := New(Options{})
	in := "# Install\n\nText.\n\n# Usage\n\nMore.\n"

	require.Len(t, b.Generate(in), 2)
	require.Empty(t, b.Entries(in))
	require.Equal(t, in, b.Insert(in))
	require.False(t, b.IsStale(in))
}

func TestRemoveThenInsertReproducesBlock(t *testing.T) {
	b := New(Options{})

	removed := b.Remove(withTOC)
	require.Equal(t, source, removed)
	require.False(t, b.HasExisting(removed))
	require.Equal(t, withTOC, b.Insert(removed))
}

func TestRemove_NoTOCIsUnchanged(t *testing.T) {
	require.Equal(t, source, New(Options{}).Remove(source))
}

func TestHasExisting_Variants(t *testing.T) {
	b := New(Options{})

	require.True(t, b.HasExisting("## table of contents\n- [x](#x)\n"))
	require.True(t, b.HasExisting("<div class=\"table-of-contents\"></div>\n"))
	require.False(t, b.HasExisting("```html\n<nav class=\"toc\"></nav>\n```\n"))
	require.False(t, b.HasExisting("<nav class=\"sidebar\"></nav>\n"))
	require.False(t, b.HasExisting("Wrap it in ``<nav class=\"toc\">`` markup.\n"))
}

func TestInsert_IgnoresMarkerInCodeSpan(t *testing.T) {
	b := New(Options{})
	in := "# T\n\nUse `<nav class=\"toc\">` to mark one.\n\n## A\n\n## B\n"

	require.False(t, b.HasExisting(in))
	out := b.Insert(in)
	require.Equal(t, "# T\n\n## Table of Contents\n\n- [A](#a)\n- [B](#b)\n\n"+
		"Use `<nav class=\"toc\">` to mark one.\n\n## A\n\n## B\n", out)
}

func TestRemove_HTMLNav(t *testing.T) {
	b := New(Options{})
	in := "# T\n\n<nav class=\"sidebar toc\">\n<ul><li>x</li></ul>\n</nav>\n\n## A\n\n## B\n"

	require.True(t, b.HasExisting(in))
	require.Equal(t, in, b.Insert(in))
	require.Equal(t, "# T\n\n## A\n\n## B\n", b.Remove(in))
}

func TestRenderMarkdown(t *testing.T) {
	entries := []Entry{{Level: 2, Title: "A [beta]", Anchor: "a-beta", Children: []Entry{{Level: 3, Title: "B", Anchor: "b"}}}}
	require.Equal(t, "- [A \\[beta\\]](#a-beta)\n  - [B](#b)\n", RenderMarkdown(entries))
}

func TestRenderHTML(t *testing.T) {
	entries := []Entry{{Level: 2, Title: "A & B", Anchor: "a-b", Children: []Entry{{Level: 3, Title: "C", Anchor: "c"}}}}
	want := "<ul>\n" +
		"  <li><a href=\"#a-b\">A &amp; B</a>\n" +
		"    <ul>\n" +
		"      <li><a href=\"#c\">C</a></li>\n" +
		"    </ul>\n" +
		"  </li>\n" +
		"</ul>\n"
	require.Equal(t, want, RenderHTML(entries))
	require.Empty(t, RenderHTML(nil))
}

func TestIsStale(t *testing.T) {
	b := New(Options{})

	require.False(t, b.IsStale(withTOC))
	require.False(t, b.IsStale(source))

	renamed := withTOC + "\n## Extra\n"
	require.True(t, b.IsStale(renamed))
}
