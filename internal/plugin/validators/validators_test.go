package validators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/fmrepair"
	"git.home.luguber.info/inful/docenrich/internal/plugin"
)

func TestFrontmatter_MissingBlock(t *testing.T) {
	pctx := docmodel.NewProcessingContext("a.md", "")
	r, err := NewFrontmatter(nil).Validate(context.Background(), "# A\n", nil, pctx)
	require.NoError(t, err)

	require.Len(t, r.Issues, 1)
	require.Equal(t, fmrepair.KindMissingFrontmatter, r.Issues[0].Kind)
	require.Equal(t, plugin.BucketHigh, r.Issues[0].Bucket())
	require.Equal(t, 10, r.Score)
	require.Equal(t, plugin.LevelLow, r.Level)
	require.Len(t, r.Suggestions, 1)
}

func TestFrontmatter_Clean(t *testing.T) {
	r, err := NewFrontmatter(nil).Validate(context.Background(), "---\ntitle: A\ndescription: B.\n---\nBody\n", nil, nil)
	require.NoError(t, err)
	require.Empty(t, r.Issues)
	require.Equal(t, plugin.LevelHigh, r.Level)
}

func TestMetadata_Issues(t *testing.T) {
	meta := docmodel.NewMetadata()
	meta.Description = "Too short."

	r, err := NewMetadata(0, 0).Validate(context.Background(), "", meta, nil)
	require.NoError(t, err)

	kinds := make([]string, 0, len(r.Issues))
	for _, is := range r.Issues {
		kinds = append(kinds, is.Kind)
	}
	require.Equal(t, []string{KindMissingTitle, KindShortDescription, KindNoTags}, kinds)
	require.Equal(t, 0, r.Score)
}

func TestMetadata_Complete(t *testing.T) {
	meta := docmodel.NewMetadata()
	meta.Title = "Guide"
	meta.Description = "A description that is comfortably long."
	meta.Tags.Add("go")

	r, err := NewMetadata(0, 0).Validate(context.Background(), "", meta, nil)
	require.NoError(t, err)
	require.Empty(t, r.Issues)
	require.Equal(t, 100, r.Score)
}

func TestTOC_MissingAndStale(t *testing.T) {
	v := NewTOC(nil, 3)
	pctx := docmodel.NewProcessingContext("a.md", "")
	long := "# T\n\n## A\n\n## B\n\n## C\n"

	r, err := v.Validate(context.Background(), long, nil, pctx)
	require.NoError(t, err)
	require.Len(t, r.Issues, 1)
	require.Equal(t, KindMissingTOC, r.Issues[0].Kind)

	stale := "# T\n\n## Table of Contents\n\n- [A](#a)\n\n## A\n\n## B\n"
	r, err = v.Validate(context.Background(), stale, nil, pctx)
	require.NoError(t, err)
	require.Len(t, r.Issues, 1)
	require.Equal(t, KindStaleTOC, r.Issues[0].Kind)

	r, err = v.Validate(context.Background(), long, nil, docmodel.NewProcessingContext("a.txt", ""))
	require.NoError(t, err)
	require.Empty(t, r.Issues)
}

func TestTOC_LevelOneSectionsAreNotMissing(t *testing.T) {
	v := NewTOC(nil, 1)
	content := "# Install\n\nText.\n\n# Usage\n\nMore.\n"

	r, err := v.Validate(context.Background(), content, nil, docmodel.NewProcessingContext("a.md", ""))
	require.NoError(t, err)
	require.Empty(t, r.Issues)
}
