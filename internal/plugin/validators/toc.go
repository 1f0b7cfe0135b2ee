package validators

import (
	"context"

	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/plugin"
	"git.home.luguber.info/inful/docenrich/internal/toc"
)

// Issue kinds reported by TOC.
const (
	KindMissingTOC = "missing-toc"
	KindStaleTOC   = "stale-toc"
)

// TOC flags long Markdown documents without a table of contents and tables
// of contents that no longer match the headings.
type TOC struct {
	builder    *toc.Builder
	minEntries int
}

// NewTOC creates the validator. Documents with at least minEntries listable
// headings are expected to carry a TOC.
func NewTOC(builder *toc.Builder, minEntries int) *TOC {
	if builder == nil {
		builder = toc.New(toc.Options{})
	}
	if minEntries <= 0 {
		minEntries = 4
	}
	return &TOC{builder: builder, minEntries: minEntries}
}

func (v *TOC) Info() plugin.Info {
	return plugin.Info{
		Name:        "toc",
		Version:     "v1.0.0",
		Priority:    10,
		Description: "Checks table of contents presence and freshness",
	}
}

func (v *TOC) Validate(_ context.Context, content string, _ *docmodel.Metadata, pctx *docmodel.ProcessingContext) (plugin.QualityReport, error) {
	if pctx != nil && !pctx.Extension().IsMarkdown() {
		return plugin.NewQualityReport(nil, nil), nil
	}

	var (
		issues      []plugin.ValidationIssue
		suggestions []string
	)
	switch {
	case v.builder.IsStale(content):
		issues = append(issues, plugin.ValidationIssue{Kind: KindStaleTOC, Message: "table of contents does not match the headings", Severity: 3})
		suggestions = append(suggestions, "Regenerate the table of contents")
	case !v.builder.HasExisting(content) && countEntries(v.builder.Entries(content)) >= v.minEntries:
		issues = append(issues, plugin.ValidationIssue{Kind: KindMissingTOC, Message: "long document has no table of contents", Severity: 2})
		suggestions = append(suggestions, "Insert a table of contents")
	}
	return plugin.NewQualityReport(issues, suggestions), nil
}

func countEntries(entries []toc.Entry) int {
	n := 0
	for _, e := range entries {
		n += 1 + countEntries(e.Children)
	}
	return n
}
