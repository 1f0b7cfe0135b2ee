package enhancers

import (
	"context"

	"git.home.luguber.info/inful/docenrich/internal/analyzer"
	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/plugin"
)

// ContentAnalyzer derives title, description, tags and content statistics.
// Title, description and category already present in the incoming metadata
// take precedence; statistics are always recomputed.
type ContentAnalyzer struct {
	analyzer *analyzer.Analyzer
}

// NewContentAnalyzer wraps a.
func NewContentAnalyzer(a *analyzer.Analyzer) *ContentAnalyzer {
	if a == nil {
		a = analyzer.New(analyzer.Options{})
	}
	return &ContentAnalyzer{analyzer: a}
}

func (p *ContentAnalyzer) Info() plugin.Info {
	return plugin.Info{
		Name:        "content-analyzer",
		Version:     "v1.0.0",
		Priority:    100,
		Description: "Derives title, description, tags and reading statistics from the document body",
	}
}

func (p *ContentAnalyzer) Enhance(ctx context.Context, meta *docmodel.Metadata, pctx *docmodel.ProcessingContext) (*docmodel.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := documentContent(pctx)
	if err != nil {
		return nil, err
	}
	derived := p.analyzer.Analyze(content, pctx.InputPath()).Metadata
	merged := docmodel.Merge(nil, derived, meta)
	for k, v := range derived.Extra {
		merged.SetExtra(k, v)
	}
	return merged, nil
}
