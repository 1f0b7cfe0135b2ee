package enhancers

import (
	"context"

	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/mdx"
	"git.home.luguber.info/inful/docenrich/internal/plugin"
)

// KeyMDX is the metadata key holding the MDX summary.
const KeyMDX = "mdx"

// MDX records component usage and interactivity for .mdx documents. Other
// extensions pass through unchanged.
type MDX struct {
	analyzer *mdx.Analyzer
}

// NewMDX wraps a.
func NewMDX(a *mdx.Analyzer) *MDX {
	if a == nil {
		a = mdx.NewAnalyzer(mdx.Options{})
	}
	return &MDX{analyzer: a}
}

func (p *MDX) Info() plugin.Info {
	return plugin.Info{
		Name:        "mdx",
		Version:     "v1.0.0",
		Priority:    50,
		Description: "Detects JSX components, ESM statements and interactive features in MDX",
	}
}

func (p *MDX) Enhance(_ context.Context, meta *docmodel.Metadata, pctx *docmodel.ProcessingContext) (*docmodel.Metadata, error) {
	if pctx == nil || pctx.Extension() != docmodel.ExtMDX {
		return meta, nil
	}
	content, err := documentContent(pctx)
	if err != nil {
		return nil, err
	}

	info := p.analyzer.Analyze(content)
	meta.SetExtra(KeyMDX, info.Summary())
	meta.Tags.Add(info.Tags...)
	return meta, nil
}
