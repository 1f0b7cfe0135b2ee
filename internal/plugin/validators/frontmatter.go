// Package validators contains the built-in quality validators.
package validators

import (
	"context"

	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/fmrepair"
	"git.home.luguber.info/inful/docenrich/internal/plugin"
)

var frontmatterSuggestions = map[string]string{
	fmrepair.KindMissingFrontmatter:   "Run the repair command to add a frontmatter block",
	fmrepair.KindMalformedFrontmatter: "Close the frontmatter block with a --- line",
	fmrepair.KindInvalidFrontmatter:   "Fix the YAML syntax or run the repair command",
	fmrepair.KindMissingField:         "Add the missing field or let the repair command derive it",
	fmrepair.KindDescriptionTooLong:   "Shorten the description",
	fmrepair.KindEmptyBody:            "Add content below the frontmatter",
}

// Frontmatter grades the document's frontmatter block.
type Frontmatter struct {
	engine *fmrepair.Engine
}

// NewFrontmatter wraps engine.
func NewFrontmatter(engine *fmrepair.Engine) *Frontmatter {
	if engine == nil {
		engine = fmrepair.New(nil, fmrepair.Options{})
	}
	return &Frontmatter{engine: engine}
}

func (v *Frontmatter) Info() plugin.Info {
	return plugin.Info{
		Name:        "frontmatter-quality",
		Version:     "v1.0.0",
		Priority:    100,
		Description: "Checks frontmatter presence, syntax and required fields",
	}
}

func (v *Frontmatter) Validate(_ context.Context, content string, _ *docmodel.Metadata, pctx *docmodel.ProcessingContext) (plugin.QualityReport, error) {
	path := ""
	if pctx != nil {
		path = pctx.InputPath()
	}
	res := v.engine.ValidateContent(content, path)

	var (
		issues      []plugin.ValidationIssue
		suggestions []string
		seen        = map[string]bool{}
	)
	for _, is := range res.Issues {
		issues = append(issues, plugin.ValidationIssue{Kind: is.Kind, Message: is.Message, Severity: is.Severity})
		if s, ok := frontmatterSuggestions[is.Kind]; ok && !seen[s] {
			seen[s] = true
			suggestions = append(suggestions, s)
		}
	}
	return plugin.NewQualityReport(issues, suggestions), nil
}
