package validators

import (
	"context"
	"fmt"
	"unicode/utf8"

	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/plugin"
)

// Issue kinds reported by Metadata.
const (
	KindMissingTitle       = "missing-title"
	KindMissingDescription = "missing-description"
	KindShortDescription   = "short-description"
	KindLongDescription    = "long-description"
	KindNoTags             = "no-tags"
)

// Metadata grades the enhanced metadata itself.
type Metadata struct {
	minDescription int
	maxDescription int
}

// NewMetadata creates the validator. Non-positive bounds fall back to 20 and 150.
func NewMetadata(minDescription, maxDescription int) *Metadata {
	if minDescription <= 0 {
		minDescription = 20
	}
	if maxDescription <= 0 {
		maxDescription = 150
	}
	return &Metadata{minDescription: minDescription, maxDescription: maxDescription}
}

func (v *Metadata) Info() plugin.Info {
	return plugin.Info{
		Name:        "metadata-completeness",
		Version:     "v1.0.0",
		Priority:    50,
		Description: "Checks that title, description and tags are usable",
	}
}

func (v *Metadata) Validate(_ context.Context, _ string, meta *docmodel.Metadata, _ *docmodel.ProcessingContext) (plugin.QualityReport, error) {
	if meta == nil {
		meta = docmodel.NewMetadata()
	}

	var (
		issues      []plugin.ValidationIssue
		suggestions []string
	)
	if meta.Title == "" {
		issues = append(issues, plugin.ValidationIssue{Kind: KindMissingTitle, Message: "document has no title", Severity: 8})
		suggestions = append(suggestions, "Add a level-1 heading or a title field")
	}

	switch n := utf8.RuneCountInString(meta.Description); {
	case n == 0:
		issues = append(issues, plugin.ValidationIssue{Kind: KindMissingDescription, Message: "document has no description", Severity: 6})
		suggestions = append(suggestions, "Start the document with an introductory paragraph")
	case n < v.minDescription:
		issues = append(issues, plugin.ValidationIssue{
			Kind:     KindShortDescription,
			Message:  fmt.Sprintf("description has %d characters, expected at least %d", n, v.minDescription),
			Severity: 3,
		})
	case n > v.maxDescription:
		issues = append(issues, plugin.ValidationIssue{
			Kind:     KindLongDescription,
			Message:  fmt.Sprintf("description has %d characters, expected at most %d", n, v.maxDescription),
			Severity: 3,
		})
	}

	if meta.Tags.Len() == 0 {
		issues = append(issues, plugin.ValidationIssue{Kind: KindNoTags, Message: "document has no tags", Severity: 2})
		suggestions = append(suggestions, "Add tags to improve discoverability")
	}
	return plugin.NewQualityReport(issues, suggestions), nil
}
