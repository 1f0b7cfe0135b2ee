// Package fmrepair validates YAML frontmatter blocks and repairs the common
// ways they go wrong: missing blocks, missing required fields, broken syntax
// and over-long descriptions.
package fmrepair

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"git.home.luguber.info/inful/docenrich/internal/analyzer"
	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/frontmatter"
)

// Issue kinds reported by ValidateContent.
const (
	KindMissingFrontmatter   = "missing-frontmatter"
	KindMalformedFrontmatter = "malformed-frontmatter"
	KindInvalidFrontmatter   = "invalid-frontmatter"
	KindMissingField         = "missing-field"
	KindDescriptionTooLong   = "description-too-long"
	KindEmptyBody            = "empty-body"
)

// Overall quality grades.
const (
	OverallGood = "good"
	OverallFair = "fair"
	OverallPoor = "poor"
)

// BlockingSeverity is the lowest severity that makes a document invalid.
const BlockingSeverity = 7

// Issue is one validation finding. Severity ranges 0-10.
type Issue struct {
	Kind     string
	Field    string
	Message  string
	Severity int
}

// Score grades the frontmatter. Value is 100 minus ten points per severity
// unit, floored at zero.
type Score struct {
	Overall string
	Value   int
}

// Validation is the result of ValidateContent.
type Validation struct {
	Valid  bool
	Issues []Issue
	Score  Score
}

// Options configures validation and repair.
type Options struct {
	RequiredFields       []string
	DescriptionMaxLength int
}

// DefaultOptions requires title and description and caps descriptions at 150 characters.
func DefaultOptions() Options {
	return Options{
		RequiredFields:       []string{docmodel.KeyTitle, docmodel.KeyDescription},
		DescriptionMaxLength: 150,
	}
}

// Engine validates and repairs frontmatter. It is safe for concurrent use.
type Engine struct {
	analyzer *analyzer.Analyzer
	opts     Options
}

// New creates an engine that fills missing fields using a.
func New(a *analyzer.Analyzer, opts Options) *Engine {
	d := DefaultOptions()
	if len(opts.RequiredFields) == 0 {
		opts.RequiredFields = d.RequiredFields
	}
	if opts.DescriptionMaxLength <= 0 {
		opts.DescriptionMaxLength = d.DescriptionMaxLength
	}
	if a == nil {
		a = analyzer.New(analyzer.Options{DescriptionMaxLength: opts.DescriptionMaxLength})
	}
	return &Engine{analyzer: a, opts: opts}
}

// ValidateContent checks the frontmatter block of content. path is accepted
// for symmetry with RepairFrontmatter and used in messages only.
func (e *Engine) ValidateContent(content, path string) Validation {
	var issues []Issue

	fm, body, had, _, err := frontmatter.Split([]byte(content))
	switch {
	case errors.Is(err, frontmatter.ErrMissingClosingDelimiter):
		issues = append(issues, Issue{
			Kind:     KindMalformedFrontmatter,
			Message:  "frontmatter block is missing its closing delimiter",
			Severity: 9,
		})
		return newValidation(issues)
	case !had:
		issues = append(issues, Issue{
			Kind:     KindMissingFrontmatter,
			Message:  "document has no frontmatter block",
			Severity: 9,
		})
		return newValidation(issues)
	}

	fields, err := frontmatter.ParseOrdered(fm)
	if err != nil {
		issues = append(issues, Issue{
			Kind:     KindInvalidFrontmatter,
			Message:  fmt.Sprintf("frontmatter is not valid YAML: %v", err),
			Severity: 8,
		})
		return newValidation(issues)
	}

	values := fieldIndex(fields)
	for _, key := range e.opts.RequiredFields {
		if stringValue(values[key]) == "" {
			issues = append(issues, Issue{
				Kind:     KindMissingField,
				Field:    key,
				Message:  fmt.Sprintf("missing required field %q", key),
				Severity: 7,
			})
		}
	}

	if desc := stringValue(values[docmodel.KeyDescription]); utf8.RuneCountInString(desc) > e.opts.DescriptionMaxLength {
		issues = append(issues, Issue{
			Kind:     KindDescriptionTooLong,
			Field:    docmodel.KeyDescription,
			Message:  fmt.Sprintf("description is longer than %d characters", e.opts.DescriptionMaxLength),
			Severity: 3,
		})
	}

	if strings.TrimSpace(string(body)) == "" {
		issues = append(issues, Issue{
			Kind:     KindEmptyBody,
			Message:  "document body is empty",
			Severity: 5,
		})
	}

	return newValidation(issues)
}

func newValidation(issues []Issue) Validation {
	sum := 0
	valid := true
	for _, is := range issues {
		sum += is.Severity
		if is.Severity >= BlockingSeverity {
			valid = false
		}
	}

	overall := OverallPoor
	switch {
	case sum == 0:
		overall = OverallGood
	case sum < BlockingSeverity:
		overall = OverallFair
	}

	return Validation{
		Valid:  valid,
		Issues: issues,
		Score:  Score{Overall: overall, Value: max(0, 100-10*sum)},
	}
}

func fieldIndex(fields []frontmatter.Field) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}

// stringValue returns the trimmed text of a scalar value, or "" for
// missing, null and non-scalar values.
func stringValue(v any) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(vv)
	case []any, map[string]any:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(vv))
	}
}
