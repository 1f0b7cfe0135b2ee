package fmrepair

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docenrich/internal/analyzer"
	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/frontmatter"
)

// Repair messages.
const (
	MsgNoRepairs          = "No repairs needed"
	MsgAddedFrontmatter   = "Added missing frontmatter"
	MsgAddedTitle         = "Added missing title"
	MsgAddedDescription   = "Added missing description"
	MsgRepairedSyntax     = "Repaired invalid frontmatter syntax"
	MsgNormalizedSpacing  = "Normalized whitespace in frontmatter values"
	MsgUnclosedBlock      = "Frontmatter block has no closing delimiter"
	MsgUnsalvageableBlock = "Frontmatter contains lines that are not key/value pairs"
	MsgUnencodableValue   = "Frontmatter contains invalid UTF-8 or NUL bytes"
)

// Result describes the outcome of RepairFrontmatter. RepairedContent equals
// the input whenever Fixed is false.
type Result struct {
	Success         bool
	Fixed           bool
	RepairedContent string
	Issues          []string
}

var (
	keyValueLine = regexp.MustCompile(`^([A-Za-z0-9_][A-Za-z0-9_.\-]*)\s*:(?:\s+(.*))?$`)
	collapseWS   = regexp.MustCompile(`\s+`)
)

// RepairFrontmatter returns content with a well-formed frontmatter block
// carrying all required fields. Running it on its own output reports
// MsgNoRepairs and returns the input unchanged.
func (e *Engine) RepairFrontmatter(content, path string) Result {
	fm, body, had, style, err := frontmatter.Split([]byte(content))
	if errors.Is(err, frontmatter.ErrMissingClosingDelimiter) {
		return failed(content, MsgUnclosedBlock)
	}
	if err != nil {
		return failed(content, err.Error())
	}

	var (
		fields []frontmatter.Field
		issues []string
	)
	switch {
	case !had:
		issues = append(issues, MsgAddedFrontmatter)
		body = []byte(content)
	default:
		if bytesHaveBadText(fm) {
			return failed(content, MsgUnencodableValue)
		}
		parsed, perr := frontmatter.ParseOrdered(fm)
		if perr != nil {
			salvaged, ok := salvage(string(fm))
			if !ok {
				return failed(content, MsgUnsalvageableBlock)
			}
			parsed = salvaged
			issues = append(issues, MsgRepairedSyntax)
		}
		fields = parsed
	}

	if normalizeStrings(fields) {
		issues = append(issues, MsgNormalizedSpacing)
	}

	values := fieldIndex(fields)
	title := stringValue(values[docmodel.KeyTitle])
	if title == "" && e.requires(docmodel.KeyTitle) {
		title = cleanString(e.analyzer.Title(string(body), path))
		fields = setField(fields, docmodel.KeyTitle, title)
		if had {
			issues = append(issues, MsgAddedTitle)
		}
	}

	desc := stringValue(values[docmodel.KeyDescription])
	if desc == "" && e.requires(docmodel.KeyDescription) {
		desc = cleanString(e.analyzer.Description(string(body)))
		if desc == "" {
			desc = fallbackDescription(title)
		}
		fields = setField(fields, docmodel.KeyDescription, desc)
		if had {
			issues = append(issues, MsgAddedDescription)
		}
	}
	if utf8.RuneCountInString(desc) > e.opts.DescriptionMaxLength {
		desc = analyzer.NormalizeDescription(desc, e.opts.DescriptionMaxLength)
		fields = setField(fields, docmodel.KeyDescription, desc)
		issues = append(issues, fmt.Sprintf("Truncated description to %d characters", e.opts.DescriptionMaxLength))
	}

	if len(issues) == 0 {
		return Result{Success: true, RepairedContent: content, Issues: []string{MsgNoRepairs}}
	}

	raw, err := frontmatter.Encode(orderFields(fields), style)
	if err != nil {
		return failed(content, MsgUnencodableValue)
	}
	return Result{
		Success:         true,
		Fixed:           true,
		RepairedContent: string(frontmatter.Join(raw, body, true, style)),
		Issues:          issues,
	}
}

func (e *Engine) requires(key string) bool {
	for _, k := range e.opts.RequiredFields {
		if k == key {
			return true
		}
	}
	return false
}

func failed(content, msg string) Result {
	return Result{RepairedContent: content, Issues: []string{msg}}
}

func fallbackDescription(title string) string {
	if title == "" {
		title = analyzer.UntitledTitle
	}
	return "About " + strings.TrimRight(title, ".!?") + "."
}

func bytesHaveBadText(b []byte) bool {
	return !utf8.Valid(b) || strings.ContainsRune(string(b), 0)
}

// salvage rebuilds fields from a block the YAML parser rejected. Every
// non-blank line must be a comment, a "key: value" pair or a list item
// belonging to the preceding key.
func salvage(block string) ([]frontmatter.Field, bool) {
	var fields []frontmatter.Field
	current := -1

	for _, line := range strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "#"):
			continue
		case trimmed == "-" || strings.HasPrefix(trimmed, "- "):
			if current < 0 {
				return nil, false
			}
			item := salvageScalar(strings.TrimSpace(strings.TrimPrefix(trimmed, "-")))
			list, _ := fields[current].Value.([]any)
			fields[current].Value = append(list, item)
		default:
			m := keyValueLine.FindStringSubmatch(trimmed)
			if m == nil {
				return nil, false
			}
			var value any
			if v := strings.TrimSpace(m[2]); v != "" {
				value = salvageScalar(v)
			}
			fields = setField(fields, m[1], value)
			current = indexOf(fields, m[1])
		}
	}
	return fields, true
}

// salvageScalar keeps typed scalars (numbers, booleans, dates) when the value
// parses on its own and falls back to the unquoted text otherwise.
func salvageScalar(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err == nil {
		switch v.(type) {
		case []any, map[string]any, nil:
		default:
			return v
		}
	}
	if len(raw) >= 2 {
		if (raw[0] == '"' && raw[len(raw)-1] == '"') || (raw[0] == '\'' && raw[len(raw)-1] == '\'') {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}

// normalizeStrings collapses whitespace runs in top-level string values and
// string list items. It reports whether anything changed.
func normalizeStrings(fields []frontmatter.Field) bool {
	changed := false
	clean := func(s string) string {
		out := cleanString(s)
		if out != s {
			changed = true
		}
		return out
	}
	for i := range fields {
		switch v := fields[i].Value.(type) {
		case string:
			fields[i].Value = clean(v)
		case []any:
			for j, item := range v {
				if s, ok := item.(string); ok {
					v[j] = clean(s)
				}
			}
		}
	}
	return changed
}

func cleanString(s string) string {
	return strings.TrimSpace(collapseWS.ReplaceAllString(s, " "))
}

func setField(fields []frontmatter.Field, key string, value any) []frontmatter.Field {
	if i := indexOf(fields, key); i >= 0 {
		fields[i].Value = value
		return fields
	}
	return append(fields, frontmatter.Field{Key: key, Value: value})
}

func indexOf(fields []frontmatter.Field, key string) int {
	for i, f := range fields {
		if f.Key == key {
			return i
		}
	}
	return -1
}

// orderFields moves title and description to the front, keeping the
// remaining keys in their original order.
func orderFields(fields []frontmatter.Field) []frontmatter.Field {
	out := make([]frontmatter.Field, 0, len(fields))
	for _, key := range []string{docmodel.KeyTitle, docmodel.KeyDescription} {
		if i := indexOf(fields, key); i >= 0 {
			out = append(out, fields[i])
		}
	}
	for _, f := range fields {
		if f.Key != docmodel.KeyTitle && f.Key != docmodel.KeyDescription {
			out = append(out, f)
		}
	}
	return out
}
