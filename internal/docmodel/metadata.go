package docmodel

import (
	"fmt"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docenrich/internal/frontmatter"
	"git.home.luguber.info/inful/docenrich/internal/util/sets"
)

// Well-known frontmatter keys.
const (
	KeyTitle       = "title"
	KeyDescription = "description"
	KeyCategory    = "category"
	KeyTags        = "tags"
)

// Tags is a de-duplicated tag list that keeps first-occurrence order.
// Comparison is case-insensitive; the first spelling wins.
type Tags struct {
	items []string
}

// NewTags builds a tag list from values.
func NewTags(values ...string) Tags {
	var t Tags
	t.Add(values...)
	return t
}

// Add appends values that are not yet present. Blank values are ignored.
func (t *Tags) Add(values ...string) {
	seen := sets.New[string]()
	for _, existing := range t.items {
		seen.Add(strings.ToLower(existing))
	}
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen.Has(key) {
			continue
		}
		seen.Add(key)
		t.items = append(t.items, v)
	}
}

// Has reports whether tag is present (case-insensitive).
func (t Tags) Has(tag string) bool {
	for _, existing := range t.items {
		if strings.EqualFold(existing, tag) {
			return true
		}
	}
	return false
}

// Len returns the number of tags.
func (t Tags) Len() int { return len(t.items) }

// Slice returns a copy of the tags in order.
func (t Tags) Slice() []string {
	out := make([]string, len(t.items))
	copy(out, t.items)
	return out
}

// Metadata is the document metadata threaded through the enhancer chain.
type Metadata struct {
	Title       string
	Description string
	Category    string
	Tags        Tags
	// Extra holds format-specific keys such as reading_time or mdx.
	Extra map[string]any
}

// NewMetadata returns empty metadata with an initialized extension area.
func NewMetadata() *Metadata {
	return &Metadata{Extra: map[string]any{}}
}

// Clone returns a deep copy.
func (m *Metadata) Clone() *Metadata {
	if m == nil {
		return NewMetadata()
	}
	out := &Metadata{
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		Tags:        Tags{items: m.Tags.Slice()},
		Extra:       make(map[string]any, len(m.Extra)),
	}
	for k, v := range m.Extra {
		out.Extra[k] = cloneValue(v)
	}
	return out
}

// SetExtra stores a value in the extension area.
func (m *Metadata) SetExtra(key string, value any) {
	if m.Extra == nil {
		m.Extra = map[string]any{}
	}
	m.Extra[key] = value
}

// ExtraString returns a string extension value.
func (m *Metadata) ExtraString(key string) string {
	if v, ok := m.Extra[key].(string); ok {
		return v
	}
	return ""
}

// Fields returns the metadata as ordered frontmatter fields: title,
// description, category, tags, then extension keys sorted by name.
func (m *Metadata) Fields() []frontmatter.Field {
	var fields []frontmatter.Field
	if m.Title != "" {
		fields = append(fields, frontmatter.Field{Key: KeyTitle, Value: m.Title})
	}
	if m.Description != "" {
		fields = append(fields, frontmatter.Field{Key: KeyDescription, Value: m.Description})
	}
	if m.Category != "" {
		fields = append(fields, frontmatter.Field{Key: KeyCategory, Value: m.Category})
	}
	if m.Tags.Len() > 0 {
		fields = append(fields, frontmatter.Field{Key: KeyTags, Value: m.Tags.Slice()})
	}

	keys := make([]string, 0, len(m.Extra))
	for k := range m.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, frontmatter.Field{Key: k, Value: m.Extra[k]})
	}
	return fields
}

// MetadataFromFields reads known keys from parsed frontmatter; everything
// else lands in Extra.
func MetadataFromFields(fields []frontmatter.Field) *Metadata {
	m := NewMetadata()
	for _, f := range fields {
		switch f.Key {
		case KeyTitle:
			m.Title = scalarString(f.Value)
		case KeyDescription:
			m.Description = scalarString(f.Value)
		case KeyCategory:
			m.Category = scalarString(f.Value)
		case KeyTags:
			m.Tags.Add(stringList(f.Value)...)
		default:
			m.Extra[f.Key] = f.Value
		}
	}
	return m
}

// Merge combines three metadata layers with a fixed precedence:
//
//   - Title, Description, Category: first non-empty of overrides, derived, defaults.
//   - Tags: ordered union of overrides, then derived, then defaults.
//   - Extra: defaults, then derived, then overrides; a later layer replaces a key.
//
// Nil layers are treated as empty. Inputs are not modified.
func Merge(defaults, derived, overrides *Metadata) *Metadata {
	layers := []*Metadata{overrides, derived, defaults}
	out := NewMetadata()

	for _, l := range layers {
		if l == nil {
			continue
		}
		out.Title = firstNonEmpty(out.Title, l.Title)
		out.Description = firstNonEmpty(out.Description, l.Description)
		out.Category = firstNonEmpty(out.Category, l.Category)
		out.Tags.Add(l.Tags.items...)
	}

	for i := len(layers) - 1; i >= 0; i-- {
		if layers[i] == nil {
			continue
		}
		for k, v := range layers[i].Extra {
			out.Extra[k] = cloneValue(v)
		}
	}
	return out
}

func firstNonEmpty(current, candidate string) string {
	if strings.TrimSpace(current) != "" {
		return current
	}
	return candidate
}

func scalarString(v any) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	case []any, map[string]any:
		return ""
	default:
		return fmt.Sprint(vv)
	}
}

func stringList(v any) []string {
	switch vv := v.(type) {
	case string:
		return strings.Split(vv, ",")
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s := scalarString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func cloneValue(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, item := range vv {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(vv))
		for i, item := range vv {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(vv))
		copy(out, vv)
		return out
	default:
		return v
	}
}
