package docmodel

import (
	"os"

	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
	"git.home.luguber.info/inful/docenrich/internal/frontmatter"
)

// ParsedDoc represents a document split into YAML frontmatter and body.
//
// This model centralizes the split/join workflow so that callers don't
// re-implement boundary handling and style capture.
type ParsedDoc struct {
	original string
	fmRaw    string
	body     string
	hadFM    bool
	style    frontmatter.Style
}

// Parse parses raw document content into a ParsedDoc.
func Parse(content string) (*ParsedDoc, error) {
	fmRaw, body, had, style, err := frontmatter.Split([]byte(content))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to split frontmatter").Build()
	}

	return &ParsedDoc{
		original: content,
		fmRaw:    string(fmRaw),
		body:     string(body),
		hadFM:    had,
		style:    style,
	}, nil
}

// ParseFile reads a file from disk and parses it into a ParsedDoc.
func ParseFile(path string) (*ParsedDoc, error) {
	// #nosec G304 -- path is provided by the batch collaborator.
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", path).
			Build()
	}

	doc, err := Parse(string(content))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse document").
			WithContext("path", path).
			Build()
	}
	return doc, nil
}

// SplitBody returns the body of content, or the whole content when the
// frontmatter cannot be split. offset is the byte index where the body starts.
func SplitBody(content string) (body string, offset int) {
	doc, err := Parse(content)
	if err != nil {
		return content, 0
	}
	return doc.body, doc.BodyOffset()
}

// Original returns the original content.
func (d *ParsedDoc) Original() string {
	return d.original
}

// HadFrontmatter reports whether the original document contained a YAML frontmatter block.
func (d *ParsedDoc) HadFrontmatter() bool {
	return d.hadFM
}

// FrontmatterRaw returns the raw YAML frontmatter (without delimiters).
func (d *ParsedDoc) FrontmatterRaw() string {
	return d.fmRaw
}

// Body returns the Markdown body (frontmatter removed).
func (d *ParsedDoc) Body() string {
	return d.body
}

// BodyOffset returns the byte offset of the body within the original content.
func (d *ParsedDoc) BodyOffset() int {
	return len(d.original) - len(d.body)
}

// Style returns the detected formatting style from frontmatter splitting.
func (d *ParsedDoc) Style() frontmatter.Style {
	return d.style
}

// Fields parses the frontmatter block, preserving key order.
func (d *ParsedDoc) Fields() ([]frontmatter.Field, error) {
	if !d.hadFM {
		return []frontmatter.Field{}, nil
	}
	fields, err := frontmatter.ParseOrdered([]byte(d.fmRaw))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid frontmatter yaml").Build()
	}
	return fields, nil
}

// String re-joins frontmatter and body into full document content.
func (d *ParsedDoc) String() string {
	return string(frontmatter.Join([]byte(d.fmRaw), []byte(d.body), d.hadFM, d.style))
}

// WithFrontmatter returns content with the frontmatter block replaced by
// fields, keeping the body and newline style unchanged.
func (d *ParsedDoc) WithFrontmatter(fields []frontmatter.Field) (string, error) {
	raw, err := frontmatter.Encode(fields, d.style)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryValidation, "failed to encode frontmatter").Build()
	}
	return string(frontmatter.Join(raw, []byte(d.body), true, d.style)), nil
}

// WithMetadata returns content whose frontmatter carries meta merged over
// the existing keys. Metadata values win; title and description lead, and
// other existing keys keep their order ahead of new ones.
func (d *ParsedDoc) WithMetadata(meta *Metadata) (string, error) {
	existing, err := d.Fields()
	if err != nil {
		return "", err
	}

	incoming := meta.Fields()
	index := make(map[string]int, len(incoming))
	for i, f := range incoming {
		index[f.Key] = i
	}

	var lead, rest []frontmatter.Field
	used := make(map[string]bool, len(incoming))
	for _, key := range []string{KeyTitle, KeyDescription} {
		if i, ok := index[key]; ok {
			lead = append(lead, incoming[i])
			used[key] = true
			continue
		}
		for _, f := range existing {
			if f.Key == key {
				lead = append(lead, f)
				used[key] = true
				break
			}
		}
	}
	for _, f := range existing {
		if used[f.Key] {
			continue
		}
		if i, ok := index[f.Key]; ok {
			f = incoming[i]
		}
		used[f.Key] = true
		rest = append(rest, f)
	}
	for _, f := range incoming {
		if !used[f.Key] {
			rest = append(rest, f)
		}
	}
	return d.WithFrontmatter(append(lead, rest...))
}
