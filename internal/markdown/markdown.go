// Package markdown inspects Markdown bodies (frontmatter already removed).
//
// Structural analysis goes through the goldmark AST; line-oriented callers
// (TOC insertion, paragraph scanning) use ScanLines, which tracks fenced
// code so that headings and paragraphs inside code are never reported.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Heading is a heading found in document order.
type Heading struct {
	Level int
	Text  string
}

// CodeBlock is a fenced code block. Language is empty when none was declared.
type CodeBlock struct {
	Language string
	Lines    int
}

// Structure summarizes the structural signals of a Markdown body.
type Structure struct {
	Headings   []Heading
	CodeBlocks []CodeBlock
	Links      int
	Images     int
}

// MaxHeadingDepth returns the deepest heading level, or 0 when there are no headings.
func (s Structure) MaxHeadingDepth() int {
	depth := 0
	for _, h := range s.Headings {
		if h.Level > depth {
			depth = h.Level
		}
	}
	return depth
}

// FirstHeading returns the first heading of the given level.
func (s Structure) FirstHeading(level int) (string, bool) {
	for _, h := range s.Headings {
		if h.Level == level && h.Text != "" {
			return h.Text, true
		}
	}
	return "", false
}

var engine = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ParseBody parses a Markdown body into a Goldmark AST.
func ParseBody(body []byte) gmast.Node {
	return engine.Parser().Parse(text.NewReader(body))
}

// Inspect parses body and collects headings, fenced code blocks and links.
func Inspect(body []byte) Structure {
	var s Structure
	root := ParseBody(body)

	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.Heading:
			s.Headings = append(s.Headings, Heading{Level: node.Level, Text: InlineText(node, body)})
		case *gmast.FencedCodeBlock:
			s.CodeBlocks = append(s.CodeBlocks, CodeBlock{
				Language: strings.ToLower(string(node.Language(body))),
				Lines:    node.Lines().Len(),
			})
			return gmast.WalkSkipChildren, nil
		case *gmast.Link, *gmast.AutoLink:
			s.Links++
		case *gmast.Image:
			s.Images++
		}
		return gmast.WalkContinue, nil
	})

	return s
}

// InlineText returns the plain text of an inline container such as a heading.
func InlineText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *gmast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(node.Value)
		case *gmast.RawHTML:
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
