package toc

import (
	"strings"

	"golang.org/x/net/html"
)

var linkTextEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`)

// RenderMarkdown renders entries as a nested bullet list, two spaces of
// indentation per tree level.
func RenderMarkdown(entries []Entry) string {
	var b strings.Builder
	renderMarkdown(&b, entries, 0)
	return b.String()
}

func renderMarkdown(b *strings.Builder, entries []Entry, depth int) {
	for _, e := range entries {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString("- [")
		b.WriteString(linkTextEscaper.Replace(e.Title))
		b.WriteString("](#")
		b.WriteString(e.Anchor)
		b.WriteString(")\n")
		renderMarkdown(b, e.Children, depth+1)
	}
}

// RenderHTML renders entries as nested <ul> lists. Titles and anchors are escaped.
func RenderHTML(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	renderHTML(&b, entries, 0)
	return b.String()
}

func renderHTML(b *strings.Builder, entries []Entry, depth int) {
	indent := strings.Repeat("  ", 2*depth)
	b.WriteString(indent + "<ul>\n")
	for _, e := range entries {
		b.WriteString(indent + "  <li><a href=\"#" + html.EscapeString(e.Anchor) + "\">" + html.EscapeString(e.Title) + "</a>")
		if len(e.Children) > 0 {
			b.WriteString("\n")
			renderHTML(b, e.Children, depth+1)
			b.WriteString(indent + "  ")
		}
		b.WriteString("</li>\n")
	}
	b.WriteString(indent + "</ul>\n")
}

// Entries returns the entries an inserted TOC lists: Generate with level-1
// entries replaced by their children.
func (b *Builder) Entries(content string) []Entry {
	return flatten(b.Generate(content))
}

// flatten replaces level-1 entries by their children; the document title is
// not listed in an inserted TOC.
func flatten(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Level == 1 {
			out = append(out, e.Children...)
			continue
		}
		out = append(out, e)
	}
	return out
}
