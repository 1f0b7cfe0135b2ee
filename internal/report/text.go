package report

import (
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/docenrich/internal/plugin"
)

// TextFormatter prints one block per document followed by totals.
type TextFormatter struct {
	// Quiet omits documents without issues or failures.
	Quiet bool
}

func (f *TextFormatter) Format(w io.Writer, sum Summary) error {
	p := &printer{w: w}
	for _, doc := range sum.Documents {
		if f.Quiet && doc.Error == "" && len(doc.Failures) == 0 && !hasIssues(doc) {
			continue
		}
		f.formatDocument(p, doc)
	}

	p.line(strings.Repeat("━", 60))
	p.printf("%d document%s processed", len(sum.Documents), pluralize(len(sum.Documents)))
	if sum.Failed > 0 {
		p.printf(", %d failed", sum.Failed)
	}
	if sum.Degraded > 0 {
		p.printf(", %d degraded", sum.Degraded)
	}
	p.line("")
	return p.err
}

func (f *TextFormatter) formatDocument(p *printer, doc Document) {
	if doc.Error != "" {
		p.line(fmt.Sprintf("✗ %s", doc.Path))
		p.line("  error: " + doc.Error)
		p.line("")
		return
	}

	p.line(fmt.Sprintf("%s %s [%s %d]", icon(doc.Level), doc.Path, doc.Level, doc.Score))
	for _, msg := range doc.Repaired {
		p.line("  repaired: " + msg)
	}
	if doc.TOCInserted {
		p.line("  inserted table of contents")
	}
	for _, failure := range doc.Failures {
		p.line("  plugin failure: " + failure)
	}
	for _, r := range doc.Reports {
		for _, is := range r.Issues {
			p.line(fmt.Sprintf("  %-6s %s (%s)", is.Bucket(), is.Message, r.Plugin))
		}
		for _, s := range r.Suggestions {
			p.line("  hint:  " + s)
		}
	}
	p.line("")
}

func hasIssues(doc Document) bool {
	for _, r := range doc.Reports {
		if len(r.Issues) > 0 {
			return true
		}
	}
	return false
}

func icon(level plugin.Level) string {
	switch level {
	case plugin.LevelHigh:
		return "✓"
	case plugin.LevelMedium:
		return "⚠"
	default:
		return "✗"
	}
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// printer keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

func (p *printer) line(s string) { p.printf("%s\n", s) }
