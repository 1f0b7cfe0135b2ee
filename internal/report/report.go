// Package report renders batch outcomes as text or JSON.
package report

import (
	"fmt"
	"io"

	"git.home.luguber.info/inful/docenrich/internal/batch"
	"git.home.luguber.info/inful/docenrich/internal/plugin"
)

// Document is the printable outcome of one document.
type Document struct {
	Path        string         `json:"path"`
	Error       string         `json:"error,omitempty"`
	Changed     bool           `json:"changed"`
	Repaired    []string       `json:"repaired,omitempty"`
	TOCInserted bool           `json:"toc_inserted"`
	Reports     []PluginReport `json:"reports"`
	Failures    []string       `json:"failures,omitempty"`
	Score       int            `json:"score"`
	Level       plugin.Level   `json:"level"`
}

// PluginReport is one validator's report.
type PluginReport struct {
	Plugin string `json:"plugin"`
	plugin.QualityReport
}

// Summary is a whole run.
type Summary struct {
	RunID     string     `json:"run_id"`
	Documents []Document `json:"documents"`
	Failed    int        `json:"failed"`
	Degraded  int        `json:"degraded"`
}

// FromBatch converts a batch summary. changed reports whether the writer
// modified a document; it may be nil.
func FromBatch(sum batch.Summary, changed func(path string) bool) Summary {
	out := Summary{RunID: sum.RunID, Documents: make([]Document, 0, len(sum.Results))}
	for _, res := range sum.Results {
		doc := Document{Path: res.Item.InputPath, Reports: []PluginReport{}, Score: 100, Level: plugin.LevelHigh}
		if res.Err != nil {
			doc.Error = res.Err.Error()
			doc.Score, doc.Level = 0, plugin.LevelLow
			out.Failed++
			out.Documents = append(out.Documents, doc)
			continue
		}

		o := res.Output
		if o.Repair != nil && o.Repair.Fixed {
			doc.Repaired = o.Repair.Issues
		}
		doc.TOCInserted = o.TOCInserted
		for _, f := range o.Failures {
			doc.Failures = append(doc.Failures, f.Error())
		}
		for _, r := range o.Reports {
			doc.Reports = append(doc.Reports, PluginReport{Plugin: r.Plugin.String(), QualityReport: r.Report})
			if r.Report.Score < doc.Score {
				doc.Score, doc.Level = r.Report.Score, r.Report.Level
			}
		}
		if changed != nil {
			doc.Changed = changed(doc.Path)
		}
		if o.Degraded() {
			out.Degraded++
		}
		out.Documents = append(out.Documents, doc)
	}
	return out
}

// Formatter renders a Summary.
type Formatter interface {
	Format(w io.Writer, sum Summary) error
}

// NewFormatter returns the formatter for name ("text" or "json").
func NewFormatter(name string) (Formatter, error) {
	switch name {
	case "", "text":
		return &TextFormatter{}, nil
	case "json":
		return &JSONFormatter{Indent: true}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", name)
	}
}
