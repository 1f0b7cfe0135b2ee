// Package reportstore keeps a ledger of quality reports per batch run so
// scores can be compared across runs.
package reportstore

import (
	"context"
	"time"

	"git.home.luguber.info/inful/docenrich/internal/plugin"
)

// Record is one validator report for one document in one run.
type Record struct {
	ID            int64
	RunID         string
	Document      string
	Plugin        string
	PluginVersion string
	Score         int
	Level         plugin.Level
	Issues        []plugin.ValidationIssue
	Suggestions   []string
	RecordedAt    time.Time
}

// Store persists report records.
type Store interface {
	// Append stores the reports of one document atomically.
	Append(ctx context.Context, runID, document string, reports []plugin.NamedReport) error
	ListByRun(ctx context.Context, runID string) ([]Record, error)
	// History returns a document's records across runs, oldest first.
	History(ctx context.Context, document string) ([]Record, error)
	Close() error
}
