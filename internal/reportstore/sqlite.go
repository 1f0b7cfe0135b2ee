package reportstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
	"git.home.luguber.info/inful/docenrich/internal/plugin"
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// NewSQLiteStore opens or creates the ledger at dbPath. Use ":memory:" for
// an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, storeError(err, "open sqlite database").WithContext("path", dbPath).Build()
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, storeError(err, "initialize schema").WithContext("path", dbPath).Build()
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		document TEXT NOT NULL,
		plugin TEXT NOT NULL,
		plugin_version TEXT NOT NULL,
		score INTEGER NOT NULL,
		level TEXT NOT NULL,
		issues TEXT NOT NULL,
		suggestions TEXT NOT NULL,
		recorded_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reports_run ON reports(run_id);
	CREATE INDEX IF NOT EXISTS idx_reports_document ON reports(document);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append adds the reports of one document in a single transaction.
func (s *SQLiteStore) Append(ctx context.Context, runID, document string, reports []plugin.NamedReport) error {
	if len(reports) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeError(err, "begin transaction").Build()
	}
	defer func() { _ = tx.Rollback() }()

	recorded := s.now().UnixMilli()
	for _, r := range reports {
		issues, err := json.Marshal(nonNilIssues(r.Report.Issues))
		if err != nil {
			return storeError(err, "marshal issues").Build()
		}
		suggestions, err := json.Marshal(nonNilStrings(r.Report.Suggestions))
		if err != nil {
			return storeError(err, "marshal suggestions").Build()
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO reports (run_id, document, plugin, plugin_version, score, level, issues, suggestions, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, document, r.Plugin.Name, r.Plugin.Version, r.Report.Score, string(r.Report.Level),
			string(issues), string(suggestions), recorded,
		)
		if err != nil {
			return storeError(err, "insert report").
				WithDocument(document).
				WithContext("plugin", r.Plugin.Name).
				Build()
		}
	}

	if err := tx.Commit(); err != nil {
		return storeError(err, "commit reports").Build()
	}
	return nil
}

const selectColumns = `SELECT id, run_id, document, plugin, plugin_version, score, level, issues, suggestions, recorded_at FROM reports`

// ListByRun returns the records of runID in insertion order.
func (s *SQLiteStore) ListByRun(ctx context.Context, runID string) ([]Record, error) {
	return s.query(ctx, selectColumns+` WHERE run_id = ? ORDER BY id`, runID)
}

// History returns every record of document in insertion order.
func (s *SQLiteStore) History(ctx context.Context, document string) ([]Record, error) {
	return s.query(ctx, selectColumns+` WHERE document = ? ORDER BY id`, document)
}

func (s *SQLiteStore) query(ctx context.Context, query string, arg string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, storeError(err, "query reports").Build()
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r           Record
			level       string
			issues      string
			suggestions string
			recordedAt  int64
		)
		if err := rows.Scan(&r.ID, &r.RunID, &r.Document, &r.Plugin, &r.PluginVersion,
			&r.Score, &level, &issues, &suggestions, &recordedAt); err != nil {
			return nil, storeError(err, "scan report").Build()
		}
		r.Level = plugin.Level(level)
		r.RecordedAt = time.UnixMilli(recordedAt)
		if err := json.Unmarshal([]byte(issues), &r.Issues); err != nil {
			return nil, storeError(err, "unmarshal issues").WithContext("id", r.ID).Build()
		}
		if err := json.Unmarshal([]byte(suggestions), &r.Suggestions); err != nil {
			return nil, storeError(err, "unmarshal suggestions").WithContext("id", r.ID).Build()
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err, "iterate rows").Build()
	}
	return records, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func storeError(err error, op string) *errors.ErrorBuilder {
	return errors.WrapError(err, errors.CategoryStore, fmt.Sprintf("report store: %s", op))
}

func nonNilIssues(in []plugin.ValidationIssue) []plugin.ValidationIssue {
	if in == nil {
		return []plugin.ValidationIssue{}
	}
	return in
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
