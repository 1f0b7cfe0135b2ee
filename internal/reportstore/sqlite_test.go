package reportstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docenrich/internal/plugin"
)

func newMemoryStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func reports() []plugin.NamedReport {
	issue := plugin.ValidationIssue{Kind: "missing-description", Message: "Description is missing", Severity: 6}
	return []plugin.NamedReport{
		{
			Plugin: plugin.Info{Name: "metadata-completeness", Version: "v1.0.0"},
			Report: plugin.NewQualityReport([]plugin.ValidationIssue{issue}, []string{"Add a description"}),
		},
		{
			Plugin: plugin.Info{Name: "toc", Version: "v1.0.0"},
			Report: plugin.NewQualityReport(nil, nil),
		},
	}
}

func TestSQLiteStore_AppendAndListByRun(t *testing.T) {
	store := newMemoryStore(t)
	fixed := time.UnixMilli(1_700_000_000_000)
	store.now = func() time.Time { return fixed }
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "run-1", "docs/a.md", reports()))
	require.NoError(t, store.Append(ctx, "run-2", "docs/a.md", reports()[:1]))

	records, err := store.ListByRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	require.Equal(t, "docs/a.md", first.Document)
	require.Equal(t, "metadata-completeness", first.Plugin)
	require.Equal(t, 40, first.Score)
	require.Equal(t, plugin.LevelLow, first.Level)
	require.Equal(t, "missing-description", first.Issues[0].Kind)
	require.Equal(t, []string{"Add a description"}, first.Suggestions)
	require.True(t, fixed.Equal(first.RecordedAt))

	require.Equal(t, 100, records[1].Score)
	require.Empty(t, records[1].Issues)
	require.NotNil(t, records[1].Issues)
}

func TestSQLiteStore_History(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "run-1", "a.md", reports()[:1]))
	require.NoError(t, store.Append(ctx, "run-1", "b.md", reports()[:1]))
	require.NoError(t, store.Append(ctx, "run-2", "a.md", reports()[:1]))

	history, err := store.History(ctx, "a.md")
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "run-1", history[0].RunID)
	require.Equal(t, "run-2", history[1].RunID)
}

func TestSQLiteStore_EmptyAppendIsNoop(t *testing.T) {
	store := newMemoryStore(t)
	require.NoError(t, store.Append(context.Background(), "run", "a.md", nil))

	records, err := store.ListByRun(context.Background(), "run")
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestSQLiteStore_PersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), "run", "a.md", reports()))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.ListByRun(context.Background(), "run")
	require.NoError(t, err)
	require.Len(t, records, 2)
}
