package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docenrich/internal/batch"
	"git.home.luguber.info/inful/docenrich/internal/config"
	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
	"git.home.luguber.info/inful/docenrich/internal/reportstore"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestCollect_WalksAndFilters(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.md"), "b")
	writeFile(t, filepath.Join(dir, "a.mdx"), "a")
	writeFile(t, filepath.Join(dir, "notes.txt"), "n")
	writeFile(t, filepath.Join(dir, "sub", "c.md"), "c")
	writeFile(t, filepath.Join(dir, "sub", "draft.md"), "d")
	writeFile(t, filepath.Join(dir, ".git", "x.md"), "x")

	sel := selector{include: []string{"*.md", "*.mdx"}, exclude: []string{"draft*"}}
	items, err := collect([]string{dir}, sel, filepath.Join(dir, "out"))
	require.NoError(t, err)

	var inputs, outputs []string
	for _, it := range items {
		inputs = append(inputs, it.InputPath)
		outputs = append(outputs, it.OutputPath)
	}
	require.Equal(t, []string{
		filepath.Join(dir, "a.mdx"),
		filepath.Join(dir, "b.md"),
		filepath.Join(dir, "sub", "c.md"),
	}, inputs)
	require.Equal(t, filepath.Join(dir, "out", "sub", "c.md"), outputs[2])
}

func TestCollect_ExplicitFileAndMissingPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notes.txt")
	writeFile(t, file, "n")

	items, err := collect([]string{file, file}, selector{}, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, file, items[0].OutputPath)

	_, err = collect([]string{filepath.Join(dir, "missing")}, selector{}, "")
	require.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestEnricher_WritesDocumentsAndStoresReports(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "guide.md")
	writeFile(t, doc, "# Guide\n\nThis guide explains how to install and use the tool.\n\n## Install\n\nRun it.\n\n## Use\n\nCall it.\n")

	cfg := config.Default()
	cfg.Reports.Path = filepath.Join(dir, "reports.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	items, err := collect([]string{dir}, selector{include: cfg.Pipeline.Include}, "")
	require.NoError(t, err)

	e := newEnricher(cfg, logger, runOptions{write: true, format: "text"})
	var out bytes.Buffer
	sum, err := e.run(context.Background(), items, &out)
	require.NoError(t, err)

	require.Len(t, sum.Documents, 1)
	require.True(t, sum.Documents[0].Changed)
	require.Contains(t, out.String(), "1 document processed")

	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	require.Contains(t, string(data), "title: \"Guide\"")
	require.Contains(t, string(data), "## Table of Contents")

	store, err := reportstore.NewSQLiteStore(cfg.Reports.Path)
	require.NoError(t, err)
	defer store.Close()
	records, err := store.ListByRun(context.Background(), sum.RunID)
	require.NoError(t, err)
	require.Len(t, records, 3)
}

func TestEnricher_DryRunLeavesFiles(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "guide.md")
	original := "# Guide\n\nShort.\n"
	writeFile(t, doc, original)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := newEnricher(config.Default(), logger, runOptions{write: true, dryRun: true, format: "json"})
	_, err := e.run(context.Background(), []batch.Item{{InputPath: doc, OutputPath: doc}}, io.Discard)
	require.NoError(t, err)

	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	require.Equal(t, original, string(data))
}

func TestTOCCheck_AgreesWithInsert(t *testing.T) {
	g := &Global{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), cfg: config.Default()}
	dir := t.TempDir()

	flat := filepath.Join(dir, "flat.md")
	flatContent := "# Install\n\nText.\n\n# Usage\n\nMore.\n"
	writeFile(t, flat, flatContent)
	require.NoError(t, (&TOCCmd{Paths: []string{flat}, Check: true}).Run(g))
	require.NoError(t, (&TOCCmd{Paths: []string{flat}}).Run(g))
	data, err := os.ReadFile(flat)
	require.NoError(t, err)
	require.Equal(t, flatContent, string(data))

	nested := filepath.Join(dir, "nested.md")
	writeFile(t, nested, "# Guide\n\n## Install\n\nText.\n\n## Usage\n\nMore.\n")
	err = (&TOCCmd{Paths: []string{nested}, Check: true}).Run(g)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))

	require.NoError(t, (&TOCCmd{Paths: []string{nested}}).Run(g))
	require.NoError(t, (&TOCCmd{Paths: []string{nested}, Check: true}).Run(g))
}
