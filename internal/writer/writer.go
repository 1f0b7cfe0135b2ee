// Package writer persists processed documents.
package writer

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
)

// Writer writes documents with their metadata merged into the frontmatter.
type Writer struct {
	// DryRun skips the write and only computes the result.
	DryRun bool
	Perm   os.FileMode
}

// New returns a writer using 0644 permissions for new files.
func New() *Writer {
	return &Writer{Perm: 0o644}
}

// Render merges meta into content's frontmatter. Metadata values replace
// existing keys; keys meta does not carry are kept.
func Render(content string, meta *docmodel.Metadata) (string, error) {
	doc, err := docmodel.Parse(content)
	if err != nil {
		return "", err
	}
	if meta == nil {
		return content, nil
	}
	return doc.WithMetadata(meta)
}

// Write renders the document and replaces path atomically. It reports
// whether the file content changed.
func (w *Writer) Write(path, content string, meta *docmodel.Metadata) (bool, error) {
	rendered, err := Render(content, meta)
	if err != nil {
		return false, errors.WrapError(err, errors.CategoryValidation, "failed to render document").
			WithContext("path", path).
			Build()
	}

	// #nosec G304 -- path is an output path chosen by the batch.
	if existing, err := os.ReadFile(path); err == nil && string(existing) == rendered {
		return false, nil
	}
	if w.DryRun {
		return true, nil
	}

	perm := w.Perm
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return false, fsError(err, "failed to create output directory", path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return false, fsError(err, "failed to create temporary file", path)
	}
	tempPath := tmp.Name()
	defer func() { _ = os.Remove(tempPath) }()

	if _, err := tmp.WriteString(rendered); err != nil {
		_ = tmp.Close()
		return false, fsError(err, "failed to write temporary file", path)
	}
	if err := tmp.Close(); err != nil {
		return false, fsError(err, "failed to close temporary file", path)
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		return false, fsError(err, "failed to set permissions", path)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return false, fsError(err, "failed to replace document", path)
	}
	return true, nil
}

func fsError(err error, msg, path string) error {
	return errors.WrapError(err, errors.CategoryFileSystem, msg).WithContext("path", path).Build()
}
