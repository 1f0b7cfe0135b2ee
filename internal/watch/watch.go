// Package watch re-processes documents when they change on disk.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
	"git.home.luguber.info/inful/docenrich/internal/logfields"
)

// DefaultDebounce is used when no debounce interval is configured.
const DefaultDebounce = 500 * time.Millisecond

// Handler processes a debounced set of changed files.
type Handler func(ctx context.Context, paths []string)

// Watcher monitors directory trees and hands changed files to a Handler.
// Only one Handler call runs at a time; changes that arrive meanwhile are
// collected and delivered once the current call returns.
type Watcher struct {
	roots    []string
	match    func(path string) bool
	handle   Handler
	debounce time.Duration
	logger   *slog.Logger
	fs       *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher over roots. match selects the files that trigger
// the handler; a nil match accepts every file.
func New(roots []string, match func(string) bool, handle Handler, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create file watcher").Build()
	}
	if match == nil {
		match = func(string) bool { return true }
	}

	w := &Watcher{
		match:    match,
		handle:   handle,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		fs:       fw,
	}
	for _, opt := range opts {
		opt(w)
	}
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			_ = fw.Close()
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve watch root").
				WithContext("path", root).
				Build()
		}
		w.roots = append(w.roots, abs)
	}
	return w, nil
}

// Run watches until ctx ends. It waits for an in-flight handler call before
// returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fs.Close() }()

	for _, root := range w.roots {
		if err := w.addTree(root); err != nil {
			return err
		}
	}
	w.logger.Info("Watching for changes", logfields.Count(len(w.roots)))

	var (
		pending = map[string]struct{}{}
		timer   *time.Timer
		fire    <-chan time.Time
		running bool
		done    = make(chan struct{}, 1)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	flush := func() {
		paths := existing(pending)
		clear(pending)
		if len(paths) == 0 {
			return
		}
		running = true
		go func() {
			defer func() { done <- struct{}{} }()
			w.handle(ctx, paths)
		}()
	}

	for {
		select {
		case <-ctx.Done():
			if running {
				<-done
			}
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.accept(event) {
				continue
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))

		case <-fire:
			fire = nil
			if !running {
				flush()
			}

		case <-done:
			running = false
			if fire == nil && len(pending) > 0 {
				flush()
			}
		}
	}
}

// accept registers new directories and reports whether event concerns a
// matching file.
func (w *Watcher) accept(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
			return false
		}
	}
	return w.match(event.Name)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to walk watch root").
				WithContext("path", path).
				Build()
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && len(d.Name()) > 1 && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").
				WithContext("path", path).
				Build()
		}
		return nil
	})
}

// existing returns the pending paths that are still regular files, sorted.
func existing(pending map[string]struct{}) []string {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}
