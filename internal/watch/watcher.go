// Package watch turns file creations under the project roots into engine
// events, for use outside an editor.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/leapstack-labs/phpns/internal/engine"
)

// skipDirs are never watched.
var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
}

// Watcher is an engine.FileEventSource backed by fsnotify.
type Watcher struct {
	fsw    *fsnotify.Watcher
	logger *slog.Logger
	events chan engine.Event
	reload chan struct{}
}

// New creates a watcher over roots and every directory below them.
func New(roots []string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		fsw:    fsw,
		logger: logger,
		events: make(chan engine.Event, 16),
		reload: make(chan struct{}, 1),
	}
	for _, root := range roots {
		if err := w.watchDirRecursive(root); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}
	return w, nil
}

// Events implements engine.FileEventSource. The channel closes when Run
// returns.
func (w *Watcher) Events() <-chan engine.Event {
	return w.events
}

// WatchList returns the watched directories.
func (w *Watcher) WatchList() []string {
	return w.fsw.WatchList()
}

// RequestReload queues a rule reload. Requests made while one is already
// queued are merged.
func (w *Watcher) RequestReload() {
	select {
	case w.reload <- struct{}{}:
	default:
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run forwards filesystem events until ctx is done or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-w.reload:
			if !w.emit(ctx, engine.Event{Kind: engine.ReloadRequested}) {
				return nil
			}

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == 0 {
				continue
			}
			if !w.handleCreate(ctx, event.Name) {
				return nil
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// handleCreate emits an event for a new file, or watches a new directory
// and emits events for files already inside it. It returns false when ctx
// ended.
func (w *Watcher) handleCreate(ctx context.Context, path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		w.logger.Debug("created path vanished", "path", path, "error", err)
		return true
	}

	if !info.IsDir() {
		if !info.Mode().IsRegular() {
			return true
		}
		return w.emit(ctx, engine.Event{Kind: engine.BufferAdded, Buffer: NewFileBuffer(path)})
	}

	if skipDir(info.Name()) {
		return true
	}
	if err := w.watchDirRecursive(path); err != nil {
		w.logger.Warn("failed to watch new directory", "path", path, "error", err)
	}

	// Files may land in the directory before the watch is added.
	var files []string
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // best effort
		}
		if d.IsDir() {
			if p != path && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	for _, f := range files {
		if !w.emit(ctx, engine.Event{Kind: engine.BufferAdded, Buffer: NewFileBuffer(f)}) {
			return false
		}
	}
	return true
}

func (w *Watcher) emit(ctx context.Context, ev engine.Event) bool {
	select {
	case w.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) watchDirRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		w.logger.Debug("watching directory", "path", path)
		return w.fsw.Add(path)
	})
}

// skipDir reports whether a directory is dependency or tool state.
func skipDir(name string) bool {
	return skipDirs[name] || (strings.HasPrefix(name, ".") && name != "." && name != "..")
}
