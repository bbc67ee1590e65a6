// Package watcher triggers a full rebuild when watched sources change.
// Changes are debounced; every trigger is a rebuild from scratch, since the
// graph has no incremental update path.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zheng/aurora/internal/analyzer"
)

// RebuildFunc runs one full build.
type RebuildFunc func(ctx context.Context) (*analyzer.Result, error)

// Watcher watches a project tree and reruns the pipeline after changes
// settle.
type Watcher struct {
	root      string
	exts      map[string]bool
	rebuild   RebuildFunc
	fsWatcher *fsnotify.Watcher

	debounceDelay time.Duration
	pendingMu     sync.Mutex
	pending       bool
	debounceTimer *time.Timer

	onRebuildStart func()
	onRebuildDone  func(*analyzer.Result, error)

	done chan struct{}
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounceDelay sets how long changes must settle before a rebuild.
func WithDebounceDelay(d time.Duration) Option {
	return func(w *Watcher) { w.debounceDelay = d }
}

// WithOnRebuildStart sets the callback invoked when a rebuild begins.
func WithOnRebuildStart(fn func()) Option {
	return func(w *Watcher) { w.onRebuildStart = fn }
}

// WithOnRebuildDone sets the callback invoked when a rebuild finishes.
func WithOnRebuildDone(fn func(*analyzer.Result, error)) Option {
	return func(w *Watcher) { w.onRebuildDone = fn }
}

// New creates a watcher over root that reacts to files with the given
// extensions.
func New(root string, extensions []string, rebuild RebuildFunc, opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		root:          root,
		exts:          make(map[string]bool),
		rebuild:       rebuild,
		fsWatcher:     fsWatcher,
		debounceDelay: 500 * time.Millisecond,
		done:          make(chan struct{}),
	}
	for _, ext := range extensions {
		w.exts[strings.ToLower(ext)] = true
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start registers the directory tree and serves events until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}
	defer w.fsWatcher.Close()
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			if w.onRebuildDone != nil {
				w.onRebuildDone(nil, err)
			}
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	// New directories join the watch set.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
		}
	}
	if !w.exts[strings.ToLower(filepath.Ext(event.Name))] {
		return
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	w.pending = true
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() { w.fire(ctx) })
}

func (w *Watcher) fire(ctx context.Context) {
	w.pendingMu.Lock()
	if !w.pending {
		w.pendingMu.Unlock()
		return
	}
	w.pending = false
	w.pendingMu.Unlock()

	if ctx.Err() != nil {
		return
	}
	if w.onRebuildStart != nil {
		w.onRebuildStart()
	}
	res, err := w.rebuild(ctx)
	if w.onRebuildDone != nil {
		w.onRebuildDone(res, err)
	}
}

// addRecursive watches dir and every subdirectory, skipping dot directories.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // transient entries disappear mid-walk
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); name != "." && strings.HasPrefix(name, ".") && path != dir {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}
