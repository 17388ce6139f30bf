// Package watch re-runs an action whenever a measurement file changes.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	defaultDebounce = 500 * time.Millisecond
	pollInterval    = 50 * time.Millisecond
)

// Watcher monitors one file and calls back after it has been stable for the
// debounce period.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	path      string
	logger    *zap.Logger
	out       io.Writer
	callback  func(path string)
	mu        sync.Mutex
	pending   time.Time
}

// NewWatcher creates a watcher for path. Non-positive debounce uses 500ms.
func NewWatcher(path string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, want a measurement file", path)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		debounce:  debounce,
		path:      abs,
		logger:    logger,
		out:       os.Stdout,
	}, nil
}

// SetCallback sets the function to call when the file changes.
func (w *Watcher) SetCallback(cb func(path string)) {
	w.callback = cb
}

// SetOutput redirects the watcher's status lines.
func (w *Watcher) SetOutput(out io.Writer) {
	w.out = out
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start watches until ctx is cancelled. The containing directory is watched
// so editors that replace the file on save are still seen.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	color.New(color.FgCyan).Fprintf(w.out, "Watching %s for changes...\n", filepath.Base(w.path))
	color.New(color.FgCyan).Fprintln(w.out, "Press Ctrl+C to stop")
	fmt.Fprintln(w.out)

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	if filepath.Clean(event.Name) != w.path {
		return
	}

	w.logger.Debug("File event", zap.String("path", event.Name), zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.takeReady(time.Now()) {
				w.runCallback()
			}
		}
	}
}

// takeReady reports whether a change has been stable for the debounce
// period, clearing it if so.
func (w *Watcher) takeReady(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending.IsZero() || now.Sub(w.pending) < w.debounce {
		return false
	}
	w.pending = time.Time{}
	return true
}

// runCallback runs on the debounce goroutine, so callbacks never overlap.
func (w *Watcher) runCallback() {
	if w.callback == nil {
		return
	}
	color.New(color.FgYellow).Fprintf(w.out, "\nFile changed: %s\n", filepath.Base(w.path))
	w.callback(w.path)
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}
