// Package watch re-runs the splice when new pages land in the source bundle.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/docsplice/internal/foundation/errors"
	"git.home.luguber.info/inful/docsplice/internal/logfields"
)

// RunFunc performs one splice run.
type RunFunc func(ctx context.Context) error

// Watcher coalesces bursts of filesystem events in one directory into single runs.
// Runs execute on the watcher's goroutine, so they never overlap.
type Watcher struct {
	dir      string
	debounce time.Duration
	run      RunFunc
	logger   *slog.Logger

	readyOnce sync.Once
	ready     chan struct{}
}

// New creates a watcher for dir.
func New(dir string, debounce time.Duration, run RunFunc, logger *slog.Logger) (*Watcher, error) {
	if run == nil {
		return nil, ferrors.ValidationError("run function is required").Build()
	}
	if debounce <= 0 {
		return nil, ferrors.ValidationError("debounce must be > 0").Build()
	}
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch path: %w", err)
	}
	return &Watcher{
		dir:      abs,
		debounce: debounce,
		run:      run,
		logger:   logger,
		ready:    make(chan struct{}),
	}, nil
}

// Ready is closed once Run is watching the directory.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is done. Errors returned by the run function are logged and
// watching continues; a canceled run ends the loop.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if err := fsw.Close(); err != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	if err := fsw.Add(w.dir); err != nil {
		return ferrors.FileSystemError(err, "watch source bundle").WithContext("path", w.dir).Build()
	}
	w.logger.Info("Watching source bundle", logfields.Path(w.dir))
	w.readyOnce.Do(func() { close(w.ready) })

	// Reset never delivers a stale tick, so the timer is reused without draining.
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !triggers(event) {
				continue
			}
			w.logger.Debug("Source change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
			timer.Reset(w.debounce)
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", logfields.Error(err))

		case <-fire:
			fire = nil
			if err := w.run(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				w.logger.Error("Splice run failed", logfields.Error(err))
			}
		}
	}
}

// triggers reports whether an event can mean new pages arrived. Removals are
// what a successful run does to the bundle, so they are ignored.
func triggers(event fsnotify.Event) bool {
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}
