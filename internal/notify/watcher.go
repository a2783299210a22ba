package notify

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/dock/internal/logger"
)

const watchedOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watcher reports edits made to the configuration file by other programs.
//
// The parent directory is watched rather than the file itself so that
// editors replacing the file by rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   logger.Logger
}

// NewWatcher creates a watcher for path. Bursts of events closer than
// debounce are reported once.
func NewWatcher(path string, debounce time.Duration, log logger.Logger) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		logger:   log,
	}
}

// Run blocks until ctx is done, calling fn after each (debounced) change.
func (w *Watcher) Run(ctx context.Context, fn func()) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.logger.Info("watching configuration file", logger.String("path", w.path))

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Op.Has(watchedOps) {
				continue
			}
			w.logger.Debug("configuration file event",
				logger.String("op", ev.Op.String()))
			if w.debounce <= 0 {
				fn()
				continue
			}
			timer.Reset(w.debounce)
			pending = timer.C

		case <-pending:
			pending = nil
			fn()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", logger.Error(err))
		}
	}
}
