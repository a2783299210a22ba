package scheduler

import (
	"context"
	"errors"
	"io/fs"
	"reflect"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/MrSnakeDoc/dock/internal/domain"
	"github.com/MrSnakeDoc/dock/internal/index"
	"github.com/MrSnakeDoc/dock/internal/logger"
	"github.com/MrSnakeDoc/dock/internal/metrics"
	"github.com/MrSnakeDoc/dock/internal/notify"
	filestore "github.com/MrSnakeDoc/dock/internal/store/file"
)

// ConfigReloader keeps the memory index in step with the configuration file.
//
// Reloads happen on start, on a fixed interval, on a manual trigger and on
// Trigger calls from the file watcher or the Redis listener. A reload that
// finds the same content as the live snapshot is dropped silently.
type ConfigReloader struct {
	loader        *filestore.Loader
	index         *index.MemoryIndex
	notifier      notify.Notifier
	logger        logger.Logger
	clock         clockwork.Clock
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
	triggers      chan notify.Source
}

// NewConfigReloader creates a new configuration reloader
func NewConfigReloader(
	loader *filestore.Loader,
	idx *index.MemoryIndex,
	notifier notify.Notifier,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *ConfigReloader {
	return &ConfigReloader{
		loader:        loader,
		index:         idx,
		notifier:      notifier,
		logger:        log,
		clock:         clockwork.NewRealClock(),
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
		triggers:      make(chan notify.Source, 8),
	}
}

// WithClock replaces the clock driving the periodic reload.
func (cr *ConfigReloader) WithClock(c clockwork.Clock) *ConfigReloader {
	cr.clock = c
	return cr
}

// Start loads the configuration once, then reloads in the background.
// It never fails: an unreadable file yields the default configuration.
func (cr *ConfigReloader) Start(ctx context.Context) error {
	cr.Reload(ctx, notify.SourceStartup)

	go func() {
		var tick <-chan time.Time
		if cr.interval > 0 {
			ticker := cr.clock.NewTicker(cr.interval)
			defer ticker.Stop()
			tick = ticker.Chan()
		}

		for {
			select {
			case <-tick:
				cr.Reload(ctx, notify.SourceTimer)
			case <-cr.manualTrigger:
				cr.logger.Info("manual reload triggered")
				cr.Reload(ctx, notify.SourceManual)
			case src := <-cr.triggers:
				cr.Reload(ctx, src)
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (cr *ConfigReloader) Stop() {
	close(cr.stopCh)
}

// Trigger asks for a reload. Requests are dropped while the queue is full,
// since a queued reload will pick up the latest content anyway.
func (cr *ConfigReloader) Trigger(src notify.Source) {
	select {
	case cr.triggers <- src:
	default:
	}
}

// Reload reads the file and installs it when it differs from the live
// snapshot. It reports whether a new snapshot was installed.
//
// At startup an unreadable file yields the defaults. Later on, a file that
// exists but does not parse leaves the live snapshot in place, while a
// deleted file still falls back to the defaults.
func (cr *ConfigReloader) Reload(ctx context.Context, src notify.Source) bool {
	seen := cr.index.Revision()

	cfg, err := cr.loader.Load()
	if err != nil {
		if src != notify.SourceStartup && !errors.Is(err, fs.ErrNotExist) {
			cr.logger.Warn("configuration unreadable, keeping the live snapshot",
				logger.String("path", cr.loader.Path()),
				logger.String("source", string(src)),
				logger.Error(err))
			return false
		}
		cr.logger.Warn("configuration unreadable, using defaults",
			logger.String("path", cr.loader.Path()),
			logger.String("source", string(src)),
			logger.Error(err))
	}

	if src != notify.SourceStartup && reflect.DeepEqual(cfg, cr.index.Config()) {
		cr.logger.Debug("configuration unchanged, reload skipped",
			logger.String("source", string(src)))
		return false
	}

	rev, ok := cr.install(cfg, seen)
	if !ok {
		cr.logger.Debug("configuration changed during reload, skipped",
			logger.String("source", string(src)))
		return false
	}
	metrics.ConfigReloadsTotal.WithLabelValues(string(src)).Inc()

	cr.logger.Info("configuration loaded",
		logger.String("source", string(src)),
		logger.Int("categories", len(cfg.Categories)),
		logger.Int("items", cr.index.Count()),
		logger.Int64("revision", int64(rev)))

	if cr.notifier != nil {
		ev := notify.Event{Source: src, Revision: rev, At: cr.clock.Now()}
		if err := cr.notifier.Notify(ctx, ev); err != nil {
			cr.logger.Warn("failed to publish configuration change", logger.Error(err))
		}
	}
	return true
}

func (cr *ConfigReloader) install(cfg domain.Configuration, seen uint64) (uint64, bool) {
	rev, ok := cr.index.SetConfigIf(cfg, seen)
	if ok {
		metrics.ConfigItems.Set(float64(cr.index.Count()))
	}
	return rev, ok
}
