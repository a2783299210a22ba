// Package editor applies configuration edits coming from the control API.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/MrSnakeDoc/dock/internal/domain"
	"github.com/MrSnakeDoc/dock/internal/index"
	"github.com/MrSnakeDoc/dock/internal/logger"
	"github.com/MrSnakeDoc/dock/internal/metrics"
	"github.com/MrSnakeDoc/dock/internal/notify"
	filestore "github.com/MrSnakeDoc/dock/internal/store/file"
)

// Edit is a pure configuration transformation from the domain package.
type Edit func(domain.Configuration) domain.Configuration

// ErrUnreadableConfig is returned when the stored file exists but cannot be
// parsed. Editing from defaults would overwrite it.
var ErrUnreadableConfig = errors.New("stored configuration is unreadable")

// Editor serializes edits: each one reads the file, transforms it, writes it
// back, installs the result in the index and announces the new revision.
type Editor struct {
	mu        sync.Mutex
	loader    *filestore.Loader
	index     *index.MemoryIndex
	notifier  notify.Notifier
	logger    logger.Logger
	clock     clockwork.Clock
	assignIDs bool
	newID     func() string
}

// New creates an editor. notifier may be nil.
func New(loader *filestore.Loader, idx *index.MemoryIndex, notifier notify.Notifier, log logger.Logger) *Editor {
	return &Editor{
		loader:   loader,
		index:    idx,
		notifier: notifier,
		logger:   log,
		clock:    clockwork.NewRealClock(),
		newID:    uuid.NewString,
	}
}

// WithClock replaces the clock used for event timestamps.
func (e *Editor) WithClock(c clockwork.Clock) *Editor {
	e.clock = c
	return e
}

// WithAssignIDs makes every saved configuration carry IDs on categories and
// items that lack one.
func (e *Editor) WithAssignIDs(enabled bool) *Editor {
	e.assignIDs = enabled
	return e
}

// Apply runs edit against the latest stored configuration and persists the
// result. The returned configuration is what was saved. A failed save leaves
// the index untouched. A missing file is edited from the defaults; a file
// that does not parse is left alone and ErrUnreadableConfig is returned.
func (e *Editor) Apply(ctx context.Context, edit Edit) (domain.Configuration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, err := e.stored()
	if err != nil {
		return domain.Configuration{}, err
	}
	return e.save(ctx, edit(current))
}

// Replace stores cfg as-is after checking that every item resolves. It also
// recovers a file that no longer parses.
func (e *Editor) Replace(ctx context.Context, cfg domain.Configuration) (domain.Configuration, error) {
	if err := domain.Validate(cfg); err != nil {
		return domain.Configuration{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.save(ctx, cfg)
}

func (e *Editor) stored() (domain.Configuration, error) {
	cfg, err := e.loader.Read()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		e.logger.Debug("editing from defaults", logger.Error(err))
		return domain.Default(), nil
	case err != nil:
		e.logger.Warn("configuration unreadable, edit refused",
			logger.String("path", e.loader.Path()),
			logger.Error(err))
		return domain.Configuration{}, fmt.Errorf("%w: %w", ErrUnreadableConfig, err)
	}
	return cfg, nil
}

func (e *Editor) save(ctx context.Context, next domain.Configuration) (domain.Configuration, error) {
	if e.assignIDs {
		next = domain.AssignIDs(next, e.newID)
	}
	next = domain.Normalize(next)

	err := e.loader.Save(next)
	metrics.ConfigSavesTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return domain.Configuration{}, fmt.Errorf("failed to save configuration: %w", err)
	}

	rev := e.index.SetConfig(next)
	metrics.ConfigItems.Set(float64(e.index.Count()))
	metrics.ConfigReloadsTotal.WithLabelValues(string(notify.SourceAPI)).Inc()

	if e.notifier != nil {
		ev := notify.Event{Source: notify.SourceAPI, Revision: rev, At: e.clock.Now()}
		if err := e.notifier.Notify(ctx, ev); err != nil {
			e.logger.Warn("failed to publish configuration change", logger.Error(err))
		}
	}

	e.logger.Debug("configuration saved",
		logger.String("path", e.loader.Path()),
		logger.Int64("revision", int64(rev)))
	return next, nil
}

// Current returns the live snapshot.
func (e *Editor) Current() domain.Configuration {
	return e.index.Config()
}
