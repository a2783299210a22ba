package launcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/MrSnakeDoc/dock/internal/domain"
	"github.com/MrSnakeDoc/dock/internal/index"
	"github.com/MrSnakeDoc/dock/internal/logger"
	"github.com/MrSnakeDoc/dock/internal/metrics"
)

// ErrItemNotFound is returned by LaunchByName when no item matches.
var ErrItemNotFound = errors.New("item not found")

// UsageStore persists usage records beyond the process lifetime.
type UsageStore interface {
	SaveUsage(ctx context.Context, u *domain.Usage) error
}

// Service resolves items, dispatches them and counts successful launches.
type Service struct {
	dispatcher Dispatcher
	index      *index.MemoryIndex
	usage      UsageStore
	clock      clockwork.Clock
	logger     logger.Logger
}

// NewService creates a launch service. usage may be nil.
func NewService(d Dispatcher, idx *index.MemoryIndex, usage UsageStore, log logger.Logger) *Service {
	return &Service{
		dispatcher: d,
		index:      idx,
		usage:      usage,
		clock:      clockwork.NewRealClock(),
		logger:     log,
	}
}

// WithClock replaces the clock used for usage timestamps.
func (s *Service) WithClock(c clockwork.Clock) *Service {
	s.clock = c
	return s
}

// Launch resolves item and dispatches the resulting action. Only items that
// belong to a category (categoryName != "") are counted.
func (s *Service) Launch(ctx context.Context, categoryName string, item domain.Item) (domain.Action, error) {
	action, err := domain.Resolve(item)
	if err != nil {
		metrics.LaunchesTotal.WithLabelValues("none", metrics.ResultError).Inc()
		return domain.Action{}, err
	}

	err = s.dispatcher.Dispatch(ctx, action)
	metrics.LaunchesTotal.WithLabelValues(string(action.Action), metrics.Result(err)).Inc()
	if err != nil {
		s.logger.Warn("launch failed",
			logger.String("category", categoryName),
			logger.String("item", item.Name),
			logger.String("action", string(action.Action)),
			logger.Error(err))
		return action, fmt.Errorf("failed to dispatch %q: %w", item.Name, err)
	}

	s.logger.Info("launched",
		logger.String("category", categoryName),
		logger.String("item", item.Name),
		logger.String("action", string(action.Action)))

	if categoryName != "" {
		s.record(ctx, categoryName, item)
	}
	return action, nil
}

// LaunchByName looks the item up in the live configuration and launches it.
func (s *Service) LaunchByName(ctx context.Context, categoryName, itemName string) (domain.Action, error) {
	item, ok := domain.FindItem(s.index.Config(), categoryName, itemName)
	if !ok {
		return domain.Action{}, fmt.Errorf("%w: %s/%s", ErrItemNotFound, categoryName, itemName)
	}
	return s.Launch(ctx, categoryName, item)
}

func (s *Service) record(ctx context.Context, categoryName string, item domain.Item) {
	key := domain.UsageKey(categoryName, item)
	u := s.index.RecordLaunch(key, categoryName, item.Name, s.clock.Now())

	// Save to Redis (best effort)
	if s.usage != nil {
		if err := s.usage.SaveUsage(ctx, &u); err != nil {
			s.logger.Warn("failed to save usage to redis",
				logger.String("key", key),
				logger.Error(err))
		}
	}
}
