package scheduler

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/MrSnakeDoc/dock/internal/domain"
	"github.com/MrSnakeDoc/dock/internal/index"
	"github.com/MrSnakeDoc/dock/internal/logger"
	"github.com/MrSnakeDoc/dock/internal/metrics"
	redisstore "github.com/MrSnakeDoc/dock/internal/store/redis"
)

const (
	// DefaultGCThreshold is how long a usage record may outlive its item
	DefaultGCThreshold = 30 * 24 * time.Hour // 30 days
)

// GarbageCollector drops usage records of items that left the configuration.
//
// A record is first marked orphaned; it is deleted once it has stayed
// orphaned for the threshold. Re-adding the item before then clears the mark
// and keeps the history.
type GarbageCollector struct {
	store     *redisstore.Store
	index     *index.MemoryIndex
	logger    logger.Logger
	clock     clockwork.Clock
	interval  time.Duration
	threshold time.Duration
	stopCh    chan struct{}
}

// CollectResult summarizes one pass.
type CollectResult struct {
	Orphaned int
	Revived  int
	Deleted  int
}

// NewGarbageCollector creates a new garbage collector. store may be nil.
func NewGarbageCollector(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	clock clockwork.Clock,
	interval time.Duration,
	threshold time.Duration,
) *GarbageCollector {
	if threshold == 0 {
		threshold = DefaultGCThreshold
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &GarbageCollector{
		store:     store,
		index:     idx,
		logger:    log,
		clock:     clock,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic garbage collection process
func (gc *GarbageCollector) Start(ctx context.Context) error {
	// Run immediately on start
	gc.Collect(ctx)

	ticker := gc.clock.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				gc.Collect(ctx)
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the garbage collector
func (gc *GarbageCollector) Stop() {
	close(gc.stopCh)
}

// Collect runs one pass against the live configuration.
func (gc *GarbageCollector) Collect(ctx context.Context) CollectResult {
	now := gc.clock.Now()
	live := domain.UsageKeys(gc.index.Config())

	var res CollectResult
	var changed []*domain.Usage

	for _, u := range gc.index.GetAllUsage() {
		switch {
		case live[u.Key] && u.Orphaned():
			u.OrphanedAt = time.Time{}
			res.Revived++
			changed = append(changed, &u)

		case live[u.Key]:
			continue

		case !u.Orphaned():
			u.OrphanedAt = now
			res.Orphaned++
			changed = append(changed, &u)

		case now.Sub(u.OrphanedAt) >= gc.threshold:
			gc.delete(ctx, u, now.Sub(u.OrphanedAt))
			res.Deleted++
		}
	}

	for _, u := range changed {
		gc.index.PutUsage(*u)
	}
	if gc.store != nil && len(changed) > 0 {
		if err := gc.store.SaveUsageMany(ctx, changed); err != nil {
			gc.logger.Warn("failed to save usage marks to redis", logger.Error(err))
		}
	}

	if res.Deleted > 0 {
		metrics.UsageCollectedTotal.Add(float64(res.Deleted))
	}
	if res != (CollectResult{}) {
		gc.logger.Info("garbage collection completed",
			logger.Int("orphaned", res.Orphaned),
			logger.Int("revived", res.Revived),
			logger.Int("deleted", res.Deleted))
	} else {
		gc.logger.Debug("no usage to garbage collect")
	}

	return res
}

func (gc *GarbageCollector) delete(ctx context.Context, u domain.Usage, orphanedFor time.Duration) {
	// Delete from memory index
	gc.index.DeleteUsage(u.Key)

	// Delete from Redis store (best effort)
	if gc.store != nil {
		if err := gc.store.DeleteUsage(ctx, u.Key); err != nil {
			gc.logger.Warn("failed to delete usage from redis",
				logger.String("key", u.Key),
				logger.Error(err))
		}
	}

	gc.logger.Info("garbage collected orphaned usage",
		logger.String("key", u.Key),
		logger.String("category", u.Category),
		logger.String("item", u.Item),
		logger.String("orphaned_for", orphanedFor.String()))
}
