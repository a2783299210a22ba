package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/dock/internal/domain"
	"github.com/MrSnakeDoc/dock/internal/index"
	"github.com/MrSnakeDoc/dock/internal/logger"
	redisstore "github.com/MrSnakeDoc/dock/internal/store/redis"
)

// RedisSyncer restores usage counters from Redis into the memory index on startup
type RedisSyncer struct {
	store  *redisstore.Store
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads usage records from Redis. Records already in memory with a
// higher counter win, so a late sync never loses launches.
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing usage from redis to memory")

	records, err := rs.store.GetAllUsage(ctx)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		rs.logger.Info("no usage found in redis")
		return nil
	}

	restored := make([]domain.Usage, 0, len(records))
	for _, r := range records {
		if current, ok := rs.index.GetUsage(r.Key); ok && current.Counter >= r.Counter {
			continue
		}
		restored = append(restored, *r)
	}
	rs.index.PutUsage(restored...)

	rs.logger.Info("synced usage from redis",
		logger.Int("count", len(restored)))

	return nil
}
