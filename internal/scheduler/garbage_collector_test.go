package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/dock/internal/domain"
	"github.com/MrSnakeDoc/dock/internal/index"
	"github.com/MrSnakeDoc/dock/internal/logger"
	redisstore "github.com/MrSnakeDoc/dock/internal/store/redis"
)

func gcConfig() domain.Configuration {
	cfg := domain.AddCategory(domain.Default(), "Tools", "🔧")
	return domain.AddItem(cfg, "Tools", domain.Item{Name: "live", Type: domain.TypeExe, Path: "/bin/true"})
}

func TestGarbageCollector_Collect(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	now := clock.Now()
	memIndex := index.NewMemoryIndex()
	memIndex.SetConfig(gcConfig())

	memIndex.PutUsage(
		domain.Usage{Key: "Tools/live", Counter: 5},
		domain.Usage{Key: "Tools/gone-new", Counter: 1},
		domain.Usage{Key: "Tools/gone-recent", Counter: 1, OrphanedAt: now.Add(-10 * 24 * time.Hour)},
		domain.Usage{Key: "Tools/gone-old", Counter: 1, OrphanedAt: now.Add(-35 * 24 * time.Hour)},
	)

	gc := NewGarbageCollector(nil, memIndex, logger.NewNop(), clock, 24*time.Hour, 30*24*time.Hour)
	res := gc.Collect(context.Background())

	assert.Equal(t, CollectResult{Orphaned: 1, Deleted: 1}, res)
	assert.Equal(t, 3, memIndex.UsageCount())

	live, ok := memIndex.GetUsage("Tools/live")
	require.True(t, ok)
	assert.False(t, live.Orphaned())

	marked, ok := memIndex.GetUsage("Tools/gone-new")
	require.True(t, ok)
	assert.Equal(t, now, marked.OrphanedAt)

	_, ok = memIndex.GetUsage("Tools/gone-recent")
	assert.True(t, ok)
	_, ok = memIndex.GetUsage("Tools/gone-old")
	assert.False(t, ok)
}

func TestGarbageCollector_RevivesReturningItems(t *testing.T) {
	clock := clockwork.NewFakeClock()
	memIndex := index.NewMemoryIndex()
	memIndex.SetConfig(gcConfig())
	memIndex.PutUsage(domain.Usage{Key: "Tools/live", Counter: 9, OrphanedAt: clock.Now().Add(-time.Hour)})

	gc := NewGarbageCollector(nil, memIndex, logger.NewNop(), clock, time.Hour, 0)
	res := gc.Collect(context.Background())

	assert.Equal(t, 1, res.Revived)
	u, _ := memIndex.GetUsage("Tools/live")
	assert.False(t, u.Orphaned())
	assert.Equal(t, int64(9), u.Counter)
}

func TestGarbageCollector_DeletesFromRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := redisstore.NewStore(client)
	ctx := context.Background()

	clock := clockwork.NewFakeClock()
	memIndex := index.NewMemoryIndex()
	memIndex.SetConfig(gcConfig())

	orphan := domain.Usage{Key: "Tools/gone", Counter: 2}
	memIndex.PutUsage(orphan)
	require.NoError(t, store.SaveUsage(ctx, &orphan))

	gc := NewGarbageCollector(store, memIndex, logger.NewNop(), clock, time.Hour, 48*time.Hour)

	// first pass marks, and the mark is persisted
	gc.Collect(ctx)
	stored, err := store.GetUsage(ctx, "Tools/gone")
	require.NoError(t, err)
	assert.True(t, stored.Orphaned())

	// still inside the threshold
	clock.Advance(24 * time.Hour)
	assert.Zero(t, gc.Collect(ctx).Deleted)

	clock.Advance(24 * time.Hour)
	assert.Equal(t, 1, gc.Collect(ctx).Deleted)

	_, err = store.GetUsage(ctx, "Tools/gone")
	assert.ErrorIs(t, err, redisstore.ErrUsageNotFound)
	assert.Zero(t, memIndex.UsageCount())
}

func TestGarbageCollector_RunsOnInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	memIndex := index.NewMemoryIndex()
	memIndex.SetConfig(gcConfig())

	gc := NewGarbageCollector(nil, memIndex, logger.NewNop(), clock, time.Hour, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, gc.Start(ctx))
	defer gc.Stop()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	memIndex.PutUsage(domain.Usage{Key: "Tools/gone", Counter: 1})
	clock.Advance(time.Hour)

	assert.Eventually(t, func() bool {
		u, ok := memIndex.GetUsage("Tools/gone")
		return ok && u.Orphaned()
	}, 2*time.Second, 10*time.Millisecond)
}
