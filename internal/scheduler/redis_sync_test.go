package scheduler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/dock/internal/domain"
	"github.com/MrSnakeDoc/dock/internal/index"
	"github.com/MrSnakeDoc/dock/internal/logger"
	redisstore "github.com/MrSnakeDoc/dock/internal/store/redis"
)

func TestRedisSyncer_Sync(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := redisstore.NewStore(client)
	ctx := context.Background()

	require.NoError(t, store.SaveUsageMany(ctx, []*domain.Usage{
		{Key: "a", Counter: 3},
		{Key: "b", Counter: 1},
	}))

	memIndex := index.NewMemoryIndex()
	// a launch recorded in memory before the sync ran
	memIndex.PutUsage(domain.Usage{Key: "b", Counter: 4})

	require.NoError(t, NewRedisSyncer(store, memIndex, logger.NewNop()).Sync(ctx))

	a, ok := memIndex.GetUsage("a")
	require.True(t, ok)
	assert.Equal(t, int64(3), a.Counter)

	b, _ := memIndex.GetUsage("b")
	assert.Equal(t, int64(4), b.Counter)
}

func TestRedisSyncer_Empty(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	memIndex := index.NewMemoryIndex()
	require.NoError(t, NewRedisSyncer(redisstore.NewStore(client), memIndex, logger.NewNop()).Sync(context.Background()))
	assert.Zero(t, memIndex.UsageCount())
}
