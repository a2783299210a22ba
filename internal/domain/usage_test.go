package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageKey(t *testing.T) {
	assert.Equal(t, "Tools/VS Code", UsageKey("Tools", Item{Name: "VS Code"}))
	assert.Equal(t, "abc", UsageKey("Tools", Item{ID: "abc", Name: "VS Code"}))
}

func TestUsageKeys(t *testing.T) {
	keys := UsageKeys(seedConfig())
	assert.Equal(t, map[string]bool{"Tools/VS Code": true}, keys)
}

func TestRecordLaunch(t *testing.T) {
	t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	u := RecordLaunch(nil, "Tools/VS Code", "Tools", "VS Code", t0)
	require.NotNil(t, u)
	assert.Equal(t, int64(1), u.Counter)
	assert.Equal(t, t0, u.CreatedAt)
	assert.False(t, u.Orphaned())

	u.OrphanedAt = t0
	t1 := t0.Add(time.Hour)
	next := RecordLaunch(u, u.Key, "Tools", "VS Code", t1)

	assert.Equal(t, int64(2), next.Counter)
	assert.Equal(t, t0, next.CreatedAt)
	assert.Equal(t, t1, next.LastUsedAt)
	assert.False(t, next.Orphaned())
	// the previous record is left alone
	assert.Equal(t, int64(1), u.Counter)
	assert.True(t, u.Orphaned())
}
