package index

import (
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/dock/internal/domain"
)

// MemoryIndex holds the live configuration snapshot and the launch counters.
// The counters act as the source of truth when Redis is unavailable.
type MemoryIndex struct {
	mu         sync.RWMutex
	config     domain.Configuration
	revision   uint64                   // bumped on every SetConfig
	lastReload time.Time                // Timestamp of last configuration swap
	usage      map[string]*domain.Usage // UsageKey -> Usage
}

// NewMemoryIndex creates an index holding the default configuration.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		config: domain.Default(),
		usage:  make(map[string]*domain.Usage),
	}
}

// ─────────────────────────────────────────────────────────────────
// Configuration snapshot
// ─────────────────────────────────────────────────────────────────

// SetConfig replaces the snapshot and returns the new revision.
func (idx *MemoryIndex) SetConfig(cfg domain.Configuration) uint64 {
	cfg = cfg.Clone()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	return idx.swap(cfg)
}

// SetConfigIf replaces the snapshot only while the revision is still
// expected. A reader that loaded the file before a newer snapshot went in
// gets false and must not overwrite it.
func (idx *MemoryIndex) SetConfigIf(cfg domain.Configuration, expected uint64) (uint64, bool) {
	cfg = cfg.Clone()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.revision != expected {
		return idx.revision, false
	}
	return idx.swap(cfg), true
}

func (idx *MemoryIndex) swap(cfg domain.Configuration) uint64 {
	idx.config = cfg
	idx.revision++
	idx.lastReload = time.Now()
	return idx.revision
}

// Config returns a private copy of the current snapshot.
func (idx *MemoryIndex) Config() domain.Configuration {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.config.Clone()
}

// Revision returns the number of snapshots installed so far.
func (idx *MemoryIndex) Revision() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.revision
}

// GetLastReload returns the timestamp of the last snapshot swap.
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// Count returns the number of items across all categories.
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	n := 0
	for _, cat := range idx.config.Categories {
		n += len(cat.Items)
	}
	return n
}

// ─────────────────────────────────────────────────────────────────
// Usage counters
// ─────────────────────────────────────────────────────────────────

// RecordLaunch counts one launch and returns a copy of the updated record.
func (idx *MemoryIndex) RecordLaunch(key, categoryName, itemName string, now time.Time) domain.Usage {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	u := domain.RecordLaunch(idx.usage[key], key, categoryName, itemName, now)
	idx.usage[key] = u
	return *u
}

// GetUsage retrieves a usage record by key.
func (idx *MemoryIndex) GetUsage(key string) (domain.Usage, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	u, ok := idx.usage[key]
	if !ok {
		return domain.Usage{}, false
	}
	return *u, true
}

// GetAllUsage returns every record, most launched first.
func (idx *MemoryIndex) GetAllUsage() []domain.Usage {
	idx.mu.RLock()
	out := make([]domain.Usage, 0, len(idx.usage))
	for _, u := range idx.usage {
		out = append(out, *u)
	}
	idx.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Counter != out[j].Counter {
			return out[i].Counter > out[j].Counter
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// PutUsage adds or replaces records, e.g. when restoring from Redis.
func (idx *MemoryIndex) PutUsage(records ...domain.Usage) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, r := range records {
		cp := r
		idx.usage[r.Key] = &cp
	}
}

// DeleteUsage removes a record.
func (idx *MemoryIndex) DeleteUsage(key string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.usage, key)
}

// UsageCount returns the number of usage records.
func (idx *MemoryIndex) UsageCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.usage)
}
