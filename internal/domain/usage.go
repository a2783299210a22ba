package domain

import "time"

// Usage counts the launches of one shortcut.
//
// It is NOT part of the persisted configuration: it lives in the usage store
// and in memory, and survives edits as long as its key still resolves.
type Usage struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// Key is UsageKey of the item.
	Key string `json:"key"`

	// Category and Item are the names at the time of the last launch.
	Category string `json:"category"`
	Item     string `json:"item"`

	// ─────────────────────────────
	// Learning
	// ─────────────────────────────

	// Counter is the number of successful dispatches.
	Counter int64 `json:"counter"`

	// CreatedAt is the first launch.
	CreatedAt time.Time `json:"createdAt"`

	// LastUsedAt is updated after each successful dispatch.
	LastUsedAt time.Time `json:"lastUsedAt"`

	// ─────────────────────────────
	// Cleanup
	// ─────────────────────────────

	// OrphanedAt is set when the item disappears from the configuration
	// and cleared if it comes back. Zero means live.
	OrphanedAt time.Time `json:"orphanedAt"`
}

// Orphaned reports whether the record lost its item.
func (u *Usage) Orphaned() bool {
	return !u.OrphanedAt.IsZero()
}

// UsageKey identifies an item for usage accounting: its ID when it has one,
// otherwise "category/name".
func UsageKey(categoryName string, item Item) string {
	if item.ID != "" {
		return item.ID
	}
	return categoryName + "/" + item.Name
}

// UsageKeys returns the set of keys of every item in cfg.
func UsageKeys(cfg Configuration) map[string]bool {
	keys := make(map[string]bool)
	for _, cat := range cfg.Categories {
		for _, it := range cat.Items {
			keys[UsageKey(cat.Name, it)] = true
		}
	}
	return keys
}

// RecordLaunch returns u with one more launch at now. A nil u starts a new record.
func RecordLaunch(u *Usage, key, categoryName, itemName string, now time.Time) *Usage {
	if u == nil {
		u = &Usage{Key: key, CreatedAt: now}
	} else {
		cp := *u
		u = &cp
	}
	u.Category = categoryName
	u.Item = itemName
	u.Counter++
	u.LastUsedAt = now
	u.OrphanedAt = time.Time{}
	return u
}
