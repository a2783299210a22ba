// Package notify tells interested parties that the stored configuration
// changed. It replaces the single "config-updated" broadcast of the desktop
// shell: in-process through Hub, across processes through Redis pub/sub, and
// from external editors through the file Watcher.
package notify

import (
	"context"
	"sync"
	"time"
)

// Source says what caused a configuration change.
type Source string

const (
	SourceStartup Source = "startup"
	SourceAPI     Source = "api"
	SourceFile    Source = "file"
	SourceTimer   Source = "timer"
	SourceManual  Source = "manual"
	SourceRemote  Source = "remote"
)

// Event describes one configuration change.
type Event struct {
	Source   Source    `json:"source"`
	Revision uint64    `json:"revision"`
	At       time.Time `json:"at"`
	// Origin identifies the publishing process on shared channels.
	Origin string `json:"origin,omitempty"`
}

// Notifier delivers change events.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Multi fans an event out to several notifiers and returns the first error.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev Event) error {
	var first error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Hub is an in-process broadcaster. Delivery never blocks: a subscriber
// whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Event)}
}

// Subscribe returns a channel of events and a function that releases it.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Notify broadcasts ev to every subscriber.
func (h *Hub) Notify(_ context.Context, ev Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs)
}
