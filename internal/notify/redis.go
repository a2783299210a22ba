package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/dock/internal/logger"
	redisstore "github.com/MrSnakeDoc/dock/internal/store/redis"
)

// Redis publishes change events on a shared channel so that several dock
// processes pointed at the same file stay in sync.
type Redis struct {
	store  *redisstore.Store
	origin string
	logger logger.Logger
}

// NewRedis creates a notifier with a fresh process origin.
func NewRedis(store *redisstore.Store, log logger.Logger) *Redis {
	return &Redis{
		store:  store,
		origin: uuid.NewString(),
		logger: log,
	}
}

// Origin returns the identifier stamped on published events.
func (r *Redis) Origin() string { return r.origin }

// Notify publishes ev. Events that arrived from the channel are not echoed back.
func (r *Redis) Notify(ctx context.Context, ev Event) error {
	if ev.Source == SourceRemote {
		return nil
	}
	ev.Origin = r.origin

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return r.store.Publish(ctx, redisstore.ChannelConfigChanged, payload)
}

// Listen calls fn for every event published by other processes until ctx ends.
func (r *Redis) Listen(ctx context.Context, fn func(Event)) error {
	sub := r.store.Subscribe(ctx, redisstore.ChannelConfigChanged)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				r.logger.Warn("ignoring malformed change event", logger.Error(err))
				continue
			}
			if ev.Origin == r.origin {
				continue
			}
			ev.Source = SourceRemote
			fn(ev)
		}
	}
}
