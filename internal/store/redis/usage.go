package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/dock/internal/domain"
)

// ErrUsageNotFound is returned when no record exists for a key
var ErrUsageNotFound = errors.New("usage not found")

// SaveUsage stores a usage record in Redis
func (s *Store) SaveUsage(ctx context.Context, u *domain.Usage) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal usage: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, UsageKey(u.Key), data, DefaultUsageTTL)
	pipe.SAdd(ctx, AllUsageKey(), u.Key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save usage: %w", err)
	}
	return nil
}

// GetUsage retrieves a usage record by item key
func (s *Store) GetUsage(ctx context.Context, key string) (*domain.Usage, error) {
	data, err := s.client.Get(ctx, UsageKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrUsageNotFound, key)
		}
		return nil, fmt.Errorf("failed to get usage: %w", err)
	}

	var u domain.Usage
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal usage: %w", err)
	}

	return &u, nil
}

// GetAllUsage retrieves every usage record. Expired entries still listed in
// the set are skipped.
func (s *Store) GetAllUsage(ctx context.Context) ([]*domain.Usage, error) {
	keys, err := s.client.SMembers(ctx, AllUsageKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get usage keys: %w", err)
	}

	if len(keys) == 0 {
		return []*domain.Usage{}, nil
	}

	records := make([]*domain.Usage, 0, len(keys))
	for _, key := range keys {
		u, err := s.GetUsage(ctx, key)
		if err != nil {
			// Skip records that couldn't be retrieved
			continue
		}
		records = append(records, u)
	}

	return records, nil
}

// DeleteUsage removes a usage record from Redis
func (s *Store) DeleteUsage(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, UsageKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete usage: %w", err)
	}

	if err := s.client.SRem(ctx, AllUsageKey(), key).Err(); err != nil {
		return fmt.Errorf("failed to remove usage from set: %w", err)
	}

	return nil
}

// SaveUsageMany stores multiple usage records in Redis (bulk operation)
func (s *Store) SaveUsageMany(ctx context.Context, records []*domain.Usage) error {
	if len(records) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()

	for _, u := range records {
		data, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("failed to marshal usage %s: %w", u.Key, err)
		}

		pipe.Set(ctx, UsageKey(u.Key), data, DefaultUsageTTL)
		pipe.SAdd(ctx, AllUsageKey(), u.Key)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save usage records: %w", err)
	}

	return nil
}
