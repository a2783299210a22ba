package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheIcon stores an encoded icon image
func (s *Store) CacheIcon(ctx context.Context, key string, png []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, IconKey(key), png, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache icon: %w", err)
	}
	return nil
}

// GetCachedIcon retrieves a cached icon. A miss returns nil, nil.
func (s *Store) GetCachedIcon(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, IconKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get cached icon: %w", err)
	}
	return data, nil
}

// FlushIcons removes every cached icon
func (s *Store) FlushIcons(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixIcon+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete icon key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush icons: %w", err)
	}
	return nil
}
