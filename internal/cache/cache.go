// Package cache provides a per-user cache for generated insights, backed
// by Redis, with a no-op fallback when caching is disabled.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"focusflow/pkg/types"
)

const keyPrefix = "focusflow:insights:"

// InsightCache caches generated insight lists per user. A miss is
// reported via the bool return, never as an error.
type InsightCache interface {
	Get(ctx context.Context, userID string) ([]types.Insight, bool, error)
	Set(ctx context.Context, userID string, insights []types.Insight) error
	Invalidate(ctx context.Context, userID string) error
	Close() error
}

// RedisCache implements InsightCache on Redis with a fixed TTL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get returns the cached insights for a user, if present
func (c *RedisCache) Get(ctx context.Context, userID string) ([]types.Insight, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache for %s: %w", userID, err)
	}

	var insights []types.Insight
	if err := json.Unmarshal(data, &insights); err != nil {
		// A corrupt entry is treated as a miss
		return nil, false, nil
	}
	return insights, true, nil
}

// Set stores the insights for a user with the configured TTL
func (c *RedisCache) Set(ctx context.Context, userID string, insights []types.Insight) error {
	data, err := json.Marshal(insights)
	if err != nil {
		return fmt.Errorf("failed to marshal insights for %s: %w", userID, err)
	}
	if err := c.client.Set(ctx, keyPrefix+userID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache for %s: %w", userID, err)
	}
	return nil
}

// Invalidate drops the cached insights for a user
func (c *RedisCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, keyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache for %s: %w", userID, err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NoopCache satisfies InsightCache without caching anything
type NoopCache struct{}

// NewNoopCache returns a cache that always misses
func NewNoopCache() *NoopCache { return &NoopCache{} }

// Get always reports a miss
func (NoopCache) Get(context.Context, string) ([]types.Insight, bool, error) {
	return nil, false, nil
}

// Set discards the insights
func (NoopCache) Set(context.Context, string, []types.Insight) error { return nil }

// Invalidate is a no-op
func (NoopCache) Invalidate(context.Context, string) error { return nil }

// Close is a no-op
func (NoopCache) Close() error { return nil }
