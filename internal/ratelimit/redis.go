// internal/ratelimit/redis.go

// Package ratelimit provides an injected rate-limiting capability backed by a
// shared store, so multiple instances of the service agree on counts.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether an action identified by key may proceed and records
// the attempt.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter is a fixed-window limiter: at most Max attempts per Window,
// counted with INCR under a TTL key.
type RedisLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
	prefix string
}

// NewRedisLimiter creates a RedisLimiter.
func NewRedisLimiter(client *redis.Client, max int64, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		max:    max,
		window: window,
		prefix: "ratelimit:",
	}
}

// Allow increments the window counter for key and reports whether the count
// is within the limit. The first attempt in a window sets the TTL.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key
	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr failed for %s: %w", key, err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire failed for %s: %w", key, err)
		}
	}
	return count <= l.max, nil
}
