package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "accounts:ratelimit:"

// Decision is the outcome of a single rate-limit check.
type Decision struct {
	Allowed    bool
	Count      int64
	Limit      int
	RetryAfter time.Duration
}

// RateLimiter is a fixed-window request counter backed by Redis.
// Key format: accounts:ratelimit:<scope>:<subject>
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter allows limit requests per window for each key.
// A window of zero defaults to one minute.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow counts one request for key. A non-positive limit disables limiting.
func (l *RateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l.limit <= 0 {
		return Decision{Allowed: true, Limit: l.limit}, nil
	}

	redisKey := keyPrefix + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{Allowed: true, Limit: l.limit}, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return Decision{Allowed: true, Limit: l.limit}, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	retry, err := l.client.PTTL(ctx, redisKey).Result()
	if err != nil || retry <= 0 {
		retry = l.window
	}
	return Decision{
		Allowed:    count <= int64(l.limit),
		Count:      count,
		Limit:      l.limit,
		RetryAfter: retry,
	}, nil
}
