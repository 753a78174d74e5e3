package ratelimit

import (
	"context"

	"github.com/userhub/userhub/internal/cache"
)

// RedisLimiter shares token buckets between instances through Redis.
// Redis failures fail open: the request is allowed and the error returned.
type RedisLimiter struct {
	cache *cache.Cache
	rps   int
	burst int
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(c *cache.Cache, rps, burst int) *RedisLimiter {
	return &RedisLimiter{cache: c, rps: rps, burst: burst}
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	res, err := l.cache.CheckIPRateLimit(ctx, key, l.rps, l.burst)
	return Result{
		Allowed:    res.Allowed,
		Limit:      l.burst,
		Remaining:  res.Remaining,
		ResetAt:    res.ResetAt,
		RetryAfter: res.RetryAfter,
	}, err
}
