// Package ratelimit throttles requests per client key with a token bucket.
//
// Two backends are provided: MemoryLimiter keeps buckets in process and
// RedisLimiter shares them between instances through Redis.
package ratelimit

import (
	"context"
	"time"
)

// Result describes the outcome of a single Allow call.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}
