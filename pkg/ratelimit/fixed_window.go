package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds rate limiter settings sourced from the environment.
type Config struct {
	Limit  int           `env:"RATELIMIT_REQUESTS" envDefault:"10"` // Limit is the number of requests allowed per window.
	Window time.Duration `env:"RATELIMIT_WINDOW" envDefault:"1m"`   // Window is the fixed window duration.
}

// FixedWindow is a Redis-backed fixed-window limiter. Counters live in Redis
// so a pool of stateless server instances shares one budget per key.
type FixedWindow struct {
	client redis.UniversalClient
	limit  int
	window time.Duration
	prefix string
}

// NewFixedWindow creates a fixed-window limiter.
// Panics on a nil client or non-positive limit/window to fail fast during
// initialization.
func NewFixedWindow(client redis.UniversalClient, cfg Config) *FixedWindow {
	if client == nil {
		panic("ratelimit: redis client is required")
	}
	if cfg.Limit <= 0 || cfg.Window <= 0 {
		panic("ratelimit: limit and window must be positive")
	}
	return &FixedWindow{
		client: client,
		limit:  cfg.Limit,
		window: cfg.Window,
		prefix: "ratelimit",
	}
}

// Allow increments the counter for the current window and reports whether
// the request fits within the limit.
func (f *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	now := time.Now()
	windowStart := now.Truncate(f.window)
	resetAt := windowStart.Add(f.window)

	redisKey := fmt.Sprintf("%s:%s:%d", f.prefix, key, windowStart.Unix())

	pipe := f.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, f.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	count := int(incr.Val())
	remaining := f.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:   count <= f.limit,
		Limit:     f.limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
