// Package ratelimit provides a Redis-backed fixed-window rate limiter with
// HTTP middleware. It guards the generation endpoint so a single user cannot
// burn through the upstream AI quota.
package ratelimit

import (
	"context"
	"net/http"
	"time"
)

// Result contains the result of a rate limit check.
type Result struct {
	// Allowed indicates whether the request is allowed.
	Allowed bool

	// Limit is the maximum number of requests allowed in the window.
	Limit int

	// Remaining is the number of requests remaining in the current window.
	Remaining int

	// ResetAt is the time when the rate limit window resets.
	ResetAt time.Time
}

// RetryAfter returns how long to wait before the next request is allowed.
// Returns 0 if the current request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Limiter defines the interface for rate limiting implementations.
type Limiter interface {
	// Allow checks if a single request is allowed for the given key.
	// If allowed, it consumes one slot.
	Allow(ctx context.Context, key string) (*Result, error)
}

// KeyFunc extracts the rate limit key from a request. Returning an empty
// string skips limiting for that request.
type KeyFunc func(r *http.Request) string
