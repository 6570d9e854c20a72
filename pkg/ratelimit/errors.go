package ratelimit

import "errors"

var (
	// ErrStoreUnavailable indicates the backing store could not be reached.
	ErrStoreUnavailable = errors.New("rate limit store unavailable")
)
