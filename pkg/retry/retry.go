package retry

import (
	"context"
	"time"
)

// BackoffStrategy defines the interface for calculating retry delays.
// Implementations should be safe for concurrent use.
type BackoffStrategy interface {
	// NextInterval returns the backoff duration before the given attempt.
	// Attempt starts at 1 for the first retry.
	NextInterval(attempt int) time.Duration
}

// FixedBackoff waits the same interval between every attempt.
type FixedBackoff struct {
	Interval time.Duration
}

func (f FixedBackoff) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return f.Interval
}

// ExponentialBackoff doubles the interval on each attempt up to Max.
type ExponentialBackoff struct {
	Initial time.Duration
	Max     time.Duration
}

func (e ExponentialBackoff) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	initial := e.Initial
	if initial == 0 {
		initial = time.Second
	}
	max := e.Max
	if max == 0 {
		max = 30 * time.Second
	}

	interval := initial
	for i := 1; i < attempt; i++ {
		interval *= 2
		if interval >= max {
			return max
		}
	}
	return interval
}

// SleepFunc waits for the given duration or until the context is cancelled.
// Injectable so retry loops can be unit-tested without real delays.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy describes a bounded-attempt retry discipline decoupled from any
// particular transport: how many attempts, how long between them, and which
// errors are worth retrying.
type Policy struct {
	MaxAttempts int
	Backoff     BackoffStrategy
	Retryable   func(error) bool // nil means every error is retryable
	Sleep       SleepFunc        // nil means context-aware time.Sleep
}

// Operation is one attempt of the retried work. The attempt ordinal starts
// at 1 so callers can log it.
type Operation func(ctx context.Context, attempt int) error

// Do runs op until it succeeds, the attempts are exhausted, a non-retryable
// error occurs, or the context is cancelled. The last attempt's error is
// returned on failure.
func (p Policy) Do(ctx context.Context, op Operation) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	backoff := p.Backoff
	if backoff == nil {
		backoff = FixedBackoff{Interval: time.Second}
	}

	sleep := p.Sleep
	if sleep == nil {
		sleep = defaultSleep
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = op(ctx, attempt)
		if lastErr == nil {
			return nil
		}

		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}

		if attempt == maxAttempts {
			break
		}

		if err := sleep(ctx, backoff.NextInterval(attempt)); err != nil {
			return err
		}
	}

	return lastErr
}

func defaultSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
