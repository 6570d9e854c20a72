package ratelimit_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetwise/sheetwise/pkg/ratelimit"
)

type stubLimiter struct {
	result *ratelimit.Result
	err    error
	keys   []string
}

func (s *stubLimiter) Allow(ctx context.Context, key string) (*ratelimit.Result, error) {
	s.keys = append(s.keys, key)
	return s.result, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	keyFunc := func(r *http.Request) string { return r.Header.Get("X-User") }

	t.Run("allowed request passes with headers", func(t *testing.T) {
		t.Parallel()

		limiter := &stubLimiter{result: &ratelimit.Result{
			Allowed:   true,
			Limit:     10,
			Remaining: 9,
			ResetAt:   time.Now().Add(time.Minute),
		}}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-User", "user-1")

		ratelimit.Middleware(limiter, keyFunc)(okHandler()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "9", rec.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, []string{"user-1"}, limiter.keys)
	})

	t.Run("denied request gets 429 with retry-after", func(t *testing.T) {
		t.Parallel()

		limiter := &stubLimiter{result: &ratelimit.Result{
			Allowed:   false,
			Limit:     10,
			Remaining: 0,
			ResetAt:   time.Now().Add(30 * time.Second),
		}}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-User", "user-1")

		ratelimit.Middleware(limiter, keyFunc)(okHandler()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	})

	t.Run("fails open on limiter error", func(t *testing.T) {
		t.Parallel()

		limiter := &stubLimiter{err: errors.New("redis down")}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-User", "user-1")

		ratelimit.Middleware(limiter, keyFunc)(okHandler()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty key skips limiting", func(t *testing.T) {
		t.Parallel()

		limiter := &stubLimiter{}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)

		ratelimit.Middleware(limiter, keyFunc)(okHandler()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, limiter.keys)
	})
}
