// Package ratelimit implements a fixed-window request counter keyed by
// source IP. The window state lives behind the Store interface so a shared
// backend can replace the in-process map when the service scales out.
package ratelimit

import (
	"context"
	"time"
)

const (
	// DefaultLimit is the request ceiling per window per key.
	DefaultLimit = 5
	// DefaultWindow is the fixed window length.
	DefaultWindow = time.Minute
)

// Entry is one key's counter state: how many requests have been seen since
// the window started.
type Entry struct {
	Count       int
	WindowStart time.Time
}

// Store holds per-key window entries. Increment must be atomic with respect
// to concurrent callers for the same key.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry) error
	Increment(ctx context.Context, key string) (Entry, error)
}

// Result is the outcome of a single Check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
	// RetryAfter is the remaining window time. Only set on denial.
	RetryAfter time.Duration
}

// Limiter applies a fixed window of `window` with a ceiling of `limit`
// requests per key. Bursts at window boundaries are accepted behavior:
// a client can spend a full quota at the end of one window and another
// at the start of the next.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
}

// New creates a Limiter over the given store. Non-positive limit or window
// fall back to the defaults.
func New(store Store, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{store: store, limit: limit, window: window, now: time.Now}
}

// Check records one request attempt for key and reports whether it is
// allowed. A key's first request, or its first request after the window
// elapsed, resets the counter to 1. Denied requests do not increment.
func (l *Limiter) Check(ctx context.Context, key string) (Result, error) {
	now := l.now()

	e, ok, err := l.store.Get(ctx, key)
	if err != nil {
		return Result{}, err
	}

	if !ok || now.Sub(e.WindowStart) >= l.window {
		if err := l.store.Set(ctx, key, Entry{Count: 1, WindowStart: now}); err != nil {
			return Result{}, err
		}
		return Result{
			Allowed:   true,
			Remaining: l.limit - 1,
			ResetAt:   now.Add(l.window),
		}, nil
	}

	resetAt := e.WindowStart.Add(l.window)

	if e.Count < l.limit {
		e, err = l.store.Increment(ctx, key)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Allowed:   true,
			Remaining: l.limit - e.Count,
			ResetAt:   resetAt,
		}, nil
	}

	return Result{
		Allowed:    false,
		Remaining:  0,
		ResetAt:    resetAt,
		RetryAfter: resetAt.Sub(now),
	}, nil
}
