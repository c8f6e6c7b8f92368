package ratelimit

import (
	"context"
	"testing"
	"time"
)

// newTestLimiter returns a limiter with a controllable clock.
func newTestLimiter(limit int, window time.Duration) (*Limiter, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := New(NewMemoryStore(window), limit, window)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(5, time.Minute)

	for i := 1; i <= 5; i++ {
		res, err := l.Check(context.Background(), "1.2.3.4")
		if err != nil {
			t.Fatalf("unexpected error on request %d: %v", i, err)
		}
		if !res.Allowed {
			t.Fatalf("expected request %d to be allowed", i)
		}
		if res.Remaining != 5-i {
			t.Errorf("request %d: expected remaining=%d, got %d", i, 5-i, res.Remaining)
		}
	}
}

func TestLimiter_DeniesSixthRequest(t *testing.T) {
	l, now := newTestLimiter(5, time.Minute)

	for i := 0; i < 5; i++ {
		if _, err := l.Check(context.Background(), "1.2.3.4"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	*now = now.Add(30 * time.Second)
	res, err := l.Check(context.Background(), "1.2.3.4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Allowed {
		t.Fatal("expected 6th request within the window to be denied")
	}
	if res.RetryAfter != 30*time.Second {
		t.Errorf("expected retry-after=30s, got %v", res.RetryAfter)
	}
}

func TestLimiter_DenialDoesNotIncrement(t *testing.T) {
	l, _ := newTestLimiter(2, time.Minute)
	store := l.store.(*MemoryStore)

	for i := 0; i < 4; i++ {
		if _, err := l.Check(context.Background(), "k"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	e, ok, _ := store.Get(context.Background(), "k")
	if !ok {
		t.Fatal("expected entry for key")
	}
	if e.Count != 2 {
		t.Errorf("expected count to stay at the ceiling (2), got %d", e.Count)
	}
}

func TestLimiter_WindowElapsedResetsCounter(t *testing.T) {
	l, now := newTestLimiter(5, time.Minute)

	for i := 0; i < 6; i++ {
		if _, err := l.Check(context.Background(), "1.2.3.4"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	*now = now.Add(time.Minute)

	// Exactly 5 more requests succeed in the fresh window.
	for i := 1; i <= 5; i++ {
		res, err := l.Check(context.Background(), "1.2.3.4")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("expected request %d after reset to be allowed", i)
		}
	}
	res, _ := l.Check(context.Background(), "1.2.3.4")
	if res.Allowed {
		t.Error("expected 6th request after reset to be denied")
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	if res, _ := l.Check(context.Background(), "a"); !res.Allowed {
		t.Fatal("expected first request from a to be allowed")
	}
	if res, _ := l.Check(context.Background(), "a"); res.Allowed {
		t.Fatal("expected second request from a to be denied")
	}
	if res, _ := l.Check(context.Background(), "b"); !res.Allowed {
		t.Error("expected request from b to be unaffected by a's quota")
	}
}

func TestMemoryStore_SweepRemovesExpiredEntries(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	_ = s.Set(context.Background(), "old", Entry{Count: 3, WindowStart: start})
	_ = s.Set(context.Background(), "fresh", Entry{Count: 1, WindowStart: start.Add(50 * time.Second)})

	s.sweep(start.Add(70 * time.Second))

	if _, ok, _ := s.Get(context.Background(), "old"); ok {
		t.Error("expected expired entry to be swept")
	}
	if _, ok, _ := s.Get(context.Background(), "fresh"); !ok {
		t.Error("expected live entry to survive the sweep")
	}
}
