package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the in-process Store. Suitable for a single instance only:
// each process has its own map and a restart resets every key's quota.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
	ttl     time.Duration
}

// NewMemoryStore creates a MemoryStore whose entries expire after ttl and
// starts a background sweep so the map does not grow without bound under
// many distinct source IPs.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]Entry),
		ttl:     ttl,
	}
	go s.sweepLoop()
	return s
}

var _ Store = (*MemoryStore)(nil)

// sweepLoop periodically removes entries whose window has long elapsed.
func (s *MemoryStore) sweepLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.sweep(time.Now())
	}
}

func (s *MemoryStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		if now.Sub(e.WindowStart) >= s.ttl {
			delete(s.entries, key)
		}
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return e, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = e
	return nil
}

func (s *MemoryStore) Increment(ctx context.Context, key string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[key]
	e.Count++
	s.entries[key] = e
	return e, nil
}
