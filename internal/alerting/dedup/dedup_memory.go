// Package dedup suppresses repeated alert emissions for the same condition
// within a time window.
package dedup

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the in-process dedup window. Entries expire lazily on the
// next lookup.
type MemoryStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
	now  func() time.Time
}

// NewMemory creates an empty in-memory dedup store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

// FirstSeen implements ports.DedupStore.
func (s *MemoryStore) FirstSeen(_ context.Context, key string, ttl time.Duration) (bool, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, ok := s.seen[key]; ok && now.Before(expiry) {
		return false, nil
	}
	s.seen[key] = now.Add(ttl)
	return true, nil
}
