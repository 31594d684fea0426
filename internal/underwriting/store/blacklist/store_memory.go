// Package blacklist stores per-lender deny-list entries.
package blacklist

import (
	"context"
	"sync"

	"fundline/internal/underwriting"
	id "fundline/pkg/domain"
)

type memoryKey struct {
	lenderID   id.LenderID
	entityType underwriting.EntityType
	entityID   string
}

// MemoryStore keeps active entries in a set. Entry management is owned by
// the host service; Add/Remove exist for wiring code and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[memoryKey]struct{}
}

// NewMemory creates an empty in-memory blacklist store.
func NewMemory() *MemoryStore {
	return &MemoryStore{entries: make(map[memoryKey]struct{})}
}

// Add marks an entity as blacklisted for a lender.
func (s *MemoryStore) Add(_ context.Context, entry underwriting.BlacklistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[memoryKey{entry.LenderID, entry.EntityType, entry.EntityID}] = struct{}{}
	return nil
}

// Remove clears an entry.
func (s *MemoryStore) Remove(_ context.Context, entry underwriting.BlacklistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, memoryKey{entry.LenderID, entry.EntityType, entry.EntityID})
	return nil
}

// IsBlacklisted implements ports.BlacklistStore.
func (s *MemoryStore) IsBlacklisted(_ context.Context, lenderID id.LenderID, entityType underwriting.EntityType, entityID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, hit := s.entries[memoryKey{lenderID, entityType, entityID}]
	return hit, nil
}
