// Package rule stores lender auto-lending rules.
package rule

import (
	"context"
	"sync"

	"fundline/internal/underwriting"
	id "fundline/pkg/domain"
)

// MemoryStore keeps rules in memory. Rule management is owned by the host
// service; Put exists so wiring code and tests can seed rule sets.
type MemoryStore struct {
	mu    sync.RWMutex
	rules map[id.LenderID][]underwriting.Rule
}

// NewMemory creates an empty in-memory rule store.
func NewMemory() *MemoryStore {
	return &MemoryStore{rules: make(map[id.LenderID][]underwriting.Rule)}
}

// Put inserts or replaces a rule.
func (s *MemoryStore) Put(_ context.Context, r underwriting.Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.rules[r.LenderID]
	for i := range existing {
		if existing[i].ID == r.ID {
			existing[i] = r
			return nil
		}
	}
	s.rules[r.LenderID] = append(existing, r)
	return nil
}

// ListActive implements ports.RuleStore. Results are sorted by
// (CreatedAt, ID) so callers see the contractual match order.
func (s *MemoryStore) ListActive(_ context.Context, lenderID id.LenderID) ([]underwriting.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active []underwriting.Rule
	for _, r := range s.rules[lenderID] {
		if r.Active {
			active = append(active, r)
		}
	}
	underwriting.SortRules(active)
	return active, nil
}
