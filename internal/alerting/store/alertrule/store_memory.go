// Package alertrule stores lender-configured alert rules.
package alertrule

import (
	"context"
	"sort"
	"sync"

	"fundline/internal/alerting"
	id "fundline/pkg/domain"
)

// MemoryStore keeps alert rules in memory for tests and the MVP wiring.
type MemoryStore struct {
	mu    sync.RWMutex
	rules map[id.LenderID]map[id.AlertRuleID]alerting.AlertRule
}

// NewMemory creates an empty in-memory alert rule store.
func NewMemory() *MemoryStore {
	return &MemoryStore{rules: make(map[id.LenderID]map[id.AlertRuleID]alerting.AlertRule)}
}

// Put inserts or replaces a rule.
func (s *MemoryStore) Put(_ context.Context, rule alerting.AlertRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	byID, ok := s.rules[rule.LenderID]
	if !ok {
		byID = make(map[id.AlertRuleID]alerting.AlertRule)
		s.rules[rule.LenderID] = byID
	}
	byID[rule.ID] = rule
	return nil
}

// ListActive implements ports.AlertRuleStore.
func (s *MemoryStore) ListActive(_ context.Context, lenderID id.LenderID) ([]alerting.AlertRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []alerting.AlertRule
	for _, rule := range s.rules[lenderID] {
		if rule.Active {
			out = append(out, rule)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}
