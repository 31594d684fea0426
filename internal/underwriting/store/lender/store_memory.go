// Package lender stores per-tenant engine settings.
package lender

import (
	"context"
	"sync"

	"fundline/internal/underwriting"
	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
)

// MemoryStore keeps lender records in memory for tests and the MVP wiring.
type MemoryStore struct {
	mu      sync.RWMutex
	lenders map[id.LenderID]underwriting.Lender
}

// NewMemory creates an empty in-memory lender store.
func NewMemory() *MemoryStore {
	return &MemoryStore{lenders: make(map[id.LenderID]underwriting.Lender)}
}

// Put inserts or replaces a lender record.
func (s *MemoryStore) Put(_ context.Context, l underwriting.Lender) error {
	if l.ID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "lender id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lenders[l.ID] = l
	return nil
}

// FindByID implements ports.LenderStore.
func (s *MemoryStore) FindByID(_ context.Context, lenderID id.LenderID) (*underwriting.Lender, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, exists := s.lenders[lenderID]
	if !exists {
		return nil, dErrors.New(dErrors.CodeNotFound, "lender not found")
	}
	return &l, nil
}
