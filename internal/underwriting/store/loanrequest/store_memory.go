// Package loanrequest stores evaluation inputs produced upstream.
package loanrequest

import (
	"context"
	"sync"

	"fundline/internal/underwriting"
	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
)

// MemoryStore keeps loan requests in memory for tests and the MVP wiring.
type MemoryStore struct {
	mu       sync.RWMutex
	requests map[id.LoanRequestID]underwriting.LoanRequest
}

// NewMemory creates an empty in-memory loan request store.
func NewMemory() *MemoryStore {
	return &MemoryStore{requests: make(map[id.LoanRequestID]underwriting.LoanRequest)}
}

// Put inserts or replaces a request.
func (s *MemoryStore) Put(_ context.Context, lr underwriting.LoanRequest) error {
	if err := lr.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[lr.ID] = lr
	return nil
}

// FindByID implements ports.LoanRequestStore.
func (s *MemoryStore) FindByID(_ context.Context, loanRequestID id.LoanRequestID) (*underwriting.LoanRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lr, exists := s.requests[loanRequestID]
	if !exists {
		return nil, dErrors.New(dErrors.CodeNotFound, "loan request not found")
	}
	return &lr, nil
}
