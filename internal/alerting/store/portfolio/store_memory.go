// Package portfolio stores the funded-loan view the alert evaluator reads.
package portfolio

import (
	"context"
	"sync"

	"fundline/internal/alerting"
	id "fundline/pkg/domain"
)

// MemoryStore keeps loans in memory for tests and the MVP wiring.
type MemoryStore struct {
	mu    sync.RWMutex
	loans map[id.LenderID]map[id.LoanID]alerting.Loan
}

// NewMemory creates an empty in-memory portfolio store.
func NewMemory() *MemoryStore {
	return &MemoryStore{loans: make(map[id.LenderID]map[id.LoanID]alerting.Loan)}
}

// Put inserts or replaces a loan.
func (s *MemoryStore) Put(_ context.Context, loan alerting.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID, ok := s.loans[loan.LenderID]
	if !ok {
		byID = make(map[id.LoanID]alerting.Loan)
		s.loans[loan.LenderID] = byID
	}
	byID[loan.ID] = loan
	return nil
}

// ListOpenLoans implements ports.PortfolioStore.
func (s *MemoryStore) ListOpenLoans(_ context.Context, lenderID id.LenderID) ([]alerting.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []alerting.Loan
	for _, loan := range s.loans[lenderID] {
		if loan.Status != alerting.LoanRepaid {
			out = append(out, loan)
		}
	}
	return out, nil
}
