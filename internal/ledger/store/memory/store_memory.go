// Package memory holds the in-process ledger store used by tests and
// single-node deployments.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"fundline/internal/ledger"
	id "fundline/pkg/domain"
)

// Store keeps buckets in a mutex-guarded map. The mutex makes the
// read-check-write of Reserve a single atomic unit; the never-overshoot
// invariant holds for any number of concurrent callers within one process.
// For multi-node deployments use the redis or postgres store instead.
type Store struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	total decimal.Decimal
	tiers map[string]decimal.Decimal
}

// New creates an empty in-memory ledger store.
func New() *Store {
	return &Store{buckets: make(map[string]*bucket)}
}

func bucketKey(lenderID id.LenderID, ruleID id.RuleID, day string) string {
	return fmt.Sprintf("%s:%s:%s", lenderID, ruleID, day)
}

// Reserve implements ports.Store.
func (s *Store) Reserve(_ context.Context, req ledger.ReserveRequest) (*ledger.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := bucketKey(req.LenderID, req.RuleID, req.Day)
	b, exists := s.buckets[key]
	if !exists {
		b = &bucket{total: decimal.Zero, tiers: make(map[string]decimal.Decimal)}
		s.buckets[key] = b
	}
	tierTotal := b.tiers[req.Tier]

	if req.Limit != nil && b.total.Add(req.Amount).GreaterThan(*req.Limit) {
		return &ledger.Result{
			Status:    ledger.StatusLimitExceeded,
			Total:     b.total,
			TierTotal: tierTotal,
		}, nil
	}

	// Tier admission is checked against the total before this reservation
	// applies: the loan that crosses the cap is admitted, the next is not.
	if req.TierCap != nil && tierTotal.GreaterThanOrEqual(*req.TierCap) {
		return &ledger.Result{
			Status:    ledger.StatusRiskAllocationDenied,
			Total:     b.total,
			TierTotal: tierTotal,
		}, nil
	}

	b.total = b.total.Add(req.Amount)
	b.tiers[req.Tier] = tierTotal.Add(req.Amount)

	return &ledger.Result{
		Status:    ledger.StatusReserved,
		Total:     b.total,
		TierTotal: b.tiers[req.Tier],
	}, nil
}

// TotalFor implements ports.Store.
func (s *Store) TotalFor(_ context.Context, lenderID id.LenderID, ruleID id.RuleID, day string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, exists := s.buckets[bucketKey(lenderID, ruleID, day)]; exists {
		return b.total, nil
	}
	return decimal.Zero, nil
}
