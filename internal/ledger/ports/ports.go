// Package ports defines the ledger storage contract shared by the memory,
// redis, and postgres implementations.
package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"fundline/internal/ledger"
	id "fundline/pkg/domain"
)

// Store is the atomic reservation backend. Reserve must perform its
// read-check-write as a single atomic unit per bucket: two concurrent calls
// whose combined amount would exceed the limit must never both succeed.
// Persistent write contention is reported with a conflict-coded error so the
// service layer can retry.
type Store interface {
	// Reserve atomically checks the bucket against req.Limit and
	// req.TierCap and applies the amount when there is room.
	Reserve(ctx context.Context, req ledger.ReserveRequest) (*ledger.Result, error)

	// TotalFor reads the amount reserved in a bucket. Zero when the
	// bucket does not exist. Read-only; never part of a reserve path.
	TotalFor(ctx context.Context, lenderID id.LenderID, ruleID id.RuleID, day string) (decimal.Decimal, error)
}
