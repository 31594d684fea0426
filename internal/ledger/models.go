// Package ledger tracks capital deployed per lender, per rule, per calendar
// day. It owns the engine's only shared mutable state; every mutation goes
// through the atomic reserve-if-room operation, never through a separate
// read-then-write.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
)

// DayFormat is the canonical calendar-day encoding used in bucket keys.
const DayFormat = "2006-01-02"

// DayOf renders t as a calendar day in the given location.
func DayOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayFormat)
}

// ReserveRequest describes one atomic reservation attempt. Limit and TierCap
// are resolved from the matched rule by the caller; the ledger stays ignorant
// of rule shapes. Tier is the request's risk tier ("A".."D"); it is recorded
// even when TierCap is nil so reporting can slice deployments by tier.
type ReserveRequest struct {
	LenderID id.LenderID
	RuleID   id.RuleID

	// Day is the lender-local calendar day in DayFormat.
	Day string

	Tier   string
	Amount decimal.Decimal

	// Limit caps the bucket's total. Nil means unlimited.
	Limit *decimal.Decimal

	// TierCap caps the tier's share of the bucket. Nil disables the tier
	// check. A reservation is admitted while the tier total is strictly
	// below the cap before the reservation applies, so the crossing loan
	// is allowed one loan of slack.
	TierCap *decimal.Decimal
}

// Validate rejects reservation shapes the stores cannot key.
func (r *ReserveRequest) Validate() error {
	if r.LenderID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "reserve lender_id is required")
	}
	if r.RuleID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "reserve rule_id is required")
	}
	if _, err := time.Parse(DayFormat, r.Day); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "reserve day must be YYYY-MM-DD")
	}
	if !r.Amount.IsPositive() {
		return dErrors.New(dErrors.CodeValidation, "reserve amount must be positive")
	}
	return nil
}

// Status is the outcome of a reservation attempt. Rejections are defined
// outcomes, not errors: nothing was written and no rollback is needed.
type Status string

const (
	StatusReserved             Status = "reserved"
	StatusLimitExceeded        Status = "limit_exceeded"
	StatusRiskAllocationDenied Status = "risk_allocation_exceeded"
)

// Result reports the attempt outcome with the bucket totals observed under
// the same atomic unit as the check.
type Result struct {
	Status Status

	// Total is the bucket total after a successful reservation, or the
	// unchanged total on rejection.
	Total decimal.Decimal

	// TierTotal mirrors Total for the request's tier.
	TierTotal decimal.Decimal
}

// Reserved is a convenience accessor.
func (r *Result) Reserved() bool { return r.Status == StatusReserved }
