// Package underwriting holds the automated lending engine: domain types, the
// rule selector, and the decision orchestrator that composes blacklist
// checks, rule matching, and ledger reservations into a single verdict.
package underwriting

import (
	"time"

	"github.com/shopspring/decimal"

	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
)

// RiskTier is a coarse credit-risk bucket used both for request scoring and
// for portfolio-composition limits.
type RiskTier string

const (
	TierA RiskTier = "A"
	TierB RiskTier = "B"
	TierC RiskTier = "C"
	TierD RiskTier = "D"
)

// Rank orders tiers for comparisons: A is best. Unknown tiers rank below D.
func (t RiskTier) Rank() int {
	switch t {
	case TierA:
		return 4
	case TierB:
		return 3
	case TierC:
		return 2
	case TierD:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether t is one of the four defined tiers.
func (t RiskTier) IsValid() bool {
	return t.Rank() > 0
}

// TierForScore maps a numeric credit score onto a tier. Thresholds follow
// the marketplace's scoring bands.
func TierForScore(score int) RiskTier {
	switch {
	case score >= 750:
		return TierA
	case score >= 650:
		return TierB
	case score >= 550:
		return TierC
	default:
		return TierD
	}
}

// Rule is a lender-configured constraint set used to auto-approve loan
// requests. Zero-value optional fields mean "no constraint": a nil amount
// bound, an empty category or region set, a zero MinCreditScore, a nil
// DailyDeploymentLimit, and a nil RiskAllocation all disable their checks.
type Rule struct {
	ID       id.RuleID
	LenderID id.LenderID
	Name     string
	Active   bool

	MinLoanAmount *decimal.Decimal
	MaxLoanAmount *decimal.Decimal

	// PreferredCategories and PreferredRegions are membership sets; an
	// empty set accepts everything.
	PreferredCategories map[string]struct{}
	PreferredRegions    map[string]struct{}

	MinCreditScore int

	// DailyDeploymentLimit caps capital reserved through this rule per
	// lender-local calendar day.
	DailyDeploymentLimit *decimal.Decimal

	// RiskAllocation maps a tier to the maximum percent of the daily limit
	// that may be deployed to requests in that tier. Only enforced when
	// DailyDeploymentLimit is set. A tier absent from a non-empty map gets
	// no budget.
	RiskAllocation map[RiskTier]decimal.Decimal

	// AutoApproveTrustedSuppliers waives the credit-score check for
	// requests whose supplier the lender marked as trusted. It never
	// waives amount, category, or region constraints.
	AutoApproveTrustedSuppliers bool

	CreatedAt time.Time
}

// Validate rejects rule shapes the selector cannot evaluate coherently.
func (r *Rule) Validate() error {
	if r.ID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "rule id is required")
	}
	if r.LenderID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "rule lender_id is required")
	}
	if r.MinLoanAmount != nil && r.MinLoanAmount.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "min_loan_amount must not be negative")
	}
	if r.MaxLoanAmount != nil && r.MaxLoanAmount.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "max_loan_amount must not be negative")
	}
	if r.MinLoanAmount != nil && r.MaxLoanAmount != nil && r.MinLoanAmount.GreaterThan(*r.MaxLoanAmount) {
		return dErrors.New(dErrors.CodeValidation, "min_loan_amount must not exceed max_loan_amount")
	}
	if r.DailyDeploymentLimit != nil && !r.DailyDeploymentLimit.IsPositive() {
		return dErrors.New(dErrors.CodeValidation, "daily_deployment_limit must be positive")
	}
	for tier, pct := range r.RiskAllocation {
		if !tier.IsValid() {
			return dErrors.Newf(dErrors.CodeValidation, "risk_allocation tier %q is not one of A-D", tier)
		}
		if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
			return dErrors.Newf(dErrors.CodeValidation, "risk_allocation percent for tier %s must be within [0,100]", tier)
		}
	}
	return nil
}

// EntityType distinguishes the two counterparty kinds a blacklist entry can
// veto.
type EntityType string

const (
	EntityRetailer EntityType = "retailer"
	EntitySupplier EntityType = "supplier"
)

// IsValid reports whether e is a known entity type.
func (e EntityType) IsValid() bool {
	return e == EntityRetailer || e == EntitySupplier
}

// BlacklistEntry is a per-lender deny-list record. Only active entries veto.
type BlacklistEntry struct {
	LenderID   id.LenderID
	EntityType EntityType
	EntityID   string
	Active     bool
	CreatedAt  time.Time
}

// LoanRequest is the immutable input to an evaluation, produced upstream
// when a retailer asks for financing on an order.
type LoanRequest struct {
	ID            id.LoanRequestID
	LenderID      id.LenderID
	RetailerID    id.RetailerID
	SupplierID    id.SupplierID
	GoodsCategory string
	Region        string
	LoanAmount    decimal.Decimal

	// CreditScore is the retailer's score at request time; 0 means the
	// upstream scorer supplied a tier instead.
	CreditScore int

	// RiskTier is the scored tier when present; derived from CreditScore
	// otherwise.
	RiskTier RiskTier

	SupplierIsTrusted bool
	RequestedAt       time.Time
}

// Tier resolves the request's risk tier, deriving it from the credit score
// when the upstream scorer did not assign one.
func (lr *LoanRequest) Tier() RiskTier {
	if lr.RiskTier.IsValid() {
		return lr.RiskTier
	}
	return TierForScore(lr.CreditScore)
}

// Validate rejects request shapes the engine cannot evaluate.
func (lr *LoanRequest) Validate() error {
	if lr.ID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "loan request id is required")
	}
	if lr.LenderID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "loan request lender_id is required")
	}
	if lr.RetailerID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "loan request retailer_id is required")
	}
	if lr.SupplierID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "loan request supplier_id is required")
	}
	if !lr.LoanAmount.IsPositive() {
		return dErrors.New(dErrors.CodeValidation, "loan_amount must be positive")
	}
	if lr.RiskTier != "" && !lr.RiskTier.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "risk_tier %q is not one of A-D", lr.RiskTier)
	}
	return nil
}

// NoMatchPolicy decides what happens when no rule matches a request.
type NoMatchPolicy string

const (
	// NoMatchDeny denies outright.
	NoMatchDeny NoMatchPolicy = "deny"

	// NoMatchDefer parks the request for manual review.
	NoMatchDefer NoMatchPolicy = "defer"
)

// IsValid reports whether p is a known policy.
func (p NoMatchPolicy) IsValid() bool {
	return p == NoMatchDeny || p == NoMatchDefer
}

// Lender carries the per-tenant settings the engine needs; the rest of the
// lender profile lives outside the engine.
type Lender struct {
	ID   id.LenderID
	Name string

	// Timezone is the IANA zone name used to assign reservations to
	// calendar days.
	Timezone string

	// NoMatchPolicy overrides the service default when set.
	NoMatchPolicy NoMatchPolicy
}

// Location resolves the lender's timezone, falling back to UTC when the
// record carries no zone or an unknown one.
func (l *Lender) Location() *time.Location {
	if l.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Outcome is the engine's verdict on a loan request.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeDenied   Outcome = "denied"
	OutcomeDeferred Outcome = "deferred"
)

// Reason is the machine-readable justification attached to a decision.
// Operators act differently on each, so they must stay distinguishable.
type Reason string

const (
	// ReasonBlacklisted marks a hard veto on the retailer or supplier.
	ReasonBlacklisted Reason = "blacklisted"

	// ReasonNoMatchingRule marks a request no active rule accepted.
	ReasonNoMatchingRule Reason = "no_matching_rule"

	// ReasonDailyLimitExceeded marks a content match whose rule has no
	// capital budget left for the day.
	ReasonDailyLimitExceeded Reason = "daily_limit_exceeded"

	// ReasonRiskAllocationExceeded marks a content match rejected because
	// the request's tier exhausted its share of the rule's daily limit.
	ReasonRiskAllocationExceeded Reason = "risk_allocation_exceeded"

	// ReasonManualReview marks a deferred no-match under NoMatchDefer.
	ReasonManualReview Reason = "manual_review"

	// ReasonMatchedRule marks an approval.
	ReasonMatchedRule Reason = "matched_rule"
)

// Decision is the engine's output. Created once per evaluation, immutable
// thereafter; persistence belongs to the caller.
type Decision struct {
	LoanRequestID id.LoanRequestID
	Outcome       Outcome
	MatchedRuleID *id.RuleID
	Reason        Reason
	EvaluatedAt   time.Time
}
