// Package ports defines the collaborator interfaces the alert evaluator
// depends on.
package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fundline/internal/alerting"
	"fundline/internal/underwriting"
	id "fundline/pkg/domain"
)

// AlertRuleStore reads a lender's alert rules.
type AlertRuleStore interface {
	ListActive(ctx context.Context, lenderID id.LenderID) ([]alerting.AlertRule, error)
}

// PortfolioStore reads the lender's funded loans.
type PortfolioStore interface {
	// ListOpenLoans returns loans that are not fully repaid.
	ListOpenLoans(ctx context.Context, lenderID id.LenderID) ([]alerting.Loan, error)
}

// LendingRuleReader exposes the lender's active lending rules so utilization
// conditions can resolve each rule's daily limit.
type LendingRuleReader interface {
	ListActive(ctx context.Context, lenderID id.LenderID) ([]underwriting.Rule, error)
}

// LenderReader resolves per-tenant settings, in particular the timezone that
// anchors budget days.
type LenderReader interface {
	FindByID(ctx context.Context, lenderID id.LenderID) (*underwriting.Lender, error)
}

// DeploymentReader reads deployed-capital totals from the ledger.
type DeploymentReader interface {
	TotalFor(ctx context.Context, lenderID id.LenderID, ruleID id.RuleID, day string) (decimal.Decimal, error)
}

// DedupStore suppresses re-emission of a condition already announced within
// the dedup window.
type DedupStore interface {
	// FirstSeen records key and reports whether this was its first
	// appearance within ttl.
	FirstSeen(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
