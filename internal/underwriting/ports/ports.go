// Package ports defines the collaborator interfaces the decision
// orchestrator depends on. Interfaces live here because both the service and
// its mocks consume them.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"fundline/internal/alerts"
	"fundline/internal/ledger"
	"fundline/internal/underwriting"
	id "fundline/pkg/domain"
)

// RuleStore reads a lender's auto-lending rules.
type RuleStore interface {
	// ListActive returns the lender's active rules ordered by
	// (CreatedAt, ID) ascending. The ordering is part of the contract:
	// the selector's determinism depends on it.
	ListActive(ctx context.Context, lenderID id.LenderID) ([]underwriting.Rule, error)
}

// BlacklistStore answers the hard-veto question.
type BlacklistStore interface {
	// IsBlacklisted reports whether the lender holds an active blacklist
	// entry for the entity. Pure lookup, no side effects.
	IsBlacklisted(ctx context.Context, lenderID id.LenderID, entityType underwriting.EntityType, entityID string) (bool, error)
}

// LoanRequestStore loads evaluation inputs.
type LoanRequestStore interface {
	// FindByID returns the request or a not-found coded error.
	FindByID(ctx context.Context, loanRequestID id.LoanRequestID) (*underwriting.LoanRequest, error)
}

// LenderStore loads per-tenant engine settings.
type LenderStore interface {
	// FindByID returns the lender or a not-found coded error.
	FindByID(ctx context.Context, lenderID id.LenderID) (*underwriting.Lender, error)
}

// Ledger is the reserve-if-room front door.
type Ledger interface {
	TryReserve(ctx context.Context, req ledger.ReserveRequest) (*ledger.Result, error)
}

// AlertPublisher emits alert events produced during evaluation.
type AlertPublisher interface {
	Emit(ctx context.Context, event alerts.Event) error
}
