// Package alerts defines the alert event shape and the publishing pipeline.
// Events are emitted from domain logic and fan out to external delivery;
// the engine never formats UI or sends notifications itself.
package alerts

import (
	"time"

	id "fundline/pkg/domain"
)

// Type classifies an alert by what a lender operator does about it.
type Type string

const (
	// TypeRisk covers blacklist hits, overdue loans, and exposure breaches.
	TypeRisk Type = "risk"

	// TypePayment covers payment-schedule conditions.
	TypePayment Type = "payment"

	// TypeOpportunity covers auto-approvals, recorded for auditability.
	TypeOpportunity Type = "opportunity"

	// TypeSystem covers engine-level conditions such as exhausted daily
	// deployment budgets.
	TypeSystem Type = "system"
)

// Priority orders alerts for delivery and display.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// Event is emitted from domain logic to capture a portfolio condition or an
// engine decision worth a lender's attention. Keep it transport-agnostic so
// sinks can fan out.
type Event struct {
	LenderID  id.LenderID
	Type      Type
	Priority  Priority
	Title     string
	Message   string
	Timestamp time.Time

	// RelatedEntity points at the loan request, loan, or rule the alert
	// concerns, when there is one.
	RelatedEntity string

	// Channels carries the configured delivery channels of the alert rule
	// that produced the event; empty for engine-emitted events, which use
	// lender defaults downstream.
	Channels []string

	// DedupKey suppresses re-emission of the same condition; empty events
	// are never deduplicated.
	DedupKey string
}
