// Package domain defines typed identifiers shared across features.
//
// Each identifier wraps uuid.UUID in a distinct named type so the compiler
// rejects cross-entity assignments (a RuleID can never be passed where a
// LenderID is expected). Parse functions enforce the invariant that IDs are
// valid, non-empty, non-nil UUIDs at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "fundline/pkg/domain-errors"
)

type (
	// LenderID identifies a lender tenant. Every engine operation is scoped
	// to exactly one lender.
	LenderID uuid.UUID

	// RuleID identifies an auto-lending rule.
	RuleID uuid.UUID

	// LoanRequestID identifies an incoming loan request.
	LoanRequestID uuid.UUID

	// RetailerID identifies a retailer on the marketplace.
	RetailerID uuid.UUID

	// SupplierID identifies a supplier on the marketplace.
	SupplierID uuid.UUID

	// AlertRuleID identifies a lender-configured alert rule.
	AlertRuleID uuid.UUID

	// LoanID identifies a funded loan in a lender's portfolio.
	LoanID uuid.UUID
)

func parseUUID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return parsed, nil
}

// ParseLenderID validates and parses a lender ID from its string form.
func ParseLenderID(raw string) (LenderID, error) {
	parsed, err := parseUUID(raw)
	return LenderID(parsed), err
}

// ParseRuleID validates and parses a rule ID from its string form.
func ParseRuleID(raw string) (RuleID, error) {
	parsed, err := parseUUID(raw)
	return RuleID(parsed), err
}

// ParseLoanRequestID validates and parses a loan request ID from its string form.
func ParseLoanRequestID(raw string) (LoanRequestID, error) {
	parsed, err := parseUUID(raw)
	return LoanRequestID(parsed), err
}

// ParseRetailerID validates and parses a retailer ID from its string form.
func ParseRetailerID(raw string) (RetailerID, error) {
	parsed, err := parseUUID(raw)
	return RetailerID(parsed), err
}

// ParseSupplierID validates and parses a supplier ID from its string form.
func ParseSupplierID(raw string) (SupplierID, error) {
	parsed, err := parseUUID(raw)
	return SupplierID(parsed), err
}

// ParseAlertRuleID validates and parses an alert rule ID from its string form.
func ParseAlertRuleID(raw string) (AlertRuleID, error) {
	parsed, err := parseUUID(raw)
	return AlertRuleID(parsed), err
}

// ParseLoanID validates and parses a loan ID from its string form.
func ParseLoanID(raw string) (LoanID, error) {
	parsed, err := parseUUID(raw)
	return LoanID(parsed), err
}

func (id LenderID) String() string      { return uuid.UUID(id).String() }
func (id RuleID) String() string        { return uuid.UUID(id).String() }
func (id LoanRequestID) String() string { return uuid.UUID(id).String() }
func (id RetailerID) String() string    { return uuid.UUID(id).String() }
func (id SupplierID) String() string    { return uuid.UUID(id).String() }
func (id AlertRuleID) String() string   { return uuid.UUID(id).String() }
func (id LoanID) String() string        { return uuid.UUID(id).String() }

func (id LenderID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id RuleID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id LoanRequestID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id RetailerID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id SupplierID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id AlertRuleID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id LoanID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }

// NewLenderID generates a fresh lender ID.
func NewLenderID() LenderID { return LenderID(uuid.New()) }

// NewRuleID generates a fresh rule ID.
func NewRuleID() RuleID { return RuleID(uuid.New()) }

// NewLoanRequestID generates a fresh loan request ID.
func NewLoanRequestID() LoanRequestID { return LoanRequestID(uuid.New()) }

// NewRetailerID generates a fresh retailer ID.
func NewRetailerID() RetailerID { return RetailerID(uuid.New()) }

// NewSupplierID generates a fresh supplier ID.
func NewSupplierID() SupplierID { return SupplierID(uuid.New()) }

// NewAlertRuleID generates a fresh alert rule ID.
func NewAlertRuleID() AlertRuleID { return AlertRuleID(uuid.New()) }

// NewLoanID generates a fresh loan ID.
func NewLoanID() LoanID { return LoanID(uuid.New()) }
