// Package alerting evaluates lender-configured alert rules against the loan
// portfolio and the deployment ledger, and turns matched conditions into
// alert events. It decides WHAT to announce; delivery belongs to the alerts
// pipeline.
package alerting

import (
	"time"

	"github.com/shopspring/decimal"

	"fundline/internal/alerts"
	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
)

// ConditionType names a portfolio condition an alert rule can watch.
type ConditionType string

const (
	// ConditionLoanOverdue fires per loan whose repayment is overdue by at
	// least the configured number of days.
	ConditionLoanOverdue ConditionType = "loan_overdue"

	// ConditionLargeExposure fires per retailer whose outstanding principal
	// crosses the configured amount threshold.
	ConditionLargeExposure ConditionType = "large_exposure"

	// ConditionDeploymentExhausted fires per lending rule whose deployed
	// capital for the current day crosses the configured share of its daily
	// limit.
	ConditionDeploymentExhausted ConditionType = "deployment_exhausted"
)

// IsValid reports whether c is a known condition type.
func (c ConditionType) IsValid() bool {
	switch c {
	case ConditionLoanOverdue, ConditionLargeExposure, ConditionDeploymentExhausted:
		return true
	default:
		return false
	}
}

// Condition is the parameterized trigger of an alert rule. Only the fields
// relevant to the Type are read.
type Condition struct {
	Type ConditionType

	// DaysOverdue is the minimum overdue age, in whole days, for
	// loan_overdue rules. Zero means any overdue loan.
	DaysOverdue int

	// AmountThreshold is the outstanding-principal threshold for
	// large_exposure rules.
	AmountThreshold *decimal.Decimal

	// UtilizationPct is the deployed share of the daily limit, in percent,
	// at which deployment_exhausted rules fire. Zero defaults to 100.
	UtilizationPct *decimal.Decimal
}

// AlertRule is a lender-configured watch on the portfolio.
type AlertRule struct {
	ID       id.AlertRuleID
	LenderID id.LenderID
	Name     string
	Active   bool

	Condition Condition
	Priority  alerts.Priority

	// Channels carries delivery channel names passed through to the events
	// this rule produces.
	Channels []string

	CreatedAt time.Time
}

// Validate rejects rule shapes the evaluator cannot run.
func (r *AlertRule) Validate() error {
	if r.ID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "alert rule id is required")
	}
	if r.LenderID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "alert rule lender_id is required")
	}
	if !r.Condition.Type.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "condition type %q is not supported", r.Condition.Type)
	}
	if !r.Priority.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "priority %q is not valid", r.Priority)
	}

	switch r.Condition.Type {
	case ConditionLoanOverdue:
		if r.Condition.DaysOverdue < 0 {
			return dErrors.New(dErrors.CodeValidation, "days_overdue must not be negative")
		}
	case ConditionLargeExposure:
		if r.Condition.AmountThreshold == nil || !r.Condition.AmountThreshold.IsPositive() {
			return dErrors.New(dErrors.CodeValidation, "amount_threshold must be a positive amount")
		}
	case ConditionDeploymentExhausted:
		if r.Condition.UtilizationPct != nil {
			pct := *r.Condition.UtilizationPct
			if !pct.IsPositive() || pct.GreaterThan(decimal.NewFromInt(100)) {
				return dErrors.New(dErrors.CodeValidation, "utilization_pct must be within (0,100]")
			}
		}
	}

	return nil
}

// LoanStatus is the repayment state of a funded loan.
type LoanStatus string

const (
	LoanActive  LoanStatus = "active"
	LoanOverdue LoanStatus = "overdue"
	LoanRepaid  LoanStatus = "repaid"
)

// Loan is the portfolio view the evaluator works on: a funded loan with its
// repayment state. Origination and repayment bookkeeping live upstream.
type Loan struct {
	ID         id.LoanID
	LenderID   id.LenderID
	RetailerID id.RetailerID

	Principal   decimal.Decimal
	Outstanding decimal.Decimal

	DueDate time.Time
	Status  LoanStatus
}

// DaysOverdue reports how many whole days the loan is past due at now.
// Non-positive for loans not yet due.
func (l *Loan) DaysOverdue(now time.Time) int {
	return int(now.Sub(l.DueDate).Hours() / 24)
}

// CheckResult summarizes one evaluator run.
type CheckResult struct {
	RulesEvaluated int
	EventsEmitted  int
	Suppressed     int
}
