package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundline/internal/alerting"
	"fundline/internal/alerting/dedup"
	"fundline/internal/alerting/store/alertrule"
	"fundline/internal/alerting/store/portfolio"
	"fundline/internal/alerts"
	"fundline/internal/ledger"
	ledgermem "fundline/internal/ledger/store/memory"
	"fundline/internal/underwriting"
	lenderstore "fundline/internal/underwriting/store/lender"
	rulestore "fundline/internal/underwriting/store/rule"
	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
	"fundline/pkg/requestcontext"
)

type fixture struct {
	service   *Service
	sink      *alerts.MemorySink
	alertRule *alertrule.MemoryStore
	portfolio *portfolio.MemoryStore
	lending   *rulestore.MemoryStore
	lenders   *lenderstore.MemoryStore
	ledger    *ledgermem.Store

	lenderID id.LenderID
	ctx      context.Context
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		sink:      alerts.NewMemorySink(),
		alertRule: alertrule.NewMemory(),
		portfolio: portfolio.NewMemory(),
		lending:   rulestore.NewMemory(),
		ledger:    ledgermem.New(),
		lenderID:  id.NewLenderID(),
		now:       time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC),
	}
	f.ctx = requestcontext.WithTime(context.Background(), f.now)

	f.lenders = lenderstore.NewMemory()
	require.NoError(t, f.lenders.Put(context.Background(), underwriting.Lender{
		ID:       f.lenderID,
		Name:     "Meridian Capital",
		Timezone: "UTC",
	}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := New(
		f.alertRule, f.portfolio, f.lending, f.lenders, f.ledger, dedup.NewMemory(), f.sink,
		WithLogger(logger),
	)
	require.NoError(t, err)
	f.service = svc
	return f
}

func (f *fixture) addAlertRule(t *testing.T, cond alerting.Condition, priority alerts.Priority) alerting.AlertRule {
	t.Helper()
	rule := alerting.AlertRule{
		ID:        id.NewAlertRuleID(),
		LenderID:  f.lenderID,
		Name:      string(cond.Type),
		Active:    true,
		Condition: cond,
		Priority:  priority,
		Channels:  []string{"email"},
		CreatedAt: f.now.Add(-24 * time.Hour),
	}
	require.NoError(t, f.alertRule.Put(context.Background(), rule))
	return rule
}

func (f *fixture) addLoan(t *testing.T, retailerID id.RetailerID, outstanding string, dueDate time.Time, status alerting.LoanStatus) alerting.Loan {
	t.Helper()
	loan := alerting.Loan{
		ID:          id.NewLoanID(),
		LenderID:    f.lenderID,
		RetailerID:  retailerID,
		Principal:   decimal.RequireFromString(outstanding),
		Outstanding: decimal.RequireFromString(outstanding),
		DueDate:     dueDate,
		Status:      status,
	}
	require.NoError(t, f.portfolio.Put(context.Background(), loan))
	return loan
}

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestCheckAll_LoanOverdue(t *testing.T) {
	f := newFixture(t)
	f.addAlertRule(t, alerting.Condition{
		Type:        alerting.ConditionLoanOverdue,
		DaysOverdue: 7,
	}, alerts.PriorityHigh)

	retailer := id.NewRetailerID()
	overdue := f.addLoan(t, retailer, "12000", f.now.Add(-10*24*time.Hour), alerting.LoanOverdue)
	f.addLoan(t, retailer, "8000", f.now.Add(-2*24*time.Hour), alerting.LoanActive)  // overdue, under threshold
	f.addLoan(t, retailer, "5000", f.now.Add(30*24*time.Hour), alerting.LoanActive)  // not due yet
	f.addLoan(t, retailer, "9000", f.now.Add(-20*24*time.Hour), alerting.LoanRepaid) // closed

	result, err := f.service.CheckAll(f.ctx, f.lenderID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.RulesEvaluated)
	assert.Equal(t, 1, result.EventsEmitted)
	assert.Equal(t, 0, result.Suppressed)

	events := f.sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, alerts.TypeRisk, events[0].Type)
	assert.Equal(t, alerts.PriorityHigh, events[0].Priority)
	assert.Equal(t, overdue.ID.String(), events[0].RelatedEntity)
	assert.Equal(t, []string{"email"}, events[0].Channels)
	assert.Contains(t, events[0].Message, "10 day(s) overdue")
}

func TestCheckAll_LargeExposure(t *testing.T) {
	f := newFixture(t)
	f.addAlertRule(t, alerting.Condition{
		Type:            alerting.ConditionLargeExposure,
		AmountThreshold: decPtr("50000"),
	}, alerts.PriorityCritical)

	heavy := id.NewRetailerID()
	light := id.NewRetailerID()
	due := f.now.Add(30 * 24 * time.Hour)
	f.addLoan(t, heavy, "30000", due, alerting.LoanActive)
	f.addLoan(t, heavy, "25000", due, alerting.LoanActive)
	f.addLoan(t, light, "10000", due, alerting.LoanActive)

	result, err := f.service.CheckAll(f.ctx, f.lenderID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.EventsEmitted)
	events := f.sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, heavy.String(), events[0].RelatedEntity)
	assert.Contains(t, events[0].Message, "55000")
}

func TestCheckAll_DeploymentExhausted(t *testing.T) {
	f := newFixture(t)
	f.addAlertRule(t, alerting.Condition{
		Type:           alerting.ConditionDeploymentExhausted,
		UtilizationPct: decPtr("80"),
	}, alerts.PriorityMedium)

	limit := decimal.RequireFromString("100000")
	fullRule := underwriting.Rule{
		ID:                   id.NewRuleID(),
		LenderID:             f.lenderID,
		Name:                 "Electronics",
		Active:               true,
		DailyDeploymentLimit: &limit,
		CreatedAt:            f.now.Add(-48 * time.Hour),
	}
	idleRule := underwriting.Rule{
		ID:                   id.NewRuleID(),
		LenderID:             f.lenderID,
		Name:                 "Clothing",
		Active:               true,
		DailyDeploymentLimit: &limit,
		CreatedAt:            f.now.Add(-48 * time.Hour),
	}
	require.NoError(t, f.lending.Put(context.Background(), fullRule))
	require.NoError(t, f.lending.Put(context.Background(), idleRule))

	day := ledger.DayOf(f.now, time.UTC)
	res, err := f.ledger.Reserve(f.ctx, ledger.ReserveRequest{
		LenderID: f.lenderID,
		RuleID:   fullRule.ID,
		Day:      day,
		Tier:     "B",
		Amount:   decimal.RequireFromString("85000"),
		Limit:    &limit,
	})
	require.NoError(t, err)
	require.True(t, res.Reserved())

	result, err := f.service.CheckAll(f.ctx, f.lenderID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.EventsEmitted)
	events := f.sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, alerts.TypeSystem, events[0].Type)
	assert.Equal(t, fullRule.ID.String(), events[0].RelatedEntity)
	assert.Contains(t, events[0].Message, "Electronics")
}

func TestCheckAll_DedupSuppressesRepeatRuns(t *testing.T) {
	f := newFixture(t)
	f.addAlertRule(t, alerting.Condition{Type: alerting.ConditionLoanOverdue}, alerts.PriorityHigh)
	f.addLoan(t, id.NewRetailerID(), "12000", f.now.Add(-5*24*time.Hour), alerting.LoanOverdue)

	first, err := f.service.CheckAll(f.ctx, f.lenderID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.EventsEmitted)
	assert.Equal(t, 0, first.Suppressed)

	second, err := f.service.CheckAll(f.ctx, f.lenderID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.EventsEmitted)
	assert.Equal(t, 1, second.Suppressed)

	assert.Len(t, f.sink.Events(), 1)
}

func TestCheckAll_MultipleRulesRunConcurrently(t *testing.T) {
	f := newFixture(t)
	f.addAlertRule(t, alerting.Condition{Type: alerting.ConditionLoanOverdue}, alerts.PriorityHigh)
	f.addAlertRule(t, alerting.Condition{
		Type:            alerting.ConditionLargeExposure,
		AmountThreshold: decPtr("10000"),
	}, alerts.PriorityMedium)

	retailer := id.NewRetailerID()
	f.addLoan(t, retailer, "15000", f.now.Add(-3*24*time.Hour), alerting.LoanOverdue)

	result, err := f.service.CheckAll(f.ctx, f.lenderID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.RulesEvaluated)
	assert.Equal(t, 2, result.EventsEmitted)
	assert.Len(t, f.sink.Events(), 2)
}

func TestCheckAll_NoRules(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.CheckAll(f.ctx, f.lenderID)
	require.NoError(t, err)

	assert.Zero(t, result.RulesEvaluated)
	assert.Zero(t, result.EventsEmitted)
	assert.Empty(t, f.sink.Events())
}

// rawRuleStore returns its rules as stored, the way a relational store does:
// nothing re-validates the row on the way out.
type rawRuleStore struct {
	rules []alerting.AlertRule
}

func (s rawRuleStore) ListActive(context.Context, id.LenderID) ([]alerting.AlertRule, error) {
	return s.rules, nil
}

func TestCheckAll_MalformedStoredRuleFailsClosed(t *testing.T) {
	f := newFixture(t)
	f.addLoan(t, id.NewRetailerID(), "90000", f.now.Add(30*24*time.Hour), alerting.LoanActive)

	// A NULL amount_threshold column loads as a nil pointer.
	bad := alerting.AlertRule{
		ID:        id.NewAlertRuleID(),
		LenderID:  f.lenderID,
		Name:      "exposure watch",
		Active:    true,
		Condition: alerting.Condition{Type: alerting.ConditionLargeExposure},
		Priority:  alerts.PriorityHigh,
		Channels:  []string{"email"},
		CreatedAt: f.now.Add(-24 * time.Hour),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := New(
		rawRuleStore{rules: []alerting.AlertRule{bad}},
		f.portfolio, f.lending, f.lenders, f.ledger, dedup.NewMemory(), f.sink,
		WithLogger(logger),
	)
	require.NoError(t, err)

	_, err = svc.CheckAll(f.ctx, f.lenderID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	assert.Contains(t, err.Error(), bad.ID.String())
	assert.Empty(t, f.sink.Events())
}

func TestCheckAll_UnknownLender(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CheckAll(f.ctx, id.NewLenderID())
	require.Error(t, err)
}

func TestAlertRuleValidate(t *testing.T) {
	base := alerting.AlertRule{
		ID:       id.NewAlertRuleID(),
		LenderID: id.NewLenderID(),
		Name:     "watch",
		Active:   true,
		Priority: alerts.PriorityHigh,
	}

	t.Run("large_exposure requires a threshold", func(t *testing.T) {
		rule := base
		rule.Condition = alerting.Condition{Type: alerting.ConditionLargeExposure}
		assert.Error(t, rule.Validate())
	})

	t.Run("utilization above 100 rejected", func(t *testing.T) {
		rule := base
		rule.Condition = alerting.Condition{
			Type:           alerting.ConditionDeploymentExhausted,
			UtilizationPct: decPtr("150"),
		}
		assert.Error(t, rule.Validate())
	})

	t.Run("unknown condition rejected", func(t *testing.T) {
		rule := base
		rule.Condition = alerting.Condition{Type: "portfolio_drift"}
		assert.Error(t, rule.Validate())
	})

	t.Run("valid overdue rule accepted", func(t *testing.T) {
		rule := base
		rule.Condition = alerting.Condition{Type: alerting.ConditionLoanOverdue, DaysOverdue: 7}
		assert.NoError(t, rule.Validate())
	})
}
