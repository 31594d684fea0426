// Package service hosts the decision orchestrator. It composes the blacklist
// guard, the rule selector, and the deployment ledger into a single verdict
// per loan request; it keeps orchestration out of handlers and domain logic
// thin.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"fundline/internal/alerts"
	"fundline/internal/ledger"
	"fundline/internal/underwriting"
	"fundline/internal/underwriting/metrics"
	"fundline/internal/underwriting/ports"
	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
	"fundline/pkg/requestcontext"
)

var tracer = otel.Tracer("fundline/underwriting")

// Service is the decision orchestrator.
type Service struct {
	rules     ports.RuleStore
	blacklist ports.BlacklistStore
	requests  ports.LoanRequestStore
	lenders   ports.LenderStore
	ledger    ports.Ledger

	alerts  ports.AlertPublisher
	logger  *slog.Logger
	metrics *metrics.Metrics

	// noMatchPolicy applies when the lender record carries no override.
	noMatchPolicy underwriting.NoMatchPolicy
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAlertPublisher enables alert emission on blacklist denials and
// auto-approvals. Without it decisions are still made, just not announced.
func WithAlertPublisher(p ports.AlertPublisher) Option {
	return func(s *Service) {
		s.alerts = p
	}
}

// WithNoMatchPolicy overrides the default handling of requests no rule
// matched.
func WithNoMatchPolicy(p underwriting.NoMatchPolicy) Option {
	return func(s *Service) {
		s.noMatchPolicy = p
	}
}

func New(
	rules ports.RuleStore,
	blacklist ports.BlacklistStore,
	requests ports.LoanRequestStore,
	lenders ports.LenderStore,
	ldg ports.Ledger,
	opts ...Option,
) (*Service, error) {
	if rules == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "rule store is required")
	}
	if blacklist == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "blacklist store is required")
	}
	if requests == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "loan request store is required")
	}
	if lenders == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "lender store is required")
	}
	if ldg == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "ledger is required")
	}

	svc := &Service{
		rules:         rules,
		blacklist:     blacklist,
		requests:      requests,
		lenders:       lenders,
		ledger:        ldg,
		logger:        slog.Default(),
		noMatchPolicy: underwriting.NoMatchDeny,
	}

	for _, opt := range opts {
		opt(svc)
	}

	if !svc.noMatchPolicy.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInternal, "no-match policy %q is not valid", svc.noMatchPolicy)
	}

	return svc, nil
}

// Evaluate runs the full decision pipeline for one loan request:
//
//	load request -> load lender -> blacklist retailer -> blacklist supplier
//	-> select rule -> reserve capital -> decision
//
// The blacklist veto is checked before any rule so it can never be bypassed,
// trusted suppliers included. Collaborator failures surface as errors; a
// request is only ever denied for a domain reason, never because a dependency
// was down.
func (s *Service) Evaluate(ctx context.Context, loanRequestID id.LoanRequestID) (*underwriting.Decision, error) {
	ctx, span := tracer.Start(ctx, "underwriting.Evaluate")
	defer span.End()
	span.SetAttributes(attribute.String("loan_request.id", loanRequestID.String()))

	started := time.Now()
	defer func() {
		s.metrics.ObserveEvaluateLatency(time.Since(started))
	}()

	req, err := s.requests.FindByID(ctx, loanRequestID)
	if err != nil {
		return nil, err
	}

	// Tenant isolation: an authenticated lender only ever sees its own
	// requests. Mismatches read as not-found so existence does not leak.
	if caller := requestcontext.LenderID(ctx); !caller.IsNil() && caller != req.LenderID {
		return nil, dErrors.New(dErrors.CodeNotFound, "loan request not found")
	}

	lender, err := s.lenders.FindByID(ctx, req.LenderID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)

	blocked, entityType, err := s.checkBlacklist(ctx, req)
	if err != nil {
		return nil, err
	}
	if blocked {
		s.emitBlacklistAlert(ctx, req, entityType, now)
		return s.conclude(ctx, req, underwriting.Decision{
			LoanRequestID: req.ID,
			Outcome:       underwriting.OutcomeDenied,
			Reason:        underwriting.ReasonBlacklisted,
			EvaluatedAt:   now,
		}), nil
	}

	rules, err := s.rules.ListActive(ctx, req.LenderID)
	if err != nil {
		return nil, err
	}

	rule := underwriting.SelectRule(req, rules)
	if rule == nil {
		return s.conclude(ctx, req, s.noMatchDecision(lender, req, now)), nil
	}

	result, err := s.ledger.TryReserve(ctx, s.reservation(req, rule, lender, now))
	if err != nil {
		return nil, err
	}

	switch result.Status {
	case ledger.StatusReserved:
		matched := rule.ID
		s.emitApprovalAlert(ctx, req, rule, now)
		return s.conclude(ctx, req, underwriting.Decision{
			LoanRequestID: req.ID,
			Outcome:       underwriting.OutcomeApproved,
			MatchedRuleID: &matched,
			Reason:        underwriting.ReasonMatchedRule,
			EvaluatedAt:   now,
		}), nil

	case ledger.StatusLimitExceeded:
		s.metrics.IncrementLedgerRejection(string(result.Status))
		return s.conclude(ctx, req, underwriting.Decision{
			LoanRequestID: req.ID,
			Outcome:       underwriting.OutcomeDenied,
			Reason:        underwriting.ReasonDailyLimitExceeded,
			EvaluatedAt:   now,
		}), nil

	case ledger.StatusRiskAllocationDenied:
		s.metrics.IncrementLedgerRejection(string(result.Status))
		return s.conclude(ctx, req, underwriting.Decision{
			LoanRequestID: req.ID,
			Outcome:       underwriting.OutcomeDenied,
			Reason:        underwriting.ReasonRiskAllocationExceeded,
			EvaluatedAt:   now,
		}), nil

	default:
		return nil, dErrors.Newf(dErrors.CodeInternal, "ledger returned unknown status %q", result.Status)
	}
}

// checkBlacklist vets retailer first, then supplier. Either hit vetoes.
func (s *Service) checkBlacklist(ctx context.Context, req *underwriting.LoanRequest) (bool, underwriting.EntityType, error) {
	blocked, err := s.blacklist.IsBlacklisted(ctx, req.LenderID, underwriting.EntityRetailer, req.RetailerID.String())
	if err != nil {
		return false, "", err
	}
	if blocked {
		return true, underwriting.EntityRetailer, nil
	}

	blocked, err = s.blacklist.IsBlacklisted(ctx, req.LenderID, underwriting.EntitySupplier, req.SupplierID.String())
	if err != nil {
		return false, "", err
	}
	if blocked {
		return true, underwriting.EntitySupplier, nil
	}

	return false, "", nil
}

// noMatchDecision applies the lender's policy, falling back to the service
// default.
func (s *Service) noMatchDecision(lender *underwriting.Lender, req *underwriting.LoanRequest, now time.Time) underwriting.Decision {
	policy := s.noMatchPolicy
	if lender.NoMatchPolicy.IsValid() {
		policy = lender.NoMatchPolicy
	}

	if policy == underwriting.NoMatchDefer {
		return underwriting.Decision{
			LoanRequestID: req.ID,
			Outcome:       underwriting.OutcomeDeferred,
			Reason:        underwriting.ReasonManualReview,
			EvaluatedAt:   now,
		}
	}
	return underwriting.Decision{
		LoanRequestID: req.ID,
		Outcome:       underwriting.OutcomeDenied,
		Reason:        underwriting.ReasonNoMatchingRule,
		EvaluatedAt:   now,
	}
}

// reservation resolves the matched rule's budget into a ledger request. The
// day is the lender-local calendar day so a lender in Lagos and one in Jakarta
// both roll their budgets at local midnight.
func (s *Service) reservation(req *underwriting.LoanRequest, rule *underwriting.Rule, lender *underwriting.Lender, now time.Time) ledger.ReserveRequest {
	tier := req.Tier()
	res := ledger.ReserveRequest{
		LenderID: req.LenderID,
		RuleID:   rule.ID,
		Day:      ledger.DayOf(now, lender.Location()),
		Tier:     string(tier),
		Amount:   req.LoanAmount,
		Limit:    rule.DailyDeploymentLimit,
	}

	if rule.DailyDeploymentLimit != nil && len(rule.RiskAllocation) > 0 {
		pct, ok := rule.RiskAllocation[tier]
		if !ok {
			pct = decimal.Zero
		}
		tierCap := rule.DailyDeploymentLimit.Mul(pct).Div(decimal.NewFromInt(100))
		res.TierCap = &tierCap
	}

	return res
}

// conclude records metrics and the decision log line. One line per
// evaluation; reasons are the operational signal.
func (s *Service) conclude(ctx context.Context, req *underwriting.LoanRequest, d underwriting.Decision) *underwriting.Decision {
	s.metrics.IncrementOutcome(string(d.Outcome), string(d.Reason))

	attrs := []any{
		"loan_request_id", d.LoanRequestID,
		"lender_id", req.LenderID,
		"outcome", d.Outcome,
		"reason", d.Reason,
		"amount", req.LoanAmount,
	}
	if d.MatchedRuleID != nil {
		attrs = append(attrs, "rule_id", *d.MatchedRuleID)
	}
	s.logger.InfoContext(ctx, "loan request evaluated", attrs...)

	return &d
}

// emitBlacklistAlert announces a hard veto. Emission is best effort: the
// decision stands even when the alert pipeline is down.
func (s *Service) emitBlacklistAlert(ctx context.Context, req *underwriting.LoanRequest, entityType underwriting.EntityType, now time.Time) {
	if s.alerts == nil {
		return
	}

	entityID := req.RetailerID.String()
	if entityType == underwriting.EntitySupplier {
		entityID = req.SupplierID.String()
	}

	event := alerts.Event{
		LenderID:      req.LenderID,
		Type:          alerts.TypeRisk,
		Priority:      alerts.PriorityHigh,
		Title:         "Loan request denied: blacklisted counterparty",
		Message:       fmt.Sprintf("Request %s was denied because %s %s is blacklisted.", req.ID, entityType, entityID),
		Timestamp:     now,
		RelatedEntity: req.ID.String(),
	}
	if err := s.alerts.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit blacklist alert", "loan_request_id", req.ID, "error", err)
	}
}

// emitApprovalAlert announces an auto-approval for auditability.
func (s *Service) emitApprovalAlert(ctx context.Context, req *underwriting.LoanRequest, rule *underwriting.Rule, now time.Time) {
	if s.alerts == nil {
		return
	}

	event := alerts.Event{
		LenderID:      req.LenderID,
		Type:          alerts.TypeOpportunity,
		Priority:      alerts.PriorityLow,
		Title:         "Loan request auto-approved",
		Message:       fmt.Sprintf("Request %s for %s was approved by rule %q.", req.ID, req.LoanAmount, rule.Name),
		Timestamp:     now,
		RelatedEntity: req.ID.String(),
	}
	if err := s.alerts.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit approval alert", "loan_request_id", req.ID, "error", err)
	}
}
