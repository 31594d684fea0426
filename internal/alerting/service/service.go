// Package service hosts the alert rule evaluator. A run walks every active
// alert rule for a lender, checks its condition against the portfolio and the
// deployment ledger, and publishes one event per matched (rule, entity) pair
// that the dedup window has not seen yet.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"fundline/internal/alerting"
	"fundline/internal/alerting/metrics"
	"fundline/internal/alerting/ports"
	"fundline/internal/alerts"
	"fundline/internal/ledger"
	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
	"fundline/pkg/requestcontext"
)

// Service is the alert rule evaluator.
type Service struct {
	rules        ports.AlertRuleStore
	portfolio    ports.PortfolioStore
	lendingRules ports.LendingRuleReader
	lenders      ports.LenderReader
	deployments  ports.DeploymentReader
	dedup        ports.DedupStore
	publisher    alerts.Publisher

	logger  *slog.Logger
	metrics *metrics.Metrics

	dedupTTL    time.Duration
	concurrency int
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

// WithDedupTTL overrides the suppression window.
func WithDedupTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.dedupTTL = ttl
	}
}

// WithConcurrency bounds how many rules evaluate in parallel.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		s.concurrency = n
	}
}

func New(
	rules ports.AlertRuleStore,
	portfolio ports.PortfolioStore,
	lendingRules ports.LendingRuleReader,
	lenders ports.LenderReader,
	deployments ports.DeploymentReader,
	dedup ports.DedupStore,
	publisher alerts.Publisher,
	opts ...Option,
) (*Service, error) {
	if rules == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "alert rule store is required")
	}
	if portfolio == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "portfolio store is required")
	}
	if lendingRules == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "lending rule reader is required")
	}
	if lenders == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "lender reader is required")
	}
	if deployments == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "deployment reader is required")
	}
	if dedup == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "dedup store is required")
	}
	if publisher == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "publisher is required")
	}

	svc := &Service{
		rules:        rules,
		portfolio:    portfolio,
		lendingRules: lendingRules,
		lenders:      lenders,
		deployments:  deployments,
		dedup:        dedup,
		publisher:    publisher,
		logger:       slog.Default(),
		dedupTTL:     24 * time.Hour,
		concurrency:  4,
	}

	for _, opt := range opts {
		opt(svc)
	}

	if svc.concurrency < 1 {
		return nil, dErrors.New(dErrors.CodeInternal, "concurrency must be at least 1")
	}

	return svc, nil
}

// CheckAll evaluates every active alert rule for the lender. Rules run
// concurrently; the portfolio is snapshotted once so all rules see the same
// state. A failing rule aborts the run with its error so partial silence is
// never mistaken for a clean portfolio.
func (s *Service) CheckAll(ctx context.Context, lenderID id.LenderID) (*alerting.CheckResult, error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveCheckLatency(time.Since(started))
	}()

	lender, err := s.lenders.FindByID(ctx, lenderID)
	if err != nil {
		return nil, err
	}

	rules, err := s.rules.ListActive(ctx, lenderID)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return &alerting.CheckResult{}, nil
	}

	loans, err := s.portfolio.ListOpenLoans(ctx, lenderID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	day := ledger.DayOf(now, lender.Location())

	var (
		mu     sync.Mutex
		result alerting.CheckResult
	)
	result.RulesEvaluated = len(rules)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, rule := range rules {
		g.Go(func() error {
			events, err := s.evaluateRule(gctx, &rule, loans, now, day)
			if err != nil {
				return err
			}

			emitted, suppressed, err := s.publish(gctx, string(rule.Condition.Type), events)
			if err != nil {
				return err
			}

			mu.Lock()
			result.EventsEmitted += emitted
			result.Suppressed += suppressed
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "alert check completed",
		"lender_id", lenderID,
		"rules", result.RulesEvaluated,
		"emitted", result.EventsEmitted,
		"suppressed", result.Suppressed,
	)

	return &result, nil
}

// evaluateRule re-validates the stored rule before running it. Stores do not
// guarantee shape (a NULL threshold column yields a nil pointer), and a
// malformed rule must fail the run loudly instead of crashing or going quiet.
func (s *Service) evaluateRule(ctx context.Context, rule *alerting.AlertRule, loans []alerting.Loan, now time.Time, day string) ([]alerts.Event, error) {
	if err := rule.Validate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("alert rule %s is malformed", rule.ID))
	}

	switch rule.Condition.Type {
	case alerting.ConditionLoanOverdue:
		return s.overdueLoans(rule, loans, now, day), nil
	case alerting.ConditionLargeExposure:
		return s.largeExposures(rule, loans, now, day), nil
	case alerting.ConditionDeploymentExhausted:
		return s.exhaustedDeployments(ctx, rule, now, day)
	default:
		return nil, dErrors.Newf(dErrors.CodeInternal, "condition type %q is not supported", rule.Condition.Type)
	}
}

// overdueLoans fires one event per open loan past due by at least the
// configured number of whole days.
func (s *Service) overdueLoans(rule *alerting.AlertRule, loans []alerting.Loan, now time.Time, day string) []alerts.Event {
	var events []alerts.Event
	for i := range loans {
		loan := &loans[i]
		if !now.After(loan.DueDate) {
			continue
		}
		overdue := loan.DaysOverdue(now)
		if overdue < rule.Condition.DaysOverdue {
			continue
		}
		events = append(events, s.newEvent(rule, loan.ID.String(), day, now,
			"Loan overdue",
			fmt.Sprintf("Loan %s for retailer %s is %d day(s) overdue with %s outstanding.",
				loan.ID, loan.RetailerID, overdue, loan.Outstanding),
			alerts.TypeRisk,
		))
	}
	return events
}

// largeExposures fires one event per retailer whose outstanding principal
// across open loans crosses the threshold.
func (s *Service) largeExposures(rule *alerting.AlertRule, loans []alerting.Loan, now time.Time, day string) []alerts.Event {
	exposure := make(map[id.RetailerID]decimal.Decimal)
	for i := range loans {
		loan := &loans[i]
		exposure[loan.RetailerID] = exposure[loan.RetailerID].Add(loan.Outstanding)
	}

	var events []alerts.Event
	for retailerID, total := range exposure {
		if total.LessThan(*rule.Condition.AmountThreshold) {
			continue
		}
		events = append(events, s.newEvent(rule, retailerID.String(), day, now,
			"Large retailer exposure",
			fmt.Sprintf("Outstanding principal for retailer %s reached %s, above the %s threshold.",
				retailerID, total, rule.Condition.AmountThreshold),
			alerts.TypeRisk,
		))
	}
	return events
}

// exhaustedDeployments fires one event per lending rule whose deployed
// capital for the current lender-local day crossed the configured share of
// its daily limit.
func (s *Service) exhaustedDeployments(ctx context.Context, rule *alerting.AlertRule, now time.Time, day string) ([]alerts.Event, error) {
	lendingRules, err := s.lendingRules.ListActive(ctx, rule.LenderID)
	if err != nil {
		return nil, err
	}

	pct := decimal.NewFromInt(100)
	if rule.Condition.UtilizationPct != nil {
		pct = *rule.Condition.UtilizationPct
	}

	var events []alerts.Event
	for i := range lendingRules {
		lending := &lendingRules[i]
		if lending.DailyDeploymentLimit == nil {
			continue
		}

		total, err := s.deployments.TotalFor(ctx, rule.LenderID, lending.ID, day)
		if err != nil {
			return nil, err
		}

		threshold := lending.DailyDeploymentLimit.Mul(pct).Div(decimal.NewFromInt(100))
		if total.LessThan(threshold) {
			continue
		}

		events = append(events, s.newEvent(rule, lending.ID.String(), day, now,
			"Daily deployment budget exhausted",
			fmt.Sprintf("Rule %q deployed %s of its %s daily limit.",
				lending.Name, total, lending.DailyDeploymentLimit),
			alerts.TypeSystem,
		))
	}
	return events, nil
}

func (s *Service) newEvent(rule *alerting.AlertRule, relatedEntity, day string, now time.Time, title, message string, eventType alerts.Type) alerts.Event {
	return alerts.Event{
		LenderID:      rule.LenderID,
		Type:          eventType,
		Priority:      rule.Priority,
		Title:         title,
		Message:       message,
		Timestamp:     now,
		RelatedEntity: relatedEntity,
		Channels:      rule.Channels,
		DedupKey:      fmt.Sprintf("%s|%s|%s", rule.ID, relatedEntity, day),
	}
}

// publish runs each event through the dedup window before emission.
func (s *Service) publish(ctx context.Context, condition string, events []alerts.Event) (emitted, suppressed int, err error) {
	for _, event := range events {
		first, err := s.dedup.FirstSeen(ctx, event.DedupKey, s.dedupTTL)
		if err != nil {
			return emitted, suppressed, err
		}
		if !first {
			suppressed++
			s.metrics.IncrementSuppressed()
			continue
		}
		if err := s.publisher.Emit(ctx, event); err != nil {
			return emitted, suppressed, err
		}
		emitted++
		s.metrics.IncrementEmitted(condition)
	}
	return emitted, suppressed, nil
}
