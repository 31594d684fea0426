// Package service wraps the ledger store with bounded retries and logging.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/shopspring/decimal"

	"fundline/internal/ledger"
	"fundline/internal/ledger/ports"
	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
)

// Store aliases the shared port.
type Store = ports.Store

// Service is the reservation front door used by the decision orchestrator.
// Write contention inside the store is retried a bounded number of times;
// when retries run out it surfaces as a dependency failure, never as a
// denial.
type Service struct {
	store        Store
	logger       *slog.Logger
	attempts     uint
	retryBackoff time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRetry overrides the contention retry budget.
func WithRetry(attempts uint, backoff time.Duration) Option {
	return func(s *Service) {
		s.attempts = attempts
		s.retryBackoff = backoff
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "ledger store is required")
	}

	svc := &Service{
		store:        store,
		attempts:     3,
		retryBackoff: 50 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// TryReserve attempts one atomic reservation, retrying only conflict-coded
// store errors. Rejections (limit or allocation) return immediately: they
// are outcomes, not failures.
func (s *Service) TryReserve(ctx context.Context, req ledger.ReserveRequest) (*ledger.Result, error) {
	var result *ledger.Result

	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return dErrors.HasCode(err, dErrors.CodeConflict)
		}),
		retry.DelayType(func(n uint, err error, config retry.DelayContext) time.Duration {
			if s.logger != nil {
				s.logger.WarnContext(ctx, "ledger reservation contended, retrying",
					"lender_id", req.LenderID,
					"rule_id", req.RuleID,
					"day", req.Day,
					"attempt", n+1,
					"error", err,
				)
			}
			return s.retryBackoff + retry.BackOffDelay(n, err, config)
		}),
	)

	err := r.Do(func() error {
		var err error
		result, err = s.store.Reserve(ctx, req)
		return err
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeDependency, "ledger write contention persisted past retry budget")
		}
		return nil, err
	}

	return result, nil
}

// TotalFor reads a bucket total for reporting and alerting.
func (s *Service) TotalFor(ctx context.Context, lenderID id.LenderID, ruleID id.RuleID, day string) (decimal.Decimal, error) {
	return s.store.TotalFor(ctx, lenderID, ruleID, day)
}
