// Package postgres persists ledger buckets in the relational store shared
// with the rest of the marketplace.
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"fundline/internal/ledger"
	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
)

// Store keeps one row per (lender, rule, day, tier). Reserve serializes
// writers on the bucket with a transaction-scoped advisory lock, so the
// check and the upsert form one atomic unit without table-level locking.
// Concurrent transactions on different buckets proceed in parallel.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL-backed ledger store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Schema documents the expected table; migrations live with the host
// service's migration set.
//
//	CREATE TABLE deployment_ledger (
//	    lender_id uuid        NOT NULL,
//	    rule_id   uuid        NOT NULL,
//	    day       date        NOT NULL,
//	    tier      text        NOT NULL,
//	    amount    numeric(18,2) NOT NULL DEFAULT 0,
//	    PRIMARY KEY (lender_id, rule_id, day, tier)
//	);

// Reserve implements ports.Store.
func (s *Store) Reserve(ctx context.Context, req ledger.ReserveRequest) (*ledger.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "begin ledger transaction")
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	// Serialize writers per bucket. The lock releases with the
	// transaction, covering both the read and the upsert below.
	lockKey := req.LenderID.String() + ":" + req.RuleID.String() + ":" + req.Day
	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
		return nil, wrapPgErr(err, "acquire ledger bucket lock")
	}

	var totalStr, tierTotalStr string
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0),
		       COALESCE(SUM(amount) FILTER (WHERE tier = $4), 0)
		FROM deployment_ledger
		WHERE lender_id = $1 AND rule_id = $2 AND day = $3`,
		req.LenderID.String(), req.RuleID.String(), req.Day, req.Tier,
	).Scan(&totalStr, &tierTotalStr)
	if err != nil {
		return nil, wrapPgErr(err, "read ledger bucket totals")
	}

	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "parse ledger total")
	}
	tierTotal, err := decimal.NewFromString(tierTotalStr)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "parse ledger tier total")
	}

	if req.Limit != nil && total.Add(req.Amount).GreaterThan(*req.Limit) {
		return &ledger.Result{Status: ledger.StatusLimitExceeded, Total: total, TierTotal: tierTotal}, nil
	}
	if req.TierCap != nil && tierTotal.GreaterThanOrEqual(*req.TierCap) {
		return &ledger.Result{Status: ledger.StatusRiskAllocationDenied, Total: total, TierTotal: tierTotal}, nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO deployment_ledger (lender_id, rule_id, day, tier, amount)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (lender_id, rule_id, day, tier)
		DO UPDATE SET amount = deployment_ledger.amount + EXCLUDED.amount`,
		req.LenderID.String(), req.RuleID.String(), req.Day, req.Tier, req.Amount.String(),
	); err != nil {
		return nil, wrapPgErr(err, "apply ledger reservation")
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapPgErr(err, "commit ledger reservation")
	}

	return &ledger.Result{
		Status:    ledger.StatusReserved,
		Total:     total.Add(req.Amount),
		TierTotal: tierTotal.Add(req.Amount),
	}, nil
}

// TotalFor implements ports.Store.
func (s *Store) TotalFor(ctx context.Context, lenderID id.LenderID, ruleID id.RuleID, day string) (decimal.Decimal, error) {
	var totalStr string
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM deployment_ledger
		WHERE lender_id = $1 AND rule_id = $2 AND day = $3`,
		lenderID.String(), ruleID.String(), day,
	).Scan(&totalStr)
	if err != nil {
		return decimal.Zero, wrapPgErr(err, "read ledger total")
	}
	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return decimal.Zero, dErrors.Wrap(err, dErrors.CodeInternal, "parse ledger total")
	}
	return total, nil
}

// wrapPgErr codes serialization and deadlock failures as conflicts so the
// service layer retries them; everything else is a dependency failure.
func wrapPgErr(err error, msg string) error {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		// 40001 serialization_failure, 40P01 deadlock_detected
		if pgErr.Code == "40001" || pgErr.Code == "40P01" {
			return dErrors.Wrap(err, dErrors.CodeConflict, msg)
		}
	}
	return dErrors.Wrap(err, dErrors.CodeDependency, msg)
}
