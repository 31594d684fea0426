package portfolio

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"fundline/internal/alerting"
	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
)

// PostgresStore reads the portfolio from the shared relational store.
//
// Expected schema:
//
//	CREATE TABLE loans (
//	    id          uuid PRIMARY KEY,
//	    lender_id   uuid NOT NULL,
//	    retailer_id uuid NOT NULL,
//	    principal   numeric(18,2) NOT NULL,
//	    outstanding numeric(18,2) NOT NULL,
//	    due_date    timestamptz NOT NULL,
//	    status      text NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed portfolio store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ListOpenLoans implements ports.PortfolioStore.
func (s *PostgresStore) ListOpenLoans(ctx context.Context, lenderID id.LenderID) ([]alerting.Loan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lender_id, retailer_id, principal, outstanding, due_date, status
		FROM loans
		WHERE lender_id = $1 AND status <> 'repaid'`,
		lenderID.String(),
	)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "list open loans")
	}
	defer rows.Close()

	var out []alerting.Loan
	for rows.Next() {
		var (
			loan           alerting.Loan
			idStr          string
			lenderStr      string
			retailerStr    string
			principalStr   string
			outstandingStr string
			status         string
		)
		err := rows.Scan(&idStr, &lenderStr, &retailerStr, &principalStr, &outstandingStr, &loan.DueDate, &status)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeDependency, "scan loan")
		}

		if loan.ID, err = id.ParseLoanID(idStr); err != nil {
			return nil, err
		}
		if loan.LenderID, err = id.ParseLenderID(lenderStr); err != nil {
			return nil, err
		}
		if loan.RetailerID, err = id.ParseRetailerID(retailerStr); err != nil {
			return nil, err
		}
		if loan.Principal, err = decimal.NewFromString(principalStr); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "parse principal")
		}
		if loan.Outstanding, err = decimal.NewFromString(outstandingStr); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "parse outstanding")
		}
		loan.Status = alerting.LoanStatus(status)

		out = append(out, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "list open loans")
	}
	return out, nil
}
