package loanrequest

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"fundline/internal/underwriting"
	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
)

// PostgresStore reads loan requests from the shared relational store.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed loan request store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FindByID implements ports.LoanRequestStore.
func (s *PostgresStore) FindByID(ctx context.Context, loanRequestID id.LoanRequestID) (*underwriting.LoanRequest, error) {
	var (
		lr          underwriting.LoanRequest
		idStr       string
		lenderStr   string
		retailerStr string
		supplierStr string
		amountStr   string
		creditScore sql.NullInt64
		riskTier    sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, lender_id, retailer_id, supplier_id,
		       goods_category, region, loan_amount,
		       credit_score, risk_tier, supplier_is_trusted, requested_at
		FROM loan_requests
		WHERE id = $1`,
		loanRequestID.String(),
	).Scan(
		&idStr, &lenderStr, &retailerStr, &supplierStr,
		&lr.GoodsCategory, &lr.Region, &amountStr,
		&creditScore, &riskTier, &lr.SupplierIsTrusted, &lr.RequestedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dErrors.New(dErrors.CodeNotFound, "loan request not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "load loan request")
	}

	if lr.ID, err = id.ParseLoanRequestID(idStr); err != nil {
		return nil, err
	}
	if lr.LenderID, err = id.ParseLenderID(lenderStr); err != nil {
		return nil, err
	}
	if lr.RetailerID, err = id.ParseRetailerID(retailerStr); err != nil {
		return nil, err
	}
	if lr.SupplierID, err = id.ParseSupplierID(supplierStr); err != nil {
		return nil, err
	}
	if lr.LoanAmount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "parse loan amount")
	}
	if creditScore.Valid {
		lr.CreditScore = int(creditScore.Int64)
	}
	if riskTier.Valid {
		lr.RiskTier = underwriting.RiskTier(riskTier.String)
	}

	return &lr, nil
}
