package rule

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"fundline/internal/underwriting"
	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
)

// PostgresStore reads rules from the marketplace's relational store. The
// host service owns writes; the engine only needs the ordered active set.
//
// Collections are stored typed at the SQL boundary: category and region sets
// as text arrays, the risk allocation map as jsonb. Parsing them into domain
// sets happens here and nowhere else.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed rule store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ListActive implements ports.RuleStore. The ORDER BY mirrors the selector's
// match-order contract; it is not a storage default.
func (s *PostgresStore) ListActive(ctx context.Context, lenderID id.LenderID) ([]underwriting.Rule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lender_id, name, active,
		       min_loan_amount, max_loan_amount,
		       preferred_categories, preferred_regions,
		       min_credit_score, daily_deployment_limit,
		       risk_allocation, auto_approve_trusted_suppliers,
		       created_at
		FROM lending_rules
		WHERE lender_id = $1 AND active
		ORDER BY created_at ASC, id ASC`,
		lenderID.String(),
	)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "list active rules")
	}
	defer rows.Close()

	var rules []underwriting.Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "iterate rules")
	}
	return rules, nil
}

func scanRule(rows *sql.Rows) (*underwriting.Rule, error) {
	var (
		r              underwriting.Rule
		idStr          string
		lenderStr      string
		minAmount      sql.NullString
		maxAmount      sql.NullString
		categories     pq.StringArray
		regions        pq.StringArray
		minCreditScore sql.NullInt64
		dailyLimit     sql.NullString
		allocationJSON []byte
	)

	if err := rows.Scan(
		&idStr, &lenderStr, &r.Name, &r.Active,
		&minAmount, &maxAmount,
		&categories, &regions,
		&minCreditScore, &dailyLimit,
		&allocationJSON, &r.AutoApproveTrustedSuppliers,
		&r.CreatedAt,
	); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "scan rule row")
	}

	ruleID, err := id.ParseRuleID(idStr)
	if err != nil {
		return nil, err
	}
	lenderID, err := id.ParseLenderID(lenderStr)
	if err != nil {
		return nil, err
	}
	r.ID, r.LenderID = ruleID, lenderID

	if r.MinLoanAmount, err = nullDecimal(minAmount); err != nil {
		return nil, err
	}
	if r.MaxLoanAmount, err = nullDecimal(maxAmount); err != nil {
		return nil, err
	}
	if r.DailyDeploymentLimit, err = nullDecimal(dailyLimit); err != nil {
		return nil, err
	}
	if minCreditScore.Valid {
		r.MinCreditScore = int(minCreditScore.Int64)
	}

	r.PreferredCategories = toSet(categories)
	r.PreferredRegions = toSet(regions)

	if len(allocationJSON) > 0 {
		raw := map[string]string{}
		if err := json.Unmarshal(allocationJSON, &raw); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "parse risk allocation")
		}
		allocation := make(map[underwriting.RiskTier]decimal.Decimal, len(raw))
		for tier, pct := range raw {
			d, err := decimal.NewFromString(pct)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "parse risk allocation percent")
			}
			allocation[underwriting.RiskTier(tier)] = d
		}
		r.RiskAllocation = allocation
	}

	return &r, nil
}

func nullDecimal(v sql.NullString) (*decimal.Decimal, error) {
	if !v.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "parse amount column")
	}
	return &d, nil
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
