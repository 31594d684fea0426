package alertrule

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"fundline/internal/alerting"
	"fundline/internal/alerts"
	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
)

// PostgresStore reads alert rules from the shared relational store.
//
// Expected schema:
//
//	CREATE TABLE alert_rules (
//	    id               uuid PRIMARY KEY,
//	    lender_id        uuid NOT NULL,
//	    name             text NOT NULL,
//	    active           boolean NOT NULL DEFAULT true,
//	    condition_type   text NOT NULL,
//	    days_overdue     integer,
//	    amount_threshold numeric(18,2),
//	    utilization_pct  numeric(5,2),
//	    priority         text NOT NULL,
//	    channels         text[] NOT NULL DEFAULT '{}',
//	    created_at       timestamptz NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed alert rule store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ListActive implements ports.AlertRuleStore.
func (s *PostgresStore) ListActive(ctx context.Context, lenderID id.LenderID) ([]alerting.AlertRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lender_id, name, active,
		       condition_type, days_overdue, amount_threshold, utilization_pct,
		       priority, channels, created_at
		FROM alert_rules
		WHERE lender_id = $1 AND active
		ORDER BY created_at ASC, id ASC`,
		lenderID.String(),
	)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "list alert rules")
	}
	defer rows.Close()

	var out []alerting.AlertRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "list alert rules")
	}
	return out, nil
}

func scanRule(rows *sql.Rows) (*alerting.AlertRule, error) {
	var (
		rule        alerting.AlertRule
		idStr       string
		lenderStr   string
		condType    string
		daysOverdue sql.NullInt64
		amount      sql.NullString
		utilization sql.NullString
		priority    string
		channels    pq.StringArray
	)

	err := rows.Scan(
		&idStr, &lenderStr, &rule.Name, &rule.Active,
		&condType, &daysOverdue, &amount, &utilization,
		&priority, &channels, &rule.CreatedAt,
	)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "scan alert rule")
	}

	if rule.ID, err = id.ParseAlertRuleID(idStr); err != nil {
		return nil, err
	}
	if rule.LenderID, err = id.ParseLenderID(lenderStr); err != nil {
		return nil, err
	}
	rule.Condition.Type = alerting.ConditionType(condType)
	if daysOverdue.Valid {
		rule.Condition.DaysOverdue = int(daysOverdue.Int64)
	}
	if rule.Condition.AmountThreshold, err = nullDecimal(amount); err != nil {
		return nil, err
	}
	if rule.Condition.UtilizationPct, err = nullDecimal(utilization); err != nil {
		return nil, err
	}
	rule.Priority = alerts.Priority(priority)
	rule.Channels = []string(channels)

	return &rule, nil
}

func nullDecimal(v sql.NullString) (*decimal.Decimal, error) {
	if !v.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "parse numeric column")
	}
	return &d, nil
}
