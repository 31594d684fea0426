package lender

import (
	"context"
	"database/sql"
	"errors"

	"fundline/internal/underwriting"
	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
)

// PostgresStore reads lender records from the shared relational store.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed lender store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FindByID implements ports.LenderStore.
func (s *PostgresStore) FindByID(ctx context.Context, lenderID id.LenderID) (*underwriting.Lender, error) {
	var (
		l             underwriting.Lender
		idStr         string
		timezone      sql.NullString
		noMatchPolicy sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, timezone, no_match_policy
		FROM lenders
		WHERE id = $1`,
		lenderID.String(),
	).Scan(&idStr, &l.Name, &timezone, &noMatchPolicy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dErrors.New(dErrors.CodeNotFound, "lender not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "load lender")
	}

	if l.ID, err = id.ParseLenderID(idStr); err != nil {
		return nil, err
	}
	if timezone.Valid {
		l.Timezone = timezone.String
	}
	if noMatchPolicy.Valid {
		l.NoMatchPolicy = underwriting.NoMatchPolicy(noMatchPolicy.String)
	}

	return &l, nil
}
