package blacklist

import (
	"context"
	"database/sql"

	"fundline/internal/underwriting"
	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
)

// PostgresStore reads the deny-list from the shared relational store.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed blacklist store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// IsBlacklisted implements ports.BlacklistStore.
func (s *PostgresStore) IsBlacklisted(ctx context.Context, lenderID id.LenderID, entityType underwriting.EntityType, entityID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM blacklist_entries
			WHERE lender_id = $1 AND entity_type = $2 AND entity_id = $3 AND active
		)`,
		lenderID.String(), string(entityType), entityID,
	).Scan(&exists)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeDependency, "check blacklist")
	}
	return exists, nil
}
