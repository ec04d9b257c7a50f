package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"finbook/internal/domain"
	"finbook/internal/port"
)

type sequenceRepo struct {
	db *sqlx.DB
}

// NewSequenceRepo creates a PostgreSQL-backed SequenceRepository.
func NewSequenceRepo(db *sqlx.DB) port.SequenceRepository {
	return &sequenceRepo{db: db}
}

// Next increments the counter for scopeKey and returns the new value. The
// upsert is a single statement, so Postgres takes a row-level lock on the
// counter: concurrent allocations for the same scope serialize and can
// never observe the same value. Called inside RunInTx, the increment rolls
// back with the rest of the transaction, keeping sequences gap-free when a
// later insert fails.
func (r *sequenceRepo) Next(ctx context.Context, scopeKey string) (int64, error) {
	query := `INSERT INTO sequence_counters (scope_key, last_count, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (scope_key) DO UPDATE
		SET last_count = sequence_counters.last_count + 1,
			updated_at = NOW()
		RETURNING last_count`

	var lastCount int64
	err := queryer(ctx, r.db).QueryRowxContext(ctx, query, scopeKey).Scan(&lastCount)
	if err != nil {
		if isSerializationFailure(err) {
			return 0, domain.ErrSequenceContention
		}
		return 0, fmt.Errorf("sequenceRepo.Next: %w", err)
	}
	return lastCount, nil
}
