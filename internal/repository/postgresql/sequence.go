package postgresql

import (
	"context"
	"fmt"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/sequence"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/database"
)

type sequenceRepositoryImpl struct {
	db *database.DB
}

func NewSequenceRepository(db *database.DB) sequence.SequenceRepository {
	return &sequenceRepositoryImpl{db: db}
}

// Next implements sequence.SequenceRepository. The upsert is a single
// statement, so concurrent callers never observe the same value.
func (r *sequenceRepositoryImpl) Next(ctx context.Context, scope string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO sequences (scope, value) VALUES ($1, 1)
		ON CONFLICT (scope) DO UPDATE SET value = sequences.value + 1
		RETURNING value`

	var value int64
	if err := q.QueryRow(ctx, query, scope).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", scope, err)
	}
	return value, nil
}

// All implements sequence.SequenceRepository.
func (r *sequenceRepositoryImpl) All(ctx context.Context) (map[string]int64, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT scope, value FROM sequences`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sequences: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var scope string
		var value int64
		if err := rows.Scan(&scope, &value); err != nil {
			return nil, fmt.Errorf("failed to scan sequence: %w", err)
		}
		result[scope] = value
	}
	return result, rows.Err()
}

// Set implements sequence.SequenceRepository.
func (r *sequenceRepositoryImpl) Set(ctx context.Context, scope string, value int64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO sequences (scope, value) VALUES ($1, $2)
		ON CONFLICT (scope) DO UPDATE SET value = EXCLUDED.value`

	if _, err := q.Exec(ctx, query, scope, value); err != nil {
		return fmt.Errorf("failed to set sequence %s: %w", scope, err)
	}
	return nil
}
