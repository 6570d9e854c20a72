package generation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store defines query persistence.
type Store interface {
	// Create persists a new query and returns the stored row.
	Create(ctx context.Context, q *Query) (*Query, error)

	// GetByID retrieves a query by id. Returns ErrQueryNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Query, error)

	// ListRecent returns the most recent queries for a profile, newest first.
	ListRecent(ctx context.Context, profileID uuid.UUID, limit int) ([]Query, error)

	// SetRating overwrites the rating of a query.
	SetRating(ctx context.Context, id uuid.UUID, rating int) error
}

// PGStore implements Store on a pgx connection pool.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a postgres-backed query store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	if pool == nil {
		panic("generation: pgx pool is required")
	}
	return &PGStore{pool: pool}
}

const queryColumns = `id, profile_id, input, output, output_kind, rating, created_at`

func (s *PGStore) Create(ctx context.Context, q *Query) (*Query, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO queries (profile_id, input, output, output_kind)
		VALUES ($1, $2, $3, $4)
		RETURNING `+queryColumns,
		q.ProfileID, q.Input, q.Output, q.OutputKind)
	return scanQuery(row)
}

func (s *PGStore) GetByID(ctx context.Context, id uuid.UUID) (*Query, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+queryColumns+` FROM queries WHERE id = $1`, id)
	return scanQuery(row)
}

func (s *PGStore) ListRecent(ctx context.Context, profileID uuid.UUID, limit int) ([]Query, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+queryColumns+`
		FROM queries
		WHERE profile_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		profileID, limit)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	defer rows.Close()

	var queries []Query
	for rows.Next() {
		q, err := scanQuery(rows)
		if err != nil {
			return nil, err
		}
		queries = append(queries, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	return queries, nil
}

func (s *PGStore) SetRating(ctx context.Context, id uuid.UUID, rating int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE queries SET rating = $2 WHERE id = $1`, id, rating)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrQueryNotFound
	}
	return nil
}

func scanQuery(row pgx.Row) (*Query, error) {
	var q Query
	if err := row.Scan(&q.ID, &q.ProfileID, &q.Input, &q.Output, &q.OutputKind, &q.Rating, &q.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQueryNotFound
		}
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return &q, nil
}
