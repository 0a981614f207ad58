package verification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"citywatch/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code for unique constraint failures.
const uniqueViolation = "23505"

// PostgresStore persists verifications in PostgreSQL. The verifications table
// carries a unique index on (user_id, prob_id) backing the one-vote-per-pair
// invariant.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Find(ctx context.Context, userID, problemID int64) (*Verification, error) {
	var v Verification
	err := s.db.QueryRowContext(ctx, `
		SELECT id, prob_id, user_id, verified
		FROM verifications
		WHERE user_id = $1 AND prob_id = $2
	`, userID, problemID).Scan(&v.ID, &v.ProblemID, &v.UserID, &v.Verified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find verification: %w", err)
	}
	return &v, nil
}

func (s *PostgresStore) Create(ctx context.Context, v Verification) (*Verification, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO verifications (prob_id, user_id, verified)
		VALUES ($1, $2, $3)
		RETURNING id, prob_id, user_id, verified
	`, v.ProblemID, v.UserID, v.Verified).Scan(&v.ID, &v.ProblemID, &v.UserID, &v.Verified)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, sentinel.ErrConflict
		}
		return nil, fmt.Errorf("create verification: %w", err)
	}
	return &v, nil
}

func (s *PostgresStore) Update(ctx context.Context, userID, problemID int64, verified bool) (*Verification, error) {
	var v Verification
	err := s.db.QueryRowContext(ctx, `
		UPDATE verifications
		SET verified = $3
		WHERE user_id = $1 AND prob_id = $2
		RETURNING id, prob_id, user_id, verified
	`, userID, problemID, verified).Scan(&v.ID, &v.ProblemID, &v.UserID, &v.Verified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("update verification: %w", err)
	}
	return &v, nil
}

func (s *PostgresStore) CountByProblem(ctx context.Context, problemID int64, verified bool) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM verifications
		WHERE prob_id = $1 AND verified = $2
	`, problemID, verified).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count verifications: %w", err)
	}
	return count, nil
}
