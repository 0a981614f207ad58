package problem

import (
	"context"
	"database/sql"
	"fmt"

	"citywatch/internal/geo"
)

// PostgresStore persists problems in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, p Problem) (*Problem, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO problems (user_id, title, description, lat, lng, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, p.UserID, p.Title, p.Description, p.Lat, p.Lng, p.CategoryID).Scan(&p.ID)
	if err != nil {
		return nil, fmt.Errorf("create problem: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) ListInBox(ctx context.Context, box geo.Box) ([]FeedProblem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			problems.id,
			problems.user_id,
			problems.title,
			problems.description,
			problems.lat,
			problems.lng,
			users.username,
			categories.category
		FROM problems
		INNER JOIN categories ON categories.id = problems.category_id
		INNER JOIN users ON users.id = problems.user_id
		WHERE problems.lat BETWEEN $1 AND $2
		  AND problems.lng BETWEEN $3 AND $4
		ORDER BY problems.id
	`, box.LatMin, box.LatMax, box.LngMin, box.LngMax)
	if err != nil {
		return nil, fmt.Errorf("list problems in box: %w", err)
	}
	defer rows.Close()

	out := make([]FeedProblem, 0)
	for rows.Next() {
		var p FeedProblem
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.Lat, &p.Lng, &p.Username, &p.Category); err != nil {
			return nil, fmt.Errorf("scan feed problem: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list problems in box: %w", err)
	}
	return out, nil
}
