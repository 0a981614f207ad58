// Package category exposes the read-only category lookup table the feed
// joins against.
package category

import "context"

// Category labels a problem type.
type Category struct {
	ID    int64  `json:"id"`
	Label string `json:"category"`
}

// Store reads categories. Implementations return sentinel.ErrNotFound for
// missing IDs.
type Store interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int64) (*Category, error)
}
