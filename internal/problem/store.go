package problem

import (
	"context"

	"citywatch/internal/geo"
)

// Store persists problems and produces the joined feed projection.
type Store interface {
	// Create inserts a problem and returns it with its assigned ID.
	Create(ctx context.Context, p Problem) (*Problem, error)

	// ListInBox returns the problems whose location falls inside box
	// (bounds inclusive), joined with reporter and category, ordered by
	// ascending problem ID. Problems with a dangling user or category
	// reference are omitted, matching inner-join semantics.
	ListInBox(ctx context.Context, box geo.Box) ([]FeedProblem, error)
}
