package verification

import "context"

// Store is the verifications ledger relation. Implementations return
// sentinel.ErrNotFound for missing rows and sentinel.ErrConflict when a
// (user, problem) pair already voted.
type Store interface {
	// Find returns the single verification for the (user, problem) pair.
	Find(ctx context.Context, userID, problemID int64) (*Verification, error)

	// Create inserts a new verification and returns it with its assigned ID.
	Create(ctx context.Context, v Verification) (*Verification, error)

	// Update changes the verified flag of the matching row and returns the
	// updated row.
	Update(ctx context.Context, userID, problemID int64, verified bool) (*Verification, error)

	// CountByProblem counts verifications for one problem with the given
	// verdict.
	CountByProblem(ctx context.Context, problemID int64, verified bool) (int, error)
}
