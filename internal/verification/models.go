package verification

// Verification is one user's yes/no judgment on one problem. At most one row
// exists per (user, problem) pair; the store enforces it.
type Verification struct {
	ID        int64 `json:"id"`
	ProblemID int64 `json:"prob_id"`
	UserID    int64 `json:"user_id"`
	Verified  bool  `json:"verified"`
}
