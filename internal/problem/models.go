package problem

import "citywatch/internal/verification"

// Problem is a stored report row. Immutable after creation; never deleted.
type Problem struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	CategoryID  int64   `json:"category_id"`
}

// FeedProblem is a problem joined with its reporter's username and category
// label, as projected by the feed query.
type FeedProblem struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Username    string  `json:"username"`
	Category    string  `json:"category"`
}

// ProblemWithTally is a FeedProblem plus its live verification tally. Derived
// at request time, never persisted or cached.
type ProblemWithTally struct {
	FeedProblem
	verification.Tally
}
