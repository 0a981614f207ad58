package verification

import (
	"context"
	"errors"
	"log/slog"

	"citywatch/internal/platform/metrics"
	dErrors "citywatch/pkg/domain-errors"
	"citywatch/pkg/platform/sentinel"
)

// Service is the verification ledger boundary. It translates store sentinels
// into domain errors and keeps the one-vote-per-pair invariant in one place.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewService(store Store, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, logger: logger, metrics: m}
}

// Lookup returns the verification for the (user, problem) pair, or nil when
// the user has not voted. Absence is a fact, not an error.
func (s *Service) Lookup(ctx context.Context, userID, problemID int64) (*Verification, error) {
	if userID <= 0 || problemID <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user and problem IDs must be positive")
	}
	v, err := s.store.Find(ctx, userID, problemID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "verification lookup failed")
	}
	return v, nil
}

// Cast records a new vote. A second vote for the same pair is a conflict;
// callers change an existing vote through Change.
func (s *Service) Cast(ctx context.Context, userID, problemID int64, verified bool) (*Verification, error) {
	if userID <= 0 || problemID <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user and problem IDs must be positive")
	}
	v, err := s.store.Create(ctx, Verification{UserID: userID, ProblemID: problemID, Verified: verified})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "user has already verified this problem")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "verification create failed")
	}
	s.metrics.IncVerificationsCast(verified)
	return v, nil
}

// Change updates an existing vote's verdict. When no row matches it is a
// no-op returning nil, mirroring Lookup's absence semantics; callers decide
// Cast vs Change via Lookup first.
func (s *Service) Change(ctx context.Context, userID, problemID int64, verified bool) (*Verification, error) {
	if userID <= 0 || problemID <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user and problem IDs must be positive")
	}
	v, err := s.store.Update(ctx, userID, problemID, verified)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "verification update failed")
	}
	s.metrics.IncVerificationsCast(verified)
	return v, nil
}

// Tally is the {yes, no, total} verification summary for one problem,
// recomputed from ledger rows on every read.
type Tally struct {
	Yes   int `json:"yes"`
	No    int `json:"no"`
	Total int `json:"total"`
}

// TallyFor issues the two count queries for one problem and sums them. Both
// counts must succeed; there is no partial tally.
func (s *Service) TallyFor(ctx context.Context, problemID int64) (Tally, error) {
	yes, err := s.store.CountByProblem(ctx, problemID, true)
	if err != nil {
		return Tally{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "yes-count failed")
	}
	no, err := s.store.CountByProblem(ctx, problemID, false)
	if err != nil {
		return Tally{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "no-count failed")
	}
	return Tally{Yes: yes, No: no, Total: yes + no}, nil
}
