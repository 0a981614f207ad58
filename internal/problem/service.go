package problem

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"citywatch/internal/category"
	"citywatch/internal/geo"
	"citywatch/internal/platform/metrics"
	"citywatch/internal/verification"
	dErrors "citywatch/pkg/domain-errors"
	"citywatch/pkg/platform/sentinel"
	"citywatch/pkg/requestcontext"
)

// TallySource computes the live verification tally for one problem.
type TallySource interface {
	TallyFor(ctx context.Context, problemID int64) (verification.Tally, error)
}

// Service assembles the viewport feed and accepts new problem reports.
type Service struct {
	store      Store
	categories category.Store
	tallies    TallySource
	logger     *slog.Logger
	metrics    *metrics.Metrics

	boxDelta    float64
	maxInFlight int
}

func NewService(
	store Store,
	categories category.Store,
	tallies TallySource,
	logger *slog.Logger,
	m *metrics.Metrics,
	boxDelta float64,
	maxInFlight int,
) *Service {
	return &Service{
		store:       store,
		categories:  categories,
		tallies:     tallies,
		logger:      logger,
		metrics:     m,
		boxDelta:    boxDelta,
		maxInFlight: maxInFlight,
	}
}

// Feed resolves the bounding box around center, loads the joined base
// records, and fans out one tally computation per problem.
//
// The fan-out is all-or-nothing: results land at their originating index so
// response order matches base-query order, and a single tally failure fails
// the whole request. Each tally reads the ledger at a possibly different
// instant; no transaction wraps the fan-out (approximate consensus signal,
// not strong consistency).
func (s *Service) Feed(ctx context.Context, center geo.Point) ([]ProblemWithTally, error) {
	box := geo.Resolve(center, s.boxDelta)

	base, err := s.store.ListInBox(ctx, box)
	if err != nil {
		s.metrics.ObserveFeed("store_error", 0, 0)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "problem feed query failed")
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxInFlight)

	out := make([]ProblemWithTally, len(base))
	for i, item := range base {
		g.Go(func() error {
			tally, err := s.tallies.TallyFor(gctx, item.ID)
			if err != nil {
				return err
			}
			out[i] = ProblemWithTally{FeedProblem: item, Tally: tally}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "tally fan-out failed",
			"request_id", requestcontext.RequestID(ctx),
			"problems", len(base),
			"error", err.Error(),
		)
		s.metrics.ObserveFeed("tally_error", 0, 0)
		return nil, err
	}

	s.metrics.ObserveFeed("ok", len(out), time.Since(start))
	return out, nil
}

// ReportRequest carries a new problem report.
type ReportRequest struct {
	UserID      int64
	Title       string
	Description string
	Lat         float64
	Lng         float64
	CategoryID  int64
}

// Report validates and stores a new problem.
func (s *Service) Report(ctx context.Context, req ReportRequest) (*Problem, error) {
	if req.UserID <= 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user_id is required")
	}
	if req.Title == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "title is required")
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "coordinates out of range")
	}

	if _, err := s.categories.Get(ctx, req.CategoryID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeBadRequest, "unknown category")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "category lookup failed")
	}

	created, err := s.store.Create(ctx, Problem{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Lat:         req.Lat,
		Lng:         req.Lng,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to create problem")
	}

	s.metrics.IncProblemsReported()
	return created, nil
}
