package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"citywatch/internal/geo"
	"citywatch/internal/platform/middleware"
	"citywatch/internal/problem"
	dErrors "citywatch/pkg/domain-errors"
	"citywatch/pkg/platform/httputil"
	"citywatch/pkg/requestcontext"
)

// Service defines the problem operations the handler needs.
type Service interface {
	Feed(ctx context.Context, center geo.Point) ([]problem.ProblemWithTally, error)
	Report(ctx context.Context, req problem.ReportRequest) (*problem.Problem, error)
}

// Handler handles the viewport feed and problem creation endpoints.
type Handler struct {
	logger       *slog.Logger
	problems     Service
	jwtValidator middleware.JWTValidator
}

func New(problems Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{logger: logger, problems: problems, jwtValidator: jwtValidator}
}

// Register wires the problem routes. The feed is public; reporting requires
// a bearer token.
func (h *Handler) Register(r chi.Router) {
	r.Post("/markers", h.handleFeed)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/problem", h.handleReport)
	})
}

// feedRequest accepts lat/lng as JSON numbers or numeric strings, the way
// map clients send them.
type feedRequest struct {
	Lat json.RawMessage `json:"lat"`
	Lng json.RawMessage `json:"lng"`
}

func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req feedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	lat, err := parseCoord(req.Lat, "lat")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	lng, err := parseCoord(req.Lng, "lng")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	feed, err := h.problems.Feed(ctx, geo.Point{Lat: lat, Lng: lng})
	if err != nil {
		h.logger.ErrorContext(ctx, "feed request failed",
			"request_id", requestcontext.RequestID(ctx),
			"lat", lat,
			"lng", lng,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, feed)
}

// reportRequest matches the original client payload, snake_case keys with
// coordinates again as numbers or numeric strings.
type reportRequest struct {
	UserID      int64           `json:"user_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Lat         json.RawMessage `json:"lat"`
	Lng         json.RawMessage `json:"lng"`
	CategoryID  int64           `json:"category_id"`
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	// The token owner must be the reporter.
	if authedID := requestcontext.UserID(ctx); authedID != 0 && authedID != req.UserID {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "token does not match user_id"))
		return
	}

	lat, err := parseCoord(req.Lat, "lat")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	lng, err := parseCoord(req.Lng, "lng")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	created, err := h.problems.Report(ctx, problem.ReportRequest{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Lat:         lat,
		Lng:         lng,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "problem report failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, created)
}

// parseCoord accepts a raw JSON number or a quoted numeric string.
func parseCoord(raw json.RawMessage, field string) (float64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, field+" must be a number")
	}
	return v, nil
}
