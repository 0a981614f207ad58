package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"citywatch/internal/platform/middleware"
	"citywatch/internal/verification"
	dErrors "citywatch/pkg/domain-errors"
	"citywatch/pkg/platform/httputil"
	"citywatch/pkg/requestcontext"
)

// Service defines the ledger operations the handler needs.
type Service interface {
	Lookup(ctx context.Context, userID, problemID int64) (*verification.Verification, error)
	Cast(ctx context.Context, userID, problemID int64, verified bool) (*verification.Verification, error)
	Change(ctx context.Context, userID, problemID int64, verified bool) (*verification.Verification, error)
}

// Handler handles verification ledger endpoints.
type Handler struct {
	logger       *slog.Logger
	ledger       Service
	jwtValidator middleware.JWTValidator
}

func New(ledger Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{logger: logger, ledger: ledger, jwtValidator: jwtValidator}
}

// Register wires the verification routes. Reads are public; casting or
// changing a vote requires a bearer token.
func (h *Handler) Register(r chi.Router) {
	r.Get("/verification/{userId}/{probId}", h.handleLookup)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/verification", h.handleCast)
		r.Patch("/verification", h.handleChange)
	})
}

// castRequest matches the client payload for both POST and PATCH.
type castRequest struct {
	UserID       int64 `json:"userId"`
	ProblemID    int64 `json:"probId"`
	Verification bool  `json:"verification"`
}

func (h *Handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err1 := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	problemID, err2 := strconv.ParseInt(chi.URLParam(r, "probId"), 10, 64)
	if err1 != nil || err2 != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "user and problem IDs must be integers"))
		return
	}

	v, err := h.ledger.Lookup(ctx, userID, problemID)
	if err != nil {
		h.logger.ErrorContext(ctx, "verification lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	// No row is not an error: the client receives the literal false so it
	// knows to POST rather than PATCH.
	if v == nil {
		httputil.WriteJSON(w, http.StatusOK, false)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleCast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	v, err := h.ledger.Cast(ctx, req.UserID, req.ProblemID, req.Verification)
	if err != nil {
		h.logger.WarnContext(ctx, "cast verification failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	v, err := h.ledger.Change(ctx, req.UserID, req.ProblemID, req.Verification)
	if err != nil {
		h.logger.WarnContext(ctx, "change verification failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	// No matching row: the update was a no-op and the response body stays
	// empty, per the ledger contract.
	if v == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (castRequest, bool) {
	var req castRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return castRequest{}, false
	}

	// The token owner must be the voter; one user cannot vote as another.
	if authedID := requestcontext.UserID(r.Context()); authedID != 0 && authedID != req.UserID {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "token does not match userId"))
		return castRequest{}, false
	}
	return req, true
}
