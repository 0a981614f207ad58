package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"citywatch/internal/platform/metrics"
	dErrors "citywatch/pkg/domain-errors"
	"citywatch/pkg/platform/sentinel"
)

// bcryptCost matches the cost the original deployment hashed with; existing
// hashes keep verifying if this changes.
const bcryptCost = 12

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(userID int64) (string, error)
}

// Service covers registration and credential verification. Password hashes
// stay inside this package.
type Service struct {
	store   Store
	tokens  TokenIssuer
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewService(store Store, tokens TokenIssuer, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, tokens: tokens, logger: logger, metrics: m}
}

// RegisterRequest carries the registration payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

// Register hashes the password, stores the user, and returns the user with a
// fresh bearer token.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthenticatedUser, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "username, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	created, err := s.store.Create(ctx, User{
		Username:     req.Username,
		Email:        req.Email,
		Address:      req.Address,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to create user")
	}

	token, err := s.tokens.GenerateToken(created.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}

	s.metrics.IncUsersRegistered()
	return &AuthenticatedUser{User: *created, Token: token}, nil
}

// Login verifies email+password and returns the user with a fresh token. A
// missing user and a wrong password produce the same error so the response
// does not reveal which emails exist.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthenticatedUser, error) {
	if email == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email and password are required")
	}

	badCredentials := dErrors.New(dErrors.CodeUnauthorized, "bad email or password")

	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, badCredentials
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "user lookup failed")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, badCredentials
	}

	token, err := s.tokens.GenerateToken(u.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}

	return &AuthenticatedUser{User: *u, Token: token}, nil
}
