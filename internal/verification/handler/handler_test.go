package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"citywatch/internal/auth"
	"citywatch/internal/platform/metrics"
	"citywatch/internal/verification"
	"citywatch/pkg/testutil"
)

var testMetrics = metrics.New()

// HandlerSuite wires the handler against the real in-memory ledger, no mocks.
type HandlerSuite struct {
	suite.Suite
	router http.Handler
	tokens *auth.JWTService
	store  *verification.InMemoryStore
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	s.store = verification.NewInMemoryStore()
	ledger := verification.NewService(s.store, logger, testMetrics)
	s.tokens = auth.NewJWTService("test-signing-key", "citywatch", time.Hour)

	r := chi.NewRouter()
	New(ledger, logger, s.tokens).Register(r)
	s.router = r
}

func (s *HandlerSuite) tokenFor(userID int64) string {
	token, err := s.tokens.GenerateToken(userID)
	s.Require().NoError(err)
	return token
}

func (s *HandlerSuite) seedVote(userID, problemID int64, verified bool) {
	_, err := s.store.Create(context.Background(), verification.Verification{
		UserID:    userID,
		ProblemID: problemID,
		Verified:  verified,
	})
	s.Require().NoError(err)
}

func (s *HandlerSuite) TestLookupExistingVote() {
	s.seedVote(7, 3, true)

	req := testutil.NewRequestWithBody(s.T(), http.MethodGet, "/verification/7/3", "")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	v := testutil.UnmarshalResponse[verification.Verification](s.T(), rr)
	s.Equal(int64(7), v.UserID)
	s.Equal(int64(3), v.ProblemID)
	s.True(v.Verified)
}

func (s *HandlerSuite) TestLookupMissingVoteReturnsFalse() {
	req := testutil.NewRequestWithBody(s.T(), http.MethodGet, "/verification/7/3", "")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	s.Equal("false", rr.Body.String())
}

func (s *HandlerSuite) TestLookupRejectsNonNumericIDs() {
	req := testutil.NewRequestWithBody(s.T(), http.MethodGet, "/verification/seven/3", "")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
}

func (s *HandlerSuite) TestCastRequiresToken() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/verification", map[string]any{
		"userId": 7, "probId": 3, "verification": true,
	})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
}

func (s *HandlerSuite) TestCastCreatesVote() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/verification", map[string]any{
		"userId": 7, "probId": 3, "verification": true,
	})
	req.Header.Set("Authorization", "Bearer "+s.tokenFor(7))
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	v := testutil.UnmarshalResponse[verification.Verification](s.T(), rr)
	s.Equal(int64(7), v.UserID)
	s.Equal(int64(3), v.ProblemID)
	s.True(v.Verified)

	stored, err := s.store.Find(context.Background(), 7, 3)
	s.Require().NoError(err)
	s.True(stored.Verified)
}

func (s *HandlerSuite) TestCastDuplicateVoteConflicts() {
	s.seedVote(7, 3, true)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/verification", map[string]any{
		"userId": 7, "probId": 3, "verification": false,
	})
	req.Header.Set("Authorization", "Bearer "+s.tokenFor(7))
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")

	stored, err := s.store.Find(context.Background(), 7, 3)
	s.Require().NoError(err)
	s.True(stored.Verified, "original vote must survive a duplicate cast")
}

func (s *HandlerSuite) TestCastRejectsMismatchedVoter() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/verification", map[string]any{
		"userId": 7, "probId": 3, "verification": true,
	})
	req.Header.Set("Authorization", "Bearer "+s.tokenFor(99))
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
}

func (s *HandlerSuite) TestChangeFlipsVote() {
	s.seedVote(7, 3, true)

	req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/verification", map[string]any{
		"userId": 7, "probId": 3, "verification": false,
	})
	req.Header.Set("Authorization", "Bearer "+s.tokenFor(7))
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	v := testutil.UnmarshalResponse[verification.Verification](s.T(), rr)
	s.False(v.Verified)

	stored, err := s.store.Find(context.Background(), 7, 3)
	s.Require().NoError(err)
	s.False(stored.Verified)
}

func (s *HandlerSuite) TestChangeMissingVoteIsNoOp() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/verification", map[string]any{
		"userId": 7, "probId": 3, "verification": true,
	})
	req.Header.Set("Authorization", "Bearer "+s.tokenFor(7))
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	s.Empty(rr.Body.String())

	_, err := s.store.Find(context.Background(), 7, 3)
	s.Error(err, "a no-op change must not insert a vote")
}

func (s *HandlerSuite) TestCastInvalidBody() {
	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/verification", "{not json")
	req.Header.Set("Authorization", "Bearer "+s.tokenFor(7))
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}
