package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"citywatch/internal/auth"
	"citywatch/internal/platform/metrics"
	"citywatch/internal/user"
	"citywatch/pkg/testutil"
)

var testMetrics = metrics.New()

// HandlerSuite wires the handler against the real in-memory store, no mocks.
type HandlerSuite struct {
	suite.Suite
	router http.Handler
	tokens *auth.JWTService
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	store := user.NewInMemoryStore()
	s.tokens = auth.NewJWTService("test-signing-key", "citywatch", time.Hour)
	svc := user.NewService(store, s.tokens, logger, testMetrics)

	r := chi.NewRouter()
	New(svc, logger).Register(r)
	s.router = r
}

func (s *HandlerSuite) register(username, email, password string) *user.AuthenticatedUser {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/users", map[string]any{
		"username": username,
		"email":    email,
		"password": password,
		"address":  "413 Pine St",
	})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusOK(s.T(), rr)
	return testutil.UnmarshalResponse[user.AuthenticatedUser](s.T(), rr)
}

func (s *HandlerSuite) TestRegisterIssuesToken() {
	authed := s.register("jamiesonbates", "jamieson@example.com", "hunter22")

	s.NotZero(authed.ID)
	s.Equal("jamiesonbates", authed.Username)
	s.Equal("jamieson@example.com", authed.Email)
	s.NotEmpty(authed.Token)

	claims, err := s.tokens.ValidateToken(authed.Token)
	s.Require().NoError(err)
	s.Equal(authed.ID, claims.UserID)
}

func (s *HandlerSuite) TestRegisterNeverEchoesPasswordHash() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/users", map[string]any{
		"username": "jamiesonbates",
		"email":    "jamieson@example.com",
		"password": "hunter22",
	})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	s.NotContains(rr.Body.String(), "h_pw")
	s.NotContains(rr.Body.String(), "$2a$")
}

func (s *HandlerSuite) TestRegisterDuplicateEmailConflicts() {
	s.register("jamiesonbates", "jamieson@example.com", "hunter22")

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/users", map[string]any{
		"username": "someoneelse",
		"email":    "jamieson@example.com",
		"password": "different",
	})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
}

func (s *HandlerSuite) TestRegisterMissingFields() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/users", map[string]any{
		"username": "jamiesonbates",
	})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

func (s *HandlerSuite) TestTokenWithGoodCredentials() {
	registered := s.register("jamiesonbates", "jamieson@example.com", "hunter22")

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/token", map[string]any{
		"email":    "jamieson@example.com",
		"password": "hunter22",
	})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	authed := testutil.UnmarshalResponse[user.AuthenticatedUser](s.T(), rr)
	s.Equal(registered.ID, authed.ID)
	s.NotEmpty(authed.Token)
}

func (s *HandlerSuite) TestTokenWithWrongPassword() {
	s.register("jamiesonbates", "jamieson@example.com", "hunter22")

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/token", map[string]any{
		"email":    "jamieson@example.com",
		"password": "wrong",
	})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
}

func (s *HandlerSuite) TestTokenUnknownEmailMatchesWrongPassword() {
	s.register("jamiesonbates", "jamieson@example.com", "hunter22")

	wrongPw := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/token", map[string]any{
		"email": "jamieson@example.com", "password": "wrong",
	}))
	unknown := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/token", map[string]any{
		"email": "nobody@example.com", "password": "hunter22",
	}))

	s.Equal(wrongPw.Code, unknown.Code)
	s.JSONEq(wrongPw.Body.String(), unknown.Body.String(), "responses must not reveal which emails exist")
}

func (s *HandlerSuite) TestTokenInvalidBody() {
	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/token", "{not json")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}
