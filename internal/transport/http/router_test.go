package httptransport

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citywatch/pkg/testutil"
)

type pingHandler struct{}

func (pingHandler) Register(r chi.Router) {
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return NewRouter(Deps{Logger: logger, Handlers: []Registrar{pingHandler{}}})
}

func TestHealthWithoutBackends(t *testing.T) {
	router := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/health", ""))

	testutil.AssertStatusOK(t, rr)
	resp := testutil.UnmarshalResponse[healthResponse](t, rr)
	assert.Equal(t, "ok", resp.Status)
}

func TestMountedHandlersAreReachable(t *testing.T) {
	router := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/ping", ""))

	testutil.AssertStatusOK(t, rr)
	assert.Equal(t, "pong", rr.Body.String())
}

func TestMetricsEndpointServes(t *testing.T) {
	router := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/metrics", ""))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	router := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/ping", ""))

	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}
