// Package httptransport assembles the public HTTP surface: domain handlers,
// the shared middleware chain, and the operational endpoints.
package httptransport

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"citywatch/internal/platform/middleware"
	"citywatch/internal/platform/redis"
	"citywatch/pkg/platform/httputil"
)

const requestTimeout = 30 * time.Second

// Registrar is any handler that can mount its routes on a chi router.
type Registrar interface {
	Register(r chi.Router)
}

// Deps carries everything the router needs. DB and Redis are only probed by
// the health endpoint; either may be nil.
type Deps struct {
	Logger   *slog.Logger
	DB       *sql.DB
	Redis    *redis.Client
	Handlers []Registrar
}

// NewRouter builds the server's root handler with the full middleware chain.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(requestTimeout))

	for _, h := range deps.Handlers {
		h.Register(r)
	}

	r.Get("/health", handleHealth(deps))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Cache    string `json:"cache,omitempty"`
}

func handleHealth(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK

		if deps.DB != nil {
			if err := deps.DB.PingContext(ctx); err != nil {
				resp.Status = "degraded"
				resp.Database = err.Error()
				status = http.StatusServiceUnavailable
			}
		}
		if deps.Redis != nil {
			if err := deps.Redis.Health(ctx); err != nil {
				// The cache is optional; a dead cache degrades but does not
				// take the service down.
				resp.Cache = err.Error()
			}
		}

		httputil.WriteJSON(w, status, resp)
	}
}
