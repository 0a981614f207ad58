package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"citywatch/internal/auth"
	"citywatch/internal/category"
	"citywatch/internal/platform/config"
	"citywatch/internal/platform/httpserver"
	"citywatch/internal/platform/logger"
	"citywatch/internal/platform/metrics"
	"citywatch/internal/platform/postgres"
	"citywatch/internal/platform/redis"
	"citywatch/internal/problem"
	problemhandler "citywatch/internal/problem/handler"
	httptransport "citywatch/internal/transport/http"
	"citywatch/internal/user"
	userhandler "citywatch/internal/user/handler"
	"citywatch/internal/verification"
	verificationhandler "citywatch/internal/verification/handler"
)

const categoryCacheTTL = 10 * time.Minute

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal service packages.
func main() {
	log := logger.New()

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	cache, err := redis.New(cfg.Redis)
	if err != nil {
		// The category cache is optional; the feed works without it.
		log.Warn("redis unavailable, category cache disabled", "error", err.Error())
		cache = nil
	}
	if cache != nil {
		defer cache.Close()
	}

	m := metrics.New()
	tokens := auth.NewJWTService(cfg.JWTSigningKey, "citywatch", cfg.TokenTTL)

	users := user.NewPostgres(db)
	categories := category.NewCached(category.NewPostgres(db), cache, categoryCacheTTL)
	problems := problem.NewPostgres(db)
	verifications := verification.NewPostgres(db)

	ledger := verification.NewService(verifications, log, m)
	feed := problem.NewService(problems, categories, ledger, log, m, cfg.BoxDelta, cfg.TallyMaxInFlight)
	identity := user.NewService(users, tokens, log, m)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger: log,
		DB:     db,
		Redis:  cache,
		Handlers: []httptransport.Registrar{
			problemhandler.New(feed, log, tokens),
			verificationhandler.New(ledger, log, tokens),
			userhandler.New(identity, log),
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting citywatch", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
	log.Info("server stopped")
}
