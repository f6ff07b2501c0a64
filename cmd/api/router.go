package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/httpx"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type alwaysReady struct{}

func (alwaysReady) Ping(context.Context) error { return nil }

// newRouter wires the book API, the health probes and the middleware chain.
// The rate limiter's janitor stops when ctx is done.
func newRouter(ctx context.Context, cfg config.Config, logger *slog.Logger, svc *book.Service, ready pinger) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := ready.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	book.NewHTTPHandler(svc, logger).Routes(router)

	rateLimiter := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(logger),
		httpx.RecoveryMiddleware(logger),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.CORSOrigins),
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
		rateLimiter.Middleware,
	)
}
