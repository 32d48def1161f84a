package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/billcycle/internal/adapter/http/handler"
	"github.com/iho/billcycle/internal/adapter/http/middleware"
	"github.com/iho/billcycle/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	CardHandler        *handler.CardHandler
	BlueprintHandler   *handler.BlueprintHandler
	PostingHandler     *handler.PostingHandler
	StatementHandler   *handler.StatementHandler
	InstallmentHandler *handler.InstallmentHandler
	SyncHandler        *handler.SyncHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	RateLimiter        *middleware.RateLimiter
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.NewRecovery(cfg.Logger))
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		// Cards
		r.Route("/cards", func(r chi.Router) {
			r.Post("/", cfg.CardHandler.Create)
			r.Get("/", cfg.CardHandler.List)
			r.Get("/{id}", cfg.CardHandler.Get)
			r.Get("/{id}/transactions", cfg.PostingHandler.ListByCard)
			r.Get("/{id}/statement", cfg.StatementHandler.Get)
			r.Get("/{id}/statements", cfg.StatementHandler.History)
			r.Get("/{id}/installments", cfg.InstallmentHandler.ListByCard)
		})

		// Recurring blueprints
		r.Route("/recurring", func(r chi.Router) {
			r.Post("/", cfg.BlueprintHandler.Create)
			r.Get("/", cfg.BlueprintHandler.List)
			r.Get("/{id}", cfg.BlueprintHandler.Get)
			r.Delete("/{id}", cfg.BlueprintHandler.Delete)
		})

		// One-off postings
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.PostingHandler.Create)
			r.Get("/{id}", cfg.PostingHandler.Get)
			r.Delete("/{id}", cfg.PostingHandler.Delete)
		})

		// Installment purchases
		r.Route("/installments", func(r chi.Router) {
			r.Post("/", cfg.InstallmentHandler.Create)
			r.Get("/{id}", cfg.InstallmentHandler.Get)
		})

		r.Post("/sync", cfg.SyncHandler.Trigger)
	})

	return r
}
