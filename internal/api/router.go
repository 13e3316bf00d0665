// Package api provides the HTTP API for TripWeave.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tripweave/tripweave/internal/api/handler"
	"github.com/tripweave/tripweave/internal/api/middleware"
	"github.com/tripweave/tripweave/internal/trips"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Planner     handler.Planner
	TripService *trips.Service
	DB          handler.Pinger
	Metrics     *middleware.Metrics
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "tripweave-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP request metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DB)
	planHandler := handler.NewPlanHandler(cfg.Planner, cfg.Logger)
	tripsHandler := handler.NewTripsHandler(cfg.TripService, cfg.Logger)

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByUser(middleware.StandardRateLimit) // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Planning endpoint - expensive compute, strict rate limiting
		r.With(expensiveRateLimit).Post("/plan", planHandler.Plan)

		// Re-ranking endpoint - pure compute, standard rate limiting
		r.With(standardRateLimit).Post("/itineraries/rank", planHandler.Rank)

		// Saved trips
		r.Route("/trips", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", tripsHandler.List)
			r.Post("/", tripsHandler.Create)
			r.Route("/{tripId}", func(r chi.Router) {
				r.Get("/", tripsHandler.Get)
				r.Patch("/", tripsHandler.Update)
				r.Delete("/", tripsHandler.Delete)
			})
		})
	})

	return r
}
