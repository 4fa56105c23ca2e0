// Package api provides the HTTP API for Offboard.
package api

import (
	"context"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/offboard/offboard/internal/api/handler"
	"github.com/offboard/offboard/internal/api/middleware"
	"github.com/offboard/offboard/internal/auth"
	"github.com/offboard/offboard/internal/deletion"
	"github.com/offboard/offboard/internal/featureflags"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version            string
	BuildTime          string
	Logger             zerolog.Logger
	ServiceName        string
	Metrics            *middleware.Metrics
	AuthService        *auth.Service
	DeletionService    *deletion.Service
	FeatureFlagService *featureflags.Service

	// Readiness pings the service's hard dependencies for /v1/ops/ready.
	Readiness func(context.Context) error
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "offboard-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(handler.OpsConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		Readiness: cfg.Readiness,
		Flags:     cfg.FeatureFlagService,
	})
	deletionHandler := handler.NewDeletionHandler(cfg.DeletionService)
	adminHandler := handler.NewAdminHandler(cfg.DeletionService)
	featureFlagsHandler := handler.NewFeatureFlagsHandler(cfg.FeatureFlagService)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	lifecycleRateLimit := middleware.RateLimitByAccount(middleware.LifecycleRateLimit) // 10 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)        // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Deletion lifecycle endpoints (authenticated)
		r.Route("/me/deletion-request", func(r chi.Router) {
			r.Use(authMiddleware)

			// Status reads are cheap; request and cancel change state
			// and get the stricter limit.
			r.With(middleware.RateLimitByAccount(middleware.StandardRateLimit)).
				Get("/", deletionHandler.DeletionStatus)
			r.With(lifecycleRateLimit).Post("/", deletionHandler.RequestDeletion)
			r.With(lifecycleRateLimit).Delete("/", deletionHandler.CancelDeletion)
		})

		// Admin endpoints (authenticated, admin scope)
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireAdmin)
			r.Use(standardRateLimit)

			r.Route("/deletion-requests", func(r chi.Router) {
				r.Get("/", adminHandler.ListDeletionRequests)
				r.Delete("/{accountId}", adminHandler.ResetDeletionRequest)
			})

			// Feature flags management
			r.Route("/feature-flags", func(r chi.Router) {
				r.Get("/", featureFlagsHandler.ListFeatureFlags)
				r.Put("/", featureFlagsHandler.UpsertFeatureFlags)
				r.Post("/invalidate", featureFlagsHandler.InvalidateCache)
			})
		})
	})

	return r
}
