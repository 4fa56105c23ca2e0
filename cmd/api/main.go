// Package main provides the entrypoint for the Offboard API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/offboard/offboard/internal/account"
	"github.com/offboard/offboard/internal/api"
	"github.com/offboard/offboard/internal/api/middleware"
	"github.com/offboard/offboard/internal/auth"
	"github.com/offboard/offboard/internal/database"
	"github.com/offboard/offboard/internal/deletion"
	"github.com/offboard/offboard/internal/featureflags"
	"github.com/offboard/offboard/internal/notify"
	"github.com/offboard/offboard/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "offboard-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Offboard API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize JWT validation (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	authService := auth.NewService(auth.Config{
		SigningKey: jwtSigningKey,
		Issuer:     getEnvOrDefault("JWT_ISSUER", "https://api.offboard.dev"),
		Audience:   getEnvOrDefault("JWT_AUDIENCE", "offboard-api"),
	})
	log.Info().Msg("auth service initialized")

	// Initialize feature flags repository and service
	ffRepo := featureflags.NewPostgresRepository(pool)
	ffService := featureflags.NewService(featureflags.ServiceConfig{
		Repository: ffRepo,
		Logger:     log,
		CacheTTL:   1 * time.Minute,
	})
	log.Info().Msg("feature flags service initialized")

	// Initialize notification dispatcher
	dispatcher, dispatcherCleanup, err := buildDispatcher(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize notification dispatcher")
	}
	defer dispatcherCleanup()

	// Initialize deletion lifecycle service
	accountRepo := account.NewPostgresRepository(pool)
	deletionRepo := deletion.NewPostgresRepository(pool)
	deletionService := deletion.NewService(deletion.ServiceConfig{
		Requests:   deletionRepo,
		Accounts:   accountRepo,
		Dispatcher: dispatcher,
		Flags:      ffService,
		Logger:     log,
	})
	log.Info().Msg("deletion service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		ServiceName:        serviceName,
		Metrics:            metrics,
		AuthService:        authService,
		DeletionService:    deletionService,
		FeatureFlagService: ffService,
		Readiness:          pool.Ping,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// buildDispatcher selects the notification transport from NOTIFY_TRANSPORT
// (log, webhook or pubsub) and wraps it with dispatch metrics. The returned
// cleanup func releases transport resources on shutdown.
func buildDispatcher(ctx context.Context, log zerolog.Logger) (notify.Dispatcher, func(), error) {
	noop := func() {}

	transport := getEnvOrDefault("NOTIFY_TRANSPORT", "log")

	var (
		inner   notify.Dispatcher
		cleanup = noop
	)
	switch transport {
	case "webhook":
		endpoint := os.Getenv("NOTIFY_WEBHOOK_URL")
		if endpoint == "" {
			log.Warn().Msg("NOTIFY_WEBHOOK_URL not set - falling back to log dispatcher")
			transport = "log"
			inner = notify.NewLogDispatcher(log)
			break
		}
		inner = notify.NewWebhookDispatcher(notify.WebhookConfig{Endpoint: endpoint})
	case "pubsub":
		pubsubDispatcher, err := notify.NewPubSubDispatcher(ctx, notify.PubSubConfig{
			ProjectID: os.Getenv("PUBSUB_PROJECT_ID"),
			TopicName: getEnvOrDefault("PUBSUB_TOPIC", "deletion-lifecycle-events"),
		})
		if err != nil {
			return nil, noop, err
		}
		inner = pubsubDispatcher
		cleanup = func() {
			if err := pubsubDispatcher.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close pubsub dispatcher")
			}
		}
	default:
		transport = "log"
		inner = notify.NewLogDispatcher(log)
	}
	log.Info().Str("transport", transport).Msg("notification dispatcher initialized")

	dispatchMetrics, err := middleware.NewDispatcherMetrics()
	if err != nil {
		cleanup()
		return nil, noop, err
	}

	return notify.NewInstrumentedDispatcher(inner, dispatchMetrics, transport), cleanup, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
