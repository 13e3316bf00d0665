// Package main provides the entrypoint for the TripWeave API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tripweave/tripweave/internal/api"
	"github.com/tripweave/tripweave/internal/api/middleware"
	"github.com/tripweave/tripweave/internal/database"
	"github.com/tripweave/tripweave/internal/datamall"
	"github.com/tripweave/tripweave/internal/enrich"
	"github.com/tripweave/tripweave/internal/planner"
	"github.com/tripweave/tripweave/internal/routing/onemap"
	"github.com/tripweave/tripweave/internal/telemetry"
	"github.com/tripweave/tripweave/internal/trips"
	"github.com/tripweave/tripweave/internal/weather"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "tripweave-api"

	// Local overrides; absence is fine outside development
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting TripWeave API")

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

	// Initialize external provider clients
	onemapToken := os.Getenv("ONEMAP_TOKEN")
	if onemapToken == "" {
		log.Warn().Msg("ONEMAP_TOKEN not set - planning endpoints will fail")
	}
	routingClient := onemap.NewClient(onemap.ClientConfig{
		BaseURL: os.Getenv("ONEMAP_BASE_URL"),
		Token:   onemapToken,
		Logger:  log,
	})

	datamallKey := os.Getenv("DATAMALL_ACCOUNT_KEY")
	if datamallKey == "" {
		log.Warn().Msg("DATAMALL_ACCOUNT_KEY not set - live transport signals disabled")
	}
	datamallClient := datamall.NewClient(datamall.ClientConfig{
		BaseURL:    os.Getenv("DATAMALL_BASE_URL"),
		AccountKey: datamallKey,
	})

	weatherClient := weather.NewClient(weather.ClientConfig{
		BaseURL: os.Getenv("WEATHER_BASE_URL"),
	})

	// Initialize enrichment and planning services
	enrichService := enrich.NewService(enrich.ServiceConfig{
		Transport: datamallClient,
		Weather:   weatherClient,
		Logger:    log,
	})

	plannerService := planner.NewService(planner.ServiceConfig{
		Provider: routingClient,
		Enricher: enrichService,
		Logger:   log,
	})
	log.Info().Msg("planner service initialized")

	// Initialize trip repository and service
	tripRepo := trips.NewPostgresRepository(pool)
	tripService := trips.NewService(tripRepo)
	log.Info().Msg("trip service initialized")

	httpMetrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize HTTP metrics")
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Planner:     plannerService,
		TripService: tripService,
		DB:          pool,
		Metrics:     httpMetrics,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
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
