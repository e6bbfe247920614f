// Package main provides the entrypoint for the Nomad API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/nomadtravel/nomad/internal/api"
	"github.com/nomadtravel/nomad/internal/api/handler"
	"github.com/nomadtravel/nomad/internal/api/middleware"
	"github.com/nomadtravel/nomad/internal/assistant"
	"github.com/nomadtravel/nomad/internal/config"
	"github.com/nomadtravel/nomad/internal/database"
	"github.com/nomadtravel/nomad/internal/itinerary"
	"github.com/nomadtravel/nomad/internal/nomadai"
	"github.com/nomadtravel/nomad/internal/optimize"
	"github.com/nomadtravel/nomad/internal/places"
	"github.com/nomadtravel/nomad/internal/places/googleplaces"
	"github.com/nomadtravel/nomad/internal/places/serpapi"
	"github.com/nomadtravel/nomad/internal/planner"
	"github.com/nomadtravel/nomad/internal/provider/resilience"
	"github.com/nomadtravel/nomad/internal/route"
	"github.com/nomadtravel/nomad/internal/session"
	"github.com/nomadtravel/nomad/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "nomad-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Nomad API")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.JWT.SigningKey == config.DevSigningKey {
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
		SampleRatio:    cfg.Telemetry.SampleRatio,
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

	if cfg.Telemetry.Enabled {
		log.Info().
			Str("otlp_endpoint", cfg.Telemetry.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}
	providerMetrics, err := telemetry.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	verifier, err := session.NewVerifier(session.VerifierConfig{
		SigningKey: cfg.JWT.SigningKey,
		Issuer:     cfg.JWT.Issuer,
		Audience:   cfg.JWT.Audience,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token verifier")
	}

	// Provider clients share one registry for /v1/ops/status
	providers := resilience.NewRegistry()

	backend := nomadai.NewClient(nomadai.ClientConfig{
		BaseURL:  cfg.Backend.URL,
		Timeout:  cfg.Backend.Timeout,
		Registry: providers,
		Logger:   log,
	})
	log.Info().Str("url", cfg.Backend.URL).Msg("backend client initialized")

	var placesClient places.Provider
	switch cfg.Places.Provider {
	case config.PlacesSerpAPI:
		placesClient = serpapi.NewClient(serpapi.ClientConfig{
			APIKey:   cfg.Places.SerpAPIKey,
			BaseURL:  cfg.Places.SerpAPIBaseURL,
			Registry: providers,
			Logger:   log,
		})
		if cfg.Places.SerpAPIKey == "" {
			log.Warn().Msg("SERPAPI_KEY not set - place search will fail")
		}
	default:
		placesClient = googleplaces.NewClient(googleplaces.ClientConfig{
			APIKey:   cfg.Places.APIKey,
			BaseURL:  cfg.Places.BaseURL,
			Registry: providers,
			Logger:   log,
		})
		if cfg.Places.APIKey == "" {
			log.Warn().Msg("GOOGLE_PLACES_API_KEY not set - place search will fail")
		}
	}
	log.Info().Str("provider", placesClient.Name()).Msg("places client initialized")

	readiness := map[string]handler.ReadinessCheck{}
	var cache places.Cache
	if cfg.Redis.Addr != "" {
		rdb, err := database.Connect(ctx, database.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()

		cache = places.NewRedisCache(rdb, "")
		readiness["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
		log.Info().
			Str("addr", cfg.Redis.Addr).
			Int("db", cfg.Redis.DB).
			Msg("redis place cache connected")
	} else {
		cache = places.NewMemoryCache(0)
		log.Info().Msg("using in-memory place cache")
	}

	placeService := places.NewService(places.ServiceConfig{
		Provider: placesClient,
		Cache:    cache,
		CacheTTL: cfg.Places.CacheTTL,
		Metrics:  providerMetrics,
		Logger:   log,
	})

	var (
		optimizer         route.Optimizer = backend
		optimizerProvider                 = nomadai.ProviderName
	)
	if cfg.Route.OptimizerMode == config.OptimizerLocal {
		optimizer = optimize.New(optimize.Config{Logger: log})
		optimizerProvider = "local"
	}
	log.Info().Str("mode", cfg.Route.OptimizerMode).Msg("route optimizer selected")

	workspaces := planner.NewRegistry(planner.Config{
		Places:            placeService,
		Insights:          assistant.NewInsights(backend, log),
		Chatter:           backend,
		Optimizer:         optimizer,
		Opener:            routeLinkLogger(log),
		MaxCandidates:     cfg.Route.MaxCandidates,
		DwellMinutes:      cfg.Route.DwellMinutes,
		StartTime:         cfg.Route.StartTime,
		PlacesProvider:    placesClient.Name(),
		AssistantProvider: nomadai.ProviderName,
		OptimizerProvider: optimizerProvider,
		Recorder:          providerMetrics,
		Logger:            log,
	})

	trips := itinerary.NewTrips(itinerary.TripsConfig{Logger: log})

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		Metrics:            metrics,
		Verifier:           verifier,
		Trips:              trips,
		Workspaces:         workspaces,
		Providers:          providers,
		ReadinessChecks:    readiness,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RequireTLS:         cfg.RequireTLS,
	})

	// Create HTTP server. The write timeout covers a backend call with its retry.
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: nomadai.CallBudget(cfg.Backend.Timeout) + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// Results still in flight are discarded.
	workspaces.Close()

	log.Info().Msg("server stopped")
}

// routeLinkLogger records each optimized route's deep link; the API returns the
// link to the caller, who opens it.
func routeLinkLogger(log zerolog.Logger) route.URLOpener {
	return route.OpenerFunc(func(_ context.Context, url string) error {
		log.Debug().Str("url", url).Msg("route link ready")
		return nil
	})
}
