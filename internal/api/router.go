// Package api provides the HTTP API for Nomad.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/nomadtravel/nomad/internal/api/handler"
	"github.com/nomadtravel/nomad/internal/api/middleware"
	"github.com/nomadtravel/nomad/internal/itinerary"
	"github.com/nomadtravel/nomad/internal/planner"
	"github.com/nomadtravel/nomad/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version   string
	BuildTime string
	Logger    zerolog.Logger
	Metrics   *middleware.Metrics

	// Verifier authenticates bearer tokens.
	Verifier middleware.TokenVerifier

	// Trips holds every user's itinerary.
	Trips *itinerary.Trips

	// Workspaces holds every user's search, detail, chat and route calls.
	Workspaces *planner.Registry

	// Providers reports provider client health (optional).
	Providers *resilience.Registry

	// ReadinessChecks gate /v1/ops/ready (optional).
	ReadinessChecks map[string]handler.ReadinessCheck

	CORSAllowedOrigins []string
	RequireTLS         bool
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID) // Generate/propagate request ID first
	r.Use(middleware.Tracing()) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.RequireJSON)

	opsHandler := handler.NewOpsHandler(handler.OpsConfig{
		Version:    cfg.Version,
		BuildTime:  cfg.BuildTime,
		Providers:  cfg.Providers,
		Workspaces: cfg.Workspaces,
		Checks:     cfg.ReadinessChecks,
		Logger:     cfg.Logger,
	})
	itineraryHandler := handler.NewItineraryHandler(cfg.Trips, cfg.Logger)
	placesHandler := handler.NewPlacesHandler(cfg.Workspaces, cfg.Logger)
	routeHandler := handler.NewRouteHandler(cfg.Workspaces, cfg.Logger)
	assistantHandler := handler.NewAssistantHandler(cfg.Workspaces, cfg.Logger)
	sessionHandler := handler.NewSessionHandler(cfg.Trips, cfg.Workspaces, cfg.Logger)

	authMiddleware := middleware.Auth(cfg.Verifier)
	standardRateLimit := middleware.RateLimitByUser(middleware.StandardRateLimit)   // 100 req/min per user
	expensiveRateLimit := middleware.RateLimitByUser(middleware.ExpensiveRateLimit) // 30 req/min per user

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Route("/itinerary", func(r chi.Router) {
				r.Use(standardRateLimit)
				r.Get("/", itineraryHandler.GetItinerary)
				r.Route("/days/{dayId}", func(r chi.Router) {
					r.Post("/activities", itineraryHandler.CreateActivity)
					r.Put("/order", itineraryHandler.ReorderDay)
				})
			})

			r.With(standardRateLimit).Post("/places:search", placesHandler.Search)
			r.With(standardRateLimit).Get("/places/{placeId}", placesHandler.GetPlace)

			// Optimizer and assistant calls are expensive
			r.With(expensiveRateLimit).Post("/routes:optimize", routeHandler.Optimize)
			r.With(expensiveRateLimit).Post("/assistant/chat", assistantHandler.Chat)

			r.Delete("/session", sessionHandler.EndSession)
		})
	})

	return r
}
