// Package config loads the API configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Optimizer modes.
const (
	OptimizerRemote = "remote"
	OptimizerLocal  = "local"
)

// Places providers.
const (
	PlacesGoogle  = "google"
	PlacesSerpAPI = "serpapi"
)

// DevSigningKey is used when JWT_SIGNING_KEY is unset outside production.
const DevSigningKey = "local-dev-signing-key-change-in-production"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the API configuration.
type Config struct {
	Port        string
	Environment string

	Telemetry TelemetryConfig
	Backend   BackendConfig
	Places    PlacesConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Route     RouteConfig

	CORSAllowedOrigins []string
	RequireTLS         bool
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	SampleRatio  float64
}

// BackendConfig configures the itinerary/summary/chat backend.
type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

// PlacesConfig configures the places provider and its cache. Provider selects
// Google Places (APIKey, BaseURL) or SerpApi (SerpAPIKey, SerpAPIBaseURL).
type PlacesConfig struct {
	Provider       string
	APIKey         string
	BaseURL        string
	SerpAPIKey     string
	SerpAPIBaseURL string
	CacheTTL       time.Duration
}

// JWTConfig configures bearer token verification.
type JWTConfig struct {
	SigningKey string
	Issuer     string
	Audience   string
}

// RedisConfig configures the optional place cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RouteConfig configures route requests.
type RouteConfig struct {
	OptimizerMode string
	MaxCandidates int
	DwellMinutes  int
	StartTime     string
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads the given .env files (".env" when none are named) into the process
// environment, without overriding variables that are already set, and then builds
// the Config. Missing .env files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables.
func FromEnv() (Config, error) {
	p := &parser{}

	cfg := Config{
		Port:        getEnvOrDefault("APP_PORT", "8080"),
		Environment: getEnvOrDefault("APP_ENV", "development"),
		Telemetry: TelemetryConfig{
			Enabled:      p.bool("OTEL_ENABLED", false),
			OTLPEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			SampleRatio:  p.float("OTEL_SAMPLE_RATIO", 1.0),
		},
		Backend: BackendConfig{
			URL:     getEnvOrDefault("NOMAD_BACKEND_URL", "http://127.0.0.1:8000"),
			Timeout: p.duration("NOMAD_BACKEND_TIMEOUT", 90*time.Second),
		},
		Places: PlacesConfig{
			Provider:       strings.ToLower(getEnvOrDefault("PLACES_PROVIDER", PlacesGoogle)),
			APIKey:         os.Getenv("GOOGLE_PLACES_API_KEY"),
			BaseURL:        getEnvOrDefault("GOOGLE_PLACES_BASE_URL", "https://places.googleapis.com"),
			SerpAPIKey:     os.Getenv("SERPAPI_KEY"),
			SerpAPIBaseURL: getEnvOrDefault("SERPAPI_BASE_URL", "https://serpapi.com"),
			CacheTTL:       p.duration("PLACES_CACHE_TTL", 10*time.Minute),
		},
		JWT: JWTConfig{
			SigningKey: os.Getenv("JWT_SIGNING_KEY"),
			Issuer:     getEnvOrDefault("JWT_ISSUER", "https://api.nomad.travel"),
			Audience:   getEnvOrDefault("JWT_AUDIENCE", "nomad-api"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       p.int("REDIS_DB", 0),
		},
		Route: RouteConfig{
			OptimizerMode: strings.ToLower(getEnvOrDefault("OPTIMIZER_MODE", OptimizerRemote)),
			MaxCandidates: p.int("ROUTE_MAX_CANDIDATES", 5),
			DwellMinutes:  p.int("ROUTE_DWELL_MINUTES", 60),
			StartTime:     getEnvOrDefault("ROUTE_START_TIME", "09:00"),
		},
		CORSAllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		RequireTLS:         p.bool("REQUIRE_TLS", false),
	}

	if p.err != nil {
		return Config{}, p.err
	}
	if cfg.JWT.SigningKey == "" && !cfg.IsProduction() {
		cfg.JWT.SigningKey = DevSigningKey
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	var errs []error

	switch c.Route.OptimizerMode {
	case OptimizerRemote, OptimizerLocal:
	default:
		errs = append(errs, fmt.Errorf("%w: OPTIMIZER_MODE must be %q or %q, got %q",
			ErrInvalid, OptimizerRemote, OptimizerLocal, c.Route.OptimizerMode))
	}
	switch c.Places.Provider {
	case PlacesGoogle, PlacesSerpAPI:
	default:
		errs = append(errs, fmt.Errorf("%w: PLACES_PROVIDER must be %q or %q, got %q",
			ErrInvalid, PlacesGoogle, PlacesSerpAPI, c.Places.Provider))
	}
	if _, err := time.Parse("15:04", c.Route.StartTime); err != nil {
		errs = append(errs, fmt.Errorf("%w: ROUTE_START_TIME must be HH:MM, got %q", ErrInvalid, c.Route.StartTime))
	}
	if c.Route.MaxCandidates < 2 {
		errs = append(errs, fmt.Errorf("%w: ROUTE_MAX_CANDIDATES must be at least 2", ErrInvalid))
	}
	if c.Route.DwellMinutes <= 0 {
		errs = append(errs, fmt.Errorf("%w: ROUTE_DWELL_MINUTES must be positive", ErrInvalid))
	}
	if c.JWT.SigningKey == "" {
		errs = append(errs, fmt.Errorf("%w: JWT_SIGNING_KEY is required in production", ErrInvalid))
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("%w: OTEL_SAMPLE_RATIO must be within [0,1]", ErrInvalid))
	}

	return errors.Join(errs...)
}

// parser collects the first conversion error.
type parser struct {
	err error
}

func (p *parser) int(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return v
}

func (p *parser) float(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return v
}

func (p *parser) bool(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return v
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return v
}

func (p *parser) fail(key, raw string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s=%q: %w", ErrInvalid, key, raw, err)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
