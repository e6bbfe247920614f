package places

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// CacheRecorder receives cache hit/miss observations (optional).
type CacheRecorder interface {
	RecordCacheHit(provider, operation string)
	RecordCacheMiss(provider, operation string)
}

// ServiceConfig holds configuration for the places service.
type ServiceConfig struct {
	// Provider is the place data provider.
	Provider Provider

	// Cache for search results and details (optional, defaults to a MemoryCache).
	Cache Cache

	// CacheTTL is how long to cache provider responses (default: 10 minutes).
	CacheTTL time.Duration

	// Metrics records cache hits and misses (optional).
	Metrics CacheRecorder

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service fronts a Provider with a response cache. Cache failures degrade to
// provider calls and are logged, never returned.
type Service struct {
	provider Provider
	cache    Cache
	cacheTTL time.Duration
	metrics  CacheRecorder
	logger   zerolog.Logger
}

// NewService creates a new places service.
func NewService(cfg ServiceConfig) *Service {
	cache := cfg.Cache
	if cache == nil {
		cache = NewMemoryCache(0)
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	return &Service{
		provider: cfg.Provider,
		cache:    cache,
		cacheTTL: ttl,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
}

// Search runs a text search. Results keep the provider's order.
func (s *Service) Search(ctx context.Context, query string) ([]Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &Error{
			Provider: s.provider.Name(),
			Code:     "EMPTY_QUERY",
			Message:  "search query is required",
			Err:      ErrInvalidQuery,
		}
	}

	key := "search:" + strings.ToLower(query)
	var results []Candidate
	if s.lookup(ctx, "search", key, &results) {
		return results, nil
	}

	results, err := s.provider.SearchText(ctx, query)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []Candidate{}
	}

	s.store(ctx, key, results)
	s.logger.Debug().
		Str("query", query).
		Int("result_count", len(results)).
		Msg("place search completed")
	return results, nil
}

// Details returns a place with its reviews.
func (s *Service) Details(ctx context.Context, placeID string) (*Details, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, &Error{
			Provider: s.provider.Name(),
			Code:     "EMPTY_PLACE_ID",
			Message:  "place id is required",
			Err:      ErrInvalidQuery,
		}
	}

	key := "details:" + placeID
	var details Details
	if s.lookup(ctx, "details", key, &details) {
		return &details, nil
	}

	d, err := s.provider.PlaceDetails(ctx, placeID)
	if err != nil {
		return nil, err
	}

	s.store(ctx, key, d)
	return d, nil
}

func (s *Service) lookup(ctx context.Context, operation, key string, dst any) bool {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("cache_key", key).Msg("place cache read failed")
	}
	if ok && err == nil {
		if err := json.Unmarshal(raw, dst); err == nil {
			s.recordHit(operation)
			s.logger.Debug().Str("cache_key", key).Msg("place cache hit")
			return true
		}
		s.logger.Warn().Str("cache_key", key).Msg("discarding undecodable place cache entry")
	}
	s.recordMiss(operation)
	return false
}

func (s *Service) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn().Err(err).Str("cache_key", key).Msg("encoding place cache entry")
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("cache_key", key).Msg("place cache write failed")
	}
}

func (s *Service) recordHit(operation string) {
	if s.metrics != nil {
		s.metrics.RecordCacheHit(s.provider.Name(), operation)
	}
}

func (s *Service) recordMiss(operation string) {
	if s.metrics != nil {
		s.metrics.RecordCacheMiss(s.provider.Name(), operation)
	}
}
