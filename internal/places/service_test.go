package places_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomadtravel/nomad/internal/places"
)

type mockProvider struct {
	mu           sync.Mutex
	searchCalls  int
	detailsCalls int
	results      []places.Candidate
	details      *places.Details
	err          error
}

func (m *mockProvider) SearchText(_ context.Context, _ string) ([]places.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls++
	return m.results, m.err
}

func (m *mockProvider) PlaceDetails(_ context.Context, _ string) (*places.Details, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detailsCalls++
	return m.details, m.err
}

func (m *mockProvider) Name() string { return "mock" }

type countingRecorder struct {
	hits, misses int
}

func (r *countingRecorder) RecordCacheHit(string, string)  { r.hits++ }
func (r *countingRecorder) RecordCacheMiss(string, string) { r.misses++ }

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection reset")
}

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection reset")
}

func TestService_SearchCachesByNormalizedQuery(t *testing.T) {
	provider := &mockProvider{results: []places.Candidate{routable("a", 1, 1), routable("b", 2, 2)}}
	rec := &countingRecorder{}
	svc := places.NewService(places.ServiceConfig{
		Provider: provider,
		Metrics:  rec,
		Logger:   zerolog.Nop(),
	})

	first, err := svc.Search(context.Background(), "Tacos ")
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), "tacos")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.searchCalls)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 1, rec.misses)
}

func TestService_SearchRejectsBlankQuery(t *testing.T) {
	provider := &mockProvider{}
	svc := places.NewService(places.ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	_, err := svc.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, places.ErrInvalidQuery)
	assert.Zero(t, provider.searchCalls)
}

func TestService_SearchErrorNotCached(t *testing.T) {
	provider := &mockProvider{err: &places.Error{Message: "down", Err: places.ErrProviderUnavailable}}
	svc := places.NewService(places.ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	_, err := svc.Search(context.Background(), "museum")
	require.ErrorIs(t, err, places.ErrProviderUnavailable)

	provider.err = nil
	provider.results = []places.Candidate{routable("m", 1, 1)}

	results, err := svc.Search(context.Background(), "museum")
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 2, provider.searchCalls)
}

func TestService_DetailsRoundTripsThroughCache(t *testing.T) {
	author := "Dana"
	provider := &mockProvider{details: &places.Details{
		Candidate: routable("p1", 34.1, -118.3),
		Reviews:   []places.Review{{Author: &author, Rating: f64(5), Text: "Great"}},
	}}
	svc := places.NewService(places.ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	first, err := svc.Details(context.Background(), "p1")
	require.NoError(t, err)
	cached, err := svc.Details(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.detailsCalls)
	assert.Equal(t, first, cached)
	require.NotNil(t, cached.Lat)
	assert.InDelta(t, 34.1, *cached.Lat, 1e-9)
}

func TestService_CacheFailuresFallBackToProvider(t *testing.T) {
	provider := &mockProvider{results: []places.Candidate{routable("a", 1, 1)}}
	svc := places.NewService(places.ServiceConfig{
		Provider: provider,
		Cache:    brokenCache{},
		Logger:   zerolog.Nop(),
	})

	for i := 0; i < 2; i++ {
		results, err := svc.Search(context.Background(), "a")
		require.NoError(t, err)
		assert.Len(t, results, 1)
	}
	assert.Equal(t, 2, provider.searchCalls)
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := places.NewMemoryCache(time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, cache.Set(ctx, "gone", []byte("x"), -time.Second))

	got, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	_, ok, err = cache.Get(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, _ = cache.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestMemoryCache_CleanupRemovesExpired(t *testing.T) {
	cache := places.NewMemoryCache(time.Nanosecond)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "old", []byte("x"), -time.Second))
	time.Sleep(time.Millisecond)
	require.NoError(t, cache.Set(ctx, "new", []byte("y"), time.Hour))

	assert.Equal(t, 1, cache.Len())
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	cache := places.NewMemoryCache(0)
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, cache.Set(ctx, "k", value, time.Hour))
	value[0] = 'z'

	got, _, _ := cache.Get(ctx, "k")
	got[1] = 'z'

	again, _, _ := cache.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}
