package places_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomadtravel/nomad/internal/places"
)

// Runs against a live Redis when REDIS_ADDR is set.
func TestRedisCache_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	cache := places.NewRedisCache(client, "nomad:test:"+uuid.NewString()+":")
	require.NoError(t, cache.Ping(ctx))

	_, ok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok, "redis.Nil is a miss")

	require.NoError(t, cache.Set(ctx, "details:p1", []byte(`{"id":"p1"}`), time.Minute))
	got, ok, err := cache.Get(ctx, "details:p1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"id":"p1"}`, string(got))
}
