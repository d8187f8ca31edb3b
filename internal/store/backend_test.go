package store_test

import (
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/loganlanou/podstore/internal/store"
	"github.com/loganlanou/podstore/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend(t *testing.T) {
	storetest.RunBackendTests(t, store.NewMemoryBackend())
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)

	backend := store.NewRedisBackend(store.RedisOptions{Addr: mr.Addr()})
	t.Cleanup(func() { _ = backend.Close() })
	require.NoError(t, backend.Ping(t.Context()))

	storetest.RunBackendTests(t, backend)
}

func TestRedisBackend_ValuesExpireAfterTTL(t *testing.T) {
	mr := miniredis.RunT(t)

	backend := store.NewRedisBackend(store.RedisOptions{Addr: mr.Addr(), TTL: time.Hour})
	t.Cleanup(func() { _ = backend.Close() })

	ctx := t.Context()
	require.NoError(t, backend.Set(ctx, "sess-1", store.CartKey, []byte(`[]`)))

	mr.FastForward(59 * time.Minute)
	_, err := backend.Get(ctx, "sess-1", store.CartKey)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = backend.Get(ctx, "sess-1", store.CartKey)
	assert.ErrorIs(t, err, store.ErrNoValue)
}

func TestRedisBackend_UnreachableServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	backend := store.NewRedisBackend(store.RedisOptions{Addr: addr})
	t.Cleanup(func() { _ = backend.Close() })

	assert.Error(t, backend.Ping(t.Context()))
	_, err := backend.Get(t.Context(), "sess-1", store.CartKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNoValue)
}

// TestRedisBackend_LiveServer runs the same suite against a real server.
// Usage:
//
//	REDIS_TEST_ADDR=localhost:6379 go test ./internal/store -run TestRedisBackend_LiveServer
func TestRedisBackend_LiveServer(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("Skipping live Redis test. Set REDIS_TEST_ADDR to enable.")
	}

	backend := store.NewRedisBackend(store.RedisOptions{Addr: addr, DB: 15})
	t.Cleanup(func() { _ = backend.Close() })
	require.NoError(t, backend.Ping(t.Context()), "redis not reachable at %s", addr)

	storetest.RunBackendTests(t, backend)
}
