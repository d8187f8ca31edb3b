package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/loganlanou/podstore/internal/jobs"
	"github.com/loganlanou/podstore/internal/store"
	"github.com/loganlanou/podstore/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_Memory(t *testing.T) {
	config := &service.Config{}
	config.Store.Backend = service.BackendMemory

	opened, err := openStore(context.Background(), config)
	require.NoError(t, err)
	defer opened.Close()

	assert.IsType(t, &store.MemoryBackend{}, opened.Backend)
	_, prunes := opened.Backend.(jobs.Pruner)
	assert.False(t, prunes)
}

func TestOpenStore_SQLite(t *testing.T) {
	config := &service.Config{DBPath: filepath.Join(t.TempDir(), "data", "store.db")}
	config.Store.Backend = service.BackendSQLite

	opened, err := openStore(context.Background(), config)
	require.NoError(t, err)
	defer opened.Close()

	_, prunes := opened.Backend.(jobs.Pruner)
	assert.True(t, prunes)

	ctx := context.Background()
	require.NoError(t, opened.Set(ctx, "s1", store.CartKey, []byte(`[]`)))
	raw, err := opened.Get(ctx, "s1", store.CartKey)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(raw))
}

func TestOpenStore_RedisUnreachable(t *testing.T) {
	config := &service.Config{}
	config.Store.Backend = service.BackendRedis
	config.Redis.Addr = "127.0.0.1:1"

	_, err := openStore(context.Background(), config)
	assert.Error(t, err)
}
