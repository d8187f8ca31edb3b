package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"BASE_URL", "NEXT_PUBLIC_BASE_URL", "STORE_BACKEND", "CATALOG_FANOUT_LIMIT", "STORE_TTL", "STORE_RETENTION", "REDIS_DB", "STRIPE_PUBLISHABLE_KEY", "NEXT_PUBLIC_STRIPE_PUBLIC_KEY", "PRINTFUL_API_URL"} {
		t.Setenv(key, "")
	}

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", config.BaseURL)
	assert.Equal(t, BackendMemory, config.Store.Backend)
	assert.Equal(t, 0, config.Printful.FanoutLimit)
	assert.Equal(t, time.Duration(0), config.Redis.TTL)
	assert.Equal(t, "https://api.printful.com", config.Printful.APIURL)
}

func TestLoadConfig_LegacyKeys(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BASE_URL", "")
	t.Setenv("NEXT_PUBLIC_BASE_URL", "https://shop.example.com")
	t.Setenv("STRIPE_PUBLISHABLE_KEY", "")
	t.Setenv("NEXT_PUBLIC_STRIPE_PUBLIC_KEY", "pk_test_123")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com", config.BaseURL)
	assert.Equal(t, "pk_test_123", config.Stripe.PublishableKey)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("CATALOG_FANOUT_LIMIT", "8")
	t.Setenv("STORE_TTL", "720h")
	t.Setenv("REDIS_DB", "2")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, config.Store.Backend)
	assert.Equal(t, 8, config.Printful.FanoutLimit)
	assert.Equal(t, 720*time.Hour, config.Redis.TTL)
	assert.Equal(t, 2, config.Redis.DB)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"STORE_BACKEND", "postgres"},
		{"CATALOG_FANOUT_LIMIT", "lots"},
		{"STORE_TTL", "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
