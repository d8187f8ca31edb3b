package service

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	Environment string
	Port        string
	BaseURL     string
	DBPath      string

	Printful struct {
		APIKey      string
		StoreID     string
		APIURL      string
		FanoutLimit int
	}

	Stripe struct {
		PublishableKey string
		SecretKey      string
	}

	Store struct {
		Backend   string
		Retention time.Duration
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
		TTL      time.Duration
	}

	MerchConfigPath string
}

// LoadConfig reads configuration from the environment, loading .env first
// when present. Variables already set in the environment win.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8000"),
		BaseURL:     getEnv("BASE_URL", getEnv("NEXT_PUBLIC_BASE_URL", "http://localhost:8000")),
		DBPath:      getEnv("DB_PATH", "./db/podstore.db"),
	}

	// Printful
	config.Printful.APIKey = getEnv("PRINTFUL_API_KEY", "")
	config.Printful.StoreID = getEnv("PRINTFUL_STORE_ID", "")
	config.Printful.APIURL = getEnv("PRINTFUL_API_URL", "https://api.printful.com")

	fanout, err := getEnvInt("CATALOG_FANOUT_LIMIT", 0)
	if err != nil {
		return nil, err
	}
	config.Printful.FanoutLimit = fanout

	// Stripe
	config.Stripe.PublishableKey = getEnv("STRIPE_PUBLISHABLE_KEY", getEnv("NEXT_PUBLIC_STRIPE_PUBLIC_KEY", ""))
	config.Stripe.SecretKey = getEnv("STRIPE_SECRET_KEY", "")

	// Store
	config.Store.Backend = getEnv("STORE_BACKEND", BackendMemory)
	switch config.Store.Backend {
	case BackendMemory, BackendSQLite, BackendRedis:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: want memory, sqlite or redis", config.Store.Backend)
	}
	if config.Store.Retention, err = getEnvDuration("STORE_RETENTION", 0); err != nil {
		return nil, err
	}

	// Redis
	config.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	config.Redis.Password = getEnv("REDIS_PASSWORD", "")
	if config.Redis.DB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if config.Redis.TTL, err = getEnvDuration("STORE_TTL", 0); err != nil {
		return nil, err
	}

	config.MerchConfigPath = getEnv("MERCH_CONFIG_PATH", "./config/merchandising.yaml")

	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
