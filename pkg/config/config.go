package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type AppConfig struct {
	DBDriver       string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string
	DBLogQueries   bool

	CacheDriver string
	RedisURL    string
	CacheTTL    time.Duration

	TelemetryEnabled bool
	OTLPEndpoint     string
	MetricsPort      string

	Environment string
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		DBDriver:         DriverSQLite,
		DatabasePath:     "authors.db",
		DBLogQueries:     false,
		CacheDriver:      CacheMemory,
		RedisURL:         "redis://localhost:6379/0",
		CacheTTL:         5 * time.Minute,
		TelemetryEnabled: false,
		OTLPEndpoint:     "localhost:4317",
		MetricsPort:      "9091",
		Environment:      "development",
	}
}

// Load reads envFile when it exists and overlays the environment on the
// defaults. A missing file is not an error.
func Load(envFile string) (*AppConfig, error) {
	if envFile == "" {
		envFile = ".env"
	}

	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	return FromEnv(GetDefaultConfig())
}

// FromEnv overrides every field of base that has an environment variable set.
func FromEnv(base *AppConfig) (*AppConfig, error) {
	cfg := *base
	var err error

	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DatabasePath = getEnv("DATABASE_PATH", cfg.DatabasePath)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.MigrationsPath = getEnv("MIGRATIONS_PATH", cfg.MigrationsPath)
	cfg.CacheDriver = getEnv("CACHE_DRIVER", cfg.CacheDriver)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.OTLPEndpoint = getEnv("OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.MetricsPort = getEnv("METRICS_PORT", cfg.MetricsPort)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)

	if cfg.DBLogQueries, err = getBool("DB_LOG_QUERIES", cfg.DBLogQueries); err != nil {
		return nil, err
	}

	if cfg.TelemetryEnabled, err = getBool("TELEMETRY_ENABLED", cfg.TelemetryEnabled); err != nil {
		return nil, err
	}

	if raw, ok := os.LookupEnv("CACHE_TTL"); ok {
		if cfg.CacheTTL, err = time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("CACHE_TTL: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}

	switch c.CacheDriver {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.CacheDriver)
	}

	return nil
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	raw, ok := os.LookupEnv(key)

	if !ok {
		return fallback, nil
	}

	value, err := strconv.ParseBool(raw)

	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}

	return value, nil
}
