package app

import (
	"os"
	"strconv"
	"time"

	"github.com/harborcrest/authgate/pkg/jwtx"
)

type Config struct {
	SigningSecret string // Required: base64-encoded HS256 shared secret

	TokenTTL     time.Duration // Optional: issued token lifetime (default: 1h)
	StoreDriver  string        // Optional: backing store driver (memory, sqlite) (default: sqlite)
	DatabaseFile string        // Optional: path to SQLite database file (default: ./identity.db)

	RedisAddr     string // Optional: when set, revocations live in Redis shared across instances
	RedisPassword string // Optional: Redis AUTH password
	RedisDB       int    // Optional: Redis logical database (default: 0)

	BootstrapUsername string // Optional: seed admin username for an empty store (default: admin)
	BootstrapPassword string // Optional: seed admin password; bootstrap is skipped when empty

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	SweepInterval       time.Duration // Expired revocation sweep interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		SigningSecret: os.Getenv("AUTH_SIGNING_SECRET"),
		TokenTTL:      getEnvDurationOrDefault("AUTH_TOKEN_TTL", jwtx.DefaultTokenTTL),
		StoreDriver:   getEnvOrDefault("AUTH_STORE_DRIVER", "sqlite"),
		DatabaseFile:  getEnvOrDefault("AUTH_DATABASE_FILE", "identity.db"),

		RedisAddr:     os.Getenv("AUTH_REDIS_ADDR"),
		RedisPassword: os.Getenv("AUTH_REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("AUTH_REDIS_DB", 0),

		BootstrapUsername: getEnvOrDefault("AUTH_BOOTSTRAP_USER", "admin"),
		BootstrapPassword: os.Getenv("AUTH_BOOTSTRAP_PASSWORD"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		SweepInterval:       getEnvDurationOrDefault("SWEEP_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
