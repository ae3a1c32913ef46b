package app

import (
	"os"
	"strconv"
	"time"

	"github.com/harborcrest/authgate/pkg/authsdk"
)

type Config struct {
	Routes string // Required: JSON route table, see gateway http.ParseRoutes

	SigningSecret  string        // Optional: base64 HS256 secret, required by local-mode routes
	AuthServiceURL string        // Optional: identity service base URL, required by remote-mode routes
	AuthTimeout    time.Duration // Optional: remote verification timeout (default: 5s)

	RedisAddr     string // Optional: when set, local-mode routes also check the shared revocation list
	RedisPassword string // Optional: Redis AUTH password
	RedisDB       int    // Optional: Redis logical database (default: 0)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8081)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Routes: os.Getenv("GATEWAY_ROUTES"),

		SigningSecret:  os.Getenv("AUTH_SIGNING_SECRET"),
		AuthServiceURL: os.Getenv("AUTH_SERVICE_URL"),
		AuthTimeout:    getEnvDurationOrDefault("AUTH_TIMEOUT", authsdk.DefaultTimeout),

		RedisAddr:     os.Getenv("AUTH_REDIS_ADDR"),
		RedisPassword: os.Getenv("AUTH_REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("AUTH_REDIS_DB", 0),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8081),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
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
