package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AuthIssuer    string // Required: expected issuer of identity provider tokens
	AuthJWTSecret string // Required: shared HMAC secret for verifying bearer tokens

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./rfihub.db)
	ClientLinkTTL        time.Duration // Optional: lifetime of minted client links (default: 14 days)
	NotifyQueueSize      int           // Optional: capacity of the notification queue (default: 256)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired token sweep interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		AuthIssuer:           os.Getenv("RFI_AUTH_ISSUER"),
		AuthJWTSecret:        os.Getenv("RFI_AUTH_JWT_SECRET"),
		DatabaseFile:         getEnvOrDefault("RFI_DATABASE_FILE", "rfihub.db"),
		ClientLinkTTL:        getEnvDurationOrDefault("RFI_CLIENT_LINK_TTL", 14*24*time.Hour),
		NotifyQueueSize:      getEnvIntOrDefault("RFI_NOTIFY_QUEUE_SIZE", 256),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
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
