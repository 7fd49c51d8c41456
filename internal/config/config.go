package config

import (
	"os"
	"strconv"
	"time"
)

type AppConfig struct {
	// Server
	HTTPAddr  string
	RedisAddr string
	RedisPass string

	// Auth
	JWTSecret         string
	StorefrontKeyHash string

	// Analytics
	SnapshotTTL time.Duration

	// Expiry sweep
	SweepInterval time.Duration
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8000"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASS", ""),

		JWTSecret:         getEnv("JWT_SECRET", "dev-secret-change-me"),
		StorefrontKeyHash: getEnv("STOREFRONT_API_KEY_HASH", ""),

		SnapshotTTL:   getEnvDuration("SNAPSHOT_TTL", 30*time.Second),
		SweepInterval: getEnvDuration("SWEEP_INTERVAL", 1*time.Minute),
	}
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
