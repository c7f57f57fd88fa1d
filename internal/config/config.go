// internal/config/config.go
package config

import (
	"os"
	"time"

	"ezwallet-service/internal/pkg/token"
)

type AppConfig struct {
	// Server
	HTTPAddr  string
	RedisAddr string
	RedisPass string

	// Cookies
	CookieDomain string

	// Tokens
	Token token.Config

	// Storage
	DatabaseURL string
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr:  getEnv("HTTP_ADDR", ":3000"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASS", ""),

		CookieDomain: getEnv("COOKIE_DOMAIN", "localhost"),

		Token: token.Config{
			Secret:     os.Getenv("ACCESS_KEY"),
			AccessTTL:  time.Hour,
			RefreshTTL: 7 * 24 * time.Hour,
		},

		DatabaseURL: getEnv("DATABASE_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
