package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from environment variables, loading a
// local .env file first when one exists (development convenience).
//
// Recognized variables:
//
//	ADDRESS               HTTP bind address (e.g., ":8080")
//	DATABASE_DSN          PostgreSQL DSN
//	JWT_SECRET            base64-encoded signing secret
//	JWT_TTL_MS            token time-to-live, milliseconds
//	BCRYPT_COST           bcrypt work factor
//	CORS_ALLOWED_ORIGINS  comma-separated origins
func parseEnv(config *Config) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.JWTSecret = v
	}
	if v := os.Getenv("JWT_TTL_MS"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms > 0 {
			config.TokenTTL = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if cost, err := strconv.Atoi(v); err == nil && cost > 0 {
			config.BcryptCost = cost
		}
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		config.CORSAllowedOrigins = v
	}
}
