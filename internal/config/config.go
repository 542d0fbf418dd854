// Package config loads process-wide configuration from the environment.
// Values are read once at startup and passed explicitly to the components
// that need them; nothing re-reads the environment at request time.
package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Env var names understood by Load.
const (
	EnvAddr          = "ADDR"
	EnvDatabaseURL   = "DATABASE_URL"
	EnvSQLitePath    = "SQLITE_PATH"
	EnvJWTSecret     = "JWT_SECRET"
	EnvTokenTTL      = "TOKEN_TTL"
	EnvRedisHost     = "REDIS_HOST"
	EnvRedisPort     = "REDIS_PORT"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRunMigrations = "RUN_MIGRATIONS"
)

// DefaultTokenTTL is the bearer token lifetime used when TOKEN_TTL is unset.
const DefaultTokenTTL = 24 * time.Hour

// Config holds runtime settings for the TimeCheck server.
//
// Fields:
//   - Addr: listen address for the HTTP server.
//   - DatabaseURL: PostgreSQL DSN; when empty the server falls back to a
//     local SQLite file at SQLitePath.
//   - JWTSecret: HMAC secret for signing bearer tokens (HS256).
//   - TokenTTL: fixed validity window for issued tokens.
//   - RedisHost/RedisPort/RedisPassword: optional cache backend.
//   - RunMigrations: run schema auto-migration on startup.
type Config struct {
	Addr          string
	DatabaseURL   string
	SQLitePath    string
	JWTSecret     string
	TokenTTL      time.Duration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RunMigrations bool
}

// Load builds a Config from the environment, applying defaults for unset
// values. A .env file in the working directory is honored when present.
func Load() *Config {
	// .envを読み込む（なければシステム環境変数をそのまま使用）
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	return &Config{
		Addr:          getEnv(EnvAddr, ":8080"),
		DatabaseURL:   os.Getenv(EnvDatabaseURL),
		SQLitePath:    getEnv(EnvSQLitePath, "./timecheck.db"),
		JWTSecret:     os.Getenv(EnvJWTSecret),
		TokenTTL:      getDuration(EnvTokenTTL, DefaultTokenTTL),
		RedisHost:     os.Getenv(EnvRedisHost),
		RedisPort:     getEnv(EnvRedisPort, "6379"),
		RedisPassword: os.Getenv(EnvRedisPassword),
		RunMigrations: os.Getenv(EnvRunMigrations) == "true",
	}
}

// RedisEnabled reports whether a cache backend has been configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
