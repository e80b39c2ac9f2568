package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Wishlist storage backends
const (
	BackendDatabase = "database"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	// HTTP Configuration
	HTTP HTTPConfig

	// Database Configuration
	Database DatabaseConfig

	// Redis Configuration
	Redis RedisConfig

	// Auth Configuration
	Auth AuthConfig

	// Wishlist Configuration
	Wishlist WishlistConfig

	// Content Configuration
	Content ContentConfig

	// Stats Configuration
	Stats StatsConfig

	// Logging Configuration
	Logging LoggingConfig
}

// HTTPConfig holds the HTTP listener configuration
type HTTPConfig struct {
	Addr        string
	CORSOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// IsPostgres reports whether URL points at a PostgreSQL server
func (d DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(d.URL, "postgres://") || strings.HasPrefix(d.URL, "postgresql://")
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Address string // Redis address (host:port)
}

// AuthConfig holds session configuration
type AuthConfig struct {
	CookieName string
	SessionTTL time.Duration
	// GatedPublicPaths are public prefixes that still require a login
	GatedPublicPaths []string
}

// WishlistConfig selects where wishlists are persisted
type WishlistConfig struct {
	Backend string // database, redis, memory
}

// ContentConfig holds content seeding configuration
type ContentConfig struct {
	SeedFile string
}

// StatsConfig holds the dashboard roll-up schedule
type StatsConfig struct {
	Schedule string // Cron expression
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	backend := strings.ToLower(getEnv("WISHLIST_BACKEND", BackendDatabase))
	switch backend {
	case BackendDatabase, BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("invalid WISHLIST_BACKEND %q", backend)
	}

	schedule := getEnv("STATS_SCHEDULE", "*/15 * * * *")
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid STATS_SCHEDULE: %w", err)
	}

	return &Config{
		HTTP: HTTPConfig{
			Addr:        getEnv("HTTP_ADDR", ":8080"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		},
		Database: DatabaseConfig{
			// Default to a local SQLite file, allow a postgres DSN in production
			URL: getEnv("DATABASE_URL", "wanderlust.sqlite"),
		},
		Redis: RedisConfig{
			Address: getEnv("REDIS_ADDRESS", "localhost:6379"),
		},
		Auth: AuthConfig{
			CookieName:       getEnv("SESSION_COOKIE", "wanderlust_session"),
			SessionTTL:       sessionTTL,
			GatedPublicPaths: splitList(os.Getenv("GATED_PUBLIC_PATHS")),
		},
		Wishlist: WishlistConfig{
			Backend: backend,
		},
		Content: ContentConfig{
			SeedFile: os.Getenv("CONTENT_SEED_FILE"),
		},
		Stats: StatsConfig{
			Schedule: schedule,
		},
		Logging: LoggingConfig{
			// Defaults suitable for production
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
