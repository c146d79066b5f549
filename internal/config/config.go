package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"deinfluencer/internal/database"
	"deinfluencer/internal/source"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  *database.Config
	Auth      AuthConfig
	Source    SourceConfig
	Watchlist WatchlistConfig
	LogLevel  string
	Metrics   bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// AuthConfig holds bearer-token configuration
type AuthConfig struct {
	JWTSecret string
	// AdminPassword enables the /admin routes when set
	AdminPassword string
}

// SourceConfig points at the profile data the analyzer can look up by username.
// APIURL takes precedence over FixturesDir when set.
type SourceConfig struct {
	FixturesDir string
	APIURL      string
	APIKey      string
	Timeout     time.Duration
	MaxRetries  int
	RedisURL    string
	CacheTTL    time.Duration
}

// Options converts the config into source options
func (c SourceConfig) Options() source.Options {
	return source.Options{
		FixturesDir: c.FixturesDir,
		APIURL:      c.APIURL,
		APIKey:      c.APIKey,
		Timeout:     c.Timeout,
		MaxRetries:  c.MaxRetries,
		RedisURL:    c.RedisURL,
		CacheTTL:    c.CacheTTL,
	}
}

// WatchlistConfig controls the background re-scoring of watched influencers
type WatchlistConfig struct {
	RefreshInterval time.Duration
	BatchSize       int
	Concurrency     int
}

// Load reads .env when present and builds the configuration from the environment
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			GinMode:         getEnv("GIN_MODE", "debug"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: database.LoadConfig(),
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		Source: SourceConfig{
			FixturesDir: getEnv("FIXTURES_DIR", "./fixtures"),
			APIURL:      getEnv("PROFILE_API_URL", ""),
			APIKey:      getEnv("PROFILE_API_KEY", ""),
			Timeout:     getEnvAsDuration("PROFILE_API_TIMEOUT", 30*time.Second),
			MaxRetries:  getEnvAsInt("PROFILE_API_MAX_RETRIES", 3),
			RedisURL:    getEnv("REDIS_URL", ""),
			CacheTTL:    getEnvAsDuration("PROFILE_CACHE_TTL", 15*time.Minute),
		},
		Watchlist: WatchlistConfig{
			RefreshInterval: getEnvAsDuration("WATCHLIST_REFRESH_INTERVAL", 6*time.Hour),
			BatchSize:       getEnvAsInt("WATCHLIST_BATCH_SIZE", 25),
			Concurrency:     getEnvAsInt("WATCHLIST_CONCURRENCY", 4),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Metrics:  getEnvAsBool("METRICS_ENABLED", true),
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Server.GinMode == "release" && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set when GIN_MODE=release")
	}
	if c.Source.MaxRetries < 0 {
		return fmt.Errorf("PROFILE_API_MAX_RETRIES must not be negative, got %d", c.Source.MaxRetries)
	}
	if c.Watchlist.RefreshInterval <= 0 {
		return fmt.Errorf("WATCHLIST_REFRESH_INTERVAL must be positive, got %v", c.Watchlist.RefreshInterval)
	}
	if c.Watchlist.BatchSize < 1 {
		return fmt.Errorf("WATCHLIST_BATCH_SIZE must be at least 1, got %d", c.Watchlist.BatchSize)
	}
	if c.Watchlist.Concurrency < 1 {
		return fmt.Errorf("WATCHLIST_CONCURRENCY must be at least 1, got %d", c.Watchlist.Concurrency)
	}
	return nil
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
