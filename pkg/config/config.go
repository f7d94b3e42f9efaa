// ABOUTME: Configuration management for the bridge with environment variable support
// ABOUTME: Defines configuration structures for server, storage, and import behavior

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Storage contains settings-storage configuration
	Storage StorageConfig

	// Import contains recipe import tuning
	Import ImportConfig

	// LogLevel controls log verbosity (debug/info/warn/error)
	LogLevel string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// RateLimit is the per-client request budget in requests per second
	RateLimit int
}

// StorageConfig holds storage backend configuration
type StorageConfig struct {
	// Type specifies the storage backend (sqlite/redis/memory)
	Type string

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// UseKeyring routes the API token through the OS keyring
	UseKeyring bool
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file location
	Path string
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// ImportConfig holds recipe import tuning
type ImportConfig struct {
	// ProbeTimeoutSeconds bounds the recipe-detection probe
	ProbeTimeoutSeconds int

	// MinContentLength is the probe's scrape-compatibility threshold
	MinContentLength int

	// SlugPollAttempts bounds the post-import slug poll
	SlugPollAttempts int
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:      getEnvOrDefault("PORT", "8712"),
			RateLimit: getEnvAsIntOrDefault("RATE_LIMIT", 20),
		},
		Storage: StorageConfig{
			Type: getEnvOrDefault("STORAGE_TYPE", "sqlite"),
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_PATH", defaultSQLitePath()),
			},
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			UseKeyring: getEnvAsBoolOrDefault("USE_KEYRING", true),
		},
		Import: ImportConfig{
			ProbeTimeoutSeconds: getEnvAsIntOrDefault("PROBE_TIMEOUT", 5),
			MinContentLength:    getEnvAsIntOrDefault("PROBE_MIN_CONTENT_LENGTH", 100),
			SlugPollAttempts:    getEnvAsIntOrDefault("SLUG_POLL_ATTEMPTS", 10),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// defaultSQLitePath places the database under the XDG data directory
func defaultSQLitePath() string {
	path, err := xdg.DataFile(filepath.Join("mealie-bridge", "bridge.db"))
	if err != nil {
		return "bridge.db"
	}
	return path
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault returns the environment variable as bool or a default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Server.RateLimit < 1 {
		return errors.New("rate limit must be at least 1 request per second")
	}

	if c.Storage.Type != "sqlite" && c.Storage.Type != "redis" && c.Storage.Type != "memory" {
		return errors.New("storage type must be 'sqlite', 'redis' or 'memory'")
	}

	if c.Storage.Type == "redis" && c.Storage.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis storage")
	}

	if c.Import.ProbeTimeoutSeconds < 1 {
		return errors.New("probe timeout must be at least 1 second")
	}

	if c.Import.MinContentLength < 0 {
		return errors.New("probe content threshold cannot be negative")
	}

	if c.Import.SlugPollAttempts < 1 {
		return errors.New("slug poll attempts must be at least 1")
	}

	return nil
}
