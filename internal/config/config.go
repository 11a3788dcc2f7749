// Package config defines server configuration and how it is loaded.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

// Session backends
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
	SessionJWT    = "jwt"
)

var (
	storageTypes    = []string{StorageMemory, StorageRedis, StorageSQLite, StoragePostgres, StorageMongo}
	sessionBackends = []string{SessionMemory, SessionRedis, SessionJWT}
	logFormats      = []string{"json", "text"}
	missingPolicies = []string{"ignore", "report"}
)

// minJWTSecret is the shortest accepted HS256 key
const minJWTSecret = 32

// Config contains process configuration.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the slog handler: json or text.
	LogFormat string `koanf:"log_format"`

	// StorageType selects the persistence backend.
	StorageType   string `koanf:"storage_type"`
	RedisURL      string `koanf:"redis_url"`
	SQLitePath    string `koanf:"sqlite_path"`
	PostgresDSN   string `koanf:"postgres_dsn"`
	MongoURI      string `koanf:"mongo_uri"`
	MongoDatabase string `koanf:"mongo_database"`

	// SessionBackend selects where sessions live: memory, redis or jwt.
	SessionBackend string        `koanf:"session_backend"`
	SessionTTL     time.Duration `koanf:"session_ttl"`
	JWTSecret      string        `koanf:"jwt_secret"`

	// AutoRegister creates an account on the first login of a new username.
	AutoRegister bool `koanf:"auto_register"`
	// MissingRecordPolicy is "ignore" or "report" (404) for update/delete
	// of a record that does not exist or belongs to someone else.
	MissingRecordPolicy string `koanf:"missing_record_policy"`

	CookieSecure   bool `koanf:"cookie_secure"`
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New creates a Config populated with defaults. Context is accepted first
// to follow the project convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		Addr:                ":8080",
		LogLevel:            "info",
		LogFormat:           "json",
		StorageType:         StorageMemory,
		RedisURL:            "redis://localhost:6379",
		SQLitePath:          "battingstats.db",
		PostgresDSN:         "postgres://localhost:5432/battingstats?sslmode=disable",
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "battingstats",
		SessionBackend:      SessionMemory,
		SessionTTL:          24 * time.Hour,
		AutoRegister:        true,
		MissingRecordPolicy: "ignore",
		CookieSecure:        false,
		MetricsEnabled:      true,
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if err := oneOf("log_format", c.LogFormat, logFormats); err != nil {
		return err
	}
	if err := oneOf("storage_type", c.StorageType, storageTypes); err != nil {
		return err
	}
	if err := oneOf("session_backend", c.SessionBackend, sessionBackends); err != nil {
		return err
	}
	if err := oneOf("missing_record_policy", c.MissingRecordPolicy, missingPolicies); err != nil {
		return err
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("%w: session_ttl must be positive", ErrInvalidConfig)
	}
	if c.SessionBackend == SessionJWT && len(c.JWTSecret) < minJWTSecret {
		return fmt.Errorf("%w: jwt_secret must be at least %d bytes when session_backend is jwt", ErrInvalidConfig, minJWTSecret)
	}
	return nil
}

// SlogLevel parses LogLevel
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return level, nil
}

func oneOf(key, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%w: %s must be one of %s, got %q", ErrInvalidConfig, key, strings.Join(allowed, ", "), value)
}
