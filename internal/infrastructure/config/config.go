// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for betnorm configuration.
	DefaultConfigDir = ".betnorm"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultProfilesFile is the default profiles file name.
	DefaultProfilesFile = "profiles.yaml"
	// DefaultProfile is used when no --profile flag is given.
	DefaultProfile = "default"
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

var (
	// reNonAlphanumeric matches characters that aren't alphanumeric or underscore.
	reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9_]`)
	// reMultipleUnderscores matches consecutive underscores.
	reMultipleUnderscores = regexp.MustCompile(`_+`)
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	Storage  StorageConfig  `yaml:"storage,omitempty"`
	Resolver ResolverConfig `yaml:"resolver,omitempty"`
	Server   ServerConfig   `yaml:"server,omitempty"`
	Log      LogConfig      `yaml:"log,omitempty"`
}

// StorageConfig selects and configures the collection store.
type StorageConfig struct {
	Backend  string         `yaml:"backend,omitempty"`
	SQLite   SQLiteConfig   `yaml:"sqlite,omitempty"`
	Redis    RedisConfig    `yaml:"redis,omitempty"`
	Postgres PostgresConfig `yaml:"postgres,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite store.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	// When empty, the path is computed per profile using SQLitePathForProfile.
	Path string `yaml:"path,omitempty"`
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL    string `yaml:"url,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`
}

// PostgresConfig holds configuration for the PostgreSQL store.
type PostgresConfig struct {
	DSN string `yaml:"dsn,omitempty"`
}

// ResolverConfig controls how unresolved and ambiguous values aggregate.
type ResolverConfig struct {
	UnresolvedBucket string `yaml:"unresolved_bucket,omitempty"`
	AmbiguityPolicy  string `yaml:"ambiguity_policy,omitempty"`
}

// ServerConfig holds configuration for the review HTTP API.
type ServerConfig struct {
	Addr        string   `yaml:"addr,omitempty"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text or json
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Redis: RedisConfig{
				URL:    "redis://localhost:6379/0",
				Prefix: "betnorm",
			},
		},
		Resolver: ResolverConfig{
			UnresolvedBucket: "[Unresolved]",
			AmbiguityPolicy:  "unresolved_bucket",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from the .betnorm directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'betnorm init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("BETNORM_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("BETNORM_REDIS_URL"); v != "" {
		c.Storage.Redis.URL = v
	}
	if v := os.Getenv("BETNORM_POSTGRES_DSN"); v != "" {
		c.Storage.Postgres.DSN = v
	}
	if v := os.Getenv("BETNORM_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendRedis:
	case BackendPostgres:
		if c.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn is required for the postgres backend (or set BETNORM_POSTGRES_DSN)")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (want sqlite, redis or postgres)", c.Storage.Backend)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// ConfigDir returns the path to the .betnorm config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// ProfilesFilePath returns the path to the profiles file.
func ProfilesFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultProfilesFile)
}

// SanitizeProfileName converts a profile name to a valid storage namespace.
func SanitizeProfileName(name string) string {
	// Convert to lowercase
	name = strings.ToLower(name)

	// Replace spaces and hyphens with underscores
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")

	// Remove any characters that aren't alphanumeric or underscore
	name = reNonAlphanumeric.ReplaceAllString(name, "")

	// Remove consecutive underscores
	name = reMultipleUnderscores.ReplaceAllString(name, "_")

	// Trim leading/trailing underscores
	name = strings.Trim(name, "_")

	if name == "" {
		return DefaultProfile
	}

	return name
}

// SQLitePathForProfile returns the SQLite database path for a given profile.
func SQLitePathForProfile(basePath, profile string) string {
	return filepath.Join(ProfileDir(basePath, profile), "betnorm.db")
}

// ProfileDir returns the directory path for a given profile.
func ProfileDir(basePath, profile string) string {
	return filepath.Join(basePath, DefaultConfigDir, "profiles", SanitizeProfileName(profile))
}

// Namespace returns the key namespace a profile uses in shared stores
// (Redis prefix, Postgres namespace column).
func (c *Config) Namespace(profile string) string {
	prefix := c.Storage.Redis.Prefix
	if prefix == "" {
		prefix = "betnorm"
	}
	return prefix + ":" + SanitizeProfileName(profile)
}
