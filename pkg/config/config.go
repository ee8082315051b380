package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// ConfigFile is the optional YAML configuration file read by Load.
const ConfigFile = "collector.yaml"

// Config holds all configuration for odyssey-collector.
// Configuration can come from a YAML file (collector.yaml) or environment
// variables. Environment variables always override YAML values for fields
// that support both. Secrets (the store password) must only come from
// environment variables.
type Config struct {
	Env     string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Collector behavior (transport limits, politeness, endpoint overrides)
	Collector CollectorConfig `yaml:"collector"`
}

// DatabaseConfig holds PostgreSQL store configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"odyssey"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"odyssey"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	MinConnections int32  `yaml:"min_connections" env:"PGMIN_CONNECTIONS" env-default:"1"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// CollectorConfig holds the knobs shared by every source run.
type CollectorConfig struct {
	// UserAgent identifies the collector to agency webmasters on every request.
	UserAgent string `yaml:"user_agent" env:"COLLECTOR_USER_AGENT" env-default:"odyssey-collector/1.0 (research; contact: admin@odysseyoutdoors.io)"`
	// RequestTimeoutSeconds bounds a single HTTP attempt, not the whole retry ladder.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" env:"COLLECTOR_REQUEST_TIMEOUT_SECONDS" env-default:"30"`
	// MaxAttempts is the total number of tries per URL, first attempt included.
	MaxAttempts int `yaml:"max_attempts" env:"COLLECTOR_MAX_ATTEMPTS" env-default:"3"`
	// PolitenessDelaySeconds is the pause between consecutive sources in a batch run.
	PolitenessDelaySeconds int `yaml:"politeness_delay_seconds" env:"COLLECTOR_POLITENESS_DELAY_SECONDS" env-default:"2"`
	// MaxBodyBytes caps how much of a response body is read (agencies serve some huge PDFs).
	MaxBodyBytes int64 `yaml:"max_body_bytes" env:"COLLECTOR_MAX_BODY_BYTES" env-default:"10485760"`
	// SourcesFile optionally overrides per-source page URLs without a rebuild.
	SourcesFile string `yaml:"sources_file" env:"COLLECTOR_SOURCES_FILE" env-default:"sources.yaml"`
}

// RequestTimeout returns the per-attempt HTTP timeout as a duration.
func (c *CollectorConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// PolitenessDelay returns the between-sources pause as a duration.
func (c *CollectorConfig) PolitenessDelay() time.Duration {
	return time.Duration(c.PolitenessDelaySeconds) * time.Second
}

// Load reads configuration from collector.yaml with environment variable
// overrides. The YAML file is optional; when absent, configuration comes
// from environment variables and defaults alone. The version parameter is
// injected at build time and set on the returned Config. Secrets
// (PGPASSWORD) must come from environment variables (yaml:"-" fields).
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat(ConfigFile); err == nil {
		if err := cleanenv.ReadConfig(ConfigFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate rejects configurations the collector cannot run with. A missing
// store credential is a startup failure, never a degraded run.
func (c *Config) validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("PGPASSWORD must be set")
	}
	if c.Collector.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.Collector.MaxAttempts)
	}
	if c.Collector.RequestTimeoutSeconds < 1 {
		return fmt.Errorf("request_timeout_seconds must be at least 1, got %d", c.Collector.RequestTimeoutSeconds)
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
