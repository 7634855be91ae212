// Package config provides configuration management for the dashboard API.
package config

import (
	"cyberdash/internal/charts"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DatasetEnv overrides Dataset.Path when set.
const DatasetEnv = "CYBERDASH_DATASET"

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Logging   LoggingConfig   `yaml:"logging"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Charts    charts.Theme    `yaml:"charts"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	RateLimit       float64       `yaml:"rate_limit"` // requests/s per client, 0 disables
}

// DatasetConfig points at the incident CSV.
type DatasetConfig struct {
	Path    string `yaml:"path"`
	Preload bool   `yaml:"preload"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DashboardConfig holds default ranking sizes.
type DashboardConfig struct {
	TopIncidents int `yaml:"top_incidents"`
	TopCountries int `yaml:"top_countries"`
}

// Load reads configuration from a YAML file on top of DefaultConfig. A
// missing file is not an error. The dataset env override is applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if p := os.Getenv(DatasetEnv); p != "" {
		cfg.Dataset.Path = p
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"http://localhost:3000"},
			RateLimit:       20,
		},
		Dataset: DatasetConfig{
			Path:    "data/dataset_final.csv",
			Preload: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Dashboard: DashboardConfig{
			TopIncidents: 5,
			TopCountries: 10,
		},
		Charts: charts.DefaultTheme(),
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Dataset.Path == "" {
		return errors.New("dataset path is empty")
	}
	if c.Dashboard.TopIncidents < 0 || c.Dashboard.TopCountries < 0 {
		return errors.New("dashboard top-N defaults must be >= 0")
	}
	if c.Server.RateLimit < 0 {
		return errors.New("rate limit must be >= 0")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
