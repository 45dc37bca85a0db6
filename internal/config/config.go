// Package config loads project-level pgsink configuration: an optional
// pgsink.yaml next to the data, plus .env files for credentials. CLI
// flags override file values; files override environment defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConfigFileName is the project config file looked up next to the input.
const ConfigFileName = "pgsink.yaml"

// ProjectConfig mirrors the pgsink.yaml layout.
type ProjectConfig struct {
	// Connection is the PostgreSQL connection string. Usually left out
	// of the file and supplied via PGSINK_CONNECTION or DATABASE_URL.
	Connection string `yaml:"connection,omitempty"`

	Table       string `yaml:"table,omitempty"`
	Label       string `yaml:"label,omitempty"`
	Name        string `yaml:"name,omitempty"`
	BatchSize   int    `yaml:"batch_size,omitempty"`
	QueueDepth  int    `yaml:"queue_depth,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty"`
	Timeout     string `yaml:"timeout,omitempty"`
}

// Load reads the project config from dir/pgsink.yaml.
func Load(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	return &cfg, nil
}

// LoadEnv loads KEY=VALUE pairs from the given env file into the process
// environment without overriding variables that are already set. A
// missing file is not an error when path is empty (the default ".env"
// convention is best-effort).
func LoadEnv(path string) error {
	if path == "" {
		// Best-effort default.
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ConnectionFromEnv resolves the connection string from conventional
// environment variables, preferring the pgsink-specific one.
func ConnectionFromEnv() string {
	if v := os.Getenv("PGSINK_CONNECTION"); v != "" {
		return v
	}
	return os.Getenv("DATABASE_URL")
}
