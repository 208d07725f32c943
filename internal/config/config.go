// Package config provides the fortiaudit configuration file, matching the
// schema of fortiaudit.yaml.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for a config file when none is given.
const DefaultPath = "fortiaudit.yaml"

// Config represents the full fortiaudit configuration file.
type Config struct {
	Dialect   string          `yaml:"dialect"`
	OutputDir string          `yaml:"output_dir"`
	Formats   []string        `yaml:"formats"`
	History   HistoryConfig   `yaml:"history"`
	Dashboard DashboardConfig `yaml:"dashboard"`

	// Transient flags (not persisted to YAML)
	NoHistory bool `yaml:"-"`
}

// HistoryConfig selects the audit history database.
type HistoryConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "postgres"
	DSN    string `yaml:"dsn"`
}

// DashboardConfig holds HTTP API settings.
type DashboardConfig struct {
	Listen         string `yaml:"listen"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// NewDefaultConfig returns a Config populated with safe defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Dialect:   "switch",
		OutputDir: "reports",
		Formats:   []string{"html", "json"},
		History: HistoryConfig{
			Driver: "sqlite",
			DSN:    "fortiaudit.db",
		},
		Dashboard: DashboardConfig{
			Listen:         "127.0.0.1:8080",
			MaxUploadBytes: 4 << 20,
		},
	}
}

// ReadConfig loads a config file. Fields the file leaves out keep their
// defaults.
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault reads path, falling back to defaults when path is the
// default location and no file exists there. An explicitly named file must
// exist.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg, err := ReadConfig(path)
	if err != nil {
		if path == DefaultPath && errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// WriteConfig serializes cfg as YAML to path.
func WriteConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks every field and joins all problems into one error.
func (c *Config) Validate() error {
	var errs []error
	if err := ValidateDialect(c.Dialect); err != nil {
		errs = append(errs, fmt.Errorf("dialect: %w", err))
	}
	for _, f := range c.Formats {
		if err := ValidateFormat(f); err != nil {
			errs = append(errs, fmt.Errorf("formats: %w", err))
		}
	}
	if err := ValidateDriver(c.History.Driver); err != nil {
		errs = append(errs, fmt.Errorf("history.driver: %w", err))
	}
	if err := ValidateNonEmpty(c.History.DSN); err != nil {
		errs = append(errs, fmt.Errorf("history.dsn: %w", err))
	}
	if err := ValidateHostPort(c.Dashboard.Listen); err != nil {
		errs = append(errs, fmt.Errorf("dashboard.listen: %w", err))
	}
	if c.Dashboard.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("dashboard.max_upload_bytes: must be positive"))
	}
	return errors.Join(errs...)
}
