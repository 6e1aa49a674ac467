// Package config loads the synapsai CLI configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration.
type Config struct {
	BaseURL        string            `yaml:"base_url,omitempty"`
	DefaultModel   string            `yaml:"default_model,omitempty"`
	EmbeddingModel string            `yaml:"embedding_model,omitempty"`
	MaxRetries     int               `yaml:"max_retries,omitempty"`
	Timeout        string            `yaml:"timeout,omitempty"` // Go duration, e.g. "90s"
	APIKeyRef      string            `yaml:"api_key_ref,omitempty"`
	Headers        map[string]string `yaml:"headers,omitempty"`
}

// DefaultKeyName is the keystore entry used when api_key_ref is not set.
const DefaultKeyName = "default"

// DefaultConfigPath returns the default configuration file path for the current platform.
// - macOS/Linux: ~/.synapsai/config.yaml
// - Windows: %USERPROFILE%\.synapsai\config.yaml
func DefaultConfigPath() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		return "config.yaml"
	}

	return filepath.Join(homeDir, ".synapsai", "config.yaml")
}

// LoadConfig loads configuration from the specified path.
// A missing file yields an empty config. Unreadable or invalid files are errors.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses Timeout. An empty value returns 0.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return d, nil
}

// KeyName returns the keystore entry holding the API key.
func (c *Config) KeyName() string {
	if c.APIKeyRef != "" {
		return c.APIKeyRef
	}
	return DefaultKeyName
}
