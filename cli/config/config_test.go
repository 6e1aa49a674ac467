package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if filepath.Base(path) != "config.yaml" {
		t.Errorf("DefaultConfigPath() = %q, should end with config.yaml", path)
	}
	if home := os.Getenv("HOME"); home != "" && filepath.Base(filepath.Dir(path)) != ".synapsai" {
		t.Errorf("DefaultConfigPath() = %q, should be in .synapsai directory", path)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil for missing file", err)
	}
	if cfg.BaseURL != "" || cfg.DefaultModel != "" {
		t.Errorf("cfg = %+v, want empty", cfg)
	}
	if cfg.KeyName() != DefaultKeyName {
		t.Errorf("KeyName() = %q, want %q", cfg.KeyName(), DefaultKeyName)
	}
}

func TestLoadConfigValid(t *testing.T) {
	content := `
base_url: https://staging.synapsai.cloud/v1
default_model: llama-3.1-8b-instruct
embedding_model: bge-small
max_retries: 5
timeout: 90s
api_key_ref: staging
headers:
  X-Team: ml
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.BaseURL != "https://staging.synapsai.cloud/v1" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.DefaultModel != "llama-3.1-8b-instruct" || cfg.EmbeddingModel != "bge-small" {
		t.Errorf("models = %q, %q", cfg.DefaultModel, cfg.EmbeddingModel)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if d, _ := cfg.TimeoutDuration(); d != 90*time.Second {
		t.Errorf("TimeoutDuration() = %v, want 90s", d)
	}
	if cfg.KeyName() != "staging" {
		t.Errorf("KeyName() = %q, want staging", cfg.KeyName())
	}
	if cfg.Headers["X-Team"] != "ml" {
		t.Errorf("Headers = %v", cfg.Headers)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "base_url: [unclosed", "parse"},
		{"bad timeout", "timeout: soon", "invalid timeout"},
		{"negative timeout", "timeout: -5s", "must not be negative"},
		{"negative retries", "max_retries: -1", "max_retries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("LoadConfig() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
