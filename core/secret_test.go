package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

const testKey = "sk-super-secret-key"

func TestSecretFormatting(t *testing.T) {
	secret := NewSecret(testKey)

	tests := []struct {
		format string
		want   string
	}{
		{"%v", "[REDACTED]"},
		{"%s", "[REDACTED]"},
		{"%+v", "[REDACTED]"},
		{"%#v", "core.Secret{[REDACTED]}"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got := fmt.Sprintf(tt.format, secret)
			if got != tt.want {
				t.Errorf("fmt.Sprintf(%q, secret) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestSecretInStructPrinting(t *testing.T) {
	cfg := struct {
		Name   string
		APIKey Secret
	}{"prod", NewSecret(testKey)}

	for _, format := range []string{"%v", "%+v", "%#v"} {
		got := fmt.Sprintf(format, cfg)
		if strings.Contains(got, testKey) {
			t.Errorf("fmt.Sprintf(%q, cfg) exposed the key: %s", format, got)
		}
	}
}

func TestSecretJSONInStruct(t *testing.T) {
	cfg := struct {
		Name   string `json:"name"`
		APIKey Secret `json:"api_key"`
	}{"prod", NewSecret(testKey)}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if want := `{"name":"prod","api_key":"[REDACTED]"}`; string(data) != want {
		t.Errorf("json.Marshal() = %s, want %s", data, want)
	}
}

func TestSecretMarshalText(t *testing.T) {
	got, err := NewSecret(testKey).MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(got) != "[REDACTED]" {
		t.Errorf("MarshalText() = %s", got)
	}
}

func TestSecretSlog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("client configured", "api_key", NewSecret(testKey))

	if strings.Contains(buf.String(), testKey) {
		t.Errorf("slog output exposed the key: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "[REDACTED]") {
		t.Errorf("slog output should contain [REDACTED]: %s", buf.String())
	}
}

func TestSecretExposeAndBearer(t *testing.T) {
	secret := NewSecret(testKey)
	if secret.Expose() != testKey {
		t.Errorf("Expose() = %q, want %q", secret.Expose(), testKey)
	}
	if secret.Bearer() != "Bearer "+testKey {
		t.Errorf("Bearer() = %q", secret.Bearer())
	}
}

func TestSecretIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"empty string", "", true},
		{"non-empty string", "sk-abc123", false},
		{"whitespace only", "  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewSecret(tt.value).IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}
