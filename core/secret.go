package core

import "log/slog"

const redacted = "[REDACTED]"

// Secret holds an API key. Formatting, JSON, text and slog output all print
// [REDACTED]; Expose returns the real value.
//
//	key := NewSecret("sk-abc123")
//	fmt.Println(key)                  // [REDACTED]
//	logger.Info("client", "key", key) // key=[REDACTED]
//	req.Header.Set("Authorization", key.Bearer())
type Secret struct {
	value string
}

// NewSecret wraps value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// String implements fmt.Stringer.
func (s Secret) String() string {
	return redacted
}

// GoString implements fmt.GoStringer.
func (s Secret) GoString() string {
	return "core.Secret{" + redacted + "}"
}

// LogValue implements slog.LogValuer.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

// MarshalJSON implements json.Marshaler.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// MarshalText implements encoding.TextMarshaler, which also covers YAML.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

// Expose returns the actual secret value. Do not log the result.
func (s Secret) Expose() string {
	return s.value
}

// Bearer returns the Authorization header value for the secret.
func (s Secret) Bearer() string {
	return "Bearer " + s.value
}

// IsEmpty reports whether the secret value is empty.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}
