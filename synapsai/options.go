package synapsai

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/synapsai-cloud/synapsai-go/core"
)

// Environment variables consulted when the corresponding option is not set.
const (
	APIKeyEnvVar  = "SYNAPSAI_API_KEY"
	BaseURLEnvVar = "SYNAPSAI_API_BASE"
)

// Defaults.
const (
	DefaultBaseURL    = "https://api.synapsai.cloud/v1"
	DefaultTimeout    = 300 * time.Second
	DefaultMaxRetries = 3
)

// Version is reported in the User-Agent header.
const Version = "0.3.0"

// Config holds the client configuration. It is fixed once New returns.
type Config struct {
	// APIKey authenticates every request.
	APIKey core.Secret

	// BaseURL is the API root. Defaults to SYNAPSAI_API_BASE, then DefaultBaseURL.
	BaseURL string

	// Timeout bounds each attempt, not the whole retry loop. For streams it
	// bounds opening the stream only.
	Timeout time.Duration

	// MaxRetries is the maximum number of attempts per call, including the first. Minimum 1.
	MaxRetries int

	// Headers are merged over the defaults; caller values win.
	Headers http.Header

	// HTTPClient is the transport. Defaults to a client owned by this Client.
	HTTPClient *http.Client

	// Logger receives debug and warning messages. Defaults to discarding them.
	Logger *slog.Logger

	// Telemetry receives request lifecycle events.
	Telemetry core.TelemetryHook

	// RetryPolicy classifies failed attempts and computes backoff.
	RetryPolicy core.RetryPolicy
}

// Option configures the client.
type Option func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithMaxRetries sets the maximum number of attempts per call. Values below 1 become 1.
func WithMaxRetries(n int) Option {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

// WithHeader adds an extra header to every request.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Set(key, value)
	}
}

// WithHTTPClient sets a custom HTTP client. The caller keeps ownership:
// Client.Close does not close its idle connections.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithTelemetry sets the telemetry hook.
func WithTelemetry(h core.TelemetryHook) Option {
	return func(c *Config) {
		c.Telemetry = h
	}
}

// WithRetryPolicy replaces the default retry policy.
func WithRetryPolicy(p core.RetryPolicy) Option {
	return func(c *Config) {
		c.RetryPolicy = p
	}
}
