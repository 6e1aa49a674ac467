package core

import (
	"math"
	"math/rand/v2"
	"time"
)

// RetryPolicy decides whether a failed attempt is retried and how long to wait first.
type RetryPolicy interface {
	// NextDelay returns the wait before the next attempt and whether to retry at all.
	// attempt is the 0-based index of the attempt that produced o.
	// The attempt budget is enforced by the caller, not the policy.
	NextDelay(attempt int, o Outcome) (delay time.Duration, ok bool)
}

// RetryConfig configures exponential backoff with additive jitter.
type RetryConfig struct {
	BaseDelay time.Duration // Delay for attempt 0 before jitter (default: 500ms)
	MaxJitter time.Duration // Upper bound of the uniform jitter (default: 500ms)
	MaxDelay  time.Duration // Cap applied after jitter (default: 30s)

	// Rand returns a value in [0, 1). Defaults to math/rand/v2.Float64.
	Rand func() float64
}

// Default backoff parameters.
const (
	DefaultBaseDelay = 500 * time.Millisecond
	DefaultMaxJitter = 500 * time.Millisecond
	DefaultMaxDelay  = 30 * time.Second
)

// DefaultRetryPolicy retries transport failures, 429 and 5xx with
// min(0.5s*2^attempt + U[0, 0.5s), 30s) between attempts.
func DefaultRetryPolicy() RetryPolicy {
	return NewRetryPolicy(RetryConfig{})
}

// NewRetryPolicy creates a retry policy with the given configuration.
// Zero fields take their defaults.
func NewRetryPolicy(cfg RetryConfig) RetryPolicy {
	return &ExponentialBackoff{cfg: normalizeRetryConfig(cfg)}
}

func normalizeRetryConfig(cfg RetryConfig) RetryConfig {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}
	if cfg.MaxJitter < 0 {
		cfg.MaxJitter = 0
	} else if cfg.MaxJitter == 0 {
		cfg.MaxJitter = DefaultMaxJitter
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultMaxDelay
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.Float64
	}
	return cfg
}

// ExponentialBackoff is the default RetryPolicy. The zero value uses the
// default parameters.
type ExponentialBackoff struct {
	cfg RetryConfig
}

// NextDelay implements RetryPolicy.
func (e *ExponentialBackoff) NextDelay(attempt int, o Outcome) (time.Duration, bool) {
	if !ShouldRetry(o) {
		return 0, false
	}
	return e.Delay(attempt), true
}

// Delay returns the wait after the given 0-based attempt.
// The result is never negative and saturates at MaxDelay for large attempts.
func (e *ExponentialBackoff) Delay(attempt int) time.Duration {
	cfg := e.cfg
	if cfg.Rand == nil {
		cfg = normalizeRetryConfig(cfg)
	}
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(cfg.BaseDelay) * math.Pow(2, float64(attempt))

	r := cfg.Rand()
	if r < 0 || r >= 1 || math.IsNaN(r) {
		r = 0
	}
	delay += r * float64(cfg.MaxJitter)

	// Compare before converting: float64 -> Duration overflows past ~292 years.
	if math.IsInf(delay, 0) || delay > float64(cfg.MaxDelay) {
		return cfg.MaxDelay
	}
	if delay < 0 {
		return 0
	}
	return time.Duration(delay)
}

// ShouldRetry is the retry classifier.
//
// Transport failures, 429 and 5xx responses are retryable. Successes, other
// error statuses and non-network errors are not.
func ShouldRetry(o Outcome) bool {
	switch o.Kind {
	case OutcomeTransportFailure:
		return true
	case OutcomeHTTPFailure:
		return isRetryableStatus(o.Status)
	default:
		return false
	}
}

func isRetryableStatus(status int) bool {
	// Rate limited
	if status == 429 {
		return true
	}
	// Server errors (5xx)
	return status >= 500 && status < 600
}
