package core

import (
	"errors"
	"math"
	"testing"
	"time"
)

func fixedRand(v float64) func() float64 {
	return func() float64 { return v }
}

func TestDefaultRetryPolicy(t *testing.T) {
	policy := DefaultRetryPolicy()
	if policy == nil {
		t.Fatal("DefaultRetryPolicy() returned nil")
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		want    bool
	}{
		{"transport failure", TransportFailure(errors.New("connection reset")), true},
		{"non-network failure", Failure(errors.New("bad request construction")), false},
		{"429", HTTPFailure(429, nil, nil), true},
		{"500", HTTPFailure(500, nil, nil), true},
		{"502", HTTPFailure(502, nil, nil), true},
		{"503", HTTPFailure(503, nil, nil), true},
		{"599", HTTPFailure(599, nil, nil), true},
		{"400", HTTPFailure(400, nil, nil), false},
		{"401", HTTPFailure(401, nil, nil), false},
		{"403", HTTPFailure(403, nil, nil), false},
		{"404", HTTPFailure(404, nil, nil), false},
		{"422", HTTPFailure(422, nil, nil), false},
		{"success", Success(200, nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRetry(tt.outcome); got != tt.want {
				t.Errorf("ShouldRetry(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestRetryPolicyFollowsClassifier(t *testing.T) {
	policy := DefaultRetryPolicy()

	if _, ok := policy.NextDelay(0, HTTPFailure(503, nil, nil)); !ok {
		t.Error("NextDelay(0, 503) should retry")
	}
	if _, ok := policy.NextDelay(0, HTTPFailure(400, nil, nil)); ok {
		t.Error("NextDelay(0, 400) should not retry")
	}
	if _, ok := policy.NextDelay(0, Failure(errors.New("x"))); ok {
		t.Error("NextDelay(0, non-network failure) should not retry")
	}
}

func TestBackoffDeterministicWithZeroJitter(t *testing.T) {
	b := &ExponentialBackoff{cfg: normalizeRetryConfig(RetryConfig{Rand: fixedRand(0)})}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 500 * time.Millisecond},
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{5, 16 * time.Second},
		{6, 30 * time.Second},
	}

	for _, tt := range tests {
		if got := b.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestBackoffBounds(t *testing.T) {
	for _, r := range []float64{0, 0.25, 0.5, 0.999999} {
		b := &ExponentialBackoff{cfg: normalizeRetryConfig(RetryConfig{Rand: fixedRand(r)})}
		for attempt := 0; attempt < 10; attempt++ {
			got := b.Delay(attempt)
			base := float64(500*time.Millisecond) * math.Pow(2, float64(attempt))
			lo := time.Duration(math.Min(base, float64(30*time.Second)))
			hi := time.Duration(math.Min(base+float64(500*time.Millisecond), float64(30*time.Second)))
			if got < lo || got > hi {
				t.Errorf("Delay(%d) with rand=%v = %v, want in [%v, %v]", attempt, r, got, lo, hi)
			}
		}
	}
}

func TestBackoffJitterAdds(t *testing.T) {
	b := &ExponentialBackoff{cfg: normalizeRetryConfig(RetryConfig{Rand: fixedRand(0.5)})}
	if got, want := b.Delay(0), 750*time.Millisecond; got != want {
		t.Errorf("Delay(0) = %v, want %v", got, want)
	}
}

func TestBackoffLargeAttemptSaturates(t *testing.T) {
	b := &ExponentialBackoff{cfg: normalizeRetryConfig(RetryConfig{})}

	for _, attempt := range []int{64, 1000, 1 << 20, math.MaxInt32} {
		if got := b.Delay(attempt); got != 30*time.Second {
			t.Errorf("Delay(%d) = %v, want 30s", attempt, got)
		}
	}
}

func TestBackoffNeverNegative(t *testing.T) {
	b := &ExponentialBackoff{cfg: normalizeRetryConfig(RetryConfig{Rand: fixedRand(-5)})}
	if got := b.Delay(-3); got < 0 {
		t.Errorf("Delay(-3) = %v, want >= 0", got)
	}
}

func TestNewRetryPolicyDefaults(t *testing.T) {
	cfg := normalizeRetryConfig(RetryConfig{})
	if cfg.BaseDelay != DefaultBaseDelay {
		t.Errorf("BaseDelay = %v, want %v", cfg.BaseDelay, DefaultBaseDelay)
	}
	if cfg.MaxJitter != DefaultMaxJitter {
		t.Errorf("MaxJitter = %v, want %v", cfg.MaxJitter, DefaultMaxJitter)
	}
	if cfg.MaxDelay != DefaultMaxDelay {
		t.Errorf("MaxDelay = %v, want %v", cfg.MaxDelay, DefaultMaxDelay)
	}
	if cfg.Rand == nil {
		t.Error("Rand should default to a random source")
	}
}

func TestNewRetryPolicyCustomCap(t *testing.T) {
	policy := NewRetryPolicy(RetryConfig{
		BaseDelay: time.Second,
		MaxDelay:  2 * time.Second,
		Rand:      fixedRand(0),
	})

	delay, ok := policy.NextDelay(4, TransportFailure(errors.New("timeout")))
	if !ok {
		t.Fatal("transport failure should be retried")
	}
	if delay != 2*time.Second {
		t.Errorf("delay = %v, want 2s", delay)
	}
}

func TestExponentialBackoffZeroValue(t *testing.T) {
	var b ExponentialBackoff

	for attempt := range 8 {
		d := b.Delay(attempt)
		if d < 0 || d > DefaultMaxDelay {
			t.Errorf("Delay(%d) = %v, want within [0, %v]", attempt, d, DefaultMaxDelay)
		}
	}
	if d := b.Delay(0); d < DefaultBaseDelay || d >= DefaultBaseDelay+DefaultMaxJitter {
		t.Errorf("Delay(0) = %v, want in [%v, %v)", d, DefaultBaseDelay, DefaultBaseDelay+DefaultMaxJitter)
	}

	delay, ok := b.NextDelay(0, HTTPFailure(503, nil, nil))
	if !ok || delay < DefaultBaseDelay {
		t.Errorf("NextDelay() = %v, %v; want retry after at least %v", delay, ok, DefaultBaseDelay)
	}
}
