package core

import "time"

// TelemetryHook receives request lifecycle notifications from the executor.
// Implementations can use this for logging, metrics, tracing, etc.
//
// # Security Considerations
//
// Events carry only operational metadata: method, path, request ID, attempt
// counts, status codes and timing. API keys, request payloads and response
// bodies are never included, so events can be exported to external systems.
// Keep it that way when adding fields.
//
// Hooks are called synchronously on the calling goroutine and must not block.
type TelemetryHook interface {
	// OnRequestStart is called once per logical call, before the first attempt.
	OnRequestStart(e RequestStartEvent)

	// OnRetry is called after a failed attempt that will be retried, before the wait.
	OnRetry(e RetryEvent)

	// OnRequestEnd is called once per logical call with its final outcome.
	OnRequestEnd(e RequestEndEvent)
}

// RequestStartEvent contains metadata about a starting call.
type RequestStartEvent struct {
	CallID    uint64    // Unique per call within the process, shared by its events
	Method    string    // HTTP method
	Path      string    // Endpoint path relative to the base URL
	RequestID string    // Client-generated X-Request-Id, shared by all attempts
	Stream    bool      // Whether the call opens a stream
	Start     time.Time // When the call started
}

// RetryEvent describes an attempt that failed and will be retried.
type RetryEvent struct {
	CallID    uint64
	Method    string
	Path      string
	RequestID string
	Attempt   int           // 0-based index of the failed attempt
	Delay     time.Duration // Wait before the next attempt
	Status    int           // HTTP status, 0 for transport failures
	Kind      OutcomeKind
}

// RequestEndEvent contains metadata about a finished call.
//
// Err is the final *APIError, or nil on success.
type RequestEndEvent struct {
	CallID    uint64
	Method    string
	Path      string
	RequestID string
	Stream    bool
	Start     time.Time
	End       time.Time
	Attempts  int // Number of attempts made, at least 1 once a request was sent
	Status    int // Final HTTP status, 0 if none was received
	Err       error
}

// Duration returns the elapsed time for the call.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopTelemetryHook is a no-op implementation of TelemetryHook.
type NoopTelemetryHook struct{}

// OnRequestStart does nothing.
func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}

// OnRetry does nothing.
func (NoopTelemetryHook) OnRetry(RetryEvent) {}

// OnRequestEnd does nothing.
func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent) {}

var _ TelemetryHook = NoopTelemetryHook{}
