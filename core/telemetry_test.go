package core

import (
	"testing"
	"time"
)

// recordingHook is a test implementation that records events.
type recordingHook struct {
	starts  []RequestStartEvent
	retries []RetryEvent
	ends    []RequestEndEvent
}

func (h *recordingHook) OnRequestStart(e RequestStartEvent) { h.starts = append(h.starts, e) }
func (h *recordingHook) OnRetry(e RetryEvent)               { h.retries = append(h.retries, e) }
func (h *recordingHook) OnRequestEnd(e RequestEndEvent)     { h.ends = append(h.ends, e) }

func TestTelemetryHookCanBeImplemented(t *testing.T) {
	var hook TelemetryHook = &recordingHook{}
	hook.OnRequestStart(RequestStartEvent{Method: "POST", Path: "chat/completions"})
	hook.OnRetry(RetryEvent{Attempt: 0, Status: 503, Kind: OutcomeHTTPFailure})
	hook.OnRequestEnd(RequestEndEvent{Attempts: 2})

	h := hook.(*recordingHook)
	if len(h.starts) != 1 || len(h.retries) != 1 || len(h.ends) != 1 {
		t.Errorf("recorded %d/%d/%d events, want 1/1/1", len(h.starts), len(h.retries), len(h.ends))
	}
}

func TestRequestEndEventDuration(t *testing.T) {
	start := time.Now()
	e := RequestEndEvent{Start: start, End: start.Add(1500 * time.Millisecond)}
	if got := e.Duration(); got != 1500*time.Millisecond {
		t.Errorf("Duration() = %v, want 1.5s", got)
	}
}

func TestNoopTelemetryHook(t *testing.T) {
	var hook TelemetryHook = NoopTelemetryHook{}

	// Should not panic
	hook.OnRequestStart(RequestStartEvent{})
	hook.OnRetry(RetryEvent{})
	hook.OnRequestEnd(RequestEndEvent{})
}
