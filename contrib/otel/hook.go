// Package otel traces SynapsAI client calls with OpenTelemetry.
//
// Each logical call becomes one client span covering every attempt. Retries
// are recorded as span events.
package otel

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/synapsai-cloud/synapsai-go/core"
)

const instrumentationName = "github.com/synapsai-cloud/synapsai-go/contrib/otel"

// Hook is a core.TelemetryHook that records spans.
type Hook struct {
	tracer trace.Tracer
	spans  sync.Map // call ID -> trace.Span
}

// Option configures a Hook.
type Option func(*hookConfig)

type hookConfig struct {
	provider trace.TracerProvider
}

// WithTracerProvider sets the provider. Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *hookConfig) {
		c.provider = tp
	}
}

// NewHook returns a tracing hook.
func NewHook(opts ...Option) *Hook {
	cfg := hookConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.provider == nil {
		cfg.provider = otel.GetTracerProvider()
	}
	return &Hook{tracer: cfg.provider.Tracer(instrumentationName)}
}

// OnRequestStart implements core.TelemetryHook.
func (h *Hook) OnRequestStart(e core.RequestStartEvent) {
	_, span := h.tracer.Start(context.Background(), "synapsai "+e.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithTimestamp(e.Start),
		trace.WithAttributes(
			attribute.String("http.request.method", e.Method),
			attribute.String("synapsai.path", e.Path),
			attribute.String("synapsai.request_id", e.RequestID),
			attribute.Bool("synapsai.stream", e.Stream),
		),
	)
	h.spans.Store(e.CallID, span)
}

// OnRetry implements core.TelemetryHook.
func (h *Hook) OnRetry(e core.RetryEvent) {
	v, ok := h.spans.Load(e.CallID)
	if !ok {
		return
	}
	v.(trace.Span).AddEvent("retry", trace.WithAttributes(
		attribute.Int("synapsai.attempt", e.Attempt),
		attribute.Int("http.response.status_code", e.Status),
		attribute.String("synapsai.outcome", e.Kind.String()),
		attribute.Int64("synapsai.delay_ms", e.Delay.Milliseconds()),
	))
}

// OnRequestEnd implements core.TelemetryHook.
func (h *Hook) OnRequestEnd(e core.RequestEndEvent) {
	v, ok := h.spans.LoadAndDelete(e.CallID)
	if !ok {
		return
	}
	span := v.(trace.Span)

	span.SetAttributes(
		attribute.Int("synapsai.attempts", e.Attempts),
		attribute.Int("http.response.status_code", e.Status),
	)
	if e.Err != nil {
		span.RecordError(e.Err)
		span.SetAttributes(attribute.String("synapsai.error_kind", core.KindOf(e.Err).String()))
		span.SetStatus(codes.Error, e.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(e.End))
}

var _ core.TelemetryHook = (*Hook)(nil)
