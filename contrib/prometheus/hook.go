// Package prometheus exports SynapsAI client telemetry as Prometheus metrics.
//
//	hook := prometheus.NewHook(prom.DefaultRegisterer)
//	client, err := synapsai.New(key, synapsai.WithTelemetry(hook))
package prometheus

import (
	"strconv"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/synapsai-cloud/synapsai-go/core"
)

const namespace = "synapsai_client"

// Hook is a core.TelemetryHook backed by Prometheus collectors.
type Hook struct {
	requests *prom.CounterVec
	retries  *prom.CounterVec
	attempts *prom.HistogramVec
	latency  *prom.HistogramVec
	inFlight *prom.GaugeVec
}

// NewHook registers the client collectors with reg. A nil reg leaves them
// unregistered.
func NewHook(reg prom.Registerer) *Hook {
	factory := promauto.With(reg)

	return &Hook{
		// requests counts finished calls by outcome
		requests: factory.NewCounterVec(
			prom.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of API calls by final outcome",
			},
			[]string{"method", "path", "outcome"},
		),
		retries: factory.NewCounterVec(
			prom.CounterOpts{
				Namespace: namespace,
				Name:      "retries_total",
				Help:      "Total number of retried attempts",
			},
			[]string{"path", "status"},
		),
		attempts: factory.NewHistogramVec(
			prom.HistogramOpts{
				Namespace: namespace,
				Name:      "attempts",
				Help:      "Attempts made per API call",
				Buckets:   []float64{1, 2, 3, 4, 5, 8},
			},
			[]string{"path"},
		),
		latency: factory.NewHistogramVec(
			prom.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "API call latency in seconds, including retries",
				Buckets:   prom.DefBuckets,
			},
			[]string{"method", "path"},
		),
		inFlight: factory.NewGaugeVec(
			prom.GaugeOpts{
				Namespace: namespace,
				Name:      "requests_in_flight",
				Help:      "API calls currently in progress",
			},
			[]string{"path"},
		),
	}
}

// OnRequestStart implements core.TelemetryHook.
func (h *Hook) OnRequestStart(e core.RequestStartEvent) {
	h.inFlight.WithLabelValues(e.Path).Inc()
}

// OnRetry implements core.TelemetryHook.
func (h *Hook) OnRetry(e core.RetryEvent) {
	h.retries.WithLabelValues(e.Path, statusLabel(e.Status)).Inc()
}

// OnRequestEnd implements core.TelemetryHook.
func (h *Hook) OnRequestEnd(e core.RequestEndEvent) {
	h.inFlight.WithLabelValues(e.Path).Dec()
	h.requests.WithLabelValues(e.Method, e.Path, outcomeLabel(e.Err)).Inc()
	h.latency.WithLabelValues(e.Method, e.Path).Observe(e.Duration().Seconds())
	if e.Attempts > 0 {
		h.attempts.WithLabelValues(e.Path).Observe(float64(e.Attempts))
	}
}

// Collectors returns every collector of the hook, for custom registration.
func (h *Hook) Collectors() []prom.Collector {
	return []prom.Collector{h.requests, h.retries, h.attempts, h.latency, h.inFlight}
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return core.KindOf(err).String()
}

func statusLabel(status int) string {
	if status == 0 {
		return "transport"
	}
	return strconv.Itoa(status)
}

var _ core.TelemetryHook = (*Hook)(nil)
