// Package metrics exposes the small set of Prometheus gauges/counters this
// core needs, grounded on the teacher's pkg/observability/metrics.go
// (same client_golang vectors, trimmed from its full agent/RAG/memory
// surface down to turns, LLM calls, tool calls, and active sessions). All
// of them are registered; cmd/sawtd observes only TurnDuration.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the process-wide metrics registry.
type Metrics struct {
	registry *prometheus.Registry

	TurnsTotal       *prometheus.CounterVec
	TurnDuration     *prometheus.HistogramVec
	LLMCallsTotal    *prometheus.CounterVec
	LLMCallDuration  *prometheus.HistogramVec
	ToolCallsTotal   *prometheus.CounterVec
	SessionsActive   prometheus.Gauge
}

// New builds and registers every metric.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		TurnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sawt_turns_total",
			Help: "Total conversation turns processed, labeled by fsm state entered.",
		}, []string{"state"}),
		TurnDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sawt_turn_duration_seconds",
			Help:    "Wall-clock duration of one orchestrator turn.",
			Buckets: prometheus.DefBuckets,
		}, []string{"state"}),
		LLMCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sawt_llm_calls_total",
			Help: "Total LLM provider calls, labeled by role and outcome.",
		}, []string{"role", "outcome"}),
		LLMCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sawt_llm_call_duration_seconds",
			Help:    "Wall-clock duration of one LLM provider call.",
			Buckets: prometheus.DefBuckets,
		}, []string{"role"}),
		ToolCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sawt_tool_calls_total",
			Help: "Total tool invocations, labeled by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sawt_sessions_active",
			Help: "Sessions not yet expired.",
		}),
	}

	registry.MustRegister(m.TurnsTotal, m.TurnDuration, m.LLMCallsTotal, m.LLMCallDuration, m.ToolCallsTotal, m.SessionsActive)
	return m
}

// Handler returns the /metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
