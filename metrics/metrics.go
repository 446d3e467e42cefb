// Package metrics exposes Prometheus instrumentation for the agent pipeline.
// A nil *Metrics is a valid no-op so callers that disable observability pay
// nothing on the turn path.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the pipeline collectors.
type Metrics struct {
	turns           *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	toolExecutions  *prometheus.CounterVec
	tokens          *prometheus.CounterVec
}

// New registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		turns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shopvoz_turns_total",
			Help: "Completed turns by tenant and outcome.",
		}, []string{"tenant", "outcome"}),
		providerLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shopvoz_provider_latency_seconds",
			Help:    "Provider call latency by provider and model.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"provider", "model"}),
		toolExecutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shopvoz_tool_executions_total",
			Help: "Tool executions by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		tokens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shopvoz_tokens_total",
			Help: "Token consumption by direction.",
		}, []string{"direction"}),
	}
}

// ObserveTurn records one completed turn.
func (m *Metrics) ObserveTurn(tenant, outcome string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(tenant, outcome).Inc()
}

// ObserveProviderCall records one provider round-trip.
func (m *Metrics) ObserveProviderCall(provider, model string, dur time.Duration) {
	if m == nil {
		return
	}
	m.providerLatency.WithLabelValues(provider, model).Observe(dur.Seconds())
}

// ObserveTool records one tool execution.
func (m *Metrics) ObserveTool(tool string, success bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.toolExecutions.WithLabelValues(tool, outcome).Inc()
}

// AddTokens records token consumption.
func (m *Metrics) AddTokens(input, output int) {
	if m == nil {
		return
	}
	m.tokens.WithLabelValues("input").Add(float64(input))
	m.tokens.WithLabelValues("output").Add(float64(output))
}
