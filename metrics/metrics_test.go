package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoOp(t *testing.T) {
	var m *Metrics
	m.ObserveTurn("t1", "ok")
	m.ObserveProviderCall("openai", "gpt-4o-mini", time.Second)
	m.ObserveTool("search_product", true)
	m.AddTokens(10, 5)
}

func TestMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveTurn("t1", "ok")
	m.ObserveTurn("t1", "ok")
	m.ObserveTool("search_product", true)
	m.ObserveTool("search_product", false)
	m.AddTokens(100, 40)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.turns.WithLabelValues("t1", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.toolExecutions.WithLabelValues("search_product", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.toolExecutions.WithLabelValues("search_product", "failure")))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.tokens.WithLabelValues("input")))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.tokens.WithLabelValues("output")))
}
