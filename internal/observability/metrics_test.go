package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/x", 200, time.Millisecond)
		m.ObserveResolve("browse", "ok")
		m.ObserveBackendCall("products", "ok", time.Millisecond)
		m.ObserveFanOut(3)
		m.IncStale()
		m.SetActiveSessions(2)
	})
}

func TestMetricsRecords(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveResolve("main-category", "ok")
	m.ObserveResolve("main-category", "ok")
	m.ObserveResolve("main-category", "partial")
	m.ObserveBackendCall("products_by_category", "error", time.Millisecond)
	m.IncStale()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.resolves.WithLabelValues("main-category", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolves.WithLabelValues("main-category", "partial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.backendRequests.WithLabelValues("products_by_category", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.staleResults))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "debug", parseLogLevel("DEBUG").String())
	assert.Equal(t, "warn", parseLogLevel("warn").String())
	assert.Equal(t, "info", parseLogLevel("qualquer").String())
}
