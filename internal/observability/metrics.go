package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics agrupa os coletores da aplicação. Um *Metrics nil é válido e não registra nada.
type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	resolves        *prometheus.CounterVec
	backendRequests *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	fanOutSize      prometheus.Histogram
	staleResults    prometheus.Counter
	activeSessions  prometheus.Gauge
}

// NewMetrics cria e registra os coletores no registerer informado
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total de requisições HTTP",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duração das requisições HTTP em segundos",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		resolves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_resolve_total",
				Help: "Resoluções de consulta por modo e desfecho",
			},
			[]string{"mode", "outcome"},
		),
		backendRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_backend_requests_total",
				Help: "Chamadas ao backend do catálogo por operação e desfecho",
			},
			[]string{"call", "outcome"},
		),
		backendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_backend_request_duration_seconds",
				Help:    "Duração das chamadas ao backend do catálogo",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"call"},
		),
		fanOutSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "catalog_fanout_size",
				Help:    "Quantidade de chamadas simultâneas por lote",
				Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200},
			},
		),
		staleResults: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_stale_results_total",
				Help: "Resultados descartados por pertencerem a uma consulta superada",
			},
		),
		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_active_sessions",
				Help: "Sessões de navegação ativas",
			},
		),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.resolves,
		m.backendRequests,
		m.backendDuration,
		m.fanOutSize,
		m.staleResults,
		m.activeSessions,
	)

	return m
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveResolve(mode, outcome string) {
	if m == nil {
		return
	}
	m.resolves.WithLabelValues(mode, outcome).Inc()
}

func (m *Metrics) ObserveBackendCall(call, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.backendRequests.WithLabelValues(call, outcome).Inc()
	m.backendDuration.WithLabelValues(call).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveFanOut(size int) {
	if m == nil {
		return
	}
	m.fanOutSize.Observe(float64(size))
}

func (m *Metrics) IncStale() {
	if m == nil {
		return
	}
	m.staleResults.Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
