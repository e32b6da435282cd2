package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "urbano"

// Metrics holds the Prometheus collectors shared by the services.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec   // labels: api, method, status
	HTTPDuration *prometheus.HistogramVec // labels: api

	ReportsSubmitted *prometheus.CounterVec // labels: outcome={saved,invalid,error}
	DatasetRecords   *prometheus.GaugeVec   // labels: dataset
	DatasetLoads     *prometheus.CounterVec // labels: dataset, outcome={success,error}
}

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint, method and status code.",
		}, []string{"api", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by endpoint.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"api"}),
		ReportsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_submitted_total",
			Help:      "Citizen report submissions by outcome.",
		}, []string{"outcome"}),
		DatasetRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Records held by an in-memory dataset.",
		}, []string{"dataset"}),
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts by outcome.",
		}, []string{"dataset", "outcome"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.HTTPRequests,
		m.HTTPDuration,
		m.ReportsSubmitted,
		m.DatasetRecords,
		m.DatasetLoads,
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics registered nowhere, so tests can
// build as many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
