package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for Beacon
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Submission / sync metrics
	ReportsSubmittedTotal prometheus.CounterVec
	QueuePending          prometheus.Gauge
	DrainPassesTotal      prometheus.Counter
	DrainEntriesTotal     prometheus.CounterVec
	DrainDuration         prometheus.Histogram

	// Cluster metrics
	ActiveClusters prometheus.Gauge
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "beacon_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "beacon_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "beacon_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		ReportsSubmittedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "beacon_reports_submitted_total",
				Help: "Report submissions by outcome (SUBMITTED, QUEUED_RETRY, QUEUED_OFFLINE)",
			},
			[]string{"outcome"},
		),
		QueuePending: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "beacon_queue_pending",
				Help: "Reports currently waiting in the local durable queue",
			},
		),
		DrainPassesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "beacon_drain_passes_total",
				Help: "Completed drain passes over the local queue",
			},
		),
		DrainEntriesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "beacon_drain_entries_total",
				Help: "Queue entries processed during drains, by result (synced, failed)",
			},
			[]string{"result"},
		),
		DrainDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "beacon_drain_duration_seconds",
				Help:    "Duration of a full drain pass in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),

		ActiveClusters: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "beacon_active_clusters",
				Help: "Proximity clusters detected over currently Submitted reports",
			},
		),
	}
}
