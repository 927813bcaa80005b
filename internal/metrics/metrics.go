// Package metrics exports Prometheus metrics for the agent pipeline and
// the read API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all exported Prometheus metrics
type Metrics struct {
	// Pipeline metrics
	ItemsProcessed *prometheus.CounterVec
	StageDuration  *prometheus.HistogramVec
	ItemDuration   prometheus.Histogram

	// AI upstream metrics
	AIRetries prometheus.Counter

	// Read API metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CacheLookups    *prometheus.CounterVec
}

// New registers and returns the metric set on the default registry.
func New() *Metrics {
	m := &Metrics{}
	initPipelineMetrics(m)
	initAPIMetrics(m)
	return m
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

func initPipelineMetrics(m *Metrics) {
	m.ItemsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "darijapress_pipeline_items_total",
		Help: "Pipeline items by outcome (completed, failed, skipped)",
	}, []string{"outcome"})

	m.StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "darijapress_pipeline_stage_duration_seconds",
		Help:    "Time spent per pipeline stage",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"stage"})

	m.ItemDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "darijapress_pipeline_item_duration_seconds",
		Help:    "End-to-end time per pipeline item",
		Buckets: []float64{10, 30, 60, 120, 300, 600, 1200},
	})

	m.AIRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "darijapress_ai_retries_total",
		Help: "AI upstream calls retried after a transient failure",
	})
}

func initAPIMetrics(m *Metrics) {
	m.RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "darijapress_api_requests_total",
		Help: "Read API requests by endpoint and status code",
	}, []string{"endpoint", "status"})

	m.RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "darijapress_api_request_duration_seconds",
		Help:    "Read API request latency",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"endpoint"})

	m.CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "darijapress_cache_lookups_total",
		Help: "Cache lookups by cache name and outcome (hit, miss, refresh)",
	}, []string{"cache", "outcome"})
}
