// Package metrics defines the Prometheus collectors for indexing and querying
// and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Query outcomes used as the result label of SearchQueriesTotal.
const (
	ResultFound    = "found"
	ResultNotFound = "not_found"
	ResultNoise    = "noise"
)

// Metrics holds all Prometheus collectors for one process.
type Metrics struct {
	registry *prometheus.Registry

	WordsIndexedTotal    prometheus.Counter
	DistinctWords        prometheus.Gauge
	IndexDuration        prometheus.Histogram
	LineListGrowthsTotal prometheus.Counter
	IndexTreeHeight      prometheus.Gauge
	SearchQueriesTotal   *prometheus.CounterVec
	SearchLatency        prometheus.Histogram
}

// New creates the collectors and registers them on a fresh registry, so that
// several instances can coexist in tests.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		WordsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "words_indexed_total",
				Help: "Total word occurrences added to the index.",
			},
		),
		DistinctWords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "distinct_words",
				Help: "Number of distinct case-insensitive words in the index.",
			},
		),
		IndexDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "index_duration_seconds",
				Help:    "Time taken to index a file in seconds.",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
		),
		LineListGrowthsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "line_list_growths_total",
				Help: "Times an entry's line list doubled its capacity.",
			},
		),
		IndexTreeHeight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "index_tree_height",
				Help: "Longest root-to-leaf path of the tree backend.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total word queries by result (found, not_found, noise).",
			},
			[]string{"result"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Word lookup latency in seconds.",
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
			},
		),
	}

	m.registry.MustRegister(
		m.WordsIndexedTotal,
		m.DistinctWords,
		m.IndexDuration,
		m.LineListGrowthsTotal,
		m.IndexTreeHeight,
		m.SearchQueriesTotal,
		m.SearchLatency,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
