// Package metrics defines the Prometheus collectors for search activity and
// the HTTP API.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "studyhub"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"source"}, // "cli" / "http" / "mcp"
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of records matched per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Filter, score and rank duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	UnparseableFieldsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unparseable_fields_total",
			Help:      "Fields that could not be parsed and were bucketed as unknown",
		},
		[]string{"field"},
	)

	FallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_rankings_total",
			Help:      "Searches ranked by popularity because no record matched the profile",
		},
	)

	CatalogRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_records",
			Help:      "Records in the current catalog snapshot",
		},
	)
)

var registerOnce sync.Once

// Register registers all collectors with the default registry. Safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			SearchRequestsTotal,
			SearchResults,
			SearchDuration,
			UnparseableFieldsTotal,
			FallbackTotal,
			CatalogRecords,
			httpRequestDuration,
			httpRequestsTotal,
		)
	})
}
