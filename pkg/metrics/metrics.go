// Package metrics provides Prometheus metrics for the gazetteer API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal tracks search requests by outcome ("executed" or
	// "below_minimum" for terms short-circuited without a query)
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "biowhere",
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Total number of search requests by outcome",
		},
		[]string{"outcome"},
	)

	// QueryDuration tracks database query duration per handler in seconds
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "biowhere",
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Duration of handler database work in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"handler"},
	)

	// FeatureInsertsTotal tracks add_feature transactions by status and
	// geometry kind
	FeatureInsertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "biowhere",
			Subsystem: "feature",
			Name:      "inserts_total",
			Help:      "Total number of feature insert transactions by status",
		},
		[]string{"status", "geometry_kind"},
	)

	// WhakapapaAppendsTotal tracks whakapapa/ancestor appends by usage tag
	WhakapapaAppendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "biowhere",
			Subsystem: "whakapapa",
			Name:      "appends_total",
			Help:      "Total number of whakapapa rows appended by usage",
		},
		[]string{"usage"},
	)

	// RequestDuration tracks end-to-end HTTP request duration per route
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "biowhere",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"route", "method", "status"},
	)

	// AdhocQueriesTotal tracks ad-hoc report queries by gate outcome
	// ("allowed" or "rejected")
	AdhocQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "biowhere",
			Subsystem: "report",
			Name:      "adhoc_queries_total",
			Help:      "Total number of ad-hoc queries by gate outcome",
		},
		[]string{"outcome"},
	)
)
