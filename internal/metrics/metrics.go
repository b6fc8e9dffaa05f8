// Package metrics holds the Prometheus collectors shared across crmdash.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts served requests.
	// Labels: method, route, status
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crmdash",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crmdash",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// StoreOperations counts record store calls.
	// Labels: op (fetch, get, create, update, delete), table, result (success, error)
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crmdash",
			Subsystem: "recordstore",
			Name:      "operations_total",
			Help:      "Total number of record store operations",
		},
		[]string{"op", "table", "result"},
	)

	StoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crmdash",
			Subsystem: "recordstore",
			Name:      "operation_duration_seconds",
			Help:      "Duration of record store operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op", "table"},
	)

	// StageMoves counts deals moved between pipeline stages.
	// Labels: from, to
	StageMoves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crmdash",
			Subsystem: "pipeline",
			Name:      "deal_stage_moves_total",
			Help:      "Total number of deal stage transitions",
		},
		[]string{"from", "to"},
	)

	// BoardSubscribers is the number of open pipeline websocket connections.
	BoardSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "crmdash",
			Subsystem: "realtime",
			Name:      "board_subscribers",
			Help:      "Current number of pipeline board subscribers",
		},
	)
)
