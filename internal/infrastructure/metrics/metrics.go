package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evdekor_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evdekor_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	orderOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evdekor_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation", "status"},
	)

	suggestionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "evdekor_suggestion_update_failures_total",
			Help: "Suggestion index writes that failed and were skipped",
		},
	)
)

// Order operation names
const (
	OpCreate     = "create"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpStatus     = "status"
	OpBulkStatus = "bulk_status"
)

// RecordOrderOperation counts an order operation by outcome
func RecordOrderOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	orderOperations.WithLabelValues(operation, status).Inc()
}

// RecordSuggestionFailure counts a swallowed suggestion index failure
func RecordSuggestionFailure() {
	suggestionFailures.Inc()
}
