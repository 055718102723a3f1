// Package metrics defines the Prometheus metrics exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chorelog"

var (
	// LogsCreated counts chore logs written, including batch entries.
	LogsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logs_created_total",
			Help:      "Total number of chore logs created",
		},
	)

	// LogsDeleted counts chore logs removed individually or by a bulk clear.
	LogsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logs_deleted_total",
			Help:      "Total number of chore logs deleted",
		},
	)

	// InsightsRequests counts weekly summary requests.
	// Labels: result (ok, no_data, error)
	InsightsRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insights_requests_total",
			Help:      "Total number of insights requests by result",
		},
		[]string{"result"},
	)

	// HTTPRequests counts served requests.
	// Labels: method, status
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method and status code",
		},
		[]string{"method", "status"},
	)

	// Snapshots counts snapshot runs.
	// Labels: result (completed, failed)
	Snapshots = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_total",
			Help:      "Total number of snapshot runs by result",
		},
		[]string{"result"},
	)
)

// ObserveInsights records the result of one insights request.
func ObserveInsights(result string) {
	InsightsRequests.WithLabelValues(result).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
