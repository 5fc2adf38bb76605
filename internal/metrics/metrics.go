// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipenest_store_query_duration_seconds",
			Help:    "Duration of catalog and profile store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"store", "query"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipenest_store_query_errors_total",
			Help: "Total number of failed store queries",
		},
		[]string{"store", "query", "error_type"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recipenest_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipenest_recommendations_total",
			Help: "Recommendation computations by operation and the tier that produced them",
		},
		[]string{"operation", "tier"},
	)

	RecommendationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipenest_recommendation_errors_total",
			Help: "Failed recommendation computations by operation and error kind",
		},
		[]string{"operation", "kind"},
	)

	RefreshRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipenest_refresh_runs_total",
			Help: "Completed runs of the scheduled recommendation refresh",
		},
	)

	RefreshUsers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipenest_refresh_users_total",
			Help: "Users processed by the scheduled refresh, by outcome",
		},
		[]string{"outcome"},
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recipenest_refresh_duration_seconds",
			Help:    "Wall time of a full refresh run",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipenest_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipenest_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipenest_rate_limited_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"limiter"},
	)
)

// RecordStoreQuery records the duration and, if err is set, the failure of a store query.
func RecordStoreQuery(store, query string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(store, query).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(store, query, errorType(err)).Inc()
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}

// RecordHTTPRequest records one served request. route is the gin route pattern.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
