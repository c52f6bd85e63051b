package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for store operations.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	namespace = "furniture"
	subsystem = "inventory"

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	storeOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "store_operations_total",
			Help:      "Total number of item store operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	storeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "store_operation_duration_seconds",
			Help:      "Item store operation latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	storeLive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "store_live",
			Help:      "1 if the data store connection is live, 0 otherwise",
		},
	)
)

// ObserveRequest records one completed HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveStoreOperation records one repository call.
func ObserveStoreOperation(operation, outcome string, elapsed time.Duration) {
	storeOperations.WithLabelValues(operation, outcome).Inc()
	storeDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// SetStoreLive updates the store liveness gauge.
func SetStoreLive(live bool) {
	if live {
		storeLive.Set(1)
		return
	}
	storeLive.Set(0)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
