package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Recommendation store operations by kind and outcome
	RecommendationOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_operations_total",
		Help: "Recommendation operations by operation and result",
	}, []string{"operation", "result"})

	// Total number of success-counter increments applied
	RecommendationSuccessIncrements = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommendation_success_increments_total",
		Help: "Total number of rec_success increments applied",
	})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_http_requests_total",
		Help: "HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recommendation_http_request_duration_seconds",
		Help:    "Latency of recommendation HTTP handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// MustRegister registers every collector with r. Call once at start-up.
func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		RecommendationOperations,
		RecommendationSuccessIncrements,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}

// ObserveOperation records the outcome of a store operation.
func ObserveOperation(operation string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	RecommendationOperations.WithLabelValues(operation, result).Inc()
}
