// Package metrics exposes Prometheus collectors for the HTTP API and the
// recommendation pipeline.
//
// Usage:
//
//	metrics.RecordRecommendation(true, plan.Overshoot(), len(questions))
//	metrics.RecordAttempt(attempt.Solved)
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leettrack_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leettrack_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RecommendationsTotal counts recommendation requests, split by whether
	// the weights were adjusted for a low success rate.
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leettrack_recommendations_total",
			Help: "Total number of recommendation requests served",
		},
		[]string{"adjusted"},
	)

	// PlanOvershoot observes how far ceiling rounding pushed a plan past its target.
	PlanOvershoot = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leettrack_plan_overshoot",
			Help:    "Planned question count minus the requested target",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 8, 13},
		},
	)

	// RecommendedQuestions observes how many questions a response carried.
	RecommendedQuestions = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leettrack_recommended_questions",
			Help:    "Number of questions returned per recommendation request",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 50},
		},
	)

	// AttemptsRecordedTotal counts solve attempts by outcome.
	AttemptsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leettrack_attempts_recorded_total",
			Help: "Total number of solve attempts recorded",
		},
		[]string{"solved"},
	)
)

func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func RecordRecommendation(adjusted bool, overshoot, returned int) {
	RecommendationsTotal.WithLabelValues(strconv.FormatBool(adjusted)).Inc()
	PlanOvershoot.Observe(float64(overshoot))
	RecommendedQuestions.Observe(float64(returned))
}

func RecordAttempt(solved bool) {
	AttemptsRecordedTotal.WithLabelValues(strconv.FormatBool(solved)).Inc()
}
