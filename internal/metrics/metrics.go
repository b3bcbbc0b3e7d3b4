// Package metrics exposes the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // collectors are registered once with the default registry.
var (
	// Plan generation

	PlansGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyclefit_plans_generated_total",
			Help: "Total number of generated workout plans",
		},
		[]string{"goal", "cycle_phase"},
	)

	PlanGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cyclefit_plan_generation_duration_seconds",
			Help:    "Duration of workout plan generation including persistence",
			Buckets: prometheus.DefBuckets,
		},
	)

	PlanExercises = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cyclefit_plan_exercises",
			Help:    "Number of exercises in generated plans",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)

	// Difficulty predictions

	DifficultyPredictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyclefit_difficulty_predictions_total",
			Help: "Total number of exercise difficulty predictions by predicted label",
		},
		[]string{"label"},
	)

	// Feedback

	FeedbackRatings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyclefit_feedback_ratings_total",
			Help: "Total number of workout feedback submissions by difficulty rating",
		},
		[]string{"rating"},
	)

	// HTTP

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyclefit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cyclefit_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cyclefit_http_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// OtherGoal is the goal label of plans for goals without a dedicated split. Callers pass it
// instead of free-form goals to keep the label cardinality bounded.
const OtherGoal = "other"

// RecordPlanGenerated records a generated plan. An empty phase is recorded as "none".
func RecordPlanGenerated(goal, phase string, exercises int, duration time.Duration) {
	if phase == "" {
		phase = "none"
	}
	PlansGenerated.WithLabelValues(goal, phase).Inc()
	PlanExercises.Observe(float64(exercises))
	PlanGenerationDuration.Observe(duration.Seconds())
}

// RecordDifficultyPrediction records a classifier prediction.
func RecordDifficultyPrediction(label int) {
	DifficultyPredictions.WithLabelValues(strconv.Itoa(label)).Inc()
}

// RecordFeedback records a submitted difficulty rating.
func RecordFeedback(rating int) {
	FeedbackRatings.WithLabelValues(strconv.Itoa(rating)).Inc()
}

// RecordHTTPRequest records a served HTTP request. route is the matched mux pattern so that
// path parameters do not blow up the label cardinality.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		HTTPActiveRequests.Inc()
	} else {
		HTTPActiveRequests.Dec()
	}
}
