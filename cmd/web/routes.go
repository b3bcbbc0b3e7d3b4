package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() (*http.ServeMux, error) {
	mux := http.NewServeMux()

	limit := app.rateLimiter()
	var (
		shared = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
				commonContext(app.timeout(next)))))
		}
		api = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(shared(limit(next))))
		}
		page = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(shared(next)))
		}
	)

	mux.Handle("POST /api/users", api(http.HandlerFunc(app.userCreatePOST)))
	mux.Handle("GET /api/users/{userID}", api(http.HandlerFunc(app.userGET)))
	mux.Handle("PATCH /api/users/{userID}", api(http.HandlerFunc(app.userPATCH)))
	mux.Handle("POST /api/users/{userID}/metrics", api(http.HandlerFunc(app.userMetricsPOST)))
	mux.Handle("GET /api/users/{userID}/metrics/latest", api(http.HandlerFunc(app.userMetricsLatestGET)))
	mux.Handle("POST /api/users/{userID}/cycle-logs", api(http.HandlerFunc(app.cycleLogPOST)))
	mux.Handle("GET /api/users/{userID}/cycle-phase", api(http.HandlerFunc(app.cyclePhaseGET)))
	mux.Handle("GET /api/users/{userID}/workouts", api(http.HandlerFunc(app.userWorkoutsGET)))
	mux.Handle("GET /api/users/{userID}/export", api(http.HandlerFunc(app.userExportGET)))

	mux.Handle("POST /api/generate-workout", api(http.HandlerFunc(app.generateWorkoutPOST)))
	mux.Handle("GET /api/workouts/{workoutID}", api(http.HandlerFunc(app.workoutGET)))
	mux.Handle("POST /api/workout-feedback", api(http.HandlerFunc(app.workoutFeedbackPOST)))

	mux.Handle("GET /api/exercises", api(http.HandlerFunc(app.exercisesAPIGET)))
	mux.Handle("GET /api/exercises/{exerciseID}/difficulty", api(http.HandlerFunc(app.exerciseDifficultyGET)))
	mux.Handle("GET /api/phases/{phase}/advice", api(http.HandlerFunc(app.phaseAdviceGET)))

	mux.Handle("GET /api/healthy", api(http.HandlerFunc(app.healthy)))
	mux.Handle("GET /api/test/timeout", api(http.HandlerFunc(app.testTimeout)))
	mux.Handle("POST /api/csp-violation-report", api(http.HandlerFunc(app.cspViolation)))

	if app.metricsEnabled {
		mux.Handle("GET /metrics", app.recoverPanic(app.logAndTraceRequest(promhttp.Handler())))
	}

	mux.Handle("GET /exercises", page(http.HandlerFunc(app.exercisesGET)))
	mux.Handle("GET /exercises/{exerciseID}", page(http.HandlerFunc(app.exerciseInfoGET)))
	mux.Handle("POST /language", page(http.HandlerFunc(app.setLanguagePOST)))
	mux.Handle("GET /{$}", page(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		redirect(w, r, "/exercises")
	})))

	// File server with custom 404 handling
	fileServerHandler, err := app.fileServerHandler()
	if err != nil {
		return nil, fmt.Errorf("fileServerHandler: %w", err)
	}
	mux.Handle("/", fileServerHandler)

	return mux, nil
}
