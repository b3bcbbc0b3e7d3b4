package main

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/myrjola/cyclefit/internal/errors"
)

// healthy responds with a JSON object indicating whether the server can reach its database.
func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	if err := app.workoutService.Healthy(r.Context()); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "health check failed", errors.SlogError(err))
		app.writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// testTimeout sleeps for the sleep_ms query parameter so that the timeout middleware can be exercised.
func (app *application) testTimeout(w http.ResponseWriter, r *http.Request) {
	sleepMsStr := r.URL.Query().Get("sleep_ms")
	if sleepMsStr == "" {
		sleepMsStr = "0"
	}
	sleepMs, err := strconv.Atoi(sleepMsStr)
	if err != nil || sleepMs < 0 {
		app.writeAPIError(w, r, http.StatusBadRequest, codeBadRequest, "invalid sleep_ms parameter")
		return
	}

	select {
	case <-time.After(time.Duration(sleepMs) * time.Millisecond):
	case <-r.Context().Done():
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{"status": "completed", "slept_ms": sleepMs})
}
