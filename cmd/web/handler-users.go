package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/myrjola/cyclefit/internal/cycle"
	"github.com/myrjola/cyclefit/internal/errors"
	"github.com/myrjola/cyclefit/internal/workout"
)

type userCreateRequest struct {
	Username           string   `json:"username" validate:"required,max=64"`
	Email              string   `json:"email" validate:"required,email,max=254"`
	FitnessGoal        string   `json:"fitness_goal" validate:"required,max=64"`
	FitnessLevel       int      `json:"fitness_level" validate:"omitempty,gte=1,lte=5"`
	AvailableEquipment []string `json:"available_equipment" validate:"omitempty,dive,required,max=64"`
}

func (app *application) userCreatePOST(w http.ResponseWriter, r *http.Request) {
	var req userCreateRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	user, err := app.workoutService.CreateUser(r.Context(), workout.User{ //nolint:exhaustruct // assigned by the db
		Username:           req.Username,
		Email:              req.Email,
		FitnessGoal:        req.FitnessGoal,
		FitnessLevel:       req.FitnessLevel,
		AvailableEquipment: req.AvailableEquipment,
	})
	if err != nil {
		app.serviceError(w, r, err, "")
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/users/%d", user.ID))
	app.writeJSON(w, r, http.StatusCreated, user)
}

func (app *application) userGET(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.parseIDParam(w, r, "userID")
	if !ok {
		return
	}
	user, err := app.workoutService.GetUser(r.Context(), userID)
	if err != nil {
		app.serviceError(w, r, err, "user not found")
		return
	}
	app.writeJSON(w, r, http.StatusOK, user)
}

type userUpdateRequest struct {
	FitnessGoal        *string   `json:"fitness_goal" validate:"omitempty,min=1,max=64"`
	FitnessLevel       *int      `json:"fitness_level" validate:"omitempty,gte=1,lte=5"`
	AvailableEquipment *[]string `json:"available_equipment" validate:"omitempty,dive,required,max=64"`
}

func (app *application) userPATCH(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.parseIDParam(w, r, "userID")
	if !ok {
		return
	}
	var req userUpdateRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	user, err := app.workoutService.UpdateUser(r.Context(), userID, workout.UserUpdate{
		FitnessGoal:        req.FitnessGoal,
		FitnessLevel:       req.FitnessLevel,
		AvailableEquipment: req.AvailableEquipment,
	})
	if err != nil {
		app.serviceError(w, r, err, "user not found")
		return
	}
	app.writeJSON(w, r, http.StatusOK, user)
}

type metricsRequest struct {
	WeightKg   float64  `json:"weight" validate:"gt=0,lt=1000"`
	HeightCm   float64  `json:"height" validate:"gt=0,lt=300"`
	BodyFatPct *float64 `json:"body_fat" validate:"omitempty,gte=0,lte=100"`
}

func (app *application) userMetricsPOST(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.parseIDParam(w, r, "userID")
	if !ok {
		return
	}
	var req metricsRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	m, err := app.workoutService.RecordMetrics(r.Context(), workout.Metrics{ //nolint:exhaustruct // assigned by the db
		UserID:     userID,
		WeightKg:   req.WeightKg,
		HeightCm:   req.HeightCm,
		BodyFatPct: req.BodyFatPct,
	})
	if err != nil {
		app.serviceError(w, r, err, "user not found")
		return
	}
	app.writeJSON(w, r, http.StatusCreated, m)
}

func (app *application) userMetricsLatestGET(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.parseIDParam(w, r, "userID")
	if !ok {
		return
	}
	m, err := app.workoutService.LatestMetrics(r.Context(), userID)
	if err != nil {
		app.serviceError(w, r, err, "no metrics recorded")
		return
	}
	app.writeJSON(w, r, http.StatusOK, m)
}

type cycleLogRequest struct {
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	CycleLength int    `json:"cycle_length" validate:"omitempty,gte=15,lte=60"`
}

func (app *application) cycleLogPOST(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.parseIDParam(w, r, "userID")
	if !ok {
		return
	}
	var req cycleLogRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	// Validated by the datetime rule.
	startDate, _ := time.Parse(time.DateOnly, req.StartDate)
	log, err := app.workoutService.LogCycle(r.Context(), workout.CycleLog{ //nolint:exhaustruct // assigned by the db
		UserID:      userID,
		StartDate:   startDate,
		CycleLength: req.CycleLength,
	})
	if err != nil {
		app.serviceError(w, r, err, "user not found")
		return
	}
	app.writeJSON(w, r, http.StatusCreated, log)
}

type cyclePhaseQuery struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type cyclePhaseResponse struct {
	UserID     int         `json:"user_id"`
	Date       string      `json:"date,omitempty"`
	CyclePhase cycle.Phase `json:"cycle_phase"`
	NextPhase  cycle.Phase `json:"next_phase"`
}

func (app *application) cyclePhaseGET(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.parseIDParam(w, r, "userID")
	if !ok {
		return
	}
	query := cyclePhaseQuery{Date: r.URL.Query().Get("date")}
	if !app.validateQuery(w, r, query) {
		return
	}
	var day time.Time
	if query.Date != "" {
		day, _ = time.Parse(time.DateOnly, query.Date)
	}
	phase, err := app.workoutService.CurrentPhase(r.Context(), userID, day)
	if err != nil {
		app.serviceError(w, r, err, "no cycle logged")
		return
	}
	app.writeJSON(w, r, http.StatusOK, cyclePhaseResponse{
		UserID:     userID,
		Date:       query.Date,
		CyclePhase: phase,
		NextPhase:  phase.Next(),
	})
}

func (app *application) userWorkoutsGET(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.parseIDParam(w, r, "userID")
	if !ok {
		return
	}
	plans, err := app.workoutService.ListWorkouts(r.Context(), userID)
	if err != nil {
		app.serviceError(w, r, err, "user not found")
		return
	}
	app.writeJSON(w, r, http.StatusOK, plans)
}

// userExportGET streams a SQLite database holding everything stored about the user.
func (app *application) userExportGET(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := app.parseIDParam(w, r, "userID")
	if !ok {
		return
	}

	// Every export gets its own directory so that concurrent exports of one user do not collide.
	dir, err := os.MkdirTemp(app.exportDir, "cyclefit-export-")
	if err != nil {
		app.serviceError(w, r, errors.Wrap(err, "create export directory"), "")
		return
	}
	defer func() {
		if removeErr := os.RemoveAll(dir); removeErr != nil {
			app.logger.LogAttrs(ctx, slog.LevelWarn, "failed to remove temporary export directory",
				slog.String("path", dir), errors.SlogError(removeErr))
		}
	}()

	exportPath, err := app.workoutService.ExportUser(ctx, userID, dir)
	if err != nil {
		app.serviceError(w, r, err, "user not found")
		return
	}

	file, err := os.Open(exportPath)
	if err != nil {
		app.serviceError(w, r, errors.Wrap(err, "open export file"), "")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			app.logger.LogAttrs(ctx, slog.LevelWarn, "failed to close export file",
				slog.String("path", exportPath), errors.SlogError(closeErr))
		}
	}()
	stat, err := file.Stat()
	if err != nil {
		app.serviceError(w, r, errors.Wrap(err, "stat export file"), "")
		return
	}

	filename := filepath.Base(exportPath)
	w.Header().Set("Content-Type", "application/x-sqlite3")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeContent(w, r, filename, stat.ModTime(), file)
}
