package main

import (
	"net/http"

	"github.com/myrjola/cyclefit/internal/cycle"
	"github.com/myrjola/cyclefit/internal/workout"
)

type generateWorkoutRequest struct {
	UserID int `json:"user_id" validate:"required,gt=0"`
	// CyclePhase overrides the phase derived from the cycle logs.
	CyclePhase        string `json:"cycle_phase" validate:"omitempty,cycle_phase"`
	EnergyLevel       int    `json:"energy_level" validate:"omitempty,gte=1,lte=10"`
	PreferredDuration int    `json:"preferred_duration" validate:"omitempty,gt=0,lte=240"`
}

func (app *application) generateWorkoutPOST(w http.ResponseWriter, r *http.Request) {
	var req generateWorkoutRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	var phase cycle.Phase
	if req.CyclePhase != "" {
		phase, _ = cycle.Parse(req.CyclePhase)
	}
	plan, err := app.workoutService.GenerateWorkout(r.Context(), workout.WorkoutRequest{
		UserID:            req.UserID,
		CyclePhase:        phase,
		EnergyLevel:       req.EnergyLevel,
		PreferredDuration: req.PreferredDuration,
	})
	if err != nil {
		app.serviceError(w, r, err, "user not found")
		return
	}
	w.Header().Set("Location", "/api/workouts/"+plan.ID)
	app.writeJSON(w, r, http.StatusCreated, plan)
}

func (app *application) workoutGET(w http.ResponseWriter, r *http.Request) {
	plan, err := app.workoutService.GetWorkout(r.Context(), r.PathValue("workoutID"))
	if err != nil {
		app.serviceError(w, r, err, "workout not found")
		return
	}
	app.writeJSON(w, r, http.StatusOK, plan)
}

type workoutFeedbackRequest struct {
	WorkoutID          string `json:"workout_id" validate:"required,uuid"`
	CompletedExercises []int  `json:"completed_exercises" validate:"omitempty,dive,gt=0"`
	DifficultyRating   int    `json:"difficulty_rating" validate:"required,gte=1,lte=5"`
	EnergyLevel        int    `json:"energy_level" validate:"required,gte=1,lte=10"`
	Feedback           string `json:"feedback" validate:"max=2000"`
}

func (app *application) workoutFeedbackPOST(w http.ResponseWriter, r *http.Request) {
	var req workoutFeedbackRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	err := app.workoutService.SubmitFeedback(r.Context(), workout.Feedback{
		WorkoutID:          req.WorkoutID,
		CompletedExercises: req.CompletedExercises,
		DifficultyRating:   req.DifficultyRating,
		EnergyLevel:        req.EnergyLevel,
		Comment:            req.Feedback,
	})
	if err != nil {
		app.serviceError(w, r, err, "workout not found")
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]string{"status": "success"})
}
