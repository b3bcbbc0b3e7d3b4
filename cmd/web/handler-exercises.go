package main

import (
	"net/http"
	"strconv"

	"github.com/myrjola/cyclefit/internal/catalog"
	"github.com/myrjola/cyclefit/internal/cycle"
	"github.com/myrjola/cyclefit/internal/workout"
)

type exerciseQuery struct {
	Category string `json:"category" validate:"omitempty,category"`
	Phase    string `json:"phase" validate:"omitempty,cycle_phase"`
}

func (q exerciseQuery) filter() workout.ExerciseFilter {
	var phase cycle.Phase
	if q.Phase != "" {
		phase, _ = cycle.Parse(q.Phase)
	}
	return workout.ExerciseFilter{Category: catalog.Category(q.Category), Phase: phase}
}

func parseExerciseQuery(r *http.Request) exerciseQuery {
	return exerciseQuery{
		Category: r.URL.Query().Get("category"),
		Phase:    r.URL.Query().Get("phase"),
	}
}

func (app *application) exercisesAPIGET(w http.ResponseWriter, r *http.Request) {
	query := parseExerciseQuery(r)
	if !app.validateQuery(w, r, query) {
		return
	}
	exercises := app.workoutService.ListExercises(query.filter())
	if exercises == nil {
		exercises = []catalog.Exercise{}
	}
	app.writeJSON(w, r, http.StatusOK, exercises)
}

type exerciseDifficultyResponse struct {
	ExerciseID          int    `json:"exercise_id"`
	Name                string `json:"name"`
	BaseDifficulty      int    `json:"base_difficulty"`
	PredictedDifficulty int    `json:"predicted_difficulty"`
}

func (app *application) exerciseDifficultyGET(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := app.parseIDParam(w, r, "exerciseID")
	if !ok {
		return
	}
	ex, err := app.workoutService.GetExercise(exerciseID)
	if err != nil {
		app.serviceError(w, r, err, "exercise not found")
		return
	}
	label, err := app.workoutService.PredictDifficulty(exerciseID)
	if err != nil {
		app.serviceError(w, r, err, "exercise not found")
		return
	}
	app.writeJSON(w, r, http.StatusOK, exerciseDifficultyResponse{
		ExerciseID:          ex.ID,
		Name:                ex.Name,
		BaseDifficulty:      ex.BaseDifficulty,
		PredictedDifficulty: label,
	})
}

type exercisesTemplateData struct {
	BaseTemplateData
	Groups        []exerciseGroup
	SelectedPhase cycle.Phase
}

type exerciseGroup struct {
	Category  catalog.Category
	Exercises []catalog.Exercise
}

// exercisesGET renders the catalog grouped by category, optionally narrowed to a phase.
func (app *application) exercisesGET(w http.ResponseWriter, r *http.Request) {
	query := parseExerciseQuery(r)
	query.Category = ""
	if query.Phase != "" {
		if _, known := cycle.Parse(query.Phase); !known {
			app.notFound(w, r)
			return
		}
	}
	filter := query.filter()

	var groups []exerciseGroup
	for _, ex := range app.workoutService.ListExercises(filter) {
		if len(groups) == 0 || groups[len(groups)-1].Category != ex.Category {
			groups = append(groups, exerciseGroup{Category: ex.Category, Exercises: nil})
		}
		last := &groups[len(groups)-1]
		last.Exercises = append(last.Exercises, ex)
	}

	app.render(w, r, http.StatusOK, "exercises", exercisesTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Groups:           groups,
		SelectedPhase:    filter.Phase,
	})
}

type exerciseInfoTemplateData struct {
	BaseTemplateData
	Exercise            catalog.Exercise
	PredictedDifficulty int
	Advice              []workout.Coaching
}

// exerciseInfoGET renders an exercise with its markdown description and the phase advice of its category.
func (app *application) exerciseInfoGET(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := strconv.Atoi(r.PathValue("exerciseID"))
	if err != nil {
		app.notFound(w, r)
		return
	}
	ex, err := app.workoutService.GetExercise(exerciseID)
	if err != nil {
		app.notFound(w, r)
		return
	}
	label, err := app.workoutService.PredictDifficulty(exerciseID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	phases := ex.SuitableForPhases
	if len(phases) == 0 {
		phases = cycle.Phases()
	}
	advice := make([]workout.Coaching, 0, len(phases))
	for _, phase := range phases {
		advice = append(advice, app.workoutService.PhaseAdvice(phase, ex.Category))
	}

	app.render(w, r, http.StatusOK, "exercise-info", exerciseInfoTemplateData{
		BaseTemplateData:    newBaseTemplateData(r),
		Exercise:            ex,
		PredictedDifficulty: label,
		Advice:              advice,
	})
}
