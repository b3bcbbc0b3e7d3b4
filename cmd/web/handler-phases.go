package main

import (
	"net/http"

	"github.com/myrjola/cyclefit/internal/catalog"
	"github.com/myrjola/cyclefit/internal/cycle"
)

type phaseAdviceQuery struct {
	Category string `json:"category" validate:"omitempty,category"`
}

// phaseAdviceGET returns the coaching text of a phase. Unrecognized phases get the generic advice.
func (app *application) phaseAdviceGET(w http.ResponseWriter, r *http.Request) {
	query := phaseAdviceQuery{Category: r.URL.Query().Get("category")}
	if !app.validateQuery(w, r, query) {
		return
	}
	phase, _ := cycle.Parse(r.PathValue("phase"))
	app.writeJSON(w, r, http.StatusOK, app.workoutService.PhaseAdvice(phase, catalog.Category(query.Category)))
}
