package workout

import (
	"slices"

	"github.com/myrjola/cyclefit/internal/catalog"
	"github.com/myrjola/cyclefit/internal/cycle"
)

// Phase adjustment limits.
const (
	MinFocusSets     = 2
	MinFinalizeSets  = 1
	MinReps          = 5
	MinCardioSeconds = 15
)

// AdjustSplit reweights split for phase and renormalizes it to sum to 1.
//
// Categories without a phase factor keep their weight. During phases with recovery
// injection a recovery category is added when split has none. An unrecognized phase
// returns the split unchanged.
func (e *Engine) AdjustSplit(split Split, phase cycle.Phase) Split {
	factors, ok := e.tables.PhaseSplitFactors(phase)
	if !ok {
		return split.Clone()
	}

	adjusted := make(Split, len(split)+1)
	for category, w := range split {
		f, ok := factors[category]
		if !ok {
			f = 1
		}
		adjusted[category] = w * f
	}
	if w, inject := e.tables.RecoveryInjection(phase); inject {
		if _, present := adjusted[catalog.CategoryRecovery]; !present {
			adjusted[catalog.CategoryRecovery] = w
		}
	}
	return adjusted.normalized()
}

// AdjustForCycle scales the intensity of every exercise by the phase intensity factor.
// Exercises in a focus category of the phase also get their sets rescaled, never below
// MinFocusSets.
func (e *Engine) AdjustForCycle(plan BasePlan, phase cycle.Phase) BasePlan {
	adj := e.tables.CycleIntensity(phase)
	plan = plan.clone()
	for i := range plan.Exercises {
		ex := &plan.Exercises[i]
		ex.Intensity *= adj.Intensity
		if slices.Contains(adj.Focus, string(ex.Category)) {
			ex.Sets = max(MinFocusSets, round(float64(ex.Sets)*adj.Intensity))
		}
	}
	return plan
}

// AdjustIntensityForCycle applies the finalization volume modifiers of phase and attaches
// its intensity advice.
//
// Strength sets and numeric reps are rescaled. Cardio durations of the form "<n> seconds"
// are rescaled with a floor of MinCardioSeconds. Durations that do not parse are kept.
func (e *Engine) AdjustIntensityForCycle(plan Plan, phase cycle.Phase) Plan {
	mods := e.tables.FinalizeIntensity(phase)
	plan.Exercises = cloneExercises(plan.Exercises)
	for i := range plan.Exercises {
		ex := &plan.Exercises[i]
		switch ex.Category {
		case catalog.CategoryStrength:
			ex.Sets = max(MinFinalizeSets, round(float64(ex.Sets)*mods.Sets))
			if ex.Reps.IsCount() {
				ex.Reps = RepCount(max(MinReps, round(float64(ex.Reps.Count)*mods.Reps)))
			}
		case catalog.CategoryCardio:
			if seconds, ok := ex.Reps.Seconds(); ok {
				ex.Reps = RepSeconds(max(MinCardioSeconds, round(float64(seconds)*mods.CardioDuration)))
			}
		case catalog.CategoryFlexibility, catalog.CategoryRecovery:
		}
	}
	plan.IntensityAdvice = mods.Advice
	return plan
}

// PhaseRecommendations returns the workout, nutrition and recovery guidance for phase.
func (e *Engine) PhaseRecommendations(phase cycle.Phase) Recommendations {
	return e.tables.PhaseRecommendations(phase)
}

// PhaseAdvice returns coaching text for phase, optionally specialised for category. Pass
// an empty category for the general advice only.
func (e *Engine) PhaseAdvice(phase cycle.Phase, category catalog.Category) string {
	return e.tables.PhaseAdvice(phase, category)
}
