package workout

import (
	"github.com/myrjola/cyclefit/internal/catalog"
)

// Fitness level scaling.
const (
	fitnessLevelStep      = 0.2
	MinFitnessSets        = 2
	MinFitnessCardioCount = 15
)

// FitnessModifier maps fitness levels 1 to 5 onto 0.6 to 1.4 in steps of 0.2.
func FitnessModifier(level int) float64 {
	return float64(level-DefaultFitnessLevel)*fitnessLevelStep + 1
}

// Finalize scales the plan for the fitness level of profile, applies the finalization
// phase adjustment when the profile tracks a cycle phase and attaches the summary.
func (e *Engine) Finalize(base BasePlan, profile UserProfile) Plan {
	level := profile.level()
	modifier := FitnessModifier(level)

	exercises := cloneExercises(base.Exercises)
	for i := range exercises {
		ex := &exercises[i]
		switch ex.Category {
		case catalog.CategoryStrength:
			ex.Sets = max(MinFitnessSets, round(float64(ex.Sets)*modifier))
			if ex.Reps.IsCount() {
				ex.Reps = RepCount(max(MinReps, round(float64(ex.Reps.Count)*modifier)))
			}
		case catalog.CategoryCardio:
			if ex.Reps.IsCount() {
				ex.Reps = RepCount(max(MinFitnessCardioCount, round(float64(ex.Reps.Count)*modifier)))
			}
		case catalog.CategoryFlexibility, catalog.CategoryRecovery:
		}
	}

	plan := Plan{
		Split:         base.Split.Clone(),
		Exercises:     exercises,
		TotalDuration: base.TotalDuration,
		Difficulty:    base.Difficulty,
	}

	phase := NotTracked
	if profile.CyclePhase != "" {
		plan = e.AdjustIntensityForCycle(plan, profile.CyclePhase)
		recs := e.PhaseRecommendations(profile.CyclePhase)
		plan.PhaseRecommendations = &recs
		phase = profile.CyclePhase.String()
	}

	plan.Summary = summarize(plan.Exercises, level, phase)
	return plan
}

func summarize(exercises []PlanExercise, level int, phase string) Summary {
	composition := make(map[catalog.Category]int)
	for _, ex := range exercises {
		composition[ex.Category]++
	}
	avg := meanDifficulty(exercises)
	return Summary{
		ExerciseCount:         len(exercises),
		AverageDifficulty:     avg,
		RelativeDifficulty:    avg * MaxFitnessLevel / float64(level),
		CompositionByCategory: composition,
		CyclePhase:            phase,
	}
}
