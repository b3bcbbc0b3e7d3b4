package workout

import (
	"math"
	"math/rand/v2"

	"github.com/myrjola/cyclefit/internal/catalog"
)

// Plan composition constants.
const (
	// ExerciseBudget is distributed between categories by their split proportion.
	ExerciseBudget = 5
	// DefaultDurationMinutes is the planned length of every workout.
	DefaultDurationMinutes = 45
	// DefaultDifficulty is used for plans without exercises.
	DefaultDifficulty = 3.0

	DefaultStrengthSets   = 3
	DefaultStrengthReps   = 12
	DefaultSets           = 1
	DefaultCardioSeconds  = 30
	DefaultStretchSeconds = 45
	DefaultIntensity      = 1.0
)

// CreateBasePlan composes a plan for profile, drawing exercises with rng.
//
// Categories sample floor(ExerciseBudget × proportion) distinct exercises from the phase
// suitable pool, falling back to the whole category when nothing suits the phase. Samples
// are clamped to the pool size and categories missing from the catalog are skipped.
func (e *Engine) CreateBasePlan(profile UserProfile, rng *rand.Rand) BasePlan {
	split := e.tables.GoalSplit(profile.FitnessGoal)
	if profile.CyclePhase != "" {
		split = e.AdjustSplit(split, profile.CyclePhase)
	}

	all := e.catalog.All()
	pools := all
	if profile.CyclePhase != "" {
		pools = e.catalog.FilterByPhase(profile.CyclePhase)
	}

	var exercises []PlanExercise
	for _, category := range splitCategories(split) {
		p := split[category]
		if p <= 0 || !e.catalog.Has(category) {
			continue
		}
		target := int(math.Floor(ExerciseBudget * p))
		if target == 0 {
			continue
		}

		pool := pools[category]
		if len(pool) == 0 {
			pool = all[category]
		}
		for _, i := range sampleIndices(rng, len(pool), target) {
			exercises = append(exercises, newPlanExercise(pool[i]))
		}
	}

	return BasePlan{
		Split:         split,
		Exercises:     exercises,
		TotalDuration: DefaultDurationMinutes,
		Difficulty:    meanDifficulty(exercises),
	}
}

// splitCategories returns the categories of split in canonical order so that a seeded
// rng draws the same plan every time.
func splitCategories(split Split) []catalog.Category {
	categories := make([]catalog.Category, 0, len(split))
	for c := range split {
		categories = append(categories, c)
	}
	catalog.SortCategories(categories)
	return categories
}

// sampleIndices draws min(k, n) distinct indices from [0, n) uniformly at random.
func sampleIndices(rng *rand.Rand, n, k int) []int {
	if n == 0 {
		return nil
	}
	return rng.Perm(n)[:min(k, n)]
}

func newPlanExercise(ex catalog.Exercise) PlanExercise {
	pe := PlanExercise{Exercise: ex, Intensity: DefaultIntensity}
	switch ex.Category {
	case catalog.CategoryStrength:
		pe.Sets = DefaultStrengthSets
		pe.Reps = RepCount(DefaultStrengthReps)
	case catalog.CategoryCardio:
		pe.Sets = DefaultSets
		pe.Reps = RepSeconds(DefaultCardioSeconds)
	case catalog.CategoryFlexibility, catalog.CategoryRecovery:
		pe.Sets = DefaultSets
		pe.Reps = RepSeconds(DefaultStretchSeconds)
	}
	return pe
}

func meanDifficulty(exercises []PlanExercise) float64 {
	if len(exercises) == 0 {
		return DefaultDifficulty
	}
	total := 0
	for _, ex := range exercises {
		total += ex.BaseDifficulty
	}
	return float64(total) / float64(len(exercises))
}

// round rounds half to even.
func round(x float64) int {
	return int(math.RoundToEven(x))
}
