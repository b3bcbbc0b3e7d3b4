package workout

import (
	"math/rand/v2"

	"github.com/myrjola/cyclefit/internal/catalog"
	"github.com/myrjola/cyclefit/internal/difficulty"
)

// Engine generates workout plans. It holds only read-only state and is safe for
// concurrent use.
type Engine struct {
	catalog    *catalog.Catalog
	tables     *Tables
	classifier *difficulty.Classifier
	newRand    func() *rand.Rand
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRandSource sets the function that supplies the random source of each
// GenerateWorkout call. The returned source must not be shared between calls.
func WithRandSource(newRand func() *rand.Rand) EngineOption {
	return func(e *Engine) {
		e.newRand = newRand
	}
}

// WithSeed makes every GenerateWorkout call draw from a source seeded with seed.
func WithSeed(seed uint64) EngineOption {
	return WithRandSource(func() *rand.Rand {
		return rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // exercise sampling is not security sensitive
	})
}

// NewEngine creates an engine drawing exercises from c.
func NewEngine(c *catalog.Catalog, tables *Tables, classifier *difficulty.Classifier, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog:    c,
		tables:     tables,
		classifier: classifier,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // exercise sampling is not security sensitive
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the exercise catalog of the engine.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// GenerateWorkout composes, adjusts and finalizes a plan for profile and rates the
// difficulty of every exercise.
//
// A tracked cycle phase is applied in two independent steps: AdjustForCycle scales
// intensity right after composition and AdjustIntensityForCycle scales volume during
// finalization.
func (e *Engine) GenerateWorkout(profile UserProfile) Plan {
	return e.generate(profile, e.newRand())
}

func (e *Engine) generate(profile UserProfile, rng *rand.Rand) Plan {
	base := e.CreateBasePlan(profile, rng)
	if profile.CyclePhase != "" {
		base = e.AdjustForCycle(base, profile.CyclePhase)
	}
	plan := e.Finalize(base, profile)
	for i := range plan.Exercises {
		plan.Exercises[i].PredictedDifficulty = e.PredictExerciseDifficulty(plan.Exercises[i])
	}
	return plan
}

// PredictExerciseDifficulty rates ex on a 1 to 5 scale.
func (e *Engine) PredictExerciseDifficulty(ex PlanExercise) int {
	return e.PredictDifficulty(ex.Exercise)
}

// PredictDifficulty rates a catalog exercise on a 1 to 5 scale.
func (e *Engine) PredictDifficulty(ex catalog.Exercise) int {
	return e.classifier.PredictExercise(ex.TargetMuscles, ex.EquipmentNeeded, ex.CardioIntensity, ex.StrengthIntensity)
}
