package workout

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/myrjola/cyclefit/internal/catalog"
	"github.com/myrjola/cyclefit/internal/cycle"
	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTables []byte

// Split maps exercise categories to their proportion of a plan.
type Split map[catalog.Category]float64

// Sum returns the total weight of the split.
func (s Split) Sum() float64 {
	total := 0.0
	for _, w := range s {
		total += w
	}
	return total
}

// Clone returns a copy of s.
func (s Split) Clone() Split {
	return maps.Clone(s)
}

// normalized scales s to sum to 1. A split without positive weight is returned unchanged.
func (s Split) normalized() Split {
	total := s.Sum()
	out := make(Split, len(s))
	for c, w := range s {
		if total > 0 {
			w /= total
		}
		out[c] = w
	}
	return out
}

// CycleIntensity scales exercise intensity right after a plan is composed.
type CycleIntensity struct {
	Intensity float64 `yaml:"intensity"`
	// Focus lists the category names whose sets are rescaled. Entries that are not
	// catalog categories never match.
	Focus []string `yaml:"focus"`
}

// FinalizeIntensity holds the volume modifiers applied while finalizing a plan.
type FinalizeIntensity struct {
	Sets           float64 `yaml:"sets"`
	Reps           float64 `yaml:"reps"`
	CardioDuration float64 `yaml:"cardio_duration"`
	Advice         string  `yaml:"advice"`
}

// Recommendations is phase specific guidance attached to a plan.
type Recommendations struct {
	Workout   string `json:"workout" yaml:"workout"`
	Nutrition string `json:"nutrition" yaml:"nutrition"`
	Recovery  string `json:"recovery" yaml:"recovery"`
}

type coaching struct {
	General    string                      `yaml:"general"`
	Categories map[catalog.Category]string `yaml:"categories"`
}

type recoveryInjection struct {
	Weight float64       `yaml:"weight"`
	Phases []cycle.Phase `yaml:"phases"`
}

type tablesFile struct {
	GoalSplits             map[string]Split                  `yaml:"goal_splits"`
	DefaultSplit           Split                             `yaml:"default_split"`
	PhaseSplitFactors      map[cycle.Phase]Split             `yaml:"phase_split_factors"`
	RecoveryInjection      recoveryInjection                 `yaml:"recovery_injection"`
	CycleIntensity         map[cycle.Phase]CycleIntensity    `yaml:"cycle_intensity"`
	FinalizeIntensity      map[cycle.Phase]FinalizeIntensity `yaml:"finalize_intensity"`
	DefaultIntensityAdvice string                            `yaml:"default_intensity_advice"`
	PhaseRecommendations   map[cycle.Phase]Recommendations   `yaml:"phase_recommendations"`
	DefaultRecommendations Recommendations                   `yaml:"default_recommendations"`
	PhaseAdvice            map[cycle.Phase]coaching          `yaml:"phase_advice"`
	DefaultPhaseAdvice     string                            `yaml:"default_phase_advice"`
}

// Tables holds the lookup tables that drive plan generation. Tables is immutable and every
// accessor returns a copy, so a single value can be shared between goroutines.
type Tables struct {
	t tablesFile
}

// LoadTables decodes the tables bundled with the binary.
func LoadTables() (*Tables, error) {
	t, err := ParseTables(defaultTables)
	if err != nil {
		return nil, fmt.Errorf("parse bundled tables: %w", err)
	}
	return t, nil
}

// ParseTables decodes and validates a YAML tables document.
func ParseTables(data []byte) (*Tables, error) {
	var f tablesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal tables: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &Tables{t: f}, nil
}

func (f tablesFile) validate() error {
	if len(f.DefaultSplit) == 0 {
		return errors.New("default split is empty")
	}
	for name, split := range f.GoalSplits {
		if err := validateSplit(split); err != nil {
			return fmt.Errorf("goal %q: %w", name, err)
		}
	}
	if err := validateSplit(f.DefaultSplit); err != nil {
		return fmt.Errorf("default split: %w", err)
	}
	for _, p := range cycle.Phases() {
		if _, ok := f.PhaseSplitFactors[p]; !ok {
			return fmt.Errorf("phase %s: missing split factors", p)
		}
		if _, ok := f.CycleIntensity[p]; !ok {
			return fmt.Errorf("phase %s: missing cycle intensity", p)
		}
		if _, ok := f.FinalizeIntensity[p]; !ok {
			return fmt.Errorf("phase %s: missing finalize intensity", p)
		}
		if _, ok := f.PhaseRecommendations[p]; !ok {
			return fmt.Errorf("phase %s: missing recommendations", p)
		}
		if _, ok := f.PhaseAdvice[p]; !ok {
			return fmt.Errorf("phase %s: missing advice", p)
		}
	}
	for _, p := range f.RecoveryInjection.Phases {
		if !p.Known() {
			return fmt.Errorf("recovery injection: unknown phase %q", p)
		}
	}
	if f.RecoveryInjection.Weight < 0 {
		return errors.New("recovery injection: negative weight")
	}
	return nil
}

func validateSplit(s Split) error {
	for c, w := range s {
		if !c.Known() {
			return fmt.Errorf("unknown category %q", c)
		}
		if w < 0 {
			return fmt.Errorf("negative weight for %s", c)
		}
	}
	return nil
}

// Goals lists the fitness goals with a dedicated split in sorted order.
func (t *Tables) Goals() []string {
	return slices.Sorted(maps.Keys(t.t.GoalSplits))
}

// HasGoal reports whether goal has a dedicated split.
func (t *Tables) HasGoal(goal string) bool {
	_, ok := t.t.GoalSplits[goal]
	return ok
}

// GoalSplit returns the category split of goal, or the default split for unknown goals.
func (t *Tables) GoalSplit(goal string) Split {
	if s, ok := t.t.GoalSplits[goal]; ok {
		return s.Clone()
	}
	return t.t.DefaultSplit.Clone()
}

// PhaseSplitFactors returns the split multipliers of phase. The second result is false
// for unrecognized phases.
func (t *Tables) PhaseSplitFactors(phase cycle.Phase) (Split, bool) {
	f, ok := t.t.PhaseSplitFactors[phase]
	return f.Clone(), ok
}

// RecoveryInjection returns the recovery weight added to splits during phase. The second
// result is false when phase receives no injection.
func (t *Tables) RecoveryInjection(phase cycle.Phase) (float64, bool) {
	if !slices.Contains(t.t.RecoveryInjection.Phases, phase) {
		return 0, false
	}
	return t.t.RecoveryInjection.Weight, true
}

// CycleIntensity returns the post-composition intensity adjustment of phase. Unrecognized
// phases get a neutral multiplier and no focus categories.
func (t *Tables) CycleIntensity(phase cycle.Phase) CycleIntensity {
	ci, ok := t.t.CycleIntensity[phase]
	if !ok {
		return CycleIntensity{Intensity: 1}
	}
	ci.Focus = slices.Clone(ci.Focus)
	return ci
}

// FinalizeIntensity returns the finalization modifiers of phase. Unrecognized phases get
// neutral modifiers and the default advice.
func (t *Tables) FinalizeIntensity(phase cycle.Phase) FinalizeIntensity {
	fi, ok := t.t.FinalizeIntensity[phase]
	if !ok {
		return FinalizeIntensity{Sets: 1, Reps: 1, CardioDuration: 1, Advice: t.t.DefaultIntensityAdvice}
	}
	return fi
}

// PhaseRecommendations returns the workout, nutrition and recovery guidance of phase with
// a generic fallback for unrecognized phases.
func (t *Tables) PhaseRecommendations(phase cycle.Phase) Recommendations {
	if r, ok := t.t.PhaseRecommendations[phase]; ok {
		return r
	}
	return t.t.DefaultRecommendations
}

// PhaseAdvice returns the coaching sentence of phase, followed by the category specific
// sentence when category has one. Unrecognized phases get the generic fallback.
func (t *Tables) PhaseAdvice(phase cycle.Phase, category catalog.Category) string {
	c, ok := t.t.PhaseAdvice[phase]
	if !ok {
		return t.t.DefaultPhaseAdvice
	}
	if extra, ok := c.Categories[category]; ok && extra != "" {
		return c.General + " " + extra
	}
	return c.General
}
