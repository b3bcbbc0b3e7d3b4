package workout

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/myrjola/cyclefit/internal/catalog"
	"github.com/myrjola/cyclefit/internal/cycle"
)

// Known fitness goals. Goals outside this list fall back to the default split.
const (
	GoalWeightLoss     = "Weight Loss"
	GoalMuscleGain     = "Muscle Gain"
	GoalGeneralFitness = "General Fitness"
	GoalToning         = "Toning"
	GoalEndurance      = "Endurance"
)

// Fitness level bounds.
const (
	MinFitnessLevel     = 1
	MaxFitnessLevel     = 5
	DefaultFitnessLevel = 3
)

// NotTracked is reported as the summary cycle phase when the profile has none.
const NotTracked = "not_tracked"

// UserProfile is the input to plan generation.
type UserProfile struct {
	FitnessGoal string
	// FitnessLevel in [MinFitnessLevel, MaxFitnessLevel]. Zero means DefaultFitnessLevel.
	FitnessLevel int
	// CyclePhase is empty when the cycle is not tracked.
	CyclePhase cycle.Phase
	Equipment  []string
	// WeightKg and HeightCm are informational and do not affect exercise selection.
	WeightKg float64
	HeightCm float64
}

// level returns the fitness level clamped to the valid range.
func (p UserProfile) level() int {
	if p.FitnessLevel == 0 {
		return DefaultFitnessLevel
	}
	return min(max(p.FitnessLevel, MinFitnessLevel), MaxFitnessLevel)
}

// Reps is either a repetition count or a duration such as "30 seconds".
type Reps struct {
	Count int
	// Text holds the duration. A Reps with non-empty Text is not a count.
	Text string
}

// RepCount returns a repetition count.
func RepCount(n int) Reps {
	return Reps{Count: n}
}

// RepSeconds returns a duration in seconds.
func RepSeconds(n int) Reps {
	return Reps{Text: fmt.Sprintf("%d seconds", n)}
}

// IsCount reports whether r is a repetition count.
func (r Reps) IsCount() bool {
	return r.Text == ""
}

// Seconds parses a "<n> seconds" duration.
func (r Reps) Seconds() (int, bool) {
	if !strings.HasSuffix(r.Text, "seconds") {
		return 0, false
	}
	fields := strings.Fields(r.Text)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return n, true
}

func (r Reps) String() string {
	if r.IsCount() {
		return strconv.Itoa(r.Count)
	}
	return r.Text
}

// MarshalJSON encodes counts as numbers and durations as strings.
func (r Reps) MarshalJSON() ([]byte, error) {
	if r.IsCount() {
		return []byte(strconv.Itoa(r.Count)), nil
	}
	return json.Marshal(r.Text)
}

// UnmarshalJSON accepts a number or a string.
func (r *Reps) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("unmarshal reps text: %w", err)
		}
		*r = Reps{Text: text}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unmarshal reps count: %w", err)
	}
	*r = RepCount(n)
	return nil
}

// PlanExercise is a catalog exercise with the parameters assigned for one plan. Every plan
// owns its entries.
type PlanExercise struct {
	catalog.Exercise

	Sets      int     `json:"sets"`
	Reps      Reps    `json:"reps"`
	Intensity float64 `json:"intensity"`
	// PredictedDifficulty is the classifier rating, zero until predicted.
	PredictedDifficulty int `json:"predicted_difficulty,omitempty"`
}

// BasePlan is a composed plan before finalization.
type BasePlan struct {
	// Split is the category split the exercises were sampled with.
	Split     Split
	Exercises []PlanExercise
	// TotalDuration in minutes.
	TotalDuration int
	Difficulty    float64
}

// clone returns a copy of the plan sharing no exercise entries with p.
func (p BasePlan) clone() BasePlan {
	p.Split = p.Split.Clone()
	p.Exercises = cloneExercises(p.Exercises)
	return p
}

func cloneExercises(exercises []PlanExercise) []PlanExercise {
	out := make([]PlanExercise, len(exercises))
	copy(out, exercises)
	return out
}

// Summary describes a finalized plan.
type Summary struct {
	ExerciseCount     int     `json:"exercise_count"`
	AverageDifficulty float64 `json:"average_difficulty"`
	// RelativeDifficulty scales AverageDifficulty by the fitness level so that the same plan
	// reads harder for a beginner.
	RelativeDifficulty    float64                  `json:"relative_difficulty"`
	CompositionByCategory map[catalog.Category]int `json:"composition_by_category"`
	// CyclePhase is the phase the plan was tuned for or NotTracked.
	CyclePhase string `json:"cycle_phase"`
}

// Plan is a finalized workout plan.
type Plan struct {
	Split     Split          `json:"split"`
	Exercises []PlanExercise `json:"exercises"`
	// TotalDuration in minutes.
	TotalDuration int     `json:"total_duration"`
	Difficulty    float64 `json:"difficulty"`
	// IntensityAdvice and PhaseRecommendations are only set when a cycle phase was given.
	IntensityAdvice      string           `json:"intensity_advice,omitempty"`
	PhaseRecommendations *Recommendations `json:"phase_recommendations,omitempty"`
	Summary              Summary          `json:"summary"`
}

// User is a persisted user profile.
type User struct {
	ID                 int       `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	FitnessGoal        string    `json:"fitness_goal"`
	FitnessLevel       int       `json:"fitness_level"`
	AvailableEquipment []string  `json:"available_equipment"`
	CreatedAt          time.Time `json:"created_at"`
}

// UserUpdate changes the non-nil fields of a user.
type UserUpdate struct {
	FitnessGoal        *string
	FitnessLevel       *int
	AvailableEquipment *[]string
}

// Metrics is a body measurement.
type Metrics struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	WeightKg   float64   `json:"weight"`
	HeightCm   float64   `json:"height"`
	BodyFatPct *float64  `json:"body_fat,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CycleLog records the start of a period.
type CycleLog struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	StartDate   time.Time `json:"start_date"`
	CycleLength int       `json:"cycle_length"`
	CreatedAt   time.Time `json:"created_at"`
}

// WorkoutRequest asks for a new plan.
type WorkoutRequest struct {
	UserID int
	// CyclePhase overrides the phase derived from the user's cycle logs when set.
	CyclePhase cycle.Phase
	// EnergyLevel and PreferredDuration are stored with the plan for later analysis.
	EnergyLevel       int
	PreferredDuration int
}

// StoredPlan is a persisted plan.
type StoredPlan struct {
	ID               string     `json:"id"`
	UserID           int        `json:"user_id"`
	Plan             Plan       `json:"plan"`
	Completed        bool       `json:"completed"`
	DifficultyRating *int       `json:"difficulty_rating,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// Feedback is the user's response to a plan.
type Feedback struct {
	WorkoutID          string `json:"workout_id"`
	CompletedExercises []int  `json:"completed_exercises"`
	DifficultyRating   int    `json:"difficulty_rating"`
	EnergyLevel        int    `json:"energy_level"`
	Comment            string `json:"feedback,omitempty"`
}
