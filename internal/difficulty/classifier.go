// Package difficulty predicts a 1 to 5 difficulty rating for exercises.
//
// The model is a small random forest fitted once from a fixed training set when the
// Classifier is constructed. Prediction is a pure function of the feature vector.
package difficulty

// NumFeatures is the length of a FeatureVector.
const NumFeatures = 5

// Label bounds.
const (
	MinLabel     = 1
	MaxLabel     = 5
	DefaultLabel = 3
)

// compoundMuscleThreshold is the muscle count above which a movement counts as compound.
const compoundMuscleThreshold = 2

// FeatureVector holds [targetMuscleCount, equipmentCount, isCompound, cardioIntensity,
// strengthIntensity].
type FeatureVector [NumFeatures]float64

// Sample is a labelled training example.
type Sample struct {
	Features FeatureVector
	Label    int
}

// Features extracts the feature vector of an exercise. A zero intensity is an absent value
// and defaults to 1.
func Features(targetMuscles, equipment []string, cardioIntensity, strengthIntensity int) FeatureVector {
	compound := 0.0
	if len(targetMuscles) > compoundMuscleThreshold {
		compound = 1
	}
	return FeatureVector{
		float64(len(targetMuscles)),
		float64(len(equipment)),
		compound,
		float64(intensityOrDefault(cardioIntensity)),
		float64(intensityOrDefault(strengthIntensity)),
	}
}

func intensityOrDefault(v int) int {
	if v == 0 {
		return 1
	}
	return v
}

// TrainingSet returns the fixed training samples, three per difficulty label.
func TrainingSet() []Sample {
	return []Sample{
		// Easy
		{FeatureVector{1, 0, 0, 1, 1}, 1}, // walking
		{FeatureVector{2, 0, 0, 1, 2}, 1}, // body weight squats
		{FeatureVector{1, 0, 0, 2, 1}, 1}, // arm circles
		// Moderate
		{FeatureVector{2, 1, 0, 2, 2}, 2}, // dumbbell curls
		{FeatureVector{3, 0, 1, 2, 2}, 2}, // push-ups
		{FeatureVector{2, 1, 0, 3, 2}, 2}, // resistance band rows
		// Intermediate
		{FeatureVector{3, 1, 1, 3, 3}, 3}, // kettlebell swings
		{FeatureVector{4, 2, 1, 2, 3}, 3}, // barbell bench press
		{FeatureVector{3, 1, 1, 3, 3}, 3}, // dumbbell lunges
		// Advanced
		{FeatureVector{4, 2, 1, 4, 4}, 4}, // clean and press
		{FeatureVector{5, 2, 1, 3, 4}, 4}, // barbell deadlifts
		{FeatureVector{4, 1, 1, 4, 4}, 4}, // plyometric push-ups
		// Expert
		{FeatureVector{5, 2, 1, 5, 5}, 5}, // olympic snatch
		{FeatureVector{5, 2, 1, 4, 5}, 5}, // heavy compound supersets
		{FeatureVector{4, 1, 1, 5, 5}, 5}, // muscle-ups
	}
}

// Classifier predicts exercise difficulty.
type Classifier struct {
	forest *Forest
}

// NewClassifier fits the default forest on TrainingSet.
func NewClassifier() *Classifier {
	return &Classifier{forest: Fit(TrainingSet(), DefaultForestConfig())}
}

// Predict returns the difficulty label for v, always in [MinLabel, MaxLabel].
func (c *Classifier) Predict(v FeatureVector) int {
	return min(max(c.forest.Predict(v), MinLabel), MaxLabel)
}

// PredictExercise extracts the features of an exercise and predicts its difficulty.
func (c *Classifier) PredictExercise(targetMuscles, equipment []string, cardioIntensity, strengthIntensity int) int {
	return c.Predict(Features(targetMuscles, equipment, cardioIntensity, strengthIntensity))
}
