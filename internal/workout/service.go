package workout

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/cyclefit/internal/catalog"
	"github.com/myrjola/cyclefit/internal/cycle"
	"github.com/myrjola/cyclefit/internal/errors"
	"github.com/myrjola/cyclefit/internal/metrics"
	"github.com/myrjola/cyclefit/internal/sqlite"
)

// Service persists users and their plans and generates plans with an Engine.
type Service struct {
	repo       *repository
	db         *sqlite.Database
	engine     *Engine
	boundaries cycle.Boundaries
	now        func() time.Time
	logger     *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithBoundaries sets the cycle boundaries used to derive the current phase.
func WithBoundaries(b cycle.Boundaries) ServiceOption {
	return func(s *Service) {
		s.boundaries = b
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new workout service.
func NewService(db *sqlite.Database, engine *Engine, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		repo:       newRepositoryFactory(db, logger).newRepository(),
		db:         db,
		engine:     engine,
		boundaries: cycle.DefaultBoundaries(),
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser stores a new user. A zero fitness level is stored as DefaultFitnessLevel.
func (s *Service) CreateUser(ctx context.Context, user User) (User, error) {
	if user.FitnessLevel == 0 {
		user.FitnessLevel = DefaultFitnessLevel
	}
	created, err := s.repo.users.Create(ctx, user)
	if err != nil {
		return User{}, errors.Wrap(err, "create user", slog.String("username", user.Username))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "created user", slog.Int("userID", created.ID))
	return created, nil
}

// GetUser returns the user with id or ErrNotFound.
func (s *Service) GetUser(ctx context.Context, id int) (User, error) {
	user, err := s.repo.users.Get(ctx, id)
	if err != nil {
		return User{}, errors.Wrap(err, "get user", slog.Int("userID", id))
	}
	return user, nil
}

// UpdateUser applies update to the user with id.
func (s *Service) UpdateUser(ctx context.Context, id int, update UserUpdate) (User, error) {
	user, err := s.repo.users.Update(ctx, id, update)
	if err != nil {
		return User{}, errors.Wrap(err, "update user", slog.Int("userID", id))
	}
	return user, nil
}

// RecordMetrics stores a body measurement.
func (s *Service) RecordMetrics(ctx context.Context, m Metrics) (Metrics, error) {
	stored, err := s.repo.metrics.Add(ctx, m)
	if err != nil {
		return Metrics{}, errors.Wrap(err, "record metrics", slog.Int("userID", m.UserID))
	}
	return stored, nil
}

// LatestMetrics returns the most recent measurement of userID or ErrNotFound.
func (s *Service) LatestMetrics(ctx context.Context, userID int) (Metrics, error) {
	m, err := s.repo.metrics.Latest(ctx, userID)
	if err != nil {
		return Metrics{}, errors.Wrap(err, "latest metrics", slog.Int("userID", userID))
	}
	return m, nil
}

// LogCycle records the start of a period. A zero cycle length uses the configured length.
func (s *Service) LogCycle(ctx context.Context, log CycleLog) (CycleLog, error) {
	if log.CycleLength == 0 {
		log.CycleLength = s.boundaries.CycleLengthDays
	}
	stored, err := s.repo.cycles.Add(ctx, log)
	if err != nil {
		return CycleLog{}, errors.Wrap(err, "log cycle", slog.Int("userID", log.UserID))
	}
	return stored, nil
}

// CurrentPhase derives the phase of userID on day from the latest cycle log. A zero day means
// today. ErrNotFound is returned when the user has logged no cycle.
func (s *Service) CurrentPhase(ctx context.Context, userID int, day time.Time) (cycle.Phase, error) {
	if day.IsZero() {
		day = s.now()
	}
	log, err := s.repo.cycles.Latest(ctx, userID)
	if err != nil {
		return "", errors.Wrap(err, "latest cycle log", slog.Int("userID", userID))
	}
	return cycle.PhaseOn(log.StartDate, day, s.boundaries.WithCycleLength(log.CycleLength)), nil
}

// GenerateWorkout generates and stores a plan for the requesting user.
//
// The phase given in req wins over the phase derived from the cycle logs. Users without
// cycle logs get a plan that is not tuned to any phase.
func (s *Service) GenerateWorkout(ctx context.Context, req WorkoutRequest) (StoredPlan, error) {
	start := time.Now()

	user, err := s.repo.users.Get(ctx, req.UserID)
	if err != nil {
		return StoredPlan{}, errors.Wrap(err, "get user", slog.Int("userID", req.UserID))
	}

	now := s.now()
	if req.CyclePhase == "" {
		req.CyclePhase, err = s.CurrentPhase(ctx, user.ID, now)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return StoredPlan{}, err
		}
	}

	profile := UserProfile{
		FitnessGoal:  user.FitnessGoal,
		FitnessLevel: user.FitnessLevel,
		CyclePhase:   req.CyclePhase,
		Equipment:    user.AvailableEquipment,
		WeightKg:     0,
		HeightCm:     0,
	}
	if m, metricsErr := s.repo.metrics.Latest(ctx, user.ID); metricsErr == nil {
		profile.WeightKg = m.WeightKg
		profile.HeightCm = m.HeightCm
	} else if !errors.Is(metricsErr, ErrNotFound) {
		return StoredPlan{}, errors.Wrap(metricsErr, "latest metrics", slog.Int("userID", user.ID))
	}

	plan := s.engine.GenerateWorkout(profile)
	for _, ex := range plan.Exercises {
		metrics.RecordDifficultyPrediction(ex.PredictedDifficulty)
	}

	stored := StoredPlan{
		ID:               uuid.NewString(),
		UserID:           user.ID,
		Plan:             plan,
		Completed:        false,
		DifficultyRating: nil,
		CreatedAt:        now.UTC().Truncate(time.Millisecond),
		CompletedAt:      nil,
	}
	if err = s.repo.plans.Create(ctx, stored, req); err != nil {
		return StoredPlan{}, errors.Wrap(err, "store plan", slog.String("planID", stored.ID))
	}

	metrics.RecordPlanGenerated(s.goalLabel(user.FitnessGoal), phaseLabel(req.CyclePhase),
		len(plan.Exercises), time.Since(start))
	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated workout",
		slog.String("planID", stored.ID),
		slog.Int("userID", user.ID),
		slog.String("goal", user.FitnessGoal),
		slog.String("cyclePhase", plan.Summary.CyclePhase),
		slog.Int("exercises", len(plan.Exercises)),
		slog.Float64("difficulty", plan.Difficulty))
	return stored, nil
}

// goalLabel maps free-form goals to metrics.OtherGoal.
func (s *Service) goalLabel(goal string) string {
	if s.engine.tables.HasGoal(goal) {
		return goal
	}
	return metrics.OtherGoal
}

func phaseLabel(phase cycle.Phase) string {
	if phase == "" || phase.Known() {
		return string(phase)
	}
	return "unknown"
}

// GetWorkout returns the stored plan with id or ErrNotFound.
func (s *Service) GetWorkout(ctx context.Context, id string) (StoredPlan, error) {
	plan, err := s.repo.plans.Get(ctx, id)
	if err != nil {
		return StoredPlan{}, errors.Wrap(err, "get workout", slog.String("planID", id))
	}
	return plan, nil
}

// ListWorkouts returns the plans of userID, newest first.
func (s *Service) ListWorkouts(ctx context.Context, userID int) ([]StoredPlan, error) {
	if _, err := s.repo.users.Get(ctx, userID); err != nil {
		return nil, errors.Wrap(err, "get user", slog.Int("userID", userID))
	}
	plans, err := s.repo.plans.List(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list workouts", slog.Int("userID", userID))
	}
	return plans, nil
}

// SubmitFeedback stores fb and marks its plan completed.
func (s *Service) SubmitFeedback(ctx context.Context, fb Feedback) error {
	if err := s.repo.feedback.Submit(ctx, fb, s.now()); err != nil {
		return errors.Wrap(err, "submit feedback", slog.String("planID", fb.WorkoutID))
	}
	metrics.RecordFeedback(fb.DifficultyRating)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "received workout feedback",
		slog.String("planID", fb.WorkoutID),
		slog.Int("difficultyRating", fb.DifficultyRating),
		slog.Int("energyLevel", fb.EnergyLevel),
		slog.Int("completedExercises", len(fb.CompletedExercises)))
	return nil
}

// ExerciseFilter narrows ListExercises. Zero fields match everything.
type ExerciseFilter struct {
	Category catalog.Category
	Phase    cycle.Phase
}

// ListExercises returns the catalog exercises matching filter ordered by category and id.
func (s *Service) ListExercises(filter ExerciseFilter) []catalog.Exercise {
	var exercises []catalog.Exercise
	for _, ex := range s.engine.Catalog().List() {
		if filter.Category != "" && ex.Category != filter.Category {
			continue
		}
		if filter.Phase != "" && !ex.SuitableFor(filter.Phase) {
			continue
		}
		exercises = append(exercises, ex)
	}
	return exercises
}

// GetExercise returns the catalog exercise with id or ErrNotFound.
func (s *Service) GetExercise(id int) (catalog.Exercise, error) {
	ex, ok := s.engine.Catalog().Get(id)
	if !ok {
		return catalog.Exercise{}, errors.Wrap(ErrNotFound, "get exercise", slog.Int("exerciseID", id))
	}
	return ex, nil
}

// PredictDifficulty rates the catalog exercise with id.
func (s *Service) PredictDifficulty(id int) (int, error) {
	ex, err := s.GetExercise(id)
	if err != nil {
		return 0, err
	}
	label := s.engine.PredictDifficulty(ex)
	metrics.RecordDifficultyPrediction(label)
	return label, nil
}

// Coaching is the advice for training in a phase.
type Coaching struct {
	Phase           cycle.Phase      `json:"phase"`
	Category        catalog.Category `json:"category,omitempty"`
	Advice          string           `json:"advice"`
	Recommendations Recommendations  `json:"recommendations"`
}

// PhaseAdvice returns the coaching text for phase, narrowed to category when given.
func (s *Service) PhaseAdvice(phase cycle.Phase, category catalog.Category) Coaching {
	return Coaching{
		Phase:           phase,
		Category:        category,
		Advice:          s.engine.PhaseAdvice(phase, category),
		Recommendations: s.engine.PhaseRecommendations(phase),
	}
}

// ExportUser writes everything stored about userID into a new SQLite file in dir and returns
// its path. The caller removes the file.
func (s *Service) ExportUser(ctx context.Context, userID int, dir string) (string, error) {
	path, err := s.db.ExportUser(ctx, userID, dir)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.Wrap(ErrNotFound, "export user", slog.Int("userID", userID))
	}
	if err != nil {
		return "", errors.Wrap(err, "export user", slog.Int("userID", userID))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "exported user", slog.Int("userID", userID))
	return path, nil
}

// Healthy reports whether the database is reachable.
func (s *Service) Healthy(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return errors.Wrap(err, "ping database")
	}
	return nil
}
