package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/cyclefit/internal/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

const timestampFormat = "2006-01-02T15:04:05.000Z"
const dateFormat = time.DateOnly

// userRepository persists user profiles.
type userRepository interface {
	Create(ctx context.Context, user User) (User, error)
	Get(ctx context.Context, id int) (User, error)
	Update(ctx context.Context, id int, update UserUpdate) (User, error)
}

// metricsRepository persists body measurements.
type metricsRepository interface {
	Add(ctx context.Context, m Metrics) (Metrics, error)
	Latest(ctx context.Context, userID int) (Metrics, error)
}

// cycleLogRepository persists period start dates.
type cycleLogRepository interface {
	Add(ctx context.Context, log CycleLog) (CycleLog, error)
	Latest(ctx context.Context, userID int) (CycleLog, error)
}

// planRepository persists generated plans.
type planRepository interface {
	Create(ctx context.Context, plan StoredPlan, req WorkoutRequest) error
	Get(ctx context.Context, id string) (StoredPlan, error)
	List(ctx context.Context, userID int) ([]StoredPlan, error)
}

// feedbackRepository persists workout feedback.
type feedbackRepository interface {
	// Submit stores fb and marks the plan completed in one transaction.
	Submit(ctx context.Context, fb Feedback, completedAt time.Time) error
}

// repository bundles the repositories used by Service.
type repository struct {
	users    userRepository
	metrics  metricsRepository
	cycles   cycleLogRepository
	plans    planRepository
	feedback feedbackRepository
}

// repositoryFactory creates repositories sharing one database.
type repositoryFactory struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newRepositoryFactory(db *sqlite.Database, logger *slog.Logger) *repositoryFactory {
	return &repositoryFactory{
		db:     db,
		logger: logger,
	}
}

func (f *repositoryFactory) newRepository() *repository {
	return &repository{
		users:    newSQLiteUserRepository(f.db),
		metrics:  newSQLiteMetricsRepository(f.db),
		cycles:   newSQLiteCycleLogRepository(f.db),
		plans:    newSQLitePlanRepository(f.db),
		feedback: newSQLiteFeedbackRepository(f.db, f.logger),
	}
}

// baseRepository holds what every SQLite repository needs.
type baseRepository struct {
	db *sqlite.Database
}

func newBaseRepository(db *sqlite.Database) baseRepository {
	return baseRepository{db: db}
}

// notFound maps sql.ErrNoRows to ErrNotFound and wraps other errors with msg.
func notFound(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

// parseTimestamp parses a timestamp written by formatTimestamp or the strftime column defaults.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// parseNullTimestamp parses a nullable timestamp column.
func parseNullTimestamp(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil //nolint:nilnil // nil time is expected when the column is NULL.
	}
	t, err := parseTimestamp(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
