package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/myrjola/cyclefit/internal/sqlite"
)

// sqliteFeedbackRepository implements feedbackRepository.
type sqliteFeedbackRepository struct {
	baseRepository
	logger *slog.Logger
}

func newSQLiteFeedbackRepository(db *sqlite.Database, logger *slog.Logger) *sqliteFeedbackRepository {
	return &sqliteFeedbackRepository{
		baseRepository: newBaseRepository(db),
		logger:         logger,
	}
}

// Submit stores fb and marks its plan completed. Feedback for an already completed plan
// replaces the stored rating and keeps the first completion time.
func (r *sqliteFeedbackRepository) Submit(ctx context.Context, fb Feedback, completedAt time.Time) error {
	completed := fb.CompletedExercises
	if completed == nil {
		completed = []int{}
	}
	completedJSON, err := json.Marshal(completed)
	if err != nil {
		return fmt.Errorf("marshal completed exercises: %w", err)
	}

	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		err = tx.Rollback()
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "rollback transaction", slog.Any("error", err))
		}
	}(tx)

	var userID int
	err = tx.QueryRowContext(ctx, `
		UPDATE workout_plans
		SET completed = 1,
		    difficulty_rating = ?,
		    completed_at = COALESCE(completed_at, ?)
		WHERE id = ?
		RETURNING user_id`,
		fb.DifficultyRating, formatTimestamp(completedAt), fb.WorkoutID).Scan(&userID)
	if err != nil {
		return notFound(err, "complete workout plan")
	}

	var comment sql.NullString
	if fb.Comment != "" {
		comment = sql.NullString{String: fb.Comment, Valid: true}
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO workout_feedback (
			workout_id, user_id, completed_exercises, difficulty_rating, energy_level, feedback
		) VALUES (?, ?, ?, ?, ?, ?)`,
		fb.WorkoutID, userID, string(completedJSON), fb.DifficultyRating, fb.EnergyLevel, comment); err != nil {
		return fmt.Errorf("insert workout feedback: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
