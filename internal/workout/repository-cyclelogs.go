package workout

import (
	"context"
	"fmt"
	"time"

	"github.com/myrjola/cyclefit/internal/sqlite"
)

// sqliteCycleLogRepository implements cycleLogRepository.
type sqliteCycleLogRepository struct {
	baseRepository
}

func newSQLiteCycleLogRepository(db *sqlite.Database) *sqliteCycleLogRepository {
	return &sqliteCycleLogRepository{
		baseRepository: newBaseRepository(db),
	}
}

// Add stores a period start. ErrNotFound is returned for an unknown user.
func (r *sqliteCycleLogRepository) Add(ctx context.Context, log CycleLog) (CycleLog, error) {
	var createdAt string
	err := r.db.ReadWrite.QueryRowContext(ctx, `
		INSERT INTO cycle_logs (user_id, start_date, cycle_length)
		SELECT id, ?, ? FROM users WHERE id = ?
		RETURNING id, created_at`,
		log.StartDate.Format(dateFormat), log.CycleLength, log.UserID).Scan(&log.ID, &createdAt)
	if err != nil {
		return CycleLog{}, notFound(err, "insert cycle log")
	}
	if log.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return CycleLog{}, err
	}
	return log, nil
}

// Latest returns the cycle log with the latest start date of userID.
func (r *sqliteCycleLogRepository) Latest(ctx context.Context, userID int) (CycleLog, error) {
	var (
		log       CycleLog
		startDate string
		createdAt string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, user_id, start_date, cycle_length, created_at
		FROM cycle_logs
		WHERE user_id = ?
		ORDER BY start_date DESC, id DESC
		LIMIT 1`, userID).Scan(&log.ID, &log.UserID, &startDate, &log.CycleLength, &createdAt)
	if err != nil {
		return CycleLog{}, notFound(err, "query latest cycle log")
	}
	if log.StartDate, err = time.Parse(dateFormat, startDate); err != nil {
		return CycleLog{}, fmt.Errorf("parse start date: %w", err)
	}
	if log.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return CycleLog{}, err
	}
	return log, nil
}
