package workout

import (
	"context"
	"database/sql"

	"github.com/myrjola/cyclefit/internal/sqlite"
)

// sqliteMetricsRepository implements metricsRepository.
type sqliteMetricsRepository struct {
	baseRepository
}

func newSQLiteMetricsRepository(db *sqlite.Database) *sqliteMetricsRepository {
	return &sqliteMetricsRepository{
		baseRepository: newBaseRepository(db),
	}
}

// Add stores a measurement. ErrNotFound is returned for an unknown user.
func (r *sqliteMetricsRepository) Add(ctx context.Context, m Metrics) (Metrics, error) {
	var (
		bodyFat   sql.NullFloat64
		createdAt string
	)
	if m.BodyFatPct != nil {
		bodyFat = sql.NullFloat64{Float64: *m.BodyFatPct, Valid: true}
	}
	err := r.db.ReadWrite.QueryRowContext(ctx, `
		INSERT INTO user_metrics (user_id, weight_kg, height_cm, body_fat_pct)
		SELECT id, ?, ?, ? FROM users WHERE id = ?
		RETURNING id, created_at`,
		m.WeightKg, m.HeightCm, bodyFat, m.UserID).Scan(&m.ID, &createdAt)
	if err != nil {
		return Metrics{}, notFound(err, "insert metrics")
	}
	if m.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return Metrics{}, err
	}
	return m, nil
}

// Latest returns the most recent measurement of userID.
func (r *sqliteMetricsRepository) Latest(ctx context.Context, userID int) (Metrics, error) {
	var (
		m         Metrics
		bodyFat   sql.NullFloat64
		createdAt string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, user_id, weight_kg, height_cm, body_fat_pct, created_at
		FROM user_metrics
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, userID).Scan(&m.ID, &m.UserID, &m.WeightKg, &m.HeightCm, &bodyFat, &createdAt)
	if err != nil {
		return Metrics{}, notFound(err, "query latest metrics")
	}
	if bodyFat.Valid {
		m.BodyFatPct = &bodyFat.Float64
	}
	if m.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return Metrics{}, err
	}
	return m, nil
}
