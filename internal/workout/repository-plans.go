package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/myrjola/cyclefit/internal/sqlite"
)

// sqlitePlanRepository implements planRepository.
type sqlitePlanRepository struct {
	baseRepository
}

func newSQLitePlanRepository(db *sqlite.Database) *sqlitePlanRepository {
	return &sqlitePlanRepository{
		baseRepository: newBaseRepository(db),
	}
}

// Create stores plan together with the request parameters it was generated for.
func (r *sqlitePlanRepository) Create(ctx context.Context, plan StoredPlan, req WorkoutRequest) error {
	data, err := json.Marshal(plan.Plan)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}

	var phase sql.NullString
	if req.CyclePhase != "" {
		phase = sql.NullString{String: string(req.CyclePhase), Valid: true}
	}

	_, err = r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO workout_plans (
			id, user_id, plan, difficulty, cycle_phase, energy_level, preferred_duration, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.UserID, string(data), plan.Plan.Difficulty, phase,
		nullPositive(req.EnergyLevel), nullPositive(req.PreferredDuration), formatTimestamp(plan.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert workout plan: %w", err)
	}
	return nil
}

// Get retrieves a plan by id.
func (r *sqlitePlanRepository) Get(ctx context.Context, id string) (StoredPlan, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, user_id, plan, completed, difficulty_rating, created_at, completed_at
		FROM workout_plans
		WHERE id = ?`, id)
	plan, err := scanPlan(row)
	if err != nil {
		return StoredPlan{}, notFound(err, "query workout plan")
	}
	return plan, nil
}

// List returns the plans of userID, newest first.
func (r *sqlitePlanRepository) List(ctx context.Context, userID int) (_ []StoredPlan, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, user_id, plan, completed, difficulty_rating, created_at, completed_at
		FROM workout_plans
		WHERE user_id = ?
		ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query workout plans: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	plans := []StoredPlan{}
	for rows.Next() {
		var plan StoredPlan
		if plan, err = scanPlan(rows); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return plans, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (StoredPlan, error) {
	var (
		plan        StoredPlan
		data        string
		rating      sql.NullInt64
		createdAt   string
		completedAt sql.NullString
	)
	if err := row.Scan(&plan.ID, &plan.UserID, &data, &plan.Completed, &rating, &createdAt, &completedAt); err != nil {
		return StoredPlan{}, fmt.Errorf("scan workout plan: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &plan.Plan); err != nil {
		return StoredPlan{}, fmt.Errorf("unmarshal plan %s: %w", plan.ID, err)
	}
	if rating.Valid {
		r := int(rating.Int64)
		plan.DifficultyRating = &r
	}
	var err error
	if plan.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return StoredPlan{}, err
	}
	if plan.CompletedAt, err = parseNullTimestamp(completedAt); err != nil {
		return StoredPlan{}, err
	}
	return plan, nil
}

// nullPositive stores zero and negative values as NULL.
func nullPositive(v int) sql.NullInt64 {
	if v <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(v), Valid: true}
}
