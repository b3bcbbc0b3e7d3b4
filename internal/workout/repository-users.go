package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/mattn/go-sqlite3"
	"github.com/myrjola/cyclefit/internal/sqlite"
)

// ErrConflict is returned when a username or email is already taken.
var ErrConflict = errors.New("conflict")

// sqliteUserRepository implements userRepository.
type sqliteUserRepository struct {
	baseRepository
}

func newSQLiteUserRepository(db *sqlite.Database) *sqliteUserRepository {
	return &sqliteUserRepository{
		baseRepository: newBaseRepository(db),
	}
}

// Create inserts user and returns it with its id and creation time.
func (r *sqliteUserRepository) Create(ctx context.Context, user User) (User, error) {
	equipment, err := marshalStrings(user.AvailableEquipment)
	if err != nil {
		return User{}, err
	}

	var id int
	err = r.db.ReadWrite.QueryRowContext(ctx, `
		INSERT INTO users (username, email, fitness_goal, fitness_level, available_equipment)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		user.Username, user.Email, user.FitnessGoal, user.FitnessLevel, equipment).Scan(&id)
	if isUniqueViolation(err) {
		return User{}, ErrConflict
	}
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return r.get(ctx, r.db.ReadWrite, id)
}

// Get retrieves a user by id.
func (r *sqliteUserRepository) Get(ctx context.Context, id int) (User, error) {
	return r.get(ctx, r.db.ReadOnly, id)
}

func (r *sqliteUserRepository) get(ctx context.Context, db *sql.DB, id int) (User, error) {
	var (
		user      User
		equipment string
		createdAt string
	)
	err := db.QueryRowContext(ctx, `
		SELECT id, username, email, fitness_goal, fitness_level, available_equipment, created_at
		FROM users
		WHERE id = ?`, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.FitnessGoal, &user.FitnessLevel, &equipment, &createdAt)
	if err != nil {
		return User{}, notFound(err, "query user")
	}

	if err = json.Unmarshal([]byte(equipment), &user.AvailableEquipment); err != nil {
		return User{}, fmt.Errorf("unmarshal available equipment: %w", err)
	}
	if user.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return User{}, err
	}
	return user, nil
}

// Update applies the non-nil fields of update and returns the updated user.
func (r *sqliteUserRepository) Update(ctx context.Context, id int, update UserUpdate) (_ User, err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return User{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rollbackErr))
		}
	}()

	var exists bool
	if err = tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`, id).Scan(&exists); err != nil {
		return User{}, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return User{}, ErrNotFound
	}

	if update.FitnessGoal != nil {
		if _, err = tx.ExecContext(ctx, `UPDATE users SET fitness_goal = ? WHERE id = ?`,
			*update.FitnessGoal, id); err != nil {
			return User{}, fmt.Errorf("update fitness goal: %w", err)
		}
	}
	if update.FitnessLevel != nil {
		if _, err = tx.ExecContext(ctx, `UPDATE users SET fitness_level = ? WHERE id = ?`,
			*update.FitnessLevel, id); err != nil {
			return User{}, fmt.Errorf("update fitness level: %w", err)
		}
	}
	if update.AvailableEquipment != nil {
		var equipment string
		if equipment, err = marshalStrings(*update.AvailableEquipment); err != nil {
			return User{}, err
		}
		if _, err = tx.ExecContext(ctx, `UPDATE users SET available_equipment = ? WHERE id = ?`,
			equipment, id); err != nil {
			return User{}, fmt.Errorf("update available equipment: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return User{}, fmt.Errorf("commit transaction: %w", err)
	}
	return r.get(ctx, r.db.ReadWrite, id)
}

// marshalStrings encodes values as a JSON array, never null.
func marshalStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshal strings: %w", err)
	}
	return string(data), nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
