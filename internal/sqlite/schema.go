package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

//go:embed schema.sql
var schemaDefinition string

// schemaVersion is stored in PRAGMA user_version. Bump it whenever schema.sql changes.
const schemaVersion = 1

// applySchema creates missing tables and indices in a single transaction.
//
// Every statement in schema.sql is idempotent. A database with a newer user_version than
// schemaVersion was written by a newer binary and is refused.
func (db *Database) applySchema(ctx context.Context) (err error) {
	start := time.Now()

	var current int
	if err = db.ReadWrite.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if current > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", current, schemaVersion)
	}

	var tx *sql.Tx
	if tx, err = db.ReadWrite.BeginTx(ctx, nil); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rollbackErr))
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, schemaDefinition); err != nil {
		return fmt.Errorf("exec schema: %w", err)
	}
	// PRAGMA does not accept bound parameters.
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	db.logger.LogAttrs(ctx, slog.LevelInfo, "applied schema",
		slog.Int("fromVersion", current),
		slog.Int("toVersion", schemaVersion),
		slog.Duration("duration", time.Since(start)))
	return nil
}
