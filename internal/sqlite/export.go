package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// userTables lists every table holding user data in foreign key order. Each table has a
// user_id column except users itself.
//
//nolint:gochecknoglobals // constant table list.
var userTables = []string{"users", "user_metrics", "cycle_logs", "workout_plans", "workout_feedback"}

// ExportUser copies everything stored about userID into a new SQLite database file in dir
// and returns its path. The export has the same schema as the service database. An existing
// export in dir is replaced and a failed export leaves no file behind.
func (db *Database) ExportUser(ctx context.Context, userID int, dir string) (_ string, err error) {
	exportPath := filepath.Join(dir, fmt.Sprintf("user-%d.sqlite3", userID))
	if err = os.Remove(exportPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("remove previous export: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, removeIfExists(exportPath))
		}
	}()

	// ATTACH is not allowed inside a transaction and needs a writable connection, so pin one
	// read-write connection for the whole export.
	conn, err := db.ReadWrite.Conn(ctx)
	if err != nil {
		return "", fmt.Errorf("get db connection: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close db connection: %w", closeErr))
		}
	}()

	if _, err = conn.ExecContext(ctx, `ATTACH DATABASE ? AS export`, "file:"+exportPath+"?mode=rwc"); err != nil {
		return "", fmt.Errorf("attach export database: %w", err)
	}
	defer func() {
		if _, detachErr := conn.ExecContext(context.WithoutCancel(ctx), `DETACH DATABASE export`); detachErr != nil {
			err = errors.Join(err, fmt.Errorf("detach export database: %w", detachErr))
		}
	}()

	if err = db.copyUserData(ctx, conn, userID); err != nil {
		return "", err
	}
	return exportPath, nil
}

func (db *Database) copyUserData(ctx context.Context, conn *sql.Conn, userID int) (err error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	var exists bool
	if err = tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM main.users WHERE id = ?)`, userID).
		Scan(&exists); err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return fmt.Errorf("user %d: %w", userID, sql.ErrNoRows)
	}

	for _, table := range userTables {
		if err = copyTableSchema(ctx, tx, table); err != nil {
			return fmt.Errorf("copy schema of %s: %w", table, err)
		}
		column := "user_id"
		if table == "users" {
			column = "id"
		}
		//nolint:gosec // table and column names come from userTables.
		query := fmt.Sprintf("INSERT INTO export.%s SELECT * FROM main.%s WHERE %s = ?", table, table, column)
		if _, err = tx.ExecContext(ctx, query, userID); err != nil {
			return fmt.Errorf("copy data of %s: %w", table, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}

// copyTableSchema recreates table in the export database from its CREATE TABLE statement.
func copyTableSchema(ctx context.Context, tx *sql.Tx, table string) error {
	var createSQL string
	if err := tx.QueryRowContext(ctx,
		`SELECT sql FROM main.sqlite_schema WHERE type = 'table' AND name = ?`, table).Scan(&createSQL); err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	body, found := strings.CutPrefix(createSQL, "CREATE TABLE "+table)
	if !found {
		return fmt.Errorf("unexpected schema %q", createSQL)
	}
	if _, err := tx.ExecContext(ctx, "CREATE TABLE export."+table+body); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove failed export: %w", err)
	}
	return nil
}
