package answers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zjrosen/htx/internal/log"
)

// migrations are applied in order; the database's user_version records how
// many have run.
var migrations = []string{
	`CREATE TABLE tasks (
		id TEXT PRIMARY KEY,
		saved_at TEXT NOT NULL
	);
	CREATE TABLE records (
		task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		record_id TEXT NOT NULL,
		from_name TEXT NOT NULL,
		to_name TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		origin TEXT NOT NULL DEFAULT 'manual',
		value TEXT NOT NULL,
		PRIMARY KEY (task_id, record_id)
	);
	CREATE INDEX records_by_name ON records (task_id, from_name, type);`,
}

// SchemaVersion is the user_version of an up-to-date database.
var SchemaVersion = len(migrations)

func migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version > len(migrations) {
		return fmt.Errorf("answers database schema v%d is newer than this htx (v%d)", version, len(migrations))
	}

	for i := version; i < len(migrations); i++ {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", i+1, err)
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", i+1, err)
		}
		log.Info(log.CatDB, "Applied migration", "version", i+1)
	}
	return nil
}
