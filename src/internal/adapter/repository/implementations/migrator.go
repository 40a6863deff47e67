package implementations

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/api-sage/timelock-savings/src/internal/logger"
)

// migrationLockKey keeps two starting processes from applying the same
// file at once.
const migrationLockKey int64 = 0x5341_5649_4e47

// RunMigrations applies every *.sql file in dir that is not yet recorded
// in schema_migrations, in file name order, one transaction per file.
func RunMigrations(ctx context.Context, db *sql.DB, dir string) error {
	if err := ensureSchemaMigrationsTable(ctx, db); err != nil {
		return err
	}

	files, err := migrationFiles(dir)
	if err != nil {
		return err
	}

	applied := 0
	for _, file := range files {
		done, err := applyMigration(ctx, db, dir, file)
		if err != nil {
			logger.Error("migration failed", err, logger.Fields{"version": file})
			return err
		}
		if done {
			applied++
			logger.Info("migration applied", logger.Fields{"version": file})
		}
	}

	logger.Info("migrations complete", logger.Fields{
		"available": len(files),
		"applied":   applied,
	})
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, dir, file string) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, errors.Wrapf(err, "begin tx for migration %q", file)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLockKey); err != nil {
		return false, errors.Wrap(err, "acquire migration lock")
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = $1`, file).Scan(&count); err != nil {
		return false, errors.Wrapf(err, "check migration %q status", file)
	}
	if count > 0 {
		return false, nil
	}

	body, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return false, errors.Wrapf(err, "read migration %q", file)
	}
	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		return false, errors.Wrapf(err, "execute migration %q", file)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations(version) VALUES ($1)`, file); err != nil {
		return false, errors.Wrapf(err, "record migration %q", file)
	}
	if err := tx.Commit(); err != nil {
		return false, errors.Wrapf(err, "commit migration %q", file)
	}
	return true, nil
}

func ensureSchemaMigrationsTable(ctx context.Context, db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return errors.Wrap(err, "ensure schema_migrations table")
	}
	return nil
}

func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read migrations directory %q", dir)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".sql") {
			continue
		}
		files = append(files, entry.Name())
	}

	slices.Sort(files)
	return files, nil
}
