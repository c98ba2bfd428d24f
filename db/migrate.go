package db

import (
	"context"
	"database/sql"
	"embed"
	"log/slog"
	"path"
	"sort"
	"strings"

	"entgo.io/ent/dialect"
	"github.com/cockroachdb/errors"
)

//go:embed postgres/migrations/*.sql sqlite/migrations/*.sql
var migrations embed.FS

func migrationDir(driver string) (string, error) {
	switch driver {
	case dialect.Postgres:
		return "postgres/migrations", nil
	case dialect.SQLite:
		return "sqlite/migrations", nil
	default:
		return "", errors.Newf("no migrations for driver %q", driver)
	}
}

// Migrate applies every embedded migration for driver that has not been
// recorded in schema_migrations yet. Each file runs in its own transaction.
func Migrate(ctx context.Context, db *sql.DB, driver string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	dir, err := migrationDir(driver)
	if err != nil {
		return err
	}

	entries, err := migrations.ReadDir(dir)
	if err != nil {
		return errors.Wrap(err, "read migrations")
	}

	// 000_create_schema_migrations.sql sorts first
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	existsQuery := "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)"
	recordQuery := "INSERT INTO schema_migrations (version) VALUES (?)"
	if driver == dialect.Postgres {
		existsQuery = "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)"
		recordQuery = "INSERT INTO schema_migrations (version) VALUES ($1)"
	}

	applied := 0
	for _, filename := range files {
		version := strings.Split(filename, "_")[0]

		var exists bool
		if err := db.QueryRowContext(ctx, existsQuery, version).Scan(&exists); err != nil {
			// schema_migrations does not exist until 000 has run
			if version != "000" {
				return errors.Newf("schema_migrations table missing, but migration is not 000: %s", filename)
			}
		} else if exists {
			logger.Debug("skipping migration", "migration", filename, "version", version)
			continue
		}

		body, err := migrations.ReadFile(path.Join(dir, filename))
		if err != nil {
			return errors.Wrapf(err, "read %s", filename)
		}

		logger.Info("applying migration", "migration", filename, "version", version)

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return errors.Wrapf(err, "begin tx for %s", filename)
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "execute %s", filename)
		}
		if _, err := tx.ExecContext(ctx, recordQuery, version); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "record %s", filename)
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "commit %s", filename)
		}
		applied++
	}

	logger.Info("migrations complete", "driver", driver, "total", len(files), "applied", applied)
	return nil
}
