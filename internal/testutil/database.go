// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/joseph-ayodele/jobs-tracker/db"
	"github.com/joseph-ayodele/jobs-tracker/internal/repository"
)

// Logger returns a logger that drops everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CreateTestDB opens a migrated in-memory SQLite database.
// Cleanup is registered with t.Cleanup().
func CreateTestDB(t *testing.T) *repository.DB {
	t.Helper()
	ctx := context.Background()
	logger := Logger()

	conn, err := repository.OpenSQLite(ctx, ":memory:", 1, logger)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { conn.Close(logger) })

	if err := db.Migrate(ctx, conn.SQL, conn.Driver, logger); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return conn
}
