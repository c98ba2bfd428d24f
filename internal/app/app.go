// Package app wires configuration into a ready record store.
package app

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/joseph-ayodele/jobs-tracker/db"
	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/export"
	"github.com/joseph-ayodele/jobs-tracker/internal/jobs"
	"github.com/joseph-ayodele/jobs-tracker/internal/querybuilder"
	"github.com/joseph-ayodele/jobs-tracker/internal/record"
	"github.com/joseph-ayodele/jobs-tracker/internal/repository"
)

// App holds the wired components shared by the binaries.
type App struct {
	DB       *repository.DB
	Jobs     *jobs.Service
	Exporter *export.Service

	logger *slog.Logger
}

// RepositoryConfig converts application config into repository config.
func RepositoryConfig(cfg common.DatabaseConfig) repository.Config {
	return repository.Config{
		Driver:           cfg.Driver,
		DSN:              cfg.DSN,
		SQLitePath:       cfg.SQLitePath,
		MaxConns:         cfg.MaxConns,
		MinConns:         cfg.MinConns,
		MaxConnLifetime:  cfg.MaxConnLifetime,
		MaxConnIdleTime:  cfg.MaxConnIdleTime,
		DialTimeout:      cfg.DialTimeout,
		StatementTimeout: cfg.StatementTimeout,
	}
}

// New opens the database, applies migrations when enabled and builds the services.
func New(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	policy, err := record.ParseResultPolicy(cfg.Records.ResultPolicy)
	if err != nil {
		return nil, err
	}
	schema, err := record.NewSchema()
	if err != nil {
		return nil, errors.Wrap(err, "load record schema")
	}

	conn, err := repository.Open(ctx, RepositoryConfig(cfg.Database), logger)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, conn.SQL, conn.Driver, logger); err != nil {
			conn.Close(logger)
			return nil, errors.Wrap(err, "migrate")
		}
	}

	builder, err := querybuilder.New(conn.Driver, schema)
	if err != nil {
		conn.Close(logger)
		return nil, err
	}
	repo := repository.NewJobRepository(conn.SQL, builder, schema, logger)
	registry := record.NewResultRegistry(cfg.Records.ResultTypes)
	svc := jobs.NewService(repo, builder, schema, registry, policy, logger)

	logger.Info("record store ready",
		"driver", conn.Driver,
		"result_policy", string(policy),
		"result_types", registry.Len(),
	)
	return &App{
		DB:       conn,
		Jobs:     svc,
		Exporter: export.NewService(svc, logger),
		logger:   logger,
	}, nil
}

// Close releases the database pool.
func (a *App) Close() {
	a.DB.Close(a.logger)
}
