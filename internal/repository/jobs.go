package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
	"github.com/joseph-ayodele/jobs-tracker/internal/querybuilder"
	"github.com/joseph-ayodele/jobs-tracker/internal/record"
)

// JobRepository executes built statements against the jobs table.
type JobRepository interface {
	List(ctx context.Context) ([]*entity.Job, error)
	Get(ctx context.Context, id int64) (*entity.Job, error)
	Insert(ctx context.Context, m *querybuilder.Mutation) (*entity.Job, error)
	Update(ctx context.Context, m *querybuilder.Mutation) (*entity.Job, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type jobRepository struct {
	db      *sql.DB
	builder *querybuilder.Builder
	schema  *record.Schema
	logger  *slog.Logger
}

func NewJobRepository(db *sql.DB, builder *querybuilder.Builder, schema *record.Schema, logger *slog.Logger) JobRepository {
	return &jobRepository{
		db:      db,
		builder: builder,
		schema:  schema,
		logger:  logger,
	}
}

func (r *jobRepository) List(ctx context.Context) ([]*entity.Job, error) {
	query, args := r.builder.SelectAll()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list jobs", "error", err)
		return nil, common.NewPersistenceError("list jobs", err)
	}
	defer rows.Close()

	jobs := make([]*entity.Job, 0)
	for rows.Next() {
		job, err := r.scan(rows)
		if err != nil {
			r.logger.Error("failed to scan job", "error", err)
			return nil, common.NewPersistenceError("list jobs", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("failed to iterate jobs", "error", err)
		return nil, common.NewPersistenceError("list jobs", err)
	}
	return jobs, nil
}

func (r *jobRepository) Get(ctx context.Context, id int64) (*entity.Job, error) {
	query, args := r.builder.SelectByID(id)
	return r.queryOne(ctx, "get job", id, query, args)
}

func (r *jobRepository) Insert(ctx context.Context, m *querybuilder.Mutation) (*entity.Job, error) {
	query, args := m.Query()
	r.logger.Debug("inserting job", "statement", querybuilder.Describe(m))
	job, err := r.queryOne(ctx, "insert job", 0, query, args)
	if err != nil {
		return nil, err
	}
	r.logger.Info("job created", "job_id", job.ID)
	return job, nil
}

func (r *jobRepository) Update(ctx context.Context, m *querybuilder.Mutation) (*entity.Job, error) {
	query, args := m.Query()
	r.logger.Debug("updating job", "job_id", m.ID, "statement", querybuilder.Describe(m))
	job, err := r.queryOne(ctx, "update job", m.ID, query, args)
	if err != nil {
		return nil, err
	}
	r.logger.Info("job updated", "job_id", job.ID)
	return job, nil
}

func (r *jobRepository) Delete(ctx context.Context, id int64) (int64, error) {
	query, args := r.builder.DeleteByID(id)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to delete job", "job_id", id, "error", err)
		return 0, common.NewPersistenceError("delete job", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		// the row is gone either way
		r.logger.Warn("rows affected unavailable", "job_id", id, "error", err)
		return 0, nil
	}
	r.logger.Info("job deleted", "job_id", id, "rows", n)
	return n, nil
}

// queryOne runs a statement expected to yield at most one row. No row means
// the id does not exist.
func (r *jobRepository) queryOne(ctx context.Context, op string, id int64, query string, args []any) (*entity.Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to "+op, "job_id", id, "error", err)
		return nil, common.NewPersistenceError(op, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			r.logger.Error("failed to "+op, "job_id", id, "error", err)
			return nil, common.NewPersistenceError(op, err)
		}
		return nil, common.NewNotFoundError("job", id)
	}
	job, err := r.scan(rows)
	if err != nil {
		r.logger.Error("failed to scan job", "job_id", id, "error", err)
		return nil, common.NewPersistenceError(op, err)
	}
	return job, nil
}

func (r *jobRepository) scan(rows *sql.Rows) (*entity.Job, error) {
	values := make([]any, len(r.schema.ColumnNames()))
	ptrs := make([]any, len(values))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return r.schema.Decode(values)
}
