// Package jobs is the record store: it validates client field sets, builds
// statements and runs them through the repository.
package jobs

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
	"github.com/joseph-ayodele/jobs-tracker/internal/querybuilder"
	"github.com/joseph-ayodele/jobs-tracker/internal/record"
	"github.com/joseph-ayodele/jobs-tracker/internal/repository"
)

// Service handles job record operations.
type Service struct {
	repo     repository.JobRepository
	builder  *querybuilder.Builder
	schema   *record.Schema
	registry *record.ResultRegistry
	policy   record.ResultPolicy
	logger   *slog.Logger
}

// NewService creates a new job service.
func NewService(
	repo repository.JobRepository,
	builder *querybuilder.Builder,
	schema *record.Schema,
	registry *record.ResultRegistry,
	policy record.ResultPolicy,
	logger *slog.Logger,
) *Service {
	if policy == "" {
		policy = record.PolicyLenient
	}
	return &Service{
		repo:     repo,
		builder:  builder,
		schema:   schema,
		registry: registry,
		policy:   policy,
		logger:   logger,
	}
}

// List returns every job, newest id first.
func (s *Service) List(ctx context.Context) ([]*entity.Job, error) {
	logger := common.LoggerFromContext(ctx, s.logger)
	jobs, err := s.repo.List(ctx)
	if err != nil {
		logger.Error("failed to list jobs", "error", err)
		return nil, err
	}
	logger.Debug("jobs listed", "count", len(jobs))
	return jobs, nil
}

// Get returns one job or a not-found error.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Job, error) {
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logFailure(ctx, "get job", id, err)
		return nil, err
	}
	return job, nil
}

// Create validates fields, applies defaults and inserts a new job.
func (s *Service) Create(ctx context.Context, fields entity.Fields) (*entity.Job, error) {
	logger := common.LoggerFromContext(ctx, s.logger)

	normalized, err := s.schema.NormalizeCreateInput(fields)
	if err != nil {
		logger.Warn("rejected create", "error", common.Message(err))
		return nil, err
	}
	if err := s.checkResult(ctx, 0, normalized); err != nil {
		return nil, err
	}

	m, err := s.builder.Insert(normalized)
	if err != nil {
		logger.Warn("rejected create", "error", common.Message(err))
		return nil, err
	}
	job, err := s.repo.Insert(ctx, m)
	if err != nil {
		logger.Error("failed to create job", "error", err)
		return nil, err
	}
	return job, nil
}

// Update applies a partial update; fields not mentioned keep their values.
func (s *Service) Update(ctx context.Context, id int64, fields entity.Fields) (*entity.Job, error) {
	logger := common.LoggerFromContext(ctx, s.logger)

	normalized, err := s.schema.NormalizeUpdateInput(fields)
	if err != nil {
		logger.Warn("rejected update", "job_id", id, "error", common.Message(err))
		return nil, err
	}
	if err := s.checkResult(ctx, id, normalized); err != nil {
		return nil, err
	}

	m, err := s.builder.Update(id, normalized)
	if err != nil {
		logger.Warn("rejected update", "job_id", id, "error", common.Message(err))
		return nil, err
	}
	job, err := s.repo.Update(ctx, m)
	if err != nil {
		s.logFailure(ctx, "update job", id, err)
		return nil, err
	}
	return job, nil
}

// Delete removes a job. Deleting an id that does not exist still succeeds.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logFailure(ctx, "delete job", id, err)
		return false, err
	}
	if n == 0 {
		common.LoggerFromContext(ctx, s.logger).Debug("delete matched no rows", "job_id", id)
	}
	return true, nil
}

// ResultTypes returns the known result labels in display order.
func (s *Service) ResultTypes() []string {
	return s.registry.Values()
}

func (s *Service) checkResult(ctx context.Context, id int64, fields entity.Fields) error {
	unknown, err := s.registry.Check(s.policy, fields)
	logger := common.LoggerFromContext(ctx, s.logger)
	if err != nil {
		logger.Warn("rejected result label", "job_id", id, "result", fields["result"])
		return err
	}
	if unknown != "" {
		logger.Warn("storing unknown result label", "job_id", id, "result", unknown)
	}
	return nil
}

func (s *Service) logFailure(ctx context.Context, op string, id int64, err error) {
	logger := common.LoggerFromContext(ctx, s.logger)
	if common.IsNotFound(err) {
		logger.Info(op+": not found", "job_id", id)
		return
	}
	logger.Error("failed to "+op, "job_id", id, "error", err)
}
