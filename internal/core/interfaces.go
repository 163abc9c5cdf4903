package core

import (
	"context"

	"github.com/target/batch-explorer/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// JobExecutionQueries is the read port over batch execution metadata.
type JobExecutionQueries interface {
	// CountExecutions counts executions matching filter with the same predicate Search uses.
	CountExecutions(ctx context.Context, filter model.ExecutionFilter) (int, error)
	// Search returns one window of matching executions, newest first.
	Search(ctx context.Context, query model.ExecutionQuery) ([]*model.JobExecution, error)
	// SearchWithStepCount is Search with step-execution counts.
	SearchWithStepCount(ctx context.Context, query model.ExecutionQuery) ([]*model.JobExecutionWithStepCount, error)
	GetByID(ctx context.Context, id int64) (*model.JobExecution, error)
	GetLatestForInstance(ctx context.Context, instanceID int64) (*model.JobExecution, error)
	// ListRunning returns started, unfinished executions of one job. Order is unspecified.
	ListRunning(ctx context.Context, jobName string) ([]*model.JobExecution, error)
	ListRunningAll(ctx context.Context) ([]*model.JobExecution, error)
	ListForInstance(ctx context.Context, instanceID int64) ([]*model.JobExecution, error)
	GetJobInstance(ctx context.Context, instanceID int64) (*model.JobInstance, error)
}

// JobExecutionWriter is the mutation half of the legacy execution DAO.
// The explorer never writes; implementations are expected to refuse.
type JobExecutionWriter interface {
	SaveJobExecution(ctx context.Context, exec *model.JobExecution) error
	UpdateJobExecution(ctx context.Context, exec *model.JobExecution) error
	SynchronizeStatus(ctx context.Context, exec *model.JobExecution) error
}
