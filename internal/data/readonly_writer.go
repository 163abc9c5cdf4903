package data

import (
	"context"
	"log/slog"

	"github.com/target/batch-explorer/internal/domain/model"
	apperrors "github.com/target/batch-explorer/internal/errors"
)

// ReadOnlyExecutionWriter satisfies core.JobExecutionWriter for callers that
// expect the full execution DAO. Every mutation is refused without touching the store.
type ReadOnlyExecutionWriter struct {
	logger *slog.Logger
}

// NewReadOnlyExecutionWriter creates a writer that refuses every mutation.
func NewReadOnlyExecutionWriter(logger *slog.Logger) *ReadOnlyExecutionWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReadOnlyExecutionWriter{logger: logger.With("component", "readonly_execution_writer")}
}

func (w *ReadOnlyExecutionWriter) refuse(ctx context.Context, op string, exec *model.JobExecution) error {
	var id int64
	if exec != nil {
		id = exec.ID
	}
	w.logger.WarnContext(ctx, "mutation refused by read-only store", "operation", op, "job_execution_id", id)
	return apperrors.Wrap(ErrUnsupportedOperation, apperrors.ErrCodeUnsupported, op)
}

// SaveJobExecution always returns ErrUnsupportedOperation.
func (w *ReadOnlyExecutionWriter) SaveJobExecution(ctx context.Context, exec *model.JobExecution) error {
	return w.refuse(ctx, "save job execution", exec)
}

// UpdateJobExecution always returns ErrUnsupportedOperation.
func (w *ReadOnlyExecutionWriter) UpdateJobExecution(ctx context.Context, exec *model.JobExecution) error {
	return w.refuse(ctx, "update job execution", exec)
}

// SynchronizeStatus always returns ErrUnsupportedOperation.
func (w *ReadOnlyExecutionWriter) SynchronizeStatus(ctx context.Context, exec *model.JobExecution) error {
	return w.refuse(ctx, "synchronize job execution status", exec)
}
