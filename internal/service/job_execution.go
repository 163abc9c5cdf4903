package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/target/batch-explorer/internal/core"
	"github.com/target/batch-explorer/internal/domain/model"
	apperrors "github.com/target/batch-explorer/internal/errors"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultPageSize is used when a query does not ask for a count.
	DefaultPageSize = 20
	// DefaultMaxPageSize caps the rows one page may request.
	DefaultMaxPageSize = 500
)

// ExecutionServiceConfig holds paging limits and the logger.
type ExecutionServiceConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	Logger          *slog.Logger
}

// ExecutionServiceOptions groups dependencies for ExecutionService.
type ExecutionServiceOptions struct {
	Repo   core.JobExecutionQueries // Required
	Counts *core.CountCache         // Optional: caches filter totals
	Config ExecutionServiceConfig
}

// ExecutionService answers explorer requests: it validates filters, normalizes
// windows and pairs each page with the filter's total.
type ExecutionService struct {
	repo            core.JobExecutionQueries
	counts          *core.CountCache
	defaultPageSize int
	maxPageSize     int
	logger          *slog.Logger
}

// NewExecutionService constructs a new ExecutionService.
func NewExecutionService(opts ExecutionServiceOptions) *ExecutionService {
	if opts.Repo == nil {
		panic("JobExecutionQueries is required")
	}

	cfg := opts.Config
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = DefaultMaxPageSize
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = DefaultPageSize
	}
	if cfg.DefaultPageSize > cfg.MaxPageSize {
		cfg.DefaultPageSize = cfg.MaxPageSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ExecutionService{
		repo:            opts.Repo,
		counts:          opts.Counts,
		defaultPageSize: cfg.DefaultPageSize,
		maxPageSize:     cfg.MaxPageSize,
		logger:          logger.With("component", "execution_service"),
	}
}

// normalize validates the filter and clamps the window to the configured limits.
func (s *ExecutionService) normalize(q model.ExecutionQuery) (model.ExecutionQuery, error) {
	if err := q.Filter.Validate(); err != nil {
		return q, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid execution filter")
	}
	if q.Start < 0 {
		return q, apperrors.ValidationField("start", "start must not be negative")
	}
	switch {
	case q.Count < 0:
		return q, apperrors.ValidationField("count", "count must not be negative")
	case q.Count == 0:
		q.Count = s.defaultPageSize
	case q.Count > s.maxPageSize:
		q.Count = s.maxPageSize
	}
	return q, nil
}

// Count returns the number of executions matching filter, served from the
// count cache when one is configured.
func (s *ExecutionService) Count(ctx context.Context, filter model.ExecutionFilter) (int, error) {
	if err := filter.Validate(); err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid execution filter")
	}
	n, _, err := s.count(ctx, filter)
	return n, err
}

// count returns the filter's total and whether it was served from the cache.
func (s *ExecutionService) count(ctx context.Context, filter model.ExecutionFilter) (int, bool, error) {
	if s.counts != nil {
		n, ok, err := s.counts.Get(ctx, filter)
		if err != nil {
			s.logger.WarnContext(ctx, "count cache read failed", "shape", filter.Shape, "error", err)
		} else if ok {
			return n, true, nil
		}
	}

	n, err := s.repo.CountExecutions(ctx, filter)
	if err != nil {
		return 0, false, fmt.Errorf("count executions: %w", err)
	}

	if s.counts != nil {
		if err := s.counts.Put(ctx, filter, n); err != nil {
			s.logger.WarnContext(ctx, "count cache write failed", "shape", filter.Shape, "error", err)
		}
	}
	return n, false, nil
}

// totalFits reports whether total is possible for a window that returned shown
// rows: a full window needs at least start+shown rows, a short one ends the result.
func totalFits(q model.ExecutionQuery, shown, total int) bool {
	end := q.Start + shown
	switch {
	case shown == q.Count:
		return total >= end
	case shown > 0:
		return total == end
	default:
		return total <= q.Start
	}
}

// settle drops a cached total that contradicts the window read alongside it
// and recounts from the store.
func (s *ExecutionService) settle(ctx context.Context, q model.ExecutionQuery, shown, total int, cached bool) (int, error) {
	if !cached || totalFits(q, shown, total) {
		return total, nil
	}
	s.logger.DebugContext(ctx, "cached count contradicts window",
		"shape", q.Filter.Shape, "cached_total", total, "start", q.Start, "shown", shown)
	if err := s.counts.Invalidate(ctx, q.Filter); err != nil {
		s.logger.WarnContext(ctx, "count cache invalidate failed", "shape", q.Filter.Shape, "error", err)
		return total, nil
	}
	n, _, err := s.count(ctx, q.Filter)
	return n, err
}

// Page returns one window of executions and the filter's total. The count and
// the window are fetched concurrently.
func (s *ExecutionService) Page(ctx context.Context, q model.ExecutionQuery) (*model.ExecutionPage, error) {
	q, err := s.normalize(q)
	if err != nil {
		return nil, err
	}

	page := &model.ExecutionPage{Start: q.Start, Count: q.Count}
	var cached bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, hit, err := s.count(gctx, q.Filter)
		page.Total, cached = total, hit
		return err
	})
	g.Go(func() error {
		items, err := s.repo.Search(gctx, q)
		if err != nil {
			return fmt.Errorf("search executions: %w", err)
		}
		page.Items = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []*model.JobExecution{}
	}
	if page.Total, err = s.settle(ctx, q, len(page.Items), page.Total, cached); err != nil {
		return nil, err
	}
	return page, nil
}

// StepCountPage is Page with step-execution counts.
func (s *ExecutionService) StepCountPage(ctx context.Context, q model.ExecutionQuery) (*model.StepCountPage, error) {
	q, err := s.normalize(q)
	if err != nil {
		return nil, err
	}

	page := &model.StepCountPage{Start: q.Start, Count: q.Count}
	var cached bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, hit, err := s.count(gctx, q.Filter)
		page.Total, cached = total, hit
		return err
	})
	g.Go(func() error {
		items, err := s.repo.SearchWithStepCount(gctx, q)
		if err != nil {
			return fmt.Errorf("search executions with step count: %w", err)
		}
		page.Items = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []*model.JobExecutionWithStepCount{}
	}
	if page.Total, err = s.settle(ctx, q, len(page.Items), page.Total, cached); err != nil {
		return nil, err
	}
	return page, nil
}

func requirePositive(field string, id int64) error {
	if id <= 0 {
		return apperrors.ValidationField(field, field+" must be positive")
	}
	return nil
}

// Get returns one execution.
func (s *ExecutionService) Get(ctx context.Context, id int64) (*model.JobExecution, error) {
	if err := requirePositive("execution_id", id); err != nil {
		return nil, err
	}
	exec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get execution: %w", err)
	}
	return exec, nil
}

// Latest returns the newest execution of a job instance.
func (s *ExecutionService) Latest(ctx context.Context, instanceID int64) (*model.JobExecution, error) {
	if err := requirePositive("instance_id", instanceID); err != nil {
		return nil, err
	}
	exec, err := s.repo.GetLatestForInstance(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("get latest execution: %w", err)
	}
	return exec, nil
}

// Running lists running executions of jobName, or of every job when jobName is empty.
func (s *ExecutionService) Running(ctx context.Context, jobName string) ([]*model.JobExecution, error) {
	var (
		execs []*model.JobExecution
		err   error
	)
	if jobName == "" {
		execs, err = s.repo.ListRunningAll(ctx)
	} else {
		execs, err = s.repo.ListRunning(ctx, jobName)
	}
	if err != nil {
		return nil, fmt.Errorf("list running executions: %w", err)
	}
	return execs, nil
}

// Instance returns a job instance.
func (s *ExecutionService) Instance(ctx context.Context, instanceID int64) (*model.JobInstance, error) {
	if err := requirePositive("instance_id", instanceID); err != nil {
		return nil, err
	}
	inst, err := s.repo.GetJobInstance(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("get job instance: %w", err)
	}
	return inst, nil
}

// InstanceExecutions lists every execution of a job instance, newest first.
func (s *ExecutionService) InstanceExecutions(ctx context.Context, instanceID int64) ([]*model.JobExecution, error) {
	if err := requirePositive("instance_id", instanceID); err != nil {
		return nil, err
	}
	execs, err := s.repo.ListForInstance(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("list executions of instance: %w", err)
	}
	return execs, nil
}
