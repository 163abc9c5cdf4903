//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// FilterShape names the predicate an ExecutionFilter applies.
// Each shape has its own pre-built query plan.
type FilterShape string

const (
	// FilterAll matches every execution.
	FilterAll FilterShape = "all"
	// FilterByName matches executions whose job name is LIKE the pattern.
	FilterByName FilterShape = "by_name"
	// FilterByStatus matches executions with an exact status.
	FilterByStatus FilterShape = "by_status"
	// FilterByNameAndStatus combines FilterByName and FilterByStatus.
	FilterByNameAndStatus FilterShape = "by_name_and_status"
	// FilterByDateRange matches executions whose start time is within [From, To].
	FilterByDateRange FilterShape = "by_date_range"
	// FilterByJobInstanceID matches executions of one job instance.
	FilterByJobInstanceID FilterShape = "by_job_instance_id"
	// FilterByTaskExecutionID matches executions launched by one task execution.
	FilterByTaskExecutionID FilterShape = "by_task_execution_id"
)

// FilterShapes lists every supported shape.
func FilterShapes() []FilterShape {
	return []FilterShape{
		FilterAll, FilterByName, FilterByStatus, FilterByNameAndStatus,
		FilterByDateRange, FilterByJobInstanceID, FilterByTaskExecutionID,
	}
}

// Valid returns true if the FilterShape is known.
func (s FilterShape) Valid() bool {
	for _, known := range FilterShapes() {
		if s == known {
			return true
		}
	}
	return false
}

// ExecutionFilter selects job executions. Only the fields used by Shape are read.
type ExecutionFilter struct {
	Shape           FilterShape `json:"shape"`
	JobName         string      `json:"job_name,omitempty"`
	Status          BatchStatus `json:"status,omitempty"`
	From            time.Time   `json:"from,omitempty"`
	To              time.Time   `json:"to,omitempty"`
	JobInstanceID   int64       `json:"job_instance_id,omitempty"`
	TaskExecutionID int64       `json:"task_execution_id,omitempty"`
}

// AllExecutions matches every execution.
func AllExecutions() ExecutionFilter {
	return ExecutionFilter{Shape: FilterAll}
}

// ByJobName matches executions whose job name is LIKE name (SQL wildcards allowed).
// Case sensitivity follows the store: SQLite folds ASCII case, PostgreSQL does not.
func ByJobName(name string) ExecutionFilter {
	return ExecutionFilter{Shape: FilterByName, JobName: name}
}

// ByStatus matches executions with the given status.
func ByStatus(status BatchStatus) ExecutionFilter {
	return ExecutionFilter{Shape: FilterByStatus, Status: status}
}

// ByJobNameAndStatus matches executions by job name pattern and status.
func ByJobNameAndStatus(name string, status BatchStatus) ExecutionFilter {
	return ExecutionFilter{Shape: FilterByNameAndStatus, JobName: name, Status: status}
}

// ByDateRange matches executions started between from and to, inclusive.
func ByDateRange(from, to time.Time) ExecutionFilter {
	return ExecutionFilter{Shape: FilterByDateRange, From: from, To: to}
}

// ByJobInstanceID matches executions of one job instance.
func ByJobInstanceID(id int64) ExecutionFilter {
	return ExecutionFilter{Shape: FilterByJobInstanceID, JobInstanceID: id}
}

// ByTaskExecutionID matches executions linked to one task execution.
func ByTaskExecutionID(id int64) ExecutionFilter {
	return ExecutionFilter{Shape: FilterByTaskExecutionID, TaskExecutionID: id}
}

// Filter validation errors.
var (
	ErrUnknownFilterShape  = errors.New("unknown filter shape")
	ErrJobNameRequired     = errors.New("job name is required")
	ErrInvalidStatus       = errors.New("invalid batch status")
	ErrDateRangeRequired   = errors.New("date range requires both from and to")
	ErrDateRangeInverted   = errors.New("date range from must not be after to")
	ErrJobInstanceRequired = errors.New("job instance id must be positive")
	ErrTaskExecRequired    = errors.New("task execution id must be positive")
)

// Validate checks that the fields used by Shape are usable.
func (f ExecutionFilter) Validate() error {
	switch f.Shape {
	case FilterAll:
		return nil
	case FilterByName:
		return f.validateName()
	case FilterByStatus:
		return f.validateStatus()
	case FilterByNameAndStatus:
		if err := f.validateName(); err != nil {
			return err
		}
		return f.validateStatus()
	case FilterByDateRange:
		if f.From.IsZero() || f.To.IsZero() {
			return ErrDateRangeRequired
		}
		if f.From.After(f.To) {
			return ErrDateRangeInverted
		}
		return nil
	case FilterByJobInstanceID:
		if f.JobInstanceID <= 0 {
			return ErrJobInstanceRequired
		}
		return nil
	case FilterByTaskExecutionID:
		if f.TaskExecutionID <= 0 {
			return ErrTaskExecRequired
		}
		return nil
	default:
		return ErrUnknownFilterShape
	}
}

func (f ExecutionFilter) validateName() error {
	if strings.TrimSpace(f.JobName) == "" {
		return ErrJobNameRequired
	}
	return nil
}

func (f ExecutionFilter) validateStatus() error {
	if !f.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// ExecutionQuery is a filter plus the window of results to return.
// Start is a 0-based row position in newest-first order.
type ExecutionQuery struct {
	Filter ExecutionFilter
	Start  int
	Count  int
}

// ExecutionPage is one window of executions together with the filter's total.
type ExecutionPage struct {
	Items []*JobExecution `json:"items"`
	Total int             `json:"total"`
	Start int             `json:"start"`
	Count int             `json:"count"`
}

// StepCountPage is ExecutionPage for the step-count projection.
type StepCountPage struct {
	Items []*JobExecutionWithStepCount `json:"items"`
	Total int                          `json:"total"`
	Start int                          `json:"start"`
	Count int                          `json:"count"`
}

// HasMore reports whether rows exist past this window.
func (p *ExecutionPage) HasMore() bool {
	return p != nil && p.Start+len(p.Items) < p.Total
}

// HasMore reports whether rows exist past this window.
func (p *StepCountPage) HasMore() bool {
	return p != nil && p.Start+len(p.Items) < p.Total
}
