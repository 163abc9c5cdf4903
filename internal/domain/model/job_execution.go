// Package model defines the batch metadata types read by the execution explorer.
package model

import (
	"fmt"
	"strings"
	"time"
)

// BatchStatus is the lifecycle status of a job execution as written by the batch runtime.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type BatchStatus string

const (
	// BatchStatusStarting indicates the execution was created but has not started.
	BatchStatusStarting BatchStatus = "STARTING"
	// BatchStatusStarted indicates the execution is running.
	BatchStatusStarted BatchStatus = "STARTED"
	// BatchStatusStopping indicates a stop was requested and is in progress.
	BatchStatusStopping BatchStatus = "STOPPING"
	// BatchStatusStopped indicates the execution was stopped by request.
	BatchStatusStopped BatchStatus = "STOPPED"
	// BatchStatusFailed indicates the execution ended with a failure.
	BatchStatusFailed BatchStatus = "FAILED"
	// BatchStatusCompleted indicates the execution finished successfully.
	BatchStatusCompleted BatchStatus = "COMPLETED"
	// BatchStatusAbandoned indicates a failed execution that must not be restarted.
	BatchStatusAbandoned BatchStatus = "ABANDONED"
	// BatchStatusUnknown indicates the runtime lost track of the execution.
	BatchStatusUnknown BatchStatus = "UNKNOWN"
)

// BatchStatuses lists every status in lifecycle order.
func BatchStatuses() []BatchStatus {
	return []BatchStatus{
		BatchStatusStarting, BatchStatusStarted, BatchStatusStopping, BatchStatusStopped,
		BatchStatusFailed, BatchStatusCompleted, BatchStatusAbandoned, BatchStatusUnknown,
	}
}

// Valid returns true if the BatchStatus is one of the known literals.
func (s BatchStatus) Valid() bool {
	switch s {
	case BatchStatusStarting, BatchStatusStarted, BatchStatusStopping, BatchStatusStopped,
		BatchStatusFailed, BatchStatusCompleted, BatchStatusAbandoned, BatchStatusUnknown:
		return true
	default:
		return false
	}
}

// IsRunning reports whether the status belongs to an execution that has not finished.
func (s BatchStatus) IsRunning() bool {
	return s == BatchStatusStarting || s == BatchStatusStarted || s == BatchStatusStopping
}

// UnmarshalText implements encoding.TextUnmarshaler so statuses can come from flags and env.
func (s *BatchStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseBatchStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseBatchStatus parses a status literal case-insensitively.
func ParseBatchStatus(raw string) (BatchStatus, error) {
	st := BatchStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !st.Valid() {
		return "", fmt.Errorf("invalid BatchStatus: %q", raw)
	}
	return st, nil
}

// JobInstance is the logical identity of a job, shared by all of its executions.
type JobInstance struct {
	ID      int64  `json:"id"                db:"job_instance_id"`
	Name    string `json:"name"              db:"job_name"`
	Version *int64 `json:"version,omitempty" db:"version"`
}

// ExitStatus is the exit code and message recorded when an execution ends.
type ExitStatus struct {
	ExitCode        string `json:"exit_code"`
	ExitDescription string `json:"exit_description,omitempty"`
}

// JobExecution is one run of a JobInstance.
type JobExecution struct {
	ID         int64         `json:"id"                  db:"job_execution_id"`
	Instance   *JobInstance  `json:"instance,omitempty"`
	Parameters JobParameters `json:"parameters"`
	Status     BatchStatus   `json:"status"              db:"status"`
	ExitStatus ExitStatus    `json:"exit_status"`
	StartTime  *time.Time    `json:"start_time,omitempty"   db:"start_time"`
	EndTime    *time.Time    `json:"end_time,omitempty"     db:"end_time"`
	CreateTime *time.Time    `json:"create_time,omitempty"  db:"create_time"`
	// LastUpdated is bumped by the batch runtime on every status write.
	LastUpdated *time.Time `json:"last_updated,omitempty" db:"last_updated"`
	Version     *int64     `json:"version,omitempty"      db:"version"`
	// ConfigurationLocation only exists in the V4 schema.
	ConfigurationLocation *string `json:"configuration_location,omitempty" db:"job_configuration_location"`
}

// IsRunning reports whether the execution has started and not yet ended.
func (e *JobExecution) IsRunning() bool {
	return e != nil && e.StartTime != nil && e.EndTime == nil
}

// JobName returns the owning instance name, or an empty string when the instance is unknown.
func (e *JobExecution) JobName() string {
	if e == nil || e.Instance == nil {
		return ""
	}
	return e.Instance.Name
}

// Duration returns the elapsed run time; running executions are measured up to now.
func (e *JobExecution) Duration(now time.Time) time.Duration {
	if e == nil || e.StartTime == nil {
		return 0
	}
	end := now
	if e.EndTime != nil {
		end = *e.EndTime
	}
	if end.Before(*e.StartTime) {
		return 0
	}
	return end.Sub(*e.StartTime)
}

// JobExecutionWithStepCount pairs an execution with the number of its step executions.
type JobExecutionWithStepCount struct {
	JobExecution
	StepCount int `json:"step_count" db:"step_count"`
}
