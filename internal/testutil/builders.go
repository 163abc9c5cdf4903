package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/target/batch-explorer/internal/data/database"
	"github.com/target/batch-explorer/internal/data/params"
	"github.com/target/batch-explorer/internal/data/schema"
	"github.com/target/batch-explorer/internal/domain/model"
)

// BaseTime is the creation time of fixture executions unless overridden.
// Fixture times are whole UTC seconds so stores that keep timestamps as text compare them correctly.
var BaseTime = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// ExecutionBuilder provides a fluent interface for building execution rows.
type ExecutionBuilder struct {
	id             int64
	instanceID     int64
	status         model.BatchStatus
	exitCode       string
	exitMessage    string
	createTime     time.Time
	startTime      *time.Time
	endTime        *time.Time
	configLocation *string
	params         []model.JobParameter
	steps          int
}

// NewExecution creates a COMPLETED execution of instanceID with sensible defaults.
func NewExecution(id, instanceID int64) *ExecutionBuilder {
	start := BaseTime.Add(time.Duration(id) * time.Hour)
	end := start.Add(10 * time.Minute)
	return &ExecutionBuilder{
		id:         id,
		instanceID: instanceID,
		status:     model.BatchStatusCompleted,
		exitCode:   "COMPLETED",
		createTime: start.Add(-time.Second),
		startTime:  &start,
		endTime:    &end,
	}
}

// WithStatus sets the status and the matching exit code.
func (b *ExecutionBuilder) WithStatus(status model.BatchStatus) *ExecutionBuilder {
	b.status = status
	b.exitCode = string(status)
	if status.IsRunning() {
		b.exitCode = "EXECUTING"
	}
	return b
}

// WithRawStatus stores status verbatim, including literals the reader must reject.
func (b *ExecutionBuilder) WithRawStatus(status string) *ExecutionBuilder {
	b.status = model.BatchStatus(status)
	return b
}

// WithExitMessage sets the exit description.
func (b *ExecutionBuilder) WithExitMessage(msg string) *ExecutionBuilder {
	b.exitMessage = msg
	return b
}

// StartedAt sets the start time.
func (b *ExecutionBuilder) StartedAt(t time.Time) *ExecutionBuilder {
	b.startTime = &t
	if b.endTime != nil && b.endTime.Before(t) {
		end := t.Add(10 * time.Minute)
		b.endTime = &end
	}
	return b
}

// NotStarted clears the start and end times.
func (b *ExecutionBuilder) NotStarted() *ExecutionBuilder {
	b.startTime = nil
	b.endTime = nil
	return b
}

// Running clears the end time.
func (b *ExecutionBuilder) Running() *ExecutionBuilder {
	b.endTime = nil
	return b
}

// EndedAt sets the end time.
func (b *ExecutionBuilder) EndedAt(t time.Time) *ExecutionBuilder {
	b.endTime = &t
	return b
}

// WithConfigLocation sets JOB_CONFIGURATION_LOCATION (V4 only).
func (b *ExecutionBuilder) WithConfigLocation(loc string) *ExecutionBuilder {
	b.configLocation = &loc
	return b
}

// WithParameters appends job parameters.
func (b *ExecutionBuilder) WithParameters(ps ...model.JobParameter) *ExecutionBuilder {
	b.params = append(b.params, ps...)
	return b
}

// WithSteps adds n step executions.
func (b *ExecutionBuilder) WithSteps(n int) *ExecutionBuilder {
	b.steps = n
	return b
}

// Fixture writes batch metadata rows for tests.
type Fixture struct {
	t        TestingTB
	db       *sql.DB
	dialect  database.Dialect
	tmpl     schema.Templater
	tag      schema.Tag
	nextStep int64
}

// NewFixture creates a fixture writer for a store with the default table prefixes.
func NewFixture(t TestingTB, db *sql.DB, d database.Dialect, tag schema.Tag) *Fixture {
	t.Helper()
	tmpl, err := schema.NewTemplater("", "")
	if err != nil {
		t.Fatalf("templater: %v", err)
	}
	return &Fixture{t: t, db: db, dialect: d, tmpl: tmpl, tag: tag, nextStep: 1}
}

func (f *Fixture) exec(query string, args ...any) {
	f.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stmt := database.Render(f.dialect, f.tmpl, query)
	if _, err := f.db.ExecContext(ctx, stmt.String(), args...); err != nil {
		f.t.Fatalf("fixture %q: %v", stmt, err)
	}
}

// Instance inserts a job instance.
func (f *Fixture) Instance(id int64, name string) *Fixture {
	f.t.Helper()
	f.exec("INSERT INTO %PREFIX%JOB_INSTANCE (JOB_INSTANCE_ID, VERSION, JOB_NAME, JOB_KEY) VALUES (?, ?, ?, ?)",
		id, int64(0), name, fmt.Sprintf("key-%d", id))
	return f
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// Execution inserts the execution built by b with its parameters and steps.
func (f *Fixture) Execution(b *ExecutionBuilder) *Fixture {
	f.t.Helper()

	cols := "JOB_EXECUTION_ID, VERSION, JOB_INSTANCE_ID, CREATE_TIME, START_TIME, END_TIME," +
		" STATUS, EXIT_CODE, EXIT_MESSAGE, LAST_UPDATED"
	marks := "?, ?, ?, ?, ?, ?, ?, ?, ?, ?"
	lastUpdated := b.createTime
	if b.endTime != nil {
		lastUpdated = *b.endTime
	} else if b.startTime != nil {
		lastUpdated = *b.startTime
	}
	args := []any{
		b.id, int64(1), b.instanceID, b.createTime.UTC(), nullTime(b.startTime), nullTime(b.endTime),
		string(b.status), b.exitCode, b.exitMessage, lastUpdated.UTC(),
	}
	if f.tag == schema.V4 {
		cols += ", JOB_CONFIGURATION_LOCATION"
		marks += ", ?"
		if b.configLocation != nil {
			args = append(args, *b.configLocation)
		} else {
			args = append(args, nil)
		}
	}
	f.exec("INSERT INTO %PREFIX%JOB_EXECUTION ("+cols+") VALUES ("+marks+")", args...)

	for _, p := range b.params {
		f.Parameter(b.id, p)
	}
	for range b.steps {
		f.Step(b.id)
	}
	return f
}

// Parameter inserts one job parameter in the layout of the fixture's schema version.
func (f *Fixture) Parameter(executionID int64, p model.JobParameter) *Fixture {
	f.t.Helper()
	if f.tag == schema.V4 {
		s := params.EncodeLegacy(p)
		f.exec("INSERT INTO %PREFIX%JOB_EXECUTION_PARAMS"+
			" (JOB_EXECUTION_ID, TYPE_CD, KEY_NAME, STRING_VAL, DATE_VAL, LONG_VAL, DOUBLE_VAL, IDENTIFYING)"+
			" VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			executionID, s.TypeCode, s.Name, s.StringVal, s.DateVal, s.LongVal, s.DoubleVal, s.Identifying)
		return f
	}
	s := params.Encode(p)
	f.RawParameter(executionID, s)
	return f
}

// RawParameter inserts a V5 parameter row verbatim, including type names the reader must reject.
func (f *Fixture) RawParameter(executionID int64, s params.Stored) *Fixture {
	f.t.Helper()
	var value any
	if s.Value != nil {
		value = *s.Value
	}
	f.exec("INSERT INTO %PREFIX%JOB_EXECUTION_PARAMS"+
		" (JOB_EXECUTION_ID, PARAMETER_NAME, PARAMETER_TYPE, PARAMETER_VALUE, IDENTIFYING) VALUES (?, ?, ?, ?, ?)",
		executionID, s.Name, s.TypeName, value, s.Identifying)
	return f
}

// Step inserts one completed step execution.
func (f *Fixture) Step(executionID int64) *Fixture {
	f.t.Helper()
	id := f.nextStep
	f.nextStep++
	f.exec("INSERT INTO %PREFIX%STEP_EXECUTION"+
		" (STEP_EXECUTION_ID, VERSION, STEP_NAME, JOB_EXECUTION_ID, CREATE_TIME, STATUS) VALUES (?, ?, ?, ?, ?, ?)",
		id, int64(1), fmt.Sprintf("step-%d", id), executionID, BaseTime, string(model.BatchStatusCompleted))
	return f
}

// TaskLink associates an execution with the task execution that launched it.
func (f *Fixture) TaskLink(taskExecutionID, executionID int64) *Fixture {
	f.t.Helper()
	f.exec("INSERT INTO %TASK_PREFIX%TASK_BATCH (TASK_EXECUTION_ID, JOB_EXECUTION_ID) VALUES (?, ?)",
		taskExecutionID, executionID)
	return f
}
