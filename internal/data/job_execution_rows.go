package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/target/batch-explorer/internal/data/database"
	"github.com/target/batch-explorer/internal/data/schema"
	"github.com/target/batch-explorer/internal/domain/model"
	apperrors "github.com/target/batch-explorer/internal/errors"
)

// rowLayout is the positional contract of one projection:
// the nine execution columns, then the optional groups in this order.
type rowLayout struct {
	joined         bool // I.JOB_INSTANCE_ID, I.JOB_NAME
	configLocation bool // E.JOB_CONFIGURATION_LOCATION
	stepCount      bool // STEP_COUNT
}

func (l rowLayout) columns() int {
	n := schema.ExecutionColumnCount
	if l.joined {
		n += 2
	}
	if l.configLocation {
		n++
	}
	if l.stepCount {
		n++
	}
	return n
}

// execRow holds one scanned execution row before reconstruction.
type execRow struct {
	id             int64
	startTime      sql.NullTime
	endTime        sql.NullTime
	status         sql.NullString
	exitCode       sql.NullString
	exitMessage    sql.NullString
	createTime     sql.NullTime
	lastUpdated    sql.NullTime
	version        sql.NullInt64
	instanceID     sql.NullInt64
	jobName        sql.NullString
	configLocation sql.NullString
	stepCount      sql.NullInt64
}

func (l rowLayout) scan(s schema.Scanner) (execRow, error) {
	var r execRow
	dest := make([]any, 0, l.columns())
	dest = append(dest,
		&r.id,
		&r.startTime,
		&r.endTime,
		&r.status,
		&r.exitCode,
		&r.exitMessage,
		&r.createTime,
		&r.lastUpdated,
		&r.version,
	)
	if l.joined {
		dest = append(dest, &r.instanceID, &r.jobName)
	}
	if l.configLocation {
		dest = append(dest, &r.configLocation)
	}
	if l.stepCount {
		dest = append(dest, &r.stepCount)
	}
	if err := s.Scan(dest...); err != nil {
		return execRow{}, fmt.Errorf("scan execution row: %w", err)
	}
	return r, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// execution rebuilds the domain execution. A non-nil instance takes precedence
// over the row's instance columns.
func (r execRow) execution(instance *model.JobInstance) (*model.JobExecution, error) {
	status := model.BatchStatus(r.status.String)
	if !r.status.Valid || !status.Valid() {
		return nil, apperrors.Decodef("job execution %d has unknown status %q", r.id, r.status.String)
	}

	if instance == nil && r.instanceID.Valid {
		instance = &model.JobInstance{ID: r.instanceID.Int64, Name: r.jobName.String}
	}

	exec := &model.JobExecution{
		ID:       r.id,
		Instance: instance,
		Status:   status,
		ExitStatus: model.ExitStatus{
			ExitCode:        r.exitCode.String,
			ExitDescription: r.exitMessage.String,
		},
		StartTime:   timePtr(r.startTime),
		EndTime:     timePtr(r.endTime),
		CreateTime:  timePtr(r.createTime),
		LastUpdated: timePtr(r.lastUpdated),
		Version:     int64Ptr(r.version),
	}
	if r.configLocation.Valid {
		loc := r.configLocation.String
		exec.ConfigurationLocation = &loc
	}
	return exec, nil
}

// parameterLoader reads the parameters of one execution in the configured schema version.
type parameterLoader struct {
	version schema.Version
	query   database.Statement
}

func (l parameterLoader) load(ctx context.Context, conn database.Queryer, executionID int64) (model.JobParameters, error) {
	rows, err := conn.QueryContext(ctx, l.query.String(), executionID)
	if err != nil {
		return nil, fmt.Errorf("query parameters of execution %d: %w", executionID, err)
	}
	defer rows.Close()

	out := model.JobParameters{}
	for rows.Next() {
		p, err := l.version.ReadParameter(rows)
		if err != nil {
			return nil, fmt.Errorf("execution %d: %w", executionID, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parameters of execution %d: %w", executionID, err)
	}
	return out, nil
}

// executions reconstructs every row and attaches its parameters.
// Rows must already be fully read so conn is free for the parameter queries.
func (l parameterLoader) executions(
	ctx context.Context,
	conn database.Queryer,
	rows []execRow,
	instance *model.JobInstance,
) ([]*model.JobExecution, error) {
	out := make([]*model.JobExecution, 0, len(rows))
	for _, r := range rows {
		exec, err := r.execution(instance)
		if err != nil {
			return nil, err
		}
		if exec.Parameters, err = l.load(ctx, conn, exec.ID); err != nil {
			return nil, err
		}
		out = append(out, exec)
	}
	return out, nil
}

func (l parameterLoader) executionsWithStepCount(
	ctx context.Context,
	conn database.Queryer,
	rows []execRow,
) ([]*model.JobExecutionWithStepCount, error) {
	out := make([]*model.JobExecutionWithStepCount, 0, len(rows))
	for _, r := range rows {
		exec, err := r.execution(nil)
		if err != nil {
			return nil, err
		}
		if exec.Parameters, err = l.load(ctx, conn, exec.ID); err != nil {
			return nil, err
		}
		out = append(out, &model.JobExecutionWithStepCount{
			JobExecution: *exec,
			StepCount:    int(r.stepCount.Int64),
		})
	}
	return out, nil
}
