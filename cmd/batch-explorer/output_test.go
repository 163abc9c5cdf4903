package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/batch-explorer/internal/domain/model"
	apperrors "github.com/target/batch-explorer/internal/errors"
)

func TestValidateOutputFormat(t *testing.T) {
	for _, ok := range []string{"", "table", "json", "yaml"} {
		assert.NoError(t, validateOutputFormat(ok), ok)
	}
	assert.Error(t, validateOutputFormat("csv"))
}

func TestIntegralNumbers(t *testing.T) {
	in := map[string]any{
		"id":    float64(12345678),
		"ratio": 0.5,
		"items": []any{float64(3), "x"},
	}
	out := integralNumbers(in).(map[string]any)
	assert.Equal(t, int64(12345678), out["id"])
	assert.Equal(t, 0.5, out["ratio"])
	assert.Equal(t, []any{int64(3), "x"}, out["items"])
}

func TestRender_YAMLKeepsIntegerIDs(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	a := &app{output: outputYAML}

	err := a.render(cmd, map[string]int64{"id": 12345678}, func(*tabwriter.Writer) {})
	require.NoError(t, err)
	assert.Equal(t, "id: 12345678\n", buf.String())
}

func TestExecutionRow(t *testing.T) {
	start := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
	e := &model.JobExecution{
		ID:         7,
		Instance:   &model.JobInstance{ID: 1, Name: "nightly-etl"},
		Status:     model.BatchStatusStarted,
		ExitStatus: model.ExitStatus{ExitCode: "EXECUTING"},
		StartTime:  &start,
	}
	row := executionRow(e, start.Add(90*time.Second))
	assert.Equal(t, "7\tnightly-etl\tSTARTED\tEXECUTING\t2024-03-01T01:00:00Z\t-\t1m30s", row)

	e.StartTime = nil
	assert.Equal(t, "-", formatDuration(e, start))
}

func TestFilterFlags_Build(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want model.ExecutionFilter
	}{
		{"none", nil, model.AllExecutions()},
		{"name", []string{"--name", "etl"}, model.ByJobName("etl")},
		{"status", []string{"--status", "completed"}, model.ByStatus(model.BatchStatusCompleted)},
		{"name and status", []string{"--name", "etl", "--status", "FAILED"}, model.ByJobNameAndStatus("etl", model.BatchStatusFailed)},
		{"instance", []string{"--instance", "4"}, model.ByJobInstanceID(4)},
		{"task execution", []string{"--task-execution", "9"}, model.ByTaskExecutionID(9)},
		{
			"date range",
			[]string{"--from", "2024-03-01T00:00:00Z", "--to", "2024-03-02T00:00:00Z"},
			model.ByDateRange(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f filterFlags
			cmd := &cobra.Command{}
			f.register(cmd)
			require.NoError(t, cmd.Flags().Parse(tt.args))

			got, err := f.build(cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Shape, got.Shape)
			assert.Equal(t, tt.want.JobName, got.JobName)
			assert.Equal(t, tt.want.Status, got.Status)
			assert.True(t, tt.want.From.Equal(got.From))
			assert.True(t, tt.want.To.Equal(got.To))
			assert.Equal(t, tt.want.JobInstanceID, got.JobInstanceID)
			assert.Equal(t, tt.want.TaskExecutionID, got.TaskExecutionID)
		})
	}
}

func TestPageFooter(t *testing.T) {
	tests := []struct {
		name                string
		start, shown, total int
		more                bool
		want                string
	}{
		{"more rows", 0, 20, 45, true, "\n1-20 of 45 (next: --start 20)\n"},
		{"last window", 40, 5, 45, false, "\n41-45 of 45\n"},
		{"empty window", 50, 0, 45, false, "\nno executions in window (total 45)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
			pageFooter(tw, tt.start, tt.shown, tt.total, tt.more)
			require.NoError(t, tw.Flush())
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"validation", apperrors.ValidationField("start", "start must not be negative"), exitUsage},
		{"not found", apperrors.Wrap(errors.New("no row"), apperrors.ErrCodeNotFound, "job execution 9"), exitNotFound},
		{"timeout", apperrors.MapDBError(context.DeadlineExceeded), exitTimeout},
		{"bare deadline", fmt.Errorf("count executions: %w", context.DeadlineExceeded), exitTimeout},
		{"interrupted", apperrors.MapDBError(context.Canceled), exitInterrupted},
		{"decode", apperrors.Decodef("unknown status %q", "RUNNING"), 1},
		{"plain", errors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
