package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBatchStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    BatchStatus
		wantErr bool
	}{
		{name: "upper case", input: "COMPLETED", want: BatchStatusCompleted},
		{name: "lower case with spaces", input: "  failed ", want: BatchStatusFailed},
		{name: "mixed case", input: "Abandoned", want: BatchStatusAbandoned},
		{name: "unknown literal", input: "RUNNING", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBatchStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBatchStatus_UnmarshalText(t *testing.T) {
	var st BatchStatus
	require.NoError(t, st.UnmarshalText([]byte("stopping")))
	assert.Equal(t, BatchStatusStopping, st)
	assert.True(t, st.IsRunning())

	assert.Error(t, st.UnmarshalText([]byte("bogus")))
	assert.Equal(t, BatchStatusStopping, st, "failed unmarshal must not overwrite")
}

func TestBatchStatuses_AllValid(t *testing.T) {
	for _, st := range BatchStatuses() {
		assert.True(t, st.Valid(), st)
	}
	assert.Len(t, BatchStatuses(), 8)
	assert.False(t, BatchStatus("").Valid())
}

func TestJobExecution_IsRunningAndDuration(t *testing.T) {
	start := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)
	now := start.Add(10 * time.Minute)

	running := &JobExecution{ID: 12, StartTime: &start}
	finished := &JobExecution{ID: 11, StartTime: &start, EndTime: &end}
	notStarted := &JobExecution{ID: 13}

	assert.True(t, running.IsRunning())
	assert.False(t, finished.IsRunning())
	assert.False(t, notStarted.IsRunning())

	assert.Equal(t, 10*time.Minute, running.Duration(now))
	assert.Equal(t, 90*time.Second, finished.Duration(now))
	assert.Zero(t, notStarted.Duration(now))
}

func TestJobExecution_JobName(t *testing.T) {
	var nilExec *JobExecution
	assert.Empty(t, nilExec.JobName())
	assert.Empty(t, (&JobExecution{}).JobName())
	assert.Equal(t, "nightly-etl", (&JobExecution{Instance: &JobInstance{ID: 1, Name: "nightly-etl"}}).JobName())
}
