package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/batch-explorer/config"
	"github.com/target/batch-explorer/internal/bootstrap"
	"github.com/target/batch-explorer/internal/data/schema"
	"github.com/target/batch-explorer/internal/domain/model"
	apperrors "github.com/target/batch-explorer/internal/errors"
	"github.com/target/batch-explorer/internal/testutil"
)

// runCLI executes one command line against a fresh app, the way Execute does.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := &app{}
	cmd := newRootCmd(a)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	a.close()
	return out.String(), err
}

// setupStore points the environment at a new SQLite store, creates the V5 schema
// through the CLI and seeds two instances:
//
//	nightly-etl (1):   1 COMPLETED, 2 COMPLETED, 3 FAILED, 5 STARTED (running)
//	weekly-report (2): 4 COMPLETED with three steps, launched by task execution 77
func setupStore(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "batch.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", path)
	t.Setenv("BATCH_SCHEMA_VERSION", "V5")
	t.Setenv("DEV", "true")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")

	out, err := runCLI(t, "schema", "init")
	require.NoError(t, err)
	require.Equal(t, "V5 schema ready\n", out)

	db, dialect, err := bootstrap.ConnectDB(context.Background(), bootstrap.DatabaseConfig{
		DBConfig: config.DBConfig{Driver: "sqlite", Path: path, MaxOpenConns: 2},
		Writable: true,
	})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	testutil.NewFixture(t, db, dialect, schema.V5).
		Instance(1, "nightly-etl").
		Instance(2, "weekly-report").
		Execution(testutil.NewExecution(1, 1).WithParameters(
			model.StringParameter("region", "us-east", true),
			model.LongParameter("batchSize", 500, false),
		)).
		Execution(testutil.NewExecution(2, 1)).
		Execution(testutil.NewExecution(3, 1).WithStatus(model.BatchStatusFailed).WithExitMessage("disk full")).
		Execution(testutil.NewExecution(4, 2).WithSteps(3)).
		Execution(testutil.NewExecution(5, 1).WithStatus(model.BatchStatusStarted).Running()).
		TaskLink(77, 4)
}

func TestCount_FilterFlags(t *testing.T) {
	setupStore(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"all", nil, "5\n"},
		{"by name", []string{"--name", "nightly-etl"}, "4\n"},
		{"by status", []string{"--status", "failed"}, "1\n"},
		{"by name and status", []string{"--name", "nightly-etl", "--status", "COMPLETED"}, "2\n"},
		{"by date range", []string{"--from", "2024-03-01T02:00:00Z", "--to", "2024-03-01T04:00:00Z"}, "3\n"},
		{"by date range with offsets", []string{"--from", "2024-03-01T04:00:00+02:00", "--to", "2024-02-29T23:00:00-05:00"}, "3\n"},
		{"by instance", []string{"--instance", "2"}, "1\n"},
		{"by task execution", []string{"--task-execution", "77"}, "1\n"},
		{"no match", []string{"--name", "missing"}, "0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, append([]string{"count"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestCount_InvalidFilters(t *testing.T) {
	setupStore(t)

	tests := []struct {
		name string
		args []string
	}{
		{"instance with name", []string{"--instance", "1", "--name", "nightly-etl"}},
		{"from without to", []string{"--from", "2024-03-01T02:00:00Z"}},
		{"bad time", []string{"--from", "yesterday", "--to", "2024-03-01T04:00:00Z"}},
		{"bad status", []string{"--status", "DONE"}},
		{"inverted range", []string{"--from", "2024-03-02T00:00:00Z", "--to", "2024-03-01T00:00:00Z"}},
		{"non-positive instance", []string{"--instance", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, append([]string{"count"}, tt.args...)...)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err), "got %v", err)
		})
	}
}

func TestList_JSONPage(t *testing.T) {
	setupStore(t)

	out, err := runCLI(t, "list", "--name", "nightly-etl", "--count", "2", "--start", "1", "-o", "json")
	require.NoError(t, err)

	var page model.ExecutionPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 1, page.Start)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Items[0].ID)
	assert.Equal(t, int64(2), page.Items[1].ID)
	assert.Equal(t, "nightly-etl", page.Items[0].JobName())
}

func TestList_Query(t *testing.T) {
	setupStore(t)

	out, err := runCLI(t, "list", "-q", "items[].id")
	require.NoError(t, err)

	var ids []int64
	require.NoError(t, json.Unmarshal([]byte(out), &ids))
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, ids)
}

func TestList_YAML(t *testing.T) {
	setupStore(t)

	out, err := runCLI(t, "list", "--instance", "2", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "total: 1")
	assert.Contains(t, out, "id: 4\n")
	assert.Contains(t, out, "name: weekly-report")
}

func TestList_StepCountTable(t *testing.T) {
	setupStore(t)

	out, err := runCLI(t, "list", "--task-execution", "77", "--step-count")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "STEPS")
	assert.Contains(t, lines[1], "weekly-report")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[1]), "3"), "row %q", lines[1])
	assert.Equal(t, "1-1 of 1", lines[len(lines)-1])
}

func TestList_NextStartHint(t *testing.T) {
	setupStore(t)

	out, err := runCLI(t, "list", "--count", "2", "--start", "1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "2-3 of 5 (next: --start 3)", lines[len(lines)-1])
}

func TestList_EmptyWindow(t *testing.T) {
	setupStore(t)

	out, err := runCLI(t, "list", "--start", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "no executions in window (total 5)")
}

func TestGet(t *testing.T) {
	setupStore(t)

	out, err := runCLI(t, "get", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "nightly-etl (instance 1)")
	assert.Contains(t, out, "us-east")
	assert.Contains(t, out, "batchSize")

	out, err = runCLI(t, "get", "3", "-o", "json", "-q", "exit_status.exit_description")
	require.NoError(t, err)
	assert.Equal(t, "\"disk full\"\n", out)
}

func TestGet_Errors(t *testing.T) {
	setupStore(t)

	_, err := runCLI(t, "get", "abc")
	assert.True(t, apperrors.IsValidation(err), "got %v", err)

	_, err = runCLI(t, "get", "0")
	assert.True(t, apperrors.IsValidation(err), "got %v", err)

	_, err = runCLI(t, "get", "99")
	assert.True(t, apperrors.IsNotFound(err), "got %v", err)

	_, err = runCLI(t, "get")
	assert.Error(t, err)
}

func TestLatest(t *testing.T) {
	setupStore(t)

	out, err := runCLI(t, "latest", "1", "-o", "json", "-q", "id")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)

	_, err = runCLI(t, "latest", "9")
	assert.True(t, apperrors.IsNotFound(err), "got %v", err)
}

func TestRunning(t *testing.T) {
	setupStore(t)

	out, err := runCLI(t, "running")
	require.NoError(t, err)
	assert.Contains(t, out, "STARTED")
	assert.Contains(t, out, "EXECUTING")

	out, err = runCLI(t, "running", "weekly-report", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestInstance(t *testing.T) {
	setupStore(t)

	out, err := runCLI(t, "instance", "1", "--executions", "-o", "json", "-q", "executions[].id")
	require.NoError(t, err)
	var ids []int64
	require.NoError(t, json.Unmarshal([]byte(out), &ids))
	assert.Equal(t, []int64{5, 3, 2, 1}, ids)

	out, err = runCLI(t, "instance", "2", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "weekly-report"`)
	assert.NotContains(t, out, "executions")
}

func TestSchemaInit_RequiresDevMode(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "batch.db"))
	t.Setenv("DEV", "false")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("LOG_LEVEL", "error")

	_, err := runCLI(t, "schema", "init")
	assert.True(t, apperrors.IsValidation(err), "got %v", err)
}

func TestRootFlags_Validation(t *testing.T) {
	setupStore(t)

	_, err := runCLI(t, "count", "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output format")

	_, err = runCLI(t, "count", "-q", "items[")
	assert.ErrorContains(t, err, "invalid --query")
}
