package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/batch-explorer/internal/data/database"
	"github.com/target/batch-explorer/internal/data/schema"
	apperrors "github.com/target/batch-explorer/internal/errors"
	"github.com/target/batch-explorer/internal/testutil"
)

func defaultTemplater(t *testing.T) schema.Templater {
	t.Helper()
	tmpl, err := schema.NewTemplater("", "")
	require.NoError(t, err)
	return tmpl
}

func TestNewPlan_Statements(t *testing.T) {
	plan, err := database.NewPlan(database.Postgres{}, defaultTemplater(t),
		database.WithFields("E.JOB_EXECUTION_ID", "I.JOB_NAME"),
		database.WithWhere("E.STATUS = ?", 1),
	)
	require.NoError(t, err)

	from := " FROM BATCH_JOB_EXECUTION E, BATCH_JOB_INSTANCE I" +
		" WHERE E.JOB_INSTANCE_ID=I.JOB_INSTANCE_ID AND (E.STATUS = $1)"
	order := " ORDER BY E.JOB_EXECUTION_ID DESC"

	assert.Equal(t, "SELECT E.JOB_EXECUTION_ID, I.JOB_NAME"+from+order+" LIMIT $2",
		plan.FirstPageQuery().String())
	assert.Equal(t, "SELECT E.JOB_EXECUTION_ID"+from+order+" LIMIT 1 OFFSET $2",
		plan.JumpToItemQuery().String())
	assert.Equal(t, "SELECT E.JOB_EXECUTION_ID, I.JOB_NAME"+from+" AND E.JOB_EXECUTION_ID < $2"+order+" LIMIT $3",
		plan.RemainingPagesQuery().String())
	assert.Equal(t, "SELECT COUNT(*)"+from, plan.CountQuery().String())
	assert.Equal(t, 1, plan.ArgCount())
	assert.Equal(t, []string{"E.JOB_EXECUTION_ID", "I.JOB_NAME"}, plan.Fields())
}

func TestNewPlan_ExtraSourceWithoutFilter(t *testing.T) {
	plan, err := database.NewPlan(database.SQLite{}, defaultTemplater(t),
		database.WithFields("E.JOB_EXECUTION_ID"),
		database.WithExtraSource("%TASK_PREFIX%TASK_BATCH B"),
	)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT COUNT(*) FROM BATCH_JOB_EXECUTION E, BATCH_JOB_INSTANCE I, TASK_TASK_BATCH B"+
			" WHERE E.JOB_INSTANCE_ID=I.JOB_INSTANCE_ID",
		plan.CountQuery().String())
}

func TestNewPlan_Invalid(t *testing.T) {
	tmpl := defaultTemplater(t)
	tests := []struct {
		name string
		opts []database.PlanOption
	}{
		{name: "no fields"},
		{
			name: "declared args differ from markers",
			opts: []database.PlanOption{
				database.WithFields("E.JOB_EXECUTION_ID"),
				database.WithWhere("I.JOB_NAME LIKE ? AND E.STATUS = ?", 1),
			},
		},
		{
			name: "marker in projection",
			opts: []database.PlanOption{database.WithFields("E.JOB_EXECUTION_ID", "COALESCE(E.STATUS, ?)")},
		},
		{
			name: "blank sort key",
			opts: []database.PlanOption{database.WithFields("E.JOB_EXECUTION_ID"), database.WithSortKey(" ")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := database.NewPlan(database.SQLite{}, tmpl, tt.opts...)
			require.Error(t, err)
			assert.True(t, apperrors.IsConfiguration(err))
		})
	}

	_, err := database.NewPlan(nil, tmpl, database.WithFields("E.JOB_EXECUTION_ID"))
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestQueryPlan_Args(t *testing.T) {
	plan, err := database.NewPlan(database.SQLite{}, defaultTemplater(t),
		database.WithFields("E.JOB_EXECUTION_ID"),
		database.WithWhere("I.JOB_NAME LIKE ? AND E.STATUS = ?", 2),
	)
	require.NoError(t, err)
	filter := []any{"etl", "FAILED"}

	args, err := plan.FirstPageArgs(filter, 20)
	require.NoError(t, err)
	assert.Equal(t, []any{"etl", "FAILED", 20}, args)

	args, err = plan.JumpArgs(filter, 40)
	require.NoError(t, err)
	assert.Equal(t, []any{"etl", "FAILED", 39}, args)

	args, err = plan.RemainingArgs(filter, int64(118), 20)
	require.NoError(t, err)
	assert.Equal(t, []any{"etl", "FAILED", int64(118), 20}, args)

	args, err = plan.CountArgs(filter)
	require.NoError(t, err)
	assert.Equal(t, filter, args)

	_, err = plan.CountArgs([]any{"etl"})
	assert.ErrorIs(t, err, database.ErrArgCount)

	_, err = plan.JumpArgs(filter, 0)
	assert.Error(t, err)
}

func TestQueryPlan_Validate(t *testing.T) {
	db := testutil.OpenSQLite(t, schema.V5)
	ctx := context.Background()
	tmpl := defaultTemplater(t)

	good, err := database.NewPlan(database.SQLite{}, tmpl,
		database.WithFields("E.JOB_EXECUTION_ID", "I.JOB_NAME"),
		database.WithWhere("E.STATUS = ?", 1),
	)
	require.NoError(t, err)
	require.NoError(t, good.Validate(ctx, db))

	missingColumn, err := database.NewPlan(database.SQLite{}, tmpl,
		database.WithFields("E.JOB_EXECUTION_ID", "E.JOB_CONFIGURATION_LOCATION"),
	)
	require.NoError(t, err)
	err = missingColumn.Validate(ctx, db)
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))

	wrongPrefix, err := schema.NewTemplater("LEGACY_", "")
	require.NoError(t, err)
	missingTable, err := database.NewPlan(database.SQLite{}, wrongPrefix,
		database.WithFields("E.JOB_EXECUTION_ID"),
	)
	require.NoError(t, err)
	assert.True(t, apperrors.IsConfiguration(missingTable.Validate(ctx, db)))
}

func TestQueryPlan_ValidateColumnCount(t *testing.T) {
	db := testutil.OpenSQLite(t, schema.V5)

	// A star projection expands to more columns than the plan declares.
	plan, err := database.NewPlan(database.SQLite{}, defaultTemplater(t), database.WithFields("E.*"))
	require.NoError(t, err)

	err = plan.Validate(context.Background(), db)
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestSQLiteProbe(t *testing.T) {
	db := testutil.OpenEmptySQLite(t)
	info, err := database.SQLite{}.Probe(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, database.DialectSQLite, info.Dialect)
	assert.NotEmpty(t, info.Version)
}
