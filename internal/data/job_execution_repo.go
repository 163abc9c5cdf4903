package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/target/batch-explorer/internal/data/database"
	"github.com/target/batch-explorer/internal/data/pgxutil"
	"github.com/target/batch-explorer/internal/data/schema"
	"github.com/target/batch-explorer/internal/domain/model"
	apperrors "github.com/target/batch-explorer/internal/errors"
)

// stepCountColumn is appended to the summary projection by step-count plans.
const stepCountColumn = "(SELECT COUNT(*) FROM %PREFIX%STEP_EXECUTION S" +
	" WHERE S.JOB_EXECUTION_ID = E.JOB_EXECUTION_ID) AS STEP_COUNT"

type shapePredicate struct {
	where  string
	args   int
	source string
}

var shapePredicates = map[model.FilterShape]shapePredicate{
	model.FilterAll:             {},
	model.FilterByName:          {where: "I.JOB_NAME LIKE ?", args: 1},
	model.FilterByStatus:        {where: "E.STATUS = ?", args: 1},
	model.FilterByNameAndStatus: {where: "I.JOB_NAME LIKE ? AND E.STATUS = ?", args: 2},
	model.FilterByDateRange:     {where: "E.START_TIME BETWEEN ? AND ?", args: 2},
	model.FilterByJobInstanceID: {where: "I.JOB_INSTANCE_ID = ?", args: 1},
	model.FilterByTaskExecutionID: {
		where:  "B.JOB_EXECUTION_ID = E.JOB_EXECUTION_ID AND B.TASK_EXECUTION_ID = ?",
		args:   1,
		source: "%TASK_PREFIX%TASK_BATCH B",
	},
}

// filterArgs returns the arguments bound by the filter's shape predicate, in marker order.
// Date bounds are bound in UTC, the zone the batch runtime writes START_TIME in.
func filterArgs(f model.ExecutionFilter) []any {
	switch f.Shape {
	case model.FilterByName:
		return []any{f.JobName}
	case model.FilterByStatus:
		return []any{string(f.Status)}
	case model.FilterByNameAndStatus:
		return []any{f.JobName, string(f.Status)}
	case model.FilterByDateRange:
		return []any{f.From.UTC(), f.To.UTC()}
	case model.FilterByJobInstanceID:
		return []any{f.JobInstanceID}
	case model.FilterByTaskExecutionID:
		return []any{f.TaskExecutionID}
	default:
		return nil
	}
}

// JobExecutionRepoConfig holds the collaborators of the execution repository.
type JobExecutionRepoConfig struct {
	Dialect   database.Dialect
	Version   schema.Version
	Templater schema.Templater
	Logger    *slog.Logger
}

type executionStatements struct {
	byID          database.Statement
	latest        database.Statement
	forInstance   database.Statement
	runningByName database.Statement
	runningAll    database.Statement
	instance      database.Statement
}

// JobExecutionRepo is the read-only query engine over batch execution metadata.
// All plans and statements are built by the constructor and never change.
type JobExecutionRepo struct {
	DB         *sql.DB
	dialect    database.Dialect
	version    schema.Version
	logger     *slog.Logger
	plans      map[model.FilterShape]pagedPlan
	stepPlans  map[model.FilterShape]pagedPlan
	stmts      executionStatements
	params     parameterLoader
	detail     rowLayout
	executions rowLayout
}

// NewJobExecutionRepo probes the store, builds one plain and one step-count plan
// per filter shape and validates each against the store. A schema that does not
// match the configured version fails here as a configuration fault.
func NewJobExecutionRepo(ctx context.Context, db *sql.DB, cfg JobExecutionRepoConfig) (*JobExecutionRepo, error) {
	if db == nil {
		return nil, apperrors.Configurationf("job execution repository requires a database")
	}
	if cfg.Dialect == nil || cfg.Version == nil {
		return nil, apperrors.Configurationf("job execution repository requires a dialect and schema version")
	}
	if cfg.Templater == (schema.Templater{}) {
		tmpl, err := schema.NewTemplater("", "")
		if err != nil {
			return nil, err
		}
		cfg.Templater = tmpl
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "job_execution_repo")

	info, err := cfg.Dialect.Probe(ctx, db)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "batch metadata store reachable",
		"dialect", info.Dialect,
		"server_version", info.Version,
		"schema_version", string(cfg.Version.Tag()),
		"table_prefix", cfg.Templater.TablePrefix(),
	)

	r := &JobExecutionRepo{
		DB:        db,
		dialect:   cfg.Dialect,
		version:   cfg.Version,
		logger:    logger,
		plans:     make(map[model.FilterShape]pagedPlan, len(shapePredicates)),
		stepPlans: make(map[model.FilterShape]pagedPlan, len(shapePredicates)),
		params: parameterLoader{
			version: cfg.Version,
			query:   database.Render(cfg.Dialect, cfg.Templater, cfg.Version.ParametersQuery()),
		},
		detail:     rowLayout{joined: true, configLocation: cfg.Version.HasConfigLocation()},
		executions: rowLayout{configLocation: cfg.Version.HasConfigLocation()},
	}
	if err := r.buildPlans(cfg.Templater); err != nil {
		return nil, err
	}
	r.buildStatements(cfg.Templater)

	if err := pgxutil.WithConn(ctx, db, func(conn *sql.Conn) error {
		return r.validatePlans(ctx, conn)
	}); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "query plans validated", "plans", len(r.plans)+len(r.stepPlans))
	return r, nil
}

func (r *JobExecutionRepo) buildPlans(tmpl schema.Templater) error {
	summary := r.version.SummaryFields()
	withSteps := append(r.version.SummaryFields(), stepCountColumn)
	plainLayout := rowLayout{joined: true}
	stepLayout := rowLayout{joined: true, stepCount: true}

	for shape, pred := range shapePredicates {
		for _, variant := range []struct {
			fields []string
			layout rowLayout
			into   map[model.FilterShape]pagedPlan
		}{
			{fields: summary, layout: plainLayout, into: r.plans},
			{fields: withSteps, layout: stepLayout, into: r.stepPlans},
		} {
			if len(variant.fields) != variant.layout.columns() {
				return apperrors.Configurationf("projection for %s has %d fields, row layout expects %d",
					shape, len(variant.fields), variant.layout.columns())
			}
			plan, err := database.NewPlan(r.dialect, tmpl,
				database.WithFields(variant.fields...),
				database.WithExtraSource(pred.source),
				database.WithWhere(pred.where, pred.args),
			)
			if err != nil {
				return fmt.Errorf("build %s plan: %w", shape, err)
			}
			variant.into[shape] = pagedPlan{plan: plan, layout: variant.layout}
		}
	}
	return nil
}

func (r *JobExecutionRepo) buildStatements(tmpl schema.Templater) {
	detail := strings.Join(r.version.DetailFields(), ", ")
	execOnly := strings.Join(r.version.ExecutionFields(), ", ")
	joined := " FROM " + database.ExecutionSource + " WHERE " + database.InstanceJoin

	render := func(q string) database.Statement { return database.Render(r.dialect, tmpl, q) }
	r.stmts = executionStatements{
		byID: render("SELECT " + detail + joined + " AND E.JOB_EXECUTION_ID = ?"),
		latest: render("SELECT " + execOnly + " FROM %PREFIX%JOB_EXECUTION E" +
			" WHERE E.JOB_INSTANCE_ID = ? AND E.JOB_EXECUTION_ID IN" +
			" (SELECT MAX(E2.JOB_EXECUTION_ID) FROM %PREFIX%JOB_EXECUTION E2 WHERE E2.JOB_INSTANCE_ID = ?)"),
		forInstance: render("SELECT " + execOnly + " FROM %PREFIX%JOB_EXECUTION E" +
			" WHERE E.JOB_INSTANCE_ID = ? ORDER BY E.JOB_EXECUTION_ID DESC"),
		runningByName: render("SELECT " + detail + joined +
			" AND I.JOB_NAME = ? AND E.START_TIME IS NOT NULL AND E.END_TIME IS NULL" +
			" ORDER BY E.JOB_EXECUTION_ID DESC"),
		runningAll: render("SELECT " + detail + joined +
			" AND E.END_TIME IS NULL ORDER BY E.JOB_EXECUTION_ID DESC"),
		instance: render("SELECT JOB_INSTANCE_ID, JOB_NAME, VERSION FROM %PREFIX%JOB_INSTANCE WHERE JOB_INSTANCE_ID = ?"),
	}
}

func (r *JobExecutionRepo) validatePlans(ctx context.Context, conn *sql.Conn) error {
	for _, plans := range []map[model.FilterShape]pagedPlan{r.plans, r.stepPlans} {
		for shape, p := range plans {
			if err := p.plan.Validate(ctx, conn); err != nil {
				return fmt.Errorf("validate %s plan: %w", shape, err)
			}
		}
	}

	// The summary projection is the same in every version; the detail and
	// parameter statements are where a V4/V5 mismatch shows.
	for name, stmt := range map[string]database.Statement{
		"detail":     r.stmts.byID,
		"executions": r.stmts.forInstance,
		"parameters": r.params.query,
	} {
		if err := probeStatement(ctx, conn, stmt); err != nil {
			return fmt.Errorf("validate %s statement: %w", name, err)
		}
	}
	return nil
}

// probeStatement runs stmt for an id no store assigns and discards the result.
func probeStatement(ctx context.Context, conn database.Queryer, stmt database.Statement) error {
	rows, err := conn.QueryContext(ctx, stmt.String(), int64(-1))
	if err != nil {
		return apperrors.Wrap(apperrors.MapDBError(err), apperrors.ErrCodeConfiguration, "probe statement")
	}
	defer rows.Close()
	if err := rows.Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfiguration, "probe statement")
	}
	return nil
}

func (r *JobExecutionRepo) planFor(plans map[model.FilterShape]pagedPlan, f model.ExecutionFilter) (pagedPlan, error) {
	if err := f.Validate(); err != nil {
		return pagedPlan{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid execution filter")
	}
	p, ok := plans[f.Shape]
	if !ok {
		return pagedPlan{}, apperrors.Wrapf(ErrPlanNotFound, apperrors.ErrCodeValidation, "filter shape %q", f.Shape)
	}
	return p, nil
}

// CountExecutions returns the number of executions matching filter, using the
// same predicate as Search so totals and pages agree.
func (r *JobExecutionRepo) CountExecutions(ctx context.Context, filter model.ExecutionFilter) (int, error) {
	p, err := r.planFor(r.plans, filter)
	if err != nil {
		return 0, err
	}
	args, err := p.plan.CountArgs(filterArgs(filter))
	if err != nil {
		return 0, dbError("count job executions", err)
	}
	var n int
	if err := r.DB.QueryRowContext(ctx, p.plan.CountQuery().String(), args...).Scan(&n); err != nil {
		return 0, dbError("count job executions", err)
	}
	return n, nil
}

// Search returns the window of executions matching the query, newest first.
func (r *JobExecutionRepo) Search(ctx context.Context, query model.ExecutionQuery) ([]*model.JobExecution, error) {
	p, err := r.planFor(r.plans, query.Filter)
	if err != nil {
		return nil, err
	}
	if query.Count <= 0 {
		return []*model.JobExecution{}, nil
	}

	var out []*model.JobExecution
	err = pgxutil.WithConn(ctx, r.DB, func(conn *sql.Conn) error {
		rows, err := fetchPage(ctx, conn, p, window{start: query.Start, count: query.Count}, filterArgs(query.Filter))
		if err != nil {
			return err
		}
		out, err = r.params.executions(ctx, conn, rows, nil)
		return err
	})
	if err != nil {
		return nil, dbError("search job executions", err)
	}
	r.logger.DebugContext(ctx, "fetched execution page",
		"shape", query.Filter.Shape, "start", query.Start, "count", query.Count, "rows", len(out))
	return out, nil
}

// SearchWithStepCount is Search with the number of step executions of each row.
func (r *JobExecutionRepo) SearchWithStepCount(
	ctx context.Context,
	query model.ExecutionQuery,
) ([]*model.JobExecutionWithStepCount, error) {
	p, err := r.planFor(r.stepPlans, query.Filter)
	if err != nil {
		return nil, err
	}
	if query.Count <= 0 {
		return []*model.JobExecutionWithStepCount{}, nil
	}

	var out []*model.JobExecutionWithStepCount
	err = pgxutil.WithConn(ctx, r.DB, func(conn *sql.Conn) error {
		rows, err := fetchPage(ctx, conn, p, window{start: query.Start, count: query.Count}, filterArgs(query.Filter))
		if err != nil {
			return err
		}
		out, err = r.params.executionsWithStepCount(ctx, conn, rows)
		return err
	})
	if err != nil {
		return nil, dbError("search job executions with step count", err)
	}
	r.logger.DebugContext(ctx, "fetched execution page with step counts",
		"shape", query.Filter.Shape, "start", query.Start, "count", query.Count, "rows", len(out))
	return out, nil
}

// GetByID returns one execution with its instance and parameters.
func (r *JobExecutionRepo) GetByID(ctx context.Context, id int64) (*model.JobExecution, error) {
	var out []*model.JobExecution
	err := pgxutil.WithConn(ctx, r.DB, func(conn *sql.Conn) error {
		rows, err := queryRows(ctx, conn, r.detail, r.stmts.byID, id)
		if err != nil {
			return err
		}
		if err := single(rows, "job execution %d", id); err != nil {
			return err
		}
		out, err = r.params.executions(ctx, conn, rows, nil)
		return err
	})
	if err != nil {
		return nil, dbError("get job execution", err)
	}
	return out[0], nil
}

// GetLatestForInstance returns the execution of instanceID with the highest id.
// More than one such row violates the schema's uniqueness and is a multiplicity fault.
func (r *JobExecutionRepo) GetLatestForInstance(ctx context.Context, instanceID int64) (*model.JobExecution, error) {
	var out []*model.JobExecution
	err := pgxutil.WithConn(ctx, r.DB, func(conn *sql.Conn) error {
		instance, err := r.jobInstance(ctx, conn, instanceID)
		if err != nil {
			return err
		}
		rows, err := queryRows(ctx, conn, r.executions, r.stmts.latest, instanceID, instanceID)
		if err != nil {
			return err
		}
		if err := single(rows, "latest execution of job instance %d", instanceID); err != nil {
			return err
		}
		out, err = r.params.executions(ctx, conn, rows, instance)
		return err
	})
	if err != nil {
		return nil, dbError("get latest job execution", err)
	}
	return out[0], nil
}

// single enforces the at-most-one-row invariant of by-id lookups.
func single(rows []execRow, format string, args ...any) error {
	switch len(rows) {
	case 0:
		return apperrors.Wrapf(ErrJobExecutionNotFound, apperrors.ErrCodeNotFound, format, args...)
	case 1:
		return nil
	default:
		return apperrors.Multiplicityf("expected one row for "+format+", found %d",
			append(args, len(rows))...)
	}
}

// ListRunning returns executions of jobName that have started and not ended.
// The result carries no ordering guarantee beyond containing each id once.
func (r *JobExecutionRepo) ListRunning(ctx context.Context, jobName string) ([]*model.JobExecution, error) {
	if strings.TrimSpace(jobName) == "" {
		return nil, apperrors.Wrap(ErrJobNameRequired, apperrors.ErrCodeValidation, "list running executions")
	}
	out, err := r.listDetail(ctx, r.stmts.runningByName, jobName)
	if err != nil {
		return nil, dbError("list running job executions", err)
	}
	return out, nil
}

// ListRunningAll returns every execution without an end time, for any job.
func (r *JobExecutionRepo) ListRunningAll(ctx context.Context) ([]*model.JobExecution, error) {
	out, err := r.listDetail(ctx, r.stmts.runningAll)
	if err != nil {
		return nil, dbError("list all running job executions", err)
	}
	return out, nil
}

func (r *JobExecutionRepo) listDetail(ctx context.Context, stmt database.Statement, args ...any) ([]*model.JobExecution, error) {
	var out []*model.JobExecution
	err := pgxutil.WithConn(ctx, r.DB, func(conn *sql.Conn) error {
		rows, err := queryRows(ctx, conn, r.detail, stmt, args...)
		if err != nil {
			return err
		}
		out, err = r.params.executions(ctx, conn, dedupe(rows), nil)
		return err
	})
	return out, err
}

func dedupe(rows []execRow) []execRow {
	seen := make(map[int64]struct{}, len(rows))
	out := rows[:0]
	for _, row := range rows {
		if _, ok := seen[row.id]; ok {
			continue
		}
		seen[row.id] = struct{}{}
		out = append(out, row)
	}
	return out
}

// ListForInstance returns every execution of instanceID, newest first.
func (r *JobExecutionRepo) ListForInstance(ctx context.Context, instanceID int64) ([]*model.JobExecution, error) {
	var out []*model.JobExecution
	err := pgxutil.WithConn(ctx, r.DB, func(conn *sql.Conn) error {
		instance, err := r.jobInstance(ctx, conn, instanceID)
		if err != nil {
			return err
		}
		rows, err := queryRows(ctx, conn, r.executions, r.stmts.forInstance, instanceID)
		if err != nil {
			return err
		}
		out, err = r.params.executions(ctx, conn, rows, instance)
		return err
	})
	if err != nil {
		return nil, dbError("list job executions of instance", err)
	}
	return out, nil
}

// GetJobInstance returns the instance row.
func (r *JobExecutionRepo) GetJobInstance(ctx context.Context, instanceID int64) (*model.JobInstance, error) {
	var out *model.JobInstance
	err := pgxutil.WithConn(ctx, r.DB, func(conn *sql.Conn) error {
		var err error
		out, err = r.jobInstance(ctx, conn, instanceID)
		return err
	})
	if err != nil {
		return nil, dbError("get job instance", err)
	}
	return out, nil
}

func (r *JobExecutionRepo) jobInstance(ctx context.Context, conn queryConn, instanceID int64) (*model.JobInstance, error) {
	var (
		inst    model.JobInstance
		version sql.NullInt64
	)
	err := conn.QueryRowContext(ctx, r.stmts.instance.String(), instanceID).Scan(&inst.ID, &inst.Name, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Wrapf(ErrJobInstanceNotFound, apperrors.ErrCodeNotFound, "job instance %d", instanceID)
	}
	if err != nil {
		return nil, fmt.Errorf("query job instance %d: %w", instanceID, err)
	}
	inst.Version = int64Ptr(version)
	return &inst, nil
}
