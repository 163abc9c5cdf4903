package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/target/batch-explorer/internal/errors"
)

const (
	// ExecutionSource is the base FROM clause: executions joined to their instances.
	ExecutionSource = "%PREFIX%JOB_EXECUTION E, %PREFIX%JOB_INSTANCE I"
	// InstanceJoin is the predicate every plan starts from.
	InstanceJoin = "E.JOB_INSTANCE_ID=I.JOB_INSTANCE_ID"
	// DefaultSortKey orders plans newest first. Execution ids are unique, so the order is total.
	DefaultSortKey = "E.JOB_EXECUTION_ID"
)

// Queryer runs a multi-row query; *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// PlanOptions holds the parts of a query plan before rendering.
type PlanOptions struct {
	Fields      []string
	ExtraSource string
	Where       string
	WhereArgs   int
	SortKey     string
}

// PlanOption configures a plan.
type PlanOption func(*PlanOptions)

// WithFields sets the projected columns, in scan order.
func WithFields(fields ...string) PlanOption {
	return func(o *PlanOptions) {
		o.Fields = append([]string(nil), fields...)
	}
}

// WithExtraSource adds a table to the FROM clause (joined through the WHERE predicate).
func WithExtraSource(source string) PlanOption {
	return func(o *PlanOptions) {
		o.ExtraSource = source
	}
}

// WithWhere conjoins a filter predicate with argCount ? markers.
func WithWhere(clause string, argCount int) PlanOption {
	return func(o *PlanOptions) {
		o.Where = clause
		o.WhereArgs = argCount
	}
}

// WithSortKey overrides the descending sort column.
func WithSortKey(column string) PlanOption {
	return func(o *PlanOptions) {
		o.SortKey = column
	}
}

// QueryPlan is an immutable set of statements for one filter shape and projection.
// It holds no per-call state and is safe for concurrent use.
type QueryPlan struct {
	fields         []string
	whereArgs      int
	firstPage      Statement
	jumpToItem     Statement
	remainingPages Statement
	count          Statement
}

// NewPlan validates the options and renders every statement up front.
// Any inconsistency is a configuration fault.
func NewPlan(d Dialect, t Templater, opts ...PlanOption) (*QueryPlan, error) {
	if d == nil || t == nil {
		return nil, apperrors.Configurationf("query plan requires a dialect and templater, got %s", describe(d))
	}

	o := PlanOptions{SortKey: DefaultSortKey}
	for _, opt := range opts {
		opt(&o)
	}

	if len(o.Fields) == 0 {
		return nil, apperrors.Configurationf("query plan requires at least one field")
	}
	if strings.TrimSpace(o.SortKey) == "" {
		return nil, apperrors.Configurationf("query plan requires a sort key")
	}
	if got := countMarkers(o.Where); got != o.WhereArgs {
		return nil, apperrors.Configurationf(
			"query plan where clause %q has %d placeholders, declared %d", o.Where, got, o.WhereArgs)
	}
	for _, f := range o.Fields {
		if strings.Contains(f, "?") {
			return nil, apperrors.Configurationf("query plan field %q must not bind arguments", f)
		}
	}

	from := ExecutionSource
	if o.ExtraSource != "" {
		from += ", " + o.ExtraSource
	}
	where := InstanceJoin
	if o.Where != "" {
		where += " AND (" + o.Where + ")"
	}
	selectList := strings.Join(o.Fields, ", ")
	order := " ORDER BY " + o.SortKey + " DESC"

	return &QueryPlan{
		fields:    append([]string(nil), o.Fields...),
		whereArgs: o.WhereArgs,
		firstPage: Render(d, t,
			"SELECT "+selectList+" FROM "+from+" WHERE "+where+order+" LIMIT ?"),
		jumpToItem: Render(d, t,
			"SELECT "+o.SortKey+" FROM "+from+" WHERE "+where+order+" LIMIT 1 OFFSET ?"),
		remainingPages: Render(d, t,
			"SELECT "+selectList+" FROM "+from+" WHERE "+where+" AND "+o.SortKey+" < ?"+order+" LIMIT ?"),
		count: Render(d, t, "SELECT COUNT(*) FROM "+from+" WHERE "+where),
	}, nil
}

// Fields returns the projected columns in scan order.
func (p *QueryPlan) Fields() []string { return append([]string(nil), p.fields...) }

// ArgCount is the number of filter arguments the plan binds before paging arguments.
func (p *QueryPlan) ArgCount() int { return p.whereArgs }

// FirstPageQuery selects the newest rows. Args: filter args, count.
func (p *QueryPlan) FirstPageQuery() Statement { return p.firstPage }

// JumpToItemQuery selects the sort key of the row just before the window. Args: filter args, start-1.
func (p *QueryPlan) JumpToItemQuery() Statement { return p.jumpToItem }

// RemainingPagesQuery selects rows older than a boundary. Args: filter args, boundary, count.
func (p *QueryPlan) RemainingPagesQuery() Statement { return p.remainingPages }

// CountQuery counts matching rows. Args: filter args.
func (p *QueryPlan) CountQuery() Statement { return p.count }

// ErrArgCount is returned when filter arguments do not match the plan.
var ErrArgCount = errors.New("filter argument count does not match plan")

func (p *QueryPlan) checkArgs(filterArgs []any) error {
	if len(filterArgs) != p.whereArgs {
		return fmt.Errorf("%w: got %d, want %d", ErrArgCount, len(filterArgs), p.whereArgs)
	}
	return nil
}

func withPaging(filterArgs []any, paging ...any) []any {
	out := make([]any, 0, len(filterArgs)+len(paging))
	out = append(out, filterArgs...)
	return append(out, paging...)
}

// FirstPageArgs binds the first-page statement.
func (p *QueryPlan) FirstPageArgs(filterArgs []any, count int) ([]any, error) {
	if err := p.checkArgs(filterArgs); err != nil {
		return nil, err
	}
	return withPaging(filterArgs, count), nil
}

// JumpArgs binds the boundary lookup for a window starting at start (start > 0).
// The boundary is the row at 0-based position start-1.
func (p *QueryPlan) JumpArgs(filterArgs []any, start int) ([]any, error) {
	if err := p.checkArgs(filterArgs); err != nil {
		return nil, err
	}
	if start <= 0 {
		return nil, fmt.Errorf("jump requires a positive start, got %d", start)
	}
	return withPaging(filterArgs, start-1), nil
}

// RemainingArgs binds the continuation statement.
func (p *QueryPlan) RemainingArgs(filterArgs []any, boundary int64, count int) ([]any, error) {
	if err := p.checkArgs(filterArgs); err != nil {
		return nil, err
	}
	return withPaging(filterArgs, boundary, count), nil
}

// CountArgs binds the count statement.
func (p *QueryPlan) CountArgs(filterArgs []any) ([]any, error) {
	if err := p.checkArgs(filterArgs); err != nil {
		return nil, err
	}
	return withPaging(filterArgs), nil
}

// Validate runs the first-page statement with a zero limit and checks the store
// returns exactly the projected columns. Filter arguments are bound as NULL.
func (p *QueryPlan) Validate(ctx context.Context, q Queryer) error {
	args := withPaging(make([]any, p.whereArgs), 0)
	rows, err := q.QueryContext(ctx, p.firstPage.String(), args...)
	if err != nil {
		return apperrors.Wrap(apperrors.MapDBError(err), apperrors.ErrCodeConfiguration, "validate query plan")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfiguration, "read query plan columns")
	}
	if len(cols) != len(p.fields) {
		return apperrors.Configurationf("query plan projects %d fields but store returned %d columns",
			len(p.fields), len(cols))
	}
	if err := rows.Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfiguration, "validate query plan")
	}
	return nil
}
