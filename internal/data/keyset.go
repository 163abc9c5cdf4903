package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/target/batch-explorer/internal/data/database"
)

// queryConn is the part of *sql.Conn a statement group needs.
type queryConn interface {
	database.Queryer
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// window is a slice of the newest-first ordering: count rows from 0-based start.
type window struct {
	start int
	count int
}

// pagedPlan pairs a query plan with the layout its rows scan into.
type pagedPlan struct {
	plan   *database.QueryPlan
	layout rowLayout
}

// fetchPage returns the rows of w in descending id order.
//
// The first page is a plain LIMIT. Later pages look up the id of the row just
// before the window and continue below it, so no statement scans past the
// window once the boundary is known. The two statements are not atomic: rows
// inserted between them can shift the window.
func fetchPage(ctx context.Context, conn queryConn, p pagedPlan, w window, filterArgs []any) ([]execRow, error) {
	if w.count <= 0 {
		return nil, nil
	}

	if w.start <= 0 {
		args, err := p.plan.FirstPageArgs(filterArgs, w.count)
		if err != nil {
			return nil, err
		}
		return queryRows(ctx, conn, p.layout, p.plan.FirstPageQuery(), args...)
	}

	jumpArgs, err := p.plan.JumpArgs(filterArgs, w.start)
	if err != nil {
		return nil, err
	}
	var boundary int64
	err = conn.QueryRowContext(ctx, p.plan.JumpToItemQuery().String(), jumpArgs...).Scan(&boundary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page boundary: %w", err)
	}

	args, err := p.plan.RemainingArgs(filterArgs, boundary, w.count)
	if err != nil {
		return nil, err
	}
	return queryRows(ctx, conn, p.layout, p.plan.RemainingPagesQuery(), args...)
}

// queryRows scans every row of stmt and closes the cursor before returning,
// leaving conn free for follow-up statements.
func queryRows(
	ctx context.Context,
	conn database.Queryer,
	layout rowLayout,
	stmt database.Statement,
	args ...any,
) ([]execRow, error) {
	rows, err := conn.QueryContext(ctx, stmt.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query executions: %w", err)
	}
	defer rows.Close()

	var out []execRow
	for rows.Next() {
		r, err := layout.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate executions: %w", err)
	}
	return out, nil
}
