// Package pgxutil holds connection helpers shared by the repositories.
// WithConn works with any driver; WithPgxConn needs the pgx stdlib bridge.
package pgxutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// WithConn pins one pooled connection for the duration of fn.
// Statements that belong together (a page and its parameter lookups) run on it.
func WithConn(ctx context.Context, db *sql.DB, fn func(*sql.Conn) error) (err error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get conn from pool: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil && !errors.Is(closeErr, sql.ErrConnDone) {
			err = errors.Join(err, fmt.Errorf("release conn: %w", closeErr))
		}
	}()
	return fn(conn)
}

// ErrNotPgx is returned by WithPgxConn when the pool is not backed by pgx.
var ErrNotPgx = errors.New("unexpected driver connection type; expected *stdlib.Conn")

// WithPgxConn acquires a *pgx.Conn via the stdlib bridge and executes fn with it.
func WithPgxConn(ctx context.Context, db *sql.DB, fn func(*pgx.Conn) error) error {
	return WithConn(ctx, db, func(conn *sql.Conn) error {
		return conn.Raw(func(dc any) error {
			std, ok := dc.(*stdlib.Conn)
			if !ok {
				return ErrNotPgx
			}
			return fn(std.Conn())
		})
	})
}
