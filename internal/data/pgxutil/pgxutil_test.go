package pgxutil_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/batch-explorer/internal/data/pgxutil"
	"github.com/target/batch-explorer/internal/testutil"
)

func TestWithConn(t *testing.T) {
	db := testutil.OpenEmptySQLite(t)
	ctx := context.Background()

	var got int
	err := pgxutil.WithConn(ctx, db, func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, "CREATE TEMP TABLE scratch (n INTEGER)"); err != nil {
			return err
		}
		if _, err := conn.ExecContext(ctx, "INSERT INTO scratch VALUES (7)"); err != nil {
			return err
		}
		// Temp tables are per connection, so this only works on the pinned one.
		return conn.QueryRowContext(ctx, "SELECT n FROM scratch").Scan(&got)
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	boom := errors.New("boom")
	err = pgxutil.WithConn(ctx, db, func(*sql.Conn) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestWithPgxConn_RequiresPgx(t *testing.T) {
	db := testutil.OpenEmptySQLite(t)
	err := pgxutil.WithPgxConn(context.Background(), db, func(*pgx.Conn) error { return nil })
	assert.ErrorIs(t, err, pgxutil.ErrNotPgx)
}

func TestWithPgxConn_Postgres(t *testing.T) {
	db := testutil.SetupPostgres(t, "V5")

	var version string
	err := pgxutil.WithPgxConn(context.Background(), db, func(conn *pgx.Conn) error {
		version = conn.PgConn().ParameterStatus("server_version")
		return nil
	})
	require.NoError(t, err)
	assert.NotEmpty(t, version)
}
