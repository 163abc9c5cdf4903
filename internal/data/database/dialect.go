package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/target/batch-explorer/internal/data/pgxutil"
	apperrors "github.com/target/batch-explorer/internal/errors"
)

// Dialect names the SQL differences between supported stores.
// Statements are written with ? markers and rebound once per dialect.
type Dialect interface {
	// Name is the configuration name of the dialect.
	Name() string
	// DriverName is the database/sql driver the dialect expects.
	DriverName() string
	// Rebind rewrites ? markers into the driver's placeholder syntax.
	Rebind(query string) string
	// Probe checks the store answers and reports its version.
	Probe(ctx context.Context, db *sql.DB) (ServerInfo, error)
}

// ServerInfo is what a dialect probe learned about the store.
type ServerInfo struct {
	Dialect string
	Version string
}

const (
	// DialectPostgres is the configuration name for PostgreSQL.
	DialectPostgres = "postgres"
	// DialectSQLite is the configuration name for SQLite.
	DialectSQLite = "sqlite"
)

// DialectFor returns the dialect with the given configuration name.
//
//nolint:ireturn // callers only need the Dialect behavior.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case DialectPostgres, "postgresql", "pgx":
		return Postgres{}, nil
	case DialectSQLite, "sqlite3":
		return SQLite{}, nil
	default:
		return nil, apperrors.Configurationf("unsupported database dialect %q", name)
	}
}

// Postgres is the PostgreSQL dialect over the pgx stdlib driver.
type Postgres struct{}

// Name implements Dialect.
func (Postgres) Name() string { return DialectPostgres }

// DriverName implements Dialect.
func (Postgres) DriverName() string { return "pgx" }

// Rebind numbers ? markers as $1..$n, skipping quoted literals.
func (Postgres) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Probe reads server_version from the session parameters of a raw pgx connection.
func (Postgres) Probe(ctx context.Context, db *sql.DB) (ServerInfo, error) {
	info := ServerInfo{Dialect: DialectPostgres}
	err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		if pingErr := conn.Ping(ctx); pingErr != nil {
			return pingErr
		}
		info.Version = conn.PgConn().ParameterStatus("server_version")
		return nil
	})
	if err != nil {
		return ServerInfo{}, apperrors.Wrap(err, apperrors.ErrCodeConfiguration, "probe postgres")
	}
	return info, nil
}

// SQLite is the SQLite dialect over mattn/go-sqlite3.
type SQLite struct{}

// Name implements Dialect.
func (SQLite) Name() string { return DialectSQLite }

// DriverName implements Dialect.
func (SQLite) DriverName() string { return "sqlite3" }

// Rebind is the identity: SQLite accepts ? markers.
func (SQLite) Rebind(query string) string { return query }

// Probe asks the engine for its version.
func (SQLite) Probe(ctx context.Context, db *sql.DB) (ServerInfo, error) {
	var version string
	if err := db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		return ServerInfo{}, apperrors.Wrap(err, apperrors.ErrCodeConfiguration, "probe sqlite")
	}
	return ServerInfo{Dialect: DialectSQLite, Version: version}, nil
}

// Statement is SQL text with table prefixes substituted and placeholders rebound.
type Statement string

// Templater is the prefix substitution a statement needs; schema.Templater implements it.
type Templater interface {
	Apply(query string) string
}

// Render prepares query for d: prefix tokens are replaced, then markers are rebound.
func Render(d Dialect, t Templater, query string) Statement {
	return Statement(d.Rebind(t.Apply(query)))
}

// String returns the SQL text.
func (s Statement) String() string { return string(s) }

// countMarkers counts ? markers outside quoted literals.
func countMarkers(clause string) int {
	n := 0
	inQuote := false
	for _, r := range clause {
		switch {
		case r == '\'':
			inQuote = !inQuote
		case r == '?' && !inQuote:
			n++
		}
	}
	return n
}

func describe(d Dialect) string {
	if d == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (%s)", d.Name(), d.DriverName())
}
