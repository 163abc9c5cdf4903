// Package migrate creates the batch metadata tables for local stores and tests.
// Production schemas are owned by the batch runtime; nothing here runs against them
// unless an operator asks for it explicitly.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
	"github.com/target/batch-explorer/internal/data/database"
	"github.com/target/batch-explorer/internal/data/schema"
	apperrors "github.com/target/batch-explorer/internal/errors"
)

//go:embed migrations/v4/*.sql migrations/v5/*.sql
var migrationsFS embed.FS

func gooseDialect(d database.Dialect) (goose.Dialect, error) {
	switch d.Name() {
	case database.DialectPostgres:
		return goose.DialectPostgres, nil
	case database.DialectSQLite:
		return goose.DialectSQLite3, nil
	default:
		return "", apperrors.Configurationf("no schema migrations for dialect %q", d.Name())
	}
}

func migrationsFor(tag schema.Tag) (fs.FS, error) {
	var dir string
	switch tag {
	case schema.V4:
		dir = "migrations/v4"
	case schema.V5:
		dir = "migrations/v5"
	default:
		return nil, apperrors.Configurationf("no schema migrations for version %q", string(tag))
	}
	sub, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dir, err)
	}
	return sub, nil
}

// Apply creates the batch tables of schema version tag with the default prefixes.
// It is safe to call multiple times.
func Apply(ctx context.Context, db *sql.DB, d database.Dialect, tag schema.Tag) error {
	dialect, err := gooseDialect(d)
	if err != nil {
		return err
	}
	fsys, err := migrationsFor(tag)
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	logger := slog.Default().With("component", "migrations")
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply %s schema: %w", tag, err)
	}
	for _, r := range results {
		logger.InfoContext(ctx, "applied migration",
			"schema_version", string(tag),
			"version", r.Source.Version,
			"duration", r.Duration,
		)
	}
	return nil
}
