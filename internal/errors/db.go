package errors

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// MapDBError maps database errors to AppError instances.
// It handles the error patterns a read-only query layer can meet:
// - sql.ErrNoRows / pgx.ErrNoRows → NotFound
// - Undefined table or column → Configuration (schema version or prefix mismatch)
// - Read-only transaction violations → Unsupported
// - Statement timeouts and context errors → Timeout/Canceled
//
// If the error is not a recognized database error, it returns the original error.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Query timed out",
			Cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "Query was canceled",
			Cause:   err,
		}
	}

	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return &AppError{
			Code:    ErrCodeNotFound,
			Message: "Resource not found",
			Cause:   err,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return mapSQLiteError(liteErr)
	}

	return err
}

// mapPgError maps PostgreSQL-specific errors to AppError instances.
func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UndefinedTable, pgerrcode.UndefinedColumn:
		return &AppError{
			Code:    ErrCodeConfiguration,
			Message: "Batch schema does not match the configured schema version or table prefix",
			Cause:   pgErr,
		}
	case pgerrcode.ReadOnlySQLTransaction:
		return &AppError{
			Code:    ErrCodeUnsupported,
			Message: "Batch metadata store is read only",
			Cause:   pgErr,
		}
	case pgerrcode.QueryCanceled:
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Query exceeded the statement timeout",
			Cause:   pgErr,
		}
	default:
		return &AppError{
			Code:    ErrCodeInternal,
			Message: "A database error occurred",
			Cause:   pgErr,
		}
	}
}

// mapSQLiteError maps SQLite errors. SQLite reports schema problems as generic
// SQLITE_ERROR, so the message is inspected.
func mapSQLiteError(liteErr sqlite3.Error) error {
	msg := strings.ToLower(liteErr.Error())
	switch {
	case liteErr.Code == sqlite3.ErrError &&
		(strings.Contains(msg, "no such table") || strings.Contains(msg, "no such column")):
		return &AppError{
			Code:    ErrCodeConfiguration,
			Message: "Batch schema does not match the configured schema version or table prefix",
			Cause:   liteErr,
		}
	case liteErr.Code == sqlite3.ErrReadonly:
		return &AppError{
			Code:    ErrCodeUnsupported,
			Message: "Batch metadata store is read only",
			Cause:   liteErr,
		}
	case liteErr.Code == sqlite3.ErrInterrupt:
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "Query was interrupted",
			Cause:   liteErr,
		}
	default:
		return &AppError{
			Code:    ErrCodeInternal,
			Message: "A database error occurred",
			Cause:   liteErr,
		}
	}
}
