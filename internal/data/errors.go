package data

import (
	"errors"
	"fmt"

	apperrors "github.com/target/batch-explorer/internal/errors"
)

// Shared sentinel errors for data-layer repositories.
var (
	// ErrUnsupportedOperation is returned by every mutation against the read-only store.
	ErrUnsupportedOperation = errors.New("job execution store is read only")
	// ErrPlanNotFound is returned when no query plan exists for a filter shape.
	ErrPlanNotFound = errors.New("no query plan for filter shape")
	// ErrJobExecutionNotFound is returned when an execution id does not exist.
	ErrJobExecutionNotFound = errors.New("job execution not found")
	// ErrJobInstanceNotFound is returned when an instance id does not exist.
	ErrJobInstanceNotFound = errors.New("job instance not found")
	// ErrJobNameRequired is returned when a name-scoped lookup gets an empty name.
	ErrJobNameRequired = errors.New("job name is required")
)

// dbError annotates err with op, mapping driver errors to application codes.
// Errors that already carry a code are kept as they are.
func dbError(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		err = apperrors.MapDBError(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
