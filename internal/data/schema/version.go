// Package schema describes the two supported batch metadata table layouts.
//
// V4 stores JOB_CONFIGURATION_LOCATION on the execution table and keeps
// parameters in typed columns; V5 dropped that column and stores every
// parameter as (name, type name, string value). Every query that differs
// between the two goes through Version so callers never branch on the tag.
package schema

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/target/batch-explorer/internal/data/params"
	"github.com/target/batch-explorer/internal/domain/model"
	apperrors "github.com/target/batch-explorer/internal/errors"
)

// Tag names a schema version in configuration.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type Tag string

const (
	// V4 is the layout with the job configuration location column and typed parameter columns.
	V4 Tag = "V4"
	// V5 is the layout with string-encoded parameters and no configuration location.
	V5 Tag = "V5"
)

// Valid returns true if the Tag is a supported version.
func (t Tag) Valid() bool {
	return t == V4 || t == V5
}

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (t *Tag) UnmarshalText(text []byte) error {
	v := Tag(strings.ToUpper(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid schema version: %q", string(text))
	}
	*t = v
	return nil
}

// Scanner is the subset of *sql.Rows used to read a parameter row.
type Scanner interface {
	Scan(dest ...any) error
}

// Version supplies the projections and parameter layout of one schema version.
type Version interface {
	Tag() Tag
	// HasConfigLocation reports whether executions carry JOB_CONFIGURATION_LOCATION.
	HasConfigLocation() bool
	// SummaryFields is the projection for search pages: nine execution columns plus instance id and name.
	SummaryFields() []string
	// DetailFields is SummaryFields plus the configuration location when the version has one.
	DetailFields() []string
	// ExecutionFields projects only the execution table (no instance join), plus the configuration location.
	ExecutionFields() []string
	// ParametersQuery selects the parameters of one execution; its only argument is the execution id.
	ParametersQuery() string
	// ReadParameter scans and decodes one row of ParametersQuery.
	ReadParameter(row Scanner) (model.JobParameter, error)
}

// Resolve returns the Version for tag. Unsupported tags are configuration faults.
func Resolve(tag Tag) (Version, error) {
	switch tag {
	case V4:
		return v4{}, nil
	case V5:
		return v5{}, nil
	default:
		return nil, apperrors.Configurationf("unsupported schema version %q", string(tag))
	}
}

var executionColumns = []string{
	"E.JOB_EXECUTION_ID",
	"E.START_TIME",
	"E.END_TIME",
	"E.STATUS",
	"E.EXIT_CODE",
	"E.EXIT_MESSAGE",
	"E.CREATE_TIME",
	"E.LAST_UPDATED",
	"E.VERSION",
}

var instanceColumns = []string{"I.JOB_INSTANCE_ID", "I.JOB_NAME"}

const configLocationColumn = "E.JOB_CONFIGURATION_LOCATION"

// ExecutionColumnCount is the number of leading execution columns shared by every projection.
const ExecutionColumnCount = 9

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

type v4 struct{}

func (v4) Tag() Tag { return V4 }
func (v4) HasConfigLocation() bool { return true }
func (v4) SummaryFields() []string { return concat(executionColumns, instanceColumns) }
func (v4) DetailFields() []string {
	return concat(executionColumns, instanceColumns, []string{configLocationColumn})
}
func (v4) ExecutionFields() []string { return concat(executionColumns, []string{configLocationColumn}) }

func (v4) ParametersQuery() string {
	return "SELECT JOB_EXECUTION_ID, TYPE_CD, KEY_NAME, STRING_VAL, DATE_VAL, LONG_VAL, DOUBLE_VAL, IDENTIFYING" +
		" FROM %PREFIX%JOB_EXECUTION_PARAMS WHERE JOB_EXECUTION_ID = ?"
}

func (v4) ReadParameter(row Scanner) (model.JobParameter, error) {
	var (
		executionID int64
		identifying sql.NullString
		stored      params.LegacyStored
	)
	if err := row.Scan(
		&executionID,
		&stored.TypeCode,
		&stored.Name,
		&stored.StringVal,
		&stored.DateVal,
		&stored.LongVal,
		&stored.DoubleVal,
		&identifying,
	); err != nil {
		return model.JobParameter{}, fmt.Errorf("scan parameter row: %w", err)
	}
	stored.Identifying = identifying.String
	return params.DecodeLegacy(stored)
}

type v5 struct{}

func (v5) Tag() Tag { return V5 }
func (v5) HasConfigLocation() bool { return false }
func (v5) SummaryFields() []string { return concat(executionColumns, instanceColumns) }
func (v5) DetailFields() []string { return concat(executionColumns, instanceColumns) }
func (v5) ExecutionFields() []string { return concat(executionColumns) }

func (v5) ParametersQuery() string {
	return "SELECT JOB_EXECUTION_ID, PARAMETER_NAME, PARAMETER_TYPE, PARAMETER_VALUE, IDENTIFYING" +
		" FROM %PREFIX%JOB_EXECUTION_PARAMS WHERE JOB_EXECUTION_ID = ?"
}

func (v5) ReadParameter(row Scanner) (model.JobParameter, error) {
	var (
		executionID int64
		value       sql.NullString
		identifying sql.NullString
		stored      params.Stored
	)
	if err := row.Scan(&executionID, &stored.Name, &stored.TypeName, &value, &identifying); err != nil {
		return model.JobParameter{}, fmt.Errorf("scan parameter row: %w", err)
	}
	if value.Valid {
		stored.Value = &value.String
	}
	stored.Identifying = identifying.String
	return params.Decode(stored)
}
