package params

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/target/batch-explorer/internal/domain/model"
	apperrors "github.com/target/batch-explorer/internal/errors"
)

// ErrUnknownTypeCode is returned for a V4 TYPE_CD outside STRING, LONG, DOUBLE and DATE.
var ErrUnknownTypeCode = errors.New("unknown parameter type code")

// LegacyStored is one V4 parameter row, where each kind has its own typed column.
type LegacyStored struct {
	Name        string
	TypeCode    string
	StringVal   sql.NullString
	DateVal     sql.NullTime
	LongVal     sql.NullInt64
	DoubleVal   sql.NullFloat64
	Identifying string
}

// DecodeLegacy converts a V4 parameter row. A NULL in the column selected by TYPE_CD
// yields the string "null", as in Decode.
func DecodeLegacy(s LegacyStored) (model.JobParameter, error) {
	identifying := IsIdentifying(s.Identifying)

	switch model.ParameterType(strings.ToUpper(strings.TrimSpace(s.TypeCode))) {
	case model.ParameterTypeString:
		if !s.StringVal.Valid {
			return model.NullParameter(s.Name, identifying), nil
		}
		return model.StringParameter(s.Name, s.StringVal.String, identifying), nil
	case model.ParameterTypeLong:
		if !s.LongVal.Valid {
			return model.NullParameter(s.Name, identifying), nil
		}
		return model.LongParameter(s.Name, s.LongVal.Int64, identifying), nil
	case model.ParameterTypeDouble:
		if !s.DoubleVal.Valid {
			return model.NullParameter(s.Name, identifying), nil
		}
		return model.DoubleParameter(s.Name, s.DoubleVal.Float64, identifying), nil
	case model.ParameterTypeDate:
		if !s.DateVal.Valid {
			return model.NullParameter(s.Name, identifying), nil
		}
		return model.DateParameter(s.Name, s.DateVal.Time, identifying), nil
	default:
		return model.JobParameter{}, apperrors.Wrapf(ErrUnknownTypeCode, apperrors.ErrCodeDecode,
			"decode parameter %q with type code %q", s.Name, s.TypeCode)
	}
}

// EncodeLegacy produces the V4 row for p.
func EncodeLegacy(p model.JobParameter) LegacyStored {
	s := LegacyStored{Name: p.Name, TypeCode: string(p.Type), Identifying: "N"}
	if p.Identifying {
		s.Identifying = "Y"
	}
	if v, ok := p.LongValue(); ok {
		s.LongVal = sql.NullInt64{Int64: v, Valid: true}
		return s
	}
	if v, ok := p.DoubleValue(); ok {
		s.DoubleVal = sql.NullFloat64{Float64: v, Valid: true}
		return s
	}
	if v, ok := p.DateValue(); ok {
		s.DateVal = sql.NullTime{Time: v, Valid: true}
		return s
	}
	s.TypeCode = string(model.ParameterTypeString)
	s.StringVal = sql.NullString{String: p.Display(), Valid: true}
	return s
}
