// Package params decodes job parameters from their stored batch-metadata representation.
package params

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/target/batch-explorer/internal/domain/model"
	apperrors "github.com/target/batch-explorer/internal/errors"
)

// Kind is the resolved declared type of a stored parameter, before widening.
type Kind int

const (
	// KindFallback marks a resolvable type without a typed representation; the raw value is kept as a string.
	KindFallback Kind = iota
	KindString
	KindInteger
	KindLong
	KindFloat
	KindDouble
	KindTimestamp
	KindDate
)

// ErrUnknownParameterType is returned when a stored type name cannot be resolved.
var ErrUnknownParameterType = errors.New("unknown parameter type")

// typeNames maps stored type names to kinds. Both fully-qualified and short names are accepted.
var typeNames = map[string]Kind{
	"java.lang.String":   KindString,
	"String":             KindString,
	"java.lang.Integer":  KindInteger,
	"Integer":            KindInteger,
	"int":                KindInteger,
	"java.lang.Long":     KindLong,
	"Long":               KindLong,
	"long":               KindLong,
	"java.lang.Float":    KindFloat,
	"Float":              KindFloat,
	"float":              KindFloat,
	"java.lang.Double":   KindDouble,
	"Double":             KindDouble,
	"double":             KindDouble,
	"java.sql.Timestamp": KindTimestamp,
	"Timestamp":          KindTimestamp,
	"java.util.Date":     KindDate,
	"java.sql.Date":      KindDate,
	"Date":               KindDate,

	"java.lang.Boolean":        KindFallback,
	"java.lang.Short":          KindFallback,
	"java.lang.Byte":           KindFallback,
	"java.lang.Character":      KindFallback,
	"java.lang.CharSequence":   KindFallback,
	"java.lang.Object":         KindFallback,
	"java.math.BigDecimal":     KindFallback,
	"java.math.BigInteger":     KindFallback,
	"java.time.LocalDate":      KindFallback,
	"java.time.LocalDateTime":  KindFallback,
	"java.time.LocalTime":      KindFallback,
	"java.time.Instant":        KindFallback,
	"java.time.ZonedDateTime":  KindFallback,
	"java.time.OffsetDateTime": KindFallback,
}

// platformTypeName matches a well-formed class name in the java or javax namespaces.
var platformTypeName = regexp.MustCompile(`^javax?(\.[A-Za-z_$][A-Za-z0-9_$]*)+$`)

// ResolveType maps a stored type name to its Kind. Platform types outside the
// typed set (java.util.UUID, java.net.URI, ...) resolve to KindFallback; empty,
// malformed and application type names do not resolve.
func ResolveType(typeName string) (Kind, error) {
	name := strings.TrimSpace(typeName)
	if kind, ok := typeNames[name]; ok {
		return kind, nil
	}
	if platformTypeName.MatchString(name) {
		return KindFallback, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParameterType, typeName)
}

// Stored is one V5 parameter row: name, declared type name, string value and the Y/N identifying marker.
type Stored struct {
	Name        string
	TypeName    string
	Value       *string
	Identifying string
}

// Decode converts a stored tuple into a typed parameter.
// Absent or null-marked values become the string "null"; an unresolvable type name
// or a value that does not parse as its declared type is a decode fault.
func Decode(s Stored) (model.JobParameter, error) {
	identifying := IsIdentifying(s.Identifying)

	kind, err := ResolveType(s.TypeName)
	if err != nil {
		return model.JobParameter{}, apperrors.Wrapf(err, apperrors.ErrCodeDecode, "decode parameter %q", s.Name)
	}

	if s.Value == nil || *s.Value == model.NullValue {
		return model.NullParameter(s.Name, identifying), nil
	}
	raw := *s.Value

	if kind == KindString || kind == KindFallback {
		return model.StringParameter(s.Name, raw, identifying), nil
	}

	// Empty strings convert to no value for every non-string kind.
	if strings.TrimSpace(raw) == "" {
		return model.NullParameter(s.Name, identifying), nil
	}

	p, convErr := convert(s.Name, kind, strings.TrimSpace(raw), identifying)
	if convErr != nil {
		return model.JobParameter{}, apperrors.Wrapf(convErr, apperrors.ErrCodeDecode,
			"decode parameter %q as %s", s.Name, s.TypeName)
	}
	return p, nil
}

func convert(name string, kind Kind, raw string, identifying bool) (model.JobParameter, error) {
	switch kind {
	case KindInteger:
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return model.JobParameter{}, err
		}
		return model.LongParameter(name, v, identifying), nil
	case KindLong:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return model.JobParameter{}, err
		}
		return model.LongParameter(name, v, identifying), nil
	case KindFloat:
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return model.JobParameter{}, err
		}
		return model.DoubleParameter(name, float64(float32(v)), identifying), nil
	case KindDouble:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.JobParameter{}, err
		}
		if math.IsInf(v, 0) {
			return model.JobParameter{}, fmt.Errorf("value %q out of range", raw)
		}
		return model.DoubleParameter(name, v, identifying), nil
	case KindTimestamp, KindDate:
		v, err := ParseDate(raw)
		if err != nil {
			return model.JobParameter{}, err
		}
		return model.DateParameter(name, v, identifying), nil
	default:
		return model.StringParameter(name, raw, identifying), nil
	}
}

// IsIdentifying reports whether a stored marker flags the parameter as identifying.
func IsIdentifying(marker string) bool {
	return strings.EqualFold(strings.TrimSpace(marker), "Y")
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseDate parses the date encodings written by batch runtimes.
// Values without a zone are read as UTC. Bare integers are epoch milliseconds.
func ParseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	if millis, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(millis).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

// Encode renders a parameter as the V5 stored tuple. Dates are written in RFC 3339 UTC.
func Encode(p model.JobParameter) Stored {
	marker := "N"
	if p.Identifying {
		marker = "Y"
	}
	typeName := "java.lang.String"
	switch p.Type {
	case model.ParameterTypeLong:
		typeName = "java.lang.Long"
	case model.ParameterTypeDouble:
		typeName = "java.lang.Double"
	case model.ParameterTypeDate:
		typeName = "java.util.Date"
	}

	value := p.Display()
	if t, ok := p.DateValue(); ok {
		value = t.UTC().Format(time.RFC3339Nano)
	}
	return Stored{Name: p.Name, TypeName: typeName, Value: &value, Identifying: marker}
}
