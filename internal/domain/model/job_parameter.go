package model

import (
	"sort"
	"strconv"
	"time"
)

// ParameterType is the stored kind of a job parameter after widening.
type ParameterType string

const (
	// ParameterTypeString holds string values and every fallback representation.
	ParameterTypeString ParameterType = "STRING"
	// ParameterTypeLong holds integer values (integers are widened to long).
	ParameterTypeLong ParameterType = "LONG"
	// ParameterTypeDouble holds floating point values (floats are widened to double).
	ParameterTypeDouble ParameterType = "DOUBLE"
	// ParameterTypeDate holds date and timestamp values.
	ParameterTypeDate ParameterType = "DATE"
)

// Valid returns true if the ParameterType is known.
func (t ParameterType) Valid() bool {
	return t == ParameterTypeString || t == ParameterTypeLong || t == ParameterTypeDouble ||
		t == ParameterTypeDate
}

// NullValue is the string a parameter carries when its stored value is absent.
const NullValue = "null"

// JobParameter is a named, typed value attached to one job execution.
// Value holds a string, int64, float64 or time.Time matching Type.
type JobParameter struct {
	Name        string        `json:"name"`
	Type        ParameterType `json:"type"`
	Value       any           `json:"value"`
	Identifying bool          `json:"identifying"`
}

// StringParameter builds a STRING parameter.
func StringParameter(name, value string, identifying bool) JobParameter {
	return JobParameter{Name: name, Type: ParameterTypeString, Value: value, Identifying: identifying}
}

// LongParameter builds a LONG parameter.
func LongParameter(name string, value int64, identifying bool) JobParameter {
	return JobParameter{Name: name, Type: ParameterTypeLong, Value: value, Identifying: identifying}
}

// DoubleParameter builds a DOUBLE parameter.
func DoubleParameter(name string, value float64, identifying bool) JobParameter {
	return JobParameter{Name: name, Type: ParameterTypeDouble, Value: value, Identifying: identifying}
}

// DateParameter builds a DATE parameter.
func DateParameter(name string, value time.Time, identifying bool) JobParameter {
	return JobParameter{Name: name, Type: ParameterTypeDate, Value: value, Identifying: identifying}
}

// NullParameter builds the string fallback used for absent values.
func NullParameter(name string, identifying bool) JobParameter {
	return StringParameter(name, NullValue, identifying)
}

// StringValue returns the value when the parameter is a STRING.
func (p JobParameter) StringValue() (string, bool) {
	v, ok := p.Value.(string)
	return v, ok && p.Type == ParameterTypeString
}

// LongValue returns the value when the parameter is a LONG.
func (p JobParameter) LongValue() (int64, bool) {
	v, ok := p.Value.(int64)
	return v, ok && p.Type == ParameterTypeLong
}

// DoubleValue returns the value when the parameter is a DOUBLE.
func (p JobParameter) DoubleValue() (float64, bool) {
	v, ok := p.Value.(float64)
	return v, ok && p.Type == ParameterTypeDouble
}

// DateValue returns the value when the parameter is a DATE.
func (p JobParameter) DateValue() (time.Time, bool) {
	v, ok := p.Value.(time.Time)
	return v, ok && p.Type == ParameterTypeDate
}

// Display renders the value for tables and logs.
func (p JobParameter) Display() string {
	switch v := p.Value.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case nil:
		return NullValue
	default:
		return NullValue
	}
}

// JobParameters is the ordered parameter set of one execution, in stored order.
type JobParameters []JobParameter

// Get returns the parameter with the given name.
func (ps JobParameters) Get(name string) (JobParameter, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p, true
		}
	}
	return JobParameter{}, false
}

// Identifying returns the parameters that form the execution's business key.
func (ps JobParameters) Identifying() JobParameters {
	out := make(JobParameters, 0, len(ps))
	for _, p := range ps {
		if p.Identifying {
			out = append(out, p)
		}
	}
	return out
}

// Names returns the parameter names sorted alphabetically.
func (ps JobParameters) Names() []string {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}
