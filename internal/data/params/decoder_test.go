package params

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/batch-explorer/internal/domain/model"
	apperrors "github.com/target/batch-explorer/internal/errors"
)

func strPtr(s string) *string { return &s }

func TestDecode_SupportedKinds(t *testing.T) {
	at := time.Date(2024, 2, 29, 23, 15, 0, 0, time.UTC)

	tests := []struct {
		name     string
		stored   Stored
		wantType model.ParameterType
		want     any
	}{
		{
			name:     "string",
			stored:   Stored{Name: "input", TypeName: "java.lang.String", Value: strPtr("s3://in"), Identifying: "Y"},
			wantType: model.ParameterTypeString,
			want:     "s3://in",
		},
		{
			name:     "integer widens to long",
			stored:   Stored{Name: "retries", TypeName: "java.lang.Integer", Value: strPtr("3"), Identifying: "N"},
			wantType: model.ParameterTypeLong,
			want:     int64(3),
		},
		{
			name:     "long",
			stored:   Stored{Name: "chunk", TypeName: "java.lang.Long", Value: strPtr("42"), Identifying: "N"},
			wantType: model.ParameterTypeLong,
			want:     int64(42),
		},
		{
			name:     "float widens to double",
			stored:   Stored{Name: "ratio", TypeName: "java.lang.Float", Value: strPtr("1.5"), Identifying: "N"},
			wantType: model.ParameterTypeDouble,
			want:     1.5,
		},
		{
			name:     "double",
			stored:   Stored{Name: "threshold", TypeName: "java.lang.Double", Value: strPtr("0.125"), Identifying: "N"},
			wantType: model.ParameterTypeDouble,
			want:     0.125,
		},
		{
			name:     "timestamp becomes date",
			stored:   Stored{Name: "run.at", TypeName: "java.sql.Timestamp", Value: strPtr("2024-02-29 23:15:00"), Identifying: "Y"},
			wantType: model.ParameterTypeDate,
			want:     at,
		},
		{
			name:     "date rfc3339",
			stored:   Stored{Name: "run.date", TypeName: "java.util.Date", Value: strPtr("2024-02-29T23:15:00Z"), Identifying: "y"},
			wantType: model.ParameterTypeDate,
			want:     at,
		},
		{
			name:     "date epoch millis",
			stored:   Stored{Name: "run.date", TypeName: "java.util.Date", Value: strPtr("1709248500000"), Identifying: "N"},
			wantType: model.ParameterTypeDate,
			want:     at,
		},
		{
			name:     "short type name",
			stored:   Stored{Name: "chunk", TypeName: "Long", Value: strPtr("7"), Identifying: "N"},
			wantType: model.ParameterTypeLong,
			want:     int64(7),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode(tt.stored)
			require.NoError(t, err)
			assert.Equal(t, tt.stored.Name, p.Name)
			assert.Equal(t, tt.wantType, p.Type)
			if want, ok := tt.want.(time.Time); ok {
				got, isDate := p.DateValue()
				require.True(t, isDate)
				assert.True(t, want.Equal(got), "got %v want %v", got, want)
				return
			}
			assert.Equal(t, tt.want, p.Value)
		})
	}
}

func TestDecode_Identifying(t *testing.T) {
	for marker, want := range map[string]bool{"Y": true, "y": true, " Y ": true, "N": false, "": false, "yes": false} {
		p, err := Decode(Stored{Name: "k", TypeName: "java.lang.String", Value: strPtr("v"), Identifying: marker})
		require.NoError(t, err)
		assert.Equal(t, want, p.Identifying, "marker %q", marker)
	}
}

func TestDecode_NullHandling(t *testing.T) {
	tests := []struct {
		name   string
		stored Stored
	}{
		{name: "null marker on long", stored: Stored{Name: "a", TypeName: "java.lang.Long", Value: strPtr("null")}},
		{name: "sql null on date", stored: Stored{Name: "a", TypeName: "java.util.Date"}},
		{name: "null marker on string", stored: Stored{Name: "a", TypeName: "java.lang.String", Value: strPtr("null")}},
		{name: "empty value on double", stored: Stored{Name: "a", TypeName: "java.lang.Double", Value: strPtr("")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode(tt.stored)
			require.NoError(t, err)
			v, ok := p.StringValue()
			require.True(t, ok)
			assert.Equal(t, "null", v)
		})
	}
}

func TestDecode_EmptyStringStaysString(t *testing.T) {
	p, err := Decode(Stored{Name: "suffix", TypeName: "java.lang.String", Value: strPtr("")})
	require.NoError(t, err)
	v, ok := p.StringValue()
	require.True(t, ok)
	assert.Empty(t, v)
}

func TestDecode_FallbackTypesKeepRawString(t *testing.T) {
	for _, typeName := range []string{"java.lang.Boolean", "java.math.BigDecimal", "java.time.LocalDate"} {
		p, err := Decode(Stored{Name: "x", TypeName: typeName, Value: strPtr("true")})
		require.NoError(t, err, typeName)
		assert.Equal(t, model.ParameterTypeString, p.Type)
		assert.Equal(t, "true", p.Value)
	}
}

func TestDecode_PlatformTypesFallBackToString(t *testing.T) {
	tests := []struct {
		typeName string
		value    string
	}{
		{"java.util.UUID", "3f2b1c9e-8d4a-4e7b-9a61-0c5d2e7f8a90"},
		{"java.net.URI", "s3://exports/2024-03-01/"},
		{"java.net.URL", "https://example.com/feed"},
		{"java.time.Duration", "PT15M"},
		{"java.nio.file.Path", "/var/batch/in"},
		{"java.io.File", "/var/batch/out.csv"},
		{"javax.money.MonetaryAmount", "USD 12.50"},
		{"java.util.Map$Entry", "k=v"},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			kind, err := ResolveType(tt.typeName)
			require.NoError(t, err)
			assert.Equal(t, KindFallback, kind)

			p, err := Decode(Stored{Name: "run.id", TypeName: tt.typeName, Value: strPtr(tt.value), Identifying: "Y"})
			require.NoError(t, err)
			assert.Equal(t, model.ParameterTypeString, p.Type)
			assert.Equal(t, tt.value, p.Value)
			assert.True(t, p.Identifying)
		})
	}
}

func TestDecode_UnknownTypeIsDecodeFault(t *testing.T) {
	for _, typeName := range []string{
		"com.example.Widget",
		"",
		"   ",
		"java.",
		"java..util.UUID",
		"java.util.9Lives",
		"javanese.Script",
		"java util UUID",
	} {
		_, err := Decode(Stored{Name: "x", TypeName: typeName, Value: strPtr("1")})
		require.Error(t, err, "type %q", typeName)
		assert.True(t, apperrors.IsDecode(err), "type %q", typeName)
		assert.ErrorIs(t, err, ErrUnknownParameterType, "type %q", typeName)
	}
}

func TestDecode_UnparseableValueIsDecodeFault(t *testing.T) {
	tests := []Stored{
		{Name: "x", TypeName: "java.lang.Long", Value: strPtr("forty-two")},
		{Name: "x", TypeName: "java.lang.Integer", Value: strPtr("3000000000")},
		{Name: "x", TypeName: "java.util.Date", Value: strPtr("yesterday")},
		{Name: "x", TypeName: "java.lang.Double", Value: strPtr("1e400")},
	}
	for _, stored := range tests {
		_, err := Decode(stored)
		assert.True(t, apperrors.IsDecode(err), "value %q as %s", *stored.Value, stored.TypeName)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	originals := []model.JobParameter{
		model.StringParameter("input", "gs://bucket/file.csv", true),
		model.LongParameter("chunk", 42, false),
		model.DoubleParameter("ratio", 0.75, false),
		model.DateParameter("run.date", time.Date(2023, 12, 31, 8, 30, 0, 500, time.UTC), true),
	}

	for _, original := range originals {
		t.Run(original.Name, func(t *testing.T) {
			decoded, err := Decode(Encode(original))
			require.NoError(t, err)
			assert.Equal(t, original.Type, decoded.Type)
			assert.Equal(t, original.Identifying, decoded.Identifying)
			if want, ok := original.DateValue(); ok {
				got, _ := decoded.DateValue()
				assert.True(t, want.Equal(got))
				return
			}
			assert.Equal(t, original.Value, decoded.Value)
		})
	}
}

func TestDecodeLegacy(t *testing.T) {
	at := time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		stored   LegacyStored
		wantType model.ParameterType
		want     any
	}{
		{
			name:     "string",
			stored:   LegacyStored{Name: "a", TypeCode: "STRING", StringVal: sql.NullString{String: "x", Valid: true}, Identifying: "Y"},
			wantType: model.ParameterTypeString,
			want:     "x",
		},
		{
			name:     "long",
			stored:   LegacyStored{Name: "a", TypeCode: "LONG", LongVal: sql.NullInt64{Int64: 9, Valid: true}},
			wantType: model.ParameterTypeLong,
			want:     int64(9),
		},
		{
			name:     "double",
			stored:   LegacyStored{Name: "a", TypeCode: "double", DoubleVal: sql.NullFloat64{Float64: 2.5, Valid: true}},
			wantType: model.ParameterTypeDouble,
			want:     2.5,
		},
		{
			name:     "date",
			stored:   LegacyStored{Name: "a", TypeCode: "DATE", DateVal: sql.NullTime{Time: at, Valid: true}},
			wantType: model.ParameterTypeDate,
			want:     at,
		},
		{
			name:     "null long column",
			stored:   LegacyStored{Name: "a", TypeCode: "LONG"},
			wantType: model.ParameterTypeString,
			want:     "null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodeLegacy(tt.stored)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, p.Type)
			assert.Equal(t, tt.want, p.Value)
		})
	}
}

func TestDecodeLegacy_UnknownTypeCode(t *testing.T) {
	_, err := DecodeLegacy(LegacyStored{Name: "a", TypeCode: "BLOB"})
	assert.True(t, apperrors.IsDecode(err))
	assert.ErrorIs(t, err, ErrUnknownTypeCode)
}

func TestEncodeLegacy_RoundTrip(t *testing.T) {
	at := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
	for _, p := range []model.JobParameter{
		model.StringParameter("run.id", "abc", true),
		model.LongParameter("chunk", 500, false),
		model.DoubleParameter("ratio", 0.25, false),
		model.DateParameter("business.date", at, true),
		model.NullParameter("note", false),
	} {
		t.Run(p.Name, func(t *testing.T) {
			got, err := DecodeLegacy(EncodeLegacy(p))
			require.NoError(t, err)
			assert.Equal(t, p, got)
		})
	}
}
