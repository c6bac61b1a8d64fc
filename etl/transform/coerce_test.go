package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/schema"
)

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		typ   schema.ColumnType
		want  interface{}
		ok    bool
	}{
		{"nil stays nil", nil, schema.TypeInt, nil, true},
		{"empty string is null", "  ", schema.TypeFloat, nil, true},
		{"int from string", "42", schema.TypeInt, int64(42), true},
		{"int from padded string", " 42 ", schema.TypeInt, int64(42), true},
		{"int from integral float", float64(7), schema.TypeInt, int64(7), true},
		{"int rejects fraction", 7.5, schema.TypeInt, nil, false},
		{"int rejects text", "seven", schema.TypeInt, nil, false},
		{"float from string", "3.14", schema.TypeFloat, 3.14, true},
		{"float rejects text", "pi", schema.TypeFloat, nil, false},
		{"string from float", float64(12), schema.TypeString, "12", true},
		{"datetime from sql format", "2026-01-05 10:30:00", schema.TypeDateTime,
			time.Date(2026, 1, 5, 10, 30, 0, 0, time.UTC), true},
		{"datetime from date only", "2026-01-05", schema.TypeDateTime,
			time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{"datetime rejects garbage", "yesterday", schema.TypeDateTime, nil, false},
		{"date truncates time", "2026-01-05 10:30:00", schema.TypeDate,
			time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := coerceValue(tt.value, tt.typ)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceRFC3339(t *testing.T) {
	got, ok := coerceValue("2026-01-05T10:30:00Z", schema.TypeDateTime)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 1, 5, 10, 30, 0, 0, time.UTC), got)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Jane Doe", titleCase("jane doe"))
	assert.Equal(t, "Jane A. Doe", titleCase("jane a. doe"))
	assert.Equal(t, "Economy Plus", titleCase("ECONOMY PLUS"))
	assert.Equal(t, "Credit Card", titleCase("credit card"))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "BOEING 777", normalizeText(" boeing 777 ", schema.CasingUpper))
	assert.Equal(t, "landed", normalizeText("LANDED", schema.CasingLower))
	assert.Equal(t, "as-is", normalizeText(" as-is ", schema.CasingNone))
	assert.Nil(t, normalizeText("   ", schema.CasingTitle))
	// Non-strings pass through untouched.
	assert.Equal(t, int64(5), normalizeText(int64(5), schema.CasingTitle))
}
