package transform

import (
	"strconv"
	"strings"
	"time"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/schema"
)

// timeLayouts are the accepted source formats for date/time values, tried in
// order.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// coerceValue converts a raw extracted value to the declared column type.
// NULL and empty string stay NULL. The second return is false when the value
// is present but cannot be coerced; the caller nulls it and counts the
// failure rather than aborting the batch.
func coerceValue(value interface{}, typ schema.ColumnType) (interface{}, bool) {
	if value == nil {
		return nil, true
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return nil, true
	}

	switch typ {
	case schema.TypeString:
		return coerceString(value)
	case schema.TypeInt:
		return coerceInt(value)
	case schema.TypeFloat:
		return coerceFloat(value)
	case schema.TypeDateTime:
		return coerceTime(value)
	case schema.TypeDate:
		t, ok := coerceTime(value)
		if !ok || t == nil {
			return nil, ok
		}
		ts := t.(time.Time)
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), true
	default:
		return value, true
	}
}

func coerceString(value interface{}) (interface{}, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		return strconv.FormatBool(v), true
	case time.Time:
		return v.Format("2006-01-02 15:04:05"), true
	default:
		return nil, false
	}
}

func coerceInt(value interface{}) (interface{}, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v != float64(int64(v)) {
			return nil, false
		}
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	default:
		return nil, false
	}
}

func coerceFloat(value interface{}) (interface{}, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, false
		}
		return f, true
	default:
		return nil, false
	}
}

func coerceTime(value interface{}) (interface{}, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return nil, false
	default:
		return nil, false
	}
}
