package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ============================================================================
// VALUES — Scalar normalization and comparison
// ============================================================================
// Records arrive from JSON (float64), YAML (int, float64) or Go callers (any
// numeric kind). Values are normalized on read so that:
//   - every number is a float64 (1 from YAML equals 1.0 from JSON)
//   - non-scalar values (lists, objects) become their JSON text
//
// After normalization every value is comparable and can be a map key.
// ============================================================================

// Scalar normalizes a raw record value.
func Scalar(v interface{}) interface{} {
	switch x := v.(type) {
	case nil, string, bool, float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// Numeric returns the value as a number. Absent and non-numeric values are 0.
func Numeric(v interface{}, present bool) float64 {
	if !present {
		return 0
	}
	if f, ok := Scalar(v).(float64); ok && !math.IsNaN(f) {
		return f
	}
	return 0
}

// Text renders a value for substring matching and labels.
// Absent and null values render as the empty string.
func Text(v interface{}, present bool) string {
	if !present {
		return ""
	}
	switch x := Scalar(v).(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// strictEqual compares two normalized values without type coercion:
// the string "1" never equals the number 1.
func strictEqual(a, b interface{}) bool {
	return a == b
}
