package jsonutil

import (
	"encoding/json"
	"strconv"
)

// FlexibleString converts a decoded JSON value to its string form, handling
// upstream sources that return numbers or booleans where strings are
// expected. Returns ok=false for nil and for values with no scalar form
// (objects, arrays).
func FlexibleString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10), true
		}
		return strconv.FormatFloat(val, 'g', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

// FlexibleFloat converts a decoded JSON value to a float64, accepting
// numeric strings. Returns ok=false for nil, non-numeric strings, and
// non-scalar values.
func FlexibleFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
