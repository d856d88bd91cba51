package jsonutil

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexibleString converts a decoded JSON value to a string, handling cases
// where LLMs return numbers or booleans instead of strings. Returns empty
// string for nil.
func FlexibleString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
