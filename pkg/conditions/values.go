package conditions

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Truthy converts a submitted value to a boolean with form-input semantics:
// nil, false, zero numbers, "", "0" and empty collections are false.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != "" && x != "0"
	case int:
		return x != 0
	case int64:
		return x != 0
	case int32:
		return x != 0
	case uint:
		return x != 0
	case uint64:
		return x != 0
	case float64:
		return x != 0
	case float32:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case []any:
		return len(x) > 0
	case []string:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	case map[any]any:
		return len(x) > 0
	default:
		return true
	}
}

// Empty reports whether a value counts as not filled in. It backs both the
// "empty" trigger and required-field validation.
// Explicit zeros ("0", 0) are filled in. A checkbox map whose members are all
// unchecked (falsy) is empty.
func Empty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return x == ""
	case int, int32, int64, uint, uint64, float32, float64, json.Number:
		return false
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case map[string]any:
		for _, item := range x {
			if Truthy(item) {
				return false
			}
		}
		return true
	case map[any]any:
		for _, item := range x {
			if Truthy(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// StringOf renders a scalar the way it is compared by the "value" trigger.
// Booleans render as "1" and "", whole floats without a fraction.
func StringOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "1"
		}
		return ""
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// asSet flattens a value into its string members.
// Unchecked members of a checkbox map (falsy values) are skipped.
func asSet(v any) map[string]struct{} {
	set := make(map[string]struct{})
	switch x := v.(type) {
	case nil:
	case []any:
		for _, item := range x {
			set[StringOf(item)] = struct{}{}
		}
	case []string:
		for _, item := range x {
			set[item] = struct{}{}
		}
	case map[string]any:
		for _, item := range x {
			if Truthy(item) {
				set[StringOf(item)] = struct{}{}
			}
		}
	default:
		set[StringOf(x)] = struct{}{}
	}
	return set
}

func intersects(a, b map[string]struct{}) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}
