package domain

import (
	"fmt"
	"strconv"
)

// Submission holds the values of a single request.
// Data is keyed by element key. Input holds the raw bound form values and is only
// consulted when a key is absent from Data.
type Submission struct {
	Data  map[string]any `json:"data"`
	Input map[string]any `json:"input,omitempty"`
}

// NewSubmission wraps data in a Submission.
func NewSubmission(data map[string]any) Submission {
	return Submission{Data: data}
}

// Value returns the value of an element, falling back to the raw input.
func (s Submission) Value(key string) (any, bool) {
	if v, ok := s.Data[key]; ok {
		return v, true
	}
	if v, ok := s.Input[key]; ok {
		return v, true
	}
	return nil, false
}

// Lookup resolves a selector path: path[0] is the element key, the rest walks
// into composite maps and lists. A missing segment yields (nil, false).
func (s Submission) Lookup(path []string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	value, ok := s.Value(path[0])
	if !ok {
		return nil, false
	}
	for _, segment := range path[1:] {
		value, ok = descend(value, segment)
		if !ok {
			return nil, false
		}
	}
	return value, true
}

// descend walks one segment into a nested value.
// Lists are addressed by membership first (checkboxes[option]) and by index second.
func descend(value any, segment string) (any, bool) {
	switch v := value.(type) {
	case map[string]any:
		next, ok := v[segment]
		return next, ok
	case map[any]any:
		next, ok := v[segment]
		return next, ok
	case []any:
		for _, item := range v {
			if fmt.Sprint(item) == segment {
				return item, true
			}
		}
		if i, err := strconv.Atoi(segment); err == nil && i >= 0 && i < len(v) {
			return v[i], true
		}
	case []string:
		for _, item := range v {
			if item == segment {
				return item, true
			}
		}
		if i, err := strconv.Atoi(segment); err == nil && i >= 0 && i < len(v) {
			return v[i], true
		}
	}
	return nil, false
}
