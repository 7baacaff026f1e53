package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFormNotFound is returned when a loader has no definition for a form ID.
var ErrFormNotFound = errors.New("form not found")

// ErrInvalidDefinition is returned when a form document cannot be compiled.
var ErrInvalidDefinition = errors.New("invalid form definition")

// ValidationError is a user-visible failure attributed to an element.
// An empty ElementKey marks a form-level error.
type ValidationError struct {
	ElementKey string `json:"element_key,omitempty"`
	Message    string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.ElementKey == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.ElementKey, e.Message)
}

// ValidationErrors aggregates the failures of a submit attempt.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, e[i].Error())
	}
	return sb.String()
}

// For returns the errors attributed to the given element key.
func (e ValidationErrors) For(key string) []ValidationError {
	var out []ValidationError
	for _, v := range e {
		if v.ElementKey == key {
			out = append(out, v)
		}
	}
	return out
}

// AsValidationErrors extracts ValidationErrors from err, if any.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}
