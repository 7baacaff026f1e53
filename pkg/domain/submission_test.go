package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmission_Lookup(t *testing.T) {
	sub := Submission{
		Data: map[string]any{
			"address": map[string]any{"city": "Lisbon", "zip": ""},
			"colors":  []any{"red", "blue"},
			"tags":    []string{"a", "b"},
		},
		Input: map[string]any{"raw": "typed"},
	}

	tests := []struct {
		name   string
		path   []string
		want   any
		wantOK bool
	}{
		{"composite", []string{"address", "city"}, "Lisbon", true},
		{"composite missing", []string{"address", "street"}, nil, false},
		{"list membership", []string{"colors", "blue"}, "blue", true},
		{"list index", []string{"colors", "0"}, "red", true},
		{"string list membership", []string{"tags", "b"}, "b", true},
		{"list miss", []string{"colors", "green"}, nil, false},
		{"raw input fallback", []string{"raw"}, "typed", true},
		{"unknown element", []string{"nope"}, nil, false},
		{"empty path", nil, nil, false},
		{"scalar cannot descend", []string{"raw", "x"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sub.Lookup(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{ElementKey: "b", Message: "B field is required."},
		{Message: "A required field is empty."},
	}

	var err error = errs
	got, ok := AsValidationErrors(err)
	assert.True(t, ok)
	assert.Len(t, got, 2)
	assert.Len(t, got.For("b"), 1)
	assert.Contains(t, err.Error(), "2 validation errors")
}
