package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

func TestDefault(t *testing.T) {
	r := Default()

	tests := []struct {
		name string
		want domain.Capabilities
	}{
		{"textfield", domain.Capabilities{Input: true}},
		{"checkboxes", domain.Capabilities{Input: true, Multiple: true}},
		{"address", domain.Capabilities{Input: true, Composite: true}},
		{"fieldset", domain.Capabilities{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Lookup(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_RegisterOverwrites(t *testing.T) {
	r := NewRegistry()
	_, err := r.Lookup("rating")
	assert.Error(t, err)

	r.Register("rating", domain.Capabilities{Input: true})
	r.Register("rating", domain.Capabilities{Input: true, Multiple: true})

	got, err := r.Lookup("rating")
	require.NoError(t, err)
	assert.True(t, got.Multiple)
	assert.Equal(t, []string{"rating"}, r.Types())
}
