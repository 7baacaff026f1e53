package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		wantOK  bool
		wantKey string
		wantSub []string
	}{
		{`:input[name="a"]`, true, "a", []string{}},
		{`:input[name="a[b][c]"]`, true, "a", []string{"b", "c"}},
		{`:input[name="checkboxes[option_1]"]`, true, "checkboxes", []string{"option_1"}},
		{`:input[name="colors[]"]`, true, "colors", []string{}},
		{`:input[name='a']`, false, "", nil},
		{`input[name="a"]`, false, "", nil},
		{`:input[name="a"] `, false, "", nil},
		{`:input[id="a"]`, false, "", nil},
		{`:input[name=""]`, false, "", nil},
		{`.webform-element--a`, false, "", nil},
		{``, false, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ref, ok := Parse(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantKey, ref.ElementKey)
			assert.Equal(t, tt.wantSub, ref.SubPath)
			assert.Equal(t, tt.in, ref.Selector)
		})
	}
}

func TestParseInputPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, ParseInputPath("a[b][c]"))
	assert.Equal(t, []string{"a"}, ParseInputPath("a"))
	assert.Equal(t, []string{"address", "city"}, ParseInputPath("address[city]"))
	assert.Nil(t, ParseInputPath(""))
	assert.Equal(t, []string{"colors"}, ParseInputPath("colors[]"))
	assert.Equal(t, []string{"address", "lines"}, ParseInputPath("address[lines][]"))
}

func TestFormatRoundTrip(t *testing.T) {
	s := Format("a", "b", "c")
	assert.Equal(t, `:input[name="a[b][c]"]`, s)

	ref, ok := Parse(s)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, ref.Path())
	assert.Empty(t, Format())
}
