package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drupalprojects/webform-sub000/internal/compiler"
	"github.com/drupalprojects/webform-sub000/pkg/registry"
)

func TestValidateForm(t *testing.T) {
	parser := compiler.NewParser(nil)

	t.Run("Clean Form", func(t *testing.T) {
		form, err := parser.Parse("clean", []byte(`
elements:
  subscribe: {'#type': checkbox}
  email:
    '#type': email
    '#states':
      visible:
        - ':input[name="subscribe"]': {checked: true}
        - or
        - ':input[name="email"]': {filled: true}
`))
		require.NoError(t, err)

		// Self references are reported even in otherwise clean forms.
		err = ValidateForm(form, registry.Default())
		var lintErr *LintError
		require.True(t, errors.As(err, &lintErr))
		require.Len(t, lintErr.Issues, 1)
		assert.Equal(t, "element depends on itself", lintErr.Issues[0].Message)
	})

	t.Run("Broken Rules", func(t *testing.T) {
		form, err := parser.Parse("broken", []byte(`
elements:
  wrapper: {'#type': fieldset}
  odd: {'#type': sparkle_widget}
  target:
    '#type': textfield
    '#states':
      sparkly:
        ':input[name="wrapper"]': {checked: true}
      invalid:
        ':input[name="ghost"]': {checked: true}
      disabled:
        - '#target': {checked: true}
        - nand
        - ':input[name="odd"]': {visible: true}
      required: []
`))
		require.NoError(t, err)

		err = ValidateForm(form, registry.Default())
		var lintErr *LintError
		require.True(t, errors.As(err, &lintErr))

		messages := make([]string, 0, len(lintErr.Issues))
		for _, issue := range lintErr.Issues {
			messages = append(messages, issue.String())
		}
		assert.ElementsMatch(t, []string{
			`odd: unknown element type "sparkle_widget"`,
			`target.sparkly: unknown state`,
			`target.sparkly: selector :input[name="wrapper"] references "wrapper" which holds no value`,
			`target.invalid: state is never applied to a render attribute`,
			`target.invalid: selector :input[name="ghost"] references unknown element "ghost"`,
			`target.disabled: unparsable selector #target`,
			`target.disabled: unknown logic "nand"`,
			`target.disabled: unsupported trigger "visible" on :input[name="odd"]`,
			`target.required: no conditions`,
		}, messages)
		assert.Contains(t, err.Error(), "found 9 issues")
	})

	t.Run("Valid Without Registry", func(t *testing.T) {
		form, err := parser.Parse("plain", []byte(`
elements:
  a: {'#type': custom_thing}
  b:
    '#type': textfield
    '#states':
      enabled:
        ':input[name="a"]': {value: yes}
`))
		require.NoError(t, err)
		assert.NoError(t, ValidateForm(form, nil))
	})
}
