package conditions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

func sel(key string) string {
	return `:input[name="` + key + `"]`
}

func cond(selector, state string, value any) domain.Condition {
	return domain.Condition{Selector: selector, Triggers: []domain.Trigger{{State: state, Value: value}}}
}

func testForm(t *testing.T) *domain.Form {
	t.Helper()
	form, err := domain.NewForm("test",
		domain.Element{Key: "a", Capabilities: domain.Capabilities{Input: true}},
		domain.Element{Key: "b", Capabilities: domain.Capabilities{Input: true}},
		domain.Element{Key: "c", Capabilities: domain.Capabilities{Input: true}},
		domain.Element{Key: "colors", Capabilities: domain.Capabilities{Input: true, Multiple: true}},
		domain.Element{Key: "address", Capabilities: domain.Capabilities{Input: true, Composite: true}},
	)
	require.NoError(t, err)
	return form
}

func TestEvaluate_And(t *testing.T) {
	form := testForm(t)
	set := domain.ConditionSet{
		cond(sel("a"), "value", "x"),
		cond(sel("b"), "checked", true),
	}

	tests := []struct {
		name string
		data map[string]any
		want Result
	}{
		{"both true", map[string]any{"a": "x", "b": true}, True},
		{"first false", map[string]any{"a": "y", "b": true}, False},
		{"second false", map[string]any{"a": "x", "b": false}, False},
		{"both missing", map[string]any{}, False},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(set, form, domain.NewSubmission(tt.data)))
		})
	}
}

func TestEvaluate_OrShortCircuit(t *testing.T) {
	form := testForm(t)
	set := domain.ConditionSet{
		cond(sel("a"), "value", "x"),
		domain.LogicToken{Logic: domain.LogicOr},
		cond(`input[name=bad]`, "value", "y"),
	}

	assert.Equal(t, True, Evaluate(set, form, domain.NewSubmission(map[string]any{"a": "x"})))

	// Without a true term before the token the bad selector is reached.
	assert.Equal(t, Indeterminate, Evaluate(set, form, domain.NewSubmission(map[string]any{"a": "z"})))
}

func TestEvaluate_Or(t *testing.T) {
	form := testForm(t)
	set := domain.ConditionSet{
		cond(sel("a"), "value", "x"),
		domain.LogicToken{Logic: domain.LogicOr},
		cond(sel("b"), "value", "y"),
	}

	assert.Equal(t, True, Evaluate(set, form, domain.NewSubmission(map[string]any{"b": "y"})))
	assert.Equal(t, False, Evaluate(set, form, domain.NewSubmission(map[string]any{"a": "q", "b": "q"})))
}

func TestEvaluate_Xor(t *testing.T) {
	form := testForm(t)
	set := domain.ConditionSet{
		cond(sel("a"), "checked", true),
		domain.LogicToken{Logic: domain.LogicXor},
		cond(sel("b"), "checked", true),
		domain.LogicToken{Logic: domain.LogicXor},
		cond(sel("c"), "checked", true),
	}

	tests := []struct {
		name string
		data map[string]any
		want Result
	}{
		{"none", map[string]any{}, False},
		{"one", map[string]any{"b": true}, True},
		{"two", map[string]any{"a": true, "c": true}, False},
		{"three", map[string]any{"a": true, "b": true, "c": true}, False},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(set, form, domain.NewSubmission(tt.data)))
		})
	}
}

func TestEvaluate_Triggers(t *testing.T) {
	form := testForm(t)

	tests := []struct {
		name    string
		trigger string
		value   any
		data    map[string]any
		want    Result
	}{
		{"empty on missing", "empty", true, nil, True},
		{"empty on zero string", "empty", true, map[string]any{"a": "0"}, False},
		{"filled on zero string", "filled", true, map[string]any{"a": "0"}, True},
		{"filled on zero number", "filled", true, map[string]any{"a": 0}, True},
		{"empty on unchecked map", "empty", true, map[string]any{"a": map[string]any{"x": 0, "y": 0}}, True},
		{"filled on checked map", "filled", true, map[string]any{"a": map[string]any{"x": "x", "y": 0}}, True},
		{"empty false on text", "empty", true, map[string]any{"a": "text"}, False},
		{"filled alias", "filled", true, map[string]any{"a": "text"}, True},
		{"checked", "checked", true, map[string]any{"a": 1}, True},
		{"unchecked alias", "unchecked", true, map[string]any{"a": false}, True},
		{"explicit negation", "!checked", true, map[string]any{"a": true}, False},
		{"double negation", "!unchecked", true, map[string]any{"a": true}, True},
		{"value stringifies numbers", "value", "3", map[string]any{"a": 3}, True},
		{"value stringifies floats", "value", 2.5, map[string]any{"a": "2.5"}, True},
		{"value mismatch", "value", "x", map[string]any{"a": "y"}, False},
		{"unsupported trigger", "visible", true, map[string]any{"a": "x"}, Indeterminate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := domain.ConditionSet{cond(sel("a"), tt.trigger, tt.value)}
			assert.Equal(t, tt.want, Evaluate(set, form, domain.NewSubmission(tt.data)))
		})
	}
}

func TestEvaluate_MultiValueIntersection(t *testing.T) {
	form := testForm(t)
	set := domain.ConditionSet{cond(sel("colors"), "value", []any{"a", "b"})}

	assert.Equal(t, True, Evaluate(set, form, domain.NewSubmission(map[string]any{"colors": []any{"b", "c"}})))
	assert.Equal(t, False, Evaluate(set, form, domain.NewSubmission(map[string]any{"colors": []any{"c"}})))

	// Checkbox maps carry unchecked options as falsy values.
	checkboxes := map[string]any{"colors": map[string]any{"a": 0, "c": "c"}}
	assert.Equal(t, False, Evaluate(set, form, domain.NewSubmission(checkboxes)))
}

func TestEvaluate_MultipleTriggersAreOred(t *testing.T) {
	form := testForm(t)
	set := domain.ConditionSet{domain.Condition{
		Selector: sel("a"),
		Triggers: []domain.Trigger{{State: "value", Value: "x"}, {State: "value", Value: "y"}},
	}}

	assert.Equal(t, True, Evaluate(set, form, domain.NewSubmission(map[string]any{"a": "y"})))
	assert.Equal(t, False, Evaluate(set, form, domain.NewSubmission(map[string]any{"a": "z"})))
}

func TestEvaluate_CompositeSubPath(t *testing.T) {
	form := testForm(t)
	set := domain.ConditionSet{cond(sel("address[city]"), "value", "Lisbon")}

	sub := domain.NewSubmission(map[string]any{"address": map[string]any{"city": "Lisbon"}})
	assert.Equal(t, True, Evaluate(set, form, sub))
}

func TestEvaluate_Indeterminate(t *testing.T) {
	form := testForm(t)
	sub := domain.NewSubmission(map[string]any{"a": "x"})

	tests := []struct {
		name string
		set  domain.ConditionSet
	}{
		{"empty set", nil},
		{"only logic", domain.ConditionSet{domain.LogicToken{Logic: domain.LogicOr}}},
		{"bad selector in and", domain.ConditionSet{cond(sel("a"), "value", "x"), cond(`#a`, "value", "x")}},
		{"missing element", domain.ConditionSet{cond(sel("ghost"), "value", "x")}},
		{"no triggers", domain.ConditionSet{domain.Condition{Selector: sel("a")}}},
		{"unknown logic", domain.ConditionSet{domain.LogicToken{Logic: "nand"}, cond(sel("a"), "value", "x")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Indeterminate, Evaluate(tt.set, form, sub))
		})
	}
}

func TestEvaluate_DoesNotMutateSubmission(t *testing.T) {
	form := testForm(t)
	data := map[string]any{"colors": []any{"a"}}
	sub := domain.NewSubmission(data)

	Evaluate(domain.ConditionSet{cond(sel("colors"), "value", "a")}, form, sub)
	assert.Equal(t, map[string]any{"colors": []any{"a"}}, data)
}

func TestResult(t *testing.T) {
	v, ok := True.Bool()
	assert.True(t, v)
	assert.True(t, ok)

	_, ok = Indeterminate.Bool()
	assert.False(t, ok)

	assert.Equal(t, False, True.Not())
	assert.Equal(t, Indeterminate, Indeterminate.Not())
	assert.Equal(t, "indeterminate", Indeterminate.String())
}

func TestTruthyAndStringOf(t *testing.T) {
	assert.False(t, Truthy("0"))
	assert.False(t, Truthy(0.0))
	assert.False(t, Truthy([]any{}))
	assert.True(t, Truthy("false"))
	assert.Equal(t, "1", StringOf(true))
	assert.Equal(t, "", StringOf(false))
	assert.Equal(t, "3", StringOf(float64(3)))
}

func TestEvaluate_MultiValueBrackets(t *testing.T) {
	form := testForm(t)
	sub := domain.NewSubmission(map[string]any{"colors": []any{"a", "c"}})

	tests := []struct {
		name     string
		selector string
		state    string
		value    any
		want     Result
	}{
		{"bare name", sel("colors"), "value", []any{"a"}, True},
		{"bracketed name", sel("colors[]"), "value", []any{"a"}, True},
		{"bracketed name miss", sel("colors[]"), "value", []any{"b"}, False},
		{"bracketed filled", sel("colors[]"), "filled", true, True},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := domain.ConditionSet{cond(tt.selector, tt.state, tt.value)}
			assert.Equal(t, tt.want, Evaluate(set, form, sub))
		})
	}
}

func TestEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"zero string", "0", false},
		{"zero int", 0, false},
		{"zero float", 0.0, false},
		{"false", false, true},
		{"empty list", []any{}, true},
		{"unchecked checkboxes", map[string]any{"a": 0, "b": 0}, true},
		{"one checked", map[string]any{"a": "a", "b": 0}, false},
		{"text", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Empty(tt.value))
		})
	}
}
