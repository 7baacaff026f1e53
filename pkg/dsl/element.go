package dsl

import (
	"github.com/drupalprojects/webform-sub000/pkg/domain"
	"github.com/drupalprojects/webform-sub000/pkg/selector"
)

// ElementBuilder provides a fluent API for configuring an element.
type ElementBuilder struct {
	el      domain.Element
	caps    *domain.Capabilities
	builder *Builder
}

// Type sets the element type (textfield, checkbox, fieldset, ...).
func (e *ElementBuilder) Type(t string) *ElementBuilder {
	e.el.Type = t
	return e
}

// Title sets the label used in validation messages.
func (e *ElementBuilder) Title(title string) *ElementBuilder {
	e.el.Title = title
	return e
}

// Under nests the element inside a container element.
func (e *ElementBuilder) Under(parent string) *ElementBuilder {
	e.el.ParentKey = parent
	return e
}

// Required marks the element statically required.
func (e *ElementBuilder) Required() *ElementBuilder {
	e.el.Required = true
	return e
}

// RequiredError overrides the required message.
func (e *ElementBuilder) RequiredError(msg string) *ElementBuilder {
	e.el.RequiredError = msg
	return e
}

// Disabled marks the element statically disabled.
func (e *ElementBuilder) Disabled() *ElementBuilder {
	e.el.Disabled = true
	return e
}

// Hidden removes the element from the visible tree unless a rule shows it.
func (e *ElementBuilder) Hidden() *ElementBuilder {
	e.el.Hidden = true
	return e
}

// Collapsed renders a details element closed.
func (e *ElementBuilder) Collapsed() *ElementBuilder {
	e.el.Collapsed = true
	return e
}

// Default sets the default value.
func (e *ElementBuilder) Default(v any) *ElementBuilder {
	e.el.DefaultValue = v
	return e
}

// Capabilities overrides what the registry reports for the element type.
func (e *ElementBuilder) Capabilities(caps domain.Capabilities) *ElementBuilder {
	e.caps = &caps
	return e
}

// When adds a conditional state. Parts are conditions and logic tokens, in order.
func (e *ElementBuilder) When(state string, parts ...domain.Entry) *ElementBuilder {
	e.el.States = e.el.States.With(state, domain.ConditionSet(parts))
	return e
}

// Add is a shortcut for the owning builder's Add.
func (e *ElementBuilder) Add(key string) *ElementBuilder {
	return e.builder.Add(key)
}

// Trigger builds a condition on any selector path.
func Trigger(path []string, state string, value any) domain.Condition {
	return domain.Condition{
		Selector: selector.Format(path...),
		Triggers: []domain.Trigger{{State: state, Value: value}},
	}
}

// Checked is true when the dependee is checked.
func Checked(key string) domain.Condition {
	return Trigger([]string{key}, "checked", true)
}

// Unchecked is true when the dependee is not checked.
func Unchecked(key string) domain.Condition {
	return Trigger([]string{key}, "unchecked", true)
}

// Filled is true when the dependee has a value.
func Filled(key string) domain.Condition {
	return Trigger([]string{key}, "filled", true)
}

// Empty is true when the dependee has no value.
func Empty(key string) domain.Condition {
	return Trigger([]string{key}, "empty", true)
}

// Value is true when the dependee equals v (or, for multi-valued dependees, shares a member with v).
func Value(key string, v any) domain.Condition {
	return Trigger([]string{key}, "value", v)
}

// AnyValue is true when the dependee equals any of values.
func AnyValue(key string, values ...any) domain.Condition {
	c := domain.Condition{Selector: selector.Format(key)}
	for _, v := range values {
		c.Triggers = append(c.Triggers, domain.Trigger{State: "value", Value: v})
	}
	return c
}

// Or switches the set to "or".
func Or() domain.LogicToken {
	return domain.LogicToken{Logic: domain.LogicOr}
}

// Xor switches the set to "xor".
func Xor() domain.LogicToken {
	return domain.LogicToken{Logic: domain.LogicXor}
}
