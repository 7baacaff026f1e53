package domain

import "encoding/json"

// Logic is the combinator applied to the conditions of a set.
type Logic string

const (
	LogicAnd Logic = "and"
	LogicOr  Logic = "or"
	LogicXor Logic = "xor"
)

// Entry is one item of a ConditionSet: either a LogicToken or a Condition.
// The kind of an entry is decided when the definition is compiled.
type Entry interface {
	isEntry()
}

// LogicToken switches the combinator for the whole set.
type LogicToken struct {
	Logic Logic
}

// Condition checks the value found at Selector against one or more triggers.
// Several triggers on the same selector are OR-combined.
type Condition struct {
	Selector string
	Triggers []Trigger
}

// Trigger is a single check applied to a dependee value.
// State is one of empty, checked or value, possibly aliased or negated (filled, !checked).
type Trigger struct {
	State string
	Value any
}

func (LogicToken) isEntry() {}
func (Condition) isEntry()  {}

// ConditionSet is an ordered list of entries. The default combinator is "and".
type ConditionSet []Entry

// Conditions returns the condition entries of the set, skipping logic tokens.
func (s ConditionSet) Conditions() []Condition {
	var out []Condition
	for _, entry := range s {
		if c, ok := entry.(Condition); ok {
			out = append(out, c)
		}
	}
	return out
}

// Selectors returns the selectors referenced by the set, in order.
func (s ConditionSet) Selectors() []string {
	var out []string
	for _, c := range s.Conditions() {
		out = append(out, c.Selector)
	}
	return out
}

// MarshalJSON renders the set in its wire shape:
//
//	[{":input[name=\"a\"]": {"checked": true}}, "or", {":input[name=\"b\"]": [{"value": "x"}, {"value": "y"}]}]
func (s ConditionSet) MarshalJSON() ([]byte, error) {
	items := make([]any, 0, len(s))
	for _, entry := range s {
		switch e := entry.(type) {
		case LogicToken:
			items = append(items, string(e.Logic))
		case Condition:
			items = append(items, map[string]any{e.Selector: e.triggersJSON()})
		}
	}
	return json.Marshal(items)
}

func (c Condition) triggersJSON() any {
	if len(c.Triggers) == 1 {
		return map[string]any{c.Triggers[0].State: c.Triggers[0].Value}
	}
	list := make([]any, 0, len(c.Triggers))
	for _, t := range c.Triggers {
		list = append(list, map[string]any{t.State: t.Value})
	}
	return list
}
