// Package conditions evaluates condition sets against submission data.
//
// Evaluation is three-valued. True and False are resolved outcomes; Indeterminate means
// the set references something that cannot be resolved (an unparsable selector, a missing
// element, an unsupported trigger) and the rule it belongs to must be left alone.
// Indeterminate is never an error and is never folded into False.
package conditions

import (
	"github.com/drupalprojects/webform-sub000/pkg/domain"
	"github.com/drupalprojects/webform-sub000/pkg/selector"
	"github.com/drupalprojects/webform-sub000/pkg/states"
)

// Result is the outcome of an evaluation.
type Result int8

const (
	Indeterminate Result = iota
	False
	True
)

// Of converts a boolean into a Result.
func Of(b bool) Result {
	if b {
		return True
	}
	return False
}

// Bool returns the boolean value and whether the result is determinate.
func (r Result) Bool() (value bool, ok bool) {
	return r == True, r != Indeterminate
}

// Not flips a determinate result. Indeterminate stays Indeterminate.
func (r Result) Not() Result {
	switch r {
	case True:
		return False
	case False:
		return True
	}
	return Indeterminate
}

func (r Result) String() string {
	switch r {
	case True:
		return domain.OutcomeTrue
	case False:
		return domain.OutcomeFalse
	}
	return domain.OutcomeIndeterminate
}

// Lookup resolves dependee elements by key. *domain.Form satisfies it.
type Lookup interface {
	Element(key string) (*domain.Element, bool)
}

// Evaluator evaluates condition sets against the elements of one form.
type Evaluator struct {
	lookup Lookup
}

// New creates an evaluator bound to a form (or any element lookup).
func New(lookup Lookup) *Evaluator {
	return &Evaluator{lookup: lookup}
}

// Evaluate is a shorthand for New(lookup).Evaluate(set, sub).
func Evaluate(set domain.ConditionSet, lookup Lookup, sub domain.Submission) Result {
	return New(lookup).Evaluate(set, sub)
}

// Evaluate resolves the set. Entries are visited in order; an "or" token returns True as
// soon as any condition seen so far is true, so later entries are never resolved.
// Any Indeterminate condition makes the whole set Indeterminate.
func (e *Evaluator) Evaluate(set domain.ConditionSet, sub domain.Submission) Result {
	logic := domain.LogicAnd
	results := make(map[string]bool)

	for _, entry := range set {
		switch entry := entry.(type) {
		case domain.LogicToken:
			if entry.Logic == domain.LogicOr && anyTrue(results) {
				return True
			}
			logic = entry.Logic
			if logic == "" {
				logic = domain.LogicAnd
			}

		case domain.Condition:
			r := e.evaluateCondition(entry, sub)
			if r == Indeterminate {
				return Indeterminate
			}
			results[entry.Selector] = r == True
		}
	}

	if len(results) == 0 {
		return Indeterminate
	}
	return combine(logic, results)
}

// evaluateCondition resolves one selector and OR-combines its triggers.
func (e *Evaluator) evaluateCondition(c domain.Condition, sub domain.Submission) Result {
	ref, ok := selector.Parse(c.Selector)
	if !ok {
		return Indeterminate
	}
	if e.lookup == nil {
		return Indeterminate
	}
	dependee, ok := e.lookup.Element(ref.ElementKey)
	if !ok {
		return Indeterminate
	}
	if len(c.Triggers) == 0 {
		return Indeterminate
	}

	value, _ := sub.Lookup(ref.Path())

	matched := false
	for _, t := range c.Triggers {
		r := evaluateTrigger(dependee, value, t)
		if r == Indeterminate {
			return Indeterminate
		}
		if r == True {
			matched = true
		}
	}
	return Of(matched)
}

// evaluateTrigger applies a single trigger to a dependee value.
func evaluateTrigger(dependee *domain.Element, value any, t domain.Trigger) Result {
	state, negate := states.Resolve(t.State)

	var r Result
	switch state {
	case "empty":
		r = Of(Empty(value) == Truthy(t.Value))
	case "checked":
		r = Of(Truthy(value) == Truthy(t.Value))
	case "value":
		if dependee.Capabilities.Multiple {
			r = Of(intersects(asSet(t.Value), asSet(value)))
		} else {
			r = Of(StringOf(value) == StringOf(t.Value))
		}
	default:
		return Indeterminate
	}

	if negate {
		return r.Not()
	}
	return r
}

func anyTrue(results map[string]bool) bool {
	for _, ok := range results {
		if ok {
			return true
		}
	}
	return false
}

func combine(logic domain.Logic, results map[string]bool) Result {
	trueCount := 0
	for _, ok := range results {
		if ok {
			trueCount++
		}
	}

	switch logic {
	case domain.LogicAnd:
		return Of(trueCount == len(results))
	case domain.LogicOr:
		return Of(trueCount > 0)
	case domain.LogicXor:
		return Of(trueCount == 1)
	}
	return Indeterminate
}
