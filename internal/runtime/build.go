package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/drupalprojects/webform-sub000/pkg/conditions"
	"github.com/drupalprojects/webform-sub000/pkg/domain"
	"github.com/drupalprojects/webform-sub000/pkg/selector"
	"github.com/drupalprojects/webform-sub000/pkg/states"
)

// Prepare returns a copy of form where a static required flag on a conditionally
// visible element is turned into a conditional rule, so a hidden field can never block
// submission:
//
//	required + visible(C)   => required(C)
//	required + invisible(C) => optional(C)
//
// Elements that already carry a required or optional rule are left alone.
func Prepare(form *domain.Form) *domain.Form {
	prepared := form.Clone()
	for _, key := range prepared.Keys() {
		prepared.Update(key, prepareRequired)
	}
	return prepared
}

func prepareRequired(el *domain.Element) {
	if !el.Required || el.States.Has(domain.StateRequired) || el.States.Has(domain.StateOptional) {
		return
	}
	if set, ok := el.States.Get(domain.StateVisible); ok {
		el.States = el.States.With(domain.StateRequired, set)
	} else if set, ok := el.States.Get(domain.StateInvisible); ok {
		el.States = el.States.With(domain.StateOptional, set)
	} else {
		return
	}
	el.Required = false
	el.Attributes.Required = false
}

// Build applies the conditional states of form for a render.
// Resolved rules are written to the element attributes and removed; rules that cannot be
// decided now are kept so the client can still act on them. form is never mutated.
func (e *Engine) Build(ctx context.Context, form *domain.Form, sub domain.Submission) (*domain.Form, error) {
	if form == nil {
		return nil, fmt.Errorf("%w: nil form", domain.ErrInvalidDefinition)
	}

	started := time.Now()
	e.emitPhaseStart(ctx, form, domain.PhaseBuild)
	built := e.apply(ctx, Prepare(form), sub, domain.PhaseBuild)
	e.emitPhaseEnd(ctx, form, domain.PhaseBuild, started, 0)

	return built, nil
}

// apply runs the main pass over a clone of prepared, in tree order.
func (e *Engine) apply(ctx context.Context, prepared *domain.Form, sub domain.Submission, phase domain.Phase) *domain.Form {
	built := prepared.Clone()
	eval := conditions.New(built)
	logger := e.logger.With("form", built.ID, "phase", string(phase))

	for _, key := range built.Keys() {
		el, _ := built.Element(key)
		if len(el.States) == 0 {
			continue
		}

		var kept domain.StatesMap
		for _, rule := range el.States.Clone() {
			if !e.applyRule(ctx, logger, built, eval, key, rule, sub, phase) {
				kept = append(kept, rule)
			}
		}
		built.Update(key, func(el *domain.Element) {
			el.States = kept
		})
	}

	return built
}

// applyRule resolves one rule and reports whether it was handled.
func (e *Engine) applyRule(
	ctx context.Context,
	logger *slog.Logger,
	built *domain.Form,
	eval *conditions.Evaluator,
	key string,
	rule domain.StateRule,
	sub domain.Submission,
	phase domain.Phase,
) bool {
	state, negate := states.Resolve(rule.Name)

	if dependeesHidden(built, rule.Conditions) {
		logger.Debug("rule inert, dependees are hidden", "element", key, "state", rule.Name)
		e.emitStateResolved(ctx, built, phase, key, rule.Name, domain.OutcomeInert)
		if state != domain.StateRequired {
			return false
		}
		built.Update(key, func(el *domain.Element) {
			el.Attributes.Required = false
		})
		return true
	}

	result := eval.Evaluate(rule.Conditions, sub)
	if result == conditions.Indeterminate {
		logger.Debug("rule skipped, conditions are indeterminate", "element", key, "state", rule.Name)
		e.emitStateResolved(ctx, built, phase, key, rule.Name, domain.OutcomeIndeterminate)
		return false
	}

	effective := result == conditions.True
	if negate {
		effective = !effective
	}

	applied := false
	built.Update(key, func(el *domain.Element) {
		applied = applyState(&el.Attributes, state, effective)
	})
	if !applied {
		logger.Debug("rule skipped, state has no render attribute", "element", key, "state", rule.Name)
		return false
	}

	e.emitStateResolved(ctx, built, phase, key, rule.Name, conditions.Of(effective).String())
	return true
}

func applyState(a *domain.Attributes, state string, v bool) bool {
	switch state {
	case domain.StateRequired:
		a.Required = v
	case domain.StateDisabled:
		a.Disabled = v
	case domain.StateReadonly:
		a.Readonly = v
	case domain.StateVisible:
		a.Accessible = v
	case domain.StateCollapsed:
		a.Open = !v
	case domain.StateChecked:
		a.DefaultValue = v
	default:
		return false
	}
	return true
}

// dependeesHidden reports whether every selector of set points at an element that is
// outside the visible tree. Unparsable selectors and unknown elements are not hidden;
// they are left to the evaluator.
func dependeesHidden(form *domain.Form, set domain.ConditionSet) bool {
	selectors := set.Selectors()
	if len(selectors) == 0 {
		return false
	}
	for _, s := range selectors {
		ref, ok := selector.Parse(s)
		if !ok {
			return false
		}
		if _, ok := form.Element(ref.ElementKey); !ok {
			return false
		}
		if form.Accessible(ref.ElementKey) {
			return false
		}
	}
	return true
}
