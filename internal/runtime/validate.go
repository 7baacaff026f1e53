package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/drupalprojects/webform-sub000/pkg/conditions"
	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

// DefaultRequiredMessage is the form-level message used for untitled elements.
const DefaultRequiredMessage = "A required field is empty."

// Submit re-applies the states of form against the submitted values and validates
// the required fields of the visible tree. It returns the built form and, when
// validation fails, a domain.ValidationErrors.
func (e *Engine) Submit(ctx context.Context, form *domain.Form, sub domain.Submission) (*domain.Form, error) {
	if form == nil {
		return nil, fmt.Errorf("%w: nil form", domain.ErrInvalidDefinition)
	}

	started := time.Now()
	e.emitPhaseStart(ctx, form, domain.PhaseSubmit)

	prepared := Prepare(form)
	built := e.apply(ctx, prepared, sub, domain.PhaseSubmit)
	errs := e.validate(ctx, prepared, built, sub)

	e.emitPhaseEnd(ctx, form, domain.PhaseSubmit, started, len(errs))

	if len(errs) > 0 {
		return built, errs
	}
	return built, nil
}

// validate walks the accessible input elements. Rules come from the prepared
// definition, visibility from the built form.
func (e *Engine) validate(ctx context.Context, prepared, built *domain.Form, sub domain.Submission) domain.ValidationErrors {
	var errs domain.ValidationErrors
	eval := conditions.New(prepared)
	logger := e.logger.With("form", prepared.ID, "phase", string(domain.PhaseSubmit))

	for _, key := range prepared.Keys() {
		el, _ := prepared.Element(key)
		if !el.IsInput() || !built.Accessible(key) {
			continue
		}

		name, set := requiredRule(el)
		required := el.Required
		if name != "" {
			if dependeesHidden(built, set) {
				logger.Debug("required rule inert, dependees are hidden", "element", key, "state", name)
				continue
			}
			result := eval.Evaluate(set, sub)
			if result == conditions.Indeterminate {
				logger.Debug("required rule skipped, conditions are indeterminate", "element", key, "state", name)
				continue
			}
			required = result == conditions.True
			if name == domain.StateOptional {
				required = !required
			}
		}
		if !required {
			continue
		}

		value, _ := sub.Value(key)
		if !conditions.Empty(value) {
			continue
		}

		verr := requiredError(el)
		errs = append(errs, verr)
		e.emitValidationError(ctx, prepared, verr)
	}

	return errs
}

func requiredRule(el *domain.Element) (string, domain.ConditionSet) {
	if set, ok := el.States.Get(domain.StateRequired); ok {
		return domain.StateRequired, set
	}
	if set, ok := el.States.Get(domain.StateOptional); ok {
		return domain.StateOptional, set
	}
	return "", nil
}

func requiredError(el *domain.Element) domain.ValidationError {
	switch {
	case el.RequiredError != "":
		return domain.ValidationError{ElementKey: el.Key, Message: el.RequiredError}
	case el.Title != "":
		return domain.ValidationError{ElementKey: el.Key, Message: el.Title + " field is required."}
	}
	return domain.ValidationError{Message: DefaultRequiredMessage}
}
