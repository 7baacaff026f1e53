package validator

import (
	"fmt"
	"strings"

	"github.com/drupalprojects/webform-sub000/pkg/domain"
	"github.com/drupalprojects/webform-sub000/pkg/registry"
	"github.com/drupalprojects/webform-sub000/pkg/selector"
	"github.com/drupalprojects/webform-sub000/pkg/states"
)

// Issue is a single problem found in a form definition.
type Issue struct {
	ElementKey string `json:"element_key"`
	State      string `json:"state,omitempty"`
	Message    string `json:"message"`
}

func (i Issue) String() string {
	if i.State == "" {
		return fmt.Sprintf("%s: %s", i.ElementKey, i.Message)
	}
	return fmt.Sprintf("%s.%s: %s", i.ElementKey, i.State, i.Message)
}

// LintError aggregates the issues of one form.
type LintError struct {
	FormID string
	Issues []Issue
}

func (e *LintError) Error() string {
	lines := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		lines[i] = issue.String()
	}
	return fmt.Sprintf("form %s: found %d issues:\n- %s", e.FormID, len(e.Issues), strings.Join(lines, "\n- "))
}

// ValidateForm checks the conditional states of a compiled form for rules that can
// never take effect: unparsable selectors, unknown dependees, unknown states or
// triggers and self references. The engine tolerates all of them (they evaluate as
// indeterminate), so this is an authoring aid. A nil registry skips the type check.
func ValidateForm(form *domain.Form, reg *registry.Registry) error {
	var issues []Issue

	for _, el := range form.Elements() {
		if reg != nil && el.Type != "" {
			if _, err := reg.Lookup(el.Type); err != nil {
				issues = append(issues, Issue{ElementKey: el.Key, Message: fmt.Sprintf("unknown element type %q", el.Type)})
			}
		}

		for _, rule := range el.States {
			report := func(format string, args ...any) {
				issues = append(issues, Issue{ElementKey: el.Key, State: rule.Name, Message: fmt.Sprintf(format, args...)})
			}

			switch {
			case !states.Known(rule.Name):
				report("unknown state")
			case !states.Applicable(rule.Name):
				report("state is never applied to a render attribute")
			}

			if len(rule.Conditions.Conditions()) == 0 {
				report("no conditions")
			}

			for _, entry := range rule.Conditions {
				switch entry := entry.(type) {
				case domain.LogicToken:
					switch entry.Logic {
					case domain.LogicAnd, domain.LogicOr, domain.LogicXor:
					default:
						report("unknown logic %q", entry.Logic)
					}
				case domain.Condition:
					issues = append(issues, checkCondition(form, el.Key, rule.Name, entry)...)
				}
			}
		}
	}

	if len(issues) > 0 {
		return &LintError{FormID: form.ID, Issues: issues}
	}
	return nil
}

func checkCondition(form *domain.Form, key, state string, c domain.Condition) []Issue {
	var issues []Issue
	report := func(format string, args ...any) {
		issues = append(issues, Issue{ElementKey: key, State: state, Message: fmt.Sprintf(format, args...)})
	}

	ref, ok := selector.Parse(c.Selector)
	if !ok {
		report("unparsable selector %s", c.Selector)
		return issues
	}

	dependee, ok := form.Element(ref.ElementKey)
	switch {
	case !ok:
		report("selector %s references unknown element %q", c.Selector, ref.ElementKey)
	case ref.ElementKey == key:
		report("element depends on itself")
	case !dependee.IsInput():
		report("selector %s references %q which holds no value", c.Selector, ref.ElementKey)
	}

	if len(c.Triggers) == 0 {
		report("selector %s has no trigger", c.Selector)
	}
	for _, t := range c.Triggers {
		if !states.IsTrigger(t.State) {
			report("unsupported trigger %q on %s", t.State, c.Selector)
		}
	}
	return issues
}
