package domain

// Canonical state names an element can be driven by.
const (
	StateRequired  = "required"
	StateOptional  = "optional"
	StateDisabled  = "disabled"
	StateVisible   = "visible"
	StateInvisible = "invisible"
	StateCollapsed = "collapsed"
	StateChecked   = "checked"
	StateReadonly  = "readonly"
)

// StateRule binds a state name to the conditions that drive it.
type StateRule struct {
	Name       string       `json:"name"`
	Conditions ConditionSet `json:"conditions"`
}

// StatesMap is the ordered list of conditional states of an element.
type StatesMap []StateRule

// Get returns the conditions of the first rule with the given name.
func (m StatesMap) Get(name string) (ConditionSet, bool) {
	for _, rule := range m {
		if rule.Name == name {
			return rule.Conditions, true
		}
	}
	return nil, false
}

// Has reports whether a rule with the given name exists.
func (m StatesMap) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// With returns a copy of the map with the rule appended.
func (m StatesMap) With(name string, conditions ConditionSet) StatesMap {
	next := m.Clone()
	return append(next, StateRule{Name: name, Conditions: conditions})
}

// Without returns a copy of the map without rules of the given name.
// It returns nil once no rule remains.
func (m StatesMap) Without(name string) StatesMap {
	var next StatesMap
	for _, rule := range m {
		if rule.Name != name {
			next = append(next, rule)
		}
	}
	return next
}

// Clone returns a copy of the map. Condition sets are shared, they are never mutated.
func (m StatesMap) Clone() StatesMap {
	if m == nil {
		return nil
	}
	return append(StatesMap(nil), m...)
}
