package domain

// Capabilities describes what kind of value an element holds.
// It is resolved once when the form is compiled, so evaluation never has to consult
// an element type registry.
type Capabilities struct {
	// Input is true for elements that carry a submitted value.
	Input bool `json:"input" yaml:"input"`
	// Multiple is true for elements whose value is a list (checkboxes, multi-selects).
	Multiple bool `json:"multiple" yaml:"multiple"`
	// Composite is true for elements whose value is a nested map (address, name).
	Composite bool `json:"composite" yaml:"composite"`
}

// Attributes are the render attributes produced by the build phase.
type Attributes struct {
	Required     bool `json:"required"`
	Disabled     bool `json:"disabled"`
	Readonly     bool `json:"readonly"`
	Accessible   bool `json:"accessible"`
	Open         bool `json:"open"`
	DefaultValue any  `json:"default_value,omitempty"`
}

// Element is a single node of the form tree.
type Element struct {
	Key       string   `json:"key"`
	ParentKey string   `json:"parent_key,omitempty"`
	Children  []string `json:"children,omitempty"`
	Type      string   `json:"type,omitempty"`
	Title     string   `json:"title,omitempty"`

	// RequiredError overrides the default "<title> field is required." message.
	RequiredError string `json:"required_error,omitempty"`

	// Static flags, as authored. They seed Attributes when the form is created.
	Required     bool `json:"required,omitempty"`
	Disabled     bool `json:"disabled,omitempty"`
	Readonly     bool `json:"readonly,omitempty"`
	Hidden       bool `json:"hidden,omitempty"`
	Collapsed    bool `json:"collapsed,omitempty"`
	DefaultValue any  `json:"default_value,omitempty"`

	Capabilities Capabilities `json:"capabilities"`
	States       StatesMap    `json:"states,omitempty"`
	Attributes   Attributes   `json:"attributes"`
}

// IsInput reports whether the element carries a submitted value.
func (e *Element) IsInput() bool {
	return e.Capabilities.Input
}

// resetAttributes seeds the render attributes from the static flags.
func (e *Element) resetAttributes() {
	e.Attributes = Attributes{
		Required:     e.Required,
		Disabled:     e.Disabled,
		Readonly:     e.Readonly,
		Accessible:   !e.Hidden,
		Open:         !e.Collapsed,
		DefaultValue: e.DefaultValue,
	}
}

func (e Element) clone() Element {
	next := e
	if e.Children != nil {
		next.Children = append([]string(nil), e.Children...)
	}
	next.States = e.States.Clone()
	return next
}
