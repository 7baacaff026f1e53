package compiler

import (
	"github.com/invopop/jsonschema"
)

// Document describes the header of a definition document.
// It is also the root type reflected by the schema command.
type Document struct {
	ID       string                       `json:"id" jsonschema:"description=Form identifier"`
	Title    string                       `json:"title,omitempty"`
	Version  string                       `json:"version,omitempty"`
	Elements map[string]ElementProperties `json:"elements" jsonschema:"description=Top-level elements keyed by element key"`
}

// ElementProperties are the '#' properties of an element.
// Any key without a '#' prefix is a child element.
type ElementProperties struct {
	Type          string      `json:"#type" mapstructure:"#type" jsonschema:"required"`
	Title         string      `json:"#title,omitempty" mapstructure:"#title"`
	Required      bool        `json:"#required,omitempty" mapstructure:"#required"`
	RequiredError string      `json:"#required_error,omitempty" mapstructure:"#required_error"`
	Disabled      bool        `json:"#disabled,omitempty" mapstructure:"#disabled"`
	Readonly      bool        `json:"#readonly,omitempty" mapstructure:"#readonly"`
	Access        *bool       `json:"#access,omitempty" mapstructure:"#access"`
	Open          *bool       `json:"#open,omitempty" mapstructure:"#open"`
	DefaultValue  any         `json:"#default_value,omitempty" mapstructure:"#default_value"`
	Input         *bool       `json:"#input,omitempty" mapstructure:"#input"`
	Multiple      *bool       `json:"#multiple,omitempty" mapstructure:"#multiple"`
	Composite     *bool       `json:"#composite,omitempty" mapstructure:"#composite"`
	States        StatesBlock `json:"#states,omitempty" mapstructure:"-"`
}

// JSONSchemaExtend allows child elements next to the '#' properties.
func (ElementProperties) JSONSchemaExtend(s *jsonschema.Schema) {
	s.PatternProperties = map[string]*jsonschema.Schema{
		"^[^#]": {Ref: "#/$defs/ElementProperties"},
	}
	s.AdditionalProperties = nil
}

// StatesBlock is the '#states' property. It is decoded from the YAML node tree by
// ParseStates; the type only exists to describe the format.
type StatesBlock map[string]any

// JSONSchema describes state name -> condition set.
func (StatesBlock) JSONSchema() *jsonschema.Schema {
	trigger := &jsonschema.Schema{
		Type:          "object",
		MinProperties: ptr(uint64(1)),
		Description:   "Trigger: {empty|checked|value (aliases and ! negation allowed): value}",
	}
	triggers := &jsonschema.Schema{OneOf: []*jsonschema.Schema{
		trigger,
		{Type: "array", Items: trigger},
	}}
	conditions := &jsonschema.Schema{
		Type:                 "object",
		Description:          `Selector (:input[name="a[b]"]) -> trigger(s)`,
		AdditionalProperties: triggers,
	}
	set := &jsonschema.Schema{OneOf: []*jsonschema.Schema{
		conditions,
		{
			Type: "array",
			Items: &jsonschema.Schema{OneOf: []*jsonschema.Schema{
				conditions,
				{Type: "string", Enum: []any{"and", "or", "xor"}},
			}},
		},
	}}
	return &jsonschema.Schema{
		Type:                 "object",
		Description:          "State name (required, visible, disabled, collapsed, checked, readonly and aliases) -> conditions",
		AdditionalProperties: set,
	}
}

// Schema reflects the JSON Schema of a definition document.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	return r.Reflect(&Document{})
}

func ptr[T any](v T) *T {
	return &v
}
