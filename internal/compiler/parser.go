package compiler

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/drupalprojects/webform-sub000/pkg/domain"
	"github.com/drupalprojects/webform-sub000/pkg/registry"
)

// Parser is responsible for converting raw definition documents into a Form.
//
// Documents are YAML (JSON is accepted as a subset) in the webform element style:
// properties are prefixed with '#', any other mapping key is a child element.
//
//	id: contact
//	elements:
//	  subscribe:
//	    '#type': checkbox
//	  email:
//	    '#type': email
//	    '#title': Email
//	    '#states':
//	      required:
//	        ':input[name="subscribe"]': {checked: true}
type Parser struct {
	registry *registry.Registry
}

// NewParser creates a new parser instance. A nil registry uses registry.Default().
func NewParser(reg *registry.Registry) *Parser {
	if reg == nil {
		reg = registry.Default()
	}
	return &Parser{registry: reg}
}

// Parse decodes a definition document. The id is used when the document has none.
func (p *Parser) Parse(id string, data []byte) (*domain.Form, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: failed to parse form %q: %v", domain.ErrInvalidDefinition, id, err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: form %q is empty", domain.ErrInvalidDefinition, id)
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: form %q must be a mapping", domain.ErrInvalidDefinition, id)
	}

	var (
		header   Document
		elements *yaml.Node
	)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, value := doc.Content[i], doc.Content[i+1]
		switch key.Value {
		case "id":
			header.ID = value.Value
		case "title":
			header.Title = value.Value
		case "version":
			header.Version = value.Value
		case "elements":
			elements = value
		}
	}
	if header.ID == "" {
		header.ID = id
	}
	if header.ID == "" {
		return nil, fmt.Errorf("%w: form missing id", domain.ErrInvalidDefinition)
	}
	if elements == nil || elements.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: form %q has no elements mapping", domain.ErrInvalidDefinition, header.ID)
	}

	var flat []domain.Element
	if err := p.collect(elements, "", &flat); err != nil {
		return nil, fmt.Errorf("form %q: %w", header.ID, err)
	}

	form, err := domain.NewForm(header.ID, flat...)
	if err != nil {
		return nil, err
	}
	form.Title = header.Title
	form.Version = header.Version
	return form, nil
}

// collect walks a mapping of element key -> element body in document order.
func (p *Parser) collect(node *yaml.Node, parent string, out *[]domain.Element) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, body := node.Content[i], node.Content[i+1]
		if strings.HasPrefix(key.Value, "#") {
			continue
		}
		if body.Kind != yaml.MappingNode {
			return fmt.Errorf("%w: element %q must be a mapping", domain.ErrInvalidDefinition, key.Value)
		}
		if err := p.element(key.Value, parent, body, out); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) element(key, parent string, body *yaml.Node, out *[]domain.Element) error {
	props := make(map[string]any)
	var (
		states   *yaml.Node
		children []*yaml.Node
	)

	for i := 0; i+1 < len(body.Content); i += 2 {
		k, v := body.Content[i], body.Content[i+1]
		switch {
		case k.Value == "#states":
			states = v
		case strings.HasPrefix(k.Value, "#"):
			var decoded any
			if err := v.Decode(&decoded); err != nil {
				return fmt.Errorf("%w: element %q property %s: %v", domain.ErrInvalidDefinition, key, k.Value, err)
			}
			props[k.Value] = decoded
		case v.Kind == yaml.MappingNode:
			children = append(children, k, v)
		}
	}

	var ep ElementProperties
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &ep,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(props); err != nil {
		return fmt.Errorf("%w: element %q: %v", domain.ErrInvalidDefinition, key, err)
	}
	if ep.Type == "" {
		return fmt.Errorf("%w: element %q missing #type", domain.ErrInvalidDefinition, key)
	}

	el := domain.Element{
		Key:           key,
		ParentKey:     parent,
		Type:          ep.Type,
		Title:         ep.Title,
		RequiredError: ep.RequiredError,
		Required:      ep.Required,
		Disabled:      ep.Disabled,
		Readonly:      ep.Readonly,
		Hidden:        ep.Access != nil && !*ep.Access,
		Collapsed:     ep.Open != nil && !*ep.Open,
		DefaultValue:  ep.DefaultValue,
		Capabilities:  p.capabilities(ep),
	}
	if states != nil {
		el.States = ParseStates(states)
	}
	*out = append(*out, el)

	if len(children) == 0 {
		return nil
	}
	return p.collect(&yaml.Node{Kind: yaml.MappingNode, Content: children}, key, out)
}

// capabilities resolves the type through the registry. Unknown types are plain inputs;
// the linter reports them. Explicit #input, #multiple and #composite win.
func (p *Parser) capabilities(ep ElementProperties) domain.Capabilities {
	caps, err := p.registry.Lookup(ep.Type)
	if err != nil {
		caps = domain.Capabilities{Input: true}
	}
	if ep.Input != nil {
		caps.Input = *ep.Input
	}
	if ep.Multiple != nil {
		caps.Multiple = *ep.Multiple
	}
	if ep.Composite != nil {
		caps.Composite = *ep.Composite
	}
	return caps
}

// ParseStates converts a #states mapping into a StatesMap, keeping document order.
// Malformed conditions never fail: they compile to sets the evaluator reports as
// indeterminate, so the rule stays inert.
func ParseStates(node *yaml.Node) domain.StatesMap {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	var m domain.StatesMap
	for i := 0; i+1 < len(node.Content); i += 2 {
		m = append(m, domain.StateRule{
			Name:       node.Content[i].Value,
			Conditions: ParseConditionSet(node.Content[i+1]),
		})
	}
	return m
}

// ParseConditionSet converts one condition node. A mapping is a list of
// selector -> trigger pairs; a sequence may mix such mappings with logic tokens.
func ParseConditionSet(node *yaml.Node) domain.ConditionSet {
	var set domain.ConditionSet
	switch node.Kind {
	case yaml.MappingNode:
		set = appendConditions(set, node)
	case yaml.SequenceNode:
		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				set = append(set, domain.LogicToken{Logic: domain.Logic(strings.ToLower(item.Value))})
			case yaml.MappingNode:
				set = appendConditions(set, item)
			}
		}
	}
	return set
}

func appendConditions(set domain.ConditionSet, node *yaml.Node) domain.ConditionSet {
	for i := 0; i+1 < len(node.Content); i += 2 {
		set = append(set, domain.Condition{
			Selector: node.Content[i].Value,
			Triggers: parseTriggers(node.Content[i+1]),
		})
	}
	return set
}

// parseTriggers reads {state: value} or a list of them. Only the first key of a
// trigger mapping is used. A malformed list item becomes a trigger with no state,
// which never evaluates.
func parseTriggers(node *yaml.Node) []domain.Trigger {
	switch node.Kind {
	case yaml.MappingNode:
		if t, ok := parseTrigger(node); ok {
			return []domain.Trigger{t}
		}
	case yaml.SequenceNode:
		var out []domain.Trigger
		for _, item := range node.Content {
			t, _ := parseTrigger(item)
			out = append(out, t)
		}
		return out
	}
	return nil
}

func parseTrigger(node *yaml.Node) (domain.Trigger, bool) {
	if node.Kind != yaml.MappingNode || len(node.Content) < 2 {
		return domain.Trigger{}, false
	}
	var value any
	if err := node.Content[1].Decode(&value); err != nil {
		return domain.Trigger{}, false
	}
	return domain.Trigger{State: node.Content[0].Value, Value: value}, true
}
