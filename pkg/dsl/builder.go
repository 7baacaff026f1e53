package dsl

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/drupalprojects/webform-sub000/pkg/adapters/memory"
	"github.com/drupalprojects/webform-sub000/pkg/domain"
	"github.com/drupalprojects/webform-sub000/pkg/registry"
)

// Builder manages the form construction.
type Builder struct {
	id       string
	title    string
	version  string
	registry *registry.Registry
	elements []*ElementBuilder
	index    map[string]*ElementBuilder
}

// New creates a new form builder.
func New(id string) *Builder {
	return &Builder{
		id:       id,
		registry: registry.Default(),
		index:    make(map[string]*ElementBuilder),
	}
}

// Title sets the form title.
func (b *Builder) Title(title string) *Builder {
	b.title = title
	return b
}

// Version sets the form version.
func (b *Builder) Version(v string) *Builder {
	b.version = v
	return b
}

// Registry sets the registry used to resolve element capabilities in Form.
func (b *Builder) Registry(r *registry.Registry) *Builder {
	b.registry = r
	return b
}

// Add creates a new element in the form, in definition order.
// If the element already exists, it returns the existing builder.
func (b *Builder) Add(key string) *ElementBuilder {
	if eb, ok := b.index[key]; ok {
		return eb
	}
	eb := &ElementBuilder{
		el:      domain.Element{Key: key, Type: "textfield"},
		builder: b,
	}
	b.elements = append(b.elements, eb)
	b.index[key] = eb
	return eb
}

// Form compiles the builder into a domain.Form.
func (b *Builder) Form() (*domain.Form, error) {
	elements := make([]domain.Element, 0, len(b.elements))
	for _, eb := range b.elements {
		el := eb.el
		if eb.caps != nil {
			el.Capabilities = *eb.caps
		} else if caps, err := b.registry.Lookup(el.Type); err == nil {
			el.Capabilities = caps
		} else {
			el.Capabilities = domain.Capabilities{Input: true}
		}
		elements = append(elements, el)
	}

	form, err := domain.NewForm(b.id, elements...)
	if err != nil {
		return nil, err
	}
	form.Title = b.title
	form.Version = b.version
	return form, nil
}

// Document renders the form as a YAML definition document.
func (b *Builder) Document() ([]byte, error) {
	children := make(map[string][]*ElementBuilder)
	for _, eb := range b.elements {
		if eb.el.ParentKey != "" {
			if _, ok := b.index[eb.el.ParentKey]; !ok {
				return nil, fmt.Errorf("%w: element %q references unknown parent %q", domain.ErrInvalidDefinition, eb.el.Key, eb.el.ParentKey)
			}
		}
		children[eb.el.ParentKey] = append(children[eb.el.ParentKey], eb)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}
	put(doc, "id", scalar(b.id))
	if b.title != "" {
		put(doc, "title", scalar(b.title))
	}
	if b.version != "" {
		put(doc, "version", scalar(b.version))
	}

	var write func(parent *yaml.Node, key string) error
	write = func(parent *yaml.Node, key string) error {
		for _, eb := range children[key] {
			node, err := eb.node()
			if err != nil {
				return err
			}
			if err := write(node, eb.el.Key); err != nil {
				return err
			}
			put(parent, eb.el.Key, node)
		}
		return nil
	}

	elements := &yaml.Node{Kind: yaml.MappingNode}
	if err := write(elements, ""); err != nil {
		return nil, err
	}
	put(doc, "elements", elements)

	return yaml.Marshal(doc)
}

// Loader compiles the form into a memory loader holding its YAML document.
func (b *Builder) Loader() (*memory.Loader, error) {
	data, err := b.Document()
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	loader := memory.NewLoader(nil)
	loader.Put(b.id, data)
	return loader, nil
}

func (e *ElementBuilder) node() (*yaml.Node, error) {
	el := e.el
	n := &yaml.Node{Kind: yaml.MappingNode}
	put(n, "#type", scalar(el.Type))
	if el.Title != "" {
		put(n, "#title", scalar(el.Title))
	}
	flags := []struct {
		key string
		set bool
	}{
		{"#required", el.Required},
		{"#disabled", el.Disabled},
		{"#readonly", el.Readonly},
	}
	for _, f := range flags {
		if f.set {
			put(n, f.key, boolean(true))
		}
	}
	if el.RequiredError != "" {
		put(n, "#required_error", scalar(el.RequiredError))
	}
	if el.Hidden {
		put(n, "#access", boolean(false))
	}
	if el.Collapsed {
		put(n, "#open", boolean(false))
	}
	if el.DefaultValue != nil {
		v, err := encode(el.DefaultValue)
		if err != nil {
			return nil, err
		}
		put(n, "#default_value", v)
	}
	if e.caps != nil {
		put(n, "#input", boolean(e.caps.Input))
		put(n, "#multiple", boolean(e.caps.Multiple))
		put(n, "#composite", boolean(e.caps.Composite))
	}
	if len(el.States) > 0 {
		statesNode, err := encodeStates(el.States)
		if err != nil {
			return nil, err
		}
		put(n, "#states", statesNode)
	}
	return n, nil
}

func encodeStates(m domain.StatesMap) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode}
	for _, rule := range m {
		set := &yaml.Node{Kind: yaml.SequenceNode}
		for _, entry := range rule.Conditions {
			switch entry := entry.(type) {
			case domain.LogicToken:
				set.Content = append(set.Content, scalar(string(entry.Logic)))
			case domain.Condition:
				triggers := &yaml.Node{Kind: yaml.SequenceNode}
				for _, t := range entry.Triggers {
					v, err := encode(t.Value)
					if err != nil {
						return nil, err
					}
					tn := &yaml.Node{Kind: yaml.MappingNode}
					put(tn, t.State, v)
					triggers.Content = append(triggers.Content, tn)
				}
				if len(triggers.Content) == 1 {
					triggers = triggers.Content[0]
				}
				cond := &yaml.Node{Kind: yaml.MappingNode}
				put(cond, entry.Selector, triggers)
				set.Content = append(set.Content, cond)
			}
		}
		put(out, rule.Name, set)
	}
	return out, nil
}

func put(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, scalar(key), value)
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func boolean(v bool) *yaml.Node {
	n := &yaml.Node{}
	_ = n.Encode(v)
	return n
}

func encode(v any) (*yaml.Node, error) {
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode value %v: %w", v, err)
	}
	return n, nil
}
