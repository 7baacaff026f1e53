package domain

import (
	"encoding/json"
	"fmt"
)

// Form is an element tree stored as an arena in pre-order.
// A Form is never mutated after NewForm returns, except through a Clone.
type Form struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Version string `json:"version,omitempty"`

	elements []Element
	index    map[string]int
}

// NewForm arranges elements into tree order using their ParentKey back-references.
// Children lists are derived, sibling order follows the input order, and render
// Attributes are seeded from each element's static flags.
func NewForm(id string, elements ...Element) (*Form, error) {
	byKey := make(map[string]Element, len(elements))
	children := make(map[string][]string)
	var roots []string

	for _, el := range elements {
		if el.Key == "" {
			return nil, fmt.Errorf("%w: form %s has an element without key", ErrInvalidDefinition, id)
		}
		if _, dup := byKey[el.Key]; dup {
			return nil, fmt.Errorf("%w: form %s has duplicate element key %q", ErrInvalidDefinition, id, el.Key)
		}
		byKey[el.Key] = el
	}

	for _, el := range elements {
		if el.ParentKey == "" {
			roots = append(roots, el.Key)
			continue
		}
		if _, ok := byKey[el.ParentKey]; !ok {
			return nil, fmt.Errorf("%w: element %q references unknown parent %q", ErrInvalidDefinition, el.Key, el.ParentKey)
		}
		children[el.ParentKey] = append(children[el.ParentKey], el.Key)
	}

	f := &Form{
		ID:       id,
		elements: make([]Element, 0, len(elements)),
		index:    make(map[string]int, len(elements)),
	}

	var visit func(key string)
	visit = func(key string) {
		el := byKey[key].clone()
		el.Children = append([]string(nil), children[key]...)
		if len(el.Children) == 0 {
			el.Children = nil
		}
		el.resetAttributes()
		f.index[key] = len(f.elements)
		f.elements = append(f.elements, el)
		for _, child := range children[key] {
			visit(child)
		}
	}
	for _, root := range roots {
		visit(root)
	}

	if len(f.elements) != len(elements) {
		return nil, fmt.Errorf("%w: form %s contains a parent cycle", ErrInvalidDefinition, id)
	}

	return f, nil
}

// Len returns the number of elements.
func (f *Form) Len() int {
	return len(f.elements)
}

// Keys returns the element keys in tree order.
func (f *Form) Keys() []string {
	keys := make([]string, len(f.elements))
	for i := range f.elements {
		keys[i] = f.elements[i].Key
	}
	return keys
}

// Elements returns a copy of the elements in tree order.
func (f *Form) Elements() []Element {
	out := make([]Element, len(f.elements))
	for i := range f.elements {
		out[i] = f.elements[i].clone()
	}
	return out
}

// Element returns the element with the given key.
// The returned pointer aliases the arena and must be treated as read-only.
func (f *Form) Element(key string) (*Element, bool) {
	i, ok := f.index[key]
	if !ok {
		return nil, false
	}
	return &f.elements[i], true
}

// Update applies fn to the element with the given key.
// It is meant for forms obtained through Clone.
func (f *Form) Update(key string, fn func(*Element)) bool {
	i, ok := f.index[key]
	if !ok {
		return false
	}
	fn(&f.elements[i])
	return true
}

// Ancestors returns the parent chain of key, closest first.
func (f *Form) Ancestors(key string) []string {
	var chain []string
	el, ok := f.Element(key)
	for ok && el.ParentKey != "" {
		chain = append(chain, el.ParentKey)
		el, ok = f.Element(el.ParentKey)
	}
	return chain
}

// Accessible reports whether the element and all of its ancestors are accessible.
func (f *Form) Accessible(key string) bool {
	el, ok := f.Element(key)
	if !ok || !el.Attributes.Accessible {
		return false
	}
	for _, parent := range f.Ancestors(key) {
		if p, ok := f.Element(parent); ok && !p.Attributes.Accessible {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the form that can be mutated through Update.
func (f *Form) Clone() *Form {
	next := &Form{
		ID:       f.ID,
		Title:    f.Title,
		Version:  f.Version,
		elements: make([]Element, len(f.elements)),
		index:    make(map[string]int, len(f.index)),
	}
	for i := range f.elements {
		next.elements[i] = f.elements[i].clone()
	}
	for k, v := range f.index {
		next.index[k] = v
	}
	return next
}

type formJSON struct {
	ID       string    `json:"id"`
	Title    string    `json:"title,omitempty"`
	Version  string    `json:"version,omitempty"`
	Elements []Element `json:"elements"`
}

// MarshalJSON renders the form with its elements in tree order.
func (f *Form) MarshalJSON() ([]byte, error) {
	return json.Marshal(formJSON{
		ID:       f.ID,
		Title:    f.Title,
		Version:  f.Version,
		Elements: f.elements,
	})
}
