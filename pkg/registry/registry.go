// Package registry maps element types to their capability descriptors.
//
// The registry is consulted once, when a definition is compiled. The resulting
// domain.Capabilities are attached to each element so evaluation never looks a type up.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

// Registry manages the known element types.
type Registry struct {
	mu    sync.RWMutex
	types map[string]domain.Capabilities
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]domain.Capabilities),
	}
}

var (
	input     = domain.Capabilities{Input: true}
	multiple  = domain.Capabilities{Input: true, Multiple: true}
	composite = domain.Capabilities{Input: true, Composite: true}
	layout    = domain.Capabilities{}
)

// Default returns a registry pre-loaded with the built-in element types.
func Default() *Registry {
	r := NewRegistry()
	for _, name := range []string{
		"textfield", "textarea", "email", "number", "tel", "url", "date", "hidden",
		"select", "radios", "checkbox", "password",
	} {
		r.Register(name, input)
	}
	for _, name := range []string{"checkboxes", "select_multiple", "tableselect", "entity_checkboxes"} {
		r.Register(name, multiple)
	}
	for _, name := range []string{"address", "composite", "name", "contact"} {
		r.Register(name, composite)
	}
	for _, name := range []string{"container", "fieldset", "details", "wizard_page", "markup", "flexbox"} {
		r.Register(name, layout)
	}
	return r
}

// Register adds an element type to the registry.
// If a type with the same name exists, it is overwritten.
func (r *Registry) Register(name string, caps domain.Capabilities) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = caps
}

// Lookup returns the capabilities of a type.
// Returns an error if the type is not registered.
func (r *Registry) Lookup(name string) (domain.Capabilities, error) {
	r.mu.RLock()
	caps, ok := r.types[name]
	r.mu.RUnlock()

	if !ok {
		return domain.Capabilities{}, fmt.Errorf("element type not found: %s", name)
	}
	return caps, nil
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
