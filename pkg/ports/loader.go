package ports

import "context"

// FormLoader defines how the engine retrieves form definitions.
// This allows the storage layer (files, Redis, memory) to be decoupled.
type FormLoader interface {
	// GetForm retrieves the raw definition document of a form by ID.
	// It returns the raw bytes (which the compiler will parse) or an error wrapping
	// domain.ErrFormNotFound.
	GetForm(ctx context.Context, id string) ([]byte, error)

	// ListForms returns the IDs of all forms available from the source.
	// This is used for introspection and transports (e.g. 'webform graph', GET /forms).
	ListForms(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload of compiled forms.
type Watchable interface {
	// Watch returns a channel that is signaled when an underlying definition changes.
	// It abstracts away the specific event details, signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
