package ports

import (
	"context"

	"github.com/drupalprojects/webform-sub000/pkg/conditions"
	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

// FormEngine is the interface used by transports (HTTP, MCP, CLI).
// Forms are addressed by ID and compiled by the implementation.
type FormEngine interface {
	// Forms lists the available form IDs.
	Forms(ctx context.Context) ([]string, error)

	// Inspect returns the compiled definition of a form, before any state is applied.
	Inspect(ctx context.Context, id string) (*domain.Form, error)

	// Build applies conditional states for a render.
	Build(ctx context.Context, id string, sub domain.Submission) (*domain.Result, error)

	// Submit applies conditional states and validates required fields.
	// Validation failures are reported in Result.Errors, not as an error.
	Submit(ctx context.Context, id string, sub domain.Submission) (*domain.Result, error)

	// Evaluate resolves an ad-hoc condition set against the elements of a form.
	Evaluate(ctx context.Context, id string, set domain.ConditionSet, sub domain.Submission) (conditions.Result, error)
}
