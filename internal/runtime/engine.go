package runtime

import (
	"context"
	"io"
	"log/slog"

	"github.com/drupalprojects/webform-sub000/pkg/conditions"
	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

// Engine applies conditional states to forms and validates submissions.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the logger used for skipped and inert rules.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks. Repeated calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate resolves an ad-hoc condition set against the elements of form.
func (e *Engine) Evaluate(ctx context.Context, form *domain.Form, set domain.ConditionSet, sub domain.Submission) conditions.Result {
	if form == nil {
		return conditions.Indeterminate
	}
	return conditions.Evaluate(set, form, sub)
}

type requestIDKey struct{}

// WithRequestID attaches a request id that is copied onto every emitted event.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id carried by ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
