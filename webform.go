package webform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/drupalprojects/webform-sub000/internal/compiler"
	"github.com/drupalprojects/webform-sub000/internal/runtime"
	"github.com/drupalprojects/webform-sub000/internal/validator"
	"github.com/drupalprojects/webform-sub000/pkg/adapters/file"
	"github.com/drupalprojects/webform-sub000/pkg/conditions"
	"github.com/drupalprojects/webform-sub000/pkg/domain"
	"github.com/drupalprojects/webform-sub000/pkg/ports"
	"github.com/drupalprojects/webform-sub000/pkg/registry"
)

// Engine is the high-level entry point for the webform library.
// It loads and compiles definitions, caches them, and runs the build and submit
// phases of the runtime.
type Engine struct {
	runtime  *runtime.Engine
	loader   ports.FormLoader
	parser   *compiler.Parser
	registry *registry.Registry
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	Name     string

	mu         sync.RWMutex
	forms      map[string]*domain.Form
	generation uint64
}

var _ ports.FormEngine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLoader injects a custom FormLoader, bypassing the default directory loader.
func WithLoader(l ports.FormLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithRegistry sets the element type registry used to compile definitions.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Engine.
// By default, it reads definitions from the directory at formsDir.
// If WithLoader option is provided, formsDir can be empty and is only used as a label.
func New(formsDir string, opts ...Option) (*Engine, error) {
	eng := &Engine{
		forms: make(map[string]*domain.Form),
	}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if eng.loader == nil {
		if formsDir == "" {
			return nil, fmt.Errorf("formsDir is required when no custom loader is provided")
		}
		loader, err := file.New(formsDir, file.WithLogger(eng.logger))
		if err != nil {
			return nil, err
		}
		eng.loader = loader
		eng.Name = filepath.Base(loader.Root())
	} else if formsDir != "" {
		eng.Name = filepath.Base(formsDir)
	}

	if eng.Name != "" {
		eng.logger = eng.logger.With("forms", eng.Name)
	}
	if eng.registry == nil {
		eng.registry = registry.Default()
	}

	eng.parser = compiler.NewParser(eng.registry)
	eng.runtime = runtime.NewEngine(
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	)

	return eng, nil
}

// Forms lists the IDs of the available forms.
func (e *Engine) Forms(ctx context.Context) ([]string, error) {
	return e.loader.ListForms(ctx)
}

// Inspect returns the compiled definition of a form. The returned form is shared
// and must not be modified.
func (e *Engine) Inspect(ctx context.Context, id string) (*domain.Form, error) {
	e.mu.RLock()
	form, ok := e.forms[id]
	generation := e.generation
	e.mu.RUnlock()
	if ok {
		return form, nil
	}

	data, err := e.loader.GetForm(ctx, id)
	if err != nil {
		return nil, err
	}
	form, err = e.parser.Parse(id, data)
	if err != nil {
		return nil, err
	}

	if lintErr := validator.ValidateForm(form, e.registry); lintErr != nil {
		e.logger.Warn("form definition has issues", "form", id, "error", lintErr)
	}

	// A compile that raced with Invalidate may hold the old definition.
	e.mu.Lock()
	if e.generation == generation {
		e.forms[id] = form
	}
	e.mu.Unlock()
	return form, nil
}

// Build applies the conditional states of a form for a render.
func (e *Engine) Build(ctx context.Context, id string, sub domain.Submission) (*domain.Result, error) {
	form, err := e.Inspect(ctx, id)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	built, err := e.runtime.Build(runtime.WithRequestID(ctx, requestID), form, sub)
	if err != nil {
		return nil, err
	}

	return &domain.Result{
		RequestID: requestID,
		Form:      built,
		Changes:   domain.DiffAttributes(form, built),
	}, nil
}

// Submit applies the conditional states of a form and validates the submission.
// Validation failures are reported in Result.Errors; the returned error is reserved
// for loading and compiling problems.
func (e *Engine) Submit(ctx context.Context, id string, sub domain.Submission) (*domain.Result, error) {
	form, err := e.Inspect(ctx, id)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	built, err := e.runtime.Submit(runtime.WithRequestID(ctx, requestID), form, sub)

	var verrs domain.ValidationErrors
	if err != nil && !errors.As(err, &verrs) {
		return nil, err
	}

	return &domain.Result{
		RequestID: requestID,
		Form:      built,
		Changes:   domain.DiffAttributes(form, built),
		Errors:    verrs,
	}, nil
}

// Evaluate resolves an ad-hoc condition set against the elements of a form.
func (e *Engine) Evaluate(ctx context.Context, id string, set domain.ConditionSet, sub domain.Submission) (conditions.Result, error) {
	form, err := e.Inspect(ctx, id)
	if err != nil {
		return conditions.Indeterminate, err
	}
	return e.runtime.Evaluate(ctx, form, set, sub), nil
}

// Lint compiles a form and reports authoring issues in its conditional states.
func (e *Engine) Lint(ctx context.Context, id string) error {
	form, err := e.Inspect(ctx, id)
	if err != nil {
		return err
	}
	return validator.ValidateForm(form, e.registry)
}

// Invalidate drops every compiled form from the cache.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	e.forms = make(map[string]*domain.Form)
	e.generation++
	e.mu.Unlock()
}

// Watch returns a channel that signals when the underlying definitions change.
// The compiled form cache is invalidated before each signal is delivered.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, ok := e.loader.(ports.Watchable)
	if !ok {
		return nil, fmt.Errorf("current loader does not support watching")
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for range changes {
			e.Invalidate()
			e.logger.Info("form definitions changed, cache invalidated")
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out, nil
}

// Loader returns the underlying FormLoader used by the engine.
func (e *Engine) Loader() ports.FormLoader {
	return e.loader
}

// Registry returns the element type registry used to compile definitions.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}
