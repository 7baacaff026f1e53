package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPhaseStart      EventType = "phase_start"
	EventPhaseEnd        EventType = "phase_end"
	EventStateResolved   EventType = "state_resolved"
	EventValidationError EventType = "validation_error"
)

// Phase names the two passes of the engine.
type Phase string

const (
	PhaseBuild  Phase = "build"
	PhaseSubmit Phase = "submit"
)

// Outcome values reported on StateEvent.
const (
	OutcomeTrue          = "true"
	OutcomeFalse         = "false"
	OutcomeIndeterminate = "indeterminate"
	OutcomeInert         = "inert"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RequestID string    `json:"request_id"`
}

// PhaseEvent brackets a build or submit pass.
type PhaseEvent struct {
	EventBase
	FormID   string        `json:"form_id"`
	Phase    Phase         `json:"phase"`
	Duration time.Duration `json:"duration,omitempty"`
	Errors   int           `json:"errors,omitempty"`
}

// StateEvent reports how a single state rule resolved.
type StateEvent struct {
	EventBase
	FormID     string `json:"form_id"`
	Phase      Phase  `json:"phase"`
	ElementKey string `json:"element_key"`
	State      string `json:"state"`
	Outcome    string `json:"outcome"`
}

// ValidationEvent reports a required-field failure.
type ValidationEvent struct {
	EventBase
	FormID     string `json:"form_id"`
	ElementKey string `json:"element_key,omitempty"`
	Message    string `json:"message"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnPhaseStart      func(context.Context, *PhaseEvent)
	OnPhaseEnd        func(context.Context, *PhaseEvent)
	OnStateResolved   func(context.Context, *StateEvent)
	OnValidationError func(context.Context, *ValidationEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnPhaseStart:      chain(h.OnPhaseStart, other.OnPhaseStart),
		OnPhaseEnd:        chain(h.OnPhaseEnd, other.OnPhaseEnd),
		OnStateResolved:   chain(h.OnStateResolved, other.OnStateResolved),
		OnValidationError: chain(h.OnValidationError, other.OnValidationError),
	}
}

func chain[T any](a, b func(context.Context, T)) func(context.Context, T) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e T) {
		a(ctx, e)
		b(ctx, e)
	}
}
