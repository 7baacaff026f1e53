package runtime

import (
	"context"
	"time"

	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

func (e *Engine) base(ctx context.Context, t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      t,
		RequestID: RequestID(ctx),
	}
}

func (e *Engine) emitPhaseStart(ctx context.Context, form *domain.Form, phase domain.Phase) {
	if e.hooks.OnPhaseStart == nil {
		return
	}
	e.hooks.OnPhaseStart(ctx, &domain.PhaseEvent{
		EventBase: e.base(ctx, domain.EventPhaseStart),
		FormID:    form.ID,
		Phase:     phase,
	})
}

func (e *Engine) emitPhaseEnd(ctx context.Context, form *domain.Form, phase domain.Phase, started time.Time, errs int) {
	if e.hooks.OnPhaseEnd == nil {
		return
	}
	e.hooks.OnPhaseEnd(ctx, &domain.PhaseEvent{
		EventBase: e.base(ctx, domain.EventPhaseEnd),
		FormID:    form.ID,
		Phase:     phase,
		Duration:  time.Since(started),
		Errors:    errs,
	})
}

func (e *Engine) emitStateResolved(ctx context.Context, form *domain.Form, phase domain.Phase, key, state, outcome string) {
	if e.hooks.OnStateResolved == nil {
		return
	}
	e.hooks.OnStateResolved(ctx, &domain.StateEvent{
		EventBase:  e.base(ctx, domain.EventStateResolved),
		FormID:     form.ID,
		Phase:      phase,
		ElementKey: key,
		State:      state,
		Outcome:    outcome,
	})
}

func (e *Engine) emitValidationError(ctx context.Context, form *domain.Form, verr domain.ValidationError) {
	if e.hooks.OnValidationError == nil {
		return
	}
	e.hooks.OnValidationError(ctx, &domain.ValidationEvent{
		EventBase:  e.base(ctx, domain.EventValidationError),
		FormID:     form.ID,
		ElementKey: verr.ElementKey,
		Message:    verr.Message,
	})
}
