package observability

import (
	"context"
	"log/slog"

	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

// LogHooks returns lifecycle hooks that write each event as a structured record.
// State resolutions are logged at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhaseStart: func(ctx context.Context, e *domain.PhaseEvent) {
			logger.InfoContext(ctx, "phase_start",
				"request_id", e.RequestID,
				"form_id", e.FormID,
				"phase", e.Phase,
			)
		},
		OnPhaseEnd: func(ctx context.Context, e *domain.PhaseEvent) {
			logger.InfoContext(ctx, "phase_end",
				"request_id", e.RequestID,
				"form_id", e.FormID,
				"phase", e.Phase,
				"duration", e.Duration,
				"errors", e.Errors,
			)
		},
		OnStateResolved: func(ctx context.Context, e *domain.StateEvent) {
			logger.DebugContext(ctx, "state_resolved",
				"request_id", e.RequestID,
				"element", e.ElementKey,
				"state", e.State,
				"outcome", e.Outcome,
			)
		},
		OnValidationError: func(ctx context.Context, e *domain.ValidationEvent) {
			logger.InfoContext(ctx, "validation_error",
				"request_id", e.RequestID,
				"element", e.ElementKey,
				"message", e.Message,
			)
		},
	}
}
