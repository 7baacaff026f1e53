package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

// Metrics records engine activity as Prometheus collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	PhaseDuration    *prometheus.HistogramVec
	StatesResolved   *prometheus.CounterVec
	ValidationErrors *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// A *prometheus.Registry is also used as the gatherer behind Handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PhaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webform_phase_duration_seconds",
				Help:    "Duration of build and submit phases",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"form_id", "phase"},
		),
		StatesResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webform_states_resolved_total",
				Help: "Conditional states resolved, by outcome",
			},
			[]string{"form_id", "state", "outcome"},
		),
		ValidationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webform_validation_errors_total",
				Help: "Required fields reported empty on submit",
			},
			[]string{"form_id", "element"},
		),
	}
	reg.MustRegister(m.PhaseDuration, m.StatesResolved, m.ValidationErrors)

	m.gatherer = prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhaseEnd: func(ctx context.Context, e *domain.PhaseEvent) {
			m.PhaseDuration.WithLabelValues(e.FormID, string(e.Phase)).Observe(e.Duration.Seconds())
		},
		OnStateResolved: func(ctx context.Context, e *domain.StateEvent) {
			m.StatesResolved.WithLabelValues(e.FormID, e.State, e.Outcome).Inc()
		},
		OnValidationError: func(ctx context.Context, e *domain.ValidationEvent) {
			m.ValidationErrors.WithLabelValues(e.FormID, e.ElementKey).Inc()
		},
	}
}

// Handler serves the collected metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
