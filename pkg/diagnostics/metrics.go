package diagnostics

import (
	"context"
	"errors"

	"github.com/goliatone/go-interceptor/interceptor"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsTracer counts trace events.
//
// Metrics:
//   - interceptor_events_total{kind,wrapper,member} - Count of trace events
type MetricsTracer struct {
	events *prometheus.CounterVec
}

// NewMetricsTracer registers the event counter with reg. Registering twice
// against the same registerer reuses the existing collector instead of
// failing with a duplicate registration.
func NewMetricsTracer(reg prometheus.Registerer) (*MetricsTracer, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interceptor_events_total",
			Help: "Total number of interceptor trace events",
		},
		[]string{"kind", "wrapper", "member"},
	)

	if err := reg.Register(events); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		events = existing
	}

	return &MetricsTracer{events: events}, nil
}

func (t *MetricsTracer) Trace(_ context.Context, event interceptor.Event) {
	t.events.WithLabelValues(string(event.Kind), event.Wrapper, event.Member).Inc()
}

// Counter exposes the underlying counter vector.
func (t *MetricsTracer) Counter() *prometheus.CounterVec {
	return t.events
}
