package diagnostics

import (
	"context"

	"github.com/goliatone/go-interceptor/interceptor"
)

// Multi fans events out to every non-nil tracer. A panicking sink does not
// stop delivery to the others.
func Multi(tracers ...interceptor.Tracer) interceptor.Tracer {
	sinks := make([]interceptor.Tracer, 0, len(tracers))
	for _, t := range tracers {
		if t != nil {
			sinks = append(sinks, t)
		}
	}
	switch len(sinks) {
	case 0:
		return interceptor.NopTracer{}
	case 1:
		return sinks[0]
	}
	return multiTracer(sinks)
}

type multiTracer []interceptor.Tracer

func (m multiTracer) Trace(ctx context.Context, event interceptor.Event) {
	for _, t := range m {
		deliver(ctx, t, event)
	}
}

func deliver(ctx context.Context, t interceptor.Tracer, event interceptor.Event) {
	defer func() {
		_ = recover()
	}()
	t.Trace(ctx, event)
}
