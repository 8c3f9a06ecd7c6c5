package interceptor

import "context"

// EventKind classifies a diagnostic event.
type EventKind string

const (
	EventCacheHit         EventKind = "cache-hit"
	EventCacheMiss        EventKind = "cache-miss"
	EventWrapperInstalled EventKind = "wrapper-installed"
	EventSingletonCreated EventKind = "singleton-created"
	EventSingletonReused  EventKind = "singleton-reused"
)

// Event is emitted by wrappers when they activate.
type Event struct {
	Kind EventKind
	// Member is the Owner.Name rendering of the wrapped member.
	Member string
	// Wrapper is the WrapperName of the emitting wrapper.
	Wrapper string
	// WrapperID identifies one installation of a wrapper on a member.
	WrapperID string
	// Key is the encoded cache key for cache events, empty otherwise.
	Key string
}

// Tracer receives diagnostic events. Tracers are observational: they have no
// error return and a panicking tracer is recovered.
type Tracer interface {
	Trace(ctx context.Context, event Event)
}

// TracerFunc adapts a function to Tracer.
type TracerFunc func(ctx context.Context, event Event)

func (f TracerFunc) Trace(ctx context.Context, event Event) {
	f(ctx, event)
}

// NopTracer drops every event.
type NopTracer struct{}

func (NopTracer) Trace(context.Context, Event) {}

func emit(ctx context.Context, tracer Tracer, event Event) {
	if tracer == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	tracer.Trace(ctx, event)
}
