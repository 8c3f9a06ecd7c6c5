package interceptor

import (
	"context"
	"sync"
)

type calc struct {
	name    string
	surname string
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Trace(_ context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]EventKind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}
	return kinds
}

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, k := range r.kinds() {
		if k == kind {
			n++
		}
	}
	return n
}

// countingAdd is an exec(a, b) = a + b original that counts its invocations.
func countingAdd(calls *int) MethodFunc {
	return func(_ context.Context, _ any, args []any) (any, error) {
		*calls++
		return args[0].(int) + args[1].(int), nil
	}
}

// tracing wraps a method and records its name on the way in and out.
type tracing struct {
	name string
	log  *[]string
}

func (w *tracing) WrapperName() string { return w.name }

func (w *tracing) WrapMethod(_ Site, next MethodFunc) (MethodFunc, error) {
	return func(ctx context.Context, recv any, args []any) (any, error) {
		*w.log = append(*w.log, "in:"+w.name)
		result, err := next(ctx, recv, args)
		*w.log = append(*w.log, "out:"+w.name)
		return result, err
	}, nil
}
