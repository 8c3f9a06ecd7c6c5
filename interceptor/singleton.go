package interceptor

import (
	"context"
	"io"
	"reflect"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Registry maps a type to its single instance. It is an explicit value with
// no package level state; give each application (or test) its own.
type Registry struct {
	mu      sync.RWMutex
	entries map[reflect.Type]*singletonEntry
	order   []reflect.Type
	tracer  Tracer
}

type singletonEntry struct {
	mu       sync.Mutex
	built    bool
	instance any
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryTracer routes singleton events to tracer.
func WithRegistryTracer(tracer Tracer) RegistryOption {
	return func(r *Registry) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		entries: make(map[reflect.Type]*singletonEntry),
		tracer:  NopTracer{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Registry) entry(t reflect.Type) *singletonEntry {
	r.mu.RLock()
	e, ok := r.entries[t]
	r.mu.RUnlock()
	if ok {
		return e
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok = r.entries[t]; !ok {
		e = &singletonEntry{}
		r.entries[t] = e
	}
	return e
}

// Len returns the number of constructed singletons.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Close closes constructed instances that implement io.Closer, newest first,
// and empties the registry. Errors are joined.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	order := r.order
	entries := r.entries
	r.order = nil
	r.entries = make(map[reflect.Type]*singletonEntry)
	r.mu.Unlock()

	var errs []error
	for i := len(order) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		e, ok := entries[order[i]]
		if !ok {
			continue
		}
		e.mu.Lock()
		instance := e.instance
		e.mu.Unlock()

		if closer, ok := instance.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, goerrors.Wrap(err, goerrors.CategoryInternal, "closing singleton "+order[i].String()))
			}
		}
	}
	return goerrors.Join(errs...)
}

// Constructor builds instances of T through a Registry.
type Constructor[T any] struct {
	registry  *Registry
	member    Member
	construct func(ctx context.Context) (T, error)
	site      Site
}

// Singleton registers construct as the constructor of T. Every New call for T
// on this registry, through any Constructor, returns the same instance.
func Singleton[T any](ctx context.Context, registry *Registry, construct func(ctx context.Context) (T, error)) (*Constructor[T], error) {
	member := constructorOf(reflect.TypeFor[T]())
	if registry == nil {
		return nil, invalidDeclaration(member, "nil registry")
	}
	if construct == nil {
		return nil, invalidDeclaration(member, "nil constructor")
	}

	c := &Constructor[T]{
		registry:  registry,
		member:    member,
		construct: construct,
		site:      Site{Member: member, ID: uuid.NewString(), Tracer: registry.tracer},
	}
	c.site.emit(ctx, EventWrapperInstalled, c.WrapperName(), "")
	return c, nil
}

func (c *Constructor[T]) WrapperName() string { return "singleton" }

// Member returns the constructor member of T.
func (c *Constructor[T]) Member() Member { return c.member }

// New returns the registered instance of T, constructing it on first use.
// Later calls do not run the constructor. A failed construction is not
// recorded and the next call tries again.
func (c *Constructor[T]) New(ctx context.Context) (T, error) {
	e := c.registry.entry(c.member.Owner)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.built {
		c.site.emit(ctx, EventSingletonReused, c.WrapperName(), "")
		instance, _ := e.instance.(T)
		return instance, nil
	}

	instance, err := c.construct(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	e.instance = instance
	e.built = true

	c.registry.mu.Lock()
	c.registry.order = append(c.registry.order, c.member.Owner)
	c.registry.mu.Unlock()

	c.site.emit(ctx, EventSingletonCreated, c.WrapperName(), "")
	return instance, nil
}

// Lookup returns the instance of T if one has been constructed.
func Lookup[T any](registry *Registry) (T, bool) {
	var zero T
	t := reflect.TypeFor[T]()

	registry.mu.RLock()
	e, ok := registry.entries[t]
	registry.mu.RUnlock()
	if !ok {
		return zero, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.built {
		return zero, false
	}
	instance, _ := e.instance.(T)
	return instance, true
}
