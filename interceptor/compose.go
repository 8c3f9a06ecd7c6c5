package interceptor

import (
	"context"
	"reflect"

	"github.com/goliatone/go-interceptor/cache"
	"github.com/google/uuid"
)

// DeclareOption configures a member declaration.
type DeclareOption func(*declaration)

type declaration struct {
	tracer Tracer
}

// WithTracer routes the declaration's trace events to tracer.
func WithTracer(tracer Tracer) DeclareOption {
	return func(d *declaration) {
		d.tracer = tracer
	}
}

func newDeclaration(opts []DeclareOption) declaration {
	d := declaration{tracer: NopTracer{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&d)
		}
	}
	if d.tracer == nil {
		d.tracer = NopTracer{}
	}
	return d
}

// stack applies wrappers innermost-first: wrappers[0] wraps original and each
// later wrapper wraps the previous result, so the last wrapper runs first at
// call time. One wrapper-installed event is emitted per wrapper.
func stack[F any, W Wrapper](
	ctx context.Context,
	member Member,
	original F,
	wrappers []W,
	d declaration,
	wrap func(w W, site Site, next F) (F, error),
) (F, []string, error) {
	current := original
	names := make([]string, 0, len(wrappers))

	for i, w := range wrappers {
		if isNil(w) {
			return current, nil, invalidDeclaration(member, "nil wrapper")
		}
		for _, prev := range wrappers[:i] {
			if sameWrapper(prev, w) {
				return current, nil, wrapperAlreadyInstalled(w.WrapperName(), member, "declared twice on "+member.String())
			}
		}

		site := Site{Member: member, ID: uuid.NewString(), Tracer: d.tracer}
		next, err := wrap(w, site, current)
		if err != nil {
			return current, nil, err
		}
		current = next
		names = append(names, w.WrapperName())
		site.emit(ctx, EventWrapperInstalled, w.WrapperName(), "")
	}

	return current, names, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func sameWrapper(a, b any) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// Method is a declared method with its wrapper stack applied.
type Method struct {
	member   Member
	call     MethodFunc
	wrappers []string
}

// DeclareMethod stacks wrappers on original. See stack for ordering.
func DeclareMethod(ctx context.Context, member Member, original MethodFunc, wrappers []MethodWrapper, opts ...DeclareOption) (*Method, error) {
	if member.Kind != KindMethod {
		return nil, invalidDeclaration(member, "not a method member")
	}
	if original == nil {
		return nil, invalidDeclaration(member, "nil original")
	}

	call, names, err := stack(ctx, member, original, wrappers, newDeclaration(opts),
		func(w MethodWrapper, site Site, next MethodFunc) (MethodFunc, error) {
			return w.WrapMethod(site, next)
		})
	if err != nil {
		return nil, err
	}

	return &Method{member: member, call: call, wrappers: names}, nil
}

// Call invokes the method through its wrapper stack.
func (m *Method) Call(ctx context.Context, recv any, args ...any) (any, error) {
	return m.call(ctx, recv, args)
}

// Member returns the declared member.
func (m *Method) Member() Member { return m.member }

// Wrappers returns wrapper names in declaration order (innermost first).
func (m *Method) Wrappers() []string {
	return append([]string(nil), m.wrappers...)
}

// Call invokes m and asserts the result to T. A nil result yields the zero T.
func Call[T any](ctx context.Context, m *Method, recv any, args ...any) (T, error) {
	result, err := m.Call(ctx, recv, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	return cache.As[T](result)
}

// Field is a declared field initializer with its wrapper stack applied.
type Field struct {
	member   Member
	init     FieldInitFunc
	wrappers []string
}

// DeclareField stacks wrappers on a field initializer. A nil original stores
// the declared initial value unchanged.
func DeclareField(ctx context.Context, member Member, original FieldInitFunc, wrappers []FieldInitWrapper, opts ...DeclareOption) (*Field, error) {
	if member.Kind != KindField {
		return nil, invalidDeclaration(member, "not a field member")
	}
	if original == nil {
		original = func(_ context.Context, _ any, value any) (any, error) {
			return value, nil
		}
	}

	init, names, err := stack(ctx, member, original, wrappers, newDeclaration(opts),
		func(w FieldInitWrapper, site Site, next FieldInitFunc) (FieldInitFunc, error) {
			return w.WrapField(site, next)
		})
	if err != nil {
		return nil, err
	}

	return &Field{member: member, init: init, wrappers: names}, nil
}

// Init computes the value to store for the field's initial value.
func (f *Field) Init(ctx context.Context, recv any, value any) (any, error) {
	return f.init(ctx, recv, value)
}

func (f *Field) Member() Member { return f.member }

func (f *Field) Wrappers() []string {
	return append([]string(nil), f.wrappers...)
}

// InitField runs f and asserts the stored value to T.
func InitField[T any](ctx context.Context, f *Field, recv any, value T) (T, error) {
	result, err := f.Init(ctx, recv, value)
	if err != nil {
		var zero T
		return zero, err
	}
	return cache.As[T](result)
}

// Setter is a declared setter with its wrapper stack applied.
type Setter struct {
	member   Member
	set      SetterFunc
	wrappers []string
}

// DeclareSetter stacks wrappers on the underlying setter.
func DeclareSetter(ctx context.Context, member Member, original SetterFunc, wrappers []SetterWrapper, opts ...DeclareOption) (*Setter, error) {
	if member.Kind != KindSetter {
		return nil, invalidDeclaration(member, "not a setter member")
	}
	if original == nil {
		return nil, invalidDeclaration(member, "nil original")
	}

	set, names, err := stack(ctx, member, original, wrappers, newDeclaration(opts),
		func(w SetterWrapper, site Site, next SetterFunc) (SetterFunc, error) {
			return w.WrapSetter(site, next)
		})
	if err != nil {
		return nil, err
	}

	return &Setter{member: member, set: set, wrappers: names}, nil
}

// Set runs value through the wrapper stack into the underlying setter.
func (s *Setter) Set(ctx context.Context, recv any, value any) error {
	return s.set(ctx, recv, value)
}

func (s *Setter) Member() Member { return s.member }

func (s *Setter) Wrappers() []string {
	return append([]string(nil), s.wrappers...)
}
