package interceptor

import "context"

// MethodFunc is a method body. recv is the receiver the member was called on.
type MethodFunc func(ctx context.Context, recv any, args []any) (any, error)

// FieldInitFunc produces the value stored in a field at construction time.
type FieldInitFunc func(ctx context.Context, recv any, value any) (any, error)

// SetterFunc performs the state mutation behind a logical setter.
type SetterFunc func(ctx context.Context, recv any, value any) error

// Site is what a wrapper sees when it is installed on a member.
type Site struct {
	Member Member
	// ID identifies this installation in trace events.
	ID     string
	Tracer Tracer
}

func (s Site) emit(ctx context.Context, kind EventKind, wrapper, key string) {
	emit(ctx, s.Tracer, Event{
		Kind:      kind,
		Member:    s.Member.String(),
		Wrapper:   wrapper,
		WrapperID: s.ID,
		Key:       key,
	})
}

// Wrapper is the common surface of every wrapper.
type Wrapper interface {
	WrapperName() string
}

// MethodWrapper wraps a method body. WrapMethod is called once per
// declaration; the returned function runs on every call and either
// short-circuits or delegates to next.
type MethodWrapper interface {
	Wrapper
	WrapMethod(site Site, next MethodFunc) (MethodFunc, error)
}

// FieldInitWrapper wraps a field initializer.
type FieldInitWrapper interface {
	Wrapper
	WrapField(site Site, next FieldInitFunc) (FieldInitFunc, error)
}

// SetterWrapper wraps a setter.
type SetterWrapper interface {
	Wrapper
	WrapSetter(site Site, next SetterFunc) (SetterFunc, error)
}
