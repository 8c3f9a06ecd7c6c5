package cache

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// KeyEncoder turns a call's argument list into a stable cache key.
// Element-wise equal argument lists must produce the same key.
type KeyEncoder interface {
	EncodeKey(args ...any) (string, error)
}

// FetchFunc is the untyped function a Store invokes on a miss.
type FetchFunc = func(ctx context.Context) (any, error)

// FetchFn is the typed variant accepted by GetOrFetch.
type FetchFn[T any] func(ctx context.Context) (T, error)

// Store is a cache table: a mapping from encoded key to stored result.
// Implementations must never store the result of a failed fetch and must
// return the fetch error unchanged.
type Store interface {
	GetOrFetch(ctx context.Context, key string, fetchFn FetchFunc) (any, error)
	Delete(ctx context.Context, key string) error
	Len() int
	Keys() []string
}

// TextCodeInvalidResultType marks a stored value that does not match the requested type.
const TextCodeInvalidResultType = "INVALID_RESULT_TYPE"

// ErrInvalidResultType is returned by GetOrFetch when the cached value cannot be asserted to T.
var ErrInvalidResultType = goerrors.New("cached value has unexpected type", goerrors.CategoryInternal).
	WithTextCode(TextCodeInvalidResultType)

// GetOrFetch is a type-safe wrapper function that provides generic support for Store.
func GetOrFetch[T any](ctx context.Context, store Store, key string, fetchFn FetchFn[T]) (T, error) {
	var zero T
	result, err := store.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetchFn(ctx)
	})
	if err != nil {
		return zero, err
	}
	return As[T](result)
}

// As asserts a stored value to T. A nil value yields the zero T.
func As[T any](value any) (T, error) {
	var zero T
	if value == nil {
		return zero, nil
	}
	typed, ok := value.(T)
	if !ok {
		return zero, ErrInvalidResultType
	}
	return typed, nil
}
