package interceptor

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/goliatone/go-interceptor/cache"
)

// Memoizer caches a method's results by encoded arguments. One Memoizer owns
// one cache table and is installed on exactly one member.
type Memoizer struct {
	encoder       cache.KeyEncoder
	storeConfig   cache.Config
	store         cache.Store
	shared        bool
	receiverScope bool

	mu        sync.Mutex
	installed bool
	site      Site
	keys      cache.KeyEncoder
}

// MemoizeOption configures a Memoizer.
type MemoizeOption func(*Memoizer)

// WithKeyEncoder replaces the canonical key encoder.
func WithKeyEncoder(encoder cache.KeyEncoder) MemoizeOption {
	return func(m *Memoizer) {
		if encoder != nil {
			m.encoder = encoder
		}
	}
}

// WithStoreConfig configures the table the Memoizer creates on install.
func WithStoreConfig(cfg cache.Config) MemoizeOption {
	return func(m *Memoizer) {
		m.storeConfig = cfg
	}
}

// WithStore uses an existing table. Keys are namespaced by member so several
// memoized members can share it.
func WithStore(store cache.Store) MemoizeOption {
	return func(m *Memoizer) {
		if store != nil {
			m.store = store
			m.shared = true
		}
	}
}

// WithReceiverScope keys entries by receiver as well as arguments, giving each
// instance its own results. By default all receivers share the member's table.
func WithReceiverScope() MemoizeOption {
	return func(m *Memoizer) {
		m.receiverScope = true
	}
}

// Memoize creates a memoizing method wrapper.
func Memoize(opts ...MemoizeOption) *Memoizer {
	m := &Memoizer{
		encoder:     cache.NewCanonicalKeyEncoder(),
		storeConfig: cache.DefaultConfig(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

func (m *Memoizer) WrapperName() string { return "memoize" }

// WrapMethod binds the Memoizer to site.Member and creates its table.
func (m *Memoizer) WrapMethod(site Site, next MethodFunc) (MethodFunc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.installed {
		return nil, wrapperAlreadyInstalled(m.WrapperName(), site.Member, "already installed on "+m.site.Member.String())
	}

	if m.store == nil {
		store, err := cache.NewStore(m.storeConfig)
		if err != nil {
			return nil, err
		}
		m.store = store
	}

	m.keys = m.encoder
	if m.shared {
		m.keys = cache.NamespacedKeyEncoder{Namespace: site.Member.namespace(), Inner: m.encoder}
	}
	m.site = site
	m.installed = true

	return func(ctx context.Context, recv any, args []any) (any, error) {
		key, err := m.key(recv, args)
		if err != nil {
			return nil, err
		}

		missed := false
		result, err := m.store.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
			missed = true
			site.emit(ctx, EventCacheMiss, m.WrapperName(), key)
			return next(ctx, recv, args)
		})
		switch {
		case missed:
		case err != nil:
			// joined another caller's failed fetch; nothing was stored
			site.emit(ctx, EventCacheMiss, m.WrapperName(), key)
		default:
			site.emit(ctx, EventCacheHit, m.WrapperName(), key)
		}
		return result, err
	}, nil
}

func (m *Memoizer) key(recv any, args []any) (string, error) {
	if m.receiverScope {
		args = append([]any{receiverID(recv)}, args...)
	}
	return m.keys.EncodeKey(args...)
}

// receiverID identifies pointer-like receivers by address and value
// receivers by their formatted value.
func receiverID(recv any) string {
	if recv == nil {
		return "nil"
	}
	rv := reflect.ValueOf(recv)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Slice:
		return fmt.Sprintf("%s(%#x)", rv.Type(), rv.Pointer())
	}
	return fmt.Sprintf("%T(%v)", recv, recv)
}

// Invalidate drops the entry for args so the next call re-runs the original.
// recv is only consulted with WithReceiverScope.
func (m *Memoizer) Invalidate(ctx context.Context, recv any, args ...any) error {
	m.mu.Lock()
	installed := m.installed
	m.mu.Unlock()
	if !installed {
		return nil
	}

	key, err := m.key(recv, args)
	if err != nil {
		return err
	}
	return m.store.Delete(ctx, key)
}

// Len returns the number of cached results for the member.
func (m *Memoizer) Len() int {
	m.mu.Lock()
	installed := m.installed
	m.mu.Unlock()
	if !installed {
		return 0
	}

	if !m.shared {
		return m.store.Len()
	}

	ns := m.site.Member.namespace()
	prefix := ns + cache.NamespaceSeparator
	n := 0
	for _, key := range m.store.Keys() {
		if key == ns || strings.HasPrefix(key, prefix) {
			n++
		}
	}
	return n
}
