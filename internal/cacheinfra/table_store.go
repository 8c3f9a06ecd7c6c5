package cacheinfra

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/singleflight"
)

// TableStore is an unbounded cache table. Entries live until they are
// deleted or the table is dropped; nothing is evicted.
type TableStore struct {
	entries *xsync.MapOf[string, any]
	group   singleflight.Group
}

// NewTableStore creates an empty table.
func NewTableStore() *TableStore {
	return &TableStore{entries: xsync.NewMapOf[string, any]()}
}

// GetOrFetch returns the stored value for key or runs fetchFn on a miss.
// Concurrent misses on the same key run fetchFn once; the others receive the
// shared result. Failed fetches are not stored.
func (s *TableStore) GetOrFetch(ctx context.Context, key string, fetchFn func(context.Context) (any, error)) (any, error) {
	if value, ok := s.entries.Load(key); ok {
		return value, nil
	}

	value, err, _ := s.group.Do(key, func() (any, error) {
		if value, ok := s.entries.Load(key); ok {
			return value, nil
		}
		value, err := fetchFn(ctx)
		if err != nil {
			return nil, err
		}
		s.entries.Store(key, value)
		return value, nil
	})
	return value, err
}

// Delete removes a single entry from the table.
func (s *TableStore) Delete(ctx context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}

// Len returns the number of stored entries.
func (s *TableStore) Len() int {
	return s.entries.Size()
}

// Keys returns a snapshot of the stored keys (order is unspecified).
func (s *TableStore) Keys() []string {
	keys := make([]string, 0, s.entries.Size())
	s.entries.Range(func(key string, _ any) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}
