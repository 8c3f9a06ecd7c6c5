package cacheinfra

import (
	"context"

	"github.com/viccon/sturdyc"
)

// SturdycStore wraps a sturdyc client providing a bounded cache table.
type SturdycStore struct {
	client *sturdyc.Client[any]
}

// NewSturdycStore creates a new sturdyc backed cache table.
// It validates the configuration and initializes a sturdyc client with the provided settings.
//
// The constructor translates Config parameters to sturdyc initialization:
// - Capacity, NumShards, TTL, EvictionPercentage are passed to sturdyc.New()
// - Other options are applied via ToSturdycOptions()
func NewSturdycStore(cfg Config) (*SturdycStore, error) {
	cfg.Mode = ModeBounded
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &SturdycStore{client: client}, nil
}

// GetOrFetch returns the stored value for key, or runs fetchFn, stores its
// result and returns it. Concurrent misses on one key share a single fetch.
//
// The error handed back is always the exact error fetchFn returned, so
// callers can compare it by identity.
func (s *SturdycStore) GetOrFetch(ctx context.Context, key string, fetchFn func(context.Context) (any, error)) (any, error) {
	var fetchErr error
	value, err := s.client.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		v, err := fetchFn(ctx)
		fetchErr = err
		return v, err
	})
	if fetchErr != nil {
		return nil, fetchErr
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Delete removes a single entry from the table.
func (s *SturdycStore) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// Len returns the number of stored entries.
func (s *SturdycStore) Len() int {
	return s.client.Size()
}

// Keys returns a snapshot of the stored keys (order is unspecified).
func (s *SturdycStore) Keys() []string {
	return s.client.ScanKeys()
}
