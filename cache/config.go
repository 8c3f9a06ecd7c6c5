package cache

import (
	"time"

	"github.com/goliatone/go-interceptor/internal/cacheinfra"
)

// Mode selects the cache table backend.
type Mode = cacheinfra.Mode

const (
	// ModeTable keeps every entry for the lifetime of the table. This is the
	// reference behaviour: no eviction, unbounded growth.
	ModeTable = cacheinfra.ModeTable
	// ModeBounded caps the table and expires entries. Evicted keys are
	// recomputed, so the original may run more than once per key.
	ModeBounded = cacheinfra.ModeBounded
)

// Config exposes cache table configuration options for consumers of the cache package.
type Config struct {
	Mode               Mode
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// DefaultConfig returns an unbounded table configuration.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// DefaultBoundedConfig returns a bounded configuration with sensible limits.
func DefaultBoundedConfig() Config {
	return convertFromInternal(cacheinfra.DefaultBoundedConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewStore constructs one cache table using the provided configuration.
func NewStore(cfg Config) (Store, error) {
	internal := cfg.toInternal()
	if err := internal.Validate(); err != nil {
		return nil, err
	}
	if internal.Mode == cacheinfra.ModeBounded {
		store, err := cacheinfra.NewSturdycStore(internal)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return cacheinfra.NewTableStore(), nil
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Mode:               c.Mode,
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Mode:               cfg.Mode,
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}
