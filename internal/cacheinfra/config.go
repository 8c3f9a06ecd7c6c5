package cacheinfra

import (
	"errors"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/viccon/sturdyc"
)

// Mode selects the cache table backend.
type Mode string

const (
	// ModeTable is an unbounded table that never evicts.
	ModeTable Mode = "table"
	// ModeBounded is a sturdyc backed table with capacity, TTL and eviction.
	ModeBounded Mode = "bounded"
)

// Config holds the configuration for a cache table.
// Only Mode is required for the unbounded table; the remaining fields
// configure the bounded sturdyc backend.
type Config struct {
	// Mode selects the backend. Default: ModeTable.
	Mode Mode

	// Capacity defines the maximum number of entries that the cache can store.
	// Must be greater than 0 in bounded mode.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Higher values improve concurrency but increase memory overhead.
	// Must be greater than 0 in bounded mode. Default: 16
	NumShards int

	// TTL is the time-to-live for cached entries. After this duration,
	// entries are considered expired and the original runs again.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often the cache checks for expired entries.
	// Zero value uses the default interval.
	EvictionInterval time.Duration
}

// DefaultConfig returns the reference configuration: an unbounded table.
func DefaultConfig() Config {
	return Config{Mode: ModeTable}
}

// DefaultBoundedConfig returns a bounded configuration with sensible defaults.
func DefaultBoundedConfig() Config {
	return Config{
		Mode:               ModeBounded,
		Capacity:           10000,
		NumShards:          16,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
		EvictionInterval:   0, // Use default
	}
}

// ToSturdycOptions converts the Config to sturdyc.Option slice.
// Capacity, NumShards, TTL, and EvictionPercentage are passed directly
// to sturdyc.New() and are not included in the options.
//
// Early refreshes and missing record storage are never enabled: a background
// refresh would re-run the wrapped original, and a stored missing record
// would cache a failure.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
// Returns a *ConfigError describing the first invalid field.
func (c Config) Validate() error {
	bounded := c.Mode == ModeBounded
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Mode,
			validation.Required.Error("must be set"),
			validation.In(ModeTable, ModeBounded).Error("must be one of table, bounded"),
		),
		validation.Field(&c.Capacity, validation.When(bounded,
			validation.Required.Error("must be greater than 0"),
			validation.Min(1).Error("must be greater than 0"),
		)),
		validation.Field(&c.NumShards, validation.When(bounded,
			validation.Required.Error("must be greater than 0"),
			validation.Min(1).Error("must be greater than 0"),
		)),
		validation.Field(&c.TTL, validation.When(bounded,
			validation.Required.Error("must be greater than 0"),
			validation.Min(time.Duration(1)).Error("must be greater than 0"),
		)),
		validation.Field(&c.EvictionPercentage, validation.When(bounded,
			validation.Required.Error("must be between 1 and 100"),
			validation.Min(1).Error("must be between 1 and 100"),
			validation.Max(100).Error("must be between 1 and 100"),
		)),
		validation.Field(&c.EvictionInterval,
			validation.Min(time.Duration(0)).Error("must be non-negative"),
		),
	)
	return toConfigError(err)
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// toConfigError picks the first failing field (by name) so results are deterministic.
func toConfigError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ConfigError{Field: "config", Message: err.Error()}
	}

	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	field := fields[0]
	return &ConfigError{Field: field, Message: fieldErrs[field].Error()}
}
