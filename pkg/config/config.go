// Package config loads the runtime configuration of the interceptor stack.
package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-interceptor/cache"
)

// Key encoder names accepted by KeysConfig.Encoder.
const (
	EncoderCanonical = "canonical"
	EncoderMsgpack   = "msgpack"
)

// Config is the root configuration.
type Config struct {
	Cache   CacheConfig   `koanf:"cache"`
	Log     LogConfig     `koanf:"log"`
	Keys    KeysConfig    `koanf:"keys"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// CacheConfig configures the table each memoized member creates.
type CacheConfig struct {
	Mode               string        `koanf:"mode"`
	Capacity           int           `koanf:"capacity"`
	NumShards          int           `koanf:"num_shards"`
	TTL                time.Duration `koanf:"ttl"`
	EvictionPercentage int           `koanf:"eviction_percentage"`
	EvictionInterval   time.Duration `koanf:"eviction_interval"`
}

// StoreConfig converts to the cache package configuration.
func (c CacheConfig) StoreConfig() cache.Config {
	return cache.Config{
		Mode:               cache.Mode(c.Mode),
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func (c CacheConfig) Validate() error {
	return c.StoreConfig().Validate()
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Format, validation.Required, validation.In("console", "json")),
	)
}

// KeysConfig selects the cache key encoder.
type KeysConfig struct {
	Encoder string `koanf:"encoder"`
	// Hashed compacts keys into an xxhash digest.
	Hashed bool `koanf:"hashed"`
}

func (c KeysConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Encoder, validation.Required, validation.In(EncoderCanonical, EncoderMsgpack)),
	)
}

// MetricsConfig toggles the prometheus trace sink.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Default returns the reference configuration: an unbounded table, canonical
// keys, console logging at info. Bounded table limits are pre-filled so
// switching cache.mode alone is enough.
func Default() Config {
	bounded := cache.DefaultBoundedConfig()
	return Config{
		Cache: CacheConfig{
			Mode:               string(cache.ModeTable),
			Capacity:           bounded.Capacity,
			NumShards:          bounded.NumShards,
			TTL:                bounded.TTL,
			EvictionPercentage: bounded.EvictionPercentage,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Keys: KeysConfig{
			Encoder: EncoderCanonical,
		},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Cache),
		validation.Field(&c.Log),
		validation.Field(&c.Keys),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid configuration")
	}
	return nil
}
