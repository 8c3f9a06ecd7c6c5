package di

import (
	"context"

	"github.com/goliatone/go-interceptor/cache"
	"github.com/goliatone/go-interceptor/interceptor"
	"github.com/goliatone/go-interceptor/pkg/config"
	"github.com/goliatone/go-interceptor/pkg/diagnostics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Container provides dependency injection for interceptor components.
// It owns the logger, the trace sinks, the key encoder and the singleton
// registry, and ties their lifecycle to Shutdown.
type Container struct {
	config     config.Config
	logger     *zap.Logger
	ownsLogger bool
	registerer prometheus.Registerer
	metrics    *diagnostics.MetricsTracer
	tracer     interceptor.Tracer
	keyEncoder cache.KeyEncoder
	registry   *interceptor.Registry
}

// Option configures a Container.
type Option func(*Container)

// WithLogger uses logger instead of building one from the log config. The
// container does not sync a logger it did not build.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPrometheusRegisterer registers trace metrics with reg instead of the
// default registerer. Only used when metrics are enabled.
func WithPrometheusRegisterer(reg prometheus.Registerer) Option {
	return func(c *Container) {
		if reg != nil {
			c.registerer = reg
		}
	}
}

// NewContainer creates a new DI container from cfg.
func NewContainer(cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.logger == nil {
		logger, err := NewLogger(cfg.Log)
		if err != nil {
			return nil, err
		}
		c.logger = logger
		c.ownsLogger = true
	}

	tracers := []interceptor.Tracer{diagnostics.NewZapTracer(c.logger)}
	if cfg.Metrics.Enabled {
		metrics, err := diagnostics.NewMetricsTracer(c.registerer)
		if err != nil {
			return nil, err
		}
		c.metrics = metrics
		tracers = append(tracers, metrics)
	}
	c.tracer = diagnostics.Multi(tracers...)

	c.keyEncoder = NewKeyEncoder(cfg.Keys)
	c.registry = interceptor.NewRegistry(interceptor.WithRegistryTracer(c.tracer))

	return c, nil
}

// NewContainerWithDefaults creates a container from config.Default().
func NewContainerWithDefaults(opts ...Option) (*Container, error) {
	return NewContainer(config.Default(), opts...)
}

// NewKeyEncoder builds the encoder selected by cfg.
func NewKeyEncoder(cfg config.KeysConfig) cache.KeyEncoder {
	var encoder cache.KeyEncoder
	switch cfg.Encoder {
	case config.EncoderMsgpack:
		encoder = cache.NewMsgpackKeyEncoder()
	default:
		encoder = cache.NewCanonicalKeyEncoder()
	}
	if cfg.Hashed {
		encoder = cache.NewHashedKeyEncoder(encoder)
	}
	return encoder
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() config.Config {
	return c.config
}

func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Tracer returns the fan-out of every configured trace sink.
func (c *Container) Tracer() interceptor.Tracer {
	return c.tracer
}

// Metrics returns the metrics sink, or nil when metrics are disabled.
func (c *Container) Metrics() *diagnostics.MetricsTracer {
	return c.metrics
}

func (c *Container) KeyEncoder() cache.KeyEncoder {
	return c.keyEncoder
}

// Registry returns the singleton registry owned by this container.
func (c *Container) Registry() *interceptor.Registry {
	return c.registry
}

// Memoize creates a memoizer using the configured key encoder and cache
// table settings. opts are applied after the defaults.
func (c *Container) Memoize(opts ...interceptor.MemoizeOption) *interceptor.Memoizer {
	defaults := []interceptor.MemoizeOption{
		interceptor.WithKeyEncoder(c.keyEncoder),
		interceptor.WithStoreConfig(c.config.Cache.StoreConfig()),
	}
	return interceptor.Memoize(append(defaults, opts...)...)
}

// DeclareOptions returns the options every member declaration should use.
func (c *Container) DeclareOptions() []interceptor.DeclareOption {
	return []interceptor.DeclareOption{interceptor.WithTracer(c.tracer)}
}

// Shutdown closes registered singletons and flushes a logger the container
// built itself.
func (c *Container) Shutdown(ctx context.Context) error {
	err := c.registry.Close(ctx)
	if c.ownsLogger {
		// stderr sync fails on some platforms; nothing to report
		_ = c.logger.Sync()
	}
	return err
}
