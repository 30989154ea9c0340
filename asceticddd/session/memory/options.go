package memory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/criteria/domain/operators"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/criteria/evaluator"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/mapping"
)

type config struct {
	ctx        context.Context
	driver     mapping.Driver
	registry   *operators.Registry
	evaluators *evaluator.Factory
	logger     zerolog.Logger
	idSource   func() int64
}

type Option func(*config)

// WithDriver sets where mapping metadata comes from. Struct tags are read by
// default.
func WithDriver(driver mapping.Driver) Option {
	return func(c *config) {
		c.driver = driver
	}
}

// WithRegistry sets the operator registry used for ordered comparisons.
func WithRegistry(registry *operators.Registry) Option {
	return func(c *config) {
		c.registry = registry
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func WithContext(ctx context.Context) Option {
	return func(c *config) {
		c.ctx = ctx
	}
}

// WithIdSource replaces the random source of integer and string identifiers.
// It must return values in [1, MaxInt64).
func WithIdSource(source func() int64) Option {
	return func(c *config) {
		c.idSource = source
	}
}

func withEvaluators(f *evaluator.Factory) Option {
	return func(c *config) {
		c.evaluators = f
	}
}

func newConfig(opts []Option) config {
	c := config{
		ctx:      context.Background(),
		logger:   zerolog.Nop(),
		idSource: randomId,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.evaluators == nil {
		if c.driver == nil {
			c.driver = mapping.NewTagDriver()
		}
		var factoryOpts []evaluator.FactoryOption
		if c.registry != nil {
			factoryOpts = append(factoryOpts, evaluator.WithRegistry(c.registry))
		}
		c.evaluators = evaluator.NewFactory(mapping.NewMetadataFactory(c.driver), factoryOpts...)
	}
	return c
}
