package compiler

import "github.com/flowsql/core/logger"

// Config holds every compile-time tunable (§4.10), built by applying Option closures
// left-to-right over a baseline default.
type Config struct {
	DefaultParallelism int
	Preview            bool
	Logger             logger.Logger
}

// Option modifies a Config. Functions returning Option follow the same With* naming the rest
// of the pack uses for its own functional-option configuration.
type Option func(*Config)

// WithDefaultParallelism sets the parallelism assigned to every StreamNode the compile emits.
func WithDefaultParallelism(n int) Option {
	return func(c *Config) { c.DefaultParallelism = n }
}

// WithPreview puts the compile into preview mode: every connector sink is replaced with the
// web sink, and no connection linkage is persisted to the catalog (§6).
func WithPreview(preview bool) Option {
	return func(c *Config) { c.Preview = preview }
}

// WithLogger overrides the logger this compile reports progress through.
func WithLogger(l logger.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

func newConfig(opts []Option) *Config {
	cfg := &Config{DefaultParallelism: 4, Logger: logger.GetDefault()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
