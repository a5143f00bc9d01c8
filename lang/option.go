package lang

import (
	"io"

	"github.com/ardnew/shapescript/log"
)

// Defaults for parse and run limits. Users may modify these before
// parsing to change the defaults.
var (
	DefaultMaxDepth      = 256
	DefaultMaxCallDepth  = 64
	DefaultMaxIterations = 1 << 20
)

// optionsKey holds the options that affect parsing.
// This type is gob-encodable for cache key hashing.
type optionsKey struct {
	MaxDepth int
}

// config holds every parse and run option.
type config struct {
	output        io.Writer
	logger        log.Logger
	opts          optionsKey
	maxCallDepth  int
	maxIterations int
}

// Option configures parsing or execution.
type Option func(*config)

// WithMaxDepth sets the maximum nesting depth of statements and
// expressions accepted by the parser.
func WithMaxDepth(depth int) Option {
	return func(c *config) { c.opts.MaxDepth = depth }
}

// WithMaxCallDepth limits user function recursion.
func WithMaxCallDepth(depth int) Option {
	return func(c *config) { c.maxCallDepth = depth }
}

// WithMaxIterations limits the total number of loop iterations in one run.
// Zero or less disables the limit.
func WithMaxIterations(n int) Option {
	return func(c *config) { c.maxIterations = n }
}

// WithOutput sets the writer that receives print output.
// If not provided, print output is discarded.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.output = w }
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func makeConfig(opts ...Option) config {
	c := config{
		output:        io.Discard,
		opts:          optionsKey{MaxDepth: DefaultMaxDepth},
		maxCallDepth:  DefaultMaxCallDepth,
		maxIterations: DefaultMaxIterations,
	}

	return c.apply(opts...)
}

func (c config) apply(opts ...Option) config {
	for _, opt := range opts {
		opt(&c)
	}

	if c.output == nil {
		c.output = io.Discard
	}

	return c
}
