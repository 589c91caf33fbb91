package param

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arloliu/pod/endian"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/internal/options"
)

// Config holds StaticProvider settings.
type Config struct {
	logger zerolog.Logger
	engine endian.EndianEngine
	dedup  bool
}

// Option configures a StaticProvider.
type Option = options.Option[*Config]

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		logger: zerolog.Nop(),
		engine: endian.GetNativeEngine(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithLogger sets the logger used to report rejected offers at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(c *Config) {
		c.logger = logger
	})
}

// WithByteOrder sets the byte order of offers, filters and results.
func WithByteOrder(engine endian.EndianEngine) Option {
	return options.New(func(c *Config) error {
		if engine == nil {
			return fmt.Errorf("%w: nil byte order", errs.ErrInvalidOption)
		}
		c.engine = engine

		return nil
	})
}

// WithDedup drops results structurally equal to an earlier result of the
// same enumeration.
func WithDedup() Option {
	return options.NoError(func(c *Config) {
		c.dedup = true
	})
}
