package parser

import (
	"fmt"

	"github.com/arloliu/pod/endian"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/internal/options"
)

// Config holds the parser settings.
type Config struct {
	engine endian.EndianEngine
}

// Option configures Parse, Decode and NewParser.
type Option = options.Option[*Config]

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{engine: endian.GetNativeEngine()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithByteOrder sets the byte order of the parsed buffer. The default is the host order.
func WithByteOrder(engine endian.EndianEngine) Option {
	return options.New(func(c *Config) error {
		if engine == nil {
			return fmt.Errorf("%w: nil byte order", errs.ErrInvalidOption)
		}
		c.engine = engine

		return nil
	})
}
