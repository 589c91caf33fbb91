package builder

import (
	"fmt"

	"github.com/arloliu/pod/endian"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/internal/options"
)

// GrowFunc reallocates the builder buffer.
//
// It receives the current buffer and the total number of bytes required and
// must return a buffer of at least need bytes whose prefix holds the old
// contents. The builder only keeps offsets into the buffer, so the returned
// slice may live at a different address.
type GrowFunc func(buf []byte, need int) ([]byte, error)

// Config holds the builder settings.
type Config struct {
	engine endian.EndianEngine
	grow   GrowFunc
}

// Option configures a Builder.
type Option = options.Option[*Config]

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{engine: endian.GetNativeEngine()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithByteOrder sets the byte order of written values. The default is the host order.
func WithByteOrder(engine endian.EndianEngine) Option {
	return options.New(func(c *Config) error {
		if engine == nil {
			return fmt.Errorf("%w: nil byte order", errs.ErrInvalidOption)
		}
		c.engine = engine

		return nil
	})
}

// WithGrowFunc installs a growth callback used instead of failing with ErrOverflow.
func WithGrowFunc(fn GrowFunc) Option {
	return options.NoError(func(c *Config) {
		c.grow = fn
	})
}

// WithGrowth makes the builder grow its buffer by doubling, without limit.
func WithGrowth() Option {
	return WithGrowFunc(DoubleGrow)
}

// DoubleGrow is a GrowFunc that at least doubles the buffer capacity.
func DoubleGrow(buf []byte, need int) ([]byte, error) {
	size := max(2*cap(buf), need, 64)
	out := make([]byte, size)
	copy(out, buf)

	return out, nil
}
