package archive

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arloliu/pod/endian"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/internal/options"
)

// Config holds the encoder settings.
type Config struct {
	engine      endian.EndianEngine
	compression format.CompressionType
	maxSize     int
	logger      zerolog.Logger
}

// Option configures an Encoder or Decode.
type Option = options.Option[*Config]

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		engine:      endian.GetNativeEngine(),
		compression: format.CompressionNone,
		logger:      zerolog.Nop(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithByteOrder sets the byte order of the archive. Values added to the
// encoder must use it. The default is the host order; Decode ignores it and
// follows the header.
func WithByteOrder(engine endian.EndianEngine) Option {
	return options.New(func(c *Config) error {
		if engine == nil {
			return fmt.Errorf("%w: nil byte order", errs.ErrInvalidOption)
		}
		c.engine = engine

		return nil
	})
}

// WithCompression sets the payload codec. The default stores the payload
// uncompressed.
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(c *Config) error {
		switch compression {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			c.compression = compression
			return nil
		default:
			return fmt.Errorf("%w: %d", errs.ErrInvalidCompression, uint8(compression))
		}
	})
}

// WithMaxSize limits the uncompressed payload size. The encoder refuses
// values past the limit and Decode refuses archives declaring more. Zero
// means no limit.
func WithMaxSize(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("%w: negative max size %d", errs.ErrInvalidOption, n)
		}
		c.maxSize = n

		return nil
	})
}

// WithLogger sets the logger for archive summaries. The default discards.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(c *Config) {
		c.logger = logger
	})
}
