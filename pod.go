// Package pod reads, writes and negotiates POD values.
//
// A POD is a self-describing binary value: an 8-byte header holding the
// body size and a type id, the body, and zero padding to the next multiple
// of 8 bytes. Containers (Struct, Object, Sequence, Array, Choice) nest
// further values, so a single buffer can describe a whole media format or
// a set of acceptable formats.
//
// # Core Features
//
//   - Builder appends values into a caller buffer, fixed or growable
//   - Parser views are bounds-checked against the real buffer on every step
//   - Structural equality and hashing
//   - Filter intersects a request with an offer, Choice by Choice
//   - Fixate collapses Choices to their defaults in place
//   - Archives of many values with optional compression (None, Zstd, S2, LZ4)
//
// # Basic Usage
//
// Encoding and decoding a value tree:
//
//	data, _ := pod.Marshal(value.Object{
//	    ObjectType: format.TypeObjectFormat,
//	    ID:         uint32(format.ParamEnumFormat),
//	    Props: []value.Prop{
//	        {Key: uint32(format.FormatAudioRate), Value: value.NewRange(value.Int(48000), value.Int(8000), value.Int(192000))},
//	    },
//	})
//	v, _ := pod.Unmarshal(data)
//
// Negotiating and picking one concrete answer:
//
//	common, err := pod.Filter(request, offer)
//	if errors.Is(err, errs.ErrNoCommonValue) {
//	    // the peers share no format
//	}
//	concrete, _ := pod.Fixate(common)
//
// # Package Structure
//
// This package wraps the builder, parser, compare and filter packages for
// the common whole-buffer cases. Use those packages directly to build
// incrementally, walk values without decoding them, or reuse buffers.
package pod

import (
	"fmt"
	"slices"

	"github.com/arloliu/pod/builder"
	"github.com/arloliu/pod/compare"
	"github.com/arloliu/pod/endian"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/filter"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/internal/options"
	"github.com/arloliu/pod/parser"
	"github.com/arloliu/pod/value"
)

// Config holds the facade settings.
type Config struct {
	engine endian.EndianEngine
}

// Option configures the facade functions.
type Option = options.Option[*Config]

// WithByteOrder sets the byte order of written and parsed buffers.
// The default is the host order.
func WithByteOrder(engine endian.EndianEngine) Option {
	return options.New(func(c *Config) error {
		if engine == nil {
			return fmt.Errorf("%w: nil byte order", errs.ErrInvalidOption)
		}
		c.engine = engine

		return nil
	})
}

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{engine: endian.GetNativeEngine()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Marshal encodes v into a new buffer.
//
// Parameters:
//   - v: The value tree to encode
//   - opts: Optional settings (WithByteOrder)
//
// Returns:
//   - []byte: The encoded value, owned by the caller
//   - error: ErrMalformed for a nil value, ErrTypeMismatch for a
//     heterogeneous Array or Choice
func Marshal(v value.Value, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return build(cfg, func(b *builder.Builder) error { return b.Encode(v) })
}

// Unmarshal decodes the value at the start of data. The result does not
// alias data.
func Unmarshal(data []byte, opts ...Option) (value.Value, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return parser.Decode(data, parser.WithByteOrder(cfg.engine))
}

// Filter negotiates request against offer and returns their intersection.
// The result may still hold Choices; pass it to Fixate for one concrete
// value. A nil offer accepts the request as is.
//
// Returns errs.ErrNoCommonValue when the two share no value.
func Filter(request, offer []byte, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return build(cfg, func(b *builder.Builder) error {
		return filter.Bytes(b, request, offer, parser.WithByteOrder(cfg.engine))
	})
}

// Fixate returns a copy of data with Choices replaced by their defaults.
//
// A top-level Choice becomes a plain value and the copy shrinks to fit it.
// The Choice properties of a top-level Object keep their layout and become
// single-value Choices, except those flagged format.PropDontFixate. Other
// values are returned unchanged.
func Fixate(data []byte, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	p, err := parser.Parse(data, parser.WithByteOrder(cfg.engine))
	if err != nil {
		return nil, err
	}
	out := p.AppendTo(nil)

	switch p.Type() { //nolint: exhaustive
	case format.TypeChoice:
		if err := builder.Fixate(out, builder.WithByteOrder(cfg.engine)); err != nil {
			return nil, err
		}
		fixed, err := parser.Parse(out, parser.WithByteOrder(cfg.engine))
		if err != nil {
			return nil, err
		}

		return out[:fixed.PaddedSize()], nil
	case format.TypeObject:
		if err := builder.FixateObject(out, builder.WithByteOrder(cfg.engine)); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Equal reports whether two buffers hold structurally equal values.
func Equal(a, b []byte, opts ...Option) (bool, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return false, err
	}

	return compare.EqualBytes(a, b, parser.WithByteOrder(cfg.engine))
}

// Hash returns the structural fingerprint of the value in data. Equal values
// hash alike.
func Hash(data []byte, opts ...Option) (uint64, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return 0, err
	}

	p, err := parser.Parse(data, parser.WithByteOrder(cfg.engine))
	if err != nil {
		return 0, err
	}

	return compare.Hash(p), nil
}

func build(cfg *Config, fn func(*builder.Builder) error) ([]byte, error) {
	b, err := builder.NewGrowable(builder.WithByteOrder(cfg.engine))
	if err != nil {
		return nil, err
	}
	defer b.Release()

	if err := fn(b); err != nil {
		return nil, err
	}
	data, err := b.Finish()
	if err != nil {
		return nil, err
	}

	return slices.Clone(data), nil
}
