package builder

import (
	"bytes"
	"fmt"

	"github.com/arloliu/pod/endian"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/internal/scalar"
	"github.com/arloliu/pod/internal/wire"
	"github.com/arloliu/pod/parser"
)

// Fixate rewrites the Choice at the start of buf in place into a plain value
// holding its default alternative. The default is first moved into the
// choice's bounds or set. The bytes the choice occupied beyond the new value
// are zeroed, so the total length is unchanged.
func Fixate(buf []byte, opts ...Option) error {
	cfg, err := newConfig(opts...)
	if err != nil {
		return err
	}

	pod, err := parser.Parse(buf, parser.WithByteOrder(cfg.engine))
	if err != nil {
		return err
	}
	c, err := pod.Choice()
	if err != nil {
		return err
	}
	def, err := FixedDefault(cfg.engine, c)
	if err != nil {
		return err
	}

	end := min(pod.PaddedSize(), len(buf))
	wire.PutHeader(cfg.engine, buf, wire.Header{Size: uint32(len(def)), Type: c.ChildType}) //nolint: gosec
	copy(buf[wire.HeaderSize:], def)
	clear(buf[wire.HeaderSize+len(def) : end])

	return nil
}

// FixateObject fixates every Choice property of the Object at the start of
// buf whose flags do not include format.PropDontFixate. Each choice keeps
// its layout: the default is corrected in place and the kind becomes
// format.ChoiceNone.
func FixateObject(buf []byte, opts ...Option) error {
	cfg, err := newConfig(opts...)
	if err != nil {
		return err
	}

	pod, err := parser.Parse(buf, parser.WithByteOrder(cfg.engine))
	if err != nil {
		return err
	}
	obj, err := pod.Object()
	if err != nil {
		return err
	}

	for _, prop := range obj.Props {
		if prop.Value.Type() != format.TypeChoice || prop.Flags.Has(format.PropDontFixate) {
			continue
		}
		c, err := prop.Value.Choice()
		if err != nil {
			return fmt.Errorf("property %d: %w", prop.Key, err)
		}
		def, err := FixedDefault(cfg.engine, c)
		if err != nil {
			return fmt.Errorf("property %d: %w", prop.Key, err)
		}
		copy(c.Values[0].Body(), def)
		cfg.engine.PutUint32(prop.Value.Body()[0:4], uint32(format.ChoiceNone))
	}

	return nil
}

// FixedDefault returns the body of the default alternative of c, moved into
// the choice's range or set when it lies outside it.
//
// Range and Step defaults are clamped to the bounds and aligned to the step.
// An Enum default that is not among the alternatives is replaced by the
// first alternative. A Flags default is masked by the allowed flags.
func FixedDefault(engine endian.EndianEngine, c parser.Choice) ([]byte, error) {
	if err := CheckArity(c.Kind, len(c.Values)); err != nil {
		return nil, err
	}

	def := c.Values[0].Body()
	out := make([]byte, len(def))
	copy(out, def)

	switch c.Kind { //nolint: exhaustive
	case format.ChoiceRange, format.ChoiceStep:
		if !scalar.Ordered(c.ChildType) {
			return out, nil
		}
		vals, err := decodeScalars(engine, c)
		if err != nil {
			return nil, err
		}
		v := scalar.Clamp(vals[0], vals[1], vals[2])
		if c.Kind == format.ChoiceStep {
			v = scalar.Snap(v, vals[1], vals[2], vals[3])
		}
		return v.Encode(engine, out[:0]), nil
	case format.ChoiceEnum:
		if len(c.Values) == 1 {
			return out, nil
		}
		for _, alt := range c.Values[1:] {
			if bytes.Equal(alt.Body(), def) {
				return out, nil
			}
		}
		copy(out, c.Values[1].Body())
		return out, nil
	case format.ChoiceFlags:
		if len(c.Values) == 1 || !scalar.Maskable(c.ChildType) {
			return out, nil
		}
		vals, err := decodeScalars(engine, c)
		if err != nil {
			return nil, err
		}
		var allowed uint64
		for _, m := range vals[1:] {
			allowed |= m.Mask()
		}
		return vals[0].WithMask(vals[0].Mask()&allowed).Encode(engine, out[:0]), nil
	default:
		return out, nil
	}
}

// CheckArity validates the number of alternatives of a choice kind.
func CheckArity(kind format.ChoiceType, n int) error {
	switch kind {
	case format.ChoiceRange:
		if n != 3 {
			return fmt.Errorf("%w: range with %d values, want 3", errs.ErrMalformed, n)
		}
	case format.ChoiceStep:
		if n != 4 {
			return fmt.Errorf("%w: step with %d values, want 4", errs.ErrMalformed, n)
		}
	case format.ChoiceNone, format.ChoiceEnum, format.ChoiceFlags:
		if n < 1 {
			return fmt.Errorf("%w: %s choice without values", errs.ErrMalformed, kind)
		}
	default:
		return fmt.Errorf("%w: unknown choice kind %d", errs.ErrMalformed, uint32(kind))
	}

	return nil
}

func decodeScalars(engine endian.EndianEngine, c parser.Choice) ([]scalar.Value, error) {
	vals := make([]scalar.Value, len(c.Values))
	for i, pod := range c.Values {
		v, err := scalar.Decode(engine, c.ChildType, pod.Body())
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}

	return vals, nil
}
