package builder

import (
	"fmt"

	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/value"
)

// Encode appends a whole value tree.
func (b *Builder) Encode(v value.Value) error {
	switch v := v.(type) {
	case value.None:
		return b.None()
	case value.Bool:
		return b.Bool(bool(v))
	case value.ID:
		return b.ID(uint32(v))
	case value.Int:
		return b.Int(int32(v))
	case value.Long:
		return b.Long(int64(v))
	case value.Float:
		return b.Float(float32(v))
	case value.Double:
		return b.Double(float64(v))
	case value.Fd:
		return b.Fd(int64(v))
	case value.String:
		return b.String(string(v))
	case value.Bytes:
		return b.Bytes(v)
	case value.Bitmap:
		return b.Bitmap(v)
	case value.Rectangle:
		return b.Rectangle(v.Width, v.Height)
	case value.Fraction:
		return b.Fraction(v.Num, v.Denom)
	case value.Pointer:
		return b.Pointer(v.PointerType, v.Value)
	case value.Struct:
		b.PushStruct()
		for _, field := range v {
			b.Encode(field)
		}
		return b.Pop()
	case value.Object:
		b.PushObject(v.ObjectType, v.ID)
		for _, prop := range v.Props {
			b.Prop(prop.Key, prop.Flags)
			b.Encode(prop.Value)
		}
		return b.Pop()
	case value.Sequence:
		b.PushSequence(v.Unit)
		for _, c := range v.Controls {
			b.Control(c.Offset, c.Type)
			b.Encode(c.Value)
		}
		return b.Pop()
	case value.Array:
		b.PushArray()
		b.declareEmpty(v.ChildType, len(v.Values))
		for _, elem := range v.Values {
			b.Encode(elem)
		}
		return b.Pop()
	case value.Choice:
		b.PushChoice(v.Kind, v.Flags)
		for _, alt := range v.Values {
			b.Encode(alt)
		}
		return b.Pop()
	case nil:
		b.fail(fmt.Errorf("%w: nil value", errs.ErrMalformed))
		return b.err
	default:
		b.fail(fmt.Errorf("%w: unsupported value %T", errs.ErrTypeMismatch, v))
		return b.err
	}
}

// declareEmpty writes the child header of an array that has no elements,
// so the child type survives a round trip.
func (b *Builder) declareEmpty(t format.Type, n int) {
	if n > 0 || t == 0 {
		return
	}

	size, _ := t.FixedSize()
	if f := b.top(); f != nil && f.typ == format.TypeArray {
		b.declareChild(f, t, size)
	}
}
