package parser

import (
	"fmt"

	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/value"
)

// Decode parses data and decodes the whole value tree.
func Decode(data []byte, opts ...Option) (value.Value, error) {
	pod, err := Parse(data, opts...)
	if err != nil {
		return nil, err
	}

	return pod.Value()
}

// Value decodes p and everything nested in it into a value tree.
// Bytes and Bitmap bodies are copied.
func (p Pod) Value() (value.Value, error) {
	switch p.typ { //nolint: exhaustive
	case format.TypeNone:
		return value.None{}, nil
	case format.TypeBool:
		v, err := p.Bool()
		return value.Bool(v), err
	case format.TypeID:
		v, err := p.ID()
		return value.ID(v), err
	case format.TypeInt:
		v, err := p.Int()
		return value.Int(v), err
	case format.TypeLong:
		v, err := p.Long()
		return value.Long(v), err
	case format.TypeFloat:
		v, err := p.Float()
		return value.Float(v), err
	case format.TypeDouble:
		v, err := p.Double()
		return value.Double(v), err
	case format.TypeFd:
		v, err := p.Fd()
		return value.Fd(v), err
	case format.TypeString:
		v, err := p.StringValue()
		return value.String(v), err
	case format.TypeBytes:
		return value.Bytes(clone(p.body)), nil
	case format.TypeBitmap:
		return value.Bitmap(clone(p.body)), nil
	case format.TypeRectangle:
		return p.Rectangle()
	case format.TypeFraction:
		return p.Fraction()
	case format.TypePointer:
		return p.Pointer()
	case format.TypeStruct:
		return p.decodeStruct()
	case format.TypeObject:
		return p.decodeObject()
	case format.TypeSequence:
		return p.decodeSequence()
	case format.TypeArray:
		return p.decodeArray()
	case format.TypeChoice:
		return p.decodeChoice()
	default:
		return nil, fmt.Errorf("%w: cannot decode type %d", errs.ErrTypeMismatch, uint32(p.typ))
	}
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)

	return out
}

func decodeAll(pods []Pod) ([]value.Value, error) {
	if len(pods) == 0 {
		return nil, nil
	}

	out := make([]value.Value, len(pods))
	for i, pod := range pods {
		v, err := pod.Value()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

func (p Pod) decodeStruct() (value.Value, error) {
	fields, err := p.Struct()
	if err != nil {
		return nil, err
	}
	values, err := decodeAll(fields)
	if err != nil {
		return nil, err
	}

	return value.Struct(values), nil
}

func (p Pod) decodeObject() (value.Value, error) {
	obj, err := p.Object()
	if err != nil {
		return nil, err
	}

	out := value.Object{ObjectType: obj.Type, ID: obj.ID}
	if len(obj.Props) > 0 {
		out.Props = make([]value.Prop, len(obj.Props))
	}
	for i, prop := range obj.Props {
		v, err := prop.Value.Value()
		if err != nil {
			return nil, fmt.Errorf("property %d: %w", prop.Key, err)
		}
		out.Props[i] = value.Prop{Key: prop.Key, Flags: prop.Flags, Value: v}
	}

	return out, nil
}

func (p Pod) decodeSequence() (value.Value, error) {
	seq, err := p.Sequence()
	if err != nil {
		return nil, err
	}

	out := value.Sequence{Unit: seq.Unit}
	if len(seq.Controls) > 0 {
		out.Controls = make([]value.Control, len(seq.Controls))
	}
	for i, c := range seq.Controls {
		v, err := c.Value.Value()
		if err != nil {
			return nil, err
		}
		out.Controls[i] = value.Control{Offset: c.Offset, Type: c.Type, Value: v}
	}

	return out, nil
}

func (p Pod) decodeArray() (value.Value, error) {
	arr, err := p.Array()
	if err != nil {
		return nil, err
	}
	values, err := decodeAll(arr.Values)
	if err != nil {
		return nil, err
	}

	return value.Array{ChildType: arr.ChildType, Values: values}, nil
}

func (p Pod) decodeChoice() (value.Value, error) {
	c, err := p.Choice()
	if err != nil {
		return nil, err
	}
	values, err := decodeAll(c.Values)
	if err != nil {
		return nil, err
	}

	return value.Choice{Kind: c.Kind, Flags: c.Flags, Values: values}, nil
}

// IsFixated reports whether p holds no Choice with a kind other than None,
// at any depth.
func (p Pod) IsFixated() (bool, error) {
	switch p.typ { //nolint: exhaustive
	case format.TypeChoice:
		c, err := p.Choice()
		if err != nil {
			return false, err
		}
		return c.Kind == format.ChoiceNone, nil
	case format.TypeStruct:
		fields, err := p.Struct()
		if err != nil {
			return false, err
		}
		return allFixated(fields)
	case format.TypeObject:
		obj, err := p.Object()
		if err != nil {
			return false, err
		}
		pods := make([]Pod, len(obj.Props))
		for i, prop := range obj.Props {
			pods[i] = prop.Value
		}
		return allFixated(pods)
	case format.TypeSequence:
		seq, err := p.Sequence()
		if err != nil {
			return false, err
		}
		pods := make([]Pod, len(seq.Controls))
		for i, c := range seq.Controls {
			pods[i] = c.Value
		}
		return allFixated(pods)
	default:
		return true, nil
	}
}

func allFixated(pods []Pod) (bool, error) {
	for _, pod := range pods {
		ok, err := pod.IsFixated()
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}
