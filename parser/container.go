package parser

import (
	"fmt"

	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/internal/wire"
)

// Prop is one property of a parsed Object.
type Prop struct {
	Key   uint32
	Flags format.PropFlags
	Value Pod
}

// Object is a parsed Object.
type Object struct {
	Type  format.Type
	ID    uint32
	Props []Prop
}

// Find returns the first property with the given key.
func (o Object) Find(key uint32) (Prop, bool) {
	for _, p := range o.Props {
		if p.Key == key {
			return p, true
		}
	}

	return Prop{}, false
}

// Control is one control point of a parsed Sequence.
type Control struct {
	Offset uint32
	Type   format.ControlType
	Value  Pod
}

// Sequence is a parsed Sequence.
type Sequence struct {
	Unit     uint32
	Controls []Control
}

// Array is a parsed Array. Each element is a view of one packed child body.
type Array struct {
	ChildType format.Type
	ChildSize uint32
	Values    []Pod
}

// Choice is a parsed Choice. Values[0] is the default.
type Choice struct {
	Kind      format.ChoiceType
	Flags     uint32
	ChildType format.Type
	ChildSize uint32
	Values    []Pod
}

// Default returns the default alternative.
func (c Choice) Default() Pod {
	if len(c.Values) == 0 {
		return Pod{}
	}

	return c.Values[0]
}

// Struct returns the fields of a Struct.
func (p Pod) Struct() ([]Pod, error) {
	if err := p.expect(format.TypeStruct); err != nil {
		return nil, err
	}

	var fields []Pod
	for off := 0; off < len(p.body); {
		child, next, err := p.child(0, off)
		if err != nil {
			return nil, err
		}
		fields = append(fields, child)
		off = next
	}

	return fields, nil
}

// Object returns the object type, id and properties of an Object.
func (p Pod) Object() (Object, error) {
	if err := p.expect(format.TypeObject); err != nil {
		return Object{}, err
	}
	if len(p.body) < wire.ObjectPrefixSize {
		return Object{}, fmt.Errorf("%w: object body of %d bytes", errs.ErrTruncated, len(p.body))
	}

	obj := Object{
		Type: format.Type(p.engine.Uint32(p.body[0:4])),
		ID:   p.engine.Uint32(p.body[4:8]),
	}
	for off := wire.ObjectPrefixSize; off < len(p.body); {
		if len(p.body)-off < wire.PropHeaderSize {
			return Object{}, fmt.Errorf("%w: property header at %d", errs.ErrTruncated, off)
		}
		key := p.engine.Uint32(p.body[off : off+4])
		flags := format.PropFlags(p.engine.Uint32(p.body[off+4 : off+8]))

		child, next, err := p.child(0, off+wire.PropHeaderSize)
		if err != nil {
			return Object{}, fmt.Errorf("property %d: %w", key, err)
		}
		obj.Props = append(obj.Props, Prop{Key: key, Flags: flags, Value: child})
		off = next
	}

	return obj, nil
}

// Sequence returns the unit and controls of a Sequence.
func (p Pod) Sequence() (Sequence, error) {
	if err := p.expect(format.TypeSequence); err != nil {
		return Sequence{}, err
	}
	if len(p.body) < wire.SequencePrefixSize {
		return Sequence{}, fmt.Errorf("%w: sequence body of %d bytes", errs.ErrTruncated, len(p.body))
	}

	seq := Sequence{Unit: p.engine.Uint32(p.body[0:4])}
	for off := wire.SequencePrefixSize; off < len(p.body); {
		if len(p.body)-off < wire.ControlHeaderSize {
			return Sequence{}, fmt.Errorf("%w: control header at %d", errs.ErrTruncated, off)
		}
		offset := p.engine.Uint32(p.body[off : off+4])
		typ := format.ControlType(p.engine.Uint32(p.body[off+4 : off+8]))

		child, next, err := p.child(0, off+wire.ControlHeaderSize)
		if err != nil {
			return Sequence{}, fmt.Errorf("control at %d: %w", offset, err)
		}
		seq.Controls = append(seq.Controls, Control{Offset: offset, Type: typ, Value: child})
		off = next
	}

	return seq, nil
}

// Array returns the child type and elements of an Array.
func (p Pod) Array() (Array, error) {
	if err := p.expect(format.TypeArray); err != nil {
		return Array{}, err
	}

	childType, childSize, values, err := p.packed(0)
	if err != nil {
		return Array{}, err
	}

	return Array{ChildType: childType, ChildSize: childSize, Values: values}, nil
}

// Choice returns the kind, flags and alternatives of a Choice.
func (p Pod) Choice() (Choice, error) {
	if err := p.expect(format.TypeChoice); err != nil {
		return Choice{}, err
	}
	if len(p.body) < wire.ChoicePrefixSize {
		return Choice{}, fmt.Errorf("%w: choice body of %d bytes", errs.ErrTruncated, len(p.body))
	}

	childType, childSize, values, err := p.packed(wire.ChoicePrefixSize)
	if err != nil {
		return Choice{}, err
	}

	return Choice{
		Kind:      format.ChoiceType(p.engine.Uint32(p.body[0:4])),
		Flags:     p.engine.Uint32(p.body[4:8]),
		ChildType: childType,
		ChildSize: childSize,
		Values:    values,
	}, nil
}

// AsChoice returns p as a Choice. A value that is not a Choice is returned
// as a Choice of kind None holding the value itself.
func (p Pod) AsChoice() (Choice, error) {
	if p.typ == format.TypeChoice {
		return p.Choice()
	}

	return Choice{
		Kind:      format.ChoiceNone,
		ChildType: p.typ,
		ChildSize: uint32(len(p.body)), //nolint: gosec
		Values:    []Pod{p},
	}, nil
}

// FindProp returns the value of the first property with the given key.
func (p Pod) FindProp(key uint32) (Prop, error) {
	obj, err := p.Object()
	if err != nil {
		return Prop{}, err
	}
	prop, ok := obj.Find(key)
	if !ok {
		return Prop{}, fmt.Errorf("%w: property %d", errs.ErrNotFound, key)
	}

	return prop, nil
}

// child validates the full value at body offset off and returns it with the
// offset of its next sibling.
func (p Pod) child(start, off int) (Pod, int, error) {
	h, body, err := wire.Locate(p.engine, p.body, start, off, len(p.body))
	if err != nil {
		return Pod{}, 0, err
	}

	child := Pod{typ: h.Type, body: p.body[body : body+int(h.Size)], engine: p.engine}

	return child, wire.Next(h, off, len(p.body)), nil
}

// packed decodes the child header at off and the packed child bodies after it.
func (p Pod) packed(off int) (format.Type, uint32, []Pod, error) {
	h, err := wire.ReadHeader(p.engine, p.body, off)
	if err != nil {
		return 0, 0, nil, err
	}
	if h.Type.IsContainer() {
		return 0, 0, nil, fmt.Errorf("%w: %s child in %s", errs.ErrMalformed, h.Type, p.typ)
	}
	if size, ok := h.Type.FixedSize(); ok && h.Size < size {
		return 0, 0, nil, fmt.Errorf("%w: %s child of %d bytes", errs.ErrMalformed, h.Type, h.Size)
	}

	data := p.body[off+wire.ChildHeaderSize:]
	if h.Size == 0 {
		if len(data) != 0 {
			return 0, 0, nil, fmt.Errorf("%w: %d bytes of zero-size children", errs.ErrMalformed, len(data))
		}
		return h.Type, 0, nil, nil
	}
	if uint64(len(data))%uint64(h.Size) != 0 {
		return 0, 0, nil, fmt.Errorf("%w: %d bytes is not a multiple of child size %d",
			errs.ErrMalformed, len(data), h.Size)
	}

	size := int(h.Size)
	values := make([]Pod, 0, len(data)/size)
	for i := 0; i+size <= len(data); i += size {
		values = append(values, Pod{typ: h.Type, body: data[i : i+size : i+size], engine: p.engine})
	}

	return h.Type, h.Size, values, nil
}
