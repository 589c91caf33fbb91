// Package value is the in-memory model of a POD value tree.
//
// Every POD kind is a distinct Go type implementing the sealed Value
// interface, so a tree is a plain sum type that can be built, compared with
// reflect-based tools and walked with a type switch:
//
//	v := value.Object{
//		ObjectType: format.TypeObjectFormat,
//		ID:         3,
//		Props: []value.Prop{
//			{Key: 1, Value: value.ID(1)},
//			{Key: 3, Value: value.NewEnum(value.ID(283), value.ID(283), value.ID(282))},
//		},
//	}
//
// The builder package encodes a Value into wire bytes and the parser
// package decodes wire bytes back into a Value.
package value

import "github.com/arloliu/pod/format"

// Value is a POD value. The set of implementations is closed.
type Value interface {
	// Type returns the wire type id of the value.
	Type() format.Type
	isValue()
}

type (
	// None is the empty value.
	None struct{}
	// Bool is a boolean, stored as a 32-bit integer.
	Bool bool
	// ID is an enumeration id.
	ID uint32
	// Int is a signed 32-bit integer.
	Int int32
	// Long is a signed 64-bit integer.
	Long int64
	// Float is a 32-bit float.
	Float float32
	// Double is a 64-bit float.
	Double float64
	// String is a NUL-terminated string. It must not contain NUL bytes.
	String string
	// Bytes is an opaque blob.
	Bytes []byte
	// Bitmap is a raw bitmap.
	Bitmap []byte
	// Fd is an index into a side table of file descriptors.
	Fd int64
)

// Rectangle is a (width, height) pair.
type Rectangle struct {
	Width  uint32
	Height uint32
}

// Fraction is a (num, denom) pair.
type Fraction struct {
	Num   uint32
	Denom uint32
}

// Pointer is a typed opaque pointer value.
type Pointer struct {
	PointerType format.Type
	Value       uint64
}

// Array is a homogeneous list of values sharing one child type and body size.
// ChildType is used to encode an empty array.
type Array struct {
	ChildType format.Type
	Values    []Value
}

// Struct is an ordered list of heterogeneous values.
type Struct []Value

// Prop is one property of an Object.
type Prop struct {
	Key   uint32
	Flags format.PropFlags
	Value Value
}

// Object is a typed list of properties. Keys need not be unique.
type Object struct {
	ObjectType format.Type
	ID         uint32
	Props      []Prop
}

// Control is one timed control point of a Sequence.
type Control struct {
	Offset uint32
	Type   format.ControlType
	Value  Value
}

// Sequence is an ordered list of timed control points.
type Sequence struct {
	Unit     uint32
	Controls []Control
}

// Choice is a set of alternatives combined according to Kind.
// Values[0] is the default.
type Choice struct {
	Kind   format.ChoiceType
	Flags  uint32
	Values []Value
}

func (None) Type() format.Type      { return format.TypeNone }
func (Bool) Type() format.Type      { return format.TypeBool }
func (ID) Type() format.Type        { return format.TypeID }
func (Int) Type() format.Type       { return format.TypeInt }
func (Long) Type() format.Type      { return format.TypeLong }
func (Float) Type() format.Type     { return format.TypeFloat }
func (Double) Type() format.Type    { return format.TypeDouble }
func (String) Type() format.Type    { return format.TypeString }
func (Bytes) Type() format.Type     { return format.TypeBytes }
func (Bitmap) Type() format.Type    { return format.TypeBitmap }
func (Fd) Type() format.Type        { return format.TypeFd }
func (Rectangle) Type() format.Type { return format.TypeRectangle }
func (Fraction) Type() format.Type  { return format.TypeFraction }
func (Pointer) Type() format.Type   { return format.TypePointer }
func (Array) Type() format.Type     { return format.TypeArray }
func (Struct) Type() format.Type    { return format.TypeStruct }
func (Object) Type() format.Type    { return format.TypeObject }
func (Sequence) Type() format.Type  { return format.TypeSequence }
func (Choice) Type() format.Type    { return format.TypeChoice }

func (None) isValue()      {}
func (Bool) isValue()      {}
func (ID) isValue()        {}
func (Int) isValue()       {}
func (Long) isValue()      {}
func (Float) isValue()     {}
func (Double) isValue()    {}
func (String) isValue()    {}
func (Bytes) isValue()     {}
func (Bitmap) isValue()    {}
func (Fd) isValue()        {}
func (Rectangle) isValue() {}
func (Fraction) isValue()  {}
func (Pointer) isValue()   {}
func (Array) isValue()     {}
func (Struct) isValue()    {}
func (Object) isValue()    {}
func (Sequence) isValue()  {}
func (Choice) isValue()    {}

// Find returns the first property with the given key.
func (o Object) Find(key uint32) (Prop, bool) {
	for _, p := range o.Props {
		if p.Key == key {
			return p, true
		}
	}

	return Prop{}, false
}

// Default returns the default alternative, or nil for an empty choice.
func (c Choice) Default() Value {
	if len(c.Values) == 0 {
		return nil
	}

	return c.Values[0]
}

// NewNone returns a choice holding the single value v.
func NewNone(v Value) Choice {
	return Choice{Kind: format.ChoiceNone, Values: []Value{v}}
}

// NewRange returns a range choice with default def and bounds [lo, hi].
func NewRange(def, lo, hi Value) Choice {
	return Choice{Kind: format.ChoiceRange, Values: []Value{def, lo, hi}}
}

// NewStep returns a stepped range choice.
func NewStep(def, lo, hi, step Value) Choice {
	return Choice{Kind: format.ChoiceStep, Values: []Value{def, lo, hi, step}}
}

// NewEnum returns an enumeration choice with default def and the given alternatives.
func NewEnum(def Value, alternatives ...Value) Choice {
	return Choice{Kind: format.ChoiceEnum, Values: append([]Value{def}, alternatives...)}
}

// NewFlags returns a flags choice with default def and the allowed masks.
func NewFlags(def Value, masks ...Value) Choice {
	return Choice{Kind: format.ChoiceFlags, Values: append([]Value{def}, masks...)}
}
