package format

import (
	"fmt"
	"strings"

	"github.com/arloliu/pod/errs"
)

type (
	// Type is a POD type id. Ids below TypeObjectStart are the basic value
	// kinds; higher ranges name pointer, event, command and object types.
	Type uint32
	// ChoiceType selects how the alternatives of a Choice combine.
	ChoiceType uint32
	// PropFlags are the per-property flags of an Object.
	PropFlags uint32
	// ControlType is the type of a control point inside a Sequence.
	ControlType uint32
	// CompressionType is the compression applied to an archive payload.
	CompressionType uint8
)

const (
	TypeStart     Type = 0x00 // TypeStart is the invalid zero type.
	TypeNone      Type = 0x01 // TypeNone is the empty value.
	TypeBool      Type = 0x02 // TypeBool is a 32-bit boolean.
	TypeID        Type = 0x03 // TypeID is an unsigned 32-bit enumeration id.
	TypeInt       Type = 0x04 // TypeInt is a signed 32-bit integer.
	TypeLong      Type = 0x05 // TypeLong is a signed 64-bit integer.
	TypeFloat     Type = 0x06 // TypeFloat is a 32-bit float.
	TypeDouble    Type = 0x07 // TypeDouble is a 64-bit float.
	TypeString    Type = 0x08 // TypeString is a NUL-terminated string.
	TypeBytes     Type = 0x09 // TypeBytes is an opaque blob.
	TypeRectangle Type = 0x0A // TypeRectangle is a (width, height) pair.
	TypeFraction  Type = 0x0B // TypeFraction is a (num, denom) pair.
	TypeBitmap    Type = 0x0C // TypeBitmap is a raw bitmap.
	TypeArray     Type = 0x0D // TypeArray is a homogeneous array of bodies.
	TypeStruct    Type = 0x0E // TypeStruct is a heterogeneous list of values.
	TypeObject    Type = 0x0F // TypeObject is a typed property list.
	TypeSequence  Type = 0x10 // TypeSequence is a list of timed controls.
	TypePointer   Type = 0x11 // TypePointer is a typed pointer value.
	TypeFd        Type = 0x12 // TypeFd is a file descriptor index.
	TypeChoice    Type = 0x13 // TypeChoice is a set of alternatives.
	TypePod       Type = 0x14 // TypePod is the generic value type.

	TypePointerStart  Type = 0x10000
	TypePointerBuffer Type = 0x10001
	TypePointerMeta   Type = 0x10002
	TypePointerDict   Type = 0x10003

	TypeEventStart  Type = 0x20000
	TypeEventDevice Type = 0x20001
	TypeEventNode   Type = 0x20002

	TypeCommandStart  Type = 0x30000
	TypeCommandDevice Type = 0x30001
	TypeCommandNode   Type = 0x30002

	TypeObjectStart        Type = 0x40000
	TypeObjectPropInfo     Type = 0x40001
	TypeObjectProps        Type = 0x40002
	TypeObjectFormat       Type = 0x40003
	TypeObjectParamBuffers Type = 0x40004
	TypeObjectParamMeta    Type = 0x40005
	TypeObjectParamIO      Type = 0x40006
	TypeObjectParamProfile Type = 0x40007
	TypeObjectParamPortCfg Type = 0x40008
	TypeObjectParamRoute   Type = 0x40009
	TypeObjectProfiler     Type = 0x4000A
	TypeObjectParamLatency Type = 0x4000B
	TypeObjectParamProcLat Type = 0x4000C
	TypeObjectParamTag     Type = 0x4000D

	TypeVendorPipeWire Type = 0x02000000
	TypeVendorOther    Type = 0x7f000000
)

const (
	ChoiceNone  ChoiceType = 0 // ChoiceNone holds a single concrete value.
	ChoiceRange ChoiceType = 1 // ChoiceRange holds (default, min, max).
	ChoiceStep  ChoiceType = 2 // ChoiceStep holds (default, min, max, step).
	ChoiceEnum  ChoiceType = 3 // ChoiceEnum holds (default, alternatives...).
	ChoiceFlags ChoiceType = 4 // ChoiceFlags holds (default, allowed masks...).
)

const (
	PropReadOnly   PropFlags = 1 << 0 // PropReadOnly marks a read-only property.
	PropHardware   PropFlags = 1 << 1 // PropHardware marks a hardware property.
	PropHintDict   PropFlags = 1 << 2 // PropHintDict marks a property carrying a dict hint.
	PropMandatory  PropFlags = 1 << 3 // PropMandatory marks a property that must be present on both sides.
	PropDontFixate PropFlags = 1 << 4 // PropDontFixate keeps the choice when fixating.
)

const (
	ControlInvalid    ControlType = 0
	ControlProperties ControlType = 1 // ControlProperties carries a Props object.
	ControlMidi       ControlType = 2 // ControlMidi carries raw MIDI bytes.
	ControlOSC        ControlType = 3 // ControlOSC carries an OSC packet.
	ControlUMP        ControlType = 4 // ControlUMP carries a universal MIDI packet.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

var typeNames = map[Type]string{
	TypeStart:     "Start",
	TypeNone:      "None",
	TypeBool:      "Bool",
	TypeID:        "Id",
	TypeInt:       "Int",
	TypeLong:      "Long",
	TypeFloat:     "Float",
	TypeDouble:    "Double",
	TypeString:    "String",
	TypeBytes:     "Bytes",
	TypeRectangle: "Rectangle",
	TypeFraction:  "Fraction",
	TypeBitmap:    "Bitmap",
	TypeArray:     "Array",
	TypeStruct:    "Struct",
	TypeObject:    "Object",
	TypeSequence:  "Sequence",
	TypePointer:   "Pointer",
	TypeFd:        "Fd",
	TypeChoice:    "Choice",
	TypePod:       "Pod",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return "Unknown"
}

// IsBasic reports whether t is one of the value kinds with a defined layout.
func (t Type) IsBasic() bool {
	return t >= TypeNone && t <= TypePod
}

// IsContainer reports whether values of type t nest other values.
func (t Type) IsContainer() bool {
	switch t { //nolint: exhaustive
	case TypeArray, TypeStruct, TypeObject, TypeSequence, TypeChoice:
		return true
	default:
		return false
	}
}

// FixedSize returns the body size of fixed-layout types.
// The second result is false for variable-size types.
func (t Type) FixedSize() (uint32, bool) {
	switch t { //nolint: exhaustive
	case TypeNone:
		return 0, true
	case TypeBool, TypeID, TypeInt, TypeFloat:
		return 4, true
	case TypeLong, TypeDouble, TypeFd, TypeRectangle, TypeFraction:
		return 8, true
	case TypePointer:
		return 16, true
	default:
		return 0, false
	}
}

func (c ChoiceType) String() string {
	switch c {
	case ChoiceNone:
		return "None"
	case ChoiceRange:
		return "Range"
	case ChoiceStep:
		return "Step"
	case ChoiceEnum:
		return "Enum"
	case ChoiceFlags:
		return "Flags"
	default:
		return "Unknown"
	}
}

// Has reports whether all bits of flag are set.
func (f PropFlags) Has(flag PropFlags) bool {
	return f&flag == flag
}

func (c ControlType) String() string {
	switch c {
	case ControlInvalid:
		return "Invalid"
	case ControlProperties:
		return "Properties"
	case ControlMidi:
		return "Midi"
	case ControlOSC:
		return "OSC"
	case ControlUMP:
		return "UMP"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression returns the compression type named s, ignoring case.
// An empty name selects CompressionNone.
func ParseCompression(s string) (CompressionType, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("%w: unknown compression %q", errs.ErrInvalidOption, s)
	}
}
