// Package parser decodes POD buffers with bounds checking.
//
// Every size and offset read from a buffer is checked against the real
// slice bounds before the bytes it describes are touched, so buffers from
// untrusted peers can be parsed safely. A malformed buffer yields
// errs.ErrTruncated, errs.ErrOverrun or errs.ErrMalformed, never a panic.
//
// Two styles are offered:
//
//   - Pod is a validated (type, body) view. Its container accessors return
//     the children after validating every child header.
//   - Parser walks a buffer with an explicit frame stack, mirroring the
//     builder: Push enters a container, typed getters consume values and
//     Pop checks that the container was fully consumed.
//
// # Basic Usage
//
//	pod, err := parser.Parse(data)
//	obj, err := pod.Object()
//	for _, prop := range obj.Props {
//		fmt.Println(prop.Key, prop.Value.Type())
//	}
package parser

import (
	"fmt"
	"math"

	"github.com/arloliu/pod/endian"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/internal/wire"
	"github.com/arloliu/pod/value"
)

// Pod is a validated view of one value: its type and body bytes.
// The body aliases the parsed buffer.
type Pod struct {
	typ    format.Type
	body   []byte
	engine endian.EndianEngine
}

// Parse validates the value at the start of data and returns a view of it.
// A declared size beyond the end of data is reported as errs.ErrTruncated.
func Parse(data []byte, opts ...Option) (Pod, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return Pod{}, err
	}

	return parse(cfg.engine, data)
}

func parse(engine endian.EndianEngine, data []byte) (Pod, error) {
	h, body, err := wire.Locate(engine, data, 0, 0, len(data))
	if err != nil {
		return Pod{}, err
	}

	return Pod{typ: h.Type, body: data[body : body+int(h.Size)], engine: engine}, nil
}

// NewPod returns a view of a value with the given type and body.
func NewPod(engine endian.EndianEngine, typ format.Type, body []byte) Pod {
	return Pod{typ: typ, body: body, engine: engine}
}

// Type returns the type id.
func (p Pod) Type() format.Type {
	return p.typ
}

// Body returns the body bytes, without header or padding.
func (p Pod) Body() []byte {
	return p.body
}

// Size returns the body size.
func (p Pod) Size() int {
	return len(p.body)
}

// PaddedSize returns the bytes the value occupies as a full value.
func (p Pod) PaddedSize() int {
	return wire.HeaderSize + wire.Pad(len(p.body))
}

// Engine returns the byte order of the underlying buffer.
func (p Pod) Engine() endian.EndianEngine {
	return p.engine
}

// IsValid reports whether p refers to a parsed value.
func (p Pod) IsValid() bool {
	return p.engine != nil
}

// AppendTo appends p as a full padded value to dst.
func (p Pod) AppendTo(dst []byte) []byte {
	var hdr [wire.HeaderSize]byte
	wire.PutHeader(p.engine, hdr[:], wire.Header{Size: uint32(len(p.body)), Type: p.typ}) //nolint: gosec
	dst = append(dst, hdr[:]...)
	dst = append(dst, p.body...)

	return append(dst, make([]byte, wire.Pad(len(p.body))-len(p.body))...)
}

func (p Pod) expect(t format.Type) error {
	if p.typ != t {
		return fmt.Errorf("%w: want %s, got %s", errs.ErrTypeMismatch, t, p.typ)
	}
	if size, ok := t.FixedSize(); ok && len(p.body) < int(size) {
		return fmt.Errorf("%w: %s body has %d bytes, need %d", errs.ErrTruncated, t, len(p.body), size)
	}

	return nil
}

// IsNone reports whether p is the empty value.
func (p Pod) IsNone() bool {
	return p.typ == format.TypeNone
}

// Bool returns the value of a Bool.
func (p Pod) Bool() (bool, error) {
	if err := p.expect(format.TypeBool); err != nil {
		return false, err
	}

	return p.engine.Uint32(p.body) != 0, nil
}

// ID returns the value of an Id.
func (p Pod) ID() (uint32, error) {
	if err := p.expect(format.TypeID); err != nil {
		return 0, err
	}

	return p.engine.Uint32(p.body), nil
}

// Int returns the value of an Int.
func (p Pod) Int() (int32, error) {
	if err := p.expect(format.TypeInt); err != nil {
		return 0, err
	}

	return int32(p.engine.Uint32(p.body)), nil //nolint: gosec
}

// Long returns the value of a Long.
func (p Pod) Long() (int64, error) {
	if err := p.expect(format.TypeLong); err != nil {
		return 0, err
	}

	return int64(p.engine.Uint64(p.body)), nil //nolint: gosec
}

// Float returns the value of a Float.
func (p Pod) Float() (float32, error) {
	if err := p.expect(format.TypeFloat); err != nil {
		return 0, err
	}

	return math.Float32frombits(p.engine.Uint32(p.body)), nil
}

// Double returns the value of a Double.
func (p Pod) Double() (float64, error) {
	if err := p.expect(format.TypeDouble); err != nil {
		return 0, err
	}

	return math.Float64frombits(p.engine.Uint64(p.body)), nil
}

// Fd returns the value of an Fd.
func (p Pod) Fd() (int64, error) {
	if err := p.expect(format.TypeFd); err != nil {
		return 0, err
	}

	return int64(p.engine.Uint64(p.body)), nil //nolint: gosec
}

// Rectangle returns the value of a Rectangle.
func (p Pod) Rectangle() (value.Rectangle, error) {
	if err := p.expect(format.TypeRectangle); err != nil {
		return value.Rectangle{}, err
	}

	return value.Rectangle{Width: p.engine.Uint32(p.body[0:4]), Height: p.engine.Uint32(p.body[4:8])}, nil
}

// Fraction returns the value of a Fraction.
func (p Pod) Fraction() (value.Fraction, error) {
	if err := p.expect(format.TypeFraction); err != nil {
		return value.Fraction{}, err
	}

	return value.Fraction{Num: p.engine.Uint32(p.body[0:4]), Denom: p.engine.Uint32(p.body[4:8])}, nil
}

// Pointer returns the value of a Pointer.
func (p Pod) Pointer() (value.Pointer, error) {
	if err := p.expect(format.TypePointer); err != nil {
		return value.Pointer{}, err
	}

	return value.Pointer{
		PointerType: format.Type(p.engine.Uint32(p.body[0:4])),
		Value:       p.engine.Uint64(p.body[8:16]),
	}, nil
}

// StringValue returns the value of a String, without its terminating NUL.
func (p Pod) StringValue() (string, error) {
	if err := p.expect(format.TypeString); err != nil {
		return "", err
	}
	if len(p.body) == 0 || p.body[len(p.body)-1] != 0 {
		return "", fmt.Errorf("%w: string without terminating NUL", errs.ErrMalformed)
	}

	return string(p.body[:len(p.body)-1]), nil
}

// Bytes returns the body of a Bytes value. The result aliases the buffer.
func (p Pod) Bytes() ([]byte, error) {
	if err := p.expect(format.TypeBytes); err != nil {
		return nil, err
	}

	return p.body, nil
}

// Bitmap returns the body of a Bitmap value. The result aliases the buffer.
func (p Pod) Bitmap() ([]byte, error) {
	if err := p.expect(format.TypeBitmap); err != nil {
		return nil, err
	}

	return p.body, nil
}
