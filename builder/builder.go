// Package builder appends POD values into a byte buffer.
//
// A Builder writes scalar values directly and opens containers with the
// Push methods. Each Push records the container start offset and writes a
// placeholder header; Pop back-patches the size and pads the container to
// 8 bytes. Only offsets are kept, so a growth callback may move the buffer.
//
// # Basic Usage
//
//	buf := make([]byte, 1024)
//	b := builder.New(buf)
//	b.PushObject(format.TypeObjectFormat, 3)
//	b.Prop(1, 0)
//	b.ID(1)
//	b.Prop(2, 0)
//	b.ID(2)
//	b.Pop()
//	data, err := b.Finish()
//
// # Errors
//
// Errors are sticky: after the first failure every later call is a no-op
// that returns the same error, and Finish returns no value. Writing past a
// fixed buffer fails with errs.ErrOverflow while Required keeps counting the
// bytes the full value needs, so the caller can retry with a larger buffer.
//
// A Builder is not safe for concurrent use.
package builder

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/arloliu/pod/endian"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/internal/pool"
	"github.com/arloliu/pod/internal/wire"
	"github.com/arloliu/pod/parser"
)

// Builder appends POD values into a buffer.
type Builder struct {
	buf    []byte
	off    int
	engine endian.EndianEngine
	grow   GrowFunc
	frames []frame
	err    error
	pooled *pool.ByteBuffer
}

type frame struct {
	typ       format.Type
	start     int // offset of the container header
	childType format.Type
	childSize uint32
	children  int
	pending   bool // a property or control header awaits its value
}

// State is a saved builder position, restored with Reset.
type State struct {
	off    int
	frames []frame
	err    error
}

// New creates a builder writing into buf. The capacity is len(buf).
func New(buf []byte, opts ...Option) *Builder {
	b, err := newBuilder(buf, opts...)
	if err != nil {
		return &Builder{buf: buf, engine: endian.GetNativeEngine(), err: err}
	}

	return b
}

// NewGrowable creates a builder backed by a pooled buffer that grows on demand.
// Call Release when done with the builder and the bytes returned by Finish.
func NewGrowable(opts ...Option) (*Builder, error) {
	bb := pool.GetPodBuffer()
	bb.SetLength(bb.Cap())

	grow := func(buf []byte, need int) ([]byte, error) {
		bb.B = buf
		bb.Grow(need - len(buf))
		bb.SetLength(bb.Cap())

		return bb.B, nil
	}

	b, err := newBuilder(bb.B, append(opts, WithGrowFunc(grow))...)
	if err != nil {
		pool.PutPodBuffer(bb)
		return nil, err
	}
	b.pooled = bb

	return b, nil
}

func newBuilder(buf []byte, opts ...Option) (*Builder, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Builder{
		buf:    buf,
		engine: cfg.engine,
		grow:   cfg.grow,
		frames: make([]frame, 0, 8),
	}, nil
}

// Release returns a pooled buffer. The builder and any bytes obtained from
// it must not be used afterwards.
func (b *Builder) Release() {
	if b.pooled != nil {
		pool.PutPodBuffer(b.pooled)
		b.pooled = nil
	}
	b.buf = nil
	b.frames = b.frames[:0]
	b.off = 0
}

// Engine returns the byte order the builder writes.
func (b *Builder) Engine() endian.EndianEngine {
	return b.engine
}

// Err returns the sticky error, if any.
func (b *Builder) Err() error {
	return b.err
}

// Len returns the number of bytes written so far.
func (b *Builder) Len() int {
	if b.off > len(b.buf) {
		return len(b.buf)
	}

	return b.off
}

// Required returns the number of bytes the values appended so far need,
// including bytes that did not fit.
func (b *Builder) Required() int {
	return b.off
}

// Depth returns the number of open containers.
func (b *Builder) Depth() int {
	return len(b.frames)
}

// Finish returns the written bytes. It fails when an error occurred or a
// container is still open. The result aliases the builder buffer.
func (b *Builder) Finish() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.frames) != 0 {
		return nil, fmt.Errorf("%w: %d containers still open", errs.ErrInvalidFrame, len(b.frames))
	}

	return b.buf[:b.off], nil
}

// Written returns the bytes written so far, regardless of open containers.
func (b *Builder) Written() []byte {
	return b.buf[:b.Len()]
}

// State saves the current position.
func (b *Builder) State() State {
	return State{off: b.off, frames: slices.Clone(b.frames), err: b.err}
}

// Reset rewinds the builder to a saved state. Containers opened after the
// state was taken are dropped; containers closed since then cannot be
// restored and leave the builder failed with ErrInvalidFrame, even when a
// new container was opened at the same depth.
func (b *Builder) Reset(s State) {
	depth := len(s.frames)
	if depth > len(b.frames) {
		b.fail(fmt.Errorf("%w: reset to depth %d from depth %d", errs.ErrInvalidFrame, depth, len(b.frames)))
		return
	}
	for i := range depth {
		if b.frames[i].start != s.frames[i].start {
			b.fail(fmt.Errorf("%w: container at offset %d was closed", errs.ErrInvalidFrame, s.frames[i].start))
			return
		}
	}

	b.off = s.off
	b.err = s.err
	b.frames = append(b.frames[:0], s.frames...)
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) top() *frame {
	if len(b.frames) == 0 {
		return nil
	}

	return &b.frames[len(b.frames)-1]
}

// reserve advances the write position by n bytes and returns the reserved
// region, or nil once the builder has failed.
func (b *Builder) reserve(n int) []byte {
	start := b.off
	b.off += n
	if b.err != nil {
		return nil
	}

	if b.off > len(b.buf) {
		if b.grow == nil {
			b.err = fmt.Errorf("%w: need %d bytes, capacity %d", errs.ErrOverflow, b.off, len(b.buf))
			return nil
		}

		buf, err := b.grow(b.buf[:start], b.off)
		if err != nil {
			b.err = fmt.Errorf("%w: %w", errs.ErrOverflow, err)
			return nil
		}
		if len(buf) < b.off {
			b.err = fmt.Errorf("%w: grow returned %d bytes, need %d", errs.ErrOverflow, len(buf), b.off)
			return nil
		}
		b.buf = buf
	}

	return b.buf[start:b.off]
}

// enter validates that a value may be written in the current frame.
// It reports whether the value goes into an array or choice frame.
func (b *Builder) enter(container bool) (*frame, bool) {
	f := b.top()
	if f == nil {
		return nil, false
	}

	switch f.typ { //nolint: exhaustive
	case format.TypeArray, format.TypeChoice:
		if container {
			b.fail(fmt.Errorf("%w: container inside %s", errs.ErrInvalidFrame, f.typ))
		}
		return f, true
	case format.TypeObject, format.TypeSequence:
		if !f.pending {
			b.fail(fmt.Errorf("%w: value in %s without a key", errs.ErrInvalidFrame, f.typ))
		}
		f.pending = false
	}

	return f, false
}

// begin reserves a value of type t with a body of size bytes and returns the
// body region. Inside arrays and choices only the body is written.
func (b *Builder) begin(t format.Type, size int) []byte {
	if size < 0 || size > math.MaxUint32-wire.Alignment {
		b.fail(fmt.Errorf("%w: %s body of %d bytes", errs.ErrOverflow, t, size))
		return nil
	}

	f, packed := b.enter(false)
	if packed {
		return b.beginChild(f, t, size)
	}

	dst := b.reserve(wire.HeaderSize + wire.Pad(size))
	if dst == nil {
		return nil
	}
	wire.PutHeader(b.engine, dst, wire.Header{Size: uint32(size), Type: t}) //nolint: gosec
	clear(dst[wire.HeaderSize+size:])

	return dst[wire.HeaderSize : wire.HeaderSize+size]
}

func (b *Builder) beginChild(f *frame, t format.Type, size int) []byte {
	if f.children == 0 {
		b.declareChild(f, t, uint32(size)) //nolint: gosec
	} else if f.childType != t || f.childSize != uint32(size) { //nolint: gosec
		b.fail(fmt.Errorf("%w: %s child of %d bytes in %s of %s/%d",
			errs.ErrTypeMismatch, t, size, f.typ, f.childType, f.childSize))
		return nil
	}
	f.children++

	return b.reserve(size)
}

func (b *Builder) declareChild(f *frame, t format.Type, size uint32) {
	f.childType = t
	f.childSize = size
	if b.err != nil {
		return
	}

	off := f.start + wire.HeaderSize
	if f.typ == format.TypeChoice {
		off += wire.ChoicePrefixSize
	}
	wire.PutHeader(b.engine, b.buf[off:], wire.Header{Size: size, Type: t})
}

// push opens a container of type t whose body starts with prefix bytes.
func (b *Builder) push(t format.Type, prefix int) []byte {
	b.enter(true)

	start := b.off
	dst := b.reserve(wire.HeaderSize + prefix)
	b.frames = append(b.frames, frame{typ: t, start: start})
	if dst == nil {
		return nil
	}
	wire.PutHeader(b.engine, dst, wire.Header{Size: uint32(prefix), Type: t}) //nolint: gosec

	return dst[wire.HeaderSize:]
}

// PushStruct opens a Struct.
func (b *Builder) PushStruct() error {
	b.push(format.TypeStruct, 0)
	return b.err
}

// PushObject opens an Object of the given object type and id.
// Add properties with Prop followed by the property value.
func (b *Builder) PushObject(objType format.Type, id uint32) error {
	if dst := b.push(format.TypeObject, wire.ObjectPrefixSize); dst != nil {
		b.engine.PutUint32(dst[0:4], uint32(objType))
		b.engine.PutUint32(dst[4:8], id)
	}

	return b.err
}

// PushSequence opens a Sequence. Add controls with Control followed by the control value.
func (b *Builder) PushSequence(unit uint32) error {
	if dst := b.push(format.TypeSequence, wire.SequencePrefixSize); dst != nil {
		b.engine.PutUint32(dst[0:4], unit)
		b.engine.PutUint32(dst[4:8], 0)
	}

	return b.err
}

// PushArray opens an Array. The first element fixes the child type and size.
func (b *Builder) PushArray() error {
	if dst := b.push(format.TypeArray, wire.ChildHeaderSize); dst != nil {
		wire.PutHeader(b.engine, dst, wire.Header{Size: 0, Type: format.TypeNone})
	}

	return b.err
}

// PushChoice opens a Choice of the given kind. The first value appended is
// the default; all values must share type and size.
func (b *Builder) PushChoice(kind format.ChoiceType, flags uint32) error {
	if dst := b.push(format.TypeChoice, wire.ChoicePrefixSize+wire.ChildHeaderSize); dst != nil {
		b.engine.PutUint32(dst[0:4], uint32(kind))
		b.engine.PutUint32(dst[4:8], flags)
		wire.PutHeader(b.engine, dst[8:], wire.Header{Size: 0, Type: format.TypeNone})
	}

	return b.err
}

// Pop closes the innermost container, back-patching its size.
func (b *Builder) Pop() error {
	if len(b.frames) == 0 {
		b.fail(fmt.Errorf("%w: pop with no open container", errs.ErrInvalidFrame))
		return b.err
	}

	f := b.frames[len(b.frames)-1]
	b.frames = b.frames[:len(b.frames)-1]
	if f.pending {
		b.fail(fmt.Errorf("%w: %s closed with a key but no value", errs.ErrInvalidFrame, f.typ))
	}

	size := b.off - f.start - wire.HeaderSize
	if size > math.MaxUint32-wire.Alignment {
		b.fail(fmt.Errorf("%w: %s body of %d bytes", errs.ErrOverflow, f.typ, size))
	}
	pad := b.reserve(wire.Pad(size) - size)
	if b.err != nil {
		return b.err
	}
	clear(pad)
	b.engine.PutUint32(b.buf[f.start:f.start+4], uint32(size)) //nolint: gosec

	return nil
}

// Prop writes a property header. The next value appended is the property value.
func (b *Builder) Prop(key uint32, flags format.PropFlags) error {
	f := b.top()
	if f == nil || f.typ != format.TypeObject {
		b.fail(fmt.Errorf("%w: property %d outside an object", errs.ErrInvalidFrame, key))
		return b.err
	}
	if f.pending {
		b.fail(fmt.Errorf("%w: property %d follows a property without value", errs.ErrInvalidFrame, key))
		return b.err
	}

	f.pending = true
	if dst := b.reserve(wire.PropHeaderSize); dst != nil {
		b.engine.PutUint32(dst[0:4], key)
		b.engine.PutUint32(dst[4:8], uint32(flags))
	}

	return b.err
}

// Control writes a control header. The next value appended is the control value.
func (b *Builder) Control(offset uint32, typ format.ControlType) error {
	f := b.top()
	if f == nil || f.typ != format.TypeSequence {
		b.fail(fmt.Errorf("%w: control outside a sequence", errs.ErrInvalidFrame))
		return b.err
	}
	if f.pending {
		b.fail(fmt.Errorf("%w: control follows a control without value", errs.ErrInvalidFrame))
		return b.err
	}

	f.pending = true
	if dst := b.reserve(wire.ControlHeaderSize); dst != nil {
		b.engine.PutUint32(dst[0:4], offset)
		b.engine.PutUint32(dst[4:8], uint32(typ))
	}

	return b.err
}

// None appends the empty value.
func (b *Builder) None() error {
	b.begin(format.TypeNone, 0)
	return b.err
}

// Bool appends a boolean.
func (b *Builder) Bool(v bool) error {
	var n uint32
	if v {
		n = 1
	}
	if dst := b.begin(format.TypeBool, 4); dst != nil {
		b.engine.PutUint32(dst, n)
	}

	return b.err
}

// ID appends an enumeration id.
func (b *Builder) ID(v uint32) error {
	if dst := b.begin(format.TypeID, 4); dst != nil {
		b.engine.PutUint32(dst, v)
	}

	return b.err
}

// Int appends a 32-bit integer.
func (b *Builder) Int(v int32) error {
	if dst := b.begin(format.TypeInt, 4); dst != nil {
		b.engine.PutUint32(dst, uint32(v)) //nolint: gosec
	}

	return b.err
}

// Long appends a 64-bit integer.
func (b *Builder) Long(v int64) error {
	if dst := b.begin(format.TypeLong, 8); dst != nil {
		b.engine.PutUint64(dst, uint64(v)) //nolint: gosec
	}

	return b.err
}

// Float appends a 32-bit float.
func (b *Builder) Float(v float32) error {
	if dst := b.begin(format.TypeFloat, 4); dst != nil {
		b.engine.PutUint32(dst, math.Float32bits(v))
	}

	return b.err
}

// Double appends a 64-bit float.
func (b *Builder) Double(v float64) error {
	if dst := b.begin(format.TypeDouble, 8); dst != nil {
		b.engine.PutUint64(dst, math.Float64bits(v))
	}

	return b.err
}

// Fd appends a file descriptor index.
func (b *Builder) Fd(v int64) error {
	if dst := b.begin(format.TypeFd, 8); dst != nil {
		b.engine.PutUint64(dst, uint64(v)) //nolint: gosec
	}

	return b.err
}

// Rectangle appends a (width, height) pair.
func (b *Builder) Rectangle(width, height uint32) error {
	if dst := b.begin(format.TypeRectangle, 8); dst != nil {
		b.engine.PutUint32(dst[0:4], width)
		b.engine.PutUint32(dst[4:8], height)
	}

	return b.err
}

// Fraction appends a (num, denom) pair.
func (b *Builder) Fraction(num, denom uint32) error {
	if dst := b.begin(format.TypeFraction, 8); dst != nil {
		b.engine.PutUint32(dst[0:4], num)
		b.engine.PutUint32(dst[4:8], denom)
	}

	return b.err
}

// Pointer appends a typed pointer value.
func (b *Builder) Pointer(typ format.Type, v uint64) error {
	if dst := b.begin(format.TypePointer, 16); dst != nil {
		b.engine.PutUint32(dst[0:4], uint32(typ))
		b.engine.PutUint32(dst[4:8], 0)
		b.engine.PutUint64(dst[8:16], v)
	}

	return b.err
}

// String appends a NUL-terminated string. s must not contain NUL bytes.
func (b *Builder) String(s string) error {
	if strings.IndexByte(s, 0) >= 0 {
		b.fail(fmt.Errorf("%w: string contains a NUL byte", errs.ErrMalformed))
		return b.err
	}
	if dst := b.begin(format.TypeString, len(s)+1); dst != nil {
		copy(dst, s)
		dst[len(s)] = 0
	}

	return b.err
}

// Bytes appends an opaque blob.
func (b *Builder) Bytes(v []byte) error {
	return b.Raw(format.TypeBytes, v)
}

// Bitmap appends a raw bitmap.
func (b *Builder) Bitmap(v []byte) error {
	return b.Raw(format.TypeBitmap, v)
}

// Raw appends a value of type t with the given body. Container bodies are
// self-contained, so Raw copies whole subtrees.
func (b *Builder) Raw(t format.Type, body []byte) error {
	if t.IsContainer() {
		if f := b.top(); f != nil && (f.typ == format.TypeArray || f.typ == format.TypeChoice) {
			b.fail(fmt.Errorf("%w: container inside %s", errs.ErrInvalidFrame, f.typ))
			return b.err
		}
	}
	if dst := b.begin(t, len(body)); dst != nil {
		copy(dst, body)
	}

	return b.err
}

// Copy appends a parsed value. The value must use the builder's byte order.
func (b *Builder) Copy(p parser.Pod) error {
	if p.Engine() != b.engine {
		b.fail(fmt.Errorf("%w: copying %s across byte orders", errs.ErrMalformed, p.Type()))
		return b.err
	}

	return b.Raw(p.Type(), p.Body())
}
