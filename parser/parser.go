package parser

import (
	"fmt"
	"io"
	"slices"

	"github.com/arloliu/pod/endian"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/internal/wire"
	"github.com/arloliu/pod/value"
)

// Parser walks a buffer with an explicit frame stack.
//
// At depth 0 the parser iterates the values stored back to back in the
// buffer. PushStruct, PushObject and PushSequence enter the current value;
// inside an object each value is preceded by a call to Prop, inside a
// sequence by a call to Control. Getters consume the current value only
// when it has the requested type.
//
// A Parser is not safe for concurrent use; the buffer it reads may be shared.
type Parser struct {
	data   []byte
	engine endian.EndianEngine
	off    int
	frames []frame
}

type frame struct {
	typ     format.Type
	start   int  // body start, the alignment origin of the children
	end     int  // body end
	after   int  // parent offset following the container
	pending bool // a property or control header was read
}

// State is a saved parser position, restored with Reset.
type State struct {
	off    int
	frames []frame
}

// NewParser creates a parser over data.
func NewParser(data []byte, opts ...Option) (*Parser, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Parser{data: data, engine: cfg.engine, frames: make([]frame, 0, 8)}, nil
}

// Depth returns the number of entered containers.
func (p *Parser) Depth() int {
	return len(p.frames)
}

// Offset returns the current read offset.
func (p *Parser) Offset() int {
	return p.off
}

// State saves the current position.
func (p *Parser) State() State {
	return State{off: p.off, frames: slices.Clone(p.frames)}
}

// Reset restores a saved position. Containers entered after the state was
// saved are left; containers left since then cannot be restored.
func (p *Parser) Reset(s State) error {
	depth := len(s.frames)
	if depth > len(p.frames) {
		return fmt.Errorf("%w: reset to depth %d from depth %d", errs.ErrInvalidFrame, depth, len(p.frames))
	}
	for i := range depth {
		if p.frames[i].start != s.frames[i].start {
			return fmt.Errorf("%w: container at offset %d was left", errs.ErrInvalidFrame, s.frames[i].start)
		}
	}

	p.off = s.off
	p.frames = append(p.frames[:0], s.frames...)

	return nil
}

func (p *Parser) region() (int, int) {
	if n := len(p.frames); n > 0 {
		return p.frames[n-1].start, p.frames[n-1].end
	}

	return 0, len(p.data)
}

func (p *Parser) top() *frame {
	if n := len(p.frames); n > 0 {
		return &p.frames[n-1]
	}

	return nil
}

// current validates the value at the read offset without consuming it.
// It returns io.EOF when the enclosing region is exhausted.
func (p *Parser) current() (Pod, int, error) {
	if f := p.top(); f != nil && (f.typ == format.TypeObject || f.typ == format.TypeSequence) && !f.pending {
		return Pod{}, 0, fmt.Errorf("%w: %s value read before its key", errs.ErrInvalidFrame, f.typ)
	}

	start, end := p.region()
	if p.off >= end {
		return Pod{}, 0, io.EOF
	}

	h, body, err := wire.Locate(p.engine, p.data, start, p.off, end)
	if err != nil {
		return Pod{}, 0, err
	}

	pod := Pod{typ: h.Type, body: p.data[body : body+int(h.Size)], engine: p.engine}

	return pod, wire.Next(h, p.off, end), nil
}

func (p *Parser) consume(next int) {
	p.off = next
	if f := p.top(); f != nil {
		f.pending = false
	}
}

// Peek returns the current value without consuming it.
func (p *Parser) Peek() (Pod, error) {
	pod, _, err := p.current()
	return pod, err
}

// Next returns the current value and advances past it.
// It returns io.EOF at the end of the enclosing container.
func (p *Parser) Next() (Pod, error) {
	pod, next, err := p.current()
	if err != nil {
		return Pod{}, err
	}
	p.consume(next)

	return pod, nil
}

// header reads the 8-byte property or control header at the read offset.
func (p *Parser) header(t format.Type) (uint32, uint32, error) {
	f := p.top()
	if f == nil || f.typ != t {
		return 0, 0, fmt.Errorf("%w: not inside %s", errs.ErrInvalidFrame, t)
	}
	if f.pending {
		return 0, 0, fmt.Errorf("%w: %s key read twice", errs.ErrInvalidFrame, t)
	}
	if p.off >= f.end {
		return 0, 0, io.EOF
	}
	if f.end-p.off < wire.PropHeaderSize+wire.HeaderSize {
		return 0, 0, fmt.Errorf("%w: %s entry at %d", errs.ErrTruncated, t, p.off)
	}

	a := p.engine.Uint32(p.data[p.off : p.off+4])
	b := p.engine.Uint32(p.data[p.off+4 : p.off+8])
	p.off += wire.PropHeaderSize
	f.pending = true

	return a, b, nil
}

// Prop reads the next property header of the current object.
// The property value is read next. It returns io.EOF after the last property.
func (p *Parser) Prop() (uint32, format.PropFlags, error) {
	key, flags, err := p.header(format.TypeObject)
	return key, format.PropFlags(flags), err
}

// Control reads the next control header of the current sequence.
// The control value is read next. It returns io.EOF after the last control.
func (p *Parser) Control() (uint32, format.ControlType, error) {
	offset, typ, err := p.header(format.TypeSequence)
	return offset, format.ControlType(typ), err
}

// NextProp reads the next property with its value.
func (p *Parser) NextProp() (Prop, error) {
	s := p.State()
	key, flags, err := p.Prop()
	if err != nil {
		return Prop{}, err
	}
	v, err := p.Next()
	if err != nil {
		_ = p.Reset(s)
		return Prop{}, err
	}

	return Prop{Key: key, Flags: flags, Value: v}, nil
}

// NextControl reads the next control with its value.
func (p *Parser) NextControl() (Control, error) {
	s := p.State()
	offset, typ, err := p.Control()
	if err != nil {
		return Control{}, err
	}
	v, err := p.Next()
	if err != nil {
		_ = p.Reset(s)
		return Control{}, err
	}

	return Control{Offset: offset, Type: typ, Value: v}, nil
}

func (p *Parser) push(t format.Type, prefix int) (Pod, error) {
	pod, next, err := p.current()
	if err != nil {
		return Pod{}, err
	}
	if err := pod.expect(t); err != nil {
		return Pod{}, err
	}
	if len(pod.body) < prefix {
		return Pod{}, fmt.Errorf("%w: %s body of %d bytes", errs.ErrTruncated, t, len(pod.body))
	}

	start := p.off + wire.HeaderSize
	if f := p.top(); f != nil {
		f.pending = false
	}
	p.frames = append(p.frames, frame{typ: t, start: start, end: start + len(pod.body), after: next})
	p.off = start + prefix

	return pod, nil
}

// PushStruct enters the current value, which must be a Struct.
func (p *Parser) PushStruct() error {
	_, err := p.push(format.TypeStruct, 0)
	return err
}

// PushObject enters the current value, which must be an Object, and returns
// its object type and id.
func (p *Parser) PushObject() (format.Type, uint32, error) {
	pod, err := p.push(format.TypeObject, wire.ObjectPrefixSize)
	if err != nil {
		return 0, 0, err
	}

	return format.Type(p.engine.Uint32(pod.body[0:4])), p.engine.Uint32(pod.body[4:8]), nil
}

// PushSequence enters the current value, which must be a Sequence, and
// returns its unit.
func (p *Parser) PushSequence() (uint32, error) {
	pod, err := p.push(format.TypeSequence, wire.SequencePrefixSize)
	if err != nil {
		return 0, err
	}

	return p.engine.Uint32(pod.body[0:4]), nil
}

// Pop leaves the current container. It fails with errs.ErrTruncated when
// declared bytes were not consumed and errs.ErrOverrun when more bytes were
// consumed than declared.
func (p *Parser) Pop() error {
	f := p.top()
	if f == nil {
		return fmt.Errorf("%w: pop with no entered container", errs.ErrInvalidFrame)
	}
	switch {
	case f.pending:
		return fmt.Errorf("%w: %s left with an unread value", errs.ErrInvalidFrame, f.typ)
	case p.off < f.end:
		return fmt.Errorf("%w: %s left with %d unread bytes", errs.ErrTruncated, f.typ, f.end-p.off)
	case p.off > f.end:
		return fmt.Errorf("%w: %s read %d bytes past its end", errs.ErrOverrun, f.typ, p.off-f.end)
	}

	p.off = f.after
	p.frames = p.frames[:len(p.frames)-1]

	return nil
}

// GetPod returns the current value of type t and advances past it.
func (p *Parser) GetPod(t format.Type) (Pod, error) {
	pod, next, err := p.current()
	if err != nil {
		return Pod{}, err
	}
	if err := pod.expect(t); err != nil {
		return Pod{}, err
	}
	p.consume(next)

	return pod, nil
}

func get[T any](p *Parser, fn func(Pod) (T, error)) (T, error) {
	var zero T

	pod, next, err := p.current()
	if err != nil {
		return zero, err
	}
	v, err := fn(pod)
	if err != nil {
		return zero, err
	}
	p.consume(next)

	return v, nil
}

// GetBool reads a Bool.
func (p *Parser) GetBool() (bool, error) { return get(p, Pod.Bool) }

// GetID reads an Id.
func (p *Parser) GetID() (uint32, error) { return get(p, Pod.ID) }

// GetInt reads an Int.
func (p *Parser) GetInt() (int32, error) { return get(p, Pod.Int) }

// GetLong reads a Long.
func (p *Parser) GetLong() (int64, error) { return get(p, Pod.Long) }

// GetFloat reads a Float.
func (p *Parser) GetFloat() (float32, error) { return get(p, Pod.Float) }

// GetDouble reads a Double.
func (p *Parser) GetDouble() (float64, error) { return get(p, Pod.Double) }

// GetFd reads an Fd.
func (p *Parser) GetFd() (int64, error) { return get(p, Pod.Fd) }

// GetString reads a String.
func (p *Parser) GetString() (string, error) { return get(p, Pod.StringValue) }

// GetBytes reads a Bytes value.
func (p *Parser) GetBytes() ([]byte, error) { return get(p, Pod.Bytes) }

// GetRectangle reads a Rectangle.
func (p *Parser) GetRectangle() (value.Rectangle, error) {
	return get(p, Pod.Rectangle)
}

// GetFraction reads a Fraction.
func (p *Parser) GetFraction() (value.Fraction, error) {
	return get(p, Pod.Fraction)
}

// GetPointer reads a Pointer.
func (p *Parser) GetPointer() (value.Pointer, error) {
	return get(p, Pod.Pointer)
}
