// Package wire holds the fixed layout rules shared by the builder and the
// parser: the 8-byte value header, padding, and the bounds check applied to
// every child before any of its content is read.
package wire

import (
	"fmt"

	"github.com/arloliu/pod/endian"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
)

const (
	// HeaderSize is the size of a value header: body size (uint32) followed by type id (uint32).
	HeaderSize = 8
	// Alignment is the boundary every full value is padded to.
	Alignment = 8

	// ChildHeaderSize is the (size, type) header shared by the packed children of arrays and choices.
	ChildHeaderSize = 8
	// ChoicePrefixSize is the choice kind and flags preceding the child header.
	ChoicePrefixSize = 8
	// ObjectPrefixSize is the object type and id preceding the properties.
	ObjectPrefixSize = 8
	// SequencePrefixSize is the unit and padding preceding the controls.
	SequencePrefixSize = 8
	// PropHeaderSize is the key and flags preceding a property value.
	PropHeaderSize = 8
	// ControlHeaderSize is the offset and type preceding a control value.
	ControlHeaderSize = 8
)

// Header is a decoded value header.
type Header struct {
	Size uint32      // body size, excluding header and padding
	Type format.Type // type id
}

// Pad rounds n up to the next multiple of Alignment.
func Pad(n int) int {
	return (n + Alignment - 1) &^ (Alignment - 1)
}

// PaddedSize returns the number of bytes a value with this header occupies,
// header and trailing padding included.
func (h Header) PaddedSize() int {
	return HeaderSize + Pad(int(h.Size))
}

// PutHeader writes h into dst[0:8].
func PutHeader(engine endian.EndianEngine, dst []byte, h Header) {
	engine.PutUint32(dst[0:4], h.Size)
	engine.PutUint32(dst[4:8], uint32(h.Type))
}

// ReadHeader decodes the header at data[off:off+8].
func ReadHeader(engine endian.EndianEngine, data []byte, off int) (Header, error) {
	if off < 0 || len(data)-off < HeaderSize {
		return Header{}, fmt.Errorf("%w: need %d header bytes at offset %d, have %d",
			errs.ErrTruncated, HeaderSize, off, max(len(data)-off, 0))
	}

	return Header{
		Size: engine.Uint32(data[off : off+4]),
		Type: format.Type(engine.Uint32(data[off+4 : off+8])),
	}, nil
}

// Locate validates the child value whose header starts at off inside the
// parent region data[start:end] and returns its header and body bounds.
//
// The child must start on an aligned offset relative to start, and both the
// header and the full declared body must lie inside the region. The declared
// size is checked against the region before anything else is read, so a
// hostile size can never cause a read past end.
//
// Parameters:
//   - engine: byte order of the buffer
//   - data: buffer holding the parent
//   - start: first byte of the parent region (alignment origin)
//   - off: offset of the child header
//   - end: one past the last byte of the parent region
//
// Returns:
//   - Header: the child header
//   - int: offset of the child body
//   - error: ErrTruncated if the child does not fit, ErrMalformed if misaligned
func Locate(engine endian.EndianEngine, data []byte, start, off, end int) (Header, int, error) {
	if end > len(data) || start < 0 || start > end {
		return Header{}, 0, fmt.Errorf("%w: region [%d,%d) outside buffer of %d bytes",
			errs.ErrTruncated, start, end, len(data))
	}
	if off < start || off > end {
		return Header{}, 0, fmt.Errorf("%w: child offset %d outside region [%d,%d)",
			errs.ErrOverrun, off, start, end)
	}
	if (off-start)%Alignment != 0 {
		return Header{}, 0, fmt.Errorf("%w: child at offset %d is not %d-byte aligned",
			errs.ErrMalformed, off, Alignment)
	}

	h, err := ReadHeader(engine, data[:end], off)
	if err != nil {
		return Header{}, 0, err
	}

	body := off + HeaderSize
	if uint64(h.Size) > uint64(end-body) {
		return Header{}, 0, fmt.Errorf("%w: %s declares %d bytes, %d available",
			errs.ErrTruncated, h.Type, h.Size, end-body)
	}

	return h, body, nil
}

// Next returns the offset following a value at off with header h, clamped
// to end. The last child of a region may omit its trailing padding.
func Next(h Header, off, end int) int {
	return min(off+h.PaddedSize(), end)
}
