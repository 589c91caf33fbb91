package section

import (
	"fmt"

	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
)

// Header is the fixed-size section at the start of an archive.
type Header struct {
	Flag Flag // byte offset 0-3
	// Count is the number of values in the payload.
	Count uint32 // byte offset 4-7
	// PayloadLength is the stored, possibly compressed, payload size.
	PayloadLength uint32 // byte offset 8-11
	// UncompressedLength is the payload size after decompression.
	UncompressedLength uint32 // byte offset 12-15
	// Checksum is the CRC-32C of the stored payload.
	Checksum uint32 // byte offset 16-19
}

// NewHeader returns a header with a default flag. Counts, lengths and the
// checksum are filled in when the archive is finished.
func NewHeader() *Header {
	return &Header{Flag: NewFlag()}
}

// Parse reads the header from exactly HeaderSize bytes.
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("%w: %d bytes", errs.ErrInvalidHeaderSize, len(data))
	}

	h.Flag.Magic = uint16(data[0]) | uint16(data[1])<<8
	h.Flag.Options = data[2]
	h.Flag.Compression = format.CompressionType(data[3])
	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.Engine()
	h.Count = engine.Uint32(data[4:8])
	h.PayloadLength = engine.Uint32(data[8:12])
	h.UncompressedLength = engine.Uint32(data[12:16])
	h.Checksum = engine.Uint32(data[16:20])

	for _, c := range data[20:HeaderSize] {
		if c != 0 {
			return fmt.Errorf("%w: reserved header bytes are set", errs.ErrInvalidMagic)
		}
	}

	return nil
}

// Bytes serializes the header.
func (h *Header) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, HeaderSize))
}

// AppendTo appends the serialized header to dst.
func (h *Header) AppendTo(dst []byte) []byte {
	engine := h.Flag.Engine()

	dst = append(dst, byte(h.Flag.Magic), byte(h.Flag.Magic>>8), h.Flag.Options, byte(h.Flag.Compression))
	dst = engine.AppendUint32(dst, h.Count)
	dst = engine.AppendUint32(dst, h.PayloadLength)
	dst = engine.AppendUint32(dst, h.UncompressedLength)
	dst = engine.AppendUint32(dst, h.Checksum)

	return append(dst, make([]byte, ReservedSize)...)
}

// ParseHeader parses the header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", errs.ErrInvalidHeaderSize, len(data))
	}

	var h Header
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
