package section

import (
	"fmt"

	"github.com/arloliu/pod/endian"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
)

// Flag is the packed first word of the archive header.
type Flag struct {
	// Magic identifies the layout version. It is stored little-endian.
	Magic uint16
	// Options is a bit field. Bit 0 selects big-endian fields and values;
	// the other bits are reserved and must be zero.
	Options uint8
	// Compression is the codec applied to the payload.
	Compression format.CompressionType
}

// NewFlag returns a flag for an uncompressed archive in host byte order.
func NewFlag() Flag {
	f := Flag{Magic: MagicV1, Compression: format.CompressionNone}
	f.SetEngine(endian.GetNativeEngine())

	return f
}

// IsBigEndian reports whether the archive fields and values are big-endian.
func (f Flag) IsBigEndian() bool {
	return f.Options&EndiannessMask != 0
}

// SetEngine records the byte order of engine.
func (f *Flag) SetEngine(engine endian.EndianEngine) {
	if endian.IsLittleEndian(engine) {
		f.Options &^= EndiannessMask
	} else {
		f.Options |= EndiannessMask
	}
}

// Engine returns the byte order recorded in the flag.
func (f Flag) Engine() endian.EndianEngine {
	if f.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// Validate checks the magic number, the reserved bits and the codec.
func (f Flag) Validate() error {
	if f.Magic != MagicV1 {
		return fmt.Errorf("%w: %#04x", errs.ErrInvalidMagic, f.Magic)
	}
	if f.Options&ReservedMask != 0 {
		return fmt.Errorf("%w: reserved option bits %#02x", errs.ErrInvalidMagic, f.Options&ReservedMask)
	}

	switch f.Compression {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
		return nil
	default:
		return fmt.Errorf("%w: %d", errs.ErrInvalidCompression, uint8(f.Compression))
	}
}
