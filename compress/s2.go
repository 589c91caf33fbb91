package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Compressor is the S2 block codec.
type S2Compressor struct{}

var _ Codec = S2Compressor{}

// NewS2Compressor returns an S2 codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress implements Compressor.
func (S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress implements Decompressor.
func (S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("s2: %w", err)
	}

	return out, nil
}
