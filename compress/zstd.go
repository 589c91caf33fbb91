package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Encoders and decoders are expensive to create and allocation free once
// warmed up, so they are pooled. EncodeAll and DecodeAll keep no state
// between calls.
var (
	zstdEncoderPool = sync.Pool{
		New: func() any {
			enc, err := zstd.NewWriter(nil,
				zstd.WithEncoderLevel(zstd.SpeedDefault),
				zstd.WithEncoderCRC(false), // the archive header carries a checksum
			)
			if err != nil {
				panic(fmt.Sprintf("compress: zstd encoder: %v", err))
			}

			return enc
		},
	}

	zstdDecoderPool = sync.Pool{
		New: func() any {
			dec, err := zstd.NewReader(nil,
				zstd.WithDecoderConcurrency(1),
				zstd.WithDecoderLowmem(false),
			)
			if err != nil {
				panic(fmt.Sprintf("compress: zstd decoder: %v", err))
			}

			return dec
		},
	}
)

// ZstdCompressor is the Zstandard codec.
type ZstdCompressor struct{}

var _ Codec = ZstdCompressor{}

// NewZstdCompressor returns a Zstandard codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// Compress implements Compressor.
func (ZstdCompressor) Compress(data []byte) ([]byte, error) {
	enc, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(enc)

	return enc.EncodeAll(data, nil), nil
}

// Decompress implements Decompressor.
func (ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dec, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}

	return out, nil
}
