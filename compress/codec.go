package compress

import (
	"fmt"
	"time"

	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
)

// Compressor compresses a whole payload. The returned slice is owned by the
// caller; the input is not modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same algorithm. Corrupted input
// or input from another algorithm is reported as an error.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// Stats describes one compression run.
type Stats struct {
	Algorithm      format.CompressionType
	OriginalSize   int64
	CompressedSize int64
	Duration       time.Duration
}

// Ratio returns compressed size over original size, 0 for an empty input.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved share of the original size in percent.
func (s Stats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0
	}

	return (1 - s.Ratio()) * 100
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the shared codec for compressionType.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %d", errs.ErrInvalidCompression, uint8(compressionType))
}

// Compress compresses data with the codec for compressionType and reports
// the run.
func Compress(compressionType format.CompressionType, data []byte) ([]byte, Stats, error) {
	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, Stats{}, err
	}

	start := time.Now()
	out, err := codec.Compress(data)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%s compression: %w", compressionType, err)
	}

	return out, Stats{
		Algorithm:      compressionType,
		OriginalSize:   int64(len(data)),
		CompressedSize: int64(len(out)),
		Duration:       time.Since(start),
	}, nil
}
