package archive

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"iter"

	"github.com/arloliu/pod/compress"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/parser"
	"github.com/arloliu/pod/section"
)

// ReadHeader parses and validates the archive header of data, including the
// declared payload bounds and checksum.
func ReadHeader(data []byte) (section.Header, error) {
	h, err := section.ParseHeader(data)
	if err != nil {
		return section.Header{}, err
	}

	end := section.HeaderSize + int(h.PayloadLength)
	if len(data) < end {
		return section.Header{}, fmt.Errorf("%w: payload of %d bytes, %d available",
			errs.ErrTruncated, h.PayloadLength, len(data)-section.HeaderSize)
	}
	if sum := crc32.Checksum(data[section.HeaderSize:end], castagnoli); sum != h.Checksum {
		return section.Header{}, fmt.Errorf("%w: got %#08x, header says %#08x", errs.ErrChecksumMismatch, sum, h.Checksum)
	}

	return h, nil
}

// Payload returns the uncompressed payload of an archive along with its
// header. For uncompressed archives the payload aliases data.
func Payload(data []byte, opts ...Option) ([]byte, section.Header, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, section.Header{}, err
	}

	h, err := ReadHeader(data)
	if err != nil {
		return nil, section.Header{}, err
	}
	if cfg.maxSize > 0 && int(h.UncompressedLength) > cfg.maxSize {
		return nil, section.Header{}, fmt.Errorf("%w: archive declares %d bytes, limit %d",
			errs.ErrOverflow, h.UncompressedLength, cfg.maxSize)
	}

	codec, err := compress.GetCodec(h.Flag.Compression)
	if err != nil {
		return nil, section.Header{}, err
	}
	payload, err := codec.Decompress(data[section.HeaderSize : section.HeaderSize+int(h.PayloadLength)])
	if err != nil {
		return nil, section.Header{}, fmt.Errorf("%w: %w", errs.ErrMalformed, err)
	}
	if len(payload) != int(h.UncompressedLength) {
		return nil, section.Header{}, fmt.Errorf("%w: payload of %d bytes, header says %d",
			errs.ErrMalformed, len(payload), h.UncompressedLength)
	}

	return payload, h, nil
}

// Decode yields the values stored in an archive, in the byte order recorded
// in its header. The sequence ends after the first error; a value count that
// disagrees with the header is reported as ErrMalformed after the last
// value.
func Decode(data []byte, opts ...Option) iter.Seq2[parser.Pod, error] {
	return func(yield func(parser.Pod, error) bool) {
		payload, h, err := Payload(data, opts...)
		if err != nil {
			yield(parser.Pod{}, err)
			return
		}

		p, err := parser.NewParser(payload, parser.WithByteOrder(h.Flag.Engine()))
		if err != nil {
			yield(parser.Pod{}, err)
			return
		}

		var n uint32
		for {
			pod, err := p.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				yield(parser.Pod{}, fmt.Errorf("value %d: %w", n, err))
				return
			}
			n++
			if !yield(pod, nil) {
				return
			}
		}

		if n != h.Count {
			yield(parser.Pod{}, fmt.Errorf("%w: %d values, header says %d", errs.ErrMalformed, n, h.Count))
		}
	}
}

// DecodeAll collects every value of an archive.
func DecodeAll(data []byte, opts ...Option) ([]parser.Pod, error) {
	var out []parser.Pod
	for pod, err := range Decode(data, opts...) {
		if err != nil {
			return nil, err
		}
		out = append(out, pod)
	}

	return out, nil
}
