// Package archive stores lists of values in a single checksummed,
// optionally compressed buffer.
//
// An archive is a section.Header followed by the padded values back to back:
//
//	enc, _ := archive.NewEncoder(archive.WithCompression(format.CompressionZstd))
//	defer enc.Release()
//	_ = enc.Add(pod)
//	data, _ := enc.Finish()
//
//	for pod, err := range archive.Decode(data) {
//		...
//	}
package archive

import (
	"fmt"
	"hash/crc32"
	"math"

	"github.com/arloliu/pod/compress"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/internal/pool"
	"github.com/arloliu/pod/parser"
	"github.com/arloliu/pod/section"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Encoder collects values into an archive.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	cfg     *Config
	payload *pool.ByteBuffer
	count   uint32
	stats   compress.Stats
}

// NewEncoder creates an empty encoder. Call Release when done to return its
// buffer to the pool.
func NewEncoder(opts ...Option) (*Encoder, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Encoder{cfg: cfg, payload: pool.GetArchiveBuffer()}, nil
}

// Add appends a copy of p. p must use the encoder byte order.
func (e *Encoder) Add(p parser.Pod) error {
	if e.payload == nil {
		return fmt.Errorf("%w: encoder released", errs.ErrInvalidFrame)
	}
	if !p.IsValid() {
		return fmt.Errorf("%w: zero value", errs.ErrMalformed)
	}
	if p.Engine() != e.cfg.engine {
		return fmt.Errorf("%w: adding %s across byte orders", errs.ErrMalformed, p.Type())
	}
	if e.count == math.MaxUint32 {
		return fmt.Errorf("%w: archive value count", errs.ErrOverflow)
	}

	size := e.payload.Len() + p.PaddedSize()
	if uint64(size) > math.MaxUint32 || (e.cfg.maxSize > 0 && size > e.cfg.maxSize) {
		return fmt.Errorf("%w: archive payload of %d bytes", errs.ErrOverflow, size)
	}

	start := e.payload.Len()
	e.payload.ExtendOrGrow(p.PaddedSize())
	p.AppendTo(e.payload.B[start:start])
	e.count++

	return nil
}

// AddBytes parses data as a single value and adds it.
func (e *Encoder) AddBytes(data []byte) error {
	p, err := parser.Parse(data, parser.WithByteOrder(e.cfg.engine))
	if err != nil {
		return err
	}

	return e.Add(p)
}

// Count returns the number of values added.
func (e *Encoder) Count() int {
	return int(e.count)
}

// Finish compresses the payload and returns the complete archive. The
// encoder keeps its values, so more may be added and Finish called again.
func (e *Encoder) Finish() ([]byte, error) {
	if e.payload == nil {
		return nil, fmt.Errorf("%w: encoder released", errs.ErrInvalidFrame)
	}

	raw := e.payload.Bytes()
	stored, stats, err := compress.Compress(e.cfg.compression, raw)
	if err != nil {
		return nil, err
	}
	if uint64(len(stored)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: compressed payload of %d bytes", errs.ErrOverflow, len(stored))
	}
	e.stats = stats

	h := section.NewHeader()
	h.Flag.SetEngine(e.cfg.engine)
	h.Flag.Compression = e.cfg.compression
	h.Count = e.count
	h.PayloadLength = uint32(len(stored)) //nolint: gosec
	h.UncompressedLength = uint32(len(raw)) //nolint: gosec
	h.Checksum = crc32.Checksum(stored, castagnoli)

	out := make([]byte, 0, section.HeaderSize+len(stored))
	out = h.AppendTo(out)
	out = append(out, stored...)

	e.cfg.logger.Debug().
		Uint32("count", e.count).
		Stringer("compression", e.cfg.compression).
		Int64("raw_bytes", stats.OriginalSize).
		Int64("stored_bytes", stats.CompressedSize).
		Dur("took", stats.Duration).
		Msg("archive finished")

	return out, nil
}

// Stats returns the compression report of the last Finish.
func (e *Encoder) Stats() compress.Stats {
	return e.stats
}

// Reset drops all added values.
func (e *Encoder) Reset() {
	if e.payload != nil {
		e.payload.Reset()
	}
	e.count = 0
	e.stats = compress.Stats{}
}

// Release returns the encoder buffer to the pool. The encoder must not be
// used afterwards.
func (e *Encoder) Release() {
	if e.payload != nil {
		pool.PutArchiveBuffer(e.payload)
		e.payload = nil
	}
}
