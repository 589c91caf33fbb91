// Package hash provides the xxHash64 primitives used to fingerprint values.
package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Digest is a streaming xxHash64 with fixed-width integer writers.
// Integers are written little-endian so fingerprints do not depend on the
// byte order of the hashed buffer.
type Digest struct {
	d   *xxhash.Digest
	buf [8]byte
}

// New returns an empty digest.
func New() *Digest {
	return &Digest{d: xxhash.New()}
}

// Reset clears the digest.
func (h *Digest) Reset() {
	h.d.Reset()
}

// Write adds raw bytes.
func (h *Digest) Write(p []byte) {
	_, _ = h.d.Write(p)
}

// WriteUint32 adds a 32-bit integer.
func (h *Digest) WriteUint32(v uint32) {
	binary.LittleEndian.PutUint32(h.buf[:4], v)
	_, _ = h.d.Write(h.buf[:4])
}

// WriteUint64 adds a 64-bit integer.
func (h *Digest) WriteUint64(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	_, _ = h.d.Write(h.buf[:])
}

// Sum64 returns the current hash.
func (h *Digest) Sum64() uint64 {
	return h.d.Sum64()
}
