package compress

// NoOpCompressor stores payloads uncompressed. Both directions return the
// input slice itself.
type NoOpCompressor struct{}

var _ Codec = NoOpCompressor{}

// NewNoOpCompressor returns the pass-through codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress implements Compressor.
func (NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress implements Decompressor.
func (NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
