// Package compress provides the payload codecs of POD archives.
//
// Every codec works on whole buffers:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	packed, err := codec.Compress(payload)
//	payload, err = codec.Decompress(packed)
//
// Supported algorithms:
//   - None: payload stored as is
//   - Zstd: best ratio, klauspost/compress/zstd with pooled encoders and decoders
//   - S2: fast Snappy-compatible block format
//   - LZ4: block format with the fastest decompression
//
// Value trees are mostly small integers, ids and padding, so all codecs
// shrink them well; Zstd is the usual choice for files, S2 or LZ4 for
// payloads compressed on a hot path.
//
// Codecs returned by GetCodec are shared and safe for concurrent use.
package compress
