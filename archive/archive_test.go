package archive_test

import (
	"bytes"
	"hash/crc32"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/pod/archive"
	"github.com/arloliu/pod/builder"
	"github.com/arloliu/pod/endian"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/parser"
	"github.com/arloliu/pod/section"
	"github.com/arloliu/pod/value"
)

func sampleValues() []value.Value {
	return []value.Value{
		value.Int(42),
		value.String("hello"),
		value.NewRange(value.Int(48000), value.Int(8000), value.Int(192000)),
		value.Struct{value.ID(1), value.Double(0.5), value.Bytes{1, 2, 3}},
		value.Object{
			ObjectType: format.TypeObjectFormat,
			ID:         uint32(format.ParamEnumFormat),
			Props: []value.Prop{
				{Key: uint32(format.FormatMediaType), Value: value.ID(format.MediaAudio)},
				{Key: uint32(format.FormatMediaSubtype), Value: value.ID(format.SubtypeRaw)},
			},
		},
		value.None{},
	}
}

func pods(t *testing.T, engine endian.EndianEngine, values []value.Value) []parser.Pod {
	t.Helper()

	out := make([]parser.Pod, len(values))
	for i, v := range values {
		b := builder.New(make([]byte, 512), builder.WithByteOrder(engine))
		require.NoError(t, b.Encode(v))
		data, err := b.Finish()
		require.NoError(t, err)
		out[i], err = parser.Parse(data, parser.WithByteOrder(engine))
		require.NoError(t, err)
	}

	return out
}

func encode(t *testing.T, in []parser.Pod, opts ...archive.Option) []byte {
	t.Helper()

	enc, err := archive.NewEncoder(opts...)
	require.NoError(t, err)
	defer enc.Release()

	for _, p := range in {
		require.NoError(t, enc.Add(p))
	}
	require.Equal(t, len(in), enc.Count())

	data, err := enc.Finish()
	require.NoError(t, err)

	return data
}

func TestArchive_RoundTrip(t *testing.T) {
	engines := map[string]endian.EndianEngine{
		"little": endian.GetLittleEndianEngine(),
		"big":    endian.GetBigEndianEngine(),
	}
	compressions := []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	}

	for name, engine := range engines {
		for _, c := range compressions {
			t.Run(name+"/"+c.String(), func(t *testing.T) {
				in := pods(t, engine, sampleValues())
				data := encode(t, in, archive.WithByteOrder(engine), archive.WithCompression(c))

				h, err := archive.ReadHeader(data)
				require.NoError(t, err)
				require.Equal(t, c, h.Flag.Compression)
				require.Equal(t, uint32(len(in)), h.Count)
				require.Equal(t, !endian.IsLittleEndian(engine), h.Flag.IsBigEndian())

				out, err := archive.DecodeAll(data)
				require.NoError(t, err)
				require.Len(t, out, len(in))
				for i := range in {
					require.Equal(t, in[i].AppendTo(nil), out[i].AppendTo(nil))
					want, err := in[i].Value()
					require.NoError(t, err)
					got, err := out[i].Value()
					require.NoError(t, err)
					require.Equal(t, want, got)
				}
			})
		}
	}
}

func TestArchive_Empty(t *testing.T) {
	data := encode(t, nil)
	require.Len(t, data, section.HeaderSize)

	out, err := archive.DecodeAll(data)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestArchive_Compresses(t *testing.T) {
	var in []value.Value
	for i := range 200 {
		in = append(in, value.NewRange(value.Int(int32(i)), value.Int(0), value.Int(1000)))
	}
	all := pods(t, endian.GetNativeEngine(), in)

	enc, err := archive.NewEncoder(archive.WithCompression(format.CompressionZstd))
	require.NoError(t, err)
	defer enc.Release()
	for _, p := range all {
		require.NoError(t, enc.Add(p))
	}
	packed, err := enc.Finish()
	require.NoError(t, err)

	stats := enc.Stats()
	require.Equal(t, format.CompressionZstd, stats.Algorithm)
	require.Less(t, stats.CompressedSize, stats.OriginalSize)
	require.Equal(t, section.HeaderSize+int(stats.CompressedSize), len(packed))

	plain := encode(t, all)
	require.Less(t, len(packed), len(plain))
}

func TestArchive_EarlyBreak(t *testing.T) {
	data := encode(t, pods(t, endian.GetNativeEngine(), sampleValues()))

	n := 0
	for _, err := range archive.Decode(data) {
		require.NoError(t, err)
		n++
		if n == 2 {
			break
		}
	}
	require.Equal(t, 2, n)
}

func TestEncoder_Errors(t *testing.T) {
	native := endian.GetNativeEngine()
	other := endian.GetBigEndianEngine()
	if !endian.IsLittleEndian(native) {
		other = endian.GetLittleEndianEngine()
	}

	enc, err := archive.NewEncoder()
	require.NoError(t, err)

	require.ErrorIs(t, enc.Add(parser.Pod{}), errs.ErrMalformed)
	require.ErrorIs(t, enc.Add(pods(t, other, []value.Value{value.Int(1)})[0]), errs.ErrMalformed)
	require.ErrorIs(t, enc.AddBytes([]byte{1, 2, 3}), errs.ErrTruncated)
	require.Zero(t, enc.Count())

	enc.Release()
	require.ErrorIs(t, enc.Add(pods(t, native, []value.Value{value.Int(1)})[0]), errs.ErrInvalidFrame)
	_, err = enc.Finish()
	require.ErrorIs(t, err, errs.ErrInvalidFrame)

	limited, err := archive.NewEncoder(archive.WithMaxSize(16))
	require.NoError(t, err)
	defer limited.Release()
	one := pods(t, native, []value.Value{value.Int(1)})[0]
	require.NoError(t, limited.Add(one))
	require.ErrorIs(t, limited.Add(one), errs.ErrOverflow)
	limited.Reset()
	require.Zero(t, limited.Count())
	require.NoError(t, limited.Add(one))

	_, err = archive.NewEncoder(archive.WithCompression(format.CompressionType(7)))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
	_, err = archive.NewEncoder(archive.WithByteOrder(nil))
	require.ErrorIs(t, err, errs.ErrInvalidOption)
	_, err = archive.NewEncoder(archive.WithMaxSize(-1))
	require.ErrorIs(t, err, errs.ErrInvalidOption)
}

func TestEncoder_AddBytesAndLogs(t *testing.T) {
	logs := &bytes.Buffer{}
	enc, err := archive.NewEncoder(archive.WithLogger(zerolog.New(logs).Level(zerolog.DebugLevel)))
	require.NoError(t, err)
	defer enc.Release()

	one := pods(t, endian.GetNativeEngine(), []value.Value{value.String("x")})[0]
	require.NoError(t, enc.AddBytes(one.AppendTo(nil)))
	_, err = enc.Finish()
	require.NoError(t, err)
	require.Contains(t, logs.String(), "archive finished")
	require.Contains(t, logs.String(), `"count":1`)
}

func TestDecode_Errors(t *testing.T) {
	valid := func() []byte {
		return encode(t, pods(t, endian.GetNativeEngine(), sampleValues()))
	}
	first := func(data []byte, opts ...archive.Option) error {
		for _, err := range archive.Decode(data, opts...) {
			if err != nil {
				return err
			}
		}

		return nil
	}

	require.ErrorIs(t, first(nil), errs.ErrInvalidHeaderSize)

	data := valid()
	data[0] ^= 0xff
	require.ErrorIs(t, first(data), errs.ErrInvalidMagic)

	data = valid()
	require.ErrorIs(t, first(data[:len(data)-8]), errs.ErrTruncated)

	data = valid()
	data[section.HeaderSize+4] ^= 0x01
	require.ErrorIs(t, first(data), errs.ErrChecksumMismatch)

	require.ErrorIs(t, first(valid(), archive.WithMaxSize(8)), errs.ErrOverflow)
}

func TestDecode_CountMismatch(t *testing.T) {
	data := encode(t, pods(t, endian.GetLittleEndianEngine(), sampleValues()),
		archive.WithByteOrder(endian.GetLittleEndianEngine()))

	h, err := section.ParseHeader(data)
	require.NoError(t, err)
	h.Count++
	copy(data, h.Bytes())

	var got int
	var last error
	for _, err := range archive.Decode(data) {
		if err != nil {
			last = err
			break
		}
		got++
	}
	require.Equal(t, len(sampleValues()), got)
	require.ErrorIs(t, last, errs.ErrMalformed)
}

func TestDecode_CorruptValue(t *testing.T) {
	le := endian.GetLittleEndianEngine()
	in := pods(t, le, []value.Value{value.Int(1)})
	payload := in[0].AppendTo(nil)
	// declare a body that runs past the payload
	le.PutUint32(payload[0:4], 64)

	h := section.NewHeader()
	h.Flag.SetEngine(le)
	h.Count = 1
	h.PayloadLength = uint32(len(payload))
	h.UncompressedLength = uint32(len(payload))
	h.Checksum = checksum(payload)
	data := append(h.Bytes(), payload...)

	_, err := archive.DecodeAll(data)
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func checksum(b []byte) uint32 {
	return crc32.Checksum(b, crc32.MakeTable(crc32.Castagnoli))
}

func TestArchive_GrowsPastPooledBuffer(t *testing.T) {
	blob := bytes.Repeat([]byte{0xab}, 600*1024)
	b := builder.New(make([]byte, len(blob)+64))
	require.NoError(t, b.Encode(value.Bytes(blob)))
	data, err := b.Finish()
	require.NoError(t, err)
	p, err := parser.Parse(data)
	require.NoError(t, err)

	in := []parser.Pod{p, p, p}
	got, err := archive.DecodeAll(encode(t, in))
	require.NoError(t, err)
	require.Len(t, got, len(in))
	for _, g := range got {
		body, err := g.Bytes()
		require.NoError(t, err)
		require.Equal(t, blob, body)
	}
}
