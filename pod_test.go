package pod

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/pod/endian"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/value"
)

func rateFormat(rate value.Value) value.Object {
	return value.Object{
		ObjectType: format.TypeObjectFormat,
		ID:         uint32(format.ParamEnumFormat),
		Props: []value.Prop{
			{Key: uint32(format.FormatMediaType), Value: value.ID(format.MediaAudio)},
			{Key: uint32(format.FormatAudioRate), Value: rate},
		},
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	values := []value.Value{
		value.Int(7),
		value.String("pod"),
		value.NewStep(value.Int(16), value.Int(0), value.Int(64), value.Int(16)),
		rateFormat(value.NewRange(value.Int(48000), value.Int(8000), value.Int(192000))),
	}

	for _, engine := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		for _, v := range values {
			data, err := Marshal(v, WithByteOrder(engine))
			require.NoError(t, err)
			require.Zero(t, len(data)%8)

			got, err := Unmarshal(data, WithByteOrder(engine))
			require.NoError(t, err)
			require.Equal(t, v, got)
		}
	}

	_, err := Marshal(nil)
	require.ErrorIs(t, err, errs.ErrMalformed)

	_, err = Marshal(value.Int(1), WithByteOrder(nil))
	require.ErrorIs(t, err, errs.ErrInvalidOption)

	_, err = Unmarshal([]byte{8, 0, 0, 0})
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestFilter(t *testing.T) {
	mustMarshal := func(v value.Value) []byte {
		data, err := Marshal(v)
		require.NoError(t, err)
		return data
	}

	request := mustMarshal(value.NewRange(value.Int(1), value.Int(1), value.Int(10)))
	offer := mustMarshal(value.NewRange(value.Int(5), value.Int(5), value.Int(20)))

	common, err := Filter(request, offer)
	require.NoError(t, err)
	got, err := Unmarshal(common)
	require.NoError(t, err)
	require.Equal(t, value.NewRange(value.Int(5), value.Int(5), value.Int(10)), got)

	touching, err := Filter(request, mustMarshal(value.NewRange(value.Int(10), value.Int(10), value.Int(20))))
	require.NoError(t, err)
	got, err = Unmarshal(touching)
	require.NoError(t, err)
	require.Equal(t, value.NewRange(value.Int(10), value.Int(10), value.Int(10)), got, "shared bound")

	low := mustMarshal(value.NewRange(value.Int(1), value.Int(1), value.Int(5)))
	_, err = Filter(low, mustMarshal(value.NewRange(value.Int(10), value.Int(10), value.Int(20))))
	require.ErrorIs(t, err, errs.ErrNoCommonValue)

	same, err := Filter(request, nil)
	require.NoError(t, err)
	require.Equal(t, request, same)
}

func TestFixate(t *testing.T) {
	choice, err := Marshal(value.NewRange(value.Int(48000), value.Int(8000), value.Int(192000)))
	require.NoError(t, err)

	fixed, err := Fixate(choice)
	require.NoError(t, err)
	require.Len(t, fixed, 16)
	got, err := Unmarshal(fixed)
	require.NoError(t, err)
	require.Equal(t, value.Int(48000), got)

	obj, err := Marshal(rateFormat(value.NewRange(value.Int(4000), value.Int(8000), value.Int(192000))))
	require.NoError(t, err)
	fixed, err = Fixate(obj)
	require.NoError(t, err)
	require.Len(t, fixed, len(obj))
	got, err = Unmarshal(fixed)
	require.NoError(t, err)
	require.Equal(t, rateFormat(value.Choice{
		Kind:   format.ChoiceNone,
		Values: []value.Value{value.Int(8000), value.Int(8000), value.Int(192000)},
	}), got, "the default is clamped and the layout kept")

	plain, err := Marshal(value.Int(3))
	require.NoError(t, err)
	fixed, err = Fixate(plain)
	require.NoError(t, err)
	require.Equal(t, plain, fixed)
}

func TestEqualAndHash(t *testing.T) {
	a, err := Marshal(value.Struct{value.Int(1), value.String("a")})
	require.NoError(t, err)
	b, err := Marshal(value.Struct{value.Int(1), value.String("a")})
	require.NoError(t, err)
	c, err := Marshal(value.Struct{value.Int(1), value.String("b")})
	require.NoError(t, err)

	eq, err := Equal(a, b)
	require.NoError(t, err)
	require.True(t, eq)
	eq, err = Equal(a, c)
	require.NoError(t, err)
	require.False(t, eq)

	ha, err := Hash(a)
	require.NoError(t, err)
	hb, err := Hash(b)
	require.NoError(t, err)
	require.Equal(t, ha, hb)

	_, err = Equal(a, nil)
	require.ErrorIs(t, err, errs.ErrTruncated)
	_, err = Hash(nil)
	require.ErrorIs(t, err, errs.ErrTruncated)
}
