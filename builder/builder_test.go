package builder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/pod/builder"
	"github.com/arloliu/pod/endian"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/parser"
	"github.com/arloliu/pod/value"
)

var le = builder.WithByteOrder(endian.GetLittleEndianEngine())

func encode(t *testing.T, v value.Value) []byte {
	t.Helper()

	b, err := builder.NewGrowable()
	require.NoError(t, err)
	t.Cleanup(b.Release)

	require.NoError(t, b.Encode(v))
	data, err := b.Finish()
	require.NoError(t, err)

	return append([]byte(nil), data...)
}

func TestBuilder_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
	}{
		{"none", value.None{}},
		{"bool", value.Bool(true)},
		{"id", value.ID(0xdeadbeef)},
		{"int", value.Int(-42)},
		{"long", value.Long(-1 << 40)},
		{"float", value.Float(1.5)},
		{"double", value.Double(-2.25)},
		{"fd", value.Fd(3)},
		{"string", value.String("hello")},
		{"empty string", value.String("")},
		{"bytes", value.Bytes{1, 2, 3, 4, 5}},
		{"bitmap", value.Bitmap{0xff, 0x00}},
		{"rectangle", value.Rectangle{Width: 1920, Height: 1080}},
		{"fraction", value.Fraction{Num: 30000, Denom: 1001}},
		{"pointer", value.Pointer{PointerType: format.TypePointerBuffer, Value: 0x1000}},
		{"empty struct", value.Struct(nil)},
		{"struct", value.Struct{value.Int(1), value.String("two"), value.Double(3)}},
		{"nested struct", value.Struct{value.Struct{value.Long(1)}, value.None{}}},
		{"array", value.Array{ChildType: format.TypeInt, Values: []value.Value{value.Int(1), value.Int(2), value.Int(3)}}},
		{"empty array", value.Array{ChildType: format.TypeLong}},
		{"range", value.NewRange(value.Int(48000), value.Int(1), value.Int(384000))},
		{"step", value.NewStep(value.Rectangle{Width: 640, Height: 480}, value.Rectangle{Width: 16, Height: 16},
			value.Rectangle{Width: 4096, Height: 4096}, value.Rectangle{Width: 16, Height: 16})},
		{"enum", value.NewEnum(value.ID(2), value.ID(2), value.ID(5), value.ID(7))},
		{"flags", value.NewFlags(value.Int(3), value.Int(7))},
		{"object", value.Object{
			ObjectType: format.TypeObjectFormat,
			ID:         3,
			Props: []value.Prop{
				{Key: 1, Value: value.ID(1)},
				{Key: 2, Flags: format.PropMandatory, Value: value.ID(2)},
				{Key: 0x10003, Value: value.NewRange(value.Int(2), value.Int(1), value.Int(64))},
			},
		}},
		{"empty object", value.Object{ObjectType: format.TypeObjectProps, ID: 2}},
		{"sequence", value.Sequence{
			Unit: 0,
			Controls: []value.Control{
				{Offset: 0, Type: format.ControlMidi, Value: value.Bytes{0x90, 0x40, 0x7f}},
				{Offset: 64, Type: format.ControlProperties, Value: value.Object{ObjectType: format.TypeObjectProps, ID: 2}},
			},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encode(t, tt.v)
			require.Zero(t, len(data)%8, "values are padded to 8 bytes")

			got, err := parser.Decode(data)
			require.NoError(t, err)
			require.Equal(t, tt.v, got)
		})
	}
}

func TestBuilder_Layout(t *testing.T) {
	buf := make([]byte, 64)
	b := builder.New(buf, le)

	require.NoError(t, b.Int(7))
	require.NoError(t, b.String("abc"))

	data, err := b.Finish()
	require.NoError(t, err)
	require.Equal(t, []byte{
		4, 0, 0, 0, 4, 0, 0, 0, 7, 0, 0, 0, 0, 0, 0, 0,
		4, 0, 0, 0, 8, 0, 0, 0, 'a', 'b', 'c', 0, 0, 0, 0, 0,
	}, data)
}

func TestBuilder_ArrayLayout(t *testing.T) {
	b := builder.New(make([]byte, 64), le)

	require.NoError(t, b.PushArray())
	require.NoError(t, b.Int(1))
	require.NoError(t, b.Int(2))
	require.NoError(t, b.Int(3))
	require.NoError(t, b.Pop())

	data, err := b.Finish()
	require.NoError(t, err)
	require.Equal(t, []byte{
		20, 0, 0, 0, 13, 0, 0, 0, // array header, body 8 + 3*4
		4, 0, 0, 0, 4, 0, 0, 0, // child header
		1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0,
		0, 0, 0, 0,
	}, data)
}

func TestBuilder_ContainerSizeIncludesChildPadding(t *testing.T) {
	b := builder.New(make([]byte, 64), le)

	require.NoError(t, b.PushStruct())
	require.NoError(t, b.Int(1))
	require.NoError(t, b.Bool(true))
	require.NoError(t, b.Pop())

	data, err := b.Finish()
	require.NoError(t, err)
	require.Len(t, data, 40)
	require.Equal(t, []byte{32, 0, 0, 0, 14, 0, 0, 0}, data[:8])
}

func TestBuilder_Overflow(t *testing.T) {
	buf := make([]byte, 24)
	b := builder.New(buf)

	require.NoError(t, b.PushStruct())
	require.NoError(t, b.Int(1))
	err := b.Long(2)
	require.ErrorIs(t, err, errs.ErrOverflow)

	// later calls keep the error and keep counting
	require.ErrorIs(t, b.String("more"), errs.ErrOverflow)
	require.ErrorIs(t, b.Pop(), errs.ErrOverflow)

	data, err := b.Finish()
	require.ErrorIs(t, err, errs.ErrOverflow)
	require.Nil(t, data)
	require.Equal(t, 56, b.Required())

	// retry with the reported size
	b = builder.New(make([]byte, b.Required()))
	b.PushStruct()
	b.Int(1)
	b.Long(2)
	b.String("more")
	b.Pop()
	_, err = b.Finish()
	require.NoError(t, err)
}

func TestBuilder_GrowFunc(t *testing.T) {
	calls := 0
	grow := func(buf []byte, need int) ([]byte, error) {
		calls++
		return builder.DoubleGrow(buf, need)
	}

	b := builder.New(make([]byte, 8), builder.WithGrowFunc(grow))
	v := value.Struct{value.String("a longer string than the initial buffer"), value.Long(1), value.Double(2)}
	require.NoError(t, b.Encode(v))

	data, err := b.Finish()
	require.NoError(t, err)
	require.Positive(t, calls)

	got, err := parser.Decode(data)
	require.NoError(t, err)
	require.Equal(t, v, got)
}

func TestBuilder_Growable(t *testing.T) {
	b, err := builder.NewGrowable()
	require.NoError(t, err)
	defer b.Release()

	require.NoError(t, b.PushArray())
	for i := range 5000 {
		require.NoError(t, b.Long(int64(i)))
	}
	require.NoError(t, b.Pop())

	data, err := b.Finish()
	require.NoError(t, err)
	require.Len(t, data, 8+8+5000*8)

	pod, err := parser.Parse(data)
	require.NoError(t, err)
	arr, err := pod.Array()
	require.NoError(t, err)
	require.Len(t, arr.Values, 5000)
	last, err := arr.Values[4999].Long()
	require.NoError(t, err)
	require.Equal(t, int64(4999), last)
}

func TestBuilder_FrameErrors(t *testing.T) {
	t.Run("pop without push", func(t *testing.T) {
		b := builder.New(make([]byte, 64))
		require.ErrorIs(t, b.Pop(), errs.ErrInvalidFrame)
	})

	t.Run("finish with open container", func(t *testing.T) {
		b := builder.New(make([]byte, 64))
		require.NoError(t, b.PushStruct())
		_, err := b.Finish()
		require.ErrorIs(t, err, errs.ErrInvalidFrame)
	})

	t.Run("prop outside object", func(t *testing.T) {
		b := builder.New(make([]byte, 64))
		require.NoError(t, b.PushStruct())
		require.ErrorIs(t, b.Prop(1, 0), errs.ErrInvalidFrame)
	})

	t.Run("value in object without prop", func(t *testing.T) {
		b := builder.New(make([]byte, 64))
		require.NoError(t, b.PushObject(format.TypeObjectProps, 0))
		require.ErrorIs(t, b.Int(1), errs.ErrInvalidFrame)
	})

	t.Run("prop without value", func(t *testing.T) {
		b := builder.New(make([]byte, 64))
		require.NoError(t, b.PushObject(format.TypeObjectProps, 0))
		require.NoError(t, b.Prop(1, 0))
		require.ErrorIs(t, b.Pop(), errs.ErrInvalidFrame)
	})

	t.Run("control outside sequence", func(t *testing.T) {
		b := builder.New(make([]byte, 64))
		require.ErrorIs(t, b.Control(0, format.ControlMidi), errs.ErrInvalidFrame)
	})

	t.Run("container in array", func(t *testing.T) {
		b := builder.New(make([]byte, 64))
		require.NoError(t, b.PushArray())
		require.ErrorIs(t, b.PushStruct(), errs.ErrInvalidFrame)
	})

	t.Run("mixed array children", func(t *testing.T) {
		b := builder.New(make([]byte, 64))
		require.NoError(t, b.PushArray())
		require.NoError(t, b.Int(1))
		require.ErrorIs(t, b.Long(2), errs.ErrTypeMismatch)
	})

	t.Run("mixed choice children", func(t *testing.T) {
		b := builder.New(make([]byte, 64))
		require.NoError(t, b.PushChoice(format.ChoiceEnum, 0))
		require.NoError(t, b.String("ab"))
		require.ErrorIs(t, b.String("abc"), errs.ErrTypeMismatch)
	})

	t.Run("string with NUL", func(t *testing.T) {
		b := builder.New(make([]byte, 64))
		require.ErrorIs(t, b.String("a\x00b"), errs.ErrMalformed)
	})
}

func TestBuilder_StateReset(t *testing.T) {
	b := builder.New(make([]byte, 128))

	require.NoError(t, b.PushStruct())
	require.NoError(t, b.Int(1))
	s := b.State()
	before := b.Len()

	require.NoError(t, b.PushStruct())
	require.NoError(t, b.String("discarded"))
	require.NoError(t, b.Pop())
	require.Greater(t, b.Len(), before)

	b.Reset(s)
	require.Equal(t, before, b.Len())
	require.Equal(t, 1, b.Depth())

	require.NoError(t, b.Int(2))
	require.NoError(t, b.Pop())
	data, err := b.Finish()
	require.NoError(t, err)

	got, err := parser.Decode(data)
	require.NoError(t, err)
	require.Equal(t, value.Struct{value.Int(1), value.Int(2)}, got)
}

func TestBuilder_ResetClearsOverflow(t *testing.T) {
	b := builder.New(make([]byte, 16))
	s := b.State()

	require.ErrorIs(t, b.String("does not fit in sixteen bytes"), errs.ErrOverflow)
	b.Reset(s)
	require.NoError(t, b.Err())
	require.NoError(t, b.Int(1))
}

func TestBuilder_ResetToClosedFrame(t *testing.T) {
	tests := []struct {
		name  string
		after func(b *builder.Builder) error
	}{
		{
			name: "depth dropped",
			after: func(b *builder.Builder) error {
				if err := b.Pop(); err != nil {
					return err
				}

				return b.Pop()
			},
		},
		{
			name: "frames reopened at the same depth",
			after: func(b *builder.Builder) error {
				if err := b.Pop(); err != nil {
					return err
				}
				if err := b.Pop(); err != nil {
					return err
				}
				if err := b.PushStruct(); err != nil {
					return err
				}

				return b.PushStruct()
			},
		},
		{
			name: "inner frame reopened",
			after: func(b *builder.Builder) error {
				if err := b.Pop(); err != nil {
					return err
				}

				return b.PushStruct()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := builder.New(make([]byte, 128))
			require.NoError(t, b.PushStruct())
			require.NoError(t, b.PushStruct())
			s := b.State()
			require.NoError(t, tt.after(b))
			b.Reset(s)
			require.ErrorIs(t, b.Err(), errs.ErrInvalidFrame)
		})
	}
}

func TestBuilder_Copy(t *testing.T) {
	src := encode(t, value.Object{ObjectType: format.TypeObjectProps, ID: 2, Props: []value.Prop{{Key: 1, Value: value.Float(0.5)}}})
	pod, err := parser.Parse(src)
	require.NoError(t, err)

	b := builder.New(make([]byte, 128))
	require.NoError(t, b.PushStruct())
	require.NoError(t, b.Copy(pod))
	require.NoError(t, b.Pop())
	data, err := b.Finish()
	require.NoError(t, err)

	got, err := parser.Decode(data)
	require.NoError(t, err)
	require.Equal(t, value.Struct{value.Object{ObjectType: format.TypeObjectProps, ID: 2, Props: []value.Prop{{Key: 1, Value: value.Float(0.5)}}}}, got)
}
