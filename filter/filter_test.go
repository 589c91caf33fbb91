package filter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/pod/builder"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/filter"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/parser"
	"github.com/arloliu/pod/value"
)

func encode(t *testing.T, v value.Value) []byte {
	t.Helper()

	b := builder.New(make([]byte, 4096))
	require.NoError(t, b.Encode(v))
	data, err := b.Finish()
	require.NoError(t, err)

	return data
}

// negotiate filters request against offer into a fresh buffer.
func negotiate(t *testing.T, request, offer value.Value) (value.Value, error) {
	t.Helper()

	var off []byte
	if offer != nil {
		off = encode(t, offer)
	}

	b := builder.New(make([]byte, 4096))
	if err := filter.Bytes(b, encode(t, request), off); err != nil {
		require.Zero(t, b.Len(), "failed filter leaves no output")
		return nil, err
	}

	data, err := b.Finish()
	require.NoError(t, err)

	return parser.Decode(data)
}

func ints(vs ...int32) []value.Value {
	out := make([]value.Value, len(vs))
	for i, v := range vs {
		out[i] = value.Int(v)
	}

	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name    string
		request value.Value
		offer   value.Value
		want    value.Value
	}{
		{
			"range intersects range",
			value.NewRange(value.Int(1), value.Int(1), value.Int(10)),
			value.NewRange(value.Int(5), value.Int(5), value.Int(20)),
			value.NewRange(value.Int(5), value.Int(5), value.Int(10)),
		},
		{
			"range keeps valid request default",
			value.NewRange(value.Int(7), value.Int(1), value.Int(10)),
			value.NewRange(value.Int(5), value.Int(5), value.Int(20)),
			value.NewRange(value.Int(7), value.Int(5), value.Int(10)),
		},
		{
			"step takes larger step",
			value.NewStep(value.Int(8), value.Int(0), value.Int(16), value.Int(4)),
			value.NewStep(value.Int(4), value.Int(0), value.Int(32), value.Int(8)),
			value.NewStep(value.Int(8), value.Int(0), value.Int(16), value.Int(8)),
		},
		{
			"range with step",
			value.NewRange(value.Int(3), value.Int(0), value.Int(100)),
			value.NewStep(value.Int(0), value.Int(0), value.Int(64), value.Int(16)),
			value.NewStep(value.Int(16), value.Int(0), value.Int(64), value.Int(16)),
		},
		{
			"range against offset step",
			value.NewRange(value.Int(10), value.Int(10), value.Int(100)),
			value.NewStep(value.Int(5), value.Int(5), value.Int(69), value.Int(16)),
			value.NewStep(value.Int(21), value.Int(21), value.Int(69), value.Int(16)),
		},
		{
			"steps with different origins",
			value.NewStep(value.Int(0), value.Int(0), value.Int(30), value.Int(4)),
			value.NewStep(value.Int(2), value.Int(2), value.Int(30), value.Int(6)),
			value.NewStep(value.Int(8), value.Int(8), value.Int(20), value.Int(12)),
		},
		{
			"single point on step",
			value.NewRange(value.Int(10), value.Int(10), value.Int(20)),
			value.NewStep(value.Int(0), value.Int(0), value.Int(64), value.Int(16)),
			value.NewStep(value.Int(16), value.Int(16), value.Int(16), value.Int(16)),
		},
		{
			"double range",
			value.NewRange(value.Double(0.5), value.Double(0), value.Double(1)),
			value.NewRange(value.Double(0.25), value.Double(0.25), value.Double(2)),
			value.NewRange(value.Double(0.5), value.Double(0.25), value.Double(1)),
		},
		{
			"rectangle range",
			value.NewRange(value.Rectangle{Width: 640, Height: 480},
				value.Rectangle{Width: 1, Height: 1}, value.Rectangle{Width: 4096, Height: 4096}),
			value.NewRange(value.Rectangle{Width: 320, Height: 240},
				value.Rectangle{Width: 320, Height: 240}, value.Rectangle{Width: 1920, Height: 1080}),
			value.NewRange(value.Rectangle{Width: 640, Height: 480},
				value.Rectangle{Width: 320, Height: 240}, value.Rectangle{Width: 1920, Height: 1080}),
		},
		{
			"enum intersects enum in request order",
			value.NewEnum(value.Int(1), ints(1, 2, 3)...),
			value.NewEnum(value.Int(4), ints(4, 3, 2)...),
			value.NewEnum(value.Int(2), ints(2, 3)...),
		},
		{
			"enum keeps request default",
			value.NewEnum(value.Int(3), ints(1, 2, 3)...),
			value.NewEnum(value.Int(2), ints(2, 3, 4)...),
			value.NewEnum(value.Int(3), ints(2, 3)...),
		},
		{
			"enum single common member",
			value.NewEnum(value.ID(283), value.ID(283), value.ID(282)),
			value.NewEnum(value.ID(282), value.ID(282), value.ID(281)),
			value.NewNone(value.ID(282)),
		},
		{
			"enum of strings",
			value.NewEnum(value.String("S16LE"), value.String("S16LE"), value.String("F32LE")),
			value.NewEnum(value.String("F32LE"), value.String("F32LE"), value.String("S24LE")),
			value.NewNone(value.String("F32LE")),
		},
		{
			"enum within range",
			value.NewEnum(value.Int(1), ints(1, 5, 9, 12)...),
			value.NewRange(value.Int(5), value.Int(4), value.Int(10)),
			value.NewEnum(value.Int(5), ints(5, 9)...),
		},
		{
			"range against enum",
			value.NewRange(value.Int(9), value.Int(4), value.Int(10)),
			value.NewEnum(value.Int(1), ints(1, 5, 9)...),
			value.NewEnum(value.Int(9), ints(5, 9)...),
		},
		{
			"enum within step",
			value.NewEnum(value.Int(2), ints(2, 4, 6, 8)...),
			value.NewStep(value.Int(0), value.Int(0), value.Int(8), value.Int(4)),
			value.NewEnum(value.Int(4), ints(4, 8)...),
		},
		{
			"flags and masks",
			value.NewFlags(value.Int(0b0011), value.Int(0b0111)),
			value.NewFlags(value.Int(0), value.Int(0b1100)),
			value.NewFlags(value.Int(0), value.Int(0b0100)),
		},
		{
			"concrete in range",
			value.Int(7),
			value.NewRange(value.Int(5), value.Int(1), value.Int(10)),
			value.Int(7),
		},
		{
			"range against concrete",
			value.NewRange(value.Int(5), value.Int(1), value.Int(10)),
			value.Int(7),
			value.Int(7),
		},
		{
			"concrete in step",
			value.Int(8),
			value.NewStep(value.Int(0), value.Int(0), value.Int(16), value.Int(4)),
			value.Int(8),
		},
		{
			"concrete in enum",
			value.ID(282),
			value.NewEnum(value.ID(283), value.ID(283), value.ID(282)),
			value.ID(282),
		},
		{
			"concrete in flags",
			value.Int(0b0100),
			value.NewFlags(value.Int(0), value.Int(0b0111)),
			value.Int(0b0100),
		},
		{
			"none choices",
			value.NewNone(value.Fraction{Num: 25, Denom: 1}),
			value.NewNone(value.Fraction{Num: 50, Denom: 2}),
			value.Fraction{Num: 25, Denom: 1},
		},
		{"equal scalars", value.String("x"), value.String("x"), value.String("x")},
		{
			"struct element-wise",
			value.Struct{value.Int(1), value.NewRange(value.Long(5), value.Long(0), value.Long(10))},
			value.Struct{value.Int(1), value.Long(3)},
			value.Struct{value.Int(1), value.Long(3)},
		},
		{
			"array against range",
			value.Array{ChildType: format.TypeInt, Values: ints(2, 4)},
			value.NewRange(value.Int(0), value.Int(0), value.Int(10)),
			value.Array{ChildType: format.TypeInt, Values: ints(2, 4)},
		},
		{
			"enum against array",
			value.NewEnum(value.Int(1), ints(1, 2, 3)...),
			value.Array{ChildType: format.TypeInt, Values: ints(3, 1)},
			value.Array{ChildType: format.TypeInt, Values: ints(3, 1)},
		},
		{
			"equal arrays",
			value.Array{ChildType: format.TypeInt, Values: ints(1, 2)},
			value.Array{ChildType: format.TypeInt, Values: ints(1, 2)},
			value.Array{ChildType: format.TypeInt, Values: ints(1, 2)},
		},
		{"nil offer copies request", value.NewEnum(value.Int(1), ints(1, 2)...), nil, value.NewEnum(value.Int(1), ints(1, 2)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := negotiate(t, tt.request, tt.offer)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_NoCommonValue(t *testing.T) {
	tests := []struct {
		name    string
		request value.Value
		offer   value.Value
	}{
		{
			"disjoint ranges",
			value.NewRange(value.Int(1), value.Int(1), value.Int(5)),
			value.NewRange(value.Int(10), value.Int(10), value.Int(20)),
		},
		{
			"disjoint enums",
			value.NewEnum(value.Int(1), ints(1, 2)...),
			value.NewEnum(value.Int(3), ints(3, 4)...),
		},
		{
			"enum outside range",
			value.NewEnum(value.Int(1), ints(1, 2)...),
			value.NewRange(value.Int(5), value.Int(5), value.Int(9)),
		},
		{
			"disjoint flags",
			value.NewFlags(value.Int(0), value.Int(0b0011)),
			value.NewFlags(value.Int(0), value.Int(0b1100)),
		},
		{
			"odd step against even step",
			value.NewStep(value.Int(1), value.Int(1), value.Int(9), value.Int(2)),
			value.NewStep(value.Int(2), value.Int(2), value.Int(10), value.Int(2)),
		},
		{
			"range between step points",
			value.NewRange(value.Int(17), value.Int(17), value.Int(31)),
			value.NewStep(value.Int(0), value.Int(0), value.Int(64), value.Int(16)),
		},
		{"concrete outside range", value.Int(20), value.NewRange(value.Int(5), value.Int(1), value.Int(10))},
		{"concrete off step", value.Int(6), value.NewStep(value.Int(0), value.Int(0), value.Int(16), value.Int(4))},
		{"concrete outside flags", value.Int(0b1000), value.NewFlags(value.Int(0), value.Int(0b0111))},
		{"unequal scalars", value.Int(1), value.Int(2)},
		{"different types", value.Int(1), value.Long(1)},
		{"choice child types", value.Int(7), value.NewRange(value.Long(5), value.Long(1), value.Long(10))},
		{
			"enum against flags",
			value.NewEnum(value.Int(1), ints(1, 2)...),
			value.NewFlags(value.Int(0), value.Int(3)),
		},
		{"struct lengths", value.Struct{value.Int(1)}, value.Struct{value.Int(1), value.Int(2)}},
		{"struct field", value.Struct{value.Int(1), value.Int(2)}, value.Struct{value.Int(1), value.Int(3)}},
		{
			"array element outside choice",
			value.Array{ChildType: format.TypeInt, Values: ints(2, 40)},
			value.NewRange(value.Int(0), value.Int(0), value.Int(10)),
		},
		{
			"unequal arrays",
			value.Array{ChildType: format.TypeInt, Values: ints(1, 2)},
			value.Array{ChildType: format.TypeInt, Values: ints(2, 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := negotiate(t, tt.request, tt.offer)
			require.ErrorIs(t, err, errs.ErrNoCommonValue)
		})
	}
}

func TestFilter_Object(t *testing.T) {
	request := value.Object{
		ObjectType: format.TypeObjectFormat,
		ID:         3,
		Props: []value.Prop{
			{Key: 1, Value: value.ID(1)},
			{Key: 2, Value: value.ID(1)},
			{Key: 0x10001, Flags: format.PropReadOnly, Value: value.NewEnum(value.ID(283), value.ID(283), value.ID(282))},
			{Key: 0x10003, Value: value.NewRange(value.Int(48000), value.Int(1), value.Int(384000))},
			{Key: 0x10004, Value: value.Int(2)},
		},
	}
	offer := value.Object{
		ObjectType: format.TypeObjectFormat,
		ID:         3,
		Props: []value.Prop{
			{Key: 0x10003, Value: value.Int(44100)},
			{Key: 2, Value: value.ID(1)},
			{Key: 1, Value: value.ID(1)},
			{Key: 0x10001, Flags: format.PropReadOnly | format.PropHardware, Value: value.ID(282)},
			{Key: 0x10005, Value: value.Array{ChildType: format.TypeID, Values: []value.Value{value.ID(3), value.ID(4)}}},
		},
	}

	got, err := negotiate(t, request, offer)
	require.NoError(t, err)
	require.Equal(t, value.Object{
		ObjectType: format.TypeObjectFormat,
		ID:         3,
		Props: []value.Prop{
			{Key: 1, Value: value.ID(1)},
			{Key: 2, Value: value.ID(1)},
			{Key: 0x10001, Flags: format.PropReadOnly, Value: value.ID(282)},
			{Key: 0x10003, Value: value.Int(44100)},
			{Key: 0x10004, Value: value.Int(2)},
			{Key: 0x10005, Value: value.Array{ChildType: format.TypeID, Values: []value.Value{value.ID(3), value.ID(4)}}},
		},
	}, got)

	t.Run("mandatory one-sided property", func(t *testing.T) {
		req := request
		req.Props = append([]value.Prop(nil), request.Props...)
		req.Props[4].Flags = format.PropMandatory

		_, err := negotiate(t, req, offer)
		require.ErrorIs(t, err, errs.ErrNoCommonValue)
	})

	t.Run("object ids differ", func(t *testing.T) {
		off := offer
		off.ID = 4

		_, err := negotiate(t, request, off)
		require.ErrorIs(t, err, errs.ErrNoCommonValue)
	})

	t.Run("object types differ", func(t *testing.T) {
		off := offer
		off.ObjectType = format.TypeObjectProps

		_, err := negotiate(t, request, off)
		require.ErrorIs(t, err, errs.ErrNoCommonValue)
	})

	t.Run("property mismatch", func(t *testing.T) {
		off := offer
		off.Props = append([]value.Prop(nil), offer.Props...)
		off.Props[0].Value = value.Int(500000)

		_, err := negotiate(t, request, off)
		require.ErrorIs(t, err, errs.ErrNoCommonValue)
	})
}

func TestFilter_RewindsOnFailure(t *testing.T) {
	request := encode(t, value.Object{
		ObjectType: format.TypeObjectFormat,
		ID:         3,
		Props: []value.Prop{
			{Key: 1, Value: value.ID(1)},
			{Key: 2, Value: value.NewRange(value.Int(5), value.Int(1), value.Int(10))},
		},
	})
	offer := encode(t, value.Object{
		ObjectType: format.TypeObjectFormat,
		ID:         3,
		Props: []value.Prop{
			{Key: 1, Value: value.ID(1)},
			{Key: 2, Value: value.Int(20)},
		},
	})

	b := builder.New(make([]byte, 1024))
	require.NoError(t, b.PushStruct())
	require.NoError(t, b.Int(1))
	before, depth := b.Len(), b.Depth()

	err := filter.Bytes(b, request, offer)
	require.ErrorIs(t, err, errs.ErrNoCommonValue)
	require.Equal(t, before, b.Len(), "failed filter leaves the buffer length unchanged")
	require.Equal(t, depth, b.Depth())
	require.NoError(t, b.Err())

	// the builder stays usable
	require.NoError(t, b.Int(2))
	require.NoError(t, b.Pop())
	data, err := b.Finish()
	require.NoError(t, err)

	got, err := parser.Decode(data)
	require.NoError(t, err)
	require.Equal(t, value.Struct{value.Int(1), value.Int(2)}, got)
}

func TestFilter_Overflow(t *testing.T) {
	request := encode(t, value.NewRange(value.Int(1), value.Int(1), value.Int(10)))
	offer := encode(t, value.NewRange(value.Int(5), value.Int(5), value.Int(20)))

	b := builder.New(make([]byte, 16))
	err := filter.Bytes(b, request, offer)
	require.ErrorIs(t, err, errs.ErrOverflow)
	require.Zero(t, b.Len())
	require.NoError(t, b.Err())
}

func TestFilter_Malformed(t *testing.T) {
	badRange := value.Choice{Kind: format.ChoiceRange, Values: ints(1, 2)}

	_, err := negotiate(t, badRange, value.NewRange(value.Int(5), value.Int(1), value.Int(10)))
	require.ErrorIs(t, err, errs.ErrMalformed)

	_, err = negotiate(t, value.Int(1), badRange)
	require.ErrorIs(t, err, errs.ErrMalformed)

	b := builder.New(make([]byte, 64))
	err = filter.Bytes(b, []byte{1, 2, 3}, nil)
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestFilter_ThenFixate(t *testing.T) {
	request := encode(t, value.NewEnum(value.ID(7), value.ID(283), value.ID(282), value.ID(281)))
	offer := encode(t, value.NewEnum(value.ID(282), value.ID(282), value.ID(281)))

	b := builder.New(make([]byte, 256))
	require.NoError(t, filter.Bytes(b, request, offer))
	data, err := b.Finish()
	require.NoError(t, err)

	require.NoError(t, builder.Fixate(data))
	got, err := parser.Decode(data)
	require.NoError(t, err)
	require.Equal(t, value.ID(282), got)
}

func TestFilter_StepResultSatisfiesBothSides(t *testing.T) {
	tests := []struct {
		name    string
		request value.Value
		offer   value.Value
	}{
		{
			"range against step",
			value.NewRange(value.Int(10), value.Int(10), value.Int(100)),
			value.NewStep(value.Int(5), value.Int(5), value.Int(69), value.Int(16)),
		},
		{
			"step against step",
			value.NewStep(value.Long(3), value.Long(3), value.Long(1000), value.Long(7)),
			value.NewStep(value.Long(0), value.Long(0), value.Long(1000), value.Long(5)),
		},
		{
			"rectangle steps",
			value.NewStep(value.Rectangle{Width: 640, Height: 480},
				value.Rectangle{Width: 16, Height: 16}, value.Rectangle{Width: 4096, Height: 2160},
				value.Rectangle{Width: 16, Height: 16}),
			value.NewStep(value.Rectangle{Width: 100, Height: 100},
				value.Rectangle{Width: 20, Height: 20}, value.Rectangle{Width: 1920, Height: 1080},
				value.Rectangle{Width: 10, Height: 10}),
		},
		{
			"double steps",
			value.NewRange(value.Double(0.3), value.Double(0.3), value.Double(4)),
			value.NewStep(value.Double(0.25), value.Double(0.25), value.Double(4), value.Double(0.5)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			common, err := negotiate(t, tt.request, tt.offer)
			require.NoError(t, err)

			data := encode(t, common)
			require.NoError(t, builder.Fixate(data))
			fixed, err := parser.Decode(data)
			require.NoError(t, err)

			_, err = negotiate(t, fixed, tt.request)
			require.NoError(t, err, "request accepts %v", fixed)
			_, err = negotiate(t, fixed, tt.offer)
			require.NoError(t, err, "offer accepts %v", fixed)
		})
	}
}
