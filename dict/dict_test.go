package dict_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/pod/builder"
	"github.com/arloliu/pod/dict"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/parser"
	"github.com/arloliu/pod/value"
)

func TestDict_Lookup(t *testing.T) {
	d := dict.New(
		dict.Item{Key: "node.name", Value: "mic"},
		dict.Item{Key: "media.class", Value: "Audio/Source"},
		dict.Item{Key: "node.name", Value: "shadowed"},
	)
	assert.False(t, d.IsSorted())

	v, ok := d.Lookup("node.name")
	require.True(t, ok)
	assert.Equal(t, "mic", v, "first match wins")

	_, ok = d.Lookup("object.serial")
	assert.False(t, ok)

	d.Sort()
	assert.True(t, d.IsSorted())
	assert.Equal(t, "media.class", d.Items()[0].Key)

	v, ok = d.Lookup("node.name")
	require.True(t, ok)
	assert.Equal(t, "mic", v, "sorting is stable")
}

func TestDict_FromMapAndSet(t *testing.T) {
	d := dict.FromMap(map[string]string{"b": "2", "a": "1", "c": "3"})
	require.True(t, d.IsSorted())

	var keys []string
	for k := range d.All() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	d.Set("b", "two")
	v, _ := d.Lookup("b")
	assert.Equal(t, "two", v)
	assert.True(t, d.IsSorted())

	d.Set("d", "4")
	assert.True(t, d.IsSorted(), "appending a larger key keeps order")

	d.Set("0", "zero")
	assert.False(t, d.IsSorted())
	v, ok := d.Lookup("0")
	require.True(t, ok)
	assert.Equal(t, "zero", v)
}

func TestDict_EncodeDecode(t *testing.T) {
	d := dict.New(
		dict.Item{Key: "node.name", Value: "mic"},
		dict.Item{Key: "audio.rate", Value: "48000"},
	)

	b := builder.New(make([]byte, 256))
	require.NoError(t, dict.Encode(b, d))
	data, err := b.Finish()
	require.NoError(t, err)

	v, err := parser.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, value.Struct{
		value.Int(2),
		value.String("node.name"), value.String("mic"),
		value.String("audio.rate"), value.String("48000"),
	}, v)

	p, err := parser.Parse(data)
	require.NoError(t, err)
	got, err := dict.Decode(p)
	require.NoError(t, err)
	assert.Equal(t, d.Items(), got.Items())
	assert.False(t, got.IsSorted())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		err  error
	}{
		{"not a struct", value.Int(1), errs.ErrTypeMismatch},
		{"empty", value.Struct{}, errs.ErrMalformed},
		{"count mismatch", value.Struct{value.Int(2), value.String("a"), value.String("b")}, errs.ErrMalformed},
		{"negative count", value.Struct{value.Int(-1)}, errs.ErrMalformed},
		{"non-string entry", value.Struct{value.Int(1), value.String("a"), value.Int(2)}, errs.ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := builder.New(make([]byte, 256))
			require.NoError(t, b.Encode(tt.v))
			data, err := b.Finish()
			require.NoError(t, err)

			p, err := parser.Parse(data)
			require.NoError(t, err)
			_, err = dict.Decode(p)
			require.ErrorIs(t, err, tt.err)
		})
	}
}
