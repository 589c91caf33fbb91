package format

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/pod/errs"
)

func TestType(t *testing.T) {
	require.Equal(t, "Choice", TypeChoice.String())
	require.Equal(t, "Unknown", Type(0x99).String())
	require.True(t, TypeStruct.IsContainer())
	require.False(t, TypeString.IsContainer())
	require.True(t, TypePod.IsBasic())
	require.False(t, TypeObjectFormat.IsBasic())

	size, ok := TypePointer.FixedSize()
	require.True(t, ok)
	require.Equal(t, uint32(16), size)
	_, ok = TypeString.FixedSize()
	require.False(t, ok)
}

func TestPropFlags_Has(t *testing.T) {
	f := PropReadOnly | PropMandatory
	require.True(t, f.Has(PropMandatory))
	require.True(t, f.Has(PropReadOnly|PropMandatory))
	require.False(t, PropReadOnly.Has(PropReadOnly|PropMandatory))
}

func TestParseCompression(t *testing.T) {
	for _, c := range []CompressionType{CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		require.Equal(t, c, got)
	}

	got, err := ParseCompression("")
	require.NoError(t, err)
	require.Equal(t, CompressionNone, got)

	_, err = ParseCompression("brotli")
	require.ErrorIs(t, err, errs.ErrInvalidOption)
}
