package collision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/pod/errs"
)

func eq(a, b string) bool { return a == b }

func TestNewTracker(t *testing.T) {
	tracker := NewTracker(eq)

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.Empty(t, tracker.Values())
}

func TestTracker_Track(t *testing.T) {
	tracker := NewTracker(eq)

	require.NoError(t, tracker.Track(0x1234567890abcdef, "S16LE"))
	require.NoError(t, tracker.Track(0xfedcba0987654321, "F32LE"))
	require.Equal(t, 2, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.Equal(t, []string{"S16LE", "F32LE"}, tracker.Values())
}

func TestTracker_Duplicate(t *testing.T) {
	tracker := NewTracker(eq)

	require.NoError(t, tracker.Track(0x1234567890abcdef, "S16LE"))
	err := tracker.Track(0x1234567890abcdef, "S16LE")

	require.ErrorIs(t, err, errs.ErrDuplicate)
	require.Equal(t, 1, tracker.Count())
	require.False(t, tracker.HasCollision())
}

func TestTracker_Collision(t *testing.T) {
	tracker := NewTracker(eq)

	require.NoError(t, tracker.Track(0x1234567890abcdef, "S16LE"))
	// same fingerprint, different value: kept, flagged as collision
	require.NoError(t, tracker.Track(0x1234567890abcdef, "F32LE"))
	require.True(t, tracker.HasCollision())
	require.Equal(t, 2, tracker.Count())

	// both values are still recognized as duplicates
	require.ErrorIs(t, tracker.Track(0x1234567890abcdef, "F32LE"), errs.ErrDuplicate)
	require.ErrorIs(t, tracker.Track(0x1234567890abcdef, "S16LE"), errs.ErrDuplicate)
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker(eq)

	require.NoError(t, tracker.Track(1, "a"))
	require.NoError(t, tracker.Track(1, "b"))
	require.True(t, tracker.HasCollision())

	tracker.Reset()

	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.Empty(t, tracker.Values())
	require.NoError(t, tracker.Track(1, "a"), "tracking works again after reset")
}
