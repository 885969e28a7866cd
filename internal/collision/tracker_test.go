package collision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/dex/errs"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasDuplicate())
	require.Empty(t, tracker.Names())
}

func TestTracker_Track_Distinct(t *testing.T) {
	tracker := NewTracker()

	first, err := tracker.Track("classes.dex", 0x1234567890abcdef)
	require.NoError(t, err)
	require.Empty(t, first)

	first, err = tracker.Track("classes2.dex", 0xfedcba0987654321)
	require.NoError(t, err)
	require.Empty(t, first)

	require.Equal(t, 2, tracker.Count())
	require.False(t, tracker.HasDuplicate())
	require.Equal(t, []string{"classes.dex", "classes2.dex"}, tracker.Names())
}

func TestTracker_Track_DuplicatePayload(t *testing.T) {
	tracker := NewTracker()

	_, err := tracker.Track("classes.dex", 0x1234567890abcdef)
	require.NoError(t, err)

	first, err := tracker.Track("classes3.dex", 0x1234567890abcdef)
	require.NoError(t, err)
	require.Equal(t, "classes.dex", first)
	require.True(t, tracker.HasDuplicate())
	require.Equal(t, 2, tracker.Count())

	dupOf, ok := tracker.DuplicateOf("classes3.dex")
	require.True(t, ok)
	require.Equal(t, "classes.dex", dupOf)

	_, ok = tracker.DuplicateOf("classes.dex")
	require.False(t, ok, "the first occurrence is not a duplicate")
}

func TestTracker_Track_Errors(t *testing.T) {
	tracker := NewTracker()

	_, err := tracker.Track("", 1)
	require.ErrorIs(t, err, errs.ErrInvalidEntryName)
	require.Equal(t, 0, tracker.Count())

	_, err = tracker.Track("classes.dex", 1)
	require.NoError(t, err)
	_, err = tracker.Track("classes.dex", 2)
	require.ErrorIs(t, err, errs.ErrDuplicateEntry)
	require.Equal(t, 1, tracker.Count())
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker()
	_, _ = tracker.Track("classes.dex", 1)
	_, _ = tracker.Track("classes2.dex", 1)
	require.True(t, tracker.HasDuplicate())

	tracker.Reset()
	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasDuplicate())

	first, err := tracker.Track("classes2.dex", 1)
	require.NoError(t, err)
	require.Empty(t, first)
}
