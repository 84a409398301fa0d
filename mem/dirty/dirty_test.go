package dirty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DirtyTracker_Alignment(t *testing.T) {
	tracker := NewTracker(4)

	// [5, 7) rounds out to [4, 8)
	tracker.Add(5, 2)

	ranges := tracker.Ranges()
	require.Len(t, ranges, 1)
	assert.Equal(t, Range{Off: 4, Len: 4}, ranges[0])
}

func Test_DirtyTracker_NoAlignment(t *testing.T) {
	tracker := NewTracker(0)

	tracker.Add(5, 2)

	assert.Equal(t, []Range{{Off: 5, Len: 2}}, tracker.Ranges())
}

func Test_DirtyTracker_MergesAdjacentAndOverlapping(t *testing.T) {
	tracker := NewTracker(1)

	tracker.Add(100, 50)
	tracker.Add(0, 100) // adjacent to [100,150)
	tracker.Add(120, 10) // inside
	tracker.Add(300, 24)

	ranges := tracker.Ranges()
	assert.Equal(t, []Range{{Off: 0, Len: 150}, {Off: 300, Len: 24}}, ranges)

	// Raw ranges are kept untouched
	assert.Len(t, tracker.DebugRanges(), 4)
}

func Test_DirtyTracker_IgnoresEmpty(t *testing.T) {
	tracker := NewTracker(1)

	tracker.Add(10, 0)
	tracker.Add(10, -3)

	assert.Equal(t, 0, tracker.Len())
	assert.Nil(t, tracker.Ranges())
}

func Test_DirtyTracker_ContainsAndReset(t *testing.T) {
	tracker := NewTracker(1)
	tracker.Add(100, 50)

	assert.True(t, tracker.Contains(100))
	assert.True(t, tracker.Contains(149))
	assert.False(t, tracker.Contains(150))
	assert.False(t, tracker.Contains(99))

	tracker.Reset()
	assert.False(t, tracker.Contains(100))
	assert.Equal(t, 0, tracker.Len())
}
