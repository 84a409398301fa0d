package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelease_InvalidOwner(t *testing.T) {
	tests := []struct {
		name  string
		owner Owner
	}{
		{name: "system", owner: System},
		{name: "negative", owner: Owner(-3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t, 1024)
			_, err := m.AllocateStatic()
			require.NoError(t, err)
			before := m.Snapshot()

			_, err = m.Release(tt.owner)
			require.ErrorIs(t, err, ErrInvalidOwner)
			assert.Equal(t, before, m.Snapshot(), "invalid release must be a no-op")
			assert.Equal(t, 64, m.Stats().Used, "static region stays allocated")
		})
	}
}

func TestRelease_OwnerNotFound(t *testing.T) {
	m := newTestManager(t, 1024)
	_, err := m.Allocate(Process(1), 100)
	require.NoError(t, err)
	before := m.Snapshot()

	_, err = m.Release(Process(42))
	require.ErrorIs(t, err, ErrOwnerNotFound)
	assert.Equal(t, before, m.Snapshot())
	assert.Equal(t, 1, m.Counters().ReleaseMisses)
	assertInvariants(t, m)
}

// TestRelease_AllBlocksOfOwner verifies that every block of the owner is
// freed at once, including non-contiguous ones.
func TestRelease_AllBlocksOfOwner(t *testing.T) {
	m := newTestManager(t, 1024)
	for _, step := range []struct {
		owner Owner
		size  int
	}{
		{Process(1), 100},
		{Process(2), 50},
		{Process(1), 30},
		{Process(3), 20},
		{Process(1), 10},
	} {
		_, err := m.Allocate(step.owner, step.size)
		require.NoError(t, err)
	}
	require.Equal(t, 5, m.Stats().BlockCount)

	r, err := m.Release(Process(1))
	require.NoError(t, err)
	assert.Equal(t, 140, r.Size)
	assert.Equal(t, 3, r.Blocks)

	s := m.Stats()
	assert.Equal(t, 70, s.Used)
	assert.Equal(t, 2, s.BlockCount)
	assert.Equal(t, []Owner{Process(2), Process(3)}, m.Owners())

	// [100 free][50 P2][30 free][20 P3][10 free + 814 free merged]
	assert.Equal(t, []int{100, 30, 824}, freeSizes(m))
	assert.Equal(t, 1, r.Merges)
	assertInvariants(t, m)
}

// TestRelease_AbsorbedRemainderReturned verifies internal fragmentation is
// given back in full on release.
func TestRelease_AbsorbedRemainderReturned(t *testing.T) {
	m, _ := newTestManagerWithFree(t, 4, []int{10, 4, 7})

	_, err := m.Allocate(Process(1), 6)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Stats().InternalFragmentation)

	r, err := m.Release(Process(1))
	require.NoError(t, err)
	assert.Equal(t, 7, r.Size)
	assert.Equal(t, 0, m.Stats().InternalFragmentation)
	assert.Equal(t, []int{10, 4, 7}, freeSizes(m))
	assertInvariants(t, m)
}

// TestRelease_TwiceReportsNotFound verifies a second release of the same
// owner is informational only.
func TestRelease_TwiceReportsNotFound(t *testing.T) {
	m := newTestManager(t, 1024)
	_, err := m.Allocate(Process(1), 100)
	require.NoError(t, err)

	_, err = m.Release(Process(1))
	require.NoError(t, err)
	_, err = m.Release(Process(1))
	require.ErrorIs(t, err, ErrOwnerNotFound)

	assert.Equal(t, []Block{{Address: 0, Size: 1024}}, m.Snapshot())
}
