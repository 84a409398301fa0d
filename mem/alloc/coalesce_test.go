package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setBlocks installs a hand-built block list and recomputes accounting.
func setBlocks(m *Manager, blocks []Block) {
	m.blocks = blocks
	m.used, m.requested, m.blockCount = 0, 0, 0
	for _, b := range blocks {
		if b.Allocated {
			m.used += b.Size
			m.requested += b.Requested
			if b.Owner.IsProcess() {
				m.blockCount++
			}
		}
	}
}

func TestCoalesce_Runs(t *testing.T) {
	alloc := func(addr, size int) Block {
		return Block{Address: addr, Size: size, Allocated: true, Owner: Process(1), Requested: size}
	}
	free := func(addr, size int) Block {
		return Block{Address: addr, Size: size}
	}

	tests := []struct {
		name       string
		blocks     []Block
		wantMerges int
		want       []Block
	}{
		{
			name:       "single block",
			blocks:     []Block{free(0, 64)},
			wantMerges: 0,
			want:       []Block{free(0, 64)},
		},
		{
			name:       "nothing to merge",
			blocks:     []Block{free(0, 16), alloc(16, 16), free(32, 32)},
			wantMerges: 0,
			want:       []Block{free(0, 16), alloc(16, 16), free(32, 32)},
		},
		{
			name:       "run of four at start",
			blocks:     []Block{free(0, 8), free(8, 8), free(16, 8), free(24, 8), alloc(32, 32)},
			wantMerges: 3,
			want:       []Block{free(0, 32), alloc(32, 32)},
		},
		{
			name:       "two separate runs",
			blocks:     []Block{free(0, 8), free(8, 8), alloc(16, 16), free(32, 16), free(48, 16)},
			wantMerges: 2,
			want:       []Block{free(0, 16), alloc(16, 16), free(32, 32)},
		},
		{
			name:       "all free",
			blocks:     []Block{free(0, 4), free(4, 4), free(8, 56)},
			wantMerges: 2,
			want:       []Block{free(0, 64)},
		},
		{
			name:       "allocated neighbours untouched",
			blocks:     []Block{alloc(0, 16), alloc(16, 16), free(32, 16), free(48, 16)},
			wantMerges: 1,
			want:       []Block{alloc(0, 16), alloc(16, 16), free(32, 32)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t, 64)
			setBlocks(m, tt.blocks)

			merges := m.Coalesce()
			assert.Equal(t, tt.wantMerges, merges)
			assert.Equal(t, tt.want, m.Snapshot())
			assertInvariants(t, m)
		})
	}
}

// TestCoalesce_Idempotent verifies a second pass finds nothing to do.
func TestCoalesce_Idempotent(t *testing.T) {
	m := newTestManager(t, 64)
	setBlocks(m, []Block{
		{Address: 0, Size: 8}, {Address: 8, Size: 8},
		{Address: 16, Size: 16, Allocated: true, Owner: Process(1), Requested: 16},
		{Address: 32, Size: 32},
	})

	m.Coalesce()
	once := m.Snapshot()

	assert.Equal(t, 0, m.Coalesce())
	assert.Equal(t, once, m.Snapshot())
}

// TestCoalesce_DoesNotRetainMergedBlocks verifies the tail of the backing
// array is cleared after merging.
func TestCoalesce_DoesNotRetainMergedBlocks(t *testing.T) {
	m := newTestManager(t, 64)
	setBlocks(m, []Block{{Address: 0, Size: 32}, {Address: 32, Size: 32}})

	require.Equal(t, 1, m.Coalesce())
	assert.Len(t, m.blocks, 1)
	assert.Equal(t, Block{}, m.blocks[:2][1], "merged slot must be zeroed")
}

// TestCoalesce_CountsAndDirty verifies counters and dirty ranges after merging.
func TestCoalesce_CountsAndDirty(t *testing.T) {
	m, dt := newTrackedManager(t)

	_, err := m.Allocate(Process(1), 100)
	require.NoError(t, err)
	_, err = m.Allocate(Process(2), 100)
	require.NoError(t, err)
	_, err = m.Release(Process(1))
	require.NoError(t, err)
	dt.Reset()

	r, err := m.Release(Process(2))
	require.NoError(t, err)
	assert.Equal(t, 2, r.Merges)
	assert.Equal(t, 2, m.Counters().CoalesceMerges)
	assert.True(t, dt.Contains(0))
	assert.True(t, dt.Contains(1023))
}
