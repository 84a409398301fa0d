package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memsim/mem/dirty"
)

// separatorOwner holds the allocated blocks that keep test free blocks apart.
const separatorOwner Owner = 999

// separatorSize is the size of each separator block.
const separatorSize = 2

// newTestManager creates a manager with the classic geometry and the given total.
func newTestManager(t testing.TB, total int) *Manager {
	t.Helper()
	cfg := DefaultConfig
	cfg.TotalMemory = total
	m, err := New(&cfg, nil)
	require.NoError(t, err)
	return m
}

// newTestManagerWithFree builds a list where the given free sizes appear in
// address order, each followed by a separator block owned by separatorOwner.
// Returns the manager and a map from free size to its address.
func newTestManagerWithFree(t testing.TB, minBlock int, sizes []int) (*Manager, map[int]int) {
	t.Helper()

	total := 0
	for _, s := range sizes {
		total += s + separatorSize
	}

	cfg := DefaultConfig
	cfg.TotalMemory = total
	cfg.MinBlockSize = minBlock
	m, err := New(&cfg, nil)
	require.NoError(t, err)

	offsets := make(map[int]int, len(sizes))
	blocks := make([]Block, 0, 2*len(sizes))
	addr := 0
	for _, s := range sizes {
		offsets[s] = addr
		blocks = append(blocks, Block{Address: addr, Size: s})
		addr += s
		blocks = append(blocks, Block{
			Address:   addr,
			Size:      separatorSize,
			Allocated: true,
			Owner:     separatorOwner,
			Requested: separatorSize,
		})
		addr += separatorSize
	}

	m.blocks = blocks
	m.used = separatorSize * len(sizes)
	m.requested = m.used
	m.blockCount = len(sizes)

	assertInvariants(t, m)
	return m, offsets
}

// newTrackedManager creates a default manager with a 1 KB granularity tracker.
func newTrackedManager(t testing.TB) (*Manager, *dirty.Tracker) {
	t.Helper()
	dt := dirty.NewTracker(1)
	m, err := New(nil, dt)
	require.NoError(t, err)
	return m, dt
}

// blockAt returns the block starting at addr.
func blockAt(t testing.TB, m *Manager, addr int) Block {
	t.Helper()
	for _, b := range m.blocks {
		if b.Address == addr {
			return b
		}
	}
	t.Fatalf("no block at address %d", addr)
	return Block{}
}

// freeSizes returns the sizes of the free blocks in address order.
func freeSizes(m *Manager) []int {
	var sizes []int
	for _, b := range m.blocks {
		if !b.Allocated {
			sizes = append(sizes, b.Size)
		}
	}
	return sizes
}

// assertInvariants checks the partition, the coalescing invariant and the
// accounting fields against the block list.
func assertInvariants(t testing.TB, m *Manager) {
	t.Helper()

	require.NotEmpty(t, m.blocks, "block list must never be empty")
	require.Equal(t, 0, m.blocks[0].Address, "first block must start at 0")

	used, requested, count := 0, 0, 0
	for i, b := range m.blocks {
		require.Positive(t, b.Size, "block %d has non-positive size", i)
		if i > 0 {
			prev := m.blocks[i-1]
			require.Equal(t, prev.End(), b.Address, "gap or overlap between block %d and %d", i-1, i)
			require.False(t, !prev.Allocated && !b.Allocated,
				"adjacent free blocks at %d and %d", prev.Address, b.Address)
		}
		if b.Allocated {
			used += b.Size
			requested += b.Requested
			require.LessOrEqual(t, b.Requested, b.Size, "requested exceeds size at %d", b.Address)
			if b.Owner.IsProcess() {
				count++
			}
		} else {
			require.Equal(t, System, b.Owner, "free block at %d carries an owner", b.Address)
			require.Zero(t, b.Requested, "free block at %d carries a request", b.Address)
		}
	}

	last := m.blocks[len(m.blocks)-1]
	require.Equal(t, m.cfg.TotalMemory, last.End(), "last block must end at total memory")
	require.Equal(t, used, m.used, "used memory mismatch")
	require.Equal(t, requested, m.requested, "requested memory mismatch")
	require.Equal(t, count, m.blockCount, "block count mismatch")
}
