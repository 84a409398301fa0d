package alloc

import (
	"fmt"
	"slices"

	"github.com/joshuapare/memsim/internal/logger"
)

// initialCapacityLimit caps the block slice pre-allocation.
const initialCapacityLimit = 64

// Manager is the block manager: an ordered list of blocks partitioning
// [0, TotalMemory) with best-fit allocation and coalescing on release.
//
// Invariants after every public call:
//   - blocks are sorted by address and contiguous (no gaps, no overlaps)
//   - the first block starts at 0, the last ends at TotalMemory
//   - every block has Size > 0
//   - no two adjacent blocks are both free
//   - used == sum of allocated block sizes
//
// Manager is NOT thread-safe. Wrap it in Locked for concurrent callers.
type Manager struct {
	cfg Config
	dt  DirtyTracker // Optional; notified of every rewritten range

	blocks []Block // Ordered by Address

	used       int   // Sum of allocated block sizes
	requested  int   // Sum of requested sizes of allocated blocks
	blockCount int   // Allocated process blocks (static excluded)
	nextOwner  Owner // Next process id handed out by Spawn

	stats Counters

	// Test hook: called after split storage is reserved and before the
	// selected block is mutated (nil in production)
	onSplit func()
}

// New creates a block manager and initializes it with one free block
// spanning the whole address space.
//
// Parameters:
//   - cfg: geometry (use nil for DefaultConfig)
//   - dt: dirty tracker for changed ranges (can be nil)
func New(cfg *Config, dt DirtyTracker) (*Manager, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		cfg: *cfg,
		dt:  dt,
	}
	m.Reset()
	return m, nil
}

// Reset re-initializes the manager: one free block, zeroed accounting and
// counters, owner ids restarting at 1. Every outstanding owner is discarded.
func (m *Manager) Reset() {
	capacity := min(m.cfg.TotalMemory/m.cfg.MinBlockSize, initialCapacityLimit) + 1
	m.blocks = make([]Block, 1, capacity)
	m.blocks[0] = Block{Address: 0, Size: m.cfg.TotalMemory}

	m.used = 0
	m.requested = 0
	m.blockCount = 0
	m.nextOwner = Process(1)
	m.stats = Counters{}

	m.markDirty(0, m.cfg.TotalMemory)
	logger.Debug("memory initialized", "total", m.cfg.TotalMemory, "config", m.cfg.Name)
}

// Allocate reserves size KB for owner using best-fit.
//
// The free block with the smallest leftover wins; on equal leftovers the
// lowest address wins. A leftover of at least MinBlockSize is split off as a
// new free block right after the allocation; a smaller leftover stays inside
// the allocated block as internal fragmentation.
//
// On failure nothing is modified.
func (m *Manager) Allocate(owner Owner, size int) (Allocation, error) {
	m.stats.AllocCalls++

	if size <= 0 {
		m.stats.AllocFailures++
		return Allocation{}, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	if owner < 0 {
		m.stats.AllocFailures++
		return Allocation{}, fmt.Errorf("%w: %s", ErrInvalidOwner, owner)
	}

	idx := m.bestFit(size)
	if idx < 0 {
		m.stats.AllocFailures++
		logger.Debug("alloc failed", "owner", owner, "size", size, "largest_free", m.largestFree())
		return Allocation{}, fmt.Errorf("%w: need %d KB, largest free block is %d KB",
			ErrOutOfMemory, size, m.largestFree())
	}

	rem := m.blocks[idx].Size - size
	if rem >= m.cfg.MinBlockSize {
		// Reserve the slot for the tail first so a failed grow cannot leave
		// the selected block shrunk without its tail.
		m.blocks = slices.Grow(m.blocks, 1)
		if m.onSplit != nil {
			m.onSplit()
		}

		addr := m.blocks[idx].Address
		m.blocks[idx].Size = size
		m.blocks = slices.Insert(m.blocks, idx+1, Block{
			Address: addr + size,
			Size:    rem,
		})
		m.stats.SplitCount++
		m.markDirty(addr+size, rem)
		logger.Debug("split", "addr", addr, "size", size, "tail", rem)
	} else if rem > 0 {
		m.stats.AbsorbCount++
		logger.Debug("absorb", "addr", m.blocks[idx].Address, "size", size, "absorbed", rem)
	}

	b := &m.blocks[idx]
	b.Allocated = true
	b.Owner = owner
	b.Requested = size

	m.used += b.Size
	m.requested += size
	if owner.IsProcess() {
		m.blockCount++
		// Spawn must never hand out an id already chosen by a caller.
		if owner >= m.nextOwner {
			m.nextOwner = owner + 1
		}
	}
	m.markDirty(b.Address, b.Size)

	logger.Debug("alloc", "owner", owner, "addr", b.Address, "size", b.Size, "requested", size)

	return Allocation{
		Owner:     owner,
		Address:   b.Address,
		Size:      b.Size,
		Requested: size,
	}, nil
}

// bestFit returns the index of the tightest free block >= size, or -1.
func (m *Manager) bestFit(size int) int {
	best, bestExtra := -1, 0
	for i, b := range m.blocks {
		if b.Allocated || b.Size < size {
			continue
		}
		extra := b.Size - size
		if best < 0 || extra < bestExtra {
			best, bestExtra = i, extra
			if extra == 0 {
				// Nothing can beat an exact fit, and earlier wins ties.
				break
			}
		}
	}
	return best
}

// Release frees every block held by owner, then coalesces the list.
//
// Returns ErrInvalidOwner for System or negative ids and ErrOwnerNotFound
// when owner holds nothing; neither modifies any state.
func (m *Manager) Release(owner Owner) (Released, error) {
	m.stats.ReleaseCalls++

	if !owner.IsProcess() {
		return Released{}, fmt.Errorf("%w: cannot release %s", ErrInvalidOwner, owner)
	}

	r := Released{Owner: owner}
	for i := range m.blocks {
		b := &m.blocks[i]
		if !b.Allocated || b.Owner != owner {
			continue
		}
		r.Size += b.Size
		r.Blocks++
		m.requested -= b.Requested

		b.Allocated = false
		b.Owner = System
		b.Requested = 0
		m.markDirty(b.Address, b.Size)
	}

	if r.Blocks == 0 {
		m.stats.ReleaseMisses++
		return Released{}, fmt.Errorf("%w: %s", ErrOwnerNotFound, owner)
	}

	m.used -= r.Size
	m.blockCount -= r.Blocks
	m.stats.BlocksFreed += r.Blocks

	logger.Debug("release", "owner", owner, "size", r.Size, "blocks", r.Blocks)

	r.Merges = m.Coalesce()
	return r, nil
}

// Coalesce merges every run of adjacent free blocks into its leftmost block
// and returns the number of merges.
//
// One left-to-right pass: after a merge the cursor stays on the grown block,
// so a run of N free blocks collapses in N-1 steps and the whole pass is O(N).
func (m *Manager) Coalesce() int {
	if len(m.blocks) < 2 {
		return 0
	}

	merges := 0
	w := 0
	for r := 1; r < len(m.blocks); r++ {
		cur := &m.blocks[w]
		next := m.blocks[r]
		if !cur.Allocated && !next.Allocated {
			cur.Size += next.Size
			merges++
			m.markDirty(cur.Address, cur.Size)
			continue
		}
		w++
		m.blocks[w] = next
	}

	clear(m.blocks[w+1:])
	m.blocks = m.blocks[:w+1]

	if merges > 0 {
		m.stats.CoalesceMerges += merges
		logger.Debug("coalesce", "merges", merges, "blocks", len(m.blocks))
	}
	return merges
}

// NextOwner returns the owner the next Spawn will use. It is always above
// every process id allocated so far, including ids passed to Allocate.
func (m *Manager) NextOwner() Owner {
	return m.nextOwner
}

// Spawn allocates size KB for a new process owner.
//
// The size must lie within [MinBlockSize, MaxBlockSize]. The owner counter
// only advances when the allocation succeeds.
func (m *Manager) Spawn(size int) (Allocation, error) {
	if !m.cfg.InRange(size) {
		return Allocation{}, fmt.Errorf("%w: %d KB not in [%d, %d]",
			ErrSizeOutOfRange, size, m.cfg.MinBlockSize, m.cfg.MaxBlockSize)
	}

	// Allocate advances nextOwner on success.
	return m.Allocate(m.nextOwner, size)
}

// AllocateStatic reserves StaticSize KB for System. Static regions are
// permanent: Release refuses the System owner.
func (m *Manager) AllocateStatic() (Allocation, error) {
	if m.cfg.StaticSize == 0 {
		m.stats.AllocCalls++
		m.stats.AllocFailures++
		return Allocation{}, fmt.Errorf("%w: static region disabled", ErrInvalidSize)
	}
	return m.Allocate(System, m.cfg.StaticSize)
}

// Stats returns a summary of the current state.
func (m *Manager) Stats() Stats {
	s := Stats{
		Total:      m.cfg.TotalMemory,
		Used:       m.used,
		Free:       m.cfg.TotalMemory - m.used,
		BlockCount: m.blockCount,
		Requested:  m.requested,
	}
	s.InternalFragmentation = s.Used - s.Requested

	for _, b := range m.blocks {
		if b.Allocated {
			continue
		}
		s.FreeBlocks++
		s.LargestFree = max(s.LargestFree, b.Size)
	}
	if s.Free > 0 {
		s.ExternalFragmentation = (1 - float64(s.LargestFree)/float64(s.Free)) * 100
	}
	return s
}

// Snapshot returns a copy of the ordered block list.
func (m *Manager) Snapshot() []Block {
	return slices.Clone(m.blocks)
}

// Len returns the number of blocks (free and allocated).
func (m *Manager) Len() int {
	return len(m.blocks)
}

// Owners returns the distinct process owners currently holding blocks, ascending.
func (m *Manager) Owners() []Owner {
	var owners []Owner
	for _, b := range m.blocks {
		if b.Allocated && b.Owner.IsProcess() {
			owners = append(owners, b.Owner)
		}
	}
	slices.Sort(owners)
	return slices.Compact(owners)
}

// Counters returns the operation counters.
func (m *Manager) Counters() Counters {
	return m.stats
}

// Config returns the configuration the manager was created with.
func (m *Manager) Config() Config {
	return m.cfg
}

func (m *Manager) largestFree() int {
	largest := 0
	for _, b := range m.blocks {
		if !b.Allocated {
			largest = max(largest, b.Size)
		}
	}
	return largest
}

func (m *Manager) markDirty(off, length int) {
	if m.dt != nil {
		m.dt.Add(off, length)
	}
}
