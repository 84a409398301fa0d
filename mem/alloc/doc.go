// Package alloc simulates a contiguous heap allocator over a fixed address space.
//
// # Overview
//
// The address space [0, TotalMemory) is measured in KB and kept as an ordered
// list of blocks with no gaps and no overlaps. Each block is either free or
// allocated to an Owner: System for static regions, Process(id) for everything
// else.
//
// # Operations
//
//   - New(cfg, dt): one free block spanning the whole space
//   - Allocate(owner, size): best-fit, split or absorb the leftover
//   - Release(owner): free every block of owner, then Coalesce
//   - Coalesce(): merge adjacent free blocks in one pass
//   - Stats(), Snapshot(), Counters(): read-only queries
//
// Spawn and AllocateStatic are the process-level helpers the CLI uses: Spawn
// range-checks the request and hands out increasing owner ids, AllocateStatic
// reserves the permanent system region.
//
// # Usage Example
//
//	dt := dirty.NewTracker(1)
//	m, err := alloc.New(nil, dt)
//	if err != nil {
//	    return err
//	}
//
//	a, err := m.Allocate(alloc.Process(1), 100) // {Address: 0, Size: 100}
//	if errors.Is(err, alloc.ErrOutOfMemory) {
//	    // no free block large enough; nothing changed
//	}
//
//	r, err := m.Release(alloc.Process(1)) // frees and coalesces
//
// # Best Fit
//
// Allocate scans every free block and picks the one leaving the smallest
// remainder; equal remainders go to the lowest address. With the default
// MinBlockSize of 4 KB:
//
//	free [10][4][7], request 6 -> the 7 KB block, remainder 1 < 4 is absorbed
//	free [10][4][7], request 2 -> the 4 KB block, remainder 2 < 4 is absorbed
//	free [100],      request 60 -> split into [60 alloc][40 free]
//
// # Accounting
//
// Used always equals the sum of allocated block sizes, including absorbed
// remainders. Requested tracks what owners asked for, so
// Used-Requested is the internal fragmentation.
//
// # Thread Safety
//
// Manager is not thread-safe. Locked wraps a Manager behind a single mutex
// held for the duration of each call.
package alloc
