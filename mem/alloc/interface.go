package alloc

import "github.com/joshuapare/memsim/mem/dirty"

// DirtyTracker is a type alias for the canonical interface defined in mem/dirty.
type DirtyTracker = dirty.DirtyTracker

// Allocator defines the core block-management operations.
//
// Implementations:
//   - Manager: the block list itself (not thread-safe)
//   - Locked: Manager behind a single mutex
type Allocator interface {
	// Allocate reserves size KB for owner using best-fit.
	Allocate(owner Owner, size int) (Allocation, error)

	// Release frees every block held by owner and coalesces afterwards.
	Release(owner Owner) (Released, error)

	// Coalesce merges runs of adjacent free blocks and returns the merge count.
	Coalesce() int

	// Stats returns a summary of the current state.
	Stats() Stats

	// Snapshot returns a copy of the ordered block list.
	Snapshot() []Block
}

var (
	_ Allocator = (*Manager)(nil)
	_ Allocator = (*Locked)(nil)
)
