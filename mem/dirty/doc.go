// Package dirty tracks which parts of the simulated address space were
// touched by allocator operations.
//
// The allocator reports every block header it rewrites (allocation, split
// tail, release, merge) through the DirtyTracker interface. A Tracker keeps
// the raw ranges and, on demand, returns them aligned to a granularity,
// sorted and merged so overlapping or adjacent ranges become one.
//
// # Usage
//
//	dt := dirty.NewTracker(4) // align to 4 KB blocks
//	m, err := alloc.New(nil, dt)
//	...
//	m.Allocate(alloc.Process(1), 100)
//	for _, r := range dt.Ranges() {
//	    fmt.Printf("changed [%d, %d)\n", r.Off, r.End())
//	}
//	dt.Reset()
//
// The printer and the TUI use the merged ranges to highlight the blocks the
// last operation changed.
//
// Tracker is NOT thread-safe.
package dirty
