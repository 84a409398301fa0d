package dirty

// DirtyTracker is the minimal interface for tracking modified address ranges.
//
// The allocator only notifies; it never reads the ranges back. Components that
// render or replay changes use *Tracker directly.
type DirtyTracker interface {
	// Add marks [off, off+length) as modified. Units are KB.
	Add(off, length int)
}
