package dirty

import "sort"

// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
const defaultRangeCapacity = 64

// Range is a modified address range in KB.
type Range struct {
	Off int `json:"off"`
	Len int `json:"len"`
}

// End returns the first address past the range.
func (r Range) End() int { return r.Off + r.Len }

// Tracker accumulates dirty ranges.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	ranges      []Range
	granularity int
}

// NewTracker creates a tracker that aligns ranges to granularity KB when
// they are read back. A granularity below 1 is treated as 1 (no alignment).
func NewTracker(granularity int) *Tracker {
	if granularity < 1 {
		granularity = 1
	}
	return &Tracker{
		ranges:      make([]Range, 0, defaultRangeCapacity),
		granularity: granularity,
	}
}

// Add records a dirty range. Empty and negative lengths are ignored.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{Off: off, Len: length})
}

// Len returns the number of raw ranges recorded since the last Reset.
func (t *Tracker) Len() int { return len(t.ranges) }

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// Ranges returns the aligned, sorted, merged dirty ranges.
func (t *Tracker) Ranges() []Range {
	return t.coalesce()
}

// Contains reports whether addr falls inside any dirty range.
func (t *Tracker) Contains(addr int) bool {
	for _, r := range t.coalesce() {
		if addr >= r.Off && addr < r.End() {
			return true
		}
	}
	return false
}

// DebugRanges returns a copy of the raw, unmerged ranges.
func (t *Tracker) DebugRanges() []Range {
	result := make([]Range, len(t.ranges))
	copy(result, t.ranges)
	return result
}

func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	g := t.granularity
	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / g) * g
		end := r.End()
		if end%g != 0 {
			end = ((end / g) + 1) * g
		}
		aligned[i] = Range{Off: start, Len: end - start}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= current.End() {
			if next.End() > current.End() {
				current.Len = next.End() - current.Off
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}
