package alloc

import "strconv"

// Owner identifies the entity a block is allocated for.
//
// System (0) is the static/system owner; positive values are processes.
// Negative values are never valid.
type Owner int

// System owns static allocations. Free blocks also carry System as a
// placeholder, so always check Block.Allocated first.
const System Owner = 0

// Process returns the owner for process id.
func Process(id int) Owner { return Owner(id) }

// IsSystem reports whether o is the static/system owner.
func (o Owner) IsSystem() bool { return o == System }

// IsProcess reports whether o is a real process owner (id > 0).
func (o Owner) IsProcess() bool { return o > 0 }

// ID returns the numeric id (0 for System).
func (o Owner) ID() int { return int(o) }

func (o Owner) String() string {
	switch {
	case o.IsSystem():
		return "system"
	case o.IsProcess():
		return "P" + strconv.Itoa(int(o))
	default:
		return "invalid(" + strconv.Itoa(int(o)) + ")"
	}
}

// Block is a contiguous range of the simulated address space, in KB.
type Block struct {
	Owner     Owner `json:"owner"`
	Size      int   `json:"size"`
	Address   int   `json:"address"`
	Allocated bool  `json:"allocated"`

	// Requested is the size the owner asked for. Size-Requested is internal
	// fragmentation. Always 0 for free blocks.
	Requested int `json:"requested,omitempty"`
}

// End returns the first address past the block.
func (b Block) End() int { return b.Address + b.Size }

// Allocation is the result of a successful Allocate.
type Allocation struct {
	Owner     Owner
	Address   int
	Size      int // final block size (may exceed Requested when the tail was absorbed)
	Requested int
}

// Released is the result of a successful Release.
type Released struct {
	Owner  Owner
	Size   int // KB returned to the free pool
	Blocks int // number of blocks freed
	Merges int // merges performed by the trailing Coalesce
}

// Stats is a point-in-time summary of the allocator state.
type Stats struct {
	Total      int `json:"total"`
	Used       int `json:"used"`
	Free       int `json:"free"`
	BlockCount int `json:"block_count"` // allocated process blocks (static excluded)

	Requested             int     `json:"requested"`
	InternalFragmentation int     `json:"internal_fragmentation"` // Used - Requested
	FreeBlocks            int     `json:"free_blocks"`
	LargestFree           int     `json:"largest_free"`
	ExternalFragmentation float64 `json:"external_fragmentation"` // percent, 1 - LargestFree/Free
}

// Counters holds operation counters for instrumentation and tests.
type Counters struct {
	AllocCalls     int // Allocate calls, including failed ones
	AllocFailures  int // Allocate calls that returned an error
	SplitCount     int // allocations that split off a free tail
	AbsorbCount    int // allocations that kept a sub-threshold tail
	ReleaseCalls   int // Release calls, including failed ones
	ReleaseMisses  int // Release calls with no matching block
	BlocksFreed    int // blocks freed by Release
	CoalesceMerges int // adjacent free pairs merged
}
