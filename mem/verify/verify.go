// Package verify provides validation functions for allocator block lists.
// These helpers are used by tests and by the CLI "check" command to ensure
// the block manager invariants are maintained.
package verify

import (
	"fmt"

	"github.com/joshuapare/memsim/mem/alloc"
)

// ValidationError describes one violated invariant.
type ValidationError struct {
	Type    string
	Message string
	Address int // Address where the violation was found (-1 if N/A)
	Details map[string]any
}

func (e *ValidationError) Error() string {
	if e.Address >= 0 {
		return fmt.Sprintf("%s at address %d: %s", e.Type, e.Address, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates every invariant in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(blocks []alloc.Block, stats alloc.Stats) error {
	if err := Partition(blocks, stats.Total); err != nil {
		return err
	}
	if err := Coalesced(blocks); err != nil {
		return err
	}
	return Accounting(blocks, stats)
}

// Partition checks that blocks exactly cover [0, total): positive sizes,
// first block at 0, each block starting where the previous one ends, and the
// last block ending at total.
func Partition(blocks []alloc.Block, total int) error {
	if len(blocks) == 0 {
		return &ValidationError{
			Type:    "Partition",
			Message: "empty block list",
			Address: -1,
		}
	}

	if blocks[0].Address != 0 {
		return &ValidationError{
			Type:    "Partition",
			Message: fmt.Sprintf("first block starts at %d, expected 0", blocks[0].Address),
			Address: blocks[0].Address,
		}
	}

	for i, b := range blocks {
		if b.Size <= 0 {
			return &ValidationError{
				Type:    "Partition",
				Message: fmt.Sprintf("block %d has non-positive size %d", i, b.Size),
				Address: b.Address,
			}
		}
		if i == 0 {
			continue
		}
		prev := blocks[i-1]
		if prev.End() != b.Address {
			kind := "gap"
			if prev.End() > b.Address {
				kind = "overlap"
			}
			return &ValidationError{
				Type:    "Partition",
				Message: fmt.Sprintf("%s between block %d and %d", kind, i-1, i),
				Address: b.Address,
				Details: map[string]any{
					"prev_end": prev.End(),
					"start":    b.Address,
				},
			}
		}
	}

	last := blocks[len(blocks)-1]
	if last.End() != total {
		return &ValidationError{
			Type:    "Partition",
			Message: fmt.Sprintf("last block ends at %d, expected %d", last.End(), total),
			Address: last.Address,
		}
	}
	return nil
}

// Coalesced checks that no two adjacent blocks are both free.
func Coalesced(blocks []alloc.Block) error {
	for i := 1; i < len(blocks); i++ {
		if !blocks[i-1].Allocated && !blocks[i].Allocated {
			return &ValidationError{
				Type:    "Coalesced",
				Message: "adjacent free blocks",
				Address: blocks[i-1].Address,
				Details: map[string]any{
					"left":  blocks[i-1].Size,
					"right": blocks[i].Size,
				},
			}
		}
	}
	return nil
}

// Accounting checks the stats against the block list: used memory equals the
// sum of allocated sizes, free is the complement, and the block count matches
// the allocated process blocks.
func Accounting(blocks []alloc.Block, stats alloc.Stats) error {
	used, count := 0, 0
	for _, b := range blocks {
		if !b.Allocated {
			if b.Requested != 0 {
				return &ValidationError{
					Type:    "Accounting",
					Message: "free block carries a requested size",
					Address: b.Address,
				}
			}
			continue
		}
		if b.Requested > b.Size {
			return &ValidationError{
				Type:    "Accounting",
				Message: fmt.Sprintf("requested %d exceeds block size %d", b.Requested, b.Size),
				Address: b.Address,
			}
		}
		used += b.Size
		if b.Owner.IsProcess() {
			count++
		}
	}

	if used != stats.Used {
		return &ValidationError{
			Type:    "Accounting",
			Message: fmt.Sprintf("used memory %d does not match allocated blocks %d", stats.Used, used),
			Address: -1,
			Details: map[string]any{"stats": stats.Used, "blocks": used},
		}
	}
	if stats.Free != stats.Total-stats.Used {
		return &ValidationError{
			Type:    "Accounting",
			Message: fmt.Sprintf("free memory %d is not total %d minus used %d", stats.Free, stats.Total, stats.Used),
			Address: -1,
		}
	}
	if count != stats.BlockCount {
		return &ValidationError{
			Type:    "Accounting",
			Message: fmt.Sprintf("block count %d does not match %d allocated process blocks", stats.BlockCount, count),
			Address: -1,
		}
	}
	return nil
}
