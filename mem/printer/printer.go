// Package printer renders allocator state for humans and machines.
//
// Output formats:
//   - Map: a proportional one-line memory map with a legend
//   - Stats: total/used/free summary, fragmentation in verbose mode
//   - Table: one row per block
//   - JSON: stats and blocks as an indented document
package printer

import (
	"encoding/json"
	"io"

	"github.com/joshuapare/memsim/mem/alloc"
)

// DefaultMapWidth is the number of columns in the memory map.
const DefaultMapWidth = 50

// Options controls printer output.
type Options struct {
	// MapWidth is the number of map columns (DefaultMapWidth if <= 0).
	MapWidth int

	// Color enables lipgloss styling of map segments.
	Color bool

	// Verbose adds fragmentation details to Stats.
	Verbose bool

	// Highlight, when set, marks blocks whose address it reports as changed.
	Highlight func(addr int) bool
}

// Printer writes renderings to an io.Writer.
type Printer struct {
	writer io.Writer
	opts   Options
}

// New creates a printer writing to w.
func New(w io.Writer, opts Options) *Printer {
	if opts.MapWidth <= 0 {
		opts.MapWidth = DefaultMapWidth
	}
	return &Printer{writer: w, opts: opts}
}

// Report is the JSON document written by JSON.
type Report struct {
	Stats  alloc.Stats   `json:"stats"`
	Blocks []alloc.Block `json:"blocks"`
}

// JSON writes stats and blocks as indented JSON.
func (p *Printer) JSON(blocks []alloc.Block, stats alloc.Stats) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(Report{Stats: stats, Blocks: blocks})
}
