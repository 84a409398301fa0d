package printer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/joshuapare/memsim/internal/units"
	"github.com/joshuapare/memsim/mem/alloc"
)

const (
	freeGlyph   = '.'
	staticGlyph = 'S'
)

// Legend explains the map glyphs.
const Legend = "Legend: '.' = free, 'S' = static, '0-9' = process id (mod 10)"

var (
	freeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	staticStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD75F")).Bold(true)
	changedStyle = lipgloss.NewStyle().Underline(true)

	processPalette = []lipgloss.Color{
		"#7D56F4", "#5FD7FF", "#87D75F", "#FF875F", "#D75FAF",
		"#5FAFAF", "#AFAF5F", "#FF5F87", "#87AFFF", "#AF87FF",
	}
)

// Glyph returns the map character for a block.
func Glyph(b alloc.Block) rune {
	switch {
	case !b.Allocated:
		return freeGlyph
	case b.Owner.IsSystem():
		return staticGlyph
	default:
		return rune('0' + b.Owner.ID()%10)
	}
}

// MapWidth returns the number of columns a block occupies: proportional to
// its share of total, at least one.
func MapWidth(b alloc.Block, total, width int) int {
	w := b.Size * width / total
	if w < 1 {
		w = 1
	}
	return w
}

// MapString renders the bracketed memory map without heading or legend.
func (p *Printer) MapString(blocks []alloc.Block, total int) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for _, b := range blocks {
		segment := strings.Repeat(string(Glyph(b)), MapWidth(b, total, p.opts.MapWidth))
		if p.opts.Color {
			segment = p.style(b).Render(segment)
		}
		sb.WriteString(segment)
	}
	sb.WriteByte(']')
	return sb.String()
}

func (p *Printer) style(b alloc.Block) lipgloss.Style {
	var s lipgloss.Style
	switch {
	case !b.Allocated:
		s = freeStyle
	case b.Owner.IsSystem():
		s = staticStyle
	default:
		s = lipgloss.NewStyle().Foreground(processPalette[b.Owner.ID()%len(processPalette)])
	}
	if p.opts.Highlight != nil && p.opts.Highlight(b.Address) {
		s = s.Inherit(changedStyle)
	}
	return s
}

// Map writes the memory map with a heading and the legend.
func (p *Printer) Map(blocks []alloc.Block, total int) error {
	_, err := fmt.Fprintf(p.writer, "Memory map (%s total):\n%s\n%s\n",
		units.KB(total), p.MapString(blocks, total), Legend)
	return err
}

// Stats writes the memory status summary.
func (p *Printer) Stats(s alloc.Stats) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Memory status:\n")
	fmt.Fprintf(&sb, "  Total memory:     %s\n", units.KB(s.Total))
	fmt.Fprintf(&sb, "  Used memory:      %s (%s)\n", units.KB(s.Used), units.FormatPercent(s.Used, s.Total))
	fmt.Fprintf(&sb, "  Free memory:      %s (%s)\n", units.KB(s.Free), units.FormatPercent(s.Free, s.Total))
	fmt.Fprintf(&sb, "  Allocated blocks: %s\n", units.Number(s.BlockCount))

	if p.opts.Verbose {
		fmt.Fprintf(&sb, "  Requested:        %s\n", units.KB(s.Requested))
		fmt.Fprintf(&sb, "  Internal frag.:   %s\n", units.KB(s.InternalFragmentation))
		fmt.Fprintf(&sb, "  Free blocks:      %s\n", units.Number(s.FreeBlocks))
		fmt.Fprintf(&sb, "  Largest free:     %s\n", units.KB(s.LargestFree))
		fmt.Fprintf(&sb, "  External frag.:   %.2f%%\n", s.ExternalFragmentation)
	}

	_, err := io.WriteString(p.writer, sb.String())
	return err
}

// Table writes one row per block.
func (p *Printer) Table(blocks []alloc.Block) error {
	tw := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDRESS\tSIZE\tOWNER\tSTATE\tREQUESTED")
	for _, b := range blocks {
		state, owner, requested := "free", "-", "-"
		if b.Allocated {
			state = "allocated"
			owner = b.Owner.String()
			requested = strconv.Itoa(b.Requested)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", b.Address, b.Size, owner, state, requested)
	}
	return tw.Flush()
}
