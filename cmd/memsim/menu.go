package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memsim/internal/logger"
	"github.com/joshuapare/memsim/mem/alloc"
	"github.com/joshuapare/memsim/mem/printer"
)

const menuText = `
=== MEMORY MANAGEMENT MENU ===
1. Initialize static system memory
2. Allocate dynamic memory for a process
3. Release a process's memory
4. Show memory status
5. Show memory map
6. Exit
Select an option: `

func init() {
	rootCmd.AddCommand(newMenuCmd())
}

func newMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Drive the allocator from a numbered menu",
		Long: `The menu command runs the classic interactive simulator: a numbered menu
read from standard input until option 6 or end of input.

Example:
  memsim menu
  printf '1\n2\n100\n5\n6\n' | memsim menu`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			return runMenu(cmd.InOrStdin(), os.Stdout, cfg)
		},
	}
}

// errEndOfInput ends the menu loop when stdin is exhausted.
var errEndOfInput = errors.New("end of input")

// menuInput reads whitespace-separated integers.
type menuInput struct {
	scanner *bufio.Scanner
}

// next reads the next token as an integer. Non-numeric tokens yield ok=false.
func (in *menuInput) next() (n int, ok bool, err error) {
	if !in.scanner.Scan() {
		if err := in.scanner.Err(); err != nil {
			return 0, false, err
		}
		return 0, false, errEndOfInput
	}
	n, convErr := strconv.Atoi(in.scanner.Text())
	return n, convErr == nil, nil
}

func runMenu(r io.Reader, w io.Writer, cfg alloc.Config) error {
	m, err := alloc.New(&cfg, nil)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	in := &menuInput{scanner: scanner}
	p := printer.New(w, printerOptions())

	fmt.Fprintln(w, "Memory management simulator")
	fmt.Fprintln(w, "---------------------------")
	fmt.Fprintf(w, "Memory initialized: %d KB free\n", cfg.TotalMemory)

	for {
		fmt.Fprint(w, menuText)
		option, ok, err := in.next()
		if errors.Is(err, errEndOfInput) {
			fmt.Fprintln(w)
			return nil
		}
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w, "Invalid option")
			continue
		}

		switch option {
		case 1:
			menuStatic(w, m)
		case 2:
			if err := menuAllocate(w, in, m); err != nil {
				return endOrErr(w, err)
			}
		case 3:
			if err := menuRelease(w, in, m); err != nil {
				return endOrErr(w, err)
			}
		case 4:
			fmt.Fprintln(w)
			if err := p.Stats(m.Stats()); err != nil {
				return err
			}
		case 5:
			fmt.Fprintln(w)
			if err := p.Map(m.Snapshot(), cfg.TotalMemory); err != nil {
				return err
			}
		case 6:
			fmt.Fprintln(w, "Exiting simulator...")
			return nil
		default:
			fmt.Fprintln(w, "Invalid option")
		}
	}
}

func endOrErr(w io.Writer, err error) error {
	if errors.Is(err, errEndOfInput) {
		fmt.Fprintln(w)
		return nil
	}
	return err
}

func menuStatic(w io.Writer, m *alloc.Manager) {
	size := m.Config().StaticSize
	fmt.Fprintln(w, "\n--- Static Memory Allocation ---")
	fmt.Fprintf(w, "Allocating %d KB for code and global variables...\n", size)

	a, err := m.AllocateStatic()
	if err != nil {
		logger.Debug("static allocation failed", "error", err)
		fmt.Fprintf(w, "Could not allocate static memory: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Static memory allocated at address %d\n", a.Address)
	fmt.Fprintln(w, "This memory stays allocated for the lifetime of the program")
}

func menuAllocate(w io.Writer, in *menuInput, m *alloc.Manager) error {
	cfg := m.Config()
	fmt.Fprint(w, "Enter the size to allocate (KB): ")
	size, ok, err := in.next()
	if err != nil {
		return err
	}
	if !ok || !cfg.InRange(size) {
		fmt.Fprintf(w, "Size must be between %d and %d KB\n", cfg.MinBlockSize, cfg.MaxBlockSize)
		return nil
	}

	a, err := m.Spawn(size)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return nil
	}
	fmt.Fprintf(w, "Memory allocated for process %d: %d KB at address %d\n", a.Owner.ID(), a.Requested, a.Address)
	return nil
}

func menuRelease(w io.Writer, in *menuInput, m *alloc.Manager) error {
	fmt.Fprint(w, "Enter the process ID to release: ")
	id, ok, err := in.next()
	if err != nil {
		return err
	}
	if !ok || id <= 0 {
		fmt.Fprintln(w, "Error: invalid process ID")
		return nil
	}

	r, err := m.Release(alloc.Process(id))
	switch {
	case errors.Is(err, alloc.ErrOwnerNotFound):
		fmt.Fprintf(w, "No blocks allocated to process %d\n", id)
	case err != nil:
		fmt.Fprintf(w, "Error: %v\n", err)
	default:
		fmt.Fprintf(w, "Process %d: %d KB released (%d block(s))\n", id, r.Size, r.Blocks)
		if r.Merges > 0 {
			fmt.Fprintf(w, "Coalescing complete: %d block(s) merged\n", r.Merges)
		}
	}
	return nil
}
