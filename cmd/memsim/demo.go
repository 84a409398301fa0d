package main

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memsim/internal/script"
	"github.com/joshuapare/memsim/mem/alloc"
)

// demoScript walks the reference scenario: two allocations, releases in
// both orders of adjacency, and the round trip back to one free block.
const demoScript = `# fresh address space
init
blocks
# P1 takes the front, P2 sits right behind it
alloc 1 100
alloc 2 50
blocks
# P2 still separates the freed block from the tail: no merge
free 1
blocks
# three adjacent free blocks collapse into one
free 2
blocks
# nothing can exceed the address space
alloc 3 %TOTAL%
check
stats
map
`

func init() {
	rootCmd.AddCommand(newDemoCmd())
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in allocation scenario",
		Long: `The demo command runs a short scenario showing best-fit placement,
release without coalescing, release with coalescing and an out-of-memory
request, printing the block table after each step.

Example:
  memsim demo
  memsim demo --total 2048`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			return runDemo(cfg)
		},
	}
}

func runDemo(cfg alloc.Config) error {
	src := strings.ReplaceAll(demoScript, "%TOTAL%", strconv.Itoa(cfg.TotalMemory+1))
	cmds, err := script.Parse(strings.NewReader(src), script.EncodingUTF8)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if quiet || jsonOut {
		out = io.Discard
	}
	runner, err := script.NewRunner(cfg, out, script.Options{Printer: printerOptions()})
	if err != nil {
		return err
	}

	res, err := runner.Run(cmds)
	if err != nil {
		return err
	}

	if jsonOut {
		m := runner.Manager()
		return printJSON(struct {
			Commands int           `json:"commands"`
			Errors   int           `json:"errors"`
			Stats    alloc.Stats   `json:"stats"`
			Blocks   []alloc.Block `json:"blocks"`
		}{res.Commands, res.Errors, m.Stats(), m.Snapshot()})
	}
	printInfo("\nDemo finished: %d command(s), %d expected error(s)\n", res.Commands, res.Errors)
	return nil
}
