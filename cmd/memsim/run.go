package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memsim/internal/script"
	"github.com/joshuapare/memsim/mem/alloc"
	"github.com/joshuapare/memsim/mem/printer"
)

var (
	runEncoding string
	runStrict   bool
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().StringVar(&runEncoding, "encoding", "utf-8", "Script encoding (utf-8, latin1)")
	cmd.Flags().BoolVar(&runStrict, "strict", false, "Stop at the first allocator error")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Run an allocator script",
		Long: `The run command executes a script of allocator commands, one per line.
Allocator errors are reported inline and the script continues unless --strict
is given. Malformed lines stop the run with their line number.

Commands:
  init [total]  static  spawn <size>  alloc <owner> <size>  free <owner>
  coalesce  stats  map  blocks  check

Example:
  memsim run scenario.txt
  memsim run --json scenario.txt
  cat scenario.txt | memsim run -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			return runScript(args, cmd.InOrStdin(), cfg)
		},
	}
	return cmd
}

func runScript(args []string, stdin io.Reader, cfg alloc.Config) error {
	enc, err := script.ParseEncoding(runEncoding)
	if err != nil {
		return err
	}

	src := stdin
	name := "<stdin>"
	if len(args) == 1 && args[0] != "-" {
		name = args[0]
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		src = f
	}

	printVerbose("Parsing script: %s (%s)\n", name, enc)
	cmds, err := script.Parse(src, enc)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	var out io.Writer = os.Stdout
	if quiet || jsonOut {
		out = io.Discard
	}

	runner, err := script.NewRunner(cfg, out, script.Options{
		StopOnError: runStrict,
		Printer:     printerOptions(),
	})
	if err != nil {
		return err
	}

	res, runErr := runner.Run(cmds)
	if runErr != nil {
		return fmt.Errorf("%s: %w", name, runErr)
	}

	m := runner.Manager()
	if jsonOut {
		return printer.New(os.Stdout, printer.Options{}).JSON(m.Snapshot(), m.Stats())
	}

	printVerbose("\nExecuted %d command(s), %d error(s)\n", res.Commands, res.Errors)
	if quiet && res.Errors > 0 {
		printError("%d command(s) failed\n", res.Errors)
	}
	return nil
}
