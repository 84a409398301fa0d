package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memsim/internal/logger"
	"github.com/joshuapare/memsim/mem/alloc"
	"github.com/joshuapare/memsim/mem/printer"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	noColor bool
	debug   bool

	// Geometry flags
	totalMemory  int
	minBlockSize int
	maxBlockSize int
	staticSize   int
)

// Environment overrides, applied when the matching flag was not set.
const (
	envTotal    = "MEMSIM_TOTAL"
	envMinBlock = "MEMSIM_MIN_BLOCK"
	envMaxBlock = "MEMSIM_MAX_BLOCK"
)

var rootCmd = &cobra.Command{
	Use:   "memsim",
	Short: "Simulate a best-fit memory allocator",
	Long: `memsim simulates a heap allocator over a fixed address space measured
in KB. Blocks are allocated best-fit, released per owner and coalesced with
their free neighbours. Run scripts, drive it from a numbered menu, or explore
it interactively.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging(cmd)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log allocator decisions")

	// Geometry
	def := alloc.DefaultConfig
	rootCmd.PersistentFlags().IntVar(&totalMemory, "total", def.TotalMemory, "Total memory in KB (env "+envTotal+")")
	rootCmd.PersistentFlags().IntVar(&minBlockSize, "min-block", def.MinBlockSize, "Minimum block size and split threshold in KB (env "+envMinBlock+")")
	rootCmd.PersistentFlags().IntVar(&maxBlockSize, "max-block", def.MaxBlockSize, "Maximum process request in KB (env "+envMaxBlock+")")
	rootCmd.PersistentFlags().IntVar(&staticSize, "static", def.StaticSize, "Static region size in KB (0 disables it)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogging enables debug logging. The TUI owns the terminal, so it logs
// to the dated log file instead of stderr.
func initLogging(cmd *cobra.Command) error {
	opts := logger.Options{Enabled: debug, Level: slog.LevelDebug}
	if cmd.Name() != tuiCmdName {
		opts.Writer = os.Stderr
	}
	if err := logger.Init(opts); err != nil {
		printError("failed to init logging: %v\n", err)
	}
	return nil
}

// buildConfig assembles the allocator geometry from flags and environment.
func buildConfig(cmd *cobra.Command) (alloc.Config, error) {
	cfg := alloc.Config{
		Name:         "Custom",
		TotalMemory:  totalMemory,
		MinBlockSize: minBlockSize,
		MaxBlockSize: maxBlockSize,
		StaticSize:   staticSize,
	}

	overrides := []struct {
		flag, env string
		dst       *int
	}{
		{"total", envTotal, &cfg.TotalMemory},
		{"min-block", envMinBlock, &cfg.MinBlockSize},
		{"max-block", envMaxBlock, &cfg.MaxBlockSize},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			continue
		}
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return alloc.Config{}, fmt.Errorf("%s: invalid integer %q", o.env, v)
		}
		*o.dst = n
	}

	if cfg == withName(alloc.DefaultConfig, cfg.Name) {
		cfg.Name = alloc.DefaultConfig.Name
	}
	if err := cfg.Validate(); err != nil {
		return alloc.Config{}, err
	}
	printVerbose("Config: %s, total %d KB, blocks %d-%d KB, static %d KB\n",
		cfg.Name, cfg.TotalMemory, cfg.MinBlockSize, cfg.MaxBlockSize, cfg.StaticSize)
	return cfg, nil
}

func withName(cfg alloc.Config, name string) alloc.Config {
	cfg.Name = name
	return cfg
}

// printerOptions returns the printer options implied by the global flags.
func printerOptions() printer.Options {
	return printer.Options{
		Color:   colorEnabled(),
		Verbose: verbose,
	}
}

// colorEnabled reports whether stdout should get ANSI styling.
func colorEnabled() bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(os.Stdout.Fd())
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
