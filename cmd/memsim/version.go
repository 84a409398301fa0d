package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=...". rootCmd.Version
// reads the same variable, so --version and the version command agree.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type versionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Built   string `json:"built"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Long: `Print the version, commit and build date. Use --version on the root
command for the version alone, or --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := versionInfo{Version: version, Commit: commit, Built: date}
		if jsonOut {
			return printJSON(info)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "memsim %s\n", info.Version)
		fmt.Fprintf(out, "  commit: %s\n", info.Commit)
		fmt.Fprintf(out, "  built: %s\n", info.Built)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
