package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/joshuapare/memsim/cmd/memsim/tui"
	"github.com/joshuapare/memsim/internal/logger"
)

const tuiCmdName = "tui"

func init() {
	rootCmd.AddCommand(newTUICmd())
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   tuiCmdName,
		Short: "Explore the allocator interactively",
		Long: `The tui command opens a full-screen explorer with a live memory map,
statistics and the block table. Press ? inside for the key bindings.

With --debug, logs go to ~/.memsim/logs instead of the terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}

			m, err := tui.NewModel(cfg)
			if err != nil {
				return err
			}

			logger.Info("starting tui", "config", cfg.Name, "total", cfg.TotalMemory)
			p := tea.NewProgram(m, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				logger.Error("TUI error", "error", err)
				return fmt.Errorf("running TUI: %w", err)
			}
			return nil
		},
	}
}
