// Package tui is the interactive memory explorer: a live memory map, stats
// and block table over an allocator, driven by single-key commands.
package tui

import (
	"bytes"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/memsim/internal/logger"
	"github.com/joshuapare/memsim/internal/script"
	"github.com/joshuapare/memsim/mem/alloc"
)

// InputMode is what the prompt line is collecting.
type InputMode int

const (
	NormalMode InputMode = iota
	SpawnMode            // size
	AllocMode            // owner size
	ReleaseMode          // owner
)

// prompt returns the prompt label and the script keyword for an input mode.
func (i InputMode) prompt() (label, keyword string) {
	switch i {
	case SpawnMode:
		return "Spawn size (KB): ", "spawn"
	case AllocMode:
		return "Allocate <owner> <size>: ", "alloc"
	case ReleaseMode:
		return "Release owner: ", "free"
	}
	return "", ""
}

const (
	defaultWidth  = 80
	defaultHeight = 24

	// Rows used by header, map pane, stats pane, status and prompt.
	chromeHeight = 16
)

// Model is the bubbletea model for the explorer.
type Model struct {
	runner *script.Runner
	out    *bytes.Buffer // runner output of the last command

	keys   KeyMap
	blocks viewport.Model

	inputMode   InputMode
	inputBuffer string

	// Status message for temporary feedback
	statusMessage string
	statusErr     bool

	showHelp bool

	width  int
	height int

	// copyFn writes to the system clipboard (swapped in tests)
	copyFn func(string) error
}

// NewModel creates a model over a fresh allocator with cfg.
func NewModel(cfg alloc.Config) (Model, error) {
	out := &bytes.Buffer{}
	runner, err := script.NewRunner(cfg, out, script.Options{})
	if err != nil {
		return Model{}, err
	}

	m := Model{
		runner:        runner,
		out:           out,
		keys:          DefaultKeyMap(),
		blocks:        viewport.New(defaultWidth, defaultHeight-chromeHeight),
		width:         defaultWidth,
		height:        defaultHeight,
		copyFn:        clipboard.WriteAll,
		statusMessage: "Press ? for help",
	}
	m.refreshBlocks()
	return m, nil
}

// Manager returns the allocator behind the model.
func (m Model) Manager() *alloc.Manager {
	return m.runner.Manager()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// exec runs one command through the script runner and turns its output into
// the status line. Dirty ranges are cleared first so the map highlights only
// what this command touched.
func (m *Model) exec(cmd script.Command) {
	m.out.Reset()
	m.runner.Dirty().Reset()

	if err := m.runner.Exec(cmd); err != nil {
		logger.Debug("tui command failed", "op", cmd.Op.String(), "error", err)
		m.setStatus(err.Error(), true)
	} else {
		m.setStatus(string(bytes.TrimSpace(m.out.Bytes())), false)
	}
	m.refreshBlocks()
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMessage = msg
	m.statusErr = isErr
}

func (m *Model) refreshBlocks() {
	m.blocks.SetContent(m.renderBlocks())
}
