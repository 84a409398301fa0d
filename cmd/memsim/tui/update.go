package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/memsim/internal/logger"
	"github.com/joshuapare/memsim/internal/script"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.blocks.Width = max(msg.Width-4, 20)
		m.blocks.Height = max(msg.Height-chromeHeight, 3)
		m.refreshBlocks()
		return m, nil

	case tea.KeyMsg:
		if m.inputMode != NormalMode {
			return m.handleInputMode(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help; quit still quits.
		m.showHelp = false
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.Static):
		m.exec(script.Command{Op: script.OpStatic})

	case key.Matches(msg, m.keys.Coalesce):
		m.exec(script.Command{Op: script.OpCoalesce})

	case key.Matches(msg, m.keys.Reset):
		m.exec(script.Command{Op: script.OpInit})

	case key.Matches(msg, m.keys.Check):
		m.exec(script.Command{Op: script.OpCheck})

	case key.Matches(msg, m.keys.Spawn):
		m.startInput(SpawnMode)

	case key.Matches(msg, m.keys.Allocate):
		m.startInput(AllocMode)

	case key.Matches(msg, m.keys.Release):
		m.startInput(ReleaseMode)

	case key.Matches(msg, m.keys.Copy):
		if err := m.copyFn(m.plainReport()); err != nil {
			logger.Warn("clipboard write failed", "error", err)
			m.setStatus("copy failed: "+err.Error(), true)
		} else {
			m.setStatus("Copied memory map and stats to clipboard", false)
		}

	case key.Matches(msg, m.keys.Up, m.keys.Down, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.blocks, cmd = m.blocks.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) startInput(mode InputMode) {
	m.inputMode = mode
	m.inputBuffer = ""
}

// handleInputMode handles keys while the prompt line is active.
func (m Model) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = NormalMode
		m.inputBuffer = ""
		return m, nil

	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEnter:
		_, keyword := m.inputMode.prompt()
		line := keyword + " " + strings.TrimSpace(m.inputBuffer)
		m.inputMode = NormalMode
		m.inputBuffer = ""

		cmd, err := script.ParseLine(line)
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.exec(cmd)
		return m, nil

	case tea.KeyBackspace, tea.KeyDelete:
		_, size := utf8.DecodeLastRuneInString(m.inputBuffer)
		m.inputBuffer = m.inputBuffer[:len(m.inputBuffer)-size]
		return m, nil

	case tea.KeySpace:
		m.inputBuffer += " "
		return m, nil

	case tea.KeyRunes:
		m.inputBuffer += string(msg.Runes)
		return m, nil
	}

	return m, nil
}
