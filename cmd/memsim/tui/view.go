package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/joshuapare/memsim/internal/units"
	"github.com/joshuapare/memsim/mem/printer"
)

// View renders the entire UI
func (m Model) View() string {
	if m.showHelp {
		help := helpModel{keys: m.keys}
		return overlay.New(help, mainView{model: &m}, overlay.Center, overlay.Center, 0, 0).View()
	}
	return m.renderMain()
}

func (m Model) renderMain() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderMap(),
		m.renderStats(),
		paneStyle.Render(m.blocks.View()),
		m.renderStatus(),
	)
}

func (m Model) renderHeader() string {
	cfg := m.Manager().Config()
	info := fmt.Sprintf("%s: %s, blocks %d-%d KB, static %d KB",
		cfg.Name, units.KB(cfg.TotalMemory), cfg.MinBlockSize, cfg.MaxBlockSize, cfg.StaticSize)
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		headerStyle.Render("Memory Allocator Simulator"),
		"  ",
		configStyle.Render(info),
	)
}

func (m Model) renderMap() string {
	mgr := m.Manager()
	p := printer.New(nil, printer.Options{
		Color:     true,
		Highlight: m.runner.Dirty().Contains,
	})
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		paneTitleStyle.Render("Memory map"),
		p.MapString(mgr.Snapshot(), mgr.Config().TotalMemory),
		statusStyle.Render(printer.Legend),
	)
	return paneStyle.Render(body)
}

func (m Model) renderStats() string {
	var sb strings.Builder
	if err := printer.New(&sb, printer.Options{Verbose: true}).Stats(m.Manager().Stats()); err != nil {
		return errorStyle.Render(err.Error())
	}
	return paneStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

func (m Model) renderBlocks() string {
	var sb strings.Builder
	if err := printer.New(&sb, printer.Options{}).Table(m.Manager().Snapshot()); err != nil {
		return err.Error()
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) renderStatus() string {
	if m.inputMode != NormalMode {
		label, _ := m.inputMode.prompt()
		return promptStyle.Render(label) + m.inputBuffer + "█"
	}
	if m.statusErr {
		return errorStyle.Render(m.statusMessage)
	}
	return statusOKStyle.Render(m.statusMessage)
}

// plainReport is the uncolored map and stats, used for the clipboard.
func (m Model) plainReport() string {
	mgr := m.Manager()
	var sb strings.Builder
	p := printer.New(&sb, printer.Options{})
	if err := p.Map(mgr.Snapshot(), mgr.Config().TotalMemory); err != nil {
		return err.Error()
	}
	if err := p.Stats(mgr.Stats()); err != nil {
		return err.Error()
	}
	return sb.String()
}

// mainView wraps the main UI for use as the overlay background.
type mainView struct {
	model *Model
}

func (v mainView) Init() tea.Cmd                       { return nil }
func (v mainView) Update(tea.Msg) (tea.Model, tea.Cmd) { return v, nil }
func (v mainView) View() string                        { return v.model.renderMain() }

// helpModel renders the key binding list in the overlay foreground.
type helpModel struct {
	keys KeyMap
}

func (h helpModel) Init() tea.Cmd                       { return nil }
func (h helpModel) Update(tea.Msg) (tea.Model, tea.Cmd) { return h, nil }

func (h helpModel) View() string {
	lines := []string{paneTitleStyle.Render("Keys"), ""}
	for _, b := range h.keys.helpBindings() {
		help := b.Help()
		lines = append(lines, helpKeyStyle.Render(help.Key)+help.Desc)
	}
	lines = append(lines, "", statusStyle.Render("press any key to close"))
	return helpStyle.Render(strings.Join(lines, "\n"))
}
