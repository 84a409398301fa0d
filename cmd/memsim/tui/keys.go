package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	// Allocator operations
	Static   key.Binding
	Spawn    key.Binding
	Allocate key.Binding
	Release  key.Binding
	Coalesce key.Binding
	Reset    key.Binding
	Check    key.Binding

	// Blocks pane
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Misc
	Copy key.Binding
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Static: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "allocate static region"),
		),
		Spawn: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "spawn process (size)"),
		),
		Allocate: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "allocate (owner size)"),
		),
		Release: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "release owner"),
		),
		Coalesce: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "coalesce free blocks"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "re-initialize memory"),
		),
		Check: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "verify invariants"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll blocks up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll blocks down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy map and stats"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// helpBindings lists the bindings shown in the help overlay, in order.
func (k KeyMap) helpBindings() []key.Binding {
	return []key.Binding{
		k.Static, k.Spawn, k.Allocate, k.Release, k.Coalesce, k.Reset, k.Check,
		k.Up, k.Down, k.PageUp, k.PageDown,
		k.Copy, k.Help, k.Quit,
	}
}
