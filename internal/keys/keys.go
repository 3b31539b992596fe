// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the answering program.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Controls
	Toggle key.Binding
	Edit   key.Binding
	Commit key.Binding
	Cancel key.Binding

	// Task
	Save   key.Binding
	Reload key.Binding
	Export key.Binding

	// General
	Logs key.Binding
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up", "shift+tab"),
			key.WithHelp("k/↑", "previous control"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down", "tab"),
			key.WithHelp("j/↓", "next control"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "scroll down"),
		),

		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle choice"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit text"),
		),
		Commit: key.NewBinding(
			key.WithKeys("ctrl+s", "esc"),
			key.WithHelp("esc", "finish editing"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "discard edit"),
		),

		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save answers"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload markup"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "show export"),
		),

		Logs: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "debug log"),
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

// EditingKeyMap returns the bindings shown while a text area is focused.
// Only the keys that leave the editor are bound; everything else goes to
// the text area.
func EditingKeyMap() KeyMap {
	km := DefaultKeyMap()
	return KeyMap{Commit: km.Commit, Cancel: km.Cancel}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return enabled(k.Up, k.Down, k.Toggle, k.Edit, k.Commit, k.Save, k.Help, k.Quit)
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		enabled(k.Up, k.Down, k.PageUp, k.PageDown),
		enabled(k.Toggle, k.Edit, k.Commit, k.Cancel),
		enabled(k.Save, k.Reload, k.Export),
		enabled(k.Logs, k.Help, k.Quit),
	}
}

// enabled drops zero-value bindings so partial maps render cleanly.
func enabled(bindings ...key.Binding) []key.Binding {
	out := make([]key.Binding, 0, len(bindings))
	for _, b := range bindings {
		if len(b.Keys()) > 0 && b.Enabled() {
			out = append(out, b)
		}
	}
	return out
}
