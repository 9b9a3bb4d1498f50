package sortable

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keyboard bindings of a sortable list. It satisfies help.KeyMap.
type KeyMap struct {
	CursorUp   key.Binding
	CursorDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	GoToStart  key.Binding
	GoToEnd    key.Binding
	// Grab starts a keyboard drag on the selected row, or drops the row being dragged.
	Grab   key.Binding
	Drop   key.Binding
	Cancel key.Binding
	// MoveUp/MoveDown reorder the selected row by one slot without a held drag.
	MoveUp   key.Binding
	MoveDown key.Binding
	// Left/Right are recognised so they can be passed through untouched.
	Left  key.Binding
	Right key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		CursorUp: key.NewBinding(
			key.WithKeys("up", "k", "ctrl+p"),
			key.WithHelp("↑/k", "up"),
		),
		CursorDown: key.NewBinding(
			key.WithKeys("down", "j", "ctrl+n"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "f"),
			key.WithHelp("pgdn", "page down"),
		),
		GoToStart: key.NewBinding(
			key.WithKeys("home", "g", "<"),
			key.WithHelp("g/home", "start"),
		),
		GoToEnd: key.NewBinding(
			key.WithKeys("end", "G", ">"),
			key.WithHelp("G/end", "end"),
		),
		Grab: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "grab/drop"),
		),
		Drop: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "drop"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel drag"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("shift+up", "ctrl+k", "K"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("shift+down", "ctrl+j", "J"),
			key.WithHelp("J", "move down"),
		),
		Left:  key.NewBinding(key.WithKeys("left", "h")),
		Right: key.NewBinding(key.WithKeys("right", "l")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.CursorUp, k.CursorDown, k.Grab, k.Cancel}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.CursorUp, k.CursorDown, k.PageUp, k.PageDown},
		{k.GoToStart, k.GoToEnd},
		{k.Grab, k.Drop, k.Cancel},
		{k.MoveUp, k.MoveDown},
	}
}
