package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the list-mode bindings. It implements help.KeyMap.
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	Delete     key.Binding
	Edit       key.Binding
	Grab       key.Binding
	Add        key.Binding
	Clear      key.Binding
	All        key.Binding
	Completed  key.Binding
	Incomplete key.Binding
	Help       key.Binding
	Quit       key.Binding

	// Form and grab mode.
	Submit    key.Binding
	Cancel    key.Binding
	NextField key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space/x", "toggle"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Grab: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear all"),
		),
		All: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "all"),
		),
		Completed: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "completed"),
		),
		Incomplete: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "incomplete"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch field"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Edit, k.Delete, k.Grab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Toggle, k.Edit, k.Delete, k.Grab},
		{k.Add, k.Clear},
		{k.All, k.Completed, k.Incomplete},
		{k.Help, k.Quit},
	}
}

// formKeys are shown while the add form or edit input has focus.
type formKeys struct {
	keyMap
	withTab bool
}

func (f formKeys) ShortHelp() []key.Binding {
	if f.withTab {
		return []key.Binding{f.Submit, f.NextField, f.Cancel}
	}
	return []key.Binding{f.Submit, f.Cancel}
}

func (f formKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{f.ShortHelp()}
}

// grabKeys are shown while a task is held.
type grabKeys struct{ keyMap }

func (g grabKeys) ShortHelp() []key.Binding {
	return []key.Binding{g.Up, g.Down, key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")), g.Cancel}
}

func (g grabKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{g.ShortHelp()}
}
