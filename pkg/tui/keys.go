package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the bindings of both screens.
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	Appearance key.Binding
	Copy       key.Binding
	Quit       key.Binding
	Interrupt  key.Binding

	NextField key.Binding
	PrevField key.Binding
	Save      key.Binding
	Back      key.Binding
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
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Appearance: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "appearance"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy url"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Interrupt: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down", "enter"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

func (k keyMap) menuHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Appearance, k.Copy, k.Quit}
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.NextField, k.PrevField, k.Save, k.Back}
}
