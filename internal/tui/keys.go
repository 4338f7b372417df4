package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the view reacts to
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Grab     key.Binding
	Drop     key.Binding
	Toggle   key.Binding
	Edit     key.Binding
	Delete   key.Binding
	New      key.Binding
	Filter   key.Binding
	Quit     key.Binding

	// Form
	Submit    key.Binding
	NextField key.Binding
	PrevField key.Binding
	Cancel    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("j/k", "navigate"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("J/K", "move"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
		),
		Grab: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "grab"),
		),
		Drop: key.NewBinding(
			key.WithKeys("m", "enter", "esc"),
			key.WithHelp("m/enter", "drop"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x", "done"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		New: key.NewBinding(
			key.WithKeys("a", "n", "tab"),
			key.WithHelp("a", "add"),
		),
		Filter: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "show completed"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to list"),
		),
	}
}

func (k keyMap) listBindings() []key.Binding {
	return []key.Binding{k.Up, k.New, k.Edit, k.Delete, k.Toggle, k.MoveUp, k.Grab, k.Filter, k.Quit}
}

func (k keyMap) grabBindings() []key.Binding {
	return []key.Binding{k.Up, k.Drop}
}

func (k keyMap) formBindings() []key.Binding {
	return []key.Binding{k.NextField, k.PrevField, k.Submit, k.Cancel}
}
