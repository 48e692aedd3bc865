// Package keys defines the global keybindings shared by every view.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Day navigation
	PrevDay key.Binding
	NextDay key.Binding
	Today   key.Binding

	// View switching
	Backlog key.Binding

	// Item actions
	New       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Toggle    key.Binding
	Checklist key.Binding
	Schedule  key.Binding

	// Back / Quit
	Help key.Binding
	Back key.Binding
	Quit key.Binding

	// Manual refresh
	Refresh key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "previous day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next day"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "jump to today"),
		),
		Backlog: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "backlog"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new todo"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x/space", "toggle done"),
		),
		Checklist: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "checklist"),
		),
		Schedule: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "schedule for selected day"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Toggle, k.New, k.Backlog, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Back, k.Help, k.Quit},
		{k.PrevDay, k.NextDay, k.Today, k.Backlog},
		{k.New, k.Edit, k.Delete, k.Toggle, k.Checklist, k.Schedule},
		{k.Refresh},
	}
}
