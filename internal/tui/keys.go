package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	Add       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	SelectAll key.Binding
	Login     key.Binding
	Refresh   key.Binding
	Scan      key.Binding
	Settings  key.Binding
	Home      key.Binding
	Enter     key.Binding
	Escape    key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle select")),
	Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add account")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit list")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	SelectAll: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "select all")),
	Login:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "batch login")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "check status")),
	Scan:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scan")),
	Settings:  key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
	Home:      key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "home")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
