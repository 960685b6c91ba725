package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit  key.Binding
	Back  key.Binding
	Theme key.Binding

	// List actions
	Load    key.Binding
	Clear   key.Binding
	Create  key.Binding
	AddItem key.Binding
	Details key.Binding
	Edit    key.Binding
	Delete  key.Binding

	// Forms
	Submit    key.Binding
	NextField key.Binding
	PrevField key.Binding

	// Details panel
	OpenPDF    key.Binding
	SavePDF    key.Binding
	DeleteItem key.Binding

	// Confirmation
	Yes key.Binding

	// Movement
	Up   key.Binding
	Down key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	Theme:      key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
	Load:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "load")),
	Clear:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
	Create:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new invoice")),
	AddItem:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add item")),
	Details:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Submit:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	NextField:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	PrevField:  key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
	OpenPDF:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "open PDF")),
	SavePDF:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save PDF")),
	DeleteItem: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete item")),
	Yes:        key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
}
