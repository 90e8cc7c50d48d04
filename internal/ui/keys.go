package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	Confirm   key.Binding
	Swipe     key.Binding
	Unswipe   key.Binding
	Delete    key.Binding
	Copy      key.Binding
	Reload    key.Binding
	AddTask   key.Binding
	Focus     key.Binding
	Back      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "toggle/delete")),
		Swipe:     key.NewBinding(key.WithKeys("x", "left", "h"), key.WithHelp("x", "reveal delete")),
		Unswipe:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "hide delete")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		AddTask:   key.NewBinding(key.WithKeys("a", "n", "/"), key.WithHelp("a", "add")),
		Focus:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch focus")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// listHelp is the help line shown while the list has focus.
func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.AddTask, k.Toggle, k.Swipe, k.Delete, k.Copy, k.Reload, k.Quit}
}

// formHelp is the help line shown while the add form has focus.
func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add task")),
		k.Focus,
		k.Back,
	}
}
