package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding the TUI reacts to
type KeyMap struct {
	// project wide
	NewProject key.Binding
	Save       key.Binding
	SaveAs     key.Binding
	Load       key.Binding
	Undo       key.Binding
	Redo       key.Binding

	// navigation
	NextTab key.Binding
	PrevTab key.Binding
	Up      key.Binding
	Down    key.Binding
	Quit    key.Binding
	Back    key.Binding
	Enter   key.Binding
	Help    key.Binding

	// within a tab
	Add        key.Binding
	AddSubTask key.Binding
	Edit       key.Binding
	Toggle     key.Binding
	Delete     key.Binding
	Focus      key.Binding
}

// DefaultKeyMap returns the default bindings. Terminals cannot report
// ctrl+shift chords, so Save As and Redo have plain ctrl fallbacks.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NewProject: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new project"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		SaveAs: key.NewBinding(
			key.WithKeys("ctrl+shift+s", "ctrl+e"),
			key.WithHelp("ctrl+e", "save as"),
		),
		Load: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "load file"),
		),
		Undo: key.NewBinding(
			key.WithKeys("ctrl+z"),
			key.WithHelp("ctrl+z", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+shift+z", "ctrl+y"),
			key.WithHelp("ctrl+y", "redo"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "confirm"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Add: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a", "add"),
		),
		AddSubTask: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "add sub-task"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Focus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "focus mode"),
		),
	}
}
