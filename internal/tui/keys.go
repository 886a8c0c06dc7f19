package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/temirov/codecollector/internal/selection"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Expand key.Binding
	Select key.Binding
	Finish key.Binding
	Quit   key.Binding
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
		Expand: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "expand/collapse"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Finish: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "finish"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (keys keyMap) bindings() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Expand, keys.Select, keys.Finish, keys.Quit}
}

// event maps a key press to a selection event. Unbound keys report false.
func (keys keyMap) event(msg tea.KeyMsg) (selection.Event, bool) {
	switch {
	case key.Matches(msg, keys.Up):
		return selection.EventMoveUp, true
	case key.Matches(msg, keys.Down):
		return selection.EventMoveDown, true
	case key.Matches(msg, keys.Expand):
		return selection.EventToggleExpand, true
	case key.Matches(msg, keys.Select):
		return selection.EventToggleSelect, true
	case key.Matches(msg, keys.Finish):
		return selection.EventFinish, true
	case key.Matches(msg, keys.Quit):
		return selection.EventQuit, true
	default:
		return 0, false
	}
}
