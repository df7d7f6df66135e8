package tui

import (
	"github.com/carelink/openapi-bridge/internal/tui/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ShowDetailMsg asks the app to open the detail page for a tool.
type ShowDetailMsg struct {
	Item models.ToolItem
}

// newItemDelegate returns a list.DefaultDelegate with custom update and help functions.
func newItemDelegate(keys *delegateKeyMap) list.DefaultDelegate {
	d := list.NewDefaultDelegate()

	d.UpdateFunc = func(msg tea.Msg, m *list.Model) tea.Cmd {
		item, ok := m.SelectedItem().(models.ToolItem)
		if !ok {
			return nil
		}

		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch {
			case key.Matches(msg, keys.inspect):
				return func() tea.Msg {
					return ShowDetailMsg{Item: item}
				}
			}
		}
		return nil
	}

	help := []key.Binding{keys.inspect}

	d.ShortHelpFunc = func() []key.Binding {
		return help
	}

	d.FullHelpFunc = func() [][]key.Binding {
		return [][]key.Binding{help}
	}

	return d
}

// delegateKeyMap holds key bindings for list item actions.
type delegateKeyMap struct {
	inspect key.Binding
}

// newDelegateKeyMap creates a new delegateKeyMap with default bindings.
func newDelegateKeyMap() *delegateKeyMap {
	return &delegateKeyMap{
		inspect: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Inspect tool schema"),
		),
	}
}
