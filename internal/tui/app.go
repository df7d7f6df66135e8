// Package tui implements a terminal browser for the translated tool
// set: a list of tools with a read-only detail page showing the input
// schema and route of the selected tool.
package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/carelink/openapi-bridge/internal/parser"
	"github.com/carelink/openapi-bridge/internal/tui/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// appKeyMap holds app-level key bindings.
type appKeyMap struct {
	back key.Binding
	quit key.Binding
}

func newAppKeyMap() *appKeyMap {
	return &appKeyMap{
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to list"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
	}
}

// AppModel is the main application model that manages page switching
type AppModel struct {
	list   list.Model
	keys   *appKeyMap
	page   string // "list" or "detail"
	detail string
}

// NewAppModel creates a new AppModel with the provided route tools
func NewAppModel(routeTools []*parser.RouteTool, title string) AppModel {
	items := make([]list.Item, 0, len(routeTools))
	for _, routeTool := range routeTools {
		items = append(items, models.ToolItem{Tool: routeTool})
	}

	l := list.New(items, newItemDelegate(newDelegateKeyMap()), 0, 0)
	l.Title = title
	l.Styles.Title = titleStyle

	return AppModel{
		list: l,
		keys: newAppKeyMap(),
		page: "list",
	}
}

// Init initializes the AppModel
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update handles app-level messages and delegates to the list model
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ShowDetailMsg:
		m.page = "detail"
		m.detail = renderDetail(msg.Item.Tool)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			if m.page == "list" && m.list.FilterState() == list.Filtering {
				break
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.back):
			if m.page == "detail" {
				m.page = "list"
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	if m.page == "detail" {
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the active page
func (m AppModel) View() string {
	if m.page == "detail" {
		return docStyle.Render(m.detail)
	}
	return docStyle.Render(m.list.View())
}

// renderDetail renders the route and input schema of one tool.
func renderDetail(routeTool *parser.RouteTool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(routeTool.Tool.Name))
	b.WriteString("\n\n")
	b.WriteString(detailHeaderStyle.Render(fmt.Sprintf("%s %s", routeTool.RouteConfig.Method, routeTool.RouteConfig.Path)))
	b.WriteString("\n\n")
	b.WriteString(routeTool.RouteConfig.Description)
	b.WriteString("\n\n")
	b.WriteString(detailHeaderStyle.Render("Input schema"))
	b.WriteString("\n")

	schema, err := json.MarshalIndent(routeTool.Tool.InputSchema, "", "  ")
	if err != nil {
		b.WriteString(statusMessageStyle(fmt.Sprintf("failed to render schema: %v", err)))
	} else {
		b.WriteString(string(schema))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("esc back  •  q quit"))
	return b.String()
}
