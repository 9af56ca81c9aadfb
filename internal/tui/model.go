// Package tui provides a read-only terminal browser over the shopping list.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hearthward/grocer/internal/list"
	"github.com/hearthward/grocer/internal/model"
)

// grouping selects how the browser buckets items.
type grouping int

const (
	groupNone grouping = iota
	groupStore
	groupCategory
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	boughtStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	priorityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	footerStyle   = lipgloss.NewStyle().Faint(true)
)

// row is one rendered line: either a group header or an item.
type row struct {
	item   *model.ListItem
	header string
}

// Model is the bubbletea model for the list browser.
type Model struct {
	keys   KeyMap
	help   help.Model
	items  []model.ListItem
	rows   []row
	cursor int
	group  grouping
	width  int
	height int
}

// NewModel builds a browser over the given list items.
func NewModel(items []model.ListItem) Model {
	m := Model{
		keys:  DefaultKeyMap(),
		help:  help.New(),
		items: items,
	}
	m.rebuildRows()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.ForceQuit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
		case key.Matches(msg, m.keys.Home):
			m.cursor = m.firstItemRow()
		case key.Matches(msg, m.keys.End):
			m.cursor = m.lastItemRow()
		case key.Matches(msg, m.keys.CycleGroup):
			m.group = (m.group + 1) % 3
			m.rebuildRows()
		case key.Matches(msg, m.keys.ToggleHelp):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	open := 0
	for _, item := range m.items {
		if item.Status.Open() {
			open++
		}
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("Shopping List (%d open / %d total)", open, len(m.items))))
	b.WriteString("\n\n")

	for i, r := range m.rows {
		if r.header != "" {
			b.WriteString(headerStyle.Render(r.header))
			b.WriteString("\n")
			continue
		}
		b.WriteString(m.renderItem(i, r.item))
		b.WriteString("\n")
	}

	if len(m.rows) == 0 {
		b.WriteString(footerStyle.Render("nothing on the list"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderItem(rowIdx int, item *model.ListItem) string {
	cursor := "  "
	if rowIdx == m.cursor {
		cursor = cursorStyle.Render("> ")
	}

	line := item.Name
	if item.Quantity > 1 {
		line = fmt.Sprintf("%s ×%g", line, item.Quantity)
	}
	if item.Unit != "" {
		line += " " + item.Unit
	}
	if item.Priority == model.PriorityHigh {
		line += " " + priorityStyle.Render("!")
	}
	if item.EstimatedPrice > 0 {
		line += footerStyle.Render(fmt.Sprintf("  ~$%.2f", item.EstimatedPrice))
	}

	if item.Status == model.StatusBought {
		line = boughtStyle.Render(line)
	}
	return cursor + line
}

func (m *Model) rebuildRows() {
	m.rows = m.rows[:0]

	switch m.group {
	case groupNone:
		for i := range m.items {
			m.rows = append(m.rows, row{item: &m.items[i]})
		}
	case groupStore:
		for _, g := range list.GroupByStore(m.items) {
			m.appendGroup(g)
		}
	case groupCategory:
		for _, g := range list.GroupByCategory(m.items) {
			m.appendGroup(g)
		}
	}
	m.cursor = m.firstItemRow()
}

func (m *Model) appendGroup(g list.Group) {
	m.rows = append(m.rows, row{header: g.Key})
	for i := range g.Items {
		item := g.Items[i]
		m.rows = append(m.rows, row{item: &item})
	}
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor + delta
	for next >= 0 && next < len(m.rows) && m.rows[next].header != "" {
		next += delta
	}
	if next >= 0 && next < len(m.rows) {
		m.cursor = next
	}
}

func (m Model) firstItemRow() int {
	for i, r := range m.rows {
		if r.header == "" {
			return i
		}
	}
	return 0
}

func (m Model) lastItemRow() int {
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].header == "" {
			return i
		}
	}
	return 0
}
