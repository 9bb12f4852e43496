package overlay

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/vantage/internal/domain"
)

// FilterMenu is a menu overlay for board filtering. It edits the filter
// in place.
type FilterMenu struct {
	filter     *domain.Filter
	me         string
	selectPrio bool
	styles     *Styles
}

// NewFilterMenu creates a new filter menu. me is the signed-in user id used
// by the "assigned to me" toggle, or empty to hide it.
func NewFilterMenu(filter *domain.Filter, me string) *FilterMenu {
	return &FilterMenu{
		filter: filter,
		me:     me,
		styles: New(),
	}
}

// Init initializes the menu
func (m *FilterMenu) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *FilterMenu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.selectPrio {
		switch key.String() {
		case "esc":
		case "h":
			m.filter.TogglePriority(domain.PriorityHigh)
		case "m":
			m.filter.TogglePriority(domain.PriorityMedium)
		case "l":
			m.filter.TogglePriority(domain.PriorityLow)
		default:
			return m, nil
		}
		m.selectPrio = false
		return m, nil
	}

	switch key.String() {
	case "esc", "q", "enter":
		return m, closeOverlay

	case "p":
		m.selectPrio = true

	case "o":
		m.filter.OverdueOnly = !m.filter.OverdueOnly

	case "a":
		if m.me == "" {
			return m, nil
		}
		if m.filter.Assignee == m.me {
			m.filter.Assignee = ""
		} else {
			m.filter.Assignee = m.me
		}

	case "7":
		m.filter.DueWithinDays = intPtr(7)

	case "3":
		m.filter.DueWithinDays = intPtr(30)

	case "0":
		m.filter.DueWithinDays = nil

	case "c":
		m.filter.Clear()
	}

	return m, nil
}

// View renders the menu
func (m *FilterMenu) View() string {
	var b strings.Builder

	keyStyle := m.styles.MenuKey
	if m.selectPrio {
		keyStyle = m.styles.MenuItemActive
	}
	b.WriteString(keyStyle.Render("[p]") + " " + m.styles.MenuItem.Render("Priority:") + " ")
	b.WriteString(m.renderOptions([]filterOption{
		{key: "h", label: "High", active: m.filter.Priority[domain.PriorityHigh]},
		{key: "m", label: "Medium", active: m.filter.Priority[domain.PriorityMedium]},
		{key: "l", label: "Low", active: m.filter.Priority[domain.PriorityLow]},
	}))
	b.WriteString("\n")

	b.WriteString(m.styles.Separator.Render(strings.Repeat("─", 39)))
	b.WriteString("\n")

	b.WriteString(m.checkbox("o", "Overdue only", m.filter.OverdueOnly))
	if m.me != "" {
		b.WriteString(m.checkbox("a", "Assigned to me", m.filter.Assignee == m.me))
	}

	b.WriteString(m.styles.Separator.Render(strings.Repeat("─", 39)))
	b.WriteString("\n")

	b.WriteString(m.styles.MenuItem.Render("Due:") + " ")
	b.WriteString(m.renderOptions([]filterOption{
		{key: "7", label: "7d", active: m.dueWindow(7)},
		{key: "3", label: "30d", active: m.dueWindow(30)},
		{key: "0", label: "All", active: m.filter.DueWithinDays == nil},
	}))
	b.WriteString("\n")

	b.WriteString(m.styles.Separator.Render(strings.Repeat("─", 39)))
	b.WriteString("\n")
	b.WriteString(m.styles.MenuKey.Render("[c]") + " " + m.styles.MenuItem.Render("Clear all filters"))
	b.WriteString("\n")

	if m.selectPrio {
		b.WriteString("\n")
		b.WriteString(m.styles.Footer.Render("Press h/m/l to toggle, Esc to cancel"))
	}

	return b.String()
}

// filterOption represents a single filter option
type filterOption struct {
	key    string
	label  string
	active bool
}

func (m *FilterMenu) renderOptions(options []filterOption) string {
	parts := make([]string, len(options))
	for i, opt := range options {
		indicator := " "
		style := m.styles.MenuItem
		if opt.active {
			indicator = "●"
			style = m.styles.MenuItemActive
		}
		parts[i] = style.Render(fmt.Sprintf("[%s%s=%s]", indicator, opt.key, opt.label))
	}
	return strings.Join(parts, " ")
}

func (m *FilterMenu) checkbox(key, label string, on bool) string {
	box := "[ ]"
	if on {
		box = "[●]"
	}
	return m.styles.MenuKey.Render("["+key+"]") + " " + m.styles.MenuItem.Render(box+" "+label) + "\n"
}

func (m *FilterMenu) dueWindow(days int) bool {
	return m.filter.DueWithinDays != nil && *m.filter.DueWithinDays == days
}

// Title returns the overlay title
func (m *FilterMenu) Title() string {
	return "Filter Actions"
}

// Size returns the overlay dimensions
func (m *FilterMenu) Size() (width, height int) {
	return 50, 14
}

func intPtr(i int) *int {
	return &i
}
