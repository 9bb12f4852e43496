package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/vantage/internal/domain"
)

// SortOption represents a sort option with metadata
type SortOption struct {
	Key         string
	Label       string
	Field       domain.SortField
	Description string
}

// SortMenu is a menu overlay for sorting configuration
type SortMenu struct {
	sort    *domain.Sort
	options []SortOption
	styles  *Styles
}

// NewSortMenu creates a new sort menu for the given sort state
func NewSortMenu(sort *domain.Sort) *SortMenu {
	return &SortMenu{
		sort:   sort,
		styles: New(),
		options: []SortOption{
			{Key: "b", Label: "Board", Field: domain.SortByPosition, Description: "Manual order"},
			{Key: "p", Label: "Priority", Field: domain.SortByPriority, Description: "High first"},
			{Key: "d", Label: "Due date", Field: domain.SortByDue, Description: "Soonest first, undated last"},
			{Key: "u", Label: "Updated", Field: domain.SortByUpdated, Description: "Oldest first"},
		},
	}
}

// Init initializes the menu
func (m *SortMenu) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *SortMenu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if k := key.String(); k == "esc" || k == "q" {
		return m, closeOverlay
	}

	for _, opt := range m.options {
		if opt.Key != key.String() {
			continue
		}
		if opt.Field == domain.SortByPosition {
			*m.sort = domain.Sort{}
		} else {
			m.sort.Toggle(opt.Field)
		}
		sort := *m.sort
		return m, func() tea.Msg { return SelectionMsg{Key: "sort", Value: sort} }
	}

	return m, nil
}

// View renders the menu
func (m *SortMenu) View() string {
	var b strings.Builder

	for _, opt := range m.options {
		isActive := m.sort.Field == opt.Field

		keyStyle := m.styles.MenuItem
		labelStyle := m.styles.MenuItem
		if isActive {
			keyStyle = m.styles.MenuKey
			labelStyle = m.styles.MenuItemActive
		}

		b.WriteString(keyStyle.Render("[" + opt.Key + "]"))
		b.WriteString(" ")
		b.WriteString(labelStyle.Render(opt.Label))
		b.WriteString(" ")
		b.WriteString(m.styles.Footer.UnsetMarginTop().Render("(" + opt.Description + ")"))

		if isActive && opt.Field != domain.SortByPosition {
			arrow := "↑"
			if m.sort.Order == domain.SortDesc {
				arrow = "↓"
			}
			b.WriteString(" " + m.styles.MenuItemActive.Render("● "+arrow))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("Press same key to toggle direction • Esc to close"))

	return b.String()
}

// Title returns the overlay title
func (m *SortMenu) Title() string {
	return "Sort"
}

// Size returns the overlay dimensions
func (m *SortMenu) Size() (width, height int) {
	return 60, len(m.options) + 5
}
