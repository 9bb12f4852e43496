package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/vantage/internal/domain"
)

// Action represents a menu action
type Action struct {
	Key     string
	Label   string
	Enabled bool
}

// ActionMenu is a menu overlay for a single action item
type ActionMenu struct {
	task    domain.Task
	actions []Action
	cursor  int
	styles  *Styles
}

// NewActionMenu creates a new action menu for the given task
func NewActionMenu(task domain.Task) *ActionMenu {
	menu := &ActionMenu{
		task:   task,
		styles: New(),
	}
	menu.actions = menu.buildActions()
	return menu
}

func (m *ActionMenu) buildActions() []Action {
	col := m.task.Column
	return []Action{
		{Key: "enter", Label: "Show details", Enabled: true},
		{Key: "e", Label: "Edit action", Enabled: true},
		{Key: "", Label: "───────────────────", Enabled: false},
		{Key: "h", Label: "Move left", Enabled: col.Index() > 0},
		{Key: "l", Label: "Move right", Enabled: col.Index() < len(domain.Columns)-1},
		{Key: "m", Label: "Pick up to reorder", Enabled: true},
		{Key: "", Label: "───────────────────", Enabled: false},
		{Key: "d", Label: "Delete action", Enabled: true},
	}
}

// Task returns the task the menu acts on
func (m *ActionMenu) Task() domain.Task {
	return m.task
}

// Init initializes the menu
func (m *ActionMenu) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *ActionMenu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, closeOverlay

		case "j", "down":
			m.moveCursor(1)
			return m, nil

		case "k", "up":
			m.moveCursor(-1)
			return m, nil

		case "enter", " ":
			return m, m.selectAt(m.cursor)

		default:
			for i, action := range m.actions {
				if action.Key == msg.String() {
					return m, m.selectAt(i)
				}
			}
		}
	}

	return m, nil
}

// View renders the menu
func (m *ActionMenu) View() string {
	var b strings.Builder

	for i, action := range m.actions {
		if action.Key == "" {
			b.WriteString(m.styles.Separator.Render(action.Label))
			b.WriteString("\n")
			continue
		}

		style, keyStyle := m.styles.MenuItem, m.styles.MenuKey
		if !action.Enabled {
			style = m.styles.MenuItemDisabled
			keyStyle = m.styles.MenuKeyDisabled
		} else if i == m.cursor {
			style = m.styles.MenuItemActive
		}

		key := action.Key
		if key == "enter" {
			key = "⏎"
		}
		b.WriteString(keyStyle.Render("["+key+"]") + " " + style.Render(action.Label))
		b.WriteString("\n")
	}

	return b.String()
}

// Title returns the overlay title
func (m *ActionMenu) Title() string {
	return "Actions"
}

// Size returns the overlay dimensions
func (m *ActionMenu) Size() (width, height int) {
	return 36, len(m.actions) + 4
}

// moveCursor skips separators and disabled actions
func (m *ActionMenu) moveCursor(delta int) {
	n := len(m.actions)
	for i := 1; i <= n; i++ {
		next := ((m.cursor+delta*i)%n + n) % n
		if m.actions[next].Enabled && m.actions[next].Key != "" {
			m.cursor = next
			return
		}
	}
}

func (m *ActionMenu) selectAt(i int) tea.Cmd {
	if i < 0 || i >= len(m.actions) {
		return nil
	}
	action := m.actions[i]
	if !action.Enabled || action.Key == "" {
		return nil
	}
	return func() tea.Msg {
		return SelectionMsg{Key: action.Key, Value: action}
	}
}
