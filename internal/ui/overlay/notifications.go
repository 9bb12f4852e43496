package overlay

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/vantage/internal/domain"
)

// SettingType represents the type of a setting
type SettingType int

const (
	// SettingToggle is a boolean on/off setting (Space/Enter to toggle)
	SettingToggle SettingType = iota
	// SettingChoice is a multiple-choice setting (Left/Right to cycle)
	SettingChoice
	// SettingAction is an action that triggers something (Enter to activate)
	SettingAction
	// SettingSeparator is a visual separator (not selectable)
	SettingSeparator
)

// SettingItem represents a single line in a settings menu
type SettingItem struct {
	Key     string
	Label   string
	Type    SettingType
	Value   any
	Choices []string // For SettingChoice type
}

// DigestFrequencies are the accepted digest_frequency values
var DigestFrequencies = []string{"daily", "weekly", "never"}

// NotificationsSavedMsg is emitted when the edited settings are submitted
type NotificationsSavedMsg struct {
	Settings domain.NotificationSettings
}

// NotificationsOverlay edits notification preferences
type NotificationsOverlay struct {
	items  []SettingItem
	cursor int
	styles *Styles
}

// NewNotificationsOverlay creates an editor prefilled from current
func NewNotificationsOverlay(current domain.NotificationSettings) *NotificationsOverlay {
	freq := current.DigestFrequency
	if freq == "" {
		freq = DigestFrequencies[1]
	}
	return &NotificationsOverlay{
		items: []SettingItem{
			{Key: "email_digest", Label: "Email digest", Type: SettingToggle, Value: current.EmailDigest},
			{Key: "digest_frequency", Label: "Digest frequency", Type: SettingChoice, Value: freq, Choices: DigestFrequencies},
			{Key: "task_assigned", Label: "Action assigned to me", Type: SettingToggle, Value: current.TaskAssigned},
			{Key: "task_due_reminders", Label: "Due date reminders", Type: SettingToggle, Value: current.TaskDueReminders},
			{Key: "assessment_ready", Label: "Assessment report ready", Type: SettingToggle, Value: current.AssessmentReady},
			{Label: "───────────────────", Type: SettingSeparator},
			{Key: "save", Label: "Save preferences", Type: SettingAction},
		},
		styles: New(),
	}
}

// Settings returns the edited preferences
func (m *NotificationsOverlay) Settings() domain.NotificationSettings {
	var s domain.NotificationSettings
	for _, item := range m.items {
		switch item.Key {
		case "email_digest":
			s.EmailDigest, _ = item.Value.(bool)
		case "digest_frequency":
			s.DigestFrequency, _ = item.Value.(string)
		case "task_assigned":
			s.TaskAssigned, _ = item.Value.(bool)
		case "task_due_reminders":
			s.TaskDueReminders, _ = item.Value.(bool)
		case "assessment_ready":
			s.AssessmentReady, _ = item.Value.(bool)
		}
	}
	return s
}

// Init initializes the overlay
func (m *NotificationsOverlay) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *NotificationsOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, closeOverlay

		case "j", "down":
			m.moveCursor(1)

		case "k", "up":
			m.moveCursor(-1)

		case "h", "left":
			m.cycleChoice(-1)

		case "l", "right":
			m.cycleChoice(1)

		case " ", "enter":
			return m, m.activate()

		case "ctrl+s":
			return m, m.save()
		}
	}

	return m, nil
}

// View renders the settings menu
func (m *NotificationsOverlay) View() string {
	var b strings.Builder

	for i, item := range m.items {
		if item.Type == SettingSeparator {
			b.WriteString(m.styles.Separator.Render(item.Label))
			b.WriteString("\n")
			continue
		}

		style := m.styles.MenuItem
		cursor := "  "
		if i == m.cursor {
			style = m.styles.MenuItemActive
			cursor = "▶ "
		}

		var line string
		switch item.Type {
		case SettingToggle:
			box := "[ ]"
			if v, _ := item.Value.(bool); v {
				box = "[●]"
			}
			line = fmt.Sprintf("%s%s %s", cursor, style.Render(box), style.Render(item.Label))

		case SettingChoice:
			v, _ := item.Value.(string)
			line = fmt.Sprintf("%s    %s %s", cursor, style.Render(item.Label), m.styles.MenuKey.Render("< "+v+" >"))

		case SettingAction:
			line = cursor + style.Render("[ "+item.Label+" ]")
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("j/k: navigate • h/l: change • space: toggle • ctrl+s: save • esc: cancel"))

	return b.String()
}

// Title returns the overlay title
func (m *NotificationsOverlay) Title() string {
	return "Notifications"
}

// Size returns the overlay dimensions
func (m *NotificationsOverlay) Size() (width, height int) {
	return 64, len(m.items) + 6
}

// moveCursor skips separators
func (m *NotificationsOverlay) moveCursor(delta int) {
	n := len(m.items)
	for i := 1; i <= n; i++ {
		next := ((m.cursor+delta*i)%n + n) % n
		if m.items[next].Type != SettingSeparator {
			m.cursor = next
			return
		}
	}
}

func (m *NotificationsOverlay) activate() tea.Cmd {
	item := &m.items[m.cursor]
	switch item.Type {
	case SettingToggle:
		v, _ := item.Value.(bool)
		item.Value = !v
	case SettingChoice:
		m.cycleChoice(1)
	case SettingAction:
		return m.save()
	}
	return nil
}

// cycleChoice moves through Choices, wrapping around
func (m *NotificationsOverlay) cycleChoice(delta int) {
	item := &m.items[m.cursor]
	if item.Type != SettingChoice || len(item.Choices) == 0 {
		return
	}

	current := -1
	if v, ok := item.Value.(string); ok {
		for i, choice := range item.Choices {
			if choice == v {
				current = i
				break
			}
		}
	}
	if current < 0 && delta < 0 {
		current = 0
	}
	n := len(item.Choices)
	item.Value = item.Choices[((current+delta)%n+n)%n]
}

func (m *NotificationsOverlay) save() tea.Cmd {
	settings := m.Settings()
	return tea.Batch(
		func() tea.Msg { return NotificationsSavedMsg{Settings: settings} },
		closeOverlay,
	)
}
