package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Destructive actions that go through a confirmation dialog
const (
	ConfirmDeleteTask       = "delete-task"
	ConfirmExitWizard       = "exit-wizard"
	ConfirmRetake           = "retake"
	ConfirmDeleteAccount    = "delete-account"
	ConfirmDeleteEnterprise = "delete-enterprise"
	ConfirmRemoveMember     = "remove-member"
	ConfirmRevokeInvitation = "revoke-invitation"
	ConfirmLogout           = "logout"
)

// ConfirmDialog is a confirmation dialog overlay with Yes/No options
type ConfirmDialog struct {
	title    string
	message  string
	action   string
	target   string
	styles   *Styles
	selected bool // true = Yes, false = No
}

// ConfirmResult represents the result of a confirmation dialog
type ConfirmResult struct {
	Action    string
	Target    string
	Confirmed bool
}

// NewConfirmDialog creates a dialog asking to confirm action on target.
// target is an id or empty.
func NewConfirmDialog(title, message, action, target string) *ConfirmDialog {
	return &ConfirmDialog{
		title:   title,
		message: message,
		action:  action,
		target:  target,
		styles:  New(),
	}
}

// Init initializes the dialog
func (c *ConfirmDialog) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (c *ConfirmDialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y":
			return c, c.answer(true)

		case "n", "N", "esc":
			return c, c.answer(false)

		case "enter":
			return c, c.answer(c.selected)

		case "left", "h":
			c.selected = false
			return c, nil

		case "right", "l", "tab":
			c.selected = true
			return c, nil
		}
	}

	return c, nil
}

func (c *ConfirmDialog) answer(yes bool) tea.Cmd {
	key := "no"
	if yes {
		key = "yes"
	}
	result := ConfirmResult{Action: c.action, Target: c.target, Confirmed: yes}
	return func() tea.Msg { return SelectionMsg{Key: key, Value: result} }
}

// View renders the dialog
func (c *ConfirmDialog) View() string {
	var b strings.Builder

	if c.message != "" {
		b.WriteString(c.styles.MenuItem.Render(c.message))
		b.WriteString("\n\n")
	}

	yesStyle := c.styles.MenuItem
	noStyle := c.styles.MenuItem
	if c.selected {
		yesStyle = c.styles.MenuItemActive
	} else {
		noStyle = c.styles.MenuItemActive
	}

	b.WriteString(yesStyle.Render("[Y] Yes") + "    " + noStyle.Render("[N] No"))
	b.WriteString("\n\n")
	b.WriteString(c.styles.Footer.Render("← → / Tab: Switch • Enter: Confirm • Esc: Cancel"))

	return b.String()
}

// Title returns the dialog title
func (c *ConfirmDialog) Title() string {
	return c.title
}

// Size returns the dialog dimensions
func (c *ConfirmDialog) Size() (width, height int) {
	messageLines := len(strings.Split(c.message, "\n"))
	return 60, messageLines + 6
}
