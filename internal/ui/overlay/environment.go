package overlay

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// EnvironmentSelectedMsg is sent when a backend environment is chosen
type EnvironmentSelectedMsg struct {
	Name string
	URL  string
}

// EnvironmentPicker switches the API base URL between configured
// environments before signing in
type EnvironmentPicker struct {
	names   []string
	urls    map[string]string
	current string
	cursor  int
	styles  *Styles
}

// NewEnvironmentPicker lists environments by name. current is the active
// base URL.
func NewEnvironmentPicker(environments map[string]string, current string) *EnvironmentPicker {
	names := make([]string, 0, len(environments))
	for name := range environments {
		names = append(names, name)
	}
	slices.Sort(names)

	p := &EnvironmentPicker{
		names:   names,
		urls:    environments,
		current: current,
		styles:  New(),
	}
	for i, name := range names {
		if environments[name] == current {
			p.cursor = i
		}
	}
	return p
}

// Init initializes the overlay
func (p *EnvironmentPicker) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (p *EnvironmentPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch key.String() {
	case "esc", "q":
		return p, closeOverlay

	case "j", "down":
		if p.cursor < len(p.names)-1 {
			p.cursor++
		}

	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}

	case "enter":
		if len(p.names) == 0 {
			return p, closeOverlay
		}
		name := p.names[p.cursor]
		selected := EnvironmentSelectedMsg{Name: name, URL: p.urls[name]}
		return p, tea.Batch(
			func() tea.Msg { return selected },
			closeOverlay,
		)
	}

	return p, nil
}

// View renders the environment list
func (p *EnvironmentPicker) View() string {
	var b strings.Builder

	if len(p.names) == 0 {
		b.WriteString(p.styles.MenuItem.Render("No environments configured"))
		b.WriteString("\n\n")
		b.WriteString(p.styles.Footer.Render(`Add them under "environments" in .vantage.json • esc: close`))
		return b.String()
	}

	for i, name := range p.names {
		style := p.styles.MenuItem
		if i == p.cursor {
			style = p.styles.MenuItemActive
		}

		line := name
		if p.urls[name] == p.current {
			line += " " + p.styles.MenuKey.Render("[current]")
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
		b.WriteString(p.styles.Footer.UnsetMarginTop().Render("  " + p.urls[name]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.styles.Footer.Render("enter: switch • esc: close"))

	return b.String()
}

// Title returns the overlay title
func (p *EnvironmentPicker) Title() string {
	return "Environments"
}

// Size returns the overlay dimensions
func (p *EnvironmentPicker) Size() (width, height int) {
	return 70, max(10, len(p.names)*2+6)
}
