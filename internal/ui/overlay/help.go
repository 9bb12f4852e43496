package overlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyCategory groups the bindings of one screen area
type KeyCategory struct {
	Name     string
	Bindings []key.Binding
}

// HelpOverlay displays keybinding reference
type HelpOverlay struct {
	categories []KeyCategory
	help       help.Model
	styles     *Styles
	scroll     int
	maxScroll  int
	viewHeight int
}

// NewHelpOverlay creates a help overlay for the given categories
func NewHelpOverlay(categories []KeyCategory) *HelpOverlay {
	s := New()
	h := help.New()
	h.FullSeparator = "  "
	h.Styles.FullKey = s.MenuKey
	h.Styles.FullDesc = s.MenuItem
	h.Styles.FullSeparator = s.Separator

	return &HelpOverlay{
		categories: categories,
		help:       h,
		styles:     s,
		viewHeight: 20,
	}
}

// Init initializes the overlay
func (h *HelpOverlay) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (h *HelpOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "?":
			return h, closeOverlay

		case "j", "down":
			if h.scroll < h.maxScroll {
				h.scroll++
			}

		case "k", "up":
			if h.scroll > 0 {
				h.scroll--
			}

		case "g":
			h.scroll = 0

		case "G":
			h.scroll = h.maxScroll
		}
	}

	return h, nil
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	var content strings.Builder
	for i, cat := range h.categories {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(h.styles.Section.Render(cat.Name + ":"))
		content.WriteString("\n")

		// rows come back as one block; indent each line
		if rows := h.help.FullHelpView([][]key.Binding{cat.Bindings}); rows != "" {
			for _, row := range strings.Split(rows, "\n") {
				content.WriteString("  " + row + "\n")
			}
		}
	}

	lines := strings.Split(strings.TrimRight(content.String(), "\n"), "\n")
	h.maxScroll = max(0, len(lines)-h.viewHeight)
	h.scroll = min(h.scroll, h.maxScroll)

	end := min(h.scroll+h.viewHeight, len(lines))
	result := strings.Join(lines[h.scroll:end], "\n")

	if h.maxScroll > 0 {
		result += "\n\n" + h.styles.Footer.Render("[j/k to scroll, g/G to jump]")
	}

	return result
}

// Title returns the overlay title
func (h *HelpOverlay) Title() string {
	return "Help"
}

// Size returns the overlay dimensions
func (h *HelpOverlay) Size() (width, height int) {
	return 50, 24
}
