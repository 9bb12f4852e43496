package statusbar

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/vantage/internal/types"
	"github.com/riordanpawley/vantage/internal/ui/styles"
)

// StatusBar represents the status bar at the bottom of the TUI
type StatusBar struct {
	screen types.Screen
	width  int
	styles *styles.Styles
	hints  string
	info   string
}

// New creates a new StatusBar with the given screen, width, and styles
func New(screen types.Screen, width int, styles *styles.Styles) StatusBar {
	return StatusBar{
		screen: screen,
		width:  width,
		styles: styles,
		hints:  GetHints(screen),
	}
}

// WithHints replaces the screen's default key hints
func (sb StatusBar) WithHints(hints string) StatusBar {
	sb.hints = hints
	return sb
}

// WithInfo sets the right-aligned text, e.g. the signed-in user
func (sb StatusBar) WithInfo(info string) StatusBar {
	sb.info = info
	return sb
}

// Render renders the status bar as a string
func (sb StatusBar) Render() string {
	modeBadge := sb.styles.StatusMode.Render(" " + sb.screen.String() + " ")

	content := modeBadge
	if sb.hints != "" {
		separator := sb.styles.StatusHint.Render(" │ ")
		content = lipgloss.JoinHorizontal(lipgloss.Left, modeBadge, separator, sb.styles.StatusHint.Render(sb.hints))
	}

	if sb.info != "" {
		info := sb.styles.StatusInfo.Render(sb.info)
		// status bar padding takes 2 cells
		gap := sb.width - 2 - ansi.StringWidth(content) - ansi.StringWidth(info)
		if gap >= 1 {
			content = lipgloss.JoinHorizontal(lipgloss.Left, content, lipgloss.NewStyle().Width(gap).Render(""), info)
		}
	}

	return sb.styles.StatusBar.Width(sb.width).Render(content)
}
