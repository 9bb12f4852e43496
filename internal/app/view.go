package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/vantage/internal/types"
	"github.com/riordanpawley/vantage/internal/ui/statusbar"
	"github.com/riordanpawley/vantage/internal/ui/toast"
)

// View renders the current state as a string
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	toastView := toast.New(m.styles).Render(m.toasts, m.width, m.spinner.View())
	statusView := m.statusBar()
	bodyHeight := max(0, m.height-lipgloss.Height(statusView)-linesOf(toastView))

	var body string
	if !m.overlayStack.IsEmpty() {
		body = m.renderOverlay(bodyHeight)
	} else {
		body = lipgloss.NewStyle().Padding(1, 2).Render(m.screenView(bodyHeight - 2))
	}
	body = clampLines(lipgloss.Place(m.width, bodyHeight, lipgloss.Left, lipgloss.Top, body), bodyHeight)

	var parts []string
	if bodyHeight > 0 {
		parts = append(parts, body)
	}
	if toastView != "" {
		parts = append(parts, lipgloss.PlaceHorizontal(m.width, lipgloss.Right, toastView))
	}
	parts = append(parts, statusView)
	return clampLines(lipgloss.JoinVertical(lipgloss.Left, parts...), m.height)
}

// linesOf is lipgloss.Height except that an empty string takes no lines
func linesOf(s string) int {
	if s == "" {
		return 0
	}
	return lipgloss.Height(s)
}

// clampLines drops lines past n; lipgloss.Place pads but never cuts
func clampLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:max(0, n)], "\n")
}

func (m Model) screenView(height int) string {
	switch {
	case m.auth != nil:
		return m.viewAuth()
	case m.board != nil:
		return m.viewBoard(height)
	case m.assessments != nil:
		return m.viewAssessments()
	case m.wizard != nil:
		return m.viewWizard()
	case m.settings != nil:
		return m.viewSettings()
	case m.invite != nil:
		return m.viewInvite()
	case m.portal != nil:
		return m.viewPortal()
	}
	return ""
}

// renderOverlay draws the top overlay centered in place of the screen body.
// Overlays with zero width are bars drawn under the body.
func (m Model) renderOverlay(height int) string {
	current := m.overlayStack.Current()
	view := current.View()

	w, h := current.Size()
	if w == 0 {
		under := lipgloss.NewStyle().Padding(1, 2).Render(m.screenView(height - 4))
		under = lipgloss.Place(m.width, max(0, height-lipgloss.Height(view)), lipgloss.Left, lipgloss.Top, under)
		return lipgloss.JoinVertical(lipgloss.Left, under, view)
	}

	if title := current.Title(); title != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, m.styles.OverlayTitle.Render(title), view)
	}
	view = m.styles.Overlay.Width(min(w, m.width-4)).Height(h).Render(view)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, view)
}

func (m Model) statusBar() string {
	sb := statusbar.New(m.screen, m.width, m.styles)
	if m.board != nil && m.board.held != "" {
		sb = sb.WithHints(statusbar.HoldingHints)
	}

	var info []string
	if !m.online {
		info = append(info, "offline")
	}
	if m.profile != nil && !m.screen.Public() {
		info = append(info, m.profile.Email)
	}
	if m.screen == types.ScreenLogin || m.cfg.API.BaseURL != "" && len(m.cfg.Environments) > 1 {
		info = append(info, m.client.BaseURL())
	}
	return sb.WithInfo(strings.Join(info, " • ")).Render()
}
