// Package toast renders the notification stack.
package toast

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/vantage/internal/types"
	"github.com/riordanpawley/vantage/internal/ui/styles"
)

// maxWidth caps the toast width
const maxWidth = 40

// ToastRenderer handles rendering of toast notifications
type ToastRenderer struct {
	styles *styles.Styles
}

// New creates a new ToastRenderer with the given styles
func New(styles *styles.Styles) *ToastRenderer {
	return &ToastRenderer{
		styles: styles,
	}
}

// Render stacks toasts vertically, right aligned. Loading toasts are
// prefixed with spinner, the current spinner frame.
// Returns empty string if no toasts to display
func (r *ToastRenderer) Render(toasts []types.Toast, width int, spinner string) string {
	if len(toasts) == 0 {
		return ""
	}

	toastWidth := min(width/3, maxWidth)
	if toastWidth < 16 {
		toastWidth = min(width, 16)
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		msg := t.Message
		if t.Level == types.ToastLoading && spinner != "" {
			msg = spinner + " " + msg
		}
		rendered = append(rendered, r.styleForLevel(t.Level).Width(toastWidth).Render(msg))
	}

	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

// styleForLevel returns the appropriate style for a toast level
func (r *ToastRenderer) styleForLevel(level types.ToastLevel) lipgloss.Style {
	switch level {
	case types.ToastLoading:
		return r.styles.ToastLoading
	case types.ToastSuccess:
		return r.styles.ToastSuccess
	case types.ToastWarning:
		return r.styles.ToastWarning
	case types.ToastError:
		return r.styles.ToastError
	default:
		return r.styles.ToastInfo
	}
}
