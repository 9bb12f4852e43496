// Package overlay holds the modal forms and menus drawn over a screen.
package overlay

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/vantage/internal/domain"
)

// Overlay represents a modal overlay component
type Overlay interface {
	tea.Model
	Title() string
	Size() (width, height int)
}

// CloseOverlayMsg signals that the overlay should be closed
type CloseOverlayMsg struct{}

// SelectionMsg is sent when an action is selected
type SelectionMsg struct {
	Key   string
	Value any
}

// InvalidInputMsg reports a form error caught before any request is made.
// The overlay stays open.
type InvalidInputMsg struct {
	Err *domain.ValidationError
}

func invalid(field, message string) tea.Cmd {
	return func() tea.Msg {
		return InvalidInputMsg{Err: &domain.ValidationError{Field: field, Message: message}}
	}
}

func closeOverlay() tea.Msg { return CloseOverlayMsg{} }
