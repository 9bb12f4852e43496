package overlay

import tea "github.com/charmbracelet/bubbletea"

// Stack holds the open overlays. Only the top one receives input; the board,
// wizard or settings screen underneath keeps its state until the stack empties.
type Stack struct {
	overlays []Overlay
}

// NewStack creates an empty overlay stack
func NewStack() *Stack {
	return &Stack{
		overlays: make([]Overlay, 0),
	}
}

// Push opens o on top of the stack and returns its Init command
func (s *Stack) Push(o Overlay) tea.Cmd {
	s.overlays = append(s.overlays, o)
	return o.Init()
}

// Pop closes and returns the top overlay.
// Returns nil if nothing is open.
func (s *Stack) Pop() Overlay {
	if len(s.overlays) == 0 {
		return nil
	}

	top := s.overlays[len(s.overlays)-1]
	s.overlays = s.overlays[:len(s.overlays)-1]
	return top
}

// Current returns the top overlay without closing it.
// Returns nil if nothing is open.
func (s *Stack) Current() Overlay {
	if len(s.overlays) == 0 {
		return nil
	}
	return s.overlays[len(s.overlays)-1]
}

// Len returns the number of open overlays
func (s *Stack) Len() int {
	return len(s.overlays)
}

// IsEmpty reports whether no overlay is open
func (s *Stack) IsEmpty() bool {
	return len(s.overlays) == 0
}

// Clear closes every overlay, e.g. when the session ends
func (s *Stack) Clear() {
	s.overlays = make([]Overlay, 0)
}

// Update forwards msg to the top overlay. A CloseOverlayMsg closes it instead.
func (s *Stack) Update(msg tea.Msg) tea.Cmd {
	// Nothing open, the screen handles the message
	if s.IsEmpty() {
		return nil
	}

	// Esc and cancel buttons emit CloseOverlayMsg
	if _, ok := msg.(CloseOverlayMsg); ok {
		s.Pop()
		return nil
	}

	// Only the top overlay sees input
	current := s.Current()
	newModel, cmd := current.Update(msg)

	// Forms and menus return updated copies; keep the latest one on top
	if newOverlay, ok := newModel.(Overlay); ok {
		s.overlays[len(s.overlays)-1] = newOverlay
	}

	return cmd
}
