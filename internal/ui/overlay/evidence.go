package overlay

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/vantage/internal/domain"
)

// Attacher checks local files before they are attached to a wizard step
type Attacher interface {
	Inspect(ctx context.Context, path string) (domain.Attachment, error)
	FromClipboard(ctx context.Context, step string) (domain.Attachment, error)
}

// EvidenceAttachedMsg is sent when a file was accepted for the step. The
// receiver closes the overlay.
type EvidenceAttachedMsg struct {
	Step       string
	Attachment domain.Attachment
}

// EvidenceRemovedMsg is sent when the step's file is detached
type EvidenceRemovedMsg struct {
	Step string
}

type evidenceFailedMsg struct {
	err error
}

// EvidenceOverlay attaches one supporting file to a wizard step
type EvidenceOverlay struct {
	ctx       context.Context
	step      string
	stepName  string
	current   *domain.Attachment
	attacher  Attacher
	pathInput textinput.Model
	busy      bool
	err       string
	styles    *Styles
}

// NewEvidenceOverlay creates the overlay for step. current is the file
// already attached, or nil.
func NewEvidenceOverlay(ctx context.Context, step, stepName string, current *domain.Attachment, attacher Attacher) *EvidenceOverlay {
	ti := textinput.New()
	ti.Placeholder = "Path to a file, e.g. ~/Documents/budget.xlsx"
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	return &EvidenceOverlay{
		ctx:       ctx,
		step:      step,
		stepName:  stepName,
		current:   current,
		attacher:  attacher,
		pathInput: ti,
		styles:    New(),
	}
}

// Init initializes the overlay
func (e *EvidenceOverlay) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (e *EvidenceOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case evidenceFailedMsg:
		e.busy = false
		e.err = domain.UserMessage(msg.err)
		return e, nil

	case tea.KeyMsg:
		if e.busy {
			return e, nil
		}
		switch msg.String() {
		case "esc":
			return e, closeOverlay

		case "enter":
			path := strings.TrimSpace(e.pathInput.Value())
			if path == "" {
				e.err = "File path is required"
				return e, nil
			}
			e.busy = true
			e.err = ""
			return e, e.inspect(path)

		case "ctrl+v":
			e.busy = true
			e.err = ""
			return e, e.paste()

		case "ctrl+d":
			if e.current == nil {
				return e, nil
			}
			step := e.step
			return e, tea.Batch(
				func() tea.Msg { return EvidenceRemovedMsg{Step: step} },
				closeOverlay,
			)
		}
	}

	var cmd tea.Cmd
	e.pathInput, cmd = e.pathInput.Update(msg)
	return e, cmd
}

func (e *EvidenceOverlay) inspect(path string) tea.Cmd {
	return e.attach(func() (domain.Attachment, error) {
		return e.attacher.Inspect(e.ctx, path)
	})
}

func (e *EvidenceOverlay) paste() tea.Cmd {
	return e.attach(func() (domain.Attachment, error) {
		return e.attacher.FromClipboard(e.ctx, e.step)
	})
}

func (e *EvidenceOverlay) attach(fn func() (domain.Attachment, error)) tea.Cmd {
	step := e.step
	return func() tea.Msg {
		att, err := fn()
		if err != nil {
			return evidenceFailedMsg{err: err}
		}
		return EvidenceAttachedMsg{Step: step, Attachment: att}
	}
}

// View renders the overlay
func (e *EvidenceOverlay) View() string {
	var b strings.Builder

	b.WriteString(e.styles.Section.Render("Supporting file for " + e.stepName))
	b.WriteString("\n\n")

	if e.current != nil {
		b.WriteString(e.styles.Label.Render("Attached:"))
		b.WriteString("  ")
		b.WriteString(e.styles.MenuItem.Render(fmt.Sprintf("%s (%s, %s)",
			e.current.Name, e.current.MimeType, formatFileSize(e.current.Size))))
		b.WriteString("\n\n")
	}

	b.WriteString(e.pathInput.View())
	b.WriteString("\n\n")

	if e.busy {
		b.WriteString(e.styles.MenuItemDisabled.Render("Checking file…"))
		b.WriteString("\n\n")
	}
	if e.err != "" {
		b.WriteString(e.styles.Error.Render("Error: " + e.err))
		b.WriteString("\n\n")
	}

	b.WriteString(e.styles.Separator.Render(strings.Repeat("─", 70)))
	b.WriteString("\n")

	hints := []string{
		e.styles.MenuKey.Render("Enter") + " " + e.styles.Hint.Render("Attach"),
		e.styles.MenuKey.Render("Ctrl+V") + " " + e.styles.Hint.Render("Paste image"),
	}
	if e.current != nil {
		hints = append(hints, e.styles.MenuKey.Render("Ctrl+D")+" "+e.styles.Hint.Render("Remove"))
	}
	hints = append(hints, e.styles.MenuKey.Render("Esc")+" "+e.styles.Hint.Render("Close"))
	b.WriteString(e.styles.Footer.Render(strings.Join(hints, " • ")))

	return b.String()
}

// Title returns the overlay title
func (e *EvidenceOverlay) Title() string {
	return "Attach Evidence"
}

// Size returns the overlay dimensions
func (e *EvidenceOverlay) Size() (width, height int) {
	return 80, 16
}

func formatFileSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
	)

	switch {
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/float64(MB))
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/float64(KB))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
