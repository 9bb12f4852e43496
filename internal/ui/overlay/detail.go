package overlay

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/vantage/internal/domain"
)

// NoteSubmittedMsg is emitted when a note is written in the detail panel
type NoteSubmittedMsg struct {
	TaskID string
	Body   string
}

// DetailPanel displays an action item with its notes
type DetailPanel struct {
	task    domain.Task
	note    textarea.Model
	writing bool
	loading bool

	scrollY    int
	viewHeight int
	now        func() time.Time
	styles     *Styles
}

// NewDetailPanel creates a detail panel. loading marks the task as a board
// snapshot still being refreshed from the server.
func NewDetailPanel(task domain.Task, loading bool) *DetailPanel {
	ta := textarea.New()
	ta.Placeholder = "Add a note..."
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(3)

	return &DetailPanel{
		task:       task,
		note:       ta,
		loading:    loading,
		viewHeight: 8,
		now:        time.Now,
		styles:     New(),
	}
}

// TaskID returns the id of the displayed task
func (d *DetailPanel) TaskID() string {
	return d.task.ID
}

// SetTask replaces the displayed task after a refresh or a new note
func (d *DetailPanel) SetTask(task domain.Task) {
	d.task = task
	d.loading = false
	d.scrollY = min(d.scrollY, d.maxScroll())
}

// Init initializes the detail panel
func (d *DetailPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (d *DetailPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if d.writing {
			var cmd tea.Cmd
			d.note, cmd = d.note.Update(msg)
			return d, cmd
		}
		return d, nil
	}

	if d.writing {
		switch key.String() {
		case "esc":
			d.writing = false
			d.note.Blur()
			return d, nil
		case "ctrl+s":
			return d, d.submitNote()
		}
		var cmd tea.Cmd
		d.note, cmd = d.note.Update(msg)
		return d, cmd
	}

	switch key.String() {
	case "esc", "q":
		return d, closeOverlay

	case "a", "n":
		d.writing = true
		return d, d.note.Focus()

	case "e":
		task := d.task
		return d, func() tea.Msg { return SelectionMsg{Key: "edit", Value: task} }

	case "d":
		task := d.task
		return d, func() tea.Msg { return SelectionMsg{Key: "delete", Value: task} }

	case "j", "down":
		if d.scrollY < d.maxScroll() {
			d.scrollY++
		}
	case "k", "up":
		if d.scrollY > 0 {
			d.scrollY--
		}
	case "g":
		d.scrollY = 0
	case "G":
		d.scrollY = d.maxScroll()
	}

	return d, nil
}

func (d *DetailPanel) submitNote() tea.Cmd {
	body := strings.TrimSpace(d.note.Value())
	if body == "" {
		return invalid("body", "Note cannot be empty")
	}
	d.note.Reset()
	d.writing = false
	d.note.Blur()
	id := d.task.ID
	return func() tea.Msg { return NoteSubmittedMsg{TaskID: id, Body: body} }
}

// View renders the detail panel
func (d *DetailPanel) View() string {
	var b strings.Builder
	value := d.styles.MenuItem

	b.WriteString(d.styles.Section.Render(d.task.Title))
	if d.loading {
		b.WriteString(" " + d.styles.MenuItemDisabled.Render("(refreshing…)"))
	}
	b.WriteString("\n\n")

	row := func(label, v string) {
		b.WriteString(d.styles.Label.Render(label))
		b.WriteString("  ")
		b.WriteString(value.Render(v))
		b.WriteString("\n")
	}

	row("Column:", d.task.Column.Title())
	row("Priority:", d.task.Priority.String())
	if d.task.Source != "" {
		row("Source:", d.task.Source)
	}
	if d.task.DueDate != nil {
		due := d.task.DueDate.Format("Mon Jan 2, 2006")
		if d.task.Overdue(d.now()) {
			due += " " + d.styles.Error.Render("(overdue)")
		}
		row("Due:", due)
	}
	if d.task.Assignee != "" {
		row("Assignee:", d.task.Assignee)
	}
	if !d.task.CreatedAt.IsZero() {
		row("Created:", d.task.CreatedAt.Format("2006-01-02 15:04"))
	}

	b.WriteString("\n")
	b.WriteString(d.styles.Section.Render(fmt.Sprintf("Notes (%d)", len(d.task.Notes))))
	b.WriteString("\n")

	lines := d.noteLines()
	if len(lines) == 0 {
		b.WriteString(d.styles.MenuItemDisabled.Render("No notes yet."))
		b.WriteString("\n")
	}
	end := min(d.scrollY+d.viewHeight, len(lines))
	for _, line := range lines[min(d.scrollY, end):end] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if d.maxScroll() > 0 {
		b.WriteString(d.styles.Footer.Render(
			fmt.Sprintf("[j/k to scroll] (line %d/%d)", d.scrollY+1, len(lines)),
		))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if d.writing {
		b.WriteString(d.note.View())
		b.WriteString("\n")
		b.WriteString(d.styles.Footer.Render("Ctrl+S: Save note • Esc: Cancel"))
	} else {
		b.WriteString(d.styles.Footer.Render("a: Add note • e: Edit • d: Delete • Esc: Close"))
	}

	return b.String()
}

func (d *DetailPanel) noteLines() []string {
	var lines []string
	for _, n := range d.task.Notes {
		header := n.CreatedAt.Format("Jan 2 15:04")
		if n.Author != "" {
			header = n.Author + " · " + header
		}
		lines = append(lines, d.styles.MenuHeader.Render(header))
		for _, l := range strings.Split(n.Body, "\n") {
			lines = append(lines, "  "+d.styles.MenuItem.Render(l))
		}
	}
	return lines
}

// Title returns the overlay title
func (d *DetailPanel) Title() string {
	return "Action Details"
}

// Size returns the overlay dimensions
func (d *DetailPanel) Size() (width, height int) {
	return 70, 30
}

func (d *DetailPanel) maxScroll() int {
	return max(0, len(d.noteLines())-d.viewHeight)
}
