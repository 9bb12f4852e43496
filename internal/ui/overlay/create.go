package overlay

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/vantage/internal/domain"
)

// DueDateLayout is the format typed into the due date field
const DueDateLayout = "2006-01-02"

// TaskCreatedMsg is emitted when the create form is submitted
type TaskCreatedMsg struct {
	Task domain.NewTask
}

// TaskEditedMsg is emitted when the edit form is submitted with changes
type TaskEditedMsg struct {
	ID    string
	Patch domain.TaskPatch
}

// TaskForm creates a new action item or edits an existing one
type TaskForm struct {
	editing  *domain.Task
	title    textinput.Model
	source   textinput.Model
	due      textinput.Model
	priority domain.Priority
	column   domain.Column

	focusIndex int
	styles     *Styles
}

const (
	focusTitle = iota
	focusSource
	focusDue
	focusPriority
	focusColumn
	focusSubmit
	focusCount
)

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 50
	return ti
}

// NewCreateTaskForm creates a form adding a task to column
func NewCreateTaskForm(column domain.Column) *TaskForm {
	f := &TaskForm{
		title:    newInput("What needs to happen?", 200),
		source:   newInput("Where it came from, e.g. Finance (optional)", 80),
		due:      newInput("YYYY-MM-DD (optional)", 10),
		priority: domain.PriorityMedium,
		column:   column,
		styles:   New(),
	}
	if f.column.Index() < 0 {
		f.column = domain.ColumnTodo
	}
	f.title.Focus()
	return f
}

// NewEditTaskForm creates a form prefilled from task
func NewEditTaskForm(task domain.Task) *TaskForm {
	f := NewCreateTaskForm(task.Column)
	f.editing = &task
	f.title.SetValue(task.Title)
	f.source.SetValue(task.Source)
	if task.DueDate != nil {
		f.due.SetValue(task.DueDate.Format(DueDateLayout))
	}
	if task.Priority != "" {
		f.priority = task.Priority
	}
	return f
}

// Init initializes the overlay
func (f *TaskForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (f *TaskForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return f, closeOverlay

		case "ctrl+s":
			return f, f.submit()

		case "tab", "down":
			f.setFocus(f.nextFocus(1))
			return f, nil

		case "shift+tab", "up":
			f.setFocus(f.nextFocus(-1))
			return f, nil

		case "enter":
			if f.focusIndex == focusSubmit {
				return f, f.submit()
			}
			f.setFocus(f.nextFocus(1))
			return f, nil
		}

		switch f.focusIndex {
		case focusPriority:
			if p, ok := domain.ParsePriority(priorityKeys[msg.String()]); ok {
				f.priority = p
			}
			return f, nil
		case focusColumn:
			if c, ok := columnKeys[msg.String()]; ok {
				f.column = c
			}
			return f, nil
		}
	}

	var cmd tea.Cmd
	switch f.focusIndex {
	case focusTitle:
		f.title, cmd = f.title.Update(msg)
	case focusSource:
		f.source, cmd = f.source.Update(msg)
	case focusDue:
		f.due, cmd = f.due.Update(msg)
	}
	return f, cmd
}

var priorityKeys = map[string]string{
	"h": "HIGH", "H": "HIGH", "1": "HIGH",
	"m": "MEDIUM", "M": "MEDIUM", "2": "MEDIUM",
	"l": "LOW", "L": "LOW", "3": "LOW",
}

var columnKeys = map[string]domain.Column{
	"t": domain.ColumnTodo,
	"i": domain.ColumnInProgress,
	"c": domain.ColumnCompleted,
}

// nextFocus skips the column selector when editing; moves happen on the board
func (f *TaskForm) nextFocus(delta int) int {
	next := (f.focusIndex + delta + focusCount) % focusCount
	if next == focusColumn && f.editing != nil {
		next = (next + delta + focusCount) % focusCount
	}
	return next
}

func (f *TaskForm) setFocus(i int) {
	f.focusIndex = i
	f.title.Blur()
	f.source.Blur()
	f.due.Blur()
	switch i {
	case focusTitle:
		f.title.Focus()
	case focusSource:
		f.source.Focus()
	case focusDue:
		f.due.Focus()
	}
}

// View renders the form
func (f *TaskForm) View() string {
	var b strings.Builder

	f.field(&b, focusTitle, "Title:", f.title.View())
	f.field(&b, focusSource, "Source:", f.source.View())
	f.field(&b, focusDue, "Due:", f.due.View())
	f.field(&b, focusPriority, "Priority:", f.renderPriority())
	if f.editing == nil {
		f.field(&b, focusColumn, "Column:", f.renderColumn())
	}

	b.WriteString(f.styles.Separator.Render(strings.Repeat("─", 60)))
	b.WriteString("\n\n")

	submitStyle := f.styles.MenuItem
	if f.focusIndex == focusSubmit {
		submitStyle = f.styles.MenuItemActive
	}
	label := "[ Add Action ]"
	if f.editing != nil {
		label = "[ Save Changes ]"
	}
	b.WriteString(submitStyle.Render(label))
	b.WriteString("\n\n")

	hints := []string{
		f.styles.MenuKey.Render("Tab") + " " + f.styles.Hint.Render("Switch fields"),
		f.styles.MenuKey.Render("Ctrl+S") + " " + f.styles.Hint.Render("Submit"),
		f.styles.MenuKey.Render("Esc") + " " + f.styles.Hint.Render("Cancel"),
	}
	b.WriteString(f.styles.Footer.Render(strings.Join(hints, " • ")))

	return b.String()
}

func (f *TaskForm) field(b *strings.Builder, idx int, label, value string) {
	style := f.styles.Label
	if f.focusIndex == idx {
		style = f.styles.LabelFocus
	}
	b.WriteString(style.Render(label))
	b.WriteString("  ")
	b.WriteString(value)
	b.WriteString("\n\n")
}

func (f *TaskForm) renderPriority() string {
	var parts []string
	for _, p := range []domain.Priority{domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow} {
		style := f.styles.MenuItem
		indicator := " "
		if p == f.priority {
			style = f.styles.MenuItemActive
			indicator = "●"
		}
		parts = append(parts, style.Render(fmt.Sprintf("[%s%s]", indicator, p.Short())))
	}
	return strings.Join(parts, " ")
}

func (f *TaskForm) renderColumn() string {
	var parts []string
	for _, c := range domain.Columns {
		style := f.styles.MenuItem
		indicator := " "
		if c == f.column {
			style = f.styles.MenuItemActive
			indicator = "●"
		}
		parts = append(parts, style.Render(fmt.Sprintf("[%s%s]", indicator, c.Title())))
	}
	return strings.Join(parts, " ")
}

// submit validates locally; an invalid form emits InvalidInputMsg and stays open
func (f *TaskForm) submit() tea.Cmd {
	title := strings.TrimSpace(f.title.Value())
	if title == "" {
		return invalid("title", "Title is required")
	}

	due, err := parseDue(f.due.Value())
	if err != nil {
		return invalid("due_date", "Due date must look like 2026-01-31")
	}
	source := strings.TrimSpace(f.source.Value())

	if f.editing != nil {
		patch, changed := f.patch(title, source, due)
		if !changed {
			return closeOverlay
		}
		id := f.editing.ID
		return tea.Batch(
			func() tea.Msg { return TaskEditedMsg{ID: id, Patch: patch} },
			closeOverlay,
		)
	}

	task := domain.NewTask{
		Title:    title,
		Source:   source,
		Priority: f.priority,
		DueDate:  due,
		Column:   f.column,
	}
	return tea.Batch(
		func() tea.Msg { return TaskCreatedMsg{Task: task} },
		closeOverlay,
	)
}

func (f *TaskForm) patch(title, source string, due *time.Time) (domain.TaskPatch, bool) {
	var p domain.TaskPatch
	changed := false
	if title != f.editing.Title {
		p.Title = &title
		changed = true
	}
	if source != f.editing.Source {
		p.Source = &source
		changed = true
	}
	if f.priority != f.editing.Priority {
		pri := f.priority
		p.Priority = &pri
		changed = true
	}
	if due != nil && (f.editing.DueDate == nil || due.Format(DueDateLayout) != f.editing.DueDate.Format(DueDateLayout)) {
		p.DueDate = due
		changed = true
	}
	return p, changed
}

func parseDue(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DueDateLayout, v, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Title returns the overlay title
func (f *TaskForm) Title() string {
	if f.editing != nil {
		return "Edit Action"
	}
	return "New Action"
}

// Size returns the overlay dimensions
func (f *TaskForm) Size() (width, height int) {
	return 70, 22
}
