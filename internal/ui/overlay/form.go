package overlay

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/vantage/internal/domain"
)

// Field is one text input of a Form
type Field struct {
	Key         string
	Label       string
	Value       string
	Placeholder string
	Secret      bool
	CharLimit   int
}

// FormSubmittedMsg carries the trimmed values of a submitted form. Secret
// fields are not trimmed.
type FormSubmittedMsg struct {
	ID     string
	Values map[string]string
}

// Form is a list of text inputs with a submit button. It runs either as an
// overlay (closing on submit) or embedded in a screen.
type Form struct {
	id       string
	title    string
	submit   string
	fields   []Field
	inputs   []textinput.Model
	focus    int
	validate func(map[string]string) error
	overlay  bool
	styles   *Styles
}

// NewForm creates a form. validate runs before FormSubmittedMsg is emitted
// and may be nil.
func NewForm(id, title, submit string, fields []Field, validate func(map[string]string) error) *Form {
	f := &Form{
		id:       id,
		title:    title,
		submit:   submit,
		fields:   fields,
		inputs:   make([]textinput.Model, len(fields)),
		validate: validate,
		overlay:  true,
		styles:   New(),
	}
	for i, field := range fields {
		ti := textinput.New()
		ti.Placeholder = field.Placeholder
		ti.CharLimit = 200
		if field.CharLimit > 0 {
			ti.CharLimit = field.CharLimit
		}
		ti.Width = 44
		if field.Secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		ti.SetValue(field.Value)
		f.inputs[i] = ti
	}
	f.setFocus(0)
	return f
}

// Embedded makes the form stay in place after submit
func (f *Form) Embedded() *Form {
	f.overlay = false
	return f
}

// ID returns the form id
func (f *Form) ID() string {
	return f.id
}

// Values returns the current field values
func (f *Form) Values() map[string]string {
	values := make(map[string]string, len(f.fields))
	for i, field := range f.fields {
		v := f.inputs[i].Value()
		if !field.Secret {
			v = strings.TrimSpace(v)
		}
		values[field.Key] = v
	}
	return values
}

// SetValue replaces the value of the field with key
func (f *Form) SetValue(key, value string) {
	for i, field := range f.fields {
		if field.Key == key {
			f.inputs[i].SetValue(value)
		}
	}
}

// ResetSecrets clears secret fields, typically after a failed submission
func (f *Form) ResetSecrets() {
	for i, field := range f.fields {
		if field.Secret {
			f.inputs[i].SetValue("")
		}
	}
}

// Init initializes the form
func (f *Form) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			if f.overlay {
				return f, closeOverlay
			}
		case "tab", "down":
			f.setFocus((f.focus + 1) % (len(f.fields) + 1))
			return f, nil
		case "shift+tab", "up":
			f.setFocus((f.focus + len(f.fields)) % (len(f.fields) + 1))
			return f, nil
		case "ctrl+s":
			return f, f.Submit()
		case "enter":
			if f.focus >= len(f.fields)-1 {
				return f, f.Submit()
			}
			f.setFocus(f.focus + 1)
			return f, nil
		}
	}

	if f.focus < len(f.inputs) {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return f, cmd
	}
	return f, nil
}

// Submit validates and emits FormSubmittedMsg
func (f *Form) Submit() tea.Cmd {
	values := f.Values()
	if f.validate != nil {
		if err := f.validate(values); err != nil {
			var valErr *domain.ValidationError
			if !errors.As(err, &valErr) {
				valErr = &domain.ValidationError{Message: err.Error()}
			}
			f.focusField(valErr.Field)
			return func() tea.Msg { return InvalidInputMsg{Err: valErr} }
		}
	}

	submitted := FormSubmittedMsg{ID: f.id, Values: values}
	if !f.overlay {
		return func() tea.Msg { return submitted }
	}
	return tea.Batch(
		func() tea.Msg { return submitted },
		closeOverlay,
	)
}

func (f *Form) focusField(key string) {
	for i, field := range f.fields {
		if field.Key == key {
			f.setFocus(i)
			return
		}
	}
}

func (f *Form) setFocus(i int) {
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

// View renders the form
func (f *Form) View() string {
	var b strings.Builder

	for i, field := range f.fields {
		style := f.styles.Label
		if i == f.focus {
			style = f.styles.LabelFocus
		}
		b.WriteString(style.Width(18).Render(field.Label + ":"))
		b.WriteString("  ")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n\n")
	}

	submitStyle := f.styles.MenuItem
	if f.focus == len(f.fields) {
		submitStyle = f.styles.MenuItemActive
	}
	b.WriteString(submitStyle.Render("[ " + f.submit + " ]"))
	b.WriteString("\n\n")

	hints := []string{
		f.styles.MenuKey.Render("Tab") + " " + f.styles.Hint.Render("Next field"),
		f.styles.MenuKey.Render("Enter") + " " + f.styles.Hint.Render("Submit"),
	}
	if f.overlay {
		hints = append(hints, f.styles.MenuKey.Render("Esc")+" "+f.styles.Hint.Render("Cancel"))
	}
	b.WriteString(f.styles.Footer.Render(strings.Join(hints, " • ")))

	return b.String()
}

// Title returns the form title
func (f *Form) Title() string {
	return f.title
}

// Size returns the overlay dimensions
func (f *Form) Size() (width, height int) {
	return 72, len(f.fields)*2 + 8
}
