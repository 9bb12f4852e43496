package wizard

import (
	"maps"

	"github.com/riordanpawley/vantage/internal/domain"
)

// Action is a wizard event
type Action interface {
	Kind() string
}

// Next advances one step, entering the report after the last step
type Next struct{}

// Previous goes back one step
type Previous struct{}

// Answer records the chosen option for a question. Last write wins.
type Answer struct {
	QuestionID string
	Option     int
}

// Comment sets the free-text comment of a question
type Comment struct {
	QuestionID string
	Text       string
}

// AttachFile sets the attachment of the current step, replacing any previous one
type AttachFile struct {
	File domain.Attachment
}

// RemoveFile clears the attachment of the current step
type RemoveFile struct{}

// Exit asks to leave the wizard
type Exit struct{}

// CancelExit dismisses a pending exit request
type CancelExit struct{}

// Retake restarts the wizard with everything cleared
type Retake struct{}

// LoadCatalog replaces the categories of a session nobody has touched yet.
// Once the user has moved, answered or attached a file it is a no-op.
type LoadCatalog struct {
	Categories []domain.Category
}

func (Next) Kind() string        { return "next" }
func (Previous) Kind() string    { return "previous" }
func (Answer) Kind() string      { return "answer" }
func (Comment) Kind() string     { return "comment" }
func (AttachFile) Kind() string  { return "attach_file" }
func (RemoveFile) Kind() string  { return "remove_file" }
func (Exit) Kind() string        { return "exit" }
func (CancelExit) Kind() string  { return "cancel_exit" }
func (Retake) Kind() string      { return "retake" }
func (LoadCatalog) Kind() string { return "load_catalog" }

// Reduce applies an action and returns the next state. Actions that do not
// apply in the current phase return the state unchanged.
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case Next:
		if s.InReport() {
			return s
		}
		if s.IsLast() || len(s.Categories) == 0 {
			s.Phase = PhaseReport
			return s
		}
		s.Step++
		return s

	case Previous:
		if s.InReport() || s.Step == 0 {
			return s
		}
		s.Step--
		return s

	case Answer:
		if s.InReport() {
			return s
		}
		q, ok := s.findQuestion(a.QuestionID)
		if !ok || a.Option < 0 || a.Option >= len(q.Options) {
			return s
		}
		prev := s.Answers[a.QuestionID]
		return s.withAnswer(domain.Answer{QuestionID: a.QuestionID, OptionIndex: a.Option, Comment: prev.Comment})

	case Comment:
		if s.InReport() {
			return s
		}
		if _, ok := s.findQuestion(a.QuestionID); !ok {
			return s
		}
		prev, ok := s.Answers[a.QuestionID]
		if !ok {
			prev = domain.Answer{QuestionID: a.QuestionID, OptionIndex: -1}
		}
		prev.Comment = a.Text
		return s.withAnswer(prev)

	case AttachFile:
		if s.InReport() || len(s.Categories) == 0 {
			return s
		}
		s.Files = maps.Clone(s.Files)
		if s.Files == nil {
			s.Files = map[string]domain.Attachment{}
		}
		s.Files[s.Current().Key] = a.File
		return s

	case RemoveFile:
		if s.InReport() {
			return s
		}
		key := s.Current().Key
		if _, ok := s.Files[key]; !ok {
			return s
		}
		s.Files = maps.Clone(s.Files)
		delete(s.Files, key)
		return s

	case Exit:
		s.ExitRequested = true
		return s

	case CancelExit:
		s.ExitRequested = false
		return s

	case Retake:
		return New(s.Categories)

	case LoadCatalog:
		if len(a.Categories) == 0 || s.Started() {
			return s
		}
		return New(a.Categories)
	}
	return s
}
