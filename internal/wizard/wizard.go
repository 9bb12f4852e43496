// Package wizard implements the assessment wizard as a pure reducer over an
// ordered list of question categories.
package wizard

import (
	"maps"

	"github.com/riordanpawley/vantage/internal/domain"
)

// Phase is the wizard lifecycle stage
type Phase string

const (
	PhaseInProgress Phase = "in_progress"
	PhaseReport     Phase = "report"
)

// State is a wizard session. Treat it as a value: Reduce never mutates the
// state it is given.
type State struct {
	Categories []domain.Category
	Step       int
	Phase      Phase
	Answers    map[string]domain.Answer     // by question id
	Files      map[string]domain.Attachment // by category key, at most one per step

	// ExitRequested is set by Exit so the screen can offer save-and-exit
	ExitRequested bool
}

// New starts a wizard at the first step
func New(categories []domain.Category) State {
	return State{
		Categories: categories,
		Phase:      PhaseInProgress,
		Answers:    map[string]domain.Answer{},
		Files:      map[string]domain.Attachment{},
	}
}

// Started reports whether the user has made any progress
func (s State) Started() bool {
	return s.Step > 0 || s.InReport() || len(s.Answers) > 0 || len(s.Files) > 0
}

// Current returns the category of the current step
func (s State) Current() domain.Category {
	if s.Step < 0 || s.Step >= len(s.Categories) {
		return domain.Category{}
	}
	return s.Categories[s.Step]
}

// StepCount returns the number of steps
func (s State) StepCount() int {
	return len(s.Categories)
}

// IsLast reports whether the current step is the final one
func (s State) IsLast() bool {
	return s.Step == len(s.Categories)-1
}

// InReport reports whether the wizard reached the read-only report
func (s State) InReport() bool {
	return s.Phase == PhaseReport
}

// Selected returns the chosen option for a question, if any
func (s State) Selected(questionID string) (int, bool) {
	a, ok := s.Answers[questionID]
	if !ok || a.OptionIndex < 0 {
		return 0, false
	}
	return a.OptionIndex, true
}

// File returns the attachment of the current step, if any
func (s State) File() (domain.Attachment, bool) {
	f, ok := s.Files[s.Current().Key]
	return f, ok
}

// Progress returns how many questions of a step have an answer
func (s State) Progress(step int) (answered, total int) {
	if step < 0 || step >= len(s.Categories) {
		return 0, 0
	}
	for _, q := range s.Categories[step].Questions {
		if _, ok := s.Selected(q.ID); ok {
			answered++
		}
	}
	return answered, len(s.Categories[step].Questions)
}

// AnswerList returns the recorded answers in catalog order
func (s State) AnswerList() []domain.Answer {
	var out []domain.Answer
	for _, c := range s.Categories {
		for _, q := range c.Questions {
			if a, ok := s.Answers[q.ID]; ok {
				out = append(out, a)
			}
		}
	}
	return out
}

// StepFile pairs an attachment with the category it belongs to
type StepFile struct {
	Category string
	File     domain.Attachment
}

// Attachments returns the attached files in catalog order
func (s State) Attachments() []StepFile {
	var out []StepFile
	for _, c := range s.Categories {
		if f, ok := s.Files[c.Key]; ok {
			out = append(out, StepFile{Category: c.Key, File: f})
		}
	}
	return out
}

// Questions returns the current step's questions with selection and
// comment filled in from the recorded answers
func (s State) Questions() []domain.Question {
	src := s.Current().Questions
	out := make([]domain.Question, len(src))
	for i, q := range src {
		if a, ok := s.Answers[q.ID]; ok {
			if a.OptionIndex >= 0 {
				idx := a.OptionIndex
				q.Selected = &idx
			}
			q.Comment = a.Comment
		}
		out[i] = q
	}
	return out
}

func (s State) findQuestion(id string) (domain.Question, bool) {
	for _, c := range s.Categories {
		for _, q := range c.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return domain.Question{}, false
}

func (s State) withAnswer(a domain.Answer) State {
	s.Answers = maps.Clone(s.Answers)
	if s.Answers == nil {
		s.Answers = map[string]domain.Answer{}
	}
	s.Answers[a.QuestionID] = a
	return s
}
