package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/report"
	"github.com/riordanpawley/vantage/internal/types"
	"github.com/riordanpawley/vantage/internal/ui/overlay"
	"github.com/riordanpawley/vantage/internal/wizard"
	"golang.org/x/sync/errgroup"
)

// maxUploads bounds concurrent evidence uploads
const maxUploads = 3

var cancelExit = wizard.CancelExit{}

// wizardScreen runs an assessment
type wizardScreen struct {
	state      wizard.State
	question   int // cursor within the current step
	commentFor string
	catalog    bool // questionnaire request in flight

	report     *domain.AssessmentReport
	submitting bool
	submitted  string // assessment id returned by the server
}

type catalogLoadedMsg struct {
	categories []domain.Category
	err        error
}

type submissionMsg struct {
	id     string
	report domain.AssessmentReport
	err    error
}

type resetAnswersMsg struct {
	err error
}

func (w *wizardScreen) dispatch(a wizard.Action) {
	before := w.state.Step
	w.state = wizard.Reduce(w.state, a)
	if w.state.Step != before {
		w.question = 0
	}
	w.question = max(0, min(w.question, len(w.state.Current().Questions)-1))
}

func (w *wizardScreen) currentQuestion() (domain.Question, bool) {
	qs := w.state.Questions()
	if w.question < 0 || w.question >= len(qs) {
		return domain.Question{}, false
	}
	return qs[w.question], true
}

func (m *Model) enterWizard() tea.Cmd {
	m.wizard = &wizardScreen{state: wizard.New(wizard.DefaultCategories()), catalog: true}
	m.loading("catalog", "Loading questionnaire...")

	client := m.client
	return m.async(func(ctx context.Context, token string) tea.Msg {
		q, err := client.GetQuestionnaire(ctx, token)
		return catalogLoadedMsg{categories: q.Categories, err: err}
	})
}

func (m *Model) wizardKey(msg tea.KeyMsg) tea.Cmd {
	w := m.wizard
	k := msg.String()

	// input waits for the questionnaire; esc still leaves
	if w.catalog && k != "esc" {
		return nil
	}

	if w.state.InReport() {
		switch k {
		case "r":
			if w.submitting {
				return nil
			}
			return m.overlayStack.Push(overlay.NewConfirmDialog(
				"Retake assessment",
				"Clear all answers and start again?",
				overlay.ConfirmRetake, ""))
		case "b", "esc":
			return m.navigate(types.ScreenBoard)
		case "q":
			m.shutdown()
			return tea.Quit
		}
		return nil
	}

	switch k {
	case "j", "down":
		w.question = min(w.question+1, len(w.state.Current().Questions)-1)
	case "k", "up":
		w.question = max(w.question-1, 0)
	case "n", "l", "right", "enter":
		w.dispatch(wizard.Next{})
		if w.state.InReport() {
			return m.submitAssessment()
		}
	case "p", "h", "left":
		w.dispatch(wizard.Previous{})
	case "c":
		q, ok := w.currentQuestion()
		if !ok {
			return nil
		}
		w.commentFor = q.ID
		return m.overlayStack.Push(overlay.NewForm(formComment, "Comment", "Save", []overlay.Field{
			{Key: "comment", Label: "Comment", Value: q.Comment, CharLimit: 1000},
		}, nil))
	case "a":
		if m.attacher == nil {
			m.notify("", types.ToastWarning, "Attaching files is not available")
			return nil
		}
		cat := w.state.Current()
		var current *domain.Attachment
		if f, ok := w.state.File(); ok {
			current = &f
		}
		return m.overlayStack.Push(overlay.NewEvidenceOverlay(m.ctx, cat.Key, cat.Name, current, m.attacher))
	case "esc":
		w.dispatch(wizard.Exit{})
		return m.overlayStack.Push(overlay.NewConfirmDialog(
			"Leave assessment",
			"Your answers have not been submitted and will be lost.",
			overlay.ConfirmExitWizard, ""))
	default:
		if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			if q, ok := w.currentQuestion(); ok {
				w.dispatch(wizard.Answer{QuestionID: q.ID, Option: int(k[0] - '1')})
			}
		}
	}
	return nil
}

func (m *Model) submitComment(values map[string]string) tea.Cmd {
	w := m.wizard
	if w == nil || w.commentFor == "" {
		return nil
	}
	w.dispatch(wizard.Comment{QuestionID: w.commentFor, Text: values["comment"]})
	w.commentFor = ""
	return nil
}

func (m *Model) handleWizardOverlay(msg tea.Msg) tea.Cmd {
	w := m.wizard
	if w == nil {
		return nil
	}
	switch msg := msg.(type) {
	case overlay.EvidenceAttachedMsg:
		if _, ok := m.overlayStack.Current().(*overlay.EvidenceOverlay); ok {
			m.overlayStack.Pop()
		}
		if msg.Step != w.state.Current().Key {
			return nil
		}
		w.dispatch(wizard.AttachFile{File: msg.Attachment})
		m.notify("", types.ToastSuccess, "Attached "+msg.Attachment.Name)
	case overlay.EvidenceRemovedMsg:
		if msg.Step == w.state.Current().Key {
			w.dispatch(wizard.RemoveFile{})
		}
	}
	return nil
}

// submitAssessment shows the locally computed report at once, then submits
// answers, uploads evidence and merges the server's scores
func (m *Model) submitAssessment() tea.Cmd {
	w := m.wizard
	local := report.Compute(w.state.Categories, w.state.Answers)
	w.report = &local
	w.submitting = true
	m.loading("submit", "Submitting your answers...")

	answers := w.state.AnswerList()
	files := w.state.Attachments()
	client := m.client
	return m.async(func(ctx context.Context, token string) tea.Msg {
		res, err := client.SubmitAnswers(ctx, token, answers)
		if err != nil {
			return submissionMsg{err: err}
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxUploads)
		for _, f := range files {
			g.Go(func() error {
				if _, err := client.UploadEvidence(gctx, token, f.Category, f.File); err != nil {
					return fmt.Errorf("upload %s: %w", f.File.Name, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return submissionMsg{id: res.AssessmentID, err: err}
		}

		rep, err := client.RecomputeScores(ctx, token, res.AssessmentID)
		return submissionMsg{id: res.AssessmentID, report: rep, err: err}
	})
}

func (m *Model) retake() tea.Cmd {
	if m.wizard == nil {
		return nil
	}
	m.loading("retake", "Clearing answers...")
	client := m.client
	return m.async(func(ctx context.Context, token string) tea.Msg {
		return resetAnswersMsg{err: client.ResetAnswers(ctx, token)}
	})
}

func (m *Model) handleWizardResult(msg tea.Msg) tea.Cmd {
	w := m.wizard
	if w == nil {
		return nil
	}
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		w.catalog = false
		if msg.err != nil {
			var apiErr *domain.APIError
			if errors.Is(msg.err, domain.ErrUnauthorized) || errors.As(msg.err, &apiErr) && apiErr.IsTeamMemberOnly {
				return m.fail("catalog", msg.err)
			}
			m.logger.Warn("questionnaire unavailable, using built-in", "error", msg.err)
			m.notify("catalog", types.ToastWarning, "Using the built-in questionnaire")
			return nil
		}
		if err := wizard.ValidateCatalog(msg.categories); err != nil {
			m.logger.Warn("questionnaire rejected, using built-in", "error", err)
			m.notify("catalog", types.ToastWarning, "Using the built-in questionnaire")
			return nil
		}
		if w.state.Started() {
			m.logger.Warn("questionnaire arrived after answers were given, keeping built-in")
			m.notify("catalog", types.ToastWarning, "Using the built-in questionnaire")
			return nil
		}
		w.dispatch(wizard.LoadCatalog{Categories: msg.categories})
		m.toasts = m.toasts.Resolve("catalog")
		return nil

	case submissionMsg:
		w.submitting = false
		w.submitted = msg.id
		if msg.err != nil {
			return m.fail("submit", msg.err)
		}
		merged := report.Merge(*w.report, msg.report)
		w.report = &merged
		m.logger.Info("assessment submitted", "id", msg.id, "score", merged.HealthScore)
		m.notify("submit", types.ToastSuccess, "Assessment submitted")
		return nil

	case resetAnswersMsg:
		if msg.err != nil {
			return m.fail("retake", msg.err)
		}
		w.dispatch(wizard.Retake{})
		w.report, w.submitted = nil, ""
		m.notify("retake", types.ToastInfo, "Answers cleared")
		return nil
	}
	return nil
}

func (m *Model) viewWizard() string {
	w := m.wizard
	s := m.styles
	var b strings.Builder

	if w.catalog {
		return s.Muted.Render(m.spinner.View() + " Loading questionnaire...")
	}

	if w.state.InReport() {
		b.WriteString(report.Render(*w.report, s, m.width))
		b.WriteString("\n\n")
		if w.submitting {
			b.WriteString(s.Muted.Render(m.spinner.View() + " Saving..."))
			b.WriteString("\n")
		}
		b.WriteString(s.Muted.Render("r retake • b board"))
		return b.String()
	}

	cat := w.state.Current()
	answered, total := w.state.Progress(w.state.Step)
	fmt.Fprintf(&b, "%s  %s\n",
		s.Title.Render(cat.Name),
		s.Muted.Render(fmt.Sprintf("Step %d of %d • %d/%d answered", w.state.Step+1, w.state.StepCount(), answered, total)))
	b.WriteString(report.Bar(float64(w.state.Step+1)*100/float64(max(1, w.state.StepCount())), 40, s))
	b.WriteString("\n\n")

	for i, q := range w.state.Questions() {
		marker := "  "
		prompt := s.Muted.Render(q.Prompt)
		if i == w.question {
			marker = "> "
			prompt = s.Subtitle.Render(q.Prompt)
		}
		b.WriteString(marker + prompt + "\n")
		for j, opt := range q.Options {
			line := fmt.Sprintf("     %d. %s", j+1, opt)
			if q.Selected != nil && *q.Selected == j {
				b.WriteString(s.OptionSel.Render(line))
			} else {
				b.WriteString(s.Option.Render(line))
			}
			b.WriteString("\n")
		}
		if q.Comment != "" {
			b.WriteString(s.Muted.Render("     “" + q.Comment + "”"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if f, ok := w.state.File(); ok {
		b.WriteString(s.Label.Render("Evidence") + " " + f.Name + "\n\n")
	}

	next := "n next"
	if w.state.IsLast() {
		next = "n finish"
	}
	b.WriteString(s.Muted.Render("j/k question • 1-9 answer • c comment • a attach • p back • " + next + " • esc leave"))
	return b.String()
}
