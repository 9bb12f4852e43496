package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/report"
	"github.com/riordanpawley/vantage/internal/types"
	"github.com/riordanpawley/vantage/internal/ui/styles"
)

// assessmentsScreen lists past assessments and shows their reports
type assessmentsScreen struct {
	items  []domain.Assessment
	table  table.Model
	loaded bool

	// Report of the selected assessment, nil while the list is shown
	report  *domain.AssessmentReport
	viewing string
}

type assessmentsLoadedMsg struct {
	items []domain.Assessment
	err   error
}

type reportLoadedMsg struct {
	id     string
	report domain.AssessmentReport
	err    error
}

func newAssessmentTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Assessment", Width: 30},
			{Title: "Status", Width: 12},
			{Title: "Score", Width: 7},
			{Title: "Started", Width: 12},
			{Title: "Completed", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Surface1).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(styles.Base).
		Background(styles.Blue).
		Bold(false)
	t.SetStyles(ts)
	return t
}

func assessmentRows(items []domain.Assessment) []table.Row {
	rows := make([]table.Row, len(items))
	for i, a := range items {
		score := "-"
		if a.HealthScore > 0 || a.Status == "completed" {
			score = fmt.Sprintf("%.0f", a.HealthScore)
		}
		rows[i] = table.Row{a.Title, a.Status, score, shortDate(a.CreatedAt), shortDate(a.CompletedAt)}
	}
	return rows
}

func (a *assessmentsScreen) resize(width, height int) {
	a.table.SetHeight(max(3, height-6))
	if width > 0 {
		a.table.SetWidth(min(width, 80))
	}
}

func (m *Model) enterAssessments() tea.Cmd {
	m.assessments = &assessmentsScreen{table: newAssessmentTable()}
	return m.loadAssessments()
}

func (m *Model) loadAssessments() tea.Cmd {
	m.loading("assessments", "Loading assessments...")
	client := m.client
	return m.async(func(ctx context.Context, token string) tea.Msg {
		items, err := client.ListAssessments(ctx, token)
		return assessmentsLoadedMsg{items: items, err: err}
	})
}

func (m *Model) assessmentsKey(msg tea.KeyMsg) tea.Cmd {
	a := m.assessments

	if a.report != nil {
		switch msg.String() {
		case "esc", "b", "backspace":
			a.report, a.viewing = nil, ""
		case "q":
			m.shutdown()
			return tea.Quit
		}
		return nil
	}

	switch msg.String() {
	case "q":
		m.shutdown()
		return tea.Quit
	case "esc", "b":
		return m.navigate(types.ScreenBoard)
	case "n", "s":
		return m.navigate(types.ScreenWizard)
	case "r":
		return m.loadAssessments()
	case "enter":
		i := a.table.Cursor()
		if i < 0 || i >= len(a.items) {
			return nil
		}
		id := a.items[i].ID
		a.viewing = id
		m.loading("report", "Loading report...")
		client := m.client
		return m.async(func(ctx context.Context, token string) tea.Msg {
			r, err := client.GetReport(ctx, token, id)
			return reportLoadedMsg{id: id, report: r, err: err}
		})
	}

	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return cmd
}

func (m *Model) handleAssessmentsResult(msg tea.Msg) tea.Cmd {
	a := m.assessments
	if a == nil {
		return nil
	}
	switch msg := msg.(type) {
	case assessmentsLoadedMsg:
		if msg.err != nil {
			return m.fail("assessments", msg.err)
		}
		a.items = msg.items
		a.loaded = true
		a.table.SetRows(assessmentRows(msg.items))
		m.toasts = m.toasts.Resolve("assessments")
		return nil

	case reportLoadedMsg:
		if msg.id != a.viewing {
			return nil
		}
		if msg.err != nil {
			a.viewing = ""
			return m.fail("report", msg.err)
		}
		r := msg.report
		a.report = &r
		m.toasts = m.toasts.Resolve("report")
		return nil
	}
	return nil
}

func (m *Model) viewAssessments() string {
	a := m.assessments
	s := m.styles

	if a.report != nil {
		return report.Render(*a.report, s, m.width) + "\n\n" + s.Muted.Render("b back to list")
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("Assessments"))
	b.WriteString("\n\n")
	switch {
	case !a.loaded:
		b.WriteString(s.Muted.Render(m.spinner.View() + " Loading..."))
	case len(a.items) == 0:
		b.WriteString(s.Muted.Render("No assessments yet. Press n to start your first one."))
	default:
		b.WriteString(a.table.View())
	}
	b.WriteString("\n\n")
	b.WriteString(s.Muted.Render("enter view report • n new assessment • r refresh • b board"))
	return b.String()
}

func shortDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
