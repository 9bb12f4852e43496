package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/ui/styles"
)

const (
	barWidth  = 30
	nameWidth = 20
)

// Render draws the report: headline score, one bar per category, then
// strengths and weaknesses
func Render(r domain.AssessmentReport, s *styles.Styles, width int) string {
	var b strings.Builder

	headline := fmt.Sprintf("Business health score: %.0f/100", r.HealthScore)
	b.WriteString(s.Title.Render(headline))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(styles.ScoreColor(r.HealthScore)).Bold(true).Render(Grade(r.HealthScore)))
	b.WriteString("\n\n")

	bw := barWidth
	if width > 0 {
		bw = max(10, min(barWidth, width-nameWidth-16))
	}
	for _, c := range r.Categories {
		name := lipgloss.NewStyle().Width(nameWidth).Render(truncate(c.Name, nameWidth-1))
		fmt.Fprintf(&b, "%s %s %5.1f%%  %s\n",
			name,
			Bar(c.Percent, bw, s),
			c.Percent,
			s.Muted.Render(fmt.Sprintf("%d/%d answered", c.Answered, c.Total)),
		)
	}

	if len(r.Strengths) > 0 {
		b.WriteString("\n")
		b.WriteString(s.Label.Render("Strengths"))
		b.WriteString("\n")
		for _, name := range r.Strengths {
			b.WriteString("  + " + name + "\n")
		}
	}
	if len(r.Weaknesses) > 0 {
		b.WriteString("\n")
		b.WriteString(s.Label.Render("Focus areas"))
		b.WriteString("\n")
		for _, name := range r.Weaknesses {
			b.WriteString("  - " + name + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Bar draws a horizontal percentage bar of the given cell width
func Bar(percent float64, width int, s *styles.Styles) string {
	percent = max(0, min(100, percent))
	filled := int(percent / 100 * float64(width))
	return s.ScoreBar(percent).Render(strings.Repeat("█", filled)) +
		s.ScoreTrack.Render(strings.Repeat("░", width-filled))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
