package board

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/ui/styles"
)

// cardHeight is the rendered height of a card including its margin
const cardHeight = 5

// renderCard renders a task card. A held card is one picked up for a move.
func renderCard(task domain.Task, isCursor, isHeld bool, width int, now time.Time, s *styles.Styles) string {
	cardStyle := s.Card
	if isHeld {
		cardStyle = s.CardHeld
	} else if isCursor {
		cardStyle = s.CardActive
	}
	cardStyle = cardStyle.Width(width)

	// padding and border take 4 cells
	inner := max(width-4, 4)

	cursor := ""
	if isCursor {
		cursor = "▶"
	}
	titleLine := ansi.Truncate(cursor+task.Title, inner, "…")

	badges := []string{s.PriorityBadge(task.Priority).Render(task.Priority.Short())}
	if task.Source != "" {
		badges = append(badges, " ", s.TaskSource.Render(task.Source))
	}
	badgeLine := ansi.Truncate(lipgloss.JoinHorizontal(lipgloss.Left, badges...), inner, "…")

	lines := []string{titleLine, badgeLine}
	if task.DueDate != nil {
		lines = append(lines, dueLine(task, now, s))
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// dueLine shows the due date, flagged when an open task is past it
func dueLine(task domain.Task, now time.Time, s *styles.Styles) string {
	due := task.DueDate.Format("Jan 2")
	if task.Overdue(now) {
		return s.TaskLate.Render("overdue " + due)
	}
	return s.TaskDue.Render("due " + due)
}

// RenderCard is the exported version for testing
func RenderCard(task domain.Task, isCursor, isHeld bool, width int, now time.Time, s *styles.Styles) string {
	return renderCard(task, isCursor, isHeld, width, now, s)
}
