package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/ui/styles"
)

// renderColumn renders a kanban column with header and the cards that fit
// in height, scrolled so the cursor card is visible
func renderColumn(
	col Column,
	cursorTask int,
	isActive bool,
	held string,
	width int,
	height int,
	now time.Time,
	s *styles.Styles,
) string {
	headerStyle := s.ColumnHeader
	if isActive {
		headerStyle = s.ColumnHeaderActive
	}

	// e.g. "─ To Do (3) ─────"
	headerText := fmt.Sprintf("─ %s (%d) ", col.Title, len(col.Tasks))
	if remaining := width - ansi.StringWidth(headerText) - 2; remaining > 0 {
		headerText += strings.Repeat("─", remaining)
	}
	header := headerStyle.Render(headerText)

	// header, its margin and the column border take four lines
	inner := max(1, height-4)
	capacity := inner / cardHeight
	if len(col.Tasks) > capacity {
		capacity = (inner - 2) / cardHeight // room for the more markers
	}
	start, end := visibleRange(len(col.Tasks), cursorTask, capacity)

	var cards []string
	cardWidth := width - 6 // column and card borders plus column padding
	if start > 0 {
		cards = append(cards, s.Muted.Render(fmt.Sprintf("↑ %d more", start)))
	}
	for i := start; i < end; i++ {
		task := col.Tasks[i]
		isCursor := isActive && i == cursorTask
		cards = append(cards, renderCard(task, isCursor, task.ID == held, cardWidth, now, s))
	}
	if end < len(col.Tasks) {
		cards = append(cards, s.Muted.Render(fmt.Sprintf("↓ %d more", len(col.Tasks)-end)))
	}
	if len(col.Tasks) == 0 {
		cards = append(cards, s.Muted.Render(emptyText(col.Key)))
	}

	columnContent := s.Column.Width(width - 2).Height(inner).MaxHeight(inner + 2).Render(strings.Join(cards, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, header, columnContent)
}

// visibleRange returns the slice of card indexes to draw
func visibleRange(total, cursor, capacity int) (int, int) {
	if capacity <= 0 {
		capacity = 1
	}
	if total <= capacity {
		return 0, total
	}
	cursor = max(0, min(cursor, total-1))
	start := max(0, cursor-capacity+1)
	return start, min(total, start+capacity)
}

func emptyText(col domain.Column) string {
	switch col {
	case domain.ColumnTodo:
		return "Nothing to do. Press n to add an action."
	case domain.ColumnCompleted:
		return "No completed actions yet"
	default:
		return "Nothing in progress"
	}
}
