// Package board renders the action-plan kanban board.
package board

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/vantage/internal/ui/styles"
)

// Render renders the kanban board. held is the id of a card picked up for a
// keyboard move, or empty.
func Render(
	columns []Column,
	cursor Cursor,
	held string,
	s *styles.Styles,
	width int,
	height int,
	now time.Time,
) string {
	if len(columns) == 0 {
		return ""
	}

	columnWidth := width / len(columns)

	var columnStrings []string
	for i, col := range columns {
		isActive := i == cursor.Column
		cursorTask := 0
		if isActive {
			cursorTask = cursor.Task
		}

		columnStr := renderColumn(col, cursorTask, isActive, held, columnWidth, height, now, s)

		// Force consistent width using lipgloss Width
		sized := lipgloss.NewStyle().Width(columnWidth).Height(height).Render(columnStr)
		columnStrings = append(columnStrings, sized)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columnStrings...)
}
