// Package compact renders the action board as a single list for terminals
// too narrow for three columns
package compact

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/ui/board"
	"github.com/riordanpawley/vantage/internal/ui/styles"
)

// MinBoardWidth is the narrowest terminal that still gets the three-column
// board
const MinBoardWidth = 90

// dueWidth fits "overdue Jan 22"
const dueWidth = 15

// Render lays the columns out one after another, one task per line. The
// window scrolls to keep the cursor row visible.
func Render(columns []board.Column, cursor board.Cursor, held string, s *styles.Styles, width, height int, now time.Time) string {
	if len(columns) == 0 || height <= 0 {
		return ""
	}

	var lines []string
	cursorLine := 0
	for ci, col := range columns {
		active := ci == cursor.Column
		header := s.ColumnHeader.UnsetMarginBottom()
		if active {
			header = s.ColumnHeaderActive.UnsetMarginBottom()
		}
		if active && cursor.Task < 0 {
			cursorLine = len(lines)
		}
		lines = append(lines, header.Render(fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks))))

		if len(col.Tasks) == 0 {
			lines = append(lines, s.Muted.Render("   nothing here"))
		}
		for ti, task := range col.Tasks {
			isCursor := active && ti == cursor.Task
			if isCursor {
				cursorLine = len(lines)
			}
			lines = append(lines, renderRow(task, isCursor, task.ID == held, width, now, s))
		}
	}

	start, end := window(len(lines), cursorLine, height)
	out := lines[start:end]
	if end < len(lines) && len(out) > 0 {
		out[len(out)-1] = s.Muted.Render(fmt.Sprintf(" ↓ %d more", len(lines)-end+1))
	}
	return strings.Join(out, "\n")
}

func renderRow(task domain.Task, isCursor, isHeld bool, width int, now time.Time, s *styles.Styles) string {
	marker := "  "
	switch {
	case isHeld:
		marker = "✥ "
	case isCursor:
		marker = "▶ "
	}

	due := ""
	if task.DueDate != nil {
		due = task.DueDate.Format("Jan 2")
		if task.Overdue(now) {
			due = s.TaskLate.Render("overdue " + due)
		} else {
			due = s.TaskDue.Render("due " + due)
		}
	}

	badge := s.PriorityBadge(task.Priority).Render(task.Priority.Short())
	titleWidth := max(8, width-ansi.StringWidth(marker)-ansi.StringWidth(badge)-dueWidth-2)

	title := ansi.Truncate(task.Title, titleWidth, "…")
	switch {
	case isHeld:
		title = s.MenuItemActive.Render(title)
	case isCursor:
		title = s.TaskTitle.Bold(true).Render(title)
	default:
		title = s.TaskTitle.Render(title)
	}
	pad := strings.Repeat(" ", max(0, titleWidth-ansi.StringWidth(title)))

	return marker + badge + " " + title + pad + " " + due
}

// window returns the visible slice [start, end) of total lines that keeps
// line in view
func window(total, line, capacity int) (int, int) {
	if total <= capacity {
		return 0, total
	}
	start := max(0, line-capacity/2)
	start = min(start, total-capacity)
	return start, start + capacity
}
