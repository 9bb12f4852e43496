package board

import (
	"github.com/riordanpawley/vantage/internal/actionplan"
	"github.com/riordanpawley/vantage/internal/domain"
)

// Column represents a kanban column with tasks
type Column struct {
	Key   domain.Column
	Title string
	Tasks []domain.Task
}

// Cursor represents the current cursor position
type Cursor struct {
	Column int // Column index (0-2)
	Task   int // Task index within column
}

// ColumnsFrom lays out a board in display order
func ColumnsFrom(b actionplan.Board) []Column {
	cols := make([]Column, len(domain.Columns))
	for i, c := range domain.Columns {
		cols[i] = Column{Key: c, Title: c.Title(), Tasks: b.Column(c)}
	}
	return cols
}
