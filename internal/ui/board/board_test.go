package board

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/vantage/internal/actionplan"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/ui/styles"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func sampleColumns() []Column {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return ColumnsFrom(actionplan.New([]domain.Task{
		{ID: "a1", Title: "Write a 12-month plan", Priority: domain.PriorityHigh, Source: "Strategy", Column: domain.ColumnTodo},
		{ID: "a2", Title: "Review cash flow weekly", Priority: domain.PriorityMedium, Column: domain.ColumnTodo, DueDate: &due},
		{ID: "a3", Title: "Document onboarding", Priority: domain.PriorityLow, Column: domain.ColumnInProgress},
		{ID: "a4", Title: "Set up CRM", Priority: domain.PriorityHigh, Column: domain.ColumnCompleted, DueDate: &due},
	}))
}

func TestColumnsFrom(t *testing.T) {
	cols := sampleColumns()
	assert.Len(t, cols, 3)
	assert.Equal(t, "To Do", cols[0].Title)
	assert.Equal(t, domain.ColumnInProgress, cols[1].Key)
	assert.Len(t, cols[0].Tasks, 2)
}

func TestRender(t *testing.T) {
	got := ansi.Strip(Render(sampleColumns(), Cursor{Column: 0, Task: 1}, "", styles.New(), 120, 30, now))

	for _, want := range []string{
		"To Do (2)",
		"In Progress (1)",
		"Completed (1)",
		"Write a 12-month plan",
		"▶Review cash flow weekly",
		"Strategy",
		"overdue Mar 1",
		"due Mar 1",
	} {
		assert.Contains(t, got, want)
	}
	assert.Equal(t, 1, strings.Count(got, "▶"), "exactly one cursor")
}

func TestRender_FitsHeight(t *testing.T) {
	var tasks []domain.Task
	for i := range 12 {
		tasks = append(tasks, domain.Task{ID: string(rune('a' + i)), Title: "Task", Column: domain.ColumnTodo})
	}
	cols := ColumnsFrom(actionplan.New(tasks))

	for _, height := range []int{12, 20, 33} {
		got := Render(cols, Cursor{Column: 0, Task: 11}, "", styles.New(), 120, height, now)
		assert.Equal(t, height, len(strings.Split(got, "\n")), "height %d", height)
		assert.Contains(t, ansi.Strip(got), "more", "height %d", height)
	}
}

func TestRender_CompletedNotOverdue(t *testing.T) {
	cols := sampleColumns()
	got := ansi.Strip(Render(cols[2:], Cursor{}, "", styles.New(), 60, 20, now))
	assert.NotContains(t, got, "overdue")
}

func TestRender_EmptyColumnHint(t *testing.T) {
	cols := ColumnsFrom(actionplan.Board{})
	got := ansi.Strip(Render(cols, Cursor{}, "", styles.New(), 150, 20, now))
	assert.Contains(t, got, "Press n to add an action")
}

func TestRenderEmptyBoard(t *testing.T) {
	assert.Equal(t, "", Render(nil, Cursor{}, "", styles.New(), 120, 30, now))
}

func TestCursorBounds(t *testing.T) {
	s := styles.New()
	for _, c := range []Cursor{{Column: 99}, {Column: 0, Task: 99}, {Column: -1, Task: -1}} {
		assert.NotPanics(t, func() {
			_ = Render(sampleColumns(), c, "", s, 120, 30, now)
		})
	}
}

func TestRenderCard(t *testing.T) {
	s := styles.New()
	task := domain.Task{ID: "a1", Title: "Implement a quarterly review of supplier contracts", Priority: domain.PriorityLow}

	got := ansi.Strip(RenderCard(task, false, false, 24, now, s))
	assert.Contains(t, got, "…", "long titles are truncated")
	assert.Contains(t, got, "L")
	for _, line := range strings.Split(got, "\n") {
		assert.LessOrEqual(t, ansi.StringWidth(line), 26)
	}

	cursor := ansi.Strip(RenderCard(task, true, false, 40, now, s))
	assert.True(t, strings.Contains(cursor, "▶"))
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		name                    string
		total, cursor, capacity int
		wantStart, wantEnd      int
	}{
		{"fits", 3, 2, 5, 0, 3},
		{"cursor at top", 10, 0, 4, 0, 4},
		{"cursor scrolled", 10, 6, 4, 3, 7},
		{"cursor at end", 10, 9, 4, 6, 10},
		{"cursor beyond", 10, 50, 4, 6, 10},
		{"zero capacity", 3, 1, 0, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := visibleRange(tt.total, tt.cursor, tt.capacity)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}
