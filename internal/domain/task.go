// Package domain contains core business types for the Vantage client.
package domain

import (
	"strings"
	"time"
)

// Task is an action-plan item shown on the kanban board
type Task struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Source     string     `json:"source,omitempty"`
	Priority   Priority   `json:"priority"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	AssigneeID string     `json:"assignee_id,omitempty"`
	Assignee   string     `json:"assignee_name,omitempty"`
	Column     Column     `json:"status"`
	Position   int        `json:"position"`
	Notes      []Note     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Note is a free-text comment attached to an action item
type Note struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Column is the board column a task belongs to
type Column string

const (
	ColumnTodo       Column = "todo"
	ColumnInProgress Column = "in_progress"
	ColumnCompleted  Column = "completed"
)

// Columns lists the board columns in display order
var Columns = []Column{ColumnTodo, ColumnInProgress, ColumnCompleted}

// Index returns the display index of the column, or -1 if unknown
func (c Column) Index() int {
	switch c {
	case ColumnTodo:
		return 0
	case ColumnInProgress:
		return 1
	case ColumnCompleted:
		return 2
	default:
		return -1
	}
}

// Title returns the column header text
func (c Column) Title() string {
	switch c {
	case ColumnTodo:
		return "To Do"
	case ColumnInProgress:
		return "In Progress"
	case ColumnCompleted:
		return "Completed"
	default:
		return string(c)
	}
}

// Label returns the upper-case label used in notifications
func (c Column) Label() string {
	return strings.ToUpper(strings.ReplaceAll(string(c), "_", " "))
}

// ParseColumn accepts the wire value or a spaced/dashed variant such as
// "in-progress"
func ParseColumn(s string) (Column, bool) {
	c := Column(strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(s))))
	return c, c.Index() >= 0
}

// String returns the wire value
func (c Column) String() string {
	return string(c)
}

// Priority is the urgency of an action item
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Rank returns 0 for the most urgent priority
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// Short returns single character representation
func (p Priority) Short() string {
	switch p {
	case PriorityHigh:
		return "H"
	case PriorityMedium:
		return "M"
	case PriorityLow:
		return "L"
	default:
		return "?"
	}
}

// String returns the wire value
func (p Priority) String() string {
	return string(p)
}

// ParsePriority accepts HIGH/MEDIUM/LOW in any case
func ParsePriority(s string) (Priority, bool) {
	switch Priority(strings.ToUpper(strings.TrimSpace(s))) {
	case PriorityHigh:
		return PriorityHigh, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityLow:
		return PriorityLow, true
	}
	return "", false
}

// BoardPlacement is the new location of a task after a reorder
type BoardPlacement struct {
	ID       string `json:"id"`
	Column   Column `json:"status"`
	Position int    `json:"position"`
}

// NewTask is the payload for creating an action item
type NewTask struct {
	Title      string     `json:"title"`
	Source     string     `json:"source,omitempty"`
	Priority   Priority   `json:"priority"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	AssigneeID string     `json:"assignee_id,omitempty"`
	Column     Column     `json:"status"`
}

// TaskPatch is a partial update of an action item
type TaskPatch struct {
	Title      *string    `json:"title,omitempty"`
	Source     *string    `json:"source,omitempty"`
	Priority   *Priority  `json:"priority,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	AssigneeID *string    `json:"assignee_id,omitempty"`
	Column     *Column    `json:"status,omitempty"`
}

// Overdue reports whether an unfinished task is past its due date
func (t Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && t.Column != ColumnCompleted && t.DueDate.Before(now)
}
