package domain

import (
	"strings"
	"time"
)

// Filter represents board filtering state
type Filter struct {
	Priority      map[Priority]bool
	OverdueOnly   bool
	DueWithinDays *int
	Assignee      string
	SearchQuery   string
}

// NewFilter creates a new empty filter
func NewFilter() *Filter {
	return &Filter{
		Priority: make(map[Priority]bool),
	}
}

// IsActive returns true if any filter is active
func (f *Filter) IsActive() bool {
	return len(f.Priority) > 0 ||
		f.OverdueOnly ||
		f.DueWithinDays != nil ||
		f.Assignee != "" ||
		f.SearchQuery != ""
}

// Apply filters a list of tasks
func (f *Filter) Apply(tasks []Task, now time.Time) []Task {
	if !f.IsActive() {
		return tasks
	}

	result := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if f.Matches(task, now) {
			result = append(result, task)
		}
	}
	return result
}

// Matches returns true if the task passes all active filters.
// Uses AND logic between filter kinds, OR logic within priorities.
func (f *Filter) Matches(t Task, now time.Time) bool {
	if len(f.Priority) > 0 && !f.Priority[t.Priority] {
		return false
	}

	if f.OverdueOnly && !t.Overdue(now) {
		return false
	}

	if f.DueWithinDays != nil {
		if t.DueDate == nil {
			return false
		}
		limit := startOfDay(now).AddDate(0, 0, *f.DueWithinDays+1)
		if !t.DueDate.Before(limit) {
			return false
		}
	}

	if f.Assignee != "" && t.AssigneeID != f.Assignee {
		return false
	}

	// Case-insensitive, matches title or source
	if f.SearchQuery != "" {
		query := strings.ToLower(f.SearchQuery)
		if !strings.Contains(strings.ToLower(t.Title), query) &&
			!strings.Contains(strings.ToLower(t.Source), query) {
			return false
		}
	}

	return true
}

// Clear resets all filters
func (f *Filter) Clear() {
	f.Priority = make(map[Priority]bool)
	f.OverdueOnly = false
	f.DueWithinDays = nil
	f.Assignee = ""
	f.SearchQuery = ""
}

// TogglePriority toggles a priority filter
func (f *Filter) TogglePriority(p Priority) {
	if f.Priority == nil {
		f.Priority = make(map[Priority]bool)
	}
	if f.Priority[p] {
		delete(f.Priority, p)
	} else {
		f.Priority[p] = true
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
