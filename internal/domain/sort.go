package domain

import "sort"

// SortField represents a field to sort by
type SortField string

const (
	SortByPosition SortField = ""
	SortByPriority SortField = "priority"
	SortByDue      SortField = "due"
	SortByUpdated  SortField = "updated"
)

// SortOrder represents sort direction
type SortOrder int

const (
	SortAsc SortOrder = iota
	SortDesc
)

// Sort represents sorting state. The zero value keeps board order.
type Sort struct {
	Field SortField
	Order SortOrder
}

// IsActive reports whether the sort overrides board order
func (s Sort) IsActive() bool {
	return s.Field != SortByPosition
}

// Toggle toggles the sort field or direction
// If field is different, sets new field with ascending order
// If field is same, toggles between ascending and descending
func (s *Sort) Toggle(field SortField) {
	if s.Field == field {
		if s.Order == SortAsc {
			s.Order = SortDesc
		} else {
			s.Order = SortAsc
		}
	} else {
		s.Field = field
		s.Order = SortAsc
	}
}

// Apply sorts a copy of tasks
func (s *Sort) Apply(tasks []Task) []Task {
	if len(tasks) == 0 || !s.IsActive() {
		return tasks
	}

	result := make([]Task, len(tasks))
	copy(result, tasks)

	var less func(a, b Task) bool
	switch s.Field {
	case SortByPriority:
		// Ascending puts HIGH first
		less = func(a, b Task) bool { return a.Priority.Rank() < b.Priority.Rank() }
	case SortByDue:
		less = dueBefore
	case SortByUpdated:
		less = func(a, b Task) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	default:
		return result
	}

	sort.SliceStable(result, func(i, j int) bool {
		if s.Order == SortAsc {
			return less(result[i], result[j])
		}
		return less(result[j], result[i])
	})

	return result
}

// dueBefore orders tasks without a due date last
func dueBefore(a, b Task) bool {
	switch {
	case a.DueDate == nil:
		return false
	case b.DueDate == nil:
		return true
	default:
		return a.DueDate.Before(*b.DueDate)
	}
}
