// Package actionplan holds the action-plan kanban board as an immutable
// value with pure move, add and remove operations.
package actionplan

import (
	"fmt"
	"slices"
	"sort"

	"github.com/riordanpawley/vantage/internal/domain"
)

// Board partitions tasks into the three ordered columns. The zero value is
// an empty board. Operations return a new Board and never modify the
// receiver's columns.
type Board struct {
	cols [3][]domain.Task
}

// Notice is a user-facing message produced by a board change
type Notice struct {
	Message string
}

// Empty reports whether there is nothing to show
func (n Notice) Empty() bool {
	return n.Message == ""
}

// New builds a board from tasks, ordering each column by Position. Tasks
// with an unknown column land in To Do.
func New(tasks []domain.Task) Board {
	var b Board
	for _, t := range tasks {
		i := t.Column.Index()
		if i < 0 {
			t.Column = domain.ColumnTodo
			i = 0
		}
		b.cols[i] = append(b.cols[i], t)
	}
	for i := range b.cols {
		col := b.cols[i]
		sort.SliceStable(col, func(x, y int) bool { return col[x].Position < col[y].Position })
		b.renumber(i)
	}
	return b
}

// Column returns a copy of the tasks in a column
func (b Board) Column(col domain.Column) []domain.Task {
	i := col.Index()
	if i < 0 {
		return nil
	}
	return slices.Clone(b.cols[i])
}

// Len returns the number of tasks in a column
func (b Board) Len(col domain.Column) int {
	i := col.Index()
	if i < 0 {
		return 0
	}
	return len(b.cols[i])
}

// Total returns the number of tasks on the board
func (b Board) Total() int {
	return len(b.cols[0]) + len(b.cols[1]) + len(b.cols[2])
}

// At returns the task at a position
func (b Board) At(col domain.Column, index int) (domain.Task, bool) {
	i := col.Index()
	if i < 0 || index < 0 || index >= len(b.cols[i]) {
		return domain.Task{}, false
	}
	return b.cols[i][index], true
}

// Find locates a task by id
func (b Board) Find(id string) (domain.Column, int, bool) {
	for i, col := range b.cols {
		for j, t := range col {
			if t.ID == id {
				return domain.Columns[i], j, true
			}
		}
	}
	return "", 0, false
}

// Tasks returns every task in column order
func (b Board) Tasks() []domain.Task {
	out := make([]domain.Task, 0, b.Total())
	for _, col := range b.cols {
		out = append(out, col...)
	}
	return out
}

// MoveTask removes the task at from[fromIndex] and inserts it into to at
// toIndex, clamped to the destination length after removal. The task at
// from[fromIndex] must have the given id, otherwise ErrInvalidMove is
// returned with the board unchanged. A cross-column move yields a notice.
func (b Board) MoveTask(id string, from domain.Column, fromIndex int, to domain.Column, toIndex int) (Board, Notice, error) {
	fi, ti := from.Index(), to.Index()
	if fi < 0 || ti < 0 {
		return b, Notice{}, fmt.Errorf("%w: unknown column", domain.ErrInvalidMove)
	}
	if fromIndex < 0 || fromIndex >= len(b.cols[fi]) || b.cols[fi][fromIndex].ID != id {
		return b, Notice{}, fmt.Errorf("%w: task %s is not at %s[%d]", domain.ErrInvalidMove, id, from, fromIndex)
	}
	if fi == ti && fromIndex == toIndex {
		return b, Notice{}, nil
	}

	next := b
	task := b.cols[fi][fromIndex]

	src := slices.Clone(b.cols[fi])
	src = slices.Delete(src, fromIndex, fromIndex+1)
	next.cols[fi] = src

	dst := src
	if fi != ti {
		dst = slices.Clone(b.cols[ti])
	}
	toIndex = max(0, min(toIndex, len(dst)))
	task.Column = to
	next.cols[ti] = slices.Insert(dst, toIndex, task)

	next.renumber(fi)
	next.renumber(ti)

	if fi == ti {
		return next, Notice{}, nil
	}
	return next, Notice{Message: fmt.Sprintf("%q moved to %s", task.Title, to.Label())}, nil
}

// SetColumn moves a task to the end of another column
func (b Board) SetColumn(id string, to domain.Column) (Board, Notice, error) {
	from, idx, ok := b.Find(id)
	if !ok {
		return b, Notice{}, fmt.Errorf("%w: task %s not on board", domain.ErrInvalidMove, id)
	}
	if from == to {
		return b, Notice{}, nil
	}
	return b.MoveTask(id, from, idx, to, b.Len(to))
}

// Add appends a task to the end of its column
func (b Board) Add(task domain.Task) Board {
	i := task.Column.Index()
	if i < 0 {
		task.Column = domain.ColumnTodo
		i = 0
	}
	next := b
	next.cols[i] = append(slices.Clone(b.cols[i]), task)
	next.renumber(i)
	return next
}

// Remove deletes a task by id. Unknown ids leave the board unchanged.
func (b Board) Remove(id string) Board {
	col, idx, ok := b.Find(id)
	if !ok {
		return b
	}
	i := col.Index()
	next := b
	next.cols[i] = slices.Delete(slices.Clone(b.cols[i]), idx, idx+1)
	next.renumber(i)
	return next
}

// Replace swaps in an updated task, moving it to the end of its new column
// when the column changed
func (b Board) Replace(task domain.Task) Board {
	col, idx, ok := b.Find(task.ID)
	if !ok {
		return b.Add(task)
	}
	if task.Column.Index() < 0 {
		task.Column = col
	}
	if task.Column != col {
		return b.Remove(task.ID).Add(task)
	}
	i := col.Index()
	next := b
	next.cols[i] = slices.Clone(b.cols[i])
	task.Position = idx
	next.cols[i][idx] = task
	return next
}

// Placements lists the column and position of every task whose placement
// differs between before and after
func Placements(before, after Board) []domain.BoardPlacement {
	prev := make(map[string]domain.BoardPlacement, before.Total())
	for i, col := range before.cols {
		for j, t := range col {
			prev[t.ID] = domain.BoardPlacement{ID: t.ID, Column: domain.Columns[i], Position: j}
		}
	}

	var out []domain.BoardPlacement
	for i, col := range after.cols {
		for j, t := range col {
			p := domain.BoardPlacement{ID: t.ID, Column: domain.Columns[i], Position: j}
			if old, ok := prev[t.ID]; !ok || old != p {
				out = append(out, p)
			}
		}
	}
	return out
}

// renumber rewrites Position and Column of a column in place. Only call it
// on a slice the board owns.
func (b *Board) renumber(i int) {
	for j := range b.cols[i] {
		b.cols[i][j].Position = j
		b.cols[i][j].Column = domain.Columns[i]
	}
}
