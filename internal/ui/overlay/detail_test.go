package overlay

import (
	"fmt"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detailTask() domain.Task {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return domain.Task{
		ID:       "a1",
		Title:    "Review cash flow weekly",
		Source:   "Finance",
		Priority: domain.PriorityHigh,
		DueDate:  &due,
		Column:   domain.ColumnTodo,
		Notes: []domain.Note{
			{ID: "n1", Body: "Started with last quarter", Author: "Olivia", CreatedAt: due},
		},
	}
}

func TestDetailPanel_View(t *testing.T) {
	d := NewDetailPanel(detailTask(), true)
	d.now = func() time.Time { return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) }

	view := ansi.Strip(d.View())
	for _, want := range []string{
		"Review cash flow weekly",
		"(refreshing…)",
		"To Do",
		"HIGH",
		"Finance",
		"(overdue)",
		"Notes (1)",
		"Olivia",
		"Started with last quarter",
		"a: Add note",
	} {
		assert.Contains(t, view, want)
	}
	assert.Equal(t, "Action Details", d.Title())
}

func TestDetailPanel_SetTaskClearsLoading(t *testing.T) {
	d := NewDetailPanel(domain.Task{ID: "a1", Title: "Old"}, true)
	d.SetTask(domain.Task{ID: "a1", Title: "New"})

	view := ansi.Strip(d.View())
	assert.Contains(t, view, "New")
	assert.NotContains(t, view, "refreshing")
	assert.Contains(t, view, "No notes yet.")
	assert.Equal(t, "a1", d.TaskID())
}

func TestDetailPanel_AddNote(t *testing.T) {
	d := NewDetailPanel(detailTask(), false)

	d.Update(keyPress("a"))
	require.True(t, d.writing)
	typeText(d, "Spoke to accountant")

	_, cmd := d.Update(keyPress("ctrl+s"))
	msgs := run(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, NoteSubmittedMsg{TaskID: "a1", Body: "Spoke to accountant"}, msgs[0])
	assert.False(t, d.writing)
	assert.Empty(t, d.note.Value())
}

func TestDetailPanel_EmptyNoteRejected(t *testing.T) {
	d := NewDetailPanel(detailTask(), false)
	d.Update(keyPress("a"))
	typeText(d, "   ")

	_, cmd := d.Update(keyPress("ctrl+s"))
	inv, ok := hasMsg[InvalidInputMsg](run(cmd))
	require.True(t, ok)
	assert.Equal(t, "Note cannot be empty", inv.Err.Message)
	assert.True(t, d.writing)
}

func TestDetailPanel_KeysWhileWritingGoToTextarea(t *testing.T) {
	d := NewDetailPanel(detailTask(), false)
	d.Update(keyPress("a"))

	d.Update(keyPress("q"))
	assert.True(t, d.writing)
	assert.Equal(t, "q", d.note.Value())

	d.Update(keyPress("esc"))
	assert.False(t, d.writing)
	_, cmd := d.Update(keyPress("q"))
	assert.Equal(t, CloseOverlayMsg{}, cmd())
}

func TestDetailPanel_EditAndDelete(t *testing.T) {
	d := NewDetailPanel(detailTask(), false)

	for _, k := range []string{"e", "d"} {
		_, cmd := d.Update(keyPress(k))
		sel, ok := hasMsg[SelectionMsg](run(cmd))
		require.True(t, ok)
		assert.Equal(t, map[string]string{"e": "edit", "d": "delete"}[k], sel.Key)
		assert.Equal(t, "a1", sel.Value.(domain.Task).ID)
	}
}

func TestDetailPanel_ScrollsNotes(t *testing.T) {
	task := detailTask()
	task.Notes = nil
	for i := range 10 {
		task.Notes = append(task.Notes, domain.Note{ID: fmt.Sprint(i), Body: fmt.Sprintf("note %d", i)})
	}
	d := NewDetailPanel(task, false)

	assert.Equal(t, 12, d.maxScroll())
	d.Update(keyPress("G"))
	assert.Contains(t, ansi.Strip(d.View()), "note 9")
	assert.NotContains(t, ansi.Strip(d.View()), "note 0")
	d.Update(keyPress("g"))
	assert.Contains(t, ansi.Strip(d.View()), "note 0")
}
