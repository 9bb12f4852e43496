package overlay

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selected(t *testing.T, m *ActionMenu, k string) (SelectionMsg, bool) {
	t.Helper()
	_, cmd := m.Update(keyPress(k))
	if cmd == nil {
		return SelectionMsg{}, false
	}
	return hasMsg[SelectionMsg](run(cmd))
}

func TestActionMenu_MoveAvailability(t *testing.T) {
	tests := []struct {
		column    domain.Column
		wantLeft  bool
		wantRight bool
	}{
		{domain.ColumnTodo, false, true},
		{domain.ColumnInProgress, true, true},
		{domain.ColumnCompleted, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.column), func(t *testing.T) {
			m := NewActionMenu(domain.Task{ID: "a1", Column: tt.column})
			_, left := selected(t, m, "h")
			_, right := selected(t, m, "l")
			assert.Equal(t, tt.wantLeft, left)
			assert.Equal(t, tt.wantRight, right)
		})
	}
}

func TestActionMenu_DirectKey(t *testing.T) {
	m := NewActionMenu(domain.Task{ID: "a1", Column: domain.ColumnTodo})
	sel, ok := selected(t, m, "d")
	require.True(t, ok)
	assert.Equal(t, "d", sel.Key)
	assert.Equal(t, "Delete action", sel.Value.(Action).Label)
	assert.Equal(t, "a1", m.Task().ID)
}

func TestActionMenu_CursorSkipsSeparatorsAndDisabled(t *testing.T) {
	m := NewActionMenu(domain.Task{ID: "a1", Column: domain.ColumnTodo})

	m.Update(keyPress("j"))
	assert.Equal(t, 1, m.cursor) // edit
	m.Update(keyPress("j"))
	assert.Equal(t, 4, m.cursor) // move right; separator and move left skipped
	m.Update(keyPress("k"))
	assert.Equal(t, 1, m.cursor)
	m.Update(keyPress("k"))
	m.Update(keyPress("k"))
	assert.Equal(t, 7, m.cursor) // wraps to delete

	sel, ok := selected(t, m, "enter")
	require.True(t, ok)
	assert.Equal(t, "d", sel.Key)
}

func TestActionMenu_View(t *testing.T) {
	view := ansi.Strip(NewActionMenu(domain.Task{Column: domain.ColumnCompleted}).View())
	assert.Contains(t, view, "[⏎] Show details")
	assert.Contains(t, view, "[h] Move left")
	assert.Contains(t, view, "[m] Pick up to reorder")

	_, cmd := NewActionMenu(domain.Task{}).Update(keyPress("esc"))
	assert.Equal(t, CloseOverlayMsg{}, cmd())
}
