package overlay

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortMenu_Toggle(t *testing.T) {
	s := &domain.Sort{}
	m := NewSortMenu(s)

	_, cmd := m.Update(keyPress("p"))
	require.NotNil(t, cmd)
	assert.Equal(t, SelectionMsg{Key: "sort", Value: domain.Sort{Field: domain.SortByPriority}}, cmd())
	assert.Equal(t, domain.SortByPriority, s.Field)

	m.Update(keyPress("p"))
	assert.Equal(t, domain.SortDesc, s.Order)

	m.Update(keyPress("d"))
	assert.Equal(t, domain.Sort{Field: domain.SortByDue}, *s)

	m.Update(keyPress("b"))
	assert.False(t, s.IsActive())
}

func TestSortMenu_UnknownKey(t *testing.T) {
	s := &domain.Sort{}
	_, cmd := NewSortMenu(s).Update(keyPress("z"))
	assert.Nil(t, cmd)
}

func TestSortMenu_View(t *testing.T) {
	s := &domain.Sort{Field: domain.SortByUpdated, Order: domain.SortDesc}
	view := ansi.Strip(NewSortMenu(s).View())

	assert.Contains(t, view, "[u] Updated")
	assert.Contains(t, view, "● ↓")
	assert.Contains(t, view, "Press same key to toggle direction")

	_, cmd := NewSortMenu(s).Update(keyPress("esc"))
	assert.Equal(t, CloseOverlayMsg{}, cmd())
}
