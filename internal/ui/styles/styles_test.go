package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	s := New()
	assert.NotNil(t, s)
}

func TestPriorityBadge(t *testing.T) {
	s := New()

	tests := []struct {
		priority domain.Priority
		want     lipgloss.Color
	}{
		{domain.PriorityHigh, Red},
		{domain.PriorityMedium, Yellow},
		{domain.PriorityLow, Green},
		{"", Overlay0},
	}

	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			style := s.PriorityBadge(tt.priority)
			assert.Equal(t, tt.want, style.GetBackground())
			assert.NotEmpty(t, style.Render(tt.priority.Short()))
		})
	}
}

func TestScoreColor(t *testing.T) {
	assert.Equal(t, Green, ScoreColor(70))
	assert.Equal(t, Yellow, ScoreColor(69.9))
	assert.Equal(t, Yellow, ScoreColor(40))
	assert.Equal(t, Red, ScoreColor(39))
}

func TestColumnColors(t *testing.T) {
	for _, col := range domain.Columns {
		_, ok := ColumnColors[col]
		assert.True(t, ok, "missing color for %s", col)
	}
}
