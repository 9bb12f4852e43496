package overlay

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/vantage/internal/ui/styles"
)

// SearchMsg is emitted on every keystroke for live filtering
type SearchMsg struct {
	Query string
}

// SearchOverlay is the single-line board search bar
type SearchOverlay struct {
	input      textinput.Model
	matchCount int
}

var searchStyle = lipgloss.NewStyle().
	Foreground(styles.Text).
	Background(styles.Surface0)

var matchCountStyle = lipgloss.NewStyle().
	Foreground(styles.Overlay1).
	Background(styles.Surface0)

// NewSearchOverlay creates a search bar prefilled with query
func NewSearchOverlay(query string) *SearchOverlay {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search title or source..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.SetValue(query)
	ti.Focus()

	return &SearchOverlay{input: ti}
}

// SetMatchCount updates the match count display
func (s *SearchOverlay) SetMatchCount(count int) {
	s.matchCount = count
}

// Init implements tea.Model
func (s *SearchOverlay) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (s *SearchOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			// keeps the query active
			return s, closeOverlay

		case tea.KeyEsc:
			s.input.SetValue("")
			return s, tea.Batch(
				func() tea.Msg { return SearchMsg{Query: ""} },
				closeOverlay,
			)
		}
	}

	prev := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if query := s.input.Value(); query != prev {
		return s, tea.Batch(cmd, func() tea.Msg { return SearchMsg{Query: query} })
	}

	return s, cmd
}

// View implements tea.Model
func (s *SearchOverlay) View() string {
	inputView := s.input.View()
	if s.input.Value() != "" {
		inputView += matchCountStyle.Render(fmt.Sprintf(" (%d matches)", s.matchCount))
	}
	return searchStyle.Render(inputView)
}

// Title implements Overlay interface (returns empty for search bar)
func (s *SearchOverlay) Title() string {
	return ""
}

// Size implements Overlay interface (full-width single line)
func (s *SearchOverlay) Size() (width, height int) {
	return 0, 1
}
