package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/vantage/internal/domain"
)

// Styles holds all the UI styles
type Styles struct {
	// Board
	Board              lipgloss.Style
	Column             lipgloss.Style
	ColumnHeader       lipgloss.Style
	ColumnHeaderActive lipgloss.Style

	// Cards
	Card       lipgloss.Style
	CardActive lipgloss.Style
	CardHeld   lipgloss.Style
	TaskSource lipgloss.Style
	TaskTitle  lipgloss.Style
	TaskDue    lipgloss.Style
	TaskLate   lipgloss.Style

	// Badges
	PriorityBadge func(priority domain.Priority) lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusMode lipgloss.Style
	StatusHint lipgloss.Style
	StatusInfo lipgloss.Style

	// Screens
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Muted     lipgloss.Style
	Tab       lipgloss.Style
	TabActive lipgloss.Style
	Label     lipgloss.Style
	FieldErr  lipgloss.Style
	Option    lipgloss.Style
	OptionSel lipgloss.Style

	// Overlays
	Overlay          lipgloss.Style
	OverlayTitle     lipgloss.Style
	MenuItem         lipgloss.Style
	MenuItemActive   lipgloss.Style
	MenuItemDisabled lipgloss.Style
	MenuKey          lipgloss.Style
	Separator        lipgloss.Style

	// Toasts
	ToastLoading lipgloss.Style
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style

	// Report
	ScoreBar   func(percent float64) lipgloss.Style
	ScoreTrack lipgloss.Style
}

func toastStyle(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Foreground(c).
		Padding(0, 1)
}

func cardStyle(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		MarginBottom(1)
}

// New creates a new Styles instance with Catppuccin Macchiato theme
func New() *Styles {
	return &Styles{
		Board: lipgloss.NewStyle().
			Background(Base),

		Column: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface1).
			Padding(0, 1),

		ColumnHeader: lipgloss.NewStyle().
			Foreground(Subtext0).
			Bold(true).
			Padding(0, 1).
			MarginBottom(1),

		ColumnHeaderActive: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true).
			Padding(0, 1).
			MarginBottom(1),

		Card:       cardStyle(Surface1),
		CardActive: cardStyle(Lavender),
		CardHeld:   cardStyle(Mauve),

		TaskSource: lipgloss.NewStyle().
			Foreground(Overlay1),

		TaskTitle: lipgloss.NewStyle().
			Foreground(Text),

		TaskDue: lipgloss.NewStyle().
			Foreground(Subtext0),

		TaskLate: lipgloss.NewStyle().
			Foreground(Red).
			Bold(true),

		PriorityBadge: func(priority domain.Priority) lipgloss.Style {
			color, ok := PriorityColors[priority]
			if !ok {
				color = Overlay0
			}
			return lipgloss.NewStyle().
				Foreground(Base).
				Background(color).
				Padding(0, 1).
				Bold(true)
		},

		StatusBar: lipgloss.NewStyle().
			Background(Surface0).
			Foreground(Subtext0).
			Padding(0, 1),

		StatusMode: lipgloss.NewStyle().
			Background(Blue).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		StatusHint: lipgloss.NewStyle().
			Foreground(Overlay1),

		StatusInfo: lipgloss.NewStyle().
			Foreground(Subtext0),

		Title: lipgloss.NewStyle().
			Foreground(Text).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(Subtext1),

		Muted: lipgloss.NewStyle().
			Foreground(Overlay0),

		Tab: lipgloss.NewStyle().
			Foreground(Subtext0).
			Padding(0, 2),

		TabActive: lipgloss.NewStyle().
			Foreground(Base).
			Background(Blue).
			Bold(true).
			Padding(0, 2),

		Label: lipgloss.NewStyle().
			Foreground(Subtext1).
			Bold(true),

		FieldErr: lipgloss.NewStyle().
			Foreground(Red),

		Option: lipgloss.NewStyle().
			Foreground(Text),

		OptionSel: lipgloss.NewStyle().
			Foreground(Green).
			Bold(true),

		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface2).
			Background(Base).
			Padding(1, 2),

		OverlayTitle: lipgloss.NewStyle().
			Foreground(Text).
			Bold(true).
			MarginBottom(1),

		MenuItem: lipgloss.NewStyle().
			Foreground(Text),

		MenuItemActive: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true),

		MenuItemDisabled: lipgloss.NewStyle().
			Foreground(Overlay0),

		MenuKey: lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true),

		Separator: lipgloss.NewStyle().
			Foreground(Surface1),

		ToastLoading: toastStyle(Mauve),
		ToastInfo:    toastStyle(Blue),
		ToastSuccess: toastStyle(Green),
		ToastWarning: toastStyle(Yellow),
		ToastError:   toastStyle(Red),

		ScoreBar: func(percent float64) lipgloss.Style {
			return lipgloss.NewStyle().Foreground(ScoreColor(percent))
		},

		ScoreTrack: lipgloss.NewStyle().
			Foreground(Surface1),
	}
}
