package app

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/riordanpawley/vantage/internal/ui/overlay"
)

// KeyMap holds the board and global bindings
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	HalfDown key.Binding
	HalfUp   key.Binding
	Top      key.Binding
	Bottom   key.Binding

	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Details key.Binding
	Actions key.Binding
	Pick    key.Binding
	Drop    key.Binding

	Filter  key.Binding
	Sort    key.Binding
	Search  key.Binding
	Refresh key.Binding

	Assessments key.Binding
	Settings    key.Binding
	Logout      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Left:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "left column")),
		Right:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "right column")),
		HalfDown: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "half page down")),
		HalfUp:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "half page up")),
		Top:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "first action")),
		Bottom:   key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "last action")),

		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new action")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit action")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete action")),
		Details: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details and notes")),
		Actions: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "action menu")),
		Pick:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "pick up card")),
		Drop:    key.NewBinding(key.WithKeys("M", "enter"), key.WithHelp("M/enter", "drop card")),

		Filter:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Sort:    key.NewBinding(key.WithKeys(","), key.WithHelp(",", "sort")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),

		Assessments: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "assessments")),
		Settings:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		Logout:      key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "sign out")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// HelpCategories groups the bindings for the help overlay
func (k KeyMap) HelpCategories() []overlay.KeyCategory {
	return []overlay.KeyCategory{
		{Name: "Navigation", Bindings: []key.Binding{k.Up, k.Down, k.Left, k.Right, k.HalfDown, k.HalfUp, k.Top, k.Bottom}},
		{Name: "Actions", Bindings: []key.Binding{k.New, k.Edit, k.Delete, k.Details, k.Actions}},
		{Name: "Reorder", Bindings: []key.Binding{k.Pick, k.Drop}},
		{Name: "View", Bindings: []key.Binding{k.Filter, k.Sort, k.Search, k.Refresh}},
		{Name: "Go to", Bindings: []key.Binding{k.Assessments, k.Settings, k.Logout, k.Help, k.Quit}},
	}
}
