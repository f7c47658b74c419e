// Package keys describes the TUI key bindings so help text and key handling
// share one source.
package keys

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Scope groups bindings by where they apply.
type Scope int

const (
	ScopeGlobal Scope = iota
	ScopeResults
	ScopeDetail
)

// String returns the scope's section heading.
func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "General"
	case ScopeResults:
		return "Results"
	case ScopeDetail:
		return "Detail"
	default:
		return "Unknown"
	}
}

// Binding is a key binding and its help text.
type Binding struct {
	keys        []string
	help        string
	description string
}

// NewBinding creates a binding. help is the short key label shown to the
// user; keys are the bubbletea key strings that trigger it.
func NewBinding(help, description string, keys ...string) *Binding {
	return &Binding{
		keys:        keys,
		help:        help,
		description: description,
	}
}

// Help returns the key label.
func (b *Binding) Help() string {
	return b.help
}

// Description returns the description.
func (b *Binding) Description() string {
	return b.description
}

// Matches reports whether msg triggers this binding. Matching is case
// sensitive: "f" and "F" are different bindings.
func (b *Binding) Matches(msg tea.KeyMsg) bool {
	s := msg.String()
	for _, k := range b.keys {
		if k == s {
			return true
		}
	}
	return false
}

// KeyMap holds bindings organized by scope.
type KeyMap struct {
	bindings map[Scope][]*Binding
}

// NewKeyMap creates an empty key map.
func NewKeyMap() *KeyMap {
	return &KeyMap{
		bindings: make(map[Scope][]*Binding),
	}
}

// Register adds a binding to a scope and returns it.
func (km *KeyMap) Register(scope Scope, b *Binding) *Binding {
	km.bindings[scope] = append(km.bindings[scope], b)
	return b
}

// Bindings returns the bindings for a scope in registration order.
func (km *KeyMap) Bindings(scope Scope) []*Binding {
	return km.bindings[scope]
}

// Find returns the first binding in scope matching msg.
func (km *KeyMap) Find(scope Scope, msg tea.KeyMsg) (*Binding, bool) {
	for _, b := range km.bindings[scope] {
		if b.Matches(msg) {
			return b, true
		}
	}
	return nil, false
}

// Default bindings.
var (
	Quit           = NewBinding("q", "Quit", "q", "ctrl+c")
	Help           = NewBinding("?", "Help", "?")
	Refresh        = NewBinding("r", "Refresh", "r")
	FavoritesOnly  = NewBinding("F", "Favorites only", "F")
	NextPane       = NewBinding("Tab", "Next pane", "tab")
	PrevPane       = NewBinding("Shift+Tab", "Previous pane", "shift+tab")
	ResultsPane    = NewBinding("1", "Results pane", "1")
	DetailPane     = NewBinding("2", "Detail pane", "2")
	Down           = NewBinding("j", "Move down", "j", "down")
	Up             = NewBinding("k", "Move up", "k", "up")
	Top            = NewBinding("g", "Go to top", "g", "home")
	Bottom         = NewBinding("G", "Go to bottom", "G", "end")
	Open           = NewBinding("Enter", "Open", "enter")
	ToggleFavorite = NewBinding("f", "Toggle favorite", "f")
	CopyURL        = NewBinding("y", "Copy URL", "y")
)

// Default returns the key map used by the main view.
func Default() *KeyMap {
	km := NewKeyMap()

	km.Register(ScopeResults, Down)
	km.Register(ScopeResults, Up)
	km.Register(ScopeResults, Top)
	km.Register(ScopeResults, Bottom)
	km.Register(ScopeResults, Open)
	km.Register(ScopeResults, ToggleFavorite)
	km.Register(ScopeResults, CopyURL)

	km.Register(ScopeDetail, ToggleFavorite)
	km.Register(ScopeDetail, CopyURL)

	km.Register(ScopeGlobal, NextPane)
	km.Register(ScopeGlobal, PrevPane)
	km.Register(ScopeGlobal, ResultsPane)
	km.Register(ScopeGlobal, DetailPane)
	km.Register(ScopeGlobal, FavoritesOnly)
	km.Register(ScopeGlobal, Refresh)
	km.Register(ScopeGlobal, Help)
	km.Register(ScopeGlobal, Quit)

	return km
}
