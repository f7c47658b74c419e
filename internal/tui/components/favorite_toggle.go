package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/artpar/favtag/internal/core"
	"github.com/artpar/favtag/internal/favorite"
)

var (
	starOnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	starOffStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	starBusyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true)
)

// FavoriteToggle is the star control attached to one result.
type FavoriteToggle struct {
	state *favorite.State
}

// NewFavoriteToggle creates a toggle for result from its current tags.
func NewFavoriteToggle(result core.Result, opts ...favorite.Option) *FavoriteToggle {
	return &FavoriteToggle{
		state: favorite.New(result.ID, result.Tags, opts...),
	}
}

// State returns the underlying state machine.
func (t *FavoriteToggle) State() *favorite.State {
	return t.state
}

// Activate handles a key press or click on the star. It returns nil while a
// toggle is already in flight.
func (t *FavoriteToggle) Activate() tea.Cmd {
	return t.state.Toggle()
}

// Update applies toggle results.
func (t *FavoriteToggle) Update(msg tea.Msg) tea.Cmd {
	return t.state.Update(msg)
}

// Label describes what activating the toggle will do.
func (t *FavoriteToggle) Label() string {
	if t.state.Favorited() {
		return "Remove from favorites"
	}
	return "Add to favorites"
}

// View renders the star.
func (t *FavoriteToggle) View() string {
	star := "☆"
	if t.state.Favorited() {
		star = "★"
	}

	switch {
	case t.state.Busy():
		return starBusyStyle.Render(star)
	case t.state.Favorited():
		return starOnStyle.Render(star)
	default:
		return starOffStyle.Render(star)
	}
}
