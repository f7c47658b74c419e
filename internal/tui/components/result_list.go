package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/artpar/favtag/internal/core"
	"github.com/artpar/favtag/internal/favorite"
	"github.com/artpar/favtag/internal/tui"
	"github.com/artpar/favtag/internal/tui/keys"
)

// Columns occupied by the star, counted from the left border.
const (
	starColumnStart = 1
	starColumnEnd   = 4
)

// ResultList lists results, each row carrying a favorite toggle.
type ResultList struct {
	*tui.BaseComponent
	results       []core.Result
	toggles       map[uint]*FavoriteToggle
	toggleOpts    []favorite.Option
	cursor        int
	offset        int
	loading       bool
	err           error
	favoritesOnly bool
}

// NewResultList creates an empty result list. opts are applied to every
// row's toggle.
func NewResultList(opts ...favorite.Option) *ResultList {
	return &ResultList{
		BaseComponent: tui.NewBaseComponent("Results"),
		toggles:       make(map[uint]*FavoriteToggle),
		toggleOpts:    opts,
	}
}

// Init initializes the component.
func (l *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (l *ResultList) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case favorite.ToggleResultMsg:
		if toggle, ok := l.toggles[msg.ResultID]; ok {
			return l, toggle.Update(msg)
		}
		return l, nil

	case tea.MouseMsg:
		return l.handleMouseMsg(msg)

	case tea.KeyMsg:
		if !l.Focused() {
			return l, nil
		}
		return l.handleKeyMsg(msg)
	}

	return l, nil
}

func (l *ResultList) handleKeyMsg(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	switch {
	case keys.ToggleFavorite.Matches(msg):
		return l, l.activate(l.cursor)
	case keys.Down.Matches(msg):
		l.moveCursor(1)
	case keys.Up.Matches(msg):
		l.moveCursor(-1)
	case keys.Top.Matches(msg):
		l.SetCursor(0)
	case keys.Bottom.Matches(msg):
		l.SetCursor(len(l.results) - 1)
	case keys.Open.Matches(msg):
		return l.handleEnter()
	case keys.CopyURL.Matches(msg):
		if r := l.Selected(); r != nil {
			content := r.URL
			return l, func() tea.Msg {
				return CopyMsg{Content: content}
			}
		}
	}
	return l, nil
}

func (l *ResultList) handleMouseMsg(msg tea.MouseMsg) (tui.Component, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return l, nil
	}

	// One border line above the rows.
	index := l.offset + msg.Y - 1
	if msg.Y < 1 || index < 0 || index >= len(l.results) {
		return l, nil
	}

	// A click on the star belongs to the toggle and never opens the row.
	if msg.X >= starColumnStart && msg.X < starColumnEnd {
		return l, l.activate(index)
	}

	l.SetCursor(index)
	return l.handleEnter()
}

// activate triggers the toggle of the row at index.
func (l *ResultList) activate(index int) tea.Cmd {
	if index < 0 || index >= len(l.results) {
		return nil
	}
	if toggle := l.toggles[l.results[index].ID]; toggle != nil {
		return toggle.Activate()
	}
	return nil
}

func (l *ResultList) handleEnter() (tui.Component, tea.Cmd) {
	r := l.Selected()
	if r == nil {
		return l, nil
	}
	result := *r
	return l, func() tea.Msg {
		return SelectResultMsg{Result: result}
	}
}

func (l *ResultList) moveCursor(delta int) {
	l.SetCursor(l.cursor + delta)
}

func (l *ResultList) contentHeight() int {
	h := l.Height() - 2
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the component.
func (l *ResultList) View() string {
	innerWidth := l.Width() - 2
	if innerWidth < 10 {
		innerWidth = 10
	}
	contentHeight := l.contentHeight()

	var lines []string
	switch {
	case l.loading && len(l.results) == 0:
		lines = append(lines, dimStyle.Render("Loading..."))
	case l.err != nil:
		lines = append(lines, errorStyle.Render(tui.Truncate("Error: "+l.err.Error(), innerWidth)))
	case len(l.results) == 0:
		empty := "No results"
		if l.favoritesOnly {
			empty = "No favorites"
		}
		lines = append(lines, dimStyle.Render(empty))
	default:
		end := l.offset + contentHeight
		if end > len(l.results) {
			end = len(l.results)
		}
		for i := l.offset; i < end; i++ {
			lines = append(lines, l.renderRow(l.results[i], i == l.cursor, innerWidth))
		}
	}

	return tui.RenderBorder(strings.Join(lines, "\n"), innerWidth, contentHeight, l.Focused())
}

func (l *ResultList) renderRow(r core.Result, selected bool, width int) string {
	star := " "
	if toggle := l.toggles[r.ID]; toggle != nil {
		star = toggle.View()
	}

	code := statusStyle(r.ResponseCode).Render(fmt.Sprintf("%3d", r.ResponseCode))
	text := r.URL
	if r.Title != "" {
		text += "  " + r.Title
	}
	text = tui.Truncate(text, width-8)

	line := " " + star + " " + code + " " + text
	if selected && l.Focused() {
		return selectedStyle.Width(width).Render(line)
	}
	return line
}

// Title returns the list title.
func (l *ResultList) Title() string {
	if l.favoritesOnly {
		return "Favorites"
	}
	return "Results"
}

// SetResults replaces the listed results. Toggles with a call in flight are
// kept so their outcome still lands; every other row starts from its tags.
func (l *ResultList) SetResults(results []core.Result) {
	toggles := make(map[uint]*FavoriteToggle, len(results))
	for _, r := range results {
		if existing, ok := l.toggles[r.ID]; ok && existing.State().Busy() {
			toggles[r.ID] = existing
			continue
		}
		toggles[r.ID] = NewFavoriteToggle(r, l.toggleOpts...)
	}

	l.results = results
	l.toggles = toggles
	l.loading = false
	l.err = nil
	l.SetCursor(l.cursor)
}

// SetLoading sets the loading state.
func (l *ResultList) SetLoading(loading bool) {
	l.loading = loading
}

// IsLoading returns true if loading.
func (l *ResultList) IsLoading() bool {
	return l.loading
}

// SetError shows a load error.
func (l *ResultList) SetError(err error) {
	l.loading = false
	l.err = err
}

// SetFavoritesOnly records whether the list is filtered to favorites.
func (l *ResultList) SetFavoritesOnly(only bool) {
	l.favoritesOnly = only
}

// FavoritesOnly reports whether the list is filtered to favorites.
func (l *ResultList) FavoritesOnly() bool {
	return l.favoritesOnly
}

// Results returns the listed results.
func (l *ResultList) Results() []core.Result {
	return l.results
}

// Toggle returns the favorite toggle for a result.
func (l *ResultList) Toggle(resultID uint) *FavoriteToggle {
	return l.toggles[resultID]
}

// Cursor returns the cursor position.
func (l *ResultList) Cursor() int {
	return l.cursor
}

// SetCursor moves the cursor, clamped to the list, and scrolls it into view.
func (l *ResultList) SetCursor(pos int) {
	if pos >= len(l.results) {
		pos = len(l.results) - 1
	}
	if pos < 0 {
		pos = 0
	}
	l.cursor = pos

	height := l.contentHeight()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+height {
		l.offset = l.cursor - height + 1
	}
}

// Selected returns the result under the cursor.
func (l *ResultList) Selected() *core.Result {
	if l.cursor < 0 || l.cursor >= len(l.results) {
		return nil
	}
	return &l.results[l.cursor]
}

var (
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("229"))
)

func statusStyle(code int) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch {
	case code >= 200 && code < 300:
		return style.Foreground(lipgloss.Color("34"))
	case code >= 300 && code < 400:
		return style.Foreground(lipgloss.Color("33"))
	case code >= 400:
		return style.Foreground(lipgloss.Color("160"))
	default:
		return style.Foreground(lipgloss.Color("243"))
	}
}
