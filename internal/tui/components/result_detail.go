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

var labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)

// ResultDetail shows one result. It shares the list's toggle for that
// result rather than owning a second one.
type ResultDetail struct {
	*tui.BaseComponent
	result *core.Result
	toggle *FavoriteToggle
}

// NewResultDetail creates an empty detail pane.
func NewResultDetail() *ResultDetail {
	return &ResultDetail{
		BaseComponent: tui.NewBaseComponent("Detail"),
	}
}

// Init initializes the component.
func (d *ResultDetail) Init() tea.Cmd {
	return nil
}

// Update handles messages. A ToggleResultMsg is applied to the shown
// toggle whatever the focus.
func (d *ResultDetail) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	if res, ok := msg.(favorite.ToggleResultMsg); ok {
		if d.toggle == nil {
			return d, nil
		}
		return d, d.toggle.Update(res)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !d.Focused() || d.toggle == nil {
		return d, nil
	}

	switch {
	case keys.ToggleFavorite.Matches(keyMsg):
		return d, d.toggle.Activate()
	case keys.CopyURL.Matches(keyMsg):
		content := d.result.URL
		return d, func() tea.Msg {
			return CopyMsg{Content: content}
		}
	}
	return d, nil
}

// SetResult shows result, using toggle for its favorite state.
func (d *ResultDetail) SetResult(result core.Result, toggle *FavoriteToggle) {
	d.result = &result
	d.toggle = toggle
}

// Clear empties the pane.
func (d *ResultDetail) Clear() {
	d.result = nil
	d.toggle = nil
}

// Toggle returns the shown toggle, if any.
func (d *ResultDetail) Toggle() *FavoriteToggle {
	return d.toggle
}

// Result returns the shown result, if any.
func (d *ResultDetail) Result() *core.Result {
	return d.result
}

// View renders the component.
func (d *ResultDetail) View() string {
	innerWidth := d.Width() - 2
	if innerWidth < 10 {
		innerWidth = 10
	}
	innerHeight := d.Height() - 2
	if innerHeight < 1 {
		innerHeight = 1
	}

	if d.result == nil {
		return tui.RenderBorder(dimStyle.Render("Select a result"), innerWidth, innerHeight, d.Focused())
	}

	r := d.result
	tags := strings.Join(r.TagNames(), ", ")
	if tags == "" {
		tags = "-"
	}

	lines := []string{
		labelStyle.Render("ID") + fmt.Sprintf("%d", r.ID),
		labelStyle.Render("URL") + tui.Truncate(r.URL, innerWidth-10),
		labelStyle.Render("Title") + tui.Truncate(r.Title, innerWidth-10),
		labelStyle.Render("Status") + statusStyle(r.ResponseCode).Render(fmt.Sprintf("%d", r.ResponseCode)),
		labelStyle.Render("Probed") + r.ProbedAt.Format("2006-01-02 15:04"),
		labelStyle.Render("Tags") + tui.Truncate(tags, innerWidth-10),
	}
	if d.toggle != nil {
		favorite := d.toggle.View() + " " + d.toggle.Label()
		if d.toggle.State().Busy() {
			favorite += dimStyle.Render(" (saving...)")
		}
		lines = append(lines, "", labelStyle.Render("Favorite")+favorite)
	}

	return tui.RenderBorder(strings.Join(lines, "\n"), innerWidth, innerHeight, d.Focused())
}
