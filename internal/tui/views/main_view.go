package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/artpar/favtag/internal/core"
	"github.com/artpar/favtag/internal/favorite"
	"github.com/artpar/favtag/internal/tagging"
	"github.com/artpar/favtag/internal/tui"
	"github.com/artpar/favtag/internal/tui/components"
	"github.com/artpar/favtag/internal/tui/keys"
)

// ResultSource loads the results to list.
type ResultSource interface {
	ListResults(ctx context.Context, tag string) ([]core.Result, error)
}

// Pane represents which pane is focused.
type Pane int

const (
	PaneResults Pane = iota
	PaneDetail
)

// MainView is the results list with a detail pane beside it.
type MainView struct {
	width        int
	height       int
	panes        *tui.ComponentList
	list         *components.ResultList
	detail       *components.ResultDetail
	source       ResultSource
	logger       logrus.FieldLogger
	showHelp     bool
	notification string    // Temporary notification message
	notifyUntil  time.Time // When to clear notification
	copyFn       func(string) error
	keymap       *keys.KeyMap
}

// resultsLoadedMsg carries a finished result load.
type resultsLoadedMsg struct {
	results []core.Result
	err     error
}

// clearNotificationMsg is sent to clear the notification.
type clearNotificationMsg struct{}

// NewMainView creates the main view. Toggles send their calls to svc and
// trigger a reload from source after each success.
func NewMainView(source ResultSource, svc tagging.Service, logger logrus.FieldLogger) *MainView {
	list := components.NewResultList(
		favorite.WithService(svc),
		favorite.WithLogger(logger),
		favorite.WithOnToggle(func() tea.Cmd {
			return func() tea.Msg { return tui.RefreshMsg{} }
		}),
	)
	detail := components.NewResultDetail()

	view := &MainView{
		panes:  tui.NewComponentList(list, detail),
		list:   list,
		detail: detail,
		source: source,
		logger: logger,
		copyFn: clipboard.WriteAll,
		keymap: keys.Default(),
	}
	view.panes.SetFocusIndex(int(PaneResults))
	return view
}

// Init starts the first load.
func (v *MainView) Init() tea.Cmd {
	return v.reload()
}

// Update handles messages.
func (v *MainView) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	// Handle help overlay first
	if v.showHelp {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if keyMsg.Type == tea.KeyEsc || keys.Help.Matches(keyMsg) {
				v.showHelp = false
				return v, nil
			}
		}
		return v, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.updatePaneSizes()
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case tea.MouseMsg:
		// Only the list is clickable; it sits at the top left.
		if msg.X < v.list.Width() {
			_, cmd := v.list.Update(msg)
			return v, cmd
		}
		return v, nil

	case favorite.ToggleResultMsg:
		// The list owns the toggles of listed rows. A result that dropped out
		// of the list can still have a call in flight from the detail pane.
		if v.list.Toggle(msg.ResultID) != nil {
			_, cmd := v.list.Update(msg)
			return v, cmd
		}
		_, cmd := v.detail.Update(msg)
		return v, cmd

	case tui.RefreshMsg:
		return v, v.reload()

	case resultsLoadedMsg:
		if msg.err != nil {
			v.logger.WithError(msg.err).Error("failed to load results")
			v.list.SetError(msg.err)
			return v, nil
		}
		v.list.SetResults(msg.results)
		v.syncDetail()
		return v, nil

	case components.SelectResultMsg:
		v.detail.SetResult(msg.Result, v.list.Toggle(msg.Result.ID))
		return v, nil

	case components.CopyMsg:
		return v.handleCopy(msg.Content)

	case clearNotificationMsg:
		v.notification = ""
		return v, nil
	}

	return v.forwardToFocusedPane(msg)
}

func (v *MainView) handleKeyMsg(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	switch {
	case keys.Quit.Matches(msg):
		return v, tea.Quit
	case keys.Help.Matches(msg):
		v.showHelp = true
		return v, nil
	case keys.NextPane.Matches(msg):
		v.panes.FocusNext()
		return v, nil
	case keys.PrevPane.Matches(msg):
		v.panes.FocusPrev()
		return v, nil
	case keys.ResultsPane.Matches(msg):
		v.panes.SetFocusIndex(int(PaneResults))
		return v, nil
	case keys.DetailPane.Matches(msg):
		v.panes.SetFocusIndex(int(PaneDetail))
		return v, nil
	case keys.Refresh.Matches(msg):
		return v, v.reload()
	case keys.FavoritesOnly.Matches(msg):
		v.list.SetFavoritesOnly(!v.list.FavoritesOnly())
		return v, v.reload()
	}

	return v.forwardToFocusedPane(msg)
}

func (v *MainView) forwardToFocusedPane(msg tea.Msg) (tui.Component, tea.Cmd) {
	focused := v.panes.Focused()
	if focused == nil {
		return v, nil
	}
	_, cmd := focused.Update(msg)
	return v, cmd
}

func (v *MainView) handleCopy(content string) (tui.Component, tea.Cmd) {
	if err := v.copyFn(content); err != nil {
		v.notification = "✗ Copy failed"
	} else {
		v.notification = "✓ Copied " + tui.Truncate(content, 40)
	}
	v.notifyUntil = time.Now().Add(2 * time.Second)

	// Schedule clearing the notification
	return v, tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearNotificationMsg{}
	})
}

// reload fetches results from the source asynchronously.
func (v *MainView) reload() tea.Cmd {
	if v.source == nil {
		return nil
	}
	v.list.SetLoading(true)

	source := v.source
	tag := ""
	if v.list.FavoritesOnly() {
		tag = core.FavoriteTag
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		results, err := source.ListResults(ctx, tag)
		return resultsLoadedMsg{results: results, err: err}
	}
}

// syncDetail refreshes the detail pane from the reloaded list. A result
// that is no longer listed is cleared, unless its toggle still has a call in
// flight; that call's outcome is delivered to the detail pane.
func (v *MainView) syncDetail() {
	shown := v.detail.Result()
	if shown == nil {
		return
	}
	for _, r := range v.list.Results() {
		if r.ID == shown.ID {
			v.detail.SetResult(r, v.list.Toggle(r.ID))
			return
		}
	}
	if toggle := v.detail.Toggle(); toggle != nil && toggle.State().Busy() {
		return
	}
	v.detail.Clear()
}

func (v *MainView) updatePaneSizes() {
	if v.width == 0 || v.height == 0 {
		return
	}

	// [Results 60%] | [Detail 40%]
	listWidth := v.width * 60 / 100
	if listWidth < 30 {
		listWidth = 30
	}
	detailWidth := v.width - listWidth

	// Reserve 2 lines for help bar + status bar
	totalHeight := v.height - 2
	if totalHeight < 2 {
		totalHeight = 2
	}

	v.list.SetSize(listWidth, totalHeight)
	v.detail.SetSize(detailWidth, totalHeight)
}

// View renders the view.
func (v *MainView) View() string {
	if v.width == 0 || v.height == 0 {
		return ""
	}

	if v.showHelp {
		return v.renderHelp()
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top, v.list.View(), v.detail.View())
	return lipgloss.JoinVertical(lipgloss.Left, panes, v.renderHelpBar(), v.renderStatusBar())
}

// renderHelpBar renders context-sensitive keyboard shortcuts.
func (v *MainView) renderHelpBar() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))
	sepStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	sep := sepStyle.Render(" │ ")

	var shown []*keys.Binding
	if v.FocusedPane() == PaneResults {
		shown = append(shown, keys.Open)
	}
	shown = append(shown, keys.ToggleFavorite, keys.CopyURL, keys.FavoritesOnly, keys.Refresh, keys.Help, keys.Quit)

	hints := make([]string, 0, len(shown))
	for _, b := range shown {
		hints = append(hints, keyStyle.Render(b.Help())+descStyle.Render(" "+b.Description()))
	}

	barStyle := lipgloss.NewStyle().
		Width(v.width).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	return barStyle.Render(strings.Join(hints, sep))
}

// renderStatusBar renders the bottom status bar.
func (v *MainView) renderStatusBar() string {
	var items []string

	paneStyle := lipgloss.NewStyle().
		Bold(true).
		Background(lipgloss.Color("34")).
		Foreground(lipgloss.Color("255")).
		Padding(0, 1)
	items = append(items, paneStyle.Render(strings.ToUpper(v.list.Title())))

	countStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Padding(0, 1)
	favorites := 0
	for _, r := range v.list.Results() {
		if toggle := v.list.Toggle(r.ID); toggle != nil && toggle.State().Favorited() {
			favorites++
		}
	}
	items = append(items, countStyle.Render(fmt.Sprintf("%d results, %d favorites", len(v.list.Results()), favorites)))

	if v.list.IsLoading() {
		items = append(items, countStyle.Render("loading..."))
	}

	if v.notification != "" {
		notifyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")).
			Bold(true).
			Padding(0, 1)
		if strings.HasPrefix(v.notification, "✗") {
			notifyStyle = notifyStyle.Foreground(lipgloss.Color("160"))
		}
		items = append(items, notifyStyle.Render(v.notification))
	}

	barStyle := lipgloss.NewStyle().
		Width(v.width).
		Background(lipgloss.Color("236"))

	return barStyle.Render(strings.Join(items, " "))
}

func (v *MainView) renderHelp() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Width(12)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	lines := []string{titleStyle.Render("favtag help"), ""}
	for _, scope := range []keys.Scope{keys.ScopeResults, keys.ScopeDetail, keys.ScopeGlobal} {
		lines = append(lines, sectionStyle.Render(scope.String()))
		for _, b := range v.keymap.Bindings(scope) {
			lines = append(lines, "  "+keyStyle.Render(b.Help())+b.Description())
		}
		lines = append(lines, "")
	}
	lines = append(lines,
		dimStyle.Render("Click a row to open it, click its star to toggle."),
		dimStyle.Render("Press ? or Esc to close"),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))

	helpStyle := lipgloss.NewStyle().
		Width(v.width).
		Height(v.height).
		Align(lipgloss.Center, lipgloss.Center)

	return helpStyle.Render(box)
}

// Title returns the view title.
func (v *MainView) Title() string {
	return "favtag"
}

// Focused returns true (main view is always focused).
func (v *MainView) Focused() bool {
	return true
}

// Focus is a no-op for main view.
func (v *MainView) Focus() {}

// Blur is a no-op for main view.
func (v *MainView) Blur() {}

// SetSize sets the view dimensions.
func (v *MainView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.updatePaneSizes()
}

// Width returns the view width.
func (v *MainView) Width() int {
	return v.width
}

// Height returns the view height.
func (v *MainView) Height() int {
	return v.height
}

// FocusedPane returns the currently focused pane.
func (v *MainView) FocusedPane() Pane {
	return Pane(v.panes.FocusIndex())
}

// ResultList returns the results pane.
func (v *MainView) ResultList() *components.ResultList {
	return v.list
}

// ResultDetail returns the detail pane.
func (v *MainView) ResultDetail() *components.ResultDetail {
	return v.detail
}

// ShowingHelp returns true if help is being shown.
func (v *MainView) ShowingHelp() bool {
	return v.showHelp
}

// Notification returns the current notification message.
func (v *MainView) Notification() string {
	return v.notification
}

// SetClipboard replaces the clipboard writer.
func (v *MainView) SetClipboard(fn func(string) error) {
	v.copyFn = fn
}
