// Package favorite holds the per-result favorite toggle state machine.
//
// A State is driven from a bubbletea event loop: Toggle marks the state busy
// and returns the command that performs the remote call, and Update applies
// the ToggleResultMsg that command produces. Favorited only changes once a
// call has succeeded, and busy is cleared whatever the outcome.
package favorite

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/artpar/favtag/internal/core"
	"github.com/artpar/favtag/internal/logging"
	"github.com/artpar/favtag/internal/tagging"
)

// ErrBusy is returned by Resolve when a toggle is already in flight.
var ErrBusy = errors.New("favorite toggle already in flight")

// ToggleResultMsg reports the outcome of a remote toggle call.
type ToggleResultMsg struct {
	ResultID uint
	// Favorited is the value the call was setting.
	Favorited bool
	Err       error
}

// State tracks whether one result is favorited and whether a toggle is in flight.
type State struct {
	resultID  uint
	favorited bool
	busy      bool
	hint      string
	service   tagging.Service
	onToggle  func() tea.Cmd
	logger    logrus.FieldLogger
}

// Option configures a State.
type Option func(*State)

// WithService sets the tagging service toggles are sent to.
func WithService(svc tagging.Service) Option {
	return func(s *State) {
		s.service = svc
	}
}

// WithOnToggle sets a callback run after every successful toggle.
// The command it returns, if any, is handed back to the event loop.
func WithOnToggle(fn func() tea.Cmd) Option {
	return func(s *State) {
		s.onToggle = fn
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *State) {
		s.logger = logger
	}
}

// WithHint stores an opaque presentation hint for the renderer.
func WithHint(hint string) Option {
	return func(s *State) {
		s.hint = hint
	}
}

// New creates the state for resultID from its current tags.
// A nil tag slice is the same as an empty one.
func New(resultID uint, tags []core.Tag, opts ...Option) *State {
	s := &State{
		resultID:  resultID,
		favorited: core.HasTag(tags, core.FavoriteTag),
		logger:    logging.Discard(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ResultID returns the result this state toggles.
func (s *State) ResultID() uint {
	return s.resultID
}

// Favorited reports whether the result is currently favorited.
func (s *State) Favorited() bool {
	return s.favorited
}

// Busy reports whether a toggle call is in flight.
func (s *State) Busy() bool {
	return s.busy
}

// Hint returns the presentation hint.
func (s *State) Hint() string {
	return s.hint
}

// Toggle starts flipping the favorite tag. It returns nil without doing
// anything while a previous toggle is in flight.
func (s *State) Toggle() tea.Cmd {
	return s.start(context.Background())
}

// start marks the state busy before the command leaves the event loop.
func (s *State) start(ctx context.Context) tea.Cmd {
	if s.busy {
		return nil
	}
	s.busy = true

	op, target := tagging.OpAdd, true
	if s.favorited {
		op, target = tagging.OpRemove, false
	}
	svc, id := s.service, s.resultID

	return func() tea.Msg {
		err := tagging.Call(ctx, svc, op, id, core.FavoriteTag)
		return ToggleResultMsg{ResultID: id, Favorited: target, Err: err}
	}
}

// Update applies a ToggleResultMsg for this result. Other messages, and
// results that arrive while no toggle is in flight, are ignored.
func (s *State) Update(msg tea.Msg) tea.Cmd {
	res, ok := msg.(ToggleResultMsg)
	if !ok || res.ResultID != s.resultID || !s.busy {
		return nil
	}
	defer func() { s.busy = false }()

	if res.Err != nil {
		s.logger.WithError(res.Err).WithFields(logrus.Fields{
			"result_id": s.resultID,
			"favorited": s.favorited,
		}).Error("failed to toggle favorite")
		return nil
	}

	s.favorited = res.Favorited
	s.logger.WithFields(logrus.Fields{
		"result_id": s.resultID,
		"favorited": s.favorited,
	}).Debug("toggled favorite")

	if s.onToggle == nil {
		return nil
	}
	return s.onToggle()
}

// Resolve runs one toggle to completion on the calling goroutine, for callers
// without an event loop. The remote failure is returned for reporting; the
// state itself behaves exactly as under Toggle and Update.
func (s *State) Resolve(ctx context.Context) error {
	cmd := s.start(ctx)
	if cmd == nil {
		return ErrBusy
	}

	res := cmd().(ToggleResultMsg)
	if next := s.Update(res); next != nil {
		next()
	}
	return res.Err
}
