// Package app wires the store, the projections and the form controller into a
// Session: the single surface a presentation layer drives with screen events
// and reads notifications, navigation directives and view models from.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/entrybook/pkg/entry"
	"tableflip.dev/entrybook/pkg/events"
	"tableflip.dev/entrybook/pkg/form"
	"tableflip.dev/entrybook/pkg/projection"
	"tableflip.dev/entrybook/pkg/store"
)

// ErrClosed is returned by entry points after Close.
var ErrClosed = errors.New("app: session closed")

// View is everything a presentation layer needs to render the current screen.
type View struct {
	Screen events.Screen
	List   projection.ListView
	Detail projection.DetailView
	Form   form.Snapshot
}

// Option customises a Session.
type Option func(*options)

type options struct {
	clock  func() time.Time
	buffer int
}

// WithClock overrides the clock used for form defaults.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithBuffer sets the capacity of the event channel.
func WithBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.buffer = n
		}
	}
}

// Session routes screen events to the core and reports outcomes on Events.
// Every storage, validation and not-found failure ends in a Notification.
type Session struct {
	store  store.Store
	log    zerolog.Logger
	list   *projection.List
	detail *projection.Detail
	form   *form.Controller

	events chan events.Msg
	done   chan struct{}

	mu          sync.Mutex
	screen      events.Screen
	detailID    string
	detailReady bool
	closed      bool
}

// NewSession builds a session over s. Call Start to show the first screen.
func NewSession(s store.Store, log zerolog.Logger, opts ...Option) *Session {
	o := &options{clock: time.Now, buffer: 64}
	for _, opt := range opts {
		opt(o)
	}
	log = log.With().Str("component", "session").Logger()
	sess := &Session{
		store:  s,
		log:    log,
		form:   form.New(s, log, o.clock),
		events: make(chan events.Msg, o.buffer),
		done:   make(chan struct{}),
	}
	sess.list = projection.NewList(s, log, sess.listChanged)
	sess.detail = projection.NewDetail(s, log, sess.detailChanged)
	return sess
}

// Events streams notifications, directives and re-render hints. Callers
// must drain it.
func (s *Session) Events() <-chan events.Msg {
	return s.events
}

// Flush returns the messages queued so far without blocking. It is meant for
// one-shot callers such as the CLI that drive a single action and report it.
func (s *Session) Flush() []events.Msg {
	var out []events.Msg
	for {
		select {
		case m := <-s.events:
			out = append(out, m)
		default:
			return out
		}
	}
}

// Form exposes the form controller for field edits on the form screen.
func (s *Session) Form() *form.Controller {
	return s.form
}

// Start shows the entry list.
func (s *Session) Start(ctx context.Context) error {
	return s.OpenList(ctx)
}

// OpenList navigates to the list.
func (s *Session) OpenList(ctx context.Context) error {
	return s.navigate(ctx, events.OpenList{})
}

// OpenDetail navigates to one entry.
func (s *Session) OpenDetail(ctx context.Context, id string) error {
	return s.navigate(ctx, events.OpenDetail{ID: id})
}

// OpenNewForm navigates to an empty form.
func (s *Session) OpenNewForm(ctx context.Context) error {
	return s.navigate(ctx, events.OpenForm{})
}

// OnScreenFocus re-fetches what the current screen shows. The local backend
// relies on this; the remote one is already current but handles it the same.
func (s *Session) OnScreenFocus(ctx context.Context) error {
	if err := s.check(); err != nil {
		return err
	}
	if err := s.store.Refresh(ctx); err != nil {
		s.log.Error().Err(err).Msg("refresh on focus")
		return s.emit(ctx, events.LoadFailed())
	}
	return nil
}

// OnRequestEdit opens the form pre-filled with the entry.
func (s *Session) OnRequestEdit(ctx context.Context, id string) error {
	if err := s.check(); err != nil {
		return err
	}
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return s.failLoad(ctx, err)
	}
	return s.navigate(ctx, events.OpenForm{Editing: &e})
}

// OnRequestDelete removes the entry and returns to the list. A push of this
// delete that arrives before the store call returns is not reported as the
// entry vanishing.
func (s *Session) OnRequestDelete(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	own := s.screen == events.ScreenDetail && s.detailID == id
	wasReady := s.detailReady
	if own {
		s.detailReady = false
	}
	s.mu.Unlock()

	err := s.store.Delete(ctx, id)
	if err != nil && own && !errors.Is(err, store.ErrNotFound) {
		s.mu.Lock()
		if s.screen == events.ScreenDetail && s.detailID == id {
			s.detailReady = wasReady
		}
		s.mu.Unlock()
	}
	switch {
	case err == nil:
		s.log.Info().Str("id", id).Msg("entry deleted")
		if err := s.emit(ctx, events.Deleted()); err != nil {
			return err
		}
		return s.navigate(ctx, events.OpenList{})
	case errors.Is(err, store.ErrNotFound):
		return s.notFound(ctx)
	default:
		s.log.Error().Err(err).Str("id", id).Msg("delete failed")
		return s.emit(ctx, events.DeleteFailed())
	}
}

// OnSubmitDraft replaces the form's draft with d and submits it.
func (s *Session) OnSubmitDraft(ctx context.Context, d entry.Draft) error {
	if err := s.check(); err != nil {
		return err
	}
	if err := s.form.Update(func(cur *entry.Draft) { *cur = d.Clone() }); err != nil {
		return err
	}
	return s.Submit(ctx)
}

// Submit submits the form's current draft.
func (s *Session) Submit(ctx context.Context) error {
	if err := s.check(); err != nil {
		return err
	}
	done, err := s.form.Submit(ctx)

	var verr *entry.ValidationError
	switch {
	case err == nil:
	case errors.Is(err, form.ErrSubmitInFlight), errors.Is(err, form.ErrNoDraft):
		return err
	case errors.Is(err, form.ErrUnmounted):
		return nil
	case errors.As(err, &verr):
		return s.emit(ctx, events.Validation(verr.Reason))
	case errors.Is(err, store.ErrNotFound):
		return s.notFound(ctx)
	default:
		s.log.Error().Err(err).Msg("submit failed")
		return s.emit(ctx, events.SaveFailed())
	}

	note := events.Updated()
	if done.Created {
		note = events.Created()
	}
	if err := s.emit(ctx, note); err != nil {
		return err
	}
	return s.navigate(ctx, done.Next)
}

// View returns the current view model.
func (s *Session) View() View {
	s.mu.Lock()
	screen := s.screen
	s.mu.Unlock()
	return View{
		Screen: screen,
		List:   s.list.Snapshot(),
		Detail: s.detail.Snapshot(),
		Form:   s.form.Snapshot(),
	}
}

// Close unmounts every screen. It does not close the store.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)
	s.list.Detach()
	s.detail.Close()
	s.form.Unmount()
	return nil
}

func (s *Session) check() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// navigate unmounts the current screen, announces d and mounts its target.
// Session locks are never held while calling into projections so store
// callbacks may re-enter.
func (s *Session) navigate(ctx context.Context, d events.Directive) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	prev := s.screen
	s.screen = d.Target()
	s.detailReady = false
	if od, ok := d.(events.OpenDetail); ok {
		s.detailID = od.ID
	}
	s.mu.Unlock()

	switch prev {
	case events.ScreenList:
		s.list.Detach()
	case events.ScreenDetail:
		s.detail.Close()
	case events.ScreenForm:
		s.form.Unmount()
	}

	s.log.Debug().Str("to", d.Describe()).Str("from", string(prev)).Msg("navigate")
	if err := s.emit(ctx, d); err != nil {
		return err
	}

	switch msg := d.(type) {
	case events.OpenList:
		if err := s.list.Attach(ctx); err != nil {
			return s.emit(ctx, events.LoadFailed())
		}
	case events.OpenDetail:
		if err := s.detail.Open(ctx, msg.ID); err != nil {
			return s.failLoad(ctx, err)
		}
		s.mu.Lock()
		s.detailReady = s.screen == events.ScreenDetail && s.detailID == msg.ID
		s.mu.Unlock()
	case events.OpenForm:
		s.form.Begin(msg)
	}
	return nil
}

func (s *Session) failLoad(ctx context.Context, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return s.notFound(ctx)
	}
	s.log.Error().Err(err).Msg("load failed")
	return s.emit(ctx, events.LoadFailed())
}

func (s *Session) notFound(ctx context.Context) error {
	if err := s.emit(ctx, events.NotFound()); err != nil {
		return err
	}
	return s.navigate(ctx, events.OpenList{})
}

func (s *Session) listChanged(projection.ListView) {
	s.hint(events.ScreenList)
}

// detailChanged sends the user back to the list when the open entry vanished
// after it was shown, e.g. deleted by another session.
func (s *Session) detailChanged(v projection.DetailView) {
	s.mu.Lock()
	gone := v.Missing && s.detailReady && s.screen == events.ScreenDetail && s.detailID == v.ID
	if gone {
		s.detailReady = false
	}
	s.mu.Unlock()

	if !gone {
		s.hint(events.ScreenDetail)
		return
	}
	s.log.Info().Str("id", v.ID).Msg("open entry no longer exists")
	ctx := context.Background()
	if err := s.notFound(ctx); err != nil && !errors.Is(err, ErrClosed) {
		s.log.Error().Err(err).Msg("leave missing entry")
	}
}

// hint reports a re-render without blocking; a dropped hint is superseded by
// the next one or by View.
func (s *Session) hint(screen events.Screen) {
	select {
	case <-s.done:
	case s.events <- events.Refreshed{Screen: screen}:
	default:
		s.log.Warn().Str("screen", string(screen)).Msg("event channel full, dropping refresh hint")
	}
}

func (s *Session) emit(ctx context.Context, msg events.Msg) error {
	s.log.Debug().Str("msg", msg.Describe()).Msg("emit")
	select {
	case s.events <- msg:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}
