// Package form holds the draft of the entry being created or edited and
// decides how a submit reaches the store.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/entrybook/pkg/entry"
	"tableflip.dev/entrybook/pkg/events"
	"tableflip.dev/entrybook/pkg/store"
)

// State is the controller's position in the form lifecycle.
type State int

const (
	// StateEmpty holds a new draft with default values.
	StateEmpty State = iota
	// StateEditing holds a draft the user has touched or one loaded from an
	// existing entry.
	StateEditing
	// StateSubmitting means validation and the store call are in flight.
	StateSubmitting
	// StateDone means the last submit succeeded and the draft was discarded.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrSubmitInFlight rejects a second submit or an edit while a submit is
	// still running.
	ErrSubmitInFlight = errors.New("form: submit already in progress")
	// ErrUnmounted is returned when the form was left while its submit was in
	// flight. The store call completed but its result was discarded.
	ErrUnmounted = errors.New("form: screen unmounted")
	// ErrNoDraft is returned when there is no live draft to act on.
	ErrNoDraft = errors.New("form: no draft")
)

// Completion describes a successful submit.
type Completion struct {
	Created bool
	ID      string
	// Entry is the stored entry. After an update it is read back from the
	// store so the caller never shows pre-edit values.
	Entry entry.Entry
	// Next is where the user should go: the list after a create, the entry's
	// detail after an edit.
	Next events.Directive
}

// Snapshot is the form's render state.
type Snapshot struct {
	State   State
	Draft   entry.Draft
	Editing *entry.Entry
	Err     error
}

// Pending reports whether a submit is in flight.
func (s Snapshot) Pending() bool {
	return s.State == StateSubmitting
}

// Controller owns one form screen's draft.
type Controller struct {
	store store.Store
	log   zerolog.Logger
	clock func() time.Time

	mu      sync.Mutex
	state   State
	draft   entry.Draft
	editing *entry.Entry
	mounted bool
	gen     uint64
	err     error
}

// New returns an unmounted controller. A nil clock uses time.Now.
func New(s store.Store, log zerolog.Logger, clock func() time.Time) *Controller {
	if clock == nil {
		clock = time.Now
	}
	c := &Controller{
		store: s,
		log:   log.With().Str("component", "form").Logger(),
		clock: clock,
	}
	c.draft = c.blank()
	return c
}

func (c *Controller) blank() entry.Draft {
	y, m, d := c.clock().Date()
	return entry.NewDraft(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// Begin mounts the form for msg. A nil Editing starts a new entry; otherwise
// the draft is loaded from the entry. Topics outside the vocabulary are
// dropped and returned. Any submit still in flight from an earlier mount is
// discarded when it completes.
func (c *Controller) Begin(msg events.OpenForm) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.mounted = true
	c.err = nil

	if msg.Editing == nil {
		c.editing = nil
		c.draft = c.blank()
		c.state = StateEmpty
		return nil
	}

	e := msg.Editing.Clone()
	d, dropped := entry.DraftFrom(e)
	if len(dropped) > 0 {
		c.log.Warn().Str("id", e.ID).Strs("topics", dropped).Msg("discarding topics outside the vocabulary")
	}
	c.editing = &e
	c.draft = d
	c.state = StateEditing
	return dropped
}

// Unmount leaves the form. The draft is discarded.
func (c *Controller) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.mounted = false
	c.editing = nil
	c.draft = c.blank()
	c.state = StateEmpty
	c.err = nil
}

// Update applies fn to the live draft.
func (c *Controller) Update(fn func(*entry.Draft)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return err
	}
	fn(&c.draft)
	c.state = StateEditing
	return nil
}

// ToggleTopic flips one topic on the live draft.
func (c *Controller) ToggleTopic(tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return err
	}
	if !c.draft.ToggleTopic(tag) {
		return fmt.Errorf("form: unknown topic %q", tag)
	}
	c.state = StateEditing
	return nil
}

func (c *Controller) editableLocked() error {
	switch {
	case !c.mounted:
		return ErrNoDraft
	case c.state == StateSubmitting:
		return ErrSubmitInFlight
	case c.state == StateDone:
		return ErrNoDraft
	}
	return nil
}

// Submit validates the draft and creates or updates the entry. On failure the
// draft is kept and the form returns to editing.
func (c *Controller) Submit(ctx context.Context) (Completion, error) {
	c.mu.Lock()
	if err := c.editableLocked(); err != nil {
		c.mu.Unlock()
		return Completion{}, err
	}
	c.state = StateSubmitting
	c.err = nil
	gen := c.gen
	draft := c.draft.Clone()
	var editing *entry.Entry
	if c.editing != nil {
		e := c.editing.Clone()
		editing = &e
	}
	c.mu.Unlock()

	done, err := c.persist(ctx, draft, editing)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.log.Debug().Err(err).Msg("discarding submit result for unmounted form")
		return Completion{}, ErrUnmounted
	}
	if err != nil {
		c.state = StateEditing
		c.err = err
		return Completion{}, err
	}
	c.state = StateDone
	c.editing = nil
	c.draft = c.blank()
	return done, nil
}

func (c *Controller) persist(ctx context.Context, d entry.Draft, editing *entry.Entry) (Completion, error) {
	e, err := entry.Validate(d)
	if err != nil {
		return Completion{}, err
	}

	if editing == nil {
		id, err := c.store.Create(ctx, e)
		if err != nil {
			return Completion{}, err
		}
		e.ID = id
		c.log.Info().Str("id", id).Msg("entry created")
		return Completion{Created: true, ID: id, Entry: e, Next: events.OpenList{}}, nil
	}

	id := editing.ID
	if err := c.store.Update(ctx, id, e); err != nil {
		return Completion{}, err
	}
	c.log.Info().Str("id", id).Msg("entry updated")

	fresh, err := c.store.Get(ctx, id)
	if err != nil {
		// Update succeeded; fall back to the submitted values.
		c.log.Warn().Err(err).Str("id", id).Msg("read back after update")
		e.ID = id
		fresh = e
	}
	return Completion{ID: id, Entry: fresh, Next: events.OpenDetail{ID: id}}, nil
}

// Snapshot returns a copy of the form's render state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{State: c.state, Draft: c.draft.Clone(), Err: c.err}
	if c.editing != nil {
		e := c.editing.Clone()
		s.Editing = &e
	}
	return s
}
