package form

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/entrybook/pkg/entry"
	"tableflip.dev/entrybook/pkg/events"
	"tableflip.dev/entrybook/pkg/store"
)

var today = time.Date(2024, time.May, 1, 15, 30, 0, 0, time.UTC)

func clock() time.Time { return today }

// gatedStore blocks Create and Update until release is closed.
type gatedStore struct {
	store.Store
	entered chan struct{}
	release chan struct{}
	failing error
}

func (g *gatedStore) wait() {
	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
}

func (g *gatedStore) Create(ctx context.Context, e entry.Entry) (string, error) {
	g.wait()
	if g.failing != nil {
		return "", g.failing
	}
	return g.Store.Create(ctx, e)
}

func (g *gatedStore) Update(ctx context.Context, id string, e entry.Entry) error {
	g.wait()
	if g.failing != nil {
		return g.failing
	}
	return g.Store.Update(ctx, id, e)
}

func newLocal(t *testing.T) *store.Local {
	t.Helper()
	s, err := store.NewLocal(store.LocalOptions{BasePath: t.TempDir(), Logger: zerolog.Nop()})
	require.NoError(t, err)
	return s
}

func fill(d *entry.Draft) {
	d.FirstName = "Ana"
	d.Email = "a@b.com"
	d.SetPhoneInput("(555) 123-4567")
}

func TestBeginNewStartsEmpty(t *testing.T) {
	c := New(newLocal(t), zerolog.Nop(), clock)
	c.Begin(events.OpenForm{})

	s := c.Snapshot()
	assert.Equal(t, StateEmpty, s.State)
	assert.Nil(t, s.Editing)
	assert.Equal(t, "2024-05-01", entry.FormatDOB(s.Draft.DOB))
	assert.Len(t, s.Draft.Topics, len(entry.Topics))
}

func TestSubmitCreate(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)
	c := New(s, zerolog.Nop(), clock)
	c.Begin(events.OpenForm{})

	require.NoError(t, c.Update(fill))
	require.NoError(t, c.ToggleTopic(entry.TopicHealth))
	assert.Equal(t, StateEditing, c.Snapshot().State)

	done, err := c.Submit(ctx)
	require.NoError(t, err)
	assert.True(t, done.Created)
	assert.Equal(t, events.OpenList{}, done.Next)
	assert.Equal(t, []string{"Health"}, done.Entry.Topics)

	got, err := s.Get(ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, "5551234567", got.Phone)
	assert.Equal(t, "2024-05-01", got.DOB)

	snap := c.Snapshot()
	assert.Equal(t, StateDone, snap.State)
	assert.Empty(t, snap.Draft.FirstName, "draft resets after create")
	assert.ErrorIs(t, c.Update(fill), ErrNoDraft)
}

func TestSubmitValidationKeepsDraft(t *testing.T) {
	c := New(newLocal(t), zerolog.Nop(), clock)
	c.Begin(events.OpenForm{})
	require.NoError(t, c.Update(func(d *entry.Draft) {
		d.FirstName = "Ana"
		d.Email = "not-an-email"
		d.Phone = "5551234567"
	}))

	_, err := c.Submit(context.Background())
	var verr *entry.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, entry.FieldEmail, verr.Field)

	snap := c.Snapshot()
	assert.Equal(t, StateEditing, snap.State)
	assert.Equal(t, "Ana", snap.Draft.FirstName)
	assert.Equal(t, err, snap.Err)
}

func TestSubmitEditUsesUpdateAndReadsBack(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)
	id, err := s.Create(ctx, entry.Entry{FirstName: "Ana", Email: "a@b.com", Phone: "5551234567", Topics: []string{"Tech", "Sports"}})
	require.NoError(t, err)
	existing, err := s.Get(ctx, id)
	require.NoError(t, err)

	c := New(s, zerolog.Nop(), clock)
	dropped := c.Begin(events.OpenForm{Editing: &existing})
	assert.Equal(t, []string{"Sports"}, dropped)
	assert.Equal(t, StateEditing, c.Snapshot().State)

	require.NoError(t, c.Update(func(d *entry.Draft) { d.LastName = "Ruiz" }))
	done, err := c.Submit(ctx)
	require.NoError(t, err)
	assert.False(t, done.Created)
	assert.Equal(t, id, done.ID)
	assert.Equal(t, events.OpenDetail{ID: id}, done.Next)
	assert.Equal(t, "Ana Ruiz", done.Entry.FullName())
	assert.Equal(t, []string{"Tech"}, done.Entry.Topics)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "edit must not create a second record")
}

func TestSubmitEditOfDeletedEntry(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)
	c := New(s, zerolog.Nop(), clock)
	c.Begin(events.OpenForm{Editing: &entry.Entry{ID: "gone", FirstName: "Ana", Email: "a@b.com", Phone: "5551234567"}})

	_, err := c.Submit(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, StateEditing, c.Snapshot().State)
}

func TestDoubleSubmitRejected(t *testing.T) {
	g := &gatedStore{Store: newLocal(t), entered: make(chan struct{}), release: make(chan struct{})}
	c := New(g, zerolog.Nop(), clock)
	c.Begin(events.OpenForm{})
	require.NoError(t, c.Update(fill))

	result := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		result <- err
	}()
	<-g.entered

	assert.True(t, c.Snapshot().Pending())
	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.ErrorIs(t, c.Update(fill), ErrSubmitInFlight)

	close(g.release)
	require.NoError(t, <-result)

	all, err := g.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUnmountDiscardsInFlightResult(t *testing.T) {
	g := &gatedStore{Store: newLocal(t), entered: make(chan struct{}), release: make(chan struct{})}
	c := New(g, zerolog.Nop(), clock)
	c.Begin(events.OpenForm{})
	require.NoError(t, c.Update(fill))

	result := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		result <- err
	}()
	<-g.entered
	c.Unmount()
	close(g.release)

	assert.ErrorIs(t, <-result, ErrUnmounted)
	snap := c.Snapshot()
	assert.Equal(t, StateEmpty, snap.State)
	assert.Empty(t, snap.Draft.FirstName)

	all, err := g.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1, "the store call is not cancelled")
}

func TestStorageFailureKeepsDraft(t *testing.T) {
	boom := &store.StorageError{Op: store.OpCreate, Err: errors.New("disk full")}
	g := &gatedStore{Store: newLocal(t), failing: boom}
	c := New(g, zerolog.Nop(), clock)
	c.Begin(events.OpenForm{})
	require.NoError(t, c.Update(fill))

	_, err := c.Submit(context.Background())
	var serr *store.StorageError
	require.ErrorAs(t, err, &serr)

	snap := c.Snapshot()
	assert.Equal(t, StateEditing, snap.State)
	assert.Equal(t, "Ana", snap.Draft.FirstName)
}

func TestActionsBeforeBegin(t *testing.T) {
	c := New(newLocal(t), zerolog.Nop(), clock)
	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNoDraft)
	assert.ErrorIs(t, c.ToggleTopic(entry.TopicTech), ErrNoDraft)

	c.Begin(events.OpenForm{})
	assert.Error(t, c.ToggleTopic("Sports"))
}
