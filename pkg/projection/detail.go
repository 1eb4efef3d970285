package projection

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"tableflip.dev/entrybook/pkg/entry"
	"tableflip.dev/entrybook/pkg/store"
)

// DetailView is the rendered state of the detail screen.
type DetailView struct {
	ID    string
	Entry *entry.Entry
	Rows  []entry.Row
	// Missing is set once the store reports the entry no longer exists.
	Missing bool
	Pending bool
	Err     error
}

// Detail keeps a DetailView of one entry in step with a store.
type Detail struct {
	store    store.Store
	log      zerolog.Logger
	onChange func(DetailView)

	mu      sync.Mutex
	view    DetailView
	unsub   func()
	mount   uint64
	started uint64
	applied uint64
}

// NewDetail returns a closed detail projection.
func NewDetail(s store.Store, log zerolog.Logger, onChange func(DetailView)) *Detail {
	return &Detail{
		store:    s,
		log:      log.With().Str("component", "projection.detail").Logger(),
		onChange: onChange,
	}
}

// Open follows the entry with the given id and loads it. A previously open
// entry is closed first.
func (d *Detail) Open(ctx context.Context, id string) error {
	d.Close()

	d.mu.Lock()
	d.mount++
	mount := d.mount
	d.view = DetailView{ID: id}
	d.unsub = d.store.Subscribe(func(ev store.Event) {
		if ev.Type != store.EventRefreshed && ev.ID != id {
			return
		}
		d.log.Debug().Str("event", ev.Type.String()).Str("id", id).Msg("store event")
		_ = d.reload(context.WithoutCancel(ctx), mount)
	})
	d.mu.Unlock()

	return d.reload(ctx, mount)
}

// Close stops following the entry. Loads still in flight are discarded.
func (d *Detail) Close() {
	d.mu.Lock()
	unsub := d.unsub
	d.unsub = nil
	d.mount++
	d.view.Pending = false
	d.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Reload fetches the open entry again.
func (d *Detail) Reload(ctx context.Context) error {
	d.mu.Lock()
	mount := d.mount
	open := d.unsub != nil
	d.mu.Unlock()
	if !open {
		return nil
	}
	return d.reload(ctx, mount)
}

// Snapshot returns a copy of the current view.
func (d *Detail) Snapshot() DetailView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return copyDetail(d.view)
}

func (d *Detail) reload(ctx context.Context, mount uint64) error {
	d.mu.Lock()
	if mount != d.mount {
		d.mu.Unlock()
		return nil
	}
	d.started++
	seq := d.started
	id := d.view.ID
	d.view.Pending = true
	d.mu.Unlock()

	e, err := d.store.Get(ctx, id)

	d.mu.Lock()
	if mount != d.mount || seq < d.applied {
		d.mu.Unlock()
		return err
	}
	d.applied = seq
	d.view.Pending = d.started != seq
	d.view.Err = err
	switch {
	case err == nil:
		d.view.Entry = &e
		d.view.Rows = e.DetailRows()
		d.view.Missing = false
	case errors.Is(err, store.ErrNotFound):
		d.view.Entry = nil
		d.view.Rows = nil
		d.view.Missing = true
	}
	v := copyDetail(d.view)
	d.mu.Unlock()

	if err != nil && !errors.Is(err, store.ErrNotFound) {
		d.log.Error().Err(err).Str("id", id).Msg("detail reload failed")
	}
	if d.onChange != nil {
		d.onChange(v)
	}
	return err
}

func copyDetail(v DetailView) DetailView {
	if v.Entry != nil {
		e := v.Entry.Clone()
		v.Entry = &e
	}
	v.Rows = append([]entry.Row(nil), v.Rows...)
	return v
}
