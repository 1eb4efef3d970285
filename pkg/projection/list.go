// Package projection derives the read-side view models from a store and keeps
// them current as the store reports changes. It adds no ordering or caching
// of its own: a view is whatever the store's List or Get last returned.
package projection

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"tableflip.dev/entrybook/pkg/entry"
	"tableflip.dev/entrybook/pkg/store"
)

// EmptyListMessage is shown in place of an empty list.
const EmptyListMessage = "No entries yet. Tap + to add one."

// Summary is one row of the list view.
type Summary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Gender  string `json:"gender"`
}

// ListView is the rendered state of the list screen.
type ListView struct {
	Items []Summary
	// Empty holds the placeholder text when Items is empty.
	Empty   string
	Pending bool
	Err     error
}

// Summarize projects entries into list rows, keeping their order.
func Summarize(entries []entry.Entry) []Summary {
	out := make([]Summary, 0, len(entries))
	for _, e := range entries {
		out = append(out, Summary{
			ID:      e.ID,
			Name:    e.FullName(),
			Country: e.Country,
			Gender:  e.Gender,
		})
	}
	return out
}

// List keeps a ListView in step with a store.
type List struct {
	store    store.Store
	log      zerolog.Logger
	onChange func(ListView)

	mu      sync.Mutex
	view    ListView
	unsub   func()
	mount   uint64
	started uint64
	applied uint64
}

// NewList returns a detached list projection. onChange, when set, is called
// with every view the projection applies.
func NewList(s store.Store, log zerolog.Logger, onChange func(ListView)) *List {
	return &List{
		store:    s,
		log:      log.With().Str("component", "projection.list").Logger(),
		onChange: onChange,
		view:     ListView{Empty: EmptyListMessage},
	}
}

// Attach subscribes to store events and loads the list.
func (l *List) Attach(ctx context.Context) error {
	l.mu.Lock()
	if l.unsub == nil {
		l.mount++
		mount := l.mount
		l.unsub = l.store.Subscribe(func(ev store.Event) {
			l.log.Debug().Str("event", ev.Type.String()).Str("id", ev.ID).Msg("store event")
			_ = l.reload(context.WithoutCancel(ctx), mount)
		})
	}
	mount := l.mount
	l.mu.Unlock()

	return l.reload(ctx, mount)
}

// Detach stops following the store. Loads still in flight are discarded.
func (l *List) Detach() {
	l.mu.Lock()
	unsub := l.unsub
	l.unsub = nil
	l.mount++
	l.view.Pending = false
	l.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Reload fetches the list again.
func (l *List) Reload(ctx context.Context) error {
	l.mu.Lock()
	mount := l.mount
	l.mu.Unlock()
	return l.reload(ctx, mount)
}

// Snapshot returns a copy of the current view.
func (l *List) Snapshot() ListView {
	l.mu.Lock()
	defer l.mu.Unlock()
	v := l.view
	v.Items = append([]Summary(nil), l.view.Items...)
	return v
}

func (l *List) reload(ctx context.Context, mount uint64) error {
	l.mu.Lock()
	if mount != l.mount {
		l.mu.Unlock()
		return nil
	}
	l.started++
	seq := l.started
	l.view.Pending = true
	l.mu.Unlock()

	entries, err := l.store.List(ctx)

	l.mu.Lock()
	if mount != l.mount || seq < l.applied {
		l.mu.Unlock()
		return err
	}
	l.applied = seq
	l.view.Pending = l.started != seq
	l.view.Err = err
	if err == nil {
		l.view.Items = Summarize(entries)
	}
	if len(l.view.Items) == 0 {
		l.view.Empty = EmptyListMessage
	} else {
		l.view.Empty = ""
	}
	v := l.view
	v.Items = append([]Summary(nil), l.view.Items...)
	l.mu.Unlock()

	if err != nil {
		l.log.Error().Err(err).Msg("list reload failed")
	}
	if l.onChange != nil {
		l.onChange(v)
	}
	return err
}
