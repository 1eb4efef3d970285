// Package store persists form entries behind one interface with two backends.
//
// The local backend keeps every entry in a single JSON array on disk and
// lists them newest first by array position. It never pushes: subscribers
// hear about changes only when a screen calls Refresh on focus.
//
// The remote backend keeps one JSON document per row in PostgreSQL, lists by
// the server-assigned timestamp descending, and pushes an event for every
// write the database reports, including this client's own writes.
//
// Those two ordering policies can disagree under clock skew or concurrent
// writers. That is accepted; callers must not assume either one.
package store

import (
	"context"

	"tableflip.dev/entrybook/pkg/entry"
)

// Store is the persistence contract for form entries.
type Store interface {
	// Create assigns a new id, persists e and returns the id. Calling it
	// twice with the same entry creates two records.
	Create(ctx context.Context, e entry.Entry) (string, error)
	// Update replaces every field of the stored entry except its id.
	Update(ctx context.Context, id string, e entry.Entry) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (entry.Entry, error)
	// List returns entries in the backend's documented order.
	List(ctx context.Context) ([]entry.Entry, error)
	// Refresh is called when a screen displaying entries becomes active. It
	// delivers an EventRefreshed to subscribers.
	Refresh(ctx context.Context) error
	// Subscribe registers fn for change events and returns a function that
	// removes it.
	Subscribe(fn func(Event)) (unsubscribe func())
	Close() error
}
