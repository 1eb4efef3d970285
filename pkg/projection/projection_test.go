package projection

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"tableflip.dev/entrybook/pkg/entry"
	"tableflip.dev/entrybook/pkg/store"
)

func newStore(t *testing.T) *store.Local {
	t.Helper()
	s, err := store.NewLocal(store.LocalOptions{BasePath: t.TempDir(), Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func create(t *testing.T, s store.Store, first, last string) string {
	t.Helper()
	id, err := s.Create(context.Background(), entry.Entry{
		FirstName: first,
		LastName:  last,
		Country:   "UK",
		Gender:    "Other",
		Email:     "a@b.com",
		Phone:     "5551234567",
	})
	if err != nil {
		t.Fatalf("create %s: %v", first, err)
	}
	return id
}

func TestListEmptyPlaceholder(t *testing.T) {
	l := NewList(newStore(t), zerolog.Nop(), nil)
	if err := l.Attach(context.Background()); err != nil {
		t.Fatalf("attach: %v", err)
	}
	v := l.Snapshot()
	if len(v.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(v.Items))
	}
	if v.Empty != EmptyListMessage {
		t.Fatalf("unexpected placeholder %q", v.Empty)
	}
	if v.Pending {
		t.Fatalf("expected load to be complete")
	}
}

func TestListFollowsStoreOrder(t *testing.T) {
	s := newStore(t)
	create(t, s, "Ana", "Ruiz")
	ben := create(t, s, "Ben", "")

	l := NewList(s, zerolog.Nop(), nil)
	if err := l.Attach(context.Background()); err != nil {
		t.Fatalf("attach: %v", err)
	}
	v := l.Snapshot()
	if len(v.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(v.Items))
	}
	want := Summary{ID: ben, Name: "Ben", Country: "UK", Gender: "Other"}
	if v.Items[0] != want {
		t.Fatalf("head = %+v, want %+v", v.Items[0], want)
	}
	if v.Items[1].Name != "Ana Ruiz" {
		t.Fatalf("expected full name, got %q", v.Items[1].Name)
	}
	if v.Empty != "" {
		t.Fatalf("placeholder should be cleared, got %q", v.Empty)
	}
}

func TestListReloadsOnFocusRefresh(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	var changes int
	l := NewList(s, zerolog.Nop(), func(ListView) { changes++ })
	if err := l.Attach(ctx); err != nil {
		t.Fatalf("attach: %v", err)
	}

	create(t, s, "Ana", "")
	if got := len(l.Snapshot().Items); got != 0 {
		t.Fatalf("local writes must not push, list has %d items", got)
	}

	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := len(l.Snapshot().Items); got != 1 {
		t.Fatalf("expected 1 item after refresh, got %d", got)
	}
	if changes != 2 {
		t.Fatalf("expected 2 change callbacks, got %d", changes)
	}
}

func TestListDetachIgnoresEvents(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	l := NewList(s, zerolog.Nop(), nil)
	if err := l.Attach(ctx); err != nil {
		t.Fatalf("attach: %v", err)
	}
	l.Detach()

	create(t, s, "Ana", "")
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := len(l.Snapshot().Items); got != 0 {
		t.Fatalf("detached list should not reload, has %d items", got)
	}
}

func TestDetailShowsEntry(t *testing.T) {
	s := newStore(t)
	id := create(t, s, "Ana", "Ruiz")

	d := NewDetail(s, zerolog.Nop(), nil)
	if err := d.Open(context.Background(), id); err != nil {
		t.Fatalf("open: %v", err)
	}
	v := d.Snapshot()
	if v.Entry == nil || v.Entry.FullName() != "Ana Ruiz" {
		t.Fatalf("unexpected entry %+v", v.Entry)
	}
	if len(v.Rows) == 0 {
		t.Fatalf("expected detail rows")
	}
	if v.Missing {
		t.Fatalf("entry should not be missing")
	}
}

func TestDetailReportsMissing(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	id := create(t, s, "Ana", "")

	var last DetailView
	d := NewDetail(s, zerolog.Nop(), func(v DetailView) { last = v })
	if err := d.Open(ctx, id); err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !last.Missing || last.Entry != nil {
		t.Fatalf("expected missing entry, got %+v", last)
	}
	if !errors.Is(last.Err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", last.Err)
	}
}

func TestDetailOpenUnknownID(t *testing.T) {
	d := NewDetail(newStore(t), zerolog.Nop(), nil)
	err := d.Open(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !d.Snapshot().Missing {
		t.Fatalf("expected view to be marked missing")
	}
}

func TestDetailSnapshotIsACopy(t *testing.T) {
	s := newStore(t)
	id := create(t, s, "Ana", "")
	d := NewDetail(s, zerolog.Nop(), nil)
	if err := d.Open(context.Background(), id); err != nil {
		t.Fatalf("open: %v", err)
	}
	v := d.Snapshot()
	v.Entry.FirstName = "Mutated"
	if d.Snapshot().Entry.FirstName != "Ana" {
		t.Fatalf("snapshot leaked internal state")
	}
}
