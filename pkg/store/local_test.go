package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/entrybook/pkg/entry"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	l, err := NewLocal(LocalOptions{
		BasePath: t.TempDir(),
		Clock:    func() time.Time { return now },
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func sample(first string) entry.Entry {
	return entry.Entry{
		FirstName: first,
		LastName:  "Lopez",
		DOB:       "1990-03-04",
		Gender:    "Female",
		Country:   "USA",
		Email:     "a@b.com",
		Phone:     "5551234567",
		Feedback:  "great",
		Rating:    4,
		Topics:    []string{"Tech", "Education"},
	}
}

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal(t)

	in := sample("Ana")
	id, err := l.Create(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := l.Get(ctx, id)
	require.NoError(t, err)
	in.ID = id
	assert.Equal(t, in, got)
}

func TestLocalCreateNeverDedups(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal(t)

	a, err := l.Create(ctx, sample("Ana"))
	require.NoError(t, err)
	b, err := l.Create(ctx, sample("Ana"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "same clock tick must still yield distinct ids")

	all, err := l.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestLocalListNewestFirst(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal(t)

	for _, name := range []string{"Ana", "Ben", "Cy"} {
		_, err := l.Create(ctx, sample(name))
		require.NoError(t, err)
	}
	all, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Cy", all[0].FirstName)
	assert.Equal(t, "Ben", all[1].FirstName)
	assert.Equal(t, "Ana", all[2].FirstName)
}

func TestLocalListEmpty(t *testing.T) {
	l := newTestLocal(t)
	all, err := l.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestLocalUpdatePreservesIDAndPosition(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal(t)

	first, err := l.Create(ctx, sample("Ana"))
	require.NoError(t, err)
	_, err = l.Create(ctx, sample("Ben"))
	require.NoError(t, err)

	changed := sample("Ana")
	changed.LastName = "Ruiz"
	changed.ID = "ignored"
	require.NoError(t, l.Update(ctx, first, changed))

	got, err := l.Get(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, first, got.ID)
	assert.Equal(t, "Ruiz", got.LastName)

	all, err := l.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, all[1].ID, "update must not move the entry")
}

func TestLocalNotFound(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal(t)

	id, err := l.Create(ctx, sample("Ana"))
	require.NoError(t, err)
	require.NoError(t, l.Delete(ctx, id))

	_, err = l.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, l.Delete(ctx, id), ErrNotFound)
	assert.ErrorIs(t, l.Update(ctx, id, sample("Ana")), ErrNotFound)
}

func TestLocalCorruptBlobIsStorageError(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, BlobKey), []byte("{not json"), 0o644))

	l, err := NewLocal(LocalOptions{BasePath: base, Logger: zerolog.Nop()})
	require.NoError(t, err)

	_, err = l.List(ctx)
	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, OpList, serr.Op)

	_, err = l.Create(ctx, sample("Ana"))
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, OpCreate, serr.Op)

	err = l.Refresh(ctx)
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, OpRefresh, serr.Op)
}

func TestLocalReadsLegacyBlob(t *testing.T) {
	base := t.TempDir()
	legacy := `[{"id":"1700000000000","firstName":"Ana","lastName":"","dob":"3/4/1990",` +
		`"gender":"","country":"","email":"a@b.com","phone":"5551234567","feedback":"",` +
		`"rating":"","topics":["Tech"]}]`
	require.NoError(t, os.WriteFile(filepath.Join(base, BlobKey), []byte(legacy), 0o644))

	l, err := NewLocal(LocalOptions{BasePath: base, Logger: zerolog.Nop()})
	require.NoError(t, err)

	got, err := l.Get(context.Background(), "1700000000000")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FirstName)
	assert.Equal(t, entry.Rating(0), got.Rating)
	assert.Equal(t, "1990-03-04", entry.DisplayDOB(got.DOB))
}

func TestLocalPushesOnlyOnRefresh(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal(t)

	var mu sync.Mutex
	var got []Event
	unsubscribe := l.Subscribe(func(ev Event) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	})

	id, err := l.Create(ctx, sample("Ana"))
	require.NoError(t, err)
	require.NoError(t, l.Delete(ctx, id))

	mu.Lock()
	assert.Empty(t, got, "writes must not push on the local backend")
	mu.Unlock()

	require.NoError(t, l.Refresh(ctx))
	mu.Lock()
	assert.Equal(t, []Event{{Type: EventRefreshed}}, got)
	mu.Unlock()

	unsubscribe()
	require.NoError(t, l.Refresh(ctx))
	mu.Lock()
	assert.Len(t, got, 1)
	mu.Unlock()
}

func TestLocalRefreshSeesExternalWrite(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	a, err := NewLocal(LocalOptions{BasePath: base, Logger: zerolog.Nop()})
	require.NoError(t, err)
	b, err := NewLocal(LocalOptions{BasePath: base, Logger: zerolog.Nop()})
	require.NoError(t, err)

	_, err = a.List(ctx)
	require.NoError(t, err)

	_, err = b.Create(ctx, sample("Ana"))
	require.NoError(t, err)

	all, err := a.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLocalConcurrentCreatesKeepEveryWrite(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Create(ctx, sample("Ana"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := l.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)

	seen := map[string]bool{}
	for _, e := range all {
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
}

func TestNewLocalRequiresPath(t *testing.T) {
	_, err := NewLocal(LocalOptions{})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
