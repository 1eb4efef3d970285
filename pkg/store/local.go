package store

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/peterbourgon/diskv/v3"
	"github.com/rs/zerolog"

	"tableflip.dev/entrybook/pkg/entry"
)

// BlobKey is the fixed key the local backend stores its entry array under.
const BlobKey = "formEntries"

// LocalOptions configures NewLocal.
type LocalOptions struct {
	// BasePath is the directory diskv writes into.
	BasePath string
	// Clock supplies creation times used to derive ids. Defaults to time.Now.
	Clock func() time.Time
	Logger zerolog.Logger
}

// Local stores all entries as one JSON array under BlobKey. Every mutation
// reads the whole array, changes it in memory and writes it back.
//
// Mutations from one Local are serialized by a mutex. Two processes sharing
// the same BasePath can still lose each other's writes.
type Local struct {
	d     *diskv.Diskv
	clock func() time.Time
	log   zerolog.Logger
	hub   hub

	mu     sync.Mutex
	lastID int64
}

var _ Store = (*Local)(nil)

// NewLocal opens a local store rooted at opts.BasePath.
func NewLocal(opts LocalOptions) (*Local, error) {
	if opts.BasePath == "" {
		return nil, errors.New("store: local base path unknown")
	}
	if err := os.MkdirAll(opts.BasePath, 0o755); err != nil {
		return nil, storageErr("open", err)
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Local{
		d: diskv.New(diskv.Options{
			BasePath: opts.BasePath,
			TempDir:  filepath.Join(opts.BasePath, ".tmp"),
			// No cache: another process may rewrite the blob and Refresh has
			// to observe it.
			CacheSizeMax: 0,
		}),
		clock: clock,
		log:   opts.Logger.With().Str("component", "store.local").Logger(),
	}, nil
}

func (l *Local) load() ([]entry.Entry, error) {
	if !l.d.Has(BlobKey) {
		return []entry.Entry{}, nil
	}
	raw, err := l.d.Read(BlobKey)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []entry.Entry{}, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return []entry.Entry{}, nil
	}
	var entries []entry.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []entry.Entry{}
	}
	return entries, nil
}

func (l *Local) save(entries []entry.Entry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return l.d.WriteStream(BlobKey, bytes.NewReader(raw), true)
}

// nextID derives an id from the creation time in milliseconds, bumped past
// any id already issued or stored so rapid creates stay unique.
func (l *Local) nextID(entries []entry.Entry) string {
	id := l.clock().UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	taken := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		taken[e.ID] = struct{}{}
	}
	for {
		if _, ok := taken[strconv.FormatInt(id, 10)]; !ok {
			break
		}
		id++
	}
	l.lastID = id
	return strconv.FormatInt(id, 10)
}

func (l *Local) Create(_ context.Context, e entry.Entry) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return "", l.fail(OpCreate, err)
	}
	e = e.Clone()
	e.ID = l.nextID(entries)
	e.Timestamp = time.Time{}
	entries = append(entries, e)
	if err := l.save(entries); err != nil {
		return "", l.fail(OpCreate, err)
	}
	l.log.Debug().Str("id", e.ID).Msg("entry created")
	return e.ID, nil
}

func (l *Local) Update(_ context.Context, id string, e entry.Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return l.fail(OpUpdate, err)
	}
	i := indexOf(entries, id)
	if i < 0 {
		return notFound(id)
	}
	e = e.Clone()
	e.ID = id
	e.Timestamp = time.Time{}
	entries[i] = e
	if err := l.save(entries); err != nil {
		return l.fail(OpUpdate, err)
	}
	l.log.Debug().Str("id", id).Msg("entry updated")
	return nil
}

func (l *Local) Delete(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return l.fail(OpDelete, err)
	}
	i := indexOf(entries, id)
	if i < 0 {
		return notFound(id)
	}
	entries = append(entries[:i], entries[i+1:]...)
	if err := l.save(entries); err != nil {
		return l.fail(OpDelete, err)
	}
	l.log.Debug().Str("id", id).Msg("entry deleted")
	return nil
}

func (l *Local) Get(_ context.Context, id string) (entry.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return entry.Entry{}, l.fail(OpGet, err)
	}
	i := indexOf(entries, id)
	if i < 0 {
		return entry.Entry{}, notFound(id)
	}
	return entries[i], nil
}

// List returns entries newest first by position in the stored array.
func (l *Local) List(_ context.Context) ([]entry.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return nil, l.fail(OpList, err)
	}
	out := make([]entry.Entry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out, nil
}

// Refresh checks the blob is readable and tells subscribers to reload.
func (l *Local) Refresh(_ context.Context) error {
	l.mu.Lock()
	_, err := l.load()
	l.mu.Unlock()
	if err != nil {
		return l.fail(OpRefresh, err)
	}
	l.hub.publish(Event{Type: EventRefreshed})
	return nil
}

func (l *Local) Subscribe(fn func(Event)) func() {
	return l.hub.subscribe(fn)
}

func (l *Local) Close() error {
	l.hub.close()
	return nil
}

func (l *Local) fail(op string, err error) error {
	l.log.Error().Err(err).Str("op", op).Msg("local store failure")
	return storageErr(op, err)
}

func indexOf(entries []entry.Entry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
