package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tableflip.dev/entrybook/pkg/entry"
)

// DBTX is the subset of database/sql the remote store uses. Both *sql.DB and
// *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Listener streams change events pushed by the database. The channel closes
// when ctx is done or the connection fails.
type Listener interface {
	Listen(ctx context.Context) (<-chan Event, error)
}

// RemoteOptions configures NewRemote.
type RemoteOptions struct {
	// Listener is optional. Without one the store behaves as pull-only.
	Listener Listener
	// Coalesce merges identical events arriving within the window.
	Coalesce time.Duration
	Logger   zerolog.Logger
}

// Remote stores one JSON document per row in the form_entries table and
// orders listings by the server-assigned timestamp, newest first.
type Remote struct {
	db       DBTX
	listener Listener
	throttle *eventThrottle
	log      zerolog.Logger
	hub      hub

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

var _ Store = (*Remote)(nil)

const (
	queryInsert = `INSERT INTO form_entries (doc) VALUES ($1) RETURNING id::text`
	queryUpdate = `UPDATE form_entries SET doc = $2, timestamp = now() WHERE id = $1`
	queryDelete = `DELETE FROM form_entries WHERE id = $1`
	querySelect = `SELECT id::text, doc, timestamp FROM form_entries WHERE id = $1`
	queryList   = `SELECT id::text, doc, timestamp FROM form_entries ORDER BY timestamp DESC`
)

// NewRemote builds a remote store over db. Call Start to begin receiving
// pushed events.
func NewRemote(db DBTX, opts RemoteOptions) *Remote {
	return &Remote{
		db:       db,
		listener: opts.Listener,
		throttle: newEventThrottle(opts.Coalesce),
		log:      opts.Logger.With().Str("component", "store.remote").Logger(),
	}
}

// Start subscribes to database notifications and forwards them to
// subscribers until Close. It is a no-op without a Listener.
func (r *Remote) Start(ctx context.Context) error {
	if r.listener == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	ch, err := r.listener.Listen(ctx)
	if err != nil {
		cancel()
		return storageErr("listen", err)
	}
	r.cancel = cancel
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		for ev := range ch {
			r.log.Debug().Str("type", ev.Type.String()).Str("id", ev.ID).Msg("notification")
			r.throttle.Enqueue(ev, r.hub.publish)
		}
		if ctx.Err() == nil {
			r.log.Warn().Msg("notification stream closed")
		}
	}()
	return nil
}

func (r *Remote) Create(ctx context.Context, e entry.Entry) (string, error) {
	doc, err := encodeDoc(e)
	if err != nil {
		return "", r.fail(OpCreate, err)
	}
	var id string
	if err := r.db.QueryRowContext(ctx, queryInsert, doc).Scan(&id); err != nil {
		return "", r.fail(OpCreate, err)
	}
	return id, nil
}

func (r *Remote) Update(ctx context.Context, id string, e entry.Entry) error {
	if !validID(id) {
		return notFound(id)
	}
	doc, err := encodeDoc(e)
	if err != nil {
		return r.fail(OpUpdate, err)
	}
	res, err := r.db.ExecContext(ctx, queryUpdate, id, doc)
	if err != nil {
		return r.fail(OpUpdate, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return r.fail(OpUpdate, err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func (r *Remote) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound(id)
	}
	res, err := r.db.ExecContext(ctx, queryDelete, id)
	if err != nil {
		return r.fail(OpDelete, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return r.fail(OpDelete, err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func (r *Remote) Get(ctx context.Context, id string) (entry.Entry, error) {
	if !validID(id) {
		return entry.Entry{}, notFound(id)
	}
	var (
		rowID string
		doc   []byte
		ts    time.Time
	)
	err := r.db.QueryRowContext(ctx, querySelect, id).Scan(&rowID, &doc, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return entry.Entry{}, notFound(id)
	}
	if err != nil {
		return entry.Entry{}, r.fail(OpGet, err)
	}
	e, err := decodeDoc(rowID, doc, ts)
	if err != nil {
		return entry.Entry{}, r.fail(OpGet, err)
	}
	return e, nil
}

// List returns entries by server timestamp, newest first. That order can
// differ from the order entries were created in.
func (r *Remote) List(ctx context.Context) ([]entry.Entry, error) {
	rows, err := r.db.QueryContext(ctx, queryList)
	if err != nil {
		return nil, r.fail(OpList, err)
	}
	defer rows.Close()

	out := []entry.Entry{}
	for rows.Next() {
		var (
			id  string
			doc []byte
			ts  time.Time
		)
		if err := rows.Scan(&id, &doc, &ts); err != nil {
			return nil, r.fail(OpList, err)
		}
		e, err := decodeDoc(id, doc, ts)
		if err != nil {
			return nil, r.fail(OpList, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail(OpList, err)
	}
	return out, nil
}

// Refresh tells subscribers to reload. Pushed events already keep them
// current; this keeps focus handling identical across backends.
func (r *Remote) Refresh(_ context.Context) error {
	r.hub.publish(Event{Type: EventRefreshed})
	return nil
}

func (r *Remote) Subscribe(fn func(Event)) func() {
	return r.hub.subscribe(fn)
}

// Close stops the notification loop. It does not close the database handle,
// which belongs to the caller.
func (r *Remote) Close() error {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	r.throttle.Stop()
	r.hub.close()
	return nil
}

func (r *Remote) fail(op string, err error) error {
	r.log.Error().Err(err).Str("op", op).Msg("remote store failure")
	return storageErr(op, err)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// encodeDoc serializes e without its id, which lives in its own column.
func encodeDoc(e entry.Entry) (string, error) {
	e.ID = ""
	raw, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("encode entry: %w", err)
	}
	return string(raw), nil
}

func decodeDoc(id string, doc []byte, ts time.Time) (entry.Entry, error) {
	var e entry.Entry
	if err := json.Unmarshal(doc, &e); err != nil {
		return entry.Entry{}, fmt.Errorf("decode entry %s: %w", id, err)
	}
	e.ID = id
	e.Timestamp = ts
	return e, nil
}
