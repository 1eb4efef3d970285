package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// NotifyChannel is the PostgreSQL channel the form_entries trigger notifies.
const NotifyChannel = "form_entries"

// PGListener receives pg_notify payloads on a dedicated connection.
type PGListener struct {
	dsn     string
	channel string
	log     zerolog.Logger
}

var _ Listener = (*PGListener)(nil)

// NewPGListener returns a listener for NotifyChannel on the database at dsn.
func NewPGListener(dsn string, log zerolog.Logger) *PGListener {
	return &PGListener{
		dsn:     dsn,
		channel: NotifyChannel,
		log:     log.With().Str("component", "store.listener").Logger(),
	}
}

// Listen opens its own connection, issues LISTEN and streams parsed events
// until ctx is cancelled. Callers should drain the channel; events are
// dropped when it is full and the next one triggers a reload anyway.
func (l *PGListener) Listen(ctx context.Context) (<-chan Event, error) {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		_ = conn.Close(context.Background())
		return nil, err
	}

	events := make(chan Event, 64)
	go func() {
		defer close(events)
		defer func() {
			if err := conn.Close(context.Background()); err != nil {
				l.log.Debug().Err(err).Msg("listener close")
			}
		}()

		for {
			n, err := conn.WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil && !errors.Is(err, context.Canceled) {
					l.log.Error().Err(err).Msg("wait for notification")
				}
				return
			}
			ev, ok := ParseNotification(n.Payload)
			if !ok {
				l.log.Warn().Str("payload", n.Payload).Msg("unrecognised notification")
				ev = Event{Type: EventRefreshed}
			}
			select {
			case events <- ev:
			default:
			}
		}
	}()
	return events, nil
}

// ParseNotification decodes an "<OP>:<id>" payload written by the
// form_entries trigger, where OP is INSERT, UPDATE or DELETE.
func ParseNotification(payload string) (Event, bool) {
	op, id, found := strings.Cut(payload, ":")
	if !found || id == "" {
		return Event{}, false
	}
	switch strings.ToUpper(op) {
	case "INSERT":
		return Event{Type: EventCreated, ID: id}, true
	case "UPDATE":
		return Event{Type: EventUpdated, ID: id}, true
	case "DELETE":
		return Event{Type: EventDeleted, ID: id}, true
	}
	return Event{}, false
}
