package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

// Backend names accepted by Open.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Path is the local base directory.
	Path string
	// DSN is the PostgreSQL connection string for the remote backend.
	DSN string
	// Coalesce is the remote notification coalescing window.
	Coalesce time.Duration
}

// Open builds the configured backend. For the remote backend it also opens
// the database, applies migrations and starts listening for notifications.
// Closing the returned store releases everything Open acquired.
func Open(ctx context.Context, opts Options, log zerolog.Logger, m *Metrics) (Store, error) {
	var (
		s   Store
		err error
	)
	switch opts.Backend {
	case BackendLocal, "":
		s, err = NewLocal(LocalOptions{BasePath: opts.Path, Logger: log})
	case BackendRemote:
		s, err = openRemote(ctx, opts, log)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, m), nil
}

func openRemote(ctx context.Context, opts Options, log zerolog.Logger) (Store, error) {
	if opts.DSN == "" {
		return nil, errors.New("store: remote backend requires a dsn")
	}
	db, err := sql.Open("pgx", opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("store: db open: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	r := NewRemote(db, RemoteOptions{
		Listener: NewPGListener(opts.DSN, log),
		Coalesce: opts.Coalesce,
		Logger:   log,
	})
	if err := r.Start(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &ownedDB{Remote: r, db: db}, nil
}

// ownedDB closes the database handle after the remote store it backs.
type ownedDB struct {
	*Remote
	db *sql.DB
}

func (o *ownedDB) Close() error {
	return errors.Join(o.Remote.Close(), o.db.Close())
}
