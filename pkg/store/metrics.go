package store

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tableflip.dev/entrybook/pkg/entry"
)

// Metrics records store operation outcomes and latency.
type Metrics struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
	events   *prometheus.CounterVec
}

// NewMetrics registers the store collectors on reg. A nil reg returns nil,
// which Instrument treats as disabled.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	f := promauto.With(reg)
	return &Metrics{
		ops: f.NewCounterVec(prometheus.CounterOpts{
			Name: "entrybook_store_operations_total",
			Help: "Total number of store operations by outcome",
		}, []string{"op", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "entrybook_store_operation_duration_seconds",
			Help:    "Duration of store operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "entrybook_store_events_total",
			Help: "Total number of change events delivered to subscribers",
		}, []string{"type"}),
	}
}

func (m *Metrics) observe(op string, start time.Time, err error) {
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	m.ops.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	var serr *StorageError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &serr):
		return "storage_error"
	default:
		return "error"
	}
}

// Instrument wraps s so every operation is counted and timed. It returns s
// unchanged when m is nil.
func Instrument(s Store, m *Metrics) Store {
	if m == nil {
		return s
	}
	return &instrumented{next: s, m: m}
}

type instrumented struct {
	next Store
	m    *Metrics
}

func (i *instrumented) Create(ctx context.Context, e entry.Entry) (string, error) {
	start := time.Now()
	id, err := i.next.Create(ctx, e)
	i.m.observe(OpCreate, start, err)
	return id, err
}

func (i *instrumented) Update(ctx context.Context, id string, e entry.Entry) error {
	start := time.Now()
	err := i.next.Update(ctx, id, e)
	i.m.observe(OpUpdate, start, err)
	return err
}

func (i *instrumented) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := i.next.Delete(ctx, id)
	i.m.observe(OpDelete, start, err)
	return err
}

func (i *instrumented) Get(ctx context.Context, id string) (entry.Entry, error) {
	start := time.Now()
	e, err := i.next.Get(ctx, id)
	i.m.observe(OpGet, start, err)
	return e, err
}

func (i *instrumented) List(ctx context.Context) ([]entry.Entry, error) {
	start := time.Now()
	out, err := i.next.List(ctx)
	i.m.observe(OpList, start, err)
	return out, err
}

func (i *instrumented) Refresh(ctx context.Context) error {
	start := time.Now()
	err := i.next.Refresh(ctx)
	i.m.observe(OpRefresh, start, err)
	return err
}

func (i *instrumented) Subscribe(fn func(Event)) func() {
	if fn == nil {
		return i.next.Subscribe(nil)
	}
	return i.next.Subscribe(func(ev Event) {
		i.m.events.WithLabelValues(ev.Type.String()).Inc()
		fn(ev)
	})
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
