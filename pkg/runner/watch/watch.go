package watch

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"tableflip.dev/entrybook/pkg/app"
	"tableflip.dev/entrybook/pkg/events"
	"tableflip.dev/entrybook/pkg/printers"
	"tableflip.dev/entrybook/pkg/runner"
	"tableflip.dev/entrybook/pkg/store"
)

// Watch follows the entry list until ctx is cancelled.
type Watch struct {
	// Interval re-runs the focus refresh periodically. The local backend never
	// pushes, so without it a local watch only shows the initial list.
	Interval time.Duration
	// MetricsAddr serves Registry on /metrics when both are set.
	MetricsAddr string
	Registry    *prometheus.Registry

	Store   store.Store
	Session *app.Session
	Printer printers.Printer
	Log     zerolog.Logger
}

func (n *Watch) Do(ctx context.Context) error {
	if n.Session == nil || n.Store == nil {
		return errors.New("can not watch, no session")
	}

	if n.Registry != nil && n.MetricsAddr != "" {
		srv := n.metricsServer()
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				n.Log.Error().Err(err).Str("addr", n.MetricsAddr).Msg("metrics server")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	changes := make(chan store.Event, 64)
	unsubscribe := n.Store.Subscribe(func(ev store.Event) {
		if ev.Type == store.EventRefreshed {
			return
		}
		select {
		case changes <- ev:
		default:
			n.Log.Warn().Str("event", ev.Type.String()).Msg("watch is behind, dropping change")
		}
	})
	defer unsubscribe()

	if err := n.Session.Start(ctx); err != nil {
		return err
	}
	if err := runner.Report(n.Printer, n.Session.Flush()); err != nil {
		return err
	}
	n.Printer.List(n.Session.View().List)

	var tick <-chan time.Time
	if n.Interval > 0 {
		t := time.NewTicker(n.Interval)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-changes:
			n.Printer.Event(ev.Type.String(), ev.ID)
		case msg := <-n.Session.Events():
			switch m := msg.(type) {
			case events.Refreshed:
				if m.Screen == events.ScreenList {
					n.Printer.List(n.Session.View().List)
				}
			case events.Notification:
				n.Printer.Notification(m)
			}
		case <-tick:
			if err := n.Session.OnScreenFocus(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
		}
	}
}

func (n *Watch) metricsServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(n.Registry, promhttp.HandlerOpts{Registry: n.Registry}))
	return &http.Server{
		Addr:              n.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
