// Package di assembles the application graph with google/wire.
package di

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"tableflip.dev/entrybook/pkg/app"
	"tableflip.dev/entrybook/pkg/config"
	"tableflip.dev/entrybook/pkg/logging"
	"tableflip.dev/entrybook/pkg/store"
)

// App is the fully wired application.
type App struct {
	Config *config.Config
	Log    zerolog.Logger
	// Registry is nil when metrics are disabled.
	Registry *prometheus.Registry
	Store    store.Store
	Session  *app.Session
}

func ProvideConfig(v *viper.Viper) (*config.Config, error) {
	return config.Load(v)
}

func ProvideLogger(c *config.Config) (zerolog.Logger, error) {
	return logging.New(logging.Options{Level: c.Log.Level, Format: c.Log.Format})
}

// ProvideRegistry returns a private registry with process collectors, or nil
// when metrics are disabled.
func ProvideRegistry(c *config.Config) *prometheus.Registry {
	if !c.Metrics.Enabled {
		return nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func ProvideStoreMetrics(reg *prometheus.Registry) *store.Metrics {
	if reg == nil {
		return nil
	}
	return store.NewMetrics(reg)
}

func ProvideStore(ctx context.Context, c *config.Config, log zerolog.Logger, m *store.Metrics) (store.Store, func(), error) {
	s, err := store.Open(ctx, c.StoreOptions(), log, m)
	if err != nil {
		return nil, nil, err
	}
	return s, func() {
		if err := s.Close(); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}, nil
}

func ProvideSession(s store.Store, log zerolog.Logger) (*app.Session, func()) {
	sess := app.NewSession(s, log)
	return sess, func() { _ = sess.Close() }
}
