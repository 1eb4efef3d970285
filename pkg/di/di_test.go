package di

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/entrybook/pkg/config"
	"tableflip.dev/entrybook/pkg/events"
)

func TestInitAppLocal(t *testing.T) {
	t.Setenv("ENTRYBOOK_CONFIG_PATH", t.TempDir())
	t.Chdir(t.TempDir())

	v := config.New()
	v.Set("path", t.TempDir())
	v.Set("log.level", "disabled")
	v.Set("metrics.enabled", true)

	a, cleanup, err := InitApp(context.Background(), v)
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, a.Session)
	require.NotNil(t, a.Registry)
	assert.Equal(t, "local", a.Config.Backend)

	require.NoError(t, a.Session.Start(context.Background()))
	assert.Equal(t, events.ScreenList, a.Session.View().Screen)

	families, err := a.Registry.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["entrybook_store_operations_total"])
}

func TestInitAppRejectsBadConfig(t *testing.T) {
	t.Setenv("ENTRYBOOK_CONFIG_PATH", t.TempDir())
	t.Chdir(t.TempDir())

	v := config.New()
	v.Set("backend", "remote")

	_, _, err := InitApp(context.Background(), v)
	assert.Error(t, err)
}

func TestMetricsDisabled(t *testing.T) {
	c := &config.Config{}
	assert.Nil(t, ProvideRegistry(c))
	assert.Nil(t, ProvideStoreMetrics(nil))
}
