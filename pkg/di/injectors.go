//go:build wireinject
// +build wireinject

package di

import (
	"context"

	wire "github.com/google/wire"
	"github.com/spf13/viper"
)

func InitApp(ctx context.Context, v *viper.Viper) (*App, func(), error) {

	wire.Build(
		ProvideConfig,
		ProvideLogger,
		ProvideRegistry,
		ProvideStoreMetrics,
		ProvideStore,
		ProvideSession,
		wire.Struct(new(App), "*"),
	)

	return nil, nil, nil
}
