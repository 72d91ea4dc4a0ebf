//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"wolwake/internal"
	"wolwake/internal/controllers"
	"wolwake/internal/epgstation"
	"wolwake/internal/probe"
	"wolwake/internal/providers"
	"wolwake/internal/services"
	"wolwake/internal/snapshot"
	"wolwake/internal/structures"
	"wolwake/internal/wol"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewMetricsProvider,

		snapshot.NewZstdCompressor,
		snapshot.NewFileManager,
		snapshot.NewStore,
		probe.NewLivenessProbe,
		wol.NewSenderFromConfig,
		epgstation.NewClient,
		services.NewMatcher,
		services.NewWakeService,
		services.NewRefreshService,
		services.NewScheduler,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
