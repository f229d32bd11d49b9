//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"emt/internal"
	"emt/internal/controllers"
	"emt/internal/providers"
	"emt/internal/services"
	"emt/internal/store"
	"emt/internal/structures"
	"emt/internal/trending"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		store.NewInstrumentedEngagementStore,
		store.NewZstdCompressor,
		store.NewFileManager,
		services.NewEngagementService,
		trending.NewRecomputer,
		trending.NewScheduler,
		controllers.NewEngagementController,
		controllers.NewAdminController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
