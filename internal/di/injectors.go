//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"sobriety/internal"
	"sobriety/internal/controllers"
	"sobriety/internal/providers"
	"sobriety/internal/services"
	"sobriety/internal/storage"
	"sobriety/internal/structures"
)

var storeSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	providers.NewMetricsProvider,

	storage.NewZstdCompressor,
	storage.NewStore,
	storage.NewExporter,
	services.NewAddictionService,
	wire.Bind(new(services.AddictionServiceInterface), new(*services.AddictionService)),
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		storeSet,
		providers.NewInstrumentedCacheProvider,

		controllers.NewAddictionController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitConsole(cfg *structures.CliFlags) (*internal.Console, error) {

	wire.Build(
		storeSet,
		internal.NewConsole,
	)

	return nil, nil
}
