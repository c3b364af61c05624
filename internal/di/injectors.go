//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"github.com/itkutus/potbot/internal"
	"github.com/itkutus/potbot/internal/bot"
	"github.com/itkutus/potbot/internal/controllers"
	"github.com/itkutus/potbot/internal/models"
	"github.com/itkutus/potbot/internal/persistence"
	"github.com/itkutus/potbot/internal/providers"
	"github.com/itkutus/potbot/internal/services"
	"github.com/itkutus/potbot/internal/structures"
	"github.com/itkutus/potbot/internal/weather"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		models.NewStore,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		services.NewLevelingService,
		services.NewLeaderboardService,
		services.NewDailyStatsService,
		services.NewEngagementService,

		persistence.NewZstdCompressor,
		persistence.NewFileManager,
		persistence.NewScheduler,

		weather.NewClient,
		bot.New,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
