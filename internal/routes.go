package internal

import (
	"net/http"

	"github.com/itkutus/potbot/internal/controllers"
	"github.com/itkutus/potbot/internal/providers"
	"github.com/itkutus/potbot/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/leaderboard", http.HandlerFunc(apiController.GetLeaderboard))
	routers.Get("/profile", http.HandlerFunc(apiController.GetProfile))
	routers.Get("/dailystats", http.HandlerFunc(apiController.GetDailyStats))
	routers.Get("/achievements", http.HandlerFunc(apiController.GetAchievements))
	return routers
}
