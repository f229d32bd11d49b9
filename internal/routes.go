package internal

import (
	"net/http"

	"emt/internal/controllers"
	"emt/internal/providers"
	"emt/internal/structures"
)

func InitRoutes(engagementController *controllers.EngagementController, adminController *controllers.AdminController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/views", http.HandlerFunc(engagementController.TrackView))
	routers.Post("/votes", http.HandlerFunc(engagementController.ToggleVote))
	routers.Post("/saves", http.HandlerFunc(engagementController.ToggleSave))
	routers.Get("/metrics/item", http.HandlerFunc(engagementController.GetMetrics))
	routers.Get("/trending", http.HandlerFunc(engagementController.GetTrending))
	routers.Post("/admin/cache/clear", http.HandlerFunc(adminController.ClearCaches))
	routers.Post("/admin/trending/recompute", http.HandlerFunc(adminController.RecomputeTrending))
	return routers
}
