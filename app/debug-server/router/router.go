package router

import (
	"myShopFeed/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupFeedRoutes(api *echo.Group, handler *rest.FeedHandler) {
	feed := api.Group("/feed")
	feed.GET("", handler.GetPage)
	feed.POST("/events", handler.RecordInteraction)
	feed.POST("/profile/events", handler.ApplyProfileEvent)
	feed.PUT("/profile/preference", handler.DeclarePreference)
}

func SetupDebugRoutes(api *echo.Group, handler *rest.FeedDebugHandler) {
	debug := api.Group("/debug")
	debug.GET("/snapshots", handler.Snapshots)
	debug.GET("/profile", handler.Profile)
	debug.GET("/classify", handler.Classify)
	debug.POST("/reset", handler.Reset)
}
