package handler

import "github.com/labstack/echo/v4"

type Handlers struct {
	Search *SearchHandler
	Recent *RecentHandler
	Prices *PriceHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/health", HealthHandler)

	api := e.Group("/api/v1")
	api.POST("/flights/search", h.Search.Search)
	api.GET("/providers/health", h.Search.ProviderHealth)
	api.GET("/filters/default", DefaultFilters)
	api.POST("/filters/count", CountFilters)

	searches := api.Group("/searches")
	searches.GET("/recent", h.Recent.List)
	searches.DELETE("/recent", h.Recent.Clear)
	searches.DELETE("/recent/:id", h.Recent.Delete)
	searches.GET("/popular/destinations", h.Recent.PopularDestinations)
	searches.GET("/popular/routes", h.Recent.PopularRoutes)
	searches.GET("/suggestions", h.Recent.Suggestions)

	prices := api.Group("/prices")
	prices.GET("/calendar", h.Prices.Calendar)
	prices.GET("/trends", h.Prices.Trends)
	prices.GET("/alerts", h.Prices.Alerts)
	prices.POST("/alerts", h.Prices.AddAlert)
	prices.POST("/alerts/check", h.Prices.CheckAlerts)
}
