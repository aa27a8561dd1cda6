package router // package router defines how HTTP routes are registered for the application

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/flight-transfer-admin/internal/handler"
)

// RegisterRoutes registers the operational endpoints.  /healthz is always
// served; /metrics only when a gatherer is given.
func RegisterRoutes(e *echo.Echo, gatherer prometheus.Gatherer) {
	e.GET("/healthz", handler.Health)
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}

// RegisterDashboard registers the HTML admin pages.  Every page is a full
// round trip; the q and date filters travel in the query string and in
// hidden form fields.
func RegisterDashboard(e *echo.Echo, h *handler.DashboardHandler) {
	e.GET("/", h.Index)
	e.GET("/transfers/new", h.New)
	e.GET("/transfers/:id/edit", h.Edit)
	e.POST("/transfers", h.Create)
	e.POST("/transfers/:id", h.Update)

	// Deleting takes two steps: the GET shows a confirmation and only the
	// POST from that page touches the store.
	e.GET("/transfers/:id/delete", h.ConfirmDelete)
	e.POST("/transfers/:id/delete", h.Delete)
}

// RegisterAPI registers the JSON API under /api/v1.  mw is applied to the
// whole group (rate limiting, response cache).
func RegisterAPI(e *echo.Echo, h *handler.TransferHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/api/v1", mw...)
	g.GET("/transfers", h.List)
	g.POST("/transfers", h.Create)
	g.GET("/transfers/:id", h.Get)
	g.PUT("/transfers/:id", h.Update)
	g.PATCH("/transfers/:id", h.Patch) // absent keys keep their stored value
	g.DELETE("/transfers/:id", h.Delete)
}
