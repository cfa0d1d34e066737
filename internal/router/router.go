package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/magic-villa-api/internal/handler"
)

// RegisterRoutes registers the unauthenticated operational endpoints:
// the health check and, when metrics is non-nil, the Prometheus scrape
// endpoint.
func RegisterRoutes(e *echo.Echo, metrics http.Handler) {
	e.GET("/healthz", handler.Health)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}

// RegisterVilla mounts the villa resource under /api/villa.  Reads are
// public; writeMW (for example JWTAuth and RequireRole) guards the writes.
func RegisterVilla(e *echo.Echo, h *handler.VillaHandler, writeMW ...echo.MiddlewareFunc) {
	g := e.Group("/api/villa")
	g.GET("", h.List)
	g.GET("/:id", h.Get).Name = handler.GetVillaRoute

	g.POST("", h.Create, writeMW...)
	g.PUT("/:id", h.Update, writeMW...)
	g.PATCH("/:id", h.Patch, writeMW...)
	g.DELETE("/:id", h.Delete, writeMW...)
}
