package router

import (
	"github.com/deppfellow/inventario/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerResourceRoutes mounts each resource at /<name> and at every
// alias, e.g. /portatil and /laptop.
func registerResourceRoutes(r *echo.Echo, h *handler.Handlers, mutate ...echo.MiddlewareFunc) {
	for _, route := range h.Routes() {
		for _, path := range route.Resource.Routes() {
			route.Handler.Register(r.Group("/"+path), mutate...)
		}
	}
}
