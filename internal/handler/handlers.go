// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It parses requests, handles input validation using the..
// validation package, and calls the appropriate service layer.
// It acts as the interface between the HTTP request and the core..
// business logic.
package handler

import (
	"github.com/deppfellow/inventario/internal/model"
	"github.com/deppfellow/inventario/internal/server"
	"github.com/deppfellow/inventario/internal/service"
	"github.com/labstack/echo/v4"
)

// Registrar mounts a resource's routes on a group.
type Registrar interface {
	Register(g *echo.Group, mutate ...echo.MiddlewareFunc)
}

// Handlers groups all HTTP handlers so router setup receives one value.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler

	Ambientes  *ResourceHandler[model.Ambiente]
	Fichas     *ResourceHandler[model.Ficha]
	Portatiles *LaptopHandler
	Reportes   *ResourceHandler[model.Reporte]
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(s),
		OpenAPI:    NewOpenAPIHandler(s),
		Ambientes:  NewResourceHandler(s, services.Ambientes),
		Fichas:     NewResourceHandler(s, services.Fichas),
		Portatiles: NewLaptopHandler(s, services.Portatiles),
		Reportes:   NewResourceHandler(s, services.Reportes),
	}
}

// Route pairs a resource policy with the handler serving it.
type Route struct {
	Resource model.Resource
	Handler  Registrar
}

// Routes lists every resource route in registration order.
func (h *Handlers) Routes() []Route {
	return []Route{
		{Resource: model.AmbienteResource, Handler: h.Ambientes},
		{Resource: model.FichaResource, Handler: h.Fichas},
		{Resource: model.PortatilResource, Handler: h.Portatiles},
		{Resource: model.ReporteResource, Handler: h.Reportes},
	}
}
