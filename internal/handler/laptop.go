package handler

import (
	"net/http"

	"github.com/deppfellow/inventario/internal/model"
	"github.com/deppfellow/inventario/internal/server"
	"github.com/deppfellow/inventario/internal/service"
	"github.com/labstack/echo/v4"
)

// LaptopHandler adds the assignment route to the laptop CRUD routes.
type LaptopHandler struct {
	*ResourceHandler[model.Portatil]
}

func NewLaptopHandler(s *server.Server, svc *service.CRUD[model.Portatil]) *LaptopHandler {
	return &LaptopHandler{ResourceHandler: NewResourceHandler(s, svc)}
}

func (h *LaptopHandler) Register(g *echo.Group, mutate ...echo.MiddlewareFunc) {
	h.ResourceHandler.Register(g, mutate...)
	g.PUT("/:id/asignacion", Handle(h.Handler, h.operation("assign"), h.Assign, http.StatusOK, newPayloadRequest), mutate...)
}

// Assign records the laptop's status and the environment it moves to.
// Both fields are required; nothing else is written.
func (h *LaptopHandler) Assign(c echo.Context, req *model.PayloadRequest) (*model.MutationResponse, error) {
	fields := model.PortatilAssignmentFields
	if err := h.service.Patch(c.Request().Context(), req.ID, fields, fields, req.Payload); err != nil {
		return nil, h.fail(c, err, h.resource.Noun.Failure("asignar"))
	}
	return &model.MutationResponse{Message: "Portátil asignado correctamente"}, nil
}
