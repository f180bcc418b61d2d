package handler

import (
	"errors"
	"net/http"

	"github.com/deppfellow/inventario/internal/errs"
	"github.com/deppfellow/inventario/internal/middleware"
	"github.com/deppfellow/inventario/internal/model"
	"github.com/deppfellow/inventario/internal/server"
	"github.com/deppfellow/inventario/internal/service"
	"github.com/deppfellow/inventario/internal/sqlerr"
	"github.com/labstack/echo/v4"
)

func newListRequest() *model.ListRequest       { return &model.ListRequest{} }
func newIDRequest() *model.IDRequest           { return &model.IDRequest{} }
func newPayloadRequest() *model.PayloadRequest { return &model.PayloadRequest{} }

// ResourceHandler serves the five CRUD routes of one resource.
type ResourceHandler[T any] struct {
	Handler
	service  *service.CRUD[T]
	resource model.Resource
}

func NewResourceHandler[T any](s *server.Server, svc *service.CRUD[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{
		Handler:  NewHandler(s),
		service:  svc,
		resource: svc.Resource(),
	}
}

// Register mounts the routes on g. mutate wraps the routes that write.
func (h *ResourceHandler[T]) Register(g *echo.Group, mutate ...echo.MiddlewareFunc) {
	g.GET("", Handle(h.Handler, h.operation("list"), h.List, http.StatusOK, newListRequest))
	g.GET("/:id", Handle(h.Handler, h.operation("get"), h.Get, http.StatusOK, newIDRequest))
	g.POST("", Handle(h.Handler, h.operation("create"), h.Create, http.StatusCreated, newPayloadRequest), mutate...)
	g.PUT("/:id", Handle(h.Handler, h.operation("update"), h.Update, http.StatusOK, newPayloadRequest), mutate...)
	g.DELETE("/:id", Handle(h.Handler, h.operation("delete"), h.Delete, http.StatusOK, newIDRequest), mutate...)
}

// operation names an endpoint of this resource, e.g. "ficha.update".
func (h *ResourceHandler[T]) operation(action string) string {
	return h.resource.Name + "." + action
}

func (h *ResourceHandler[T]) List(c echo.Context, req *model.ListRequest) ([]T, error) {
	records, err := h.service.List(c.Request().Context())
	if err != nil {
		return nil, h.fail(c, err, h.resource.Noun.FailurePlural("obtener", h.resource.Plural))
	}
	return records, nil
}

func (h *ResourceHandler[T]) Get(c echo.Context, req *model.IDRequest) (T, error) {
	record, err := h.service.Get(c.Request().Context(), req.ID)
	if err != nil {
		return record, h.fail(c, err, h.resource.Noun.Failure("obtener"))
	}
	return record, nil
}

func (h *ResourceHandler[T]) Create(c echo.Context, req *model.PayloadRequest) (*model.MutationResponse, error) {
	id, err := h.service.Create(c.Request().Context(), req.Payload)
	if err != nil {
		return nil, h.fail(c, err, h.resource.Noun.Failure("crear"))
	}

	middleware.GetLogger(c).Info().
		Str("resource", h.resource.Name).
		Any("id", id).
		Msg("record created")

	return &model.MutationResponse{Message: h.resource.Noun.Created(), ID: id}, nil
}

func (h *ResourceHandler[T]) Update(c echo.Context, req *model.PayloadRequest) (*model.MutationResponse, error) {
	if err := h.service.Update(c.Request().Context(), req.ID, req.Payload); err != nil {
		return nil, h.fail(c, err, h.resource.Noun.Failure("actualizar"))
	}
	return &model.MutationResponse{Message: h.resource.Noun.Updated()}, nil
}

func (h *ResourceHandler[T]) Delete(c echo.Context, req *model.IDRequest) (*model.MutationResponse, error) {
	if err := h.service.Delete(c.Request().Context(), req.ID); err != nil {
		return nil, h.fail(c, err, h.resource.Noun.Failure("eliminar"))
	}
	return &model.MutationResponse{Message: h.resource.Noun.Deleted()}, nil
}

// fail converts a service error into the response error. Domain errors
// pass through. Store errors are logged and classified by sqlerr; a generic
// 500 gets the operation's message.
func (h *ResourceHandler[T]) fail(c echo.Context, err error, message string) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	middleware.GetLogger(c).Error().
		Err(err).
		Str("resource", h.resource.Name).
		Str("sql_error", string(sqlerr.ErrCode(err))).
		Msg(message)

	converted := sqlerr.HandleError(err)
	if errors.As(converted, &httpErr) && httpErr.Status == http.StatusInternalServerError {
		httpErr = httpErr.WithMessage(message)
		httpErr.Override = true
		return httpErr
	}
	return converted
}
