package model

import (
	"github.com/deppfellow/inventario/internal/validation"
	"github.com/labstack/echo/v4"
)

// ListRequest carries no input.
type ListRequest struct{}

func (r *ListRequest) Validate() error {
	return nil
}

// IDRequest addresses a single record through the :id path parameter.
type IDRequest struct {
	ID string `param:"id" validate:"required"`
}

func (r *IDRequest) Validate() error {
	return validation.Struct(r)
}

// PayloadRequest is a create or update request. The body is kept as a
// Payload so required-field checks can tell absent, null and empty apart
// from zero values.
type PayloadRequest struct {
	ID      string
	Payload validation.Payload
}

func (r *PayloadRequest) BindRequest(c echo.Context) error {
	r.ID = c.Param("id")

	payload, err := validation.BindBody(c)
	if err != nil {
		return err
	}
	r.Payload = payload
	return nil
}

// Required-field checks belong to the resource policy and run in the
// service, before any store access.
func (r *PayloadRequest) Validate() error {
	return nil
}

// MutationResponse confirms a create, update or delete.
type MutationResponse struct {
	Message string `json:"mensaje"`
	ID      any    `json:"id,omitempty"`
}
