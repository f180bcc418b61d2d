package handler

import (
	"fmt"
	"reflect"
	"time"

	"github.com/deppfellow/inventario/internal/middleware"
	"github.com/deppfellow/inventario/internal/model"
	"github.com/deppfellow/inventario/internal/server"
	"github.com/deppfellow/inventario/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// Handler is the base handler type that holds shared application dependencies.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint: it receives a bound and validated Req
// and returns a response or an error.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// ResponseHandler writes a successful result and names the operation for
// logs and traces.
type ResponseHandler interface {
	Handle(c echo.Context, result any) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result any)
}

// JSONResponseHandler writes JSON responses with a given status code.
type JSONResponseHandler struct {
	status    int
	operation string
}

func (h JSONResponseHandler) Handle(c echo.Context, result any) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return h.operation
}

// AddAttributes records the affected record id for mutations and the
// record count for lists.
func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	if res, ok := result.(*model.MutationResponse); ok && res.ID != nil {
		txn.AddAttribute("inventory.record_id", fmt.Sprint(res.ID))
		return
	}
	if v := reflect.ValueOf(result); v.Kind() == reflect.Slice {
		txn.AddAttribute("inventory.record_count", v.Len())
	}
}

// stage reports the outcome of one pipeline step to the log and the
// New Relic transaction.
func stage(txn *newrelic.Transaction, logger *zerolog.Logger, name string, took time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failed"
		logger.Warn().
			Err(err).
			Dur(name+"_duration", took).
			Msgf("request %s failed", name)
	}

	if txn == nil {
		return
	}
	if err != nil {
		txn.NoticeError(nrpkgerrors.Wrap(err))
	}
	txn.AddAttribute(name+".status", status)
	txn.AddAttribute(name+".duration_ms", took.Milliseconds())
}

// handleRequest is the shared execution pipeline for all handlers: bind
// and validate, run the handler, report both steps, write the response.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (any, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	operation := responseHandler.GetOperation()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", c.Path())
		txn.AddAttribute("inventory.operation", operation)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", operation).
		Logger()

	validationStart := time.Now()
	err := validation.BindAndValidate(c, req)
	stage(txn, &logger, "validation", time.Since(validationStart), err)
	if err != nil {
		return err
	}

	handlerStart := time.Now()
	result, err := handler(c, req)
	stage(txn, &logger, "handler", time.Since(handlerStart), err)
	if err != nil {
		return err
	}

	if txn != nil {
		responseHandler.AddAttributes(txn, result)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle wraps a typed handler in the shared pipeline. operation names the
// endpoint in logs and traces, e.g. "portatil.create". newReq builds a
// fresh request value for every call:
//
//	g.POST("", handler.Handle(h, "portatil.create", h.Create, http.StatusCreated, newPayloadRequest))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	operation string,
	handler HandlerFunc[Req, Res],
	status int,
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq(), func(c echo.Context, req Req) (any, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status, operation: operation})
	}
}
