package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/inventario/internal/model"
	"github.com/deppfellow/inventario/internal/server"
)

// TracingMiddleware owns the New Relic Echo middleware. Both layers are
// no-ops when nrApp is nil.
type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application

	// resources maps every route segment, aliases included, to the
	// resource name, so /laptop and /portatil trace as "portatil".
	resources map[string]string
}

func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	resources := make(map[string]string)
	for _, r := range model.Resources {
		for _, route := range r.Routes() {
			resources[route] = r.Name
		}
	}

	return &TracingMiddleware{
		server:    s,
		nrApp:     nrApp,
		resources: resources,
	}
}

// resourceOf returns the resource name for a request path, or "".
func (tm *TracingMiddleware) resourceOf(path string) string {
	segment, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return tm.resources[segment]
}

// NewRelicMiddleware starts a transaction per request and stores it in the
// request context, which newrelic.FromContext reads later.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing adds request attributes to the transaction and notices
// returned errors. It must run after NewRelicMiddleware.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			txn.AddAttribute("http.real_ip", c.RealIP())
			txn.AddAttribute("http.user_agent", c.Request().UserAgent())

			if requestID := GetRequestID(c); requestID != "" {
				txn.AddAttribute("request.id", requestID)
			}
			if userID := GetUserID(c); userID != "" {
				txn.AddAttribute("user.id", userID)
			}
			if resource := tm.resourceOf(c.Request().URL.Path); resource != "" {
				txn.AddAttribute("inventory.resource", resource)
			}

			err := next(c)
			if err != nil {
				// The error still goes on to the global error handler.
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}

			txn.AddAttribute("http.status_code", c.Response().Status)

			return err
		}
	}
}
