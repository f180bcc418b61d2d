package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveRequestID(t *testing.T, incoming string) (string, string) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if incoming != "" {
		req.Header.Set(RequestIDHeader, incoming)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	err := RequestID()(func(c echo.Context) error {
		seen = GetRequestID(c)
		return nil
	})(c)
	require.NoError(t, err)

	return seen, rec.Header().Get(RequestIDHeader)
}

func TestRequestID_ReusesIncoming(t *testing.T) {
	seen, echoed := serveRequestID(t, "abc-123")
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", echoed)
}

func TestRequestID_GeneratesWhenMissingOrUnusable(t *testing.T) {
	for _, incoming := range []string{"", strings.Repeat("x", maxRequestIDLength+1), "bad id", "id\nforged"} {
		seen, echoed := serveRequestID(t, incoming)
		assert.Len(t, seen, 36, incoming)
		assert.NotEqual(t, incoming, seen)
		assert.Equal(t, seen, echoed)
	}
}

func TestTracing_ResourceOfResolvesAliases(t *testing.T) {
	tm := NewTracingMiddleware(nil, nil)

	assert.Equal(t, "portatil", tm.resourceOf("/laptop/L1/asignacion"))
	assert.Equal(t, "portatil", tm.resourceOf("/portatil"))
	assert.Equal(t, "ficha", tm.resourceOf("/sheet/2558104"))
	assert.Equal(t, "reportes", tm.resourceOf("/report"))
	assert.Equal(t, "", tm.resourceOf("/status"))
	assert.Equal(t, "", tm.resourceOf("/"))
}

func TestGetLogger_WithoutEnhancerIsNop(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	logger := GetLogger(c)
	require.NotNil(t, logger)
	assert.Equal(t, "", GetUserID(c))
}
