package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/deppfellow/inventario/internal/config"
	"github.com/deppfellow/inventario/internal/handler"
	"github.com/deppfellow/inventario/internal/model"
	"github.com/deppfellow/inventario/internal/repository"
	"github.com/deppfellow/inventario/internal/repository/repotest"
	"github.com/deppfellow/inventario/internal/server"
	"github.com/deppfellow/inventario/internal/service"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stores struct {
	ambientes  *repotest.MemoryStore[model.Ambiente]
	fichas     *repotest.MemoryStore[model.Ficha]
	portatiles *repotest.MemoryStore[model.Portatil]
	reportes   *repotest.MemoryStore[model.Reporte]
}

func testServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "development"},
			Server: config.ServerConfig{
				Port:               "3000",
				CORSAllowedOrigins: []string{"*"},
			},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
}

func newTestRouter(t *testing.T, s *server.Server) (*echo.Echo, *stores) {
	t.Helper()

	st := &stores{
		ambientes:  repotest.NewMemoryStore[model.Ambiente](model.AmbienteResource),
		fichas:     repotest.NewMemoryStore[model.Ficha](model.FichaResource),
		portatiles: repotest.NewMemoryStore[model.Portatil](model.PortatilResource),
		reportes:   repotest.NewMemoryStore[model.Reporte](model.ReporteResource),
	}

	services := &service.Services{
		Ambientes:  service.NewCRUD[model.Ambiente](st.ambientes, model.AmbienteResource),
		Fichas:     service.NewCRUD[model.Ficha](st.fichas, model.FichaResource),
		Portatiles: service.NewCRUD[model.Portatil](st.portatiles, model.PortatilResource),
		Reportes:   service.NewCRUD[model.Reporte](st.reportes, model.ReporteResource),
	}

	return NewRouter(s, handler.NewHandlers(s, services)), st
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

const laptopBody = `{"id_portatil":"L1","marca":"Dell","tipo":"laptop","modelo":"X1","estado":"activo","num_serie":"SN1","ubicacion":"Lab1","descripcion":"test"}`

func TestLaptop_CreateThenDuplicate(t *testing.T) {
	r, st := newTestRouter(t, testServer())

	rec, body := doJSON(t, r, http.MethodPost, "/laptop", laptopBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Portátil creado correctamente", body["mensaje"])
	assert.Equal(t, "L1", body["id"])

	rec, body = doJSON(t, r, http.MethodPost, "/laptop", laptopBody)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "El portátil ya se encuentra registrado", body["mensaje"])
	assert.Equal(t, "PORTATIL_ALREADY_EXISTS", body["codigo"])
	assert.EqualValues(t, http.StatusConflict, body["status"])

	assert.Equal(t, 1, st.portatiles.Len())
}

func TestLaptop_UpdateMissingField(t *testing.T) {
	r, _ := newTestRouter(t, testServer())

	rec, _ := doJSON(t, r, http.MethodPost, "/portatil", laptopBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, r, http.MethodPut, "/laptop/L1",
		`{"tipo":"laptop","modelo":"X1","estado":"activo","num_serie":"SN1","ubicacion":"Lab1","descripcion":"test"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"marca"}, body["camposFaltantes"])
	assert.Equal(t, "MISSING_FIELDS", body["codigo"])
}

func TestLaptop_CreateReportsEveryMissingField(t *testing.T) {
	r, st := newTestRouter(t, testServer())

	rec, body := doJSON(t, r, http.MethodPost, "/portatil", `{"id_portatil":"L1","marca":"","modelo":null}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"marca", "tipo", "modelo", "estado", "num_serie"}, body["camposFaltantes"])
	assert.Zero(t, st.portatiles.Len())
}

func TestLaptop_ObjectValueIsBadRequest(t *testing.T) {
	r, st := newTestRouter(t, testServer())

	rec, body := doJSON(t, r, http.MethodPost, "/portatil",
		`{"id_portatil":"L1","marca":{"x":1},"tipo":"laptop","modelo":"X1","estado":"activo","num_serie":"SN1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_FIELDS", body["codigo"])
	assert.Equal(t, "Existen campos con un formato inválido", body["mensaje"])
	assert.Equal(t, []any{map[string]any{"campo": "marca", "error": "debe ser un texto o un número"}}, body["errores"])
	assert.Zero(t, st.portatiles.Calls["Insert"])

	rec, _ = doJSON(t, r, http.MethodPost, "/portatil", laptopBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body = doJSON(t, r, http.MethodPut, "/portatil/L1",
		`{"marca":"Dell","tipo":["a"],"modelo":"X1","estado":"activo","num_serie":"SN1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_FIELDS", body["codigo"])
}

func TestLaptop_DeleteUnknown(t *testing.T) {
	r, _ := newTestRouter(t, testServer())

	rec, body := doJSON(t, r, http.MethodDelete, "/laptop/UNKNOWN", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Portátil no encontrado", body["mensaje"])
}

func TestLaptop_ReadUpdateDelete(t *testing.T) {
	r, _ := newTestRouter(t, testServer())

	rec, _ := doJSON(t, r, http.MethodPost, "/portatil", laptopBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, r, http.MethodGet, "/portatil/L1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dell", body["marca"])
	assert.Nil(t, body["ambiente"])

	rec, body = doJSON(t, r, http.MethodPut, "/portatil/L1/",
		`{"marca":"Lenovo","tipo":"laptop","modelo":"T14","estado":"activo","num_serie":"SN1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Portátil actualizado correctamente", body["mensaje"])

	req := httptest.NewRequest(http.MethodGet, "/laptop/", nil)
	listRec := httptest.NewRecorder()
	r.ServeHTTP(listRec, req)
	require.Equal(t, http.StatusOK, listRec.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Lenovo", list[0]["marca"])
	assert.Nil(t, list[0]["ubicacion"])

	rec, body = doJSON(t, r, http.MethodDelete, "/portatil/L1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Portátil eliminado correctamente", body["mensaje"])

	rec, _ = doJSON(t, r, http.MethodGet, "/portatil/L1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLaptop_Assignment(t *testing.T) {
	r, _ := newTestRouter(t, testServer())

	rec, _ := doJSON(t, r, http.MethodPost, "/portatil", laptopBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, r, http.MethodPut, "/portatil/L1/asignacion", `{"estado":"asignado"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"ambiente"}, body["camposFaltantes"])

	rec, body = doJSON(t, r, http.MethodPut, "/laptop/L1/asignacion", `{"estado":"asignado","ambiente":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Portátil asignado correctamente", body["mensaje"])

	_, body = doJSON(t, r, http.MethodGet, "/portatil/L1", "")
	assert.Equal(t, "asignado", body["estado"])
	assert.EqualValues(t, 2, body["ambiente"])
	assert.Equal(t, "Dell", body["marca"])
}

func TestEnvironment_FormCreateReturnsGeneratedID(t *testing.T) {
	r, _ := newTestRouter(t, testServer())

	form := url.Values{"nombre": {"Sala 204"}, "direccion": {"Bloque B"}}
	req := httptest.NewRequest(http.MethodPost, "/ambiente", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Ambiente creado correctamente", body["mensaje"])
	assert.EqualValues(t, 1, body["id"])

	rec, got := doJSON(t, r, http.MethodGet, "/environment/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sala 204", got["nombre"])
}

func TestEnvironment_MalformedIdentifierIsNotFound(t *testing.T) {
	r, st := newTestRouter(t, testServer())

	rec, _ := doJSON(t, r, http.MethodPost, "/ambiente", `{"nombre":"Sala 204","direccion":"Bloque B"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, got := doJSON(t, r, http.MethodGet, "/environment/01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sala 204", got["nombre"])

	update := `{"nombre":"Sala 205","direccion":"Bloque C"}`
	for _, id := range []string{"abc", "1.5", "99999999999"} {
		rec, body := doJSON(t, r, http.MethodGet, "/ambiente/"+id, "")
		require.Equal(t, http.StatusNotFound, rec.Code, id)
		assert.Equal(t, "Ambiente no encontrado", body["mensaje"])

		rec, _ = doJSON(t, r, http.MethodPut, "/ambiente/"+id, update)
		assert.Equal(t, http.StatusNotFound, rec.Code, id)

		rec, _ = doJSON(t, r, http.MethodDelete, "/report/"+id, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, id)
	}
	assert.Equal(t, 1, st.ambientes.Len())
}

// invalidIntegerDB answers every statement the way Postgres answers an
// integer column compared against non-numeric text.
type invalidIntegerDB struct{ calls int }

func (d *invalidIntegerDB) fail() error {
	d.calls++
	return &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation, Message: "invalid input syntax for type integer"}
}

func (d *invalidIntegerDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, d.fail()
}

func (d *invalidIntegerDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return failedRow{err: d.fail()}
}

func (d *invalidIntegerDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, d.fail()
}

type failedRow struct{ err error }

func (r failedRow) Scan(...any) error { return r.err }

func TestEnvironment_MalformedIdentifierNeverReachesDatabase(t *testing.T) {
	s := testServer()
	db := &invalidIntegerDB{}
	services := &service.Services{
		Ambientes:  service.NewCRUD[model.Ambiente](repository.NewRepository[model.Ambiente](db, model.AmbienteResource), model.AmbienteResource),
		Fichas:     service.NewCRUD[model.Ficha](repotest.NewMemoryStore[model.Ficha](model.FichaResource), model.FichaResource),
		Portatiles: service.NewCRUD[model.Portatil](repotest.NewMemoryStore[model.Portatil](model.PortatilResource), model.PortatilResource),
		Reportes:   service.NewCRUD[model.Reporte](repository.NewRepository[model.Reporte](db, model.ReporteResource), model.ReporteResource),
	}
	r := NewRouter(s, handler.NewHandlers(s, services))

	for _, id := range []string{"abc", "2147483648"} {
		rec, body := doJSON(t, r, http.MethodGet, "/ambiente/"+id, "")
		require.Equal(t, http.StatusNotFound, rec.Code, id)
		assert.Equal(t, "AMBIENTE_NOT_FOUND", body["codigo"])

		rec, _ = doJSON(t, r, http.MethodPut, "/environment/"+id, `{"nombre":"Sala","direccion":"B"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code, id)

		rec, _ = doJSON(t, r, http.MethodDelete, "/reportes/"+id, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, id)
	}
	assert.Zero(t, db.calls)
}

func TestReport_CreateAllowsRepeats(t *testing.T) {
	r, st := newTestRouter(t, testServer())

	body := `{"estado_reporte":"abierto","fecha_reporte":"2025-03-01","archivo":"r.pdf","descripcion":"pantalla rota"}`
	for i := 0; i < 2; i++ {
		rec, _ := doJSON(t, r, http.MethodPost, "/report", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	assert.Equal(t, 2, st.reportes.Len())
	assert.Zero(t, st.reportes.Calls["Exists"])
}

func TestSheet_Duplicate(t *testing.T) {
	r, _ := newTestRouter(t, testServer())

	body := `{"id_ficha":"2558104","programa":"ADSO","jornada":"mañana"}`
	rec, _ := doJSON(t, r, http.MethodPost, "/ficha", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, resp := doJSON(t, r, http.MethodPost, "/sheet", body)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "La ficha ya se encuentra registrada", resp["mensaje"])
}

func TestStoreFailureIsInternalWithOperationMessage(t *testing.T) {
	r, st := newTestRouter(t, testServer())
	st.portatiles.Err = errors.New("dial tcp 127.0.0.1:5432: connection refused")

	rec, body := doJSON(t, r, http.MethodGet, "/portatil", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error al obtener los portátiles", body["mensaje"])
	assert.NotContains(t, rec.Body.String(), "connection refused")

	rec, body = doJSON(t, r, http.MethodPost, "/portatil", laptopBody)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error al crear el portátil", body["mensaje"])
}

func TestMalformedBody(t *testing.T) {
	r, _ := newTestRouter(t, testServer())

	rec, body := doJSON(t, r, http.MethodPost, "/portatil", `{"id_portatil":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "El cuerpo de la solicitud no es válido", body["mensaje"])
}

func TestUnknownRoute(t *testing.T) {
	r, _ := newTestRouter(t, testServer())

	rec, body := doJSON(t, r, http.MethodGet, "/computadores", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Ruta no encontrada", body["mensaje"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	r, _ := newTestRouter(t, testServer())

	req := httptest.NewRequest(http.MethodGet, "/portatil", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	s := testServer()
	s.Config.Server.RateLimit = 1
	s.Config.Server.RateBurst = 1
	r, _ := newTestRouter(t, s)

	rec, _ := doJSON(t, r, http.MethodGet, "/portatil", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := doJSON(t, r, http.MethodGet, "/portatil", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", body["codigo"])
}

func TestStatus_WithoutDependencies(t *testing.T) {
	r, _ := newTestRouter(t, testServer())

	rec, body := doJSON(t, r, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "development", body["environment"])
}
