package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/inventario/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handled(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(HandleError(err), &httpErr))
	return httpErr
}

func TestHandleError_UniqueViolationIsConflict(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "portatil",
		ConstraintName: "portatil_pkey",
	})

	httpErr := handled(t, err)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, "PORTATIL_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "El portátil ya se encuentra registrado", httpErr.Message)
}

func TestHandleError_UniqueViolationNamesColumn(t *testing.T) {
	httpErr := handled(t, &pgconn.PgError{
		Code:           "23505",
		TableName:      "portatil",
		ConstraintName: "portatil_serie_key",
	})

	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, "Ya existe un portátil con el mismo Serie", httpErr.Message)
}

func TestHandleError_InvalidInputIsBadRequest(t *testing.T) {
	for _, code := range []string{"22P02", "22007", "22008", "22003"} {
		httpErr := handled(t, &pgconn.PgError{Code: code, TableName: "reportes"})
		assert.Equal(t, http.StatusBadRequest, httpErr.Status, code)
		assert.Equal(t, "REPORTE_INVALID", httpErr.Code, code)
	}
}

func TestHandleError_UnknownTableIsGenericRecord(t *testing.T) {
	httpErr := handled(t, &pgconn.PgError{Code: "23503", TableName: "prestamos"})

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "PRESTAMO_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "El registro referenciado por un registro no existe", httpErr.Message)
}

func TestHandleError_NotNullViolationCarriesField(t *testing.T) {
	httpErr := handled(t, &pgconn.PgError{Code: "23502", TableName: "ficha", ColumnName: "jornada"})

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "jornada", httpErr.Errors[0].Field)
}

func TestHandleError_UnknownPgErrorIsInternal(t *testing.T) {
	httpErr := handled(t, &pgconn.PgError{Code: "53300"})
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestHandleError_NoRowsIsNotFound(t *testing.T) {
	httpErr := handled(t, fmt.Errorf("get: %w", pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestHandleError_KeepsHTTPError(t *testing.T) {
	original := errs.NewConflictError("ya existe", false, nil)
	assert.Same(t, original, HandleError(original))
}

func TestHandleError_ConnectionFailureIsInternal(t *testing.T) {
	httpErr := handled(t, errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestErrCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, ErrCode(&pgconn.PgError{Code: "23505"}))
	assert.Equal(t, ForeignKeyViolation, ErrCode(ConvertPgError(&pgconn.PgError{Code: "23503"})))
	assert.Equal(t, Other, ErrCode(errors.New("boom")))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "serie", extractColumnForUniqueViolation("unique_portatil_serie"))
	assert.Equal(t, "nombre", extractColumnForUniqueViolation("ambiente_nombre_key"))
	assert.Equal(t, "", extractColumnForUniqueViolation("portatil_pkey"))
	assert.Equal(t, "", extractColumnForUniqueViolation(""))
}
