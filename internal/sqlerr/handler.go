package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/inventario/internal/errs"
	"github.com/deppfellow/inventario/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// uniqueKeyPattern matches "<table>_<column>_key" and "<table>_<column>_ukey".
var uniqueKeyPattern = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// ErrCode reports the mapped sqlerr.Code for a given error.
//
// Behavior:
//   - If err can be unwrapped into *sqlerr.Error, return its Code.
//   - If err can be unwrapped into *pgconn.PgError, map its SQLSTATE.
//   - Otherwise return sqlerr.Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return MapCode(pgerr.Code)
	}
	return Other
}

// ConvertPgError converts a pgconn.PgError (raw Postgres error) into our custom sqlerr.Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// subject is the record a database error is about. Inventory tables
// resolve to their resource so messages and codes match the ones the
// service layer produces; unknown tables get a generic "registro".
type subject struct {
	noun   model.Noun
	prefix string
}

func subjectOf(table string) subject {
	if r, ok := model.ResourceByTable(table); ok {
		return subject{noun: r.Noun, prefix: r.ErrorCode("")}
	}

	prefix := "RECORD_"
	if table != "" {
		prefix = strings.ToUpper(strings.TrimSuffix(table, "s")) + "_"
	}
	return subject{noun: model.Noun{Singular: "registro"}, prefix: prefix}
}

// code returns "<PREFIX>_<ACTION>", e.g. PORTATIL_ALREADY_EXISTS.
func (s subject) code(errType Code) string {
	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation, InvalidInput:
		action = "INVALID"
	case ValueTooLong:
		action = "TOO_LONG"
	}
	return s.prefix + action
}

// message produces the client-facing text for sqlErr.
func (s subject) message(sqlErr *Error) string {
	field := humanizeText(sqlErr.ColumnName)

	switch sqlErr.Code {
	case UniqueViolation:
		// Primary key: the same text as the pre-insert existence check.
		column := extractColumnForUniqueViolation(sqlErr.ConstraintName)
		if column == "" {
			return s.noun.AlreadyExists()
		}
		return fmt.Sprintf("Ya existe %s con el mismo %s", s.noun.Indefinite(), humanizeText(column))

	case ForeignKeyViolation:
		return fmt.Sprintf("El registro referenciado por %s no existe", s.noun.Indefinite())

	case NotNullViolation:
		if field == "" {
			field = "campo"
		}
		return fmt.Sprintf("El campo %s es obligatorio", field)

	case CheckViolation:
		if field != "" {
			return fmt.Sprintf("El valor de %s no cumple las condiciones requeridas", field)
		}
		return "Uno o más valores no cumplen las condiciones requeridas"

	case InvalidInput:
		return "Uno o más valores tienen un formato inválido"

	case ValueTooLong:
		return "Uno o más valores exceden la longitud permitida"
	}
	return "Ocurrió un error al procesar la solicitud"
}

// humanizeText converts snake_case into Title Case.
//
//	"num_serie" -> "Num Serie"
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.Spanish).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation tries to infer the column name from a unique constraint name.
//
// It supports two conventions:
//
//  1. "unique_<table>_<column>"
//  2. "<table>_<column>_(key|ukey)"
//
// Primary key constraints ("<table>_pkey") yield "".
func extractColumnForUniqueViolation(constraintName string) string {
	if strings.HasPrefix(constraintName, "unique_") {
		if parts := strings.Split(constraintName, "_"); len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if matches := uniqueKeyPattern.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// HandleError converts a low-level database error into an application-level error.
//
// Output:
//   - If already *errs.HTTPError: returned unchanged
//   - If pgconn.PgError: unique violation -> 409, other constraint and
//     malformed-input errors -> 400, anything else -> 500
//   - If ErrNoRows: mapped to errs.NewNotFoundError
//   - Otherwise: errs.NewInternalServerError
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return fromSQLError(ConvertPgError(pgerr))
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Recurso no encontrado", false, nil)
	}
	return errs.NewInternalServerError()
}

func fromSQLError(sqlErr *Error) *errs.HTTPError {
	s := subjectOf(sqlErr.TableName)
	code := s.code(sqlErr.Code)
	message := s.message(sqlErr)

	switch sqlErr.Code {
	case UniqueViolation:
		// Two concurrent creates can both pass the existence check; the
		// primary key turns the loser into the same 409 as the check would.
		return errs.NewConflictError(message, true, &code)

	case NotNullViolation:
		field := errs.FieldError{Field: strings.ToLower(sqlErr.ColumnName), Error: "es obligatorio"}
		return errs.NewBadRequestError(message, true, &code, []errs.FieldError{field})

	case ForeignKeyViolation, CheckViolation, InvalidInput, ValueTooLong:
		return errs.NewBadRequestError(message, true, &code, nil)
	}
	return errs.NewInternalServerError()
}
