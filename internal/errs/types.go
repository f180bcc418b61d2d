// Package errs define custom error types and utilities.
//
// Its purpose is to create specific error structures..
// (e.g. FieldErrors for forms or HTTPError for API responses)..
// to ensure the client receive meaningful, actionable, and consistent..
// error messages.
//
// - Return consistent error shapes to API clients (JSON).
// - Report every missing required field in a single response.
// - Provide errors that play nicely with Go's standard errors package.
package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "campo": "fecha_reporte", "error": "formato inválido" }
type FieldError struct {
	// Field is the payload key the error relates to (e.g. "fecha_reporte").
	Field string `json:"campo"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface via Error().
// It is designed to be serialized directly to JSON.
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST", "PORTATIL_ALREADY_EXISTS").
//   - Message: human-friendly message, in Spanish.
//   - Status: HTTP status code.
//   - Override: flag to let middleware decide whether to override the message.
//   - MissingFields: required payload keys that were absent, null or empty.
//   - Errors: list of per-field errors.
type HTTPError struct {
	Code     string `json:"codigo"`
	Message  string `json:"mensaje"`
	Status   int    `json:"status"`
	Override bool   `json:"-"`

	// MissingFields is only set for required-field validation failures.
	MissingFields []string `json:"camposFaltantes,omitempty"`

	// Errors holds field-level errors that are not plain omissions.
	Errors []FieldError `json:"errores,omitempty"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is customizes how errors.Is(...) treats HTTPError.
//
// This does NOT compare Code/Status/etc.
// It only checks whether the other thing is the same *type* (*HTTPError).
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a *copy* of this HTTPError with Message replaced.
//
// Useful if you have a base error template and want to customize message
// without mutating the original.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:          e.Code,
		Message:       message,
		Status:        e.Status,
		Override:      e.Override,
		MissingFields: e.MissingFields,
		Errors:        e.Errors,
	}
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
//
// Used to create stable machine-readable error codes from HTTP status text.
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
