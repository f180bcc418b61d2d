// Package validation contains the logic for validating
// request data.
//
// It checks required payload keys for the mutating CRUD routes,
// uses the `validator` library to enforce struct tag rules on typed
// requests (path parameters), and extracts validation errors into a
// format the client can understand
package validation

import "github.com/spf13/cast"

// Payload is a decoded request body keyed by column name.
type Payload map[string]any

// MissingFields returns every key in required that is absent from payload,
// null, or the empty string. Order follows required. A nil result means the
// payload passes.
//
// 0 and false are present values.
func MissingFields(required []string, payload Payload) []string {
	var missing []string
	for _, field := range required {
		if isMissing(payload, field) {
			missing = append(missing, field)
		}
	}
	return missing
}

func isMissing(payload Payload, field string) bool {
	value, ok := payload[field]
	if !ok || value == nil {
		return true
	}
	if s, isString := value.(string); isString && s == "" {
		return true
	}
	return false
}

// InvalidFields returns every key in columns whose payload value cannot be
// stored as text, such as a JSON object or array. Absent and null values
// pass; MissingFields decides whether those are allowed.
func InvalidFields(columns []string, payload Payload) []string {
	var invalid []string
	for _, column := range columns {
		value := payload[column]
		if value == nil {
			continue
		}
		if _, err := cast.ToStringE(value); err != nil {
			invalid = append(invalid, column)
		}
	}
	return invalid
}

// Normalize flattens form-encoded values so a single-valued field is a
// plain string, the same shape a JSON body would produce.
func (p Payload) Normalize() Payload {
	for key, value := range p {
		if values, ok := value.([]string); ok {
			switch len(values) {
			case 0:
				p[key] = nil
			case 1:
				p[key] = values[0]
			}
		}
	}
	return p
}
