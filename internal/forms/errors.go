package forms

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FieldError is a single validation failure attached to a form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the ordered list of validation failures of one submission.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether any failure names the field.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// collect flattens per-field rule results into Errors following the given
// field order.
func collect(results validation.Errors, order ...string) Errors {
	var errs Errors
	for _, field := range order {
		err := results[field]
		if err == nil {
			continue
		}
		errs = append(errs, FieldError{Field: field, Message: err.Error()})
	}
	return errs
}
