// internal/common/validation/fields.go
package validation

import (
	"errors"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

// FieldErrors flattens an ozzo-validation error into field -> message.
// Non-field errors are reported under "(root)". A nil error yields nil.
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	var fieldErrs ozzo.Errors
	if errors.As(err, &fieldErrs) {
		out := make(map[string]string, len(fieldErrs))
		for field, e := range fieldErrs {
			if e != nil {
				out[field] = e.Error()
			}
		}
		return out
	}
	return map[string]string{"(root)": err.Error()}
}
