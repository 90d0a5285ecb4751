package errors

import (
	"fmt"

	play "github.com/go-playground/validator/v10"
)

// FromPlayground: адаптер go-playground/validator -> Validation.
// reason maps a validation tag to a stable code; nil or "" falls back to "invalid".
func FromPlayground(err play.ValidationErrors, reason func(tag string) string) ErrorResponse {
	violations := make([]FieldViolation, 0, len(err))
	for _, fe := range err {
		tag := fe.Tag()
		r := ""
		if reason != nil {
			r = reason(tag)
		}
		if r == "" {
			r = "invalid"
		}
		violations = append(violations, FieldViolation{
			Field:       fe.Field(),
			Reason:      r,
			Description: fmt.Sprintf("%s validation failed (%s)", fe.Field(), tag),
		})
	}
	return Validation(violations...)
}
