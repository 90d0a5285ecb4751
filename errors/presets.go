package errors

import "google.golang.org/grpc/codes"

const (
	ReasonInvalidArgument = "invalid_argument"
	ReasonValidation      = "validation_failed"
	ReasonUnavailable     = "unavailable"
)

func InvalidArgument() ErrorResponse {
	return New("Invalid argument", codes.InvalidArgument, nil).WithReason(ReasonInvalidArgument)
}

// Validation is InvalidArgument carrying one violation per rejected field.
func Validation(v ...FieldViolation) ErrorResponse {
	return New("Validation failed", codes.InvalidArgument, nil).
		WithReason(ReasonValidation).
		WithViolations(v...)
}

// Unavailable reports a dependency that could not be reached, e.g. the
// country catalog.
func Unavailable(message string) ErrorResponse {
	if message == "" {
		message = "Service unavailable"
	}
	return New(message, codes.Unavailable, nil).WithReason(ReasonUnavailable)
}
