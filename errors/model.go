package errors

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/grpc/codes"
)

// Reason is a stable machine-readable code.
type Reason string

type FieldViolation struct {
	Field       string `json:"field"`
	Reason      string `json:"reason,omitempty"`
	Description string `json:"description,omitempty"`
}

// ErrorResponse is the error value returned for rejected input, e.g. an
// invalid form.Config. Builder methods return modified copies.
type ErrorResponse struct {
	Code       codes.Code        `json:"-"`
	Reason     Reason            `json:"reason,omitempty"`
	Domain     string            `json:"domain,omitempty"` // например "contactform"
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Violations []FieldViolation  `json:"violations,omitempty"`
}

func New(message string, code codes.Code, details map[string]string) ErrorResponse {
	return ErrorResponse{Code: code, Message: message, Details: cloneDetails(details)}
}

func (e ErrorResponse) WithReason(r string) ErrorResponse { e.Reason = Reason(r); return e }
func (e ErrorResponse) WithDomain(d string) ErrorResponse { e.Domain = d; return e }

// WithDetails merges m over the existing details.
func (e ErrorResponse) WithDetails(m map[string]string) ErrorResponse {
	if len(m) == 0 {
		return e
	}
	merged := cloneDetails(e.Details)
	if merged == nil {
		merged = make(map[string]string, len(m))
	}
	for k, v := range m {
		merged[k] = v
	}
	e.Details = merged
	return e
}

// WithViolations appends v to the existing violations.
func (e ErrorResponse) WithViolations(v ...FieldViolation) ErrorResponse {
	if len(v) == 0 {
		return e
	}
	out := make([]FieldViolation, 0, len(e.Violations)+len(v))
	e.Violations = append(append(out, e.Violations...), v...)
	return e
}

// Violation returns the reason recorded for field, if any.
func (e ErrorResponse) Violation(field string) (string, bool) {
	for _, v := range e.Violations {
		if v.Field == field {
			return v.Reason, true
		}
	}
	return "", false
}

// Error renders "domain: message [Code]: Field=reason, ...".
func (e ErrorResponse) Error() string {
	var b strings.Builder
	if e.Domain != "" {
		b.WriteString(e.Domain)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s [%s]", e.Message, e.Code)
	for i, v := range e.Violations {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(v.Field)
		if v.Reason != "" {
			b.WriteString("=")
			b.WriteString(v.Reason)
		}
	}
	return b.String()
}

// MarshalJSON writes the code by name.
func (e ErrorResponse) MarshalJSON() ([]byte, error) {
	type plain ErrorResponse
	return json.Marshal(struct {
		Code string `json:"code"`
		plain
	}{Code: e.Code.String(), plain: plain(e)})
}

// ViolationsFromMap turns field -> reason pairs into violations sorted by
// field.
func ViolationsFromMap(m map[string]string) []FieldViolation {
	if len(m) == 0 {
		return nil
	}
	fields := make([]string, 0, len(m))
	for f := range m {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	out := make([]FieldViolation, 0, len(m))
	for _, f := range fields {
		out = append(out, FieldViolation{Field: f, Reason: m[f]})
	}
	return out
}

func cloneDetails(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
