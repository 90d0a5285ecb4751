package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestGRPCStatus_RoundTrip(t *testing.T) {
	in := Validation(
		FieldViolation{Field: "MinDigits", Reason: "too_small_or_equal", Description: "MinDigits validation failed (gte)"},
		FieldViolation{Field: "FirstDigits", Reason: "only_numbers_allowed"},
	).WithDomain("contactform").WithDetails(map[string]string{"form_id": "f-1"})

	wrapped := fmt.Errorf("new form: %w", in)
	assert.Equal(t, codes.InvalidArgument, status.Code(wrapped))

	out, ok := FromGRPC(in.GRPCStatus().Err())
	require.True(t, ok)
	assert.Equal(t, codes.InvalidArgument, out.Code)
	assert.Equal(t, "contactform", out.Domain)
	assert.Equal(t, map[string]string{"form_id": "f-1"}, out.Details)
	require.Len(t, out.Violations, 2)
	assert.Equal(t, FieldViolation{Field: "MinDigits", Reason: "too_small_or_equal", Description: "MinDigits validation failed (gte)"}, out.Violations[0])
	assert.Equal(t, FieldViolation{Field: "FirstDigits", Reason: "only_numbers_allowed", Description: "only_numbers_allowed"}, out.Violations[1])
}

func TestGRPCStatus_DetailsOnlyWhenNeeded(t *testing.T) {
	st := New("plain", codes.Unavailable, nil).GRPCStatus()
	assert.Equal(t, codes.Unavailable, st.Code())
	assert.Empty(t, st.Details())

	st = Unavailable("").GRPCStatus()
	assert.Len(t, st.Details(), 1, "reason only, no BadRequest")
}

func TestFromGRPC_PlainError(t *testing.T) {
	_, ok := FromGRPC(stdErrors.New("boom"))
	assert.False(t, ok)
}
