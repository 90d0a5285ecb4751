package errors

import (
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// reasons of field violations travel in ErrorInfo metadata under this prefix;
// BadRequest only carries field and description.
const violationKeyPrefix = "violation."

// GRPCStatus lets status.FromError and status.Code read an ErrorResponse
// directly, so a config error can be returned from a gRPC handler as is.
func (e ErrorResponse) GRPCStatus() *status.Status {
	st := status.New(e.Code, e.Message)

	metadata := cloneDetails(e.Details)
	for _, v := range e.Violations {
		if v.Field == "" || v.Reason == "" {
			continue
		}
		if metadata == nil {
			metadata = map[string]string{}
		}
		metadata[violationKeyPrefix+v.Field] = v.Reason
	}

	if e.Reason != "" || e.Domain != "" || len(metadata) > 0 {
		info := &errdetails.ErrorInfo{Reason: string(e.Reason), Domain: e.Domain, Metadata: metadata}
		if withInfo, err := st.WithDetails(info); err == nil {
			st = withInfo
		}
	}

	if e.Code == codes.InvalidArgument && len(e.Violations) > 0 {
		br := &errdetails.BadRequest{}
		for _, v := range e.Violations {
			desc := v.Description
			if desc == "" {
				desc = v.Reason
			}
			br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       v.Field,
				Description: desc,
			})
		}
		if withBR, err := st.WithDetails(br); err == nil {
			st = withBR
		}
	}

	return st
}

// FromGRPC rebuilds an ErrorResponse from a gRPC status error. ok is false
// when err carries no status.
func FromGRPC(err error) (ErrorResponse, bool) {
	st, ok := status.FromError(err)
	if !ok || st == nil {
		return ErrorResponse{}, false
	}

	out := New(st.Message(), st.Code(), nil)
	reasons := map[string]string{}

	for _, d := range st.Details() {
		switch x := d.(type) {
		case *errdetails.ErrorInfo:
			out.Reason = Reason(x.GetReason())
			out.Domain = x.GetDomain()
			details := map[string]string{}
			for k, v := range x.GetMetadata() {
				if field, isViolation := strings.CutPrefix(k, violationKeyPrefix); isViolation {
					reasons[field] = v
					continue
				}
				details[k] = v
			}
			out = out.WithDetails(details)
		case *errdetails.BadRequest:
			for _, fv := range x.GetFieldViolations() {
				out.Violations = append(out.Violations, FieldViolation{
					Field:       fv.GetField(),
					Description: fv.GetDescription(),
				})
			}
		}
	}

	for i := range out.Violations {
		out.Violations[i].Reason = reasons[out.Violations[i].Field]
	}
	return out, true
}
