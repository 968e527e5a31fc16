// Package middleware adapts record validation to HTTP JSON boundaries. The
// echo and gin submodules wrap the same helpers for those frameworks.
package middleware

import (
	"context"
	"net/http"

	recskema "github.com/reoring/recskema"
	g "github.com/reoring/recskema/dsl"
)

type ctxKeyInstance struct{}

// ContextWithInstance attaches a validated instance to the context.
func ContextWithInstance(ctx context.Context, inst *g.Instance) context.Context {
	return context.WithValue(ctx, ctxKeyInstance{}, inst)
}

// InstanceFromContext retrieves the instance stored by ContextWithInstance.
func InstanceFromContext(ctx context.Context) (*g.Instance, bool) {
	v, ok := ctx.Value(ctxKeyInstance{}).(*g.Instance)
	return v, ok
}

// DefaultParseOpt returns the options used at HTTP boundaries: every issue
// is collected so clients can fix the whole payload at once.
func DefaultParseOpt() recskema.ParseOpt {
	return recskema.ParseOpt{FailFast: false}
}

// Decode reads one JSON object from r and validates it with s.
func Decode(ctx context.Context, s *g.Schema, r *http.Request, opt recskema.ParseOpt) (*g.Instance, error) {
	raw, err := recskema.DecodeObject(r.Body)
	if err != nil {
		return nil, err
	}
	return s.Validate(ctx, raw, opt)
}

// StatusCode maps a report to its HTTP status.
func StatusCode(rep recskema.Report) int {
	switch rep.Status {
	case recskema.StatusOK:
		return http.StatusOK
	case recskema.StatusInvalid:
		return http.StatusUnprocessableEntity
	case recskema.StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// ErrorPayload renders err as a Report and its status code.
func ErrorPayload(err error) (int, recskema.Report) {
	rep := recskema.NewReport(err)
	return StatusCode(rep), rep
}
