package recskema

import (
	"context"

	"github.com/rs/zerolog"
)

// ---- Parse-time context options (internal wiring, exported for subpackages) ----

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
)

// WithFailFast returns a child context that marks fail-fast validation behavior.
// This is set from ParseOpt and consumed by schema implementations.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current validation should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}

// ApplyParseOpt folds the last of opts into ctx.
func ApplyParseOpt(ctx context.Context, opts []ParseOpt) context.Context {
	if len(opts) == 0 {
		return ctx
	}
	if opts[len(opts)-1].FailFast {
		ctx = WithFailFast(ctx, true)
	}
	return ctx
}

// WithLogger attaches l to ctx. Engine packages log through Logger(ctx).
func WithLogger(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

// Logger returns the logger carried by ctx, or a disabled logger.
func Logger(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
