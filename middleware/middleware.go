// Package middleware provides framework-free helpers for wiring schema
// validation into request boundaries: a context carrier for parse results, a
// recommended ParseOpt for JSON bodies, and an Issues-to-payload shaper.
// Framework adapters can be built on top without this module depending on any
// HTTP framework.
package middleware

import (
	"context"

	gokata "github.com/reoring/gokata"
)

// ctxKeyResult is a typed context key for storing Result[T].
// Using a generic struct type ensures uniqueness per T.
type ctxKeyResult[T any] struct{}

// ContextWithResult attaches a parse Result[T] to the context.
func ContextWithResult[T any](ctx context.Context, r gokata.Result[T]) context.Context {
	return context.WithValue(ctx, ctxKeyResult[T]{}, r)
}

// ResultFromContext retrieves a Result[T] from context.
func ResultFromContext[T any](ctx context.Context) (gokata.Result[T], bool) {
	v, ok := ctx.Value(ctxKeyResult[T]{}).(gokata.Result[T])
	return v, ok
}

// DefaultParseOpt returns a recommended default for HTTP JSON boundaries.
// Duplicate keys are errors; everything else keeps the permissive zero value.
func DefaultParseOpt() gokata.ParseOpt {
	return gokata.ParseOpt{
		Strictness: gokata.Strictness{OnDuplicateKey: gokata.Error},
	}
}

// ErrorPayload shapes Issues for JSON responses. Causes are dropped: they are
// for callers, not for the wire.
func ErrorPayload(issues gokata.Issues) map[string]any {
	out := make([]map[string]any, 0, len(issues))
	for _, it := range issues {
		m := map[string]any{"path": it.Path, "code": it.Code, "message": it.Message}
		if it.Hint != "" {
			m["hint"] = it.Hint
		}
		if len(it.Params) > 0 {
			m["params"] = it.Params
		}
		out = append(out, m)
	}
	return map[string]any{"issues": out}
}
