package dsl

import (
	"context"

	gokata "github.com/reoring/gokata"
	"github.com/reoring/gokata/i18n"
	js "github.com/reoring/gokata/jsonschema"
)

// Transform derives a Schema[B] from a Schema[A] and a mapping function. The
// inner schema parses first; fn then maps the accepted value. An error from fn
// surfaces as transform_error wrapping the cause, unless fn already returned
// structured Issues. Transforms compose by nesting and evaluate innermost
// first: Transform(Transform(s, t1), t2) computes t2(t1(v)).
func Transform[A, B any](s gokata.Schema[A], fn func(context.Context, A) (B, error)) gokata.Schema[B] {
	return transformSchema[A, B]{inner: s, fn: fn}
}

type transformSchema[A, B any] struct {
	inner gokata.Schema[A]
	fn    func(context.Context, A) (B, error)
}

func (t transformSchema[A, B]) Parse(ctx context.Context, v any) (B, error) {
	var zero B
	a, err := t.inner.Parse(ctx, v)
	if err != nil {
		return zero, err
	}
	b, err := t.fn(ctx, a)
	if err != nil {
		return zero, transformIssues(err)
	}
	return b, nil
}

// Validate delegates to the inner schema. The mapping never runs, which keeps
// Validate free of side effects for union probing.
func (t transformSchema[A, B]) Validate(ctx context.Context, v any) error {
	return t.inner.Validate(ctx, v)
}

// ValidateValue cannot consult the inner schema because the mapping already
// changed the type; transformed outputs are accepted as-is.
func (t transformSchema[A, B]) ValidateValue(ctx context.Context, v B) error { return nil }

// JSONSchema describes the wire shape, which is the inner schema's.
func (t transformSchema[A, B]) JSONSchema() (*js.Schema, error) { return t.inner.JSONSchema() }

// transformIssues wraps a mapping failure, passing structured Issues through.
func transformIssues(err error) gokata.Issues {
	if iss, ok := gokata.AsIssues(err); ok {
		return iss
	}
	return gokata.Issues{gokata.Issue{
		Path:    "/",
		Code:    gokata.CodeTransformError,
		Message: i18n.T(gokata.CodeTransformError, nil),
		Hint:    err.Error(),
		Cause:   err,
	}}
}

// TransformOf is the AnyAdapter form of Transform for object fields.
func TransformOf[A, B any](s gokata.Schema[A], fn func(context.Context, A) (B, error)) AnyAdapter {
	return anyAdapterFromSchema[B](Transform(s, fn))
}
