package dsl

import (
	"context"

	gokata "github.com/reoring/gokata"
	"github.com/reoring/gokata/i18n"
	js "github.com/reoring/gokata/jsonschema"
)

// Refine derives a validation-only schema: fn runs after the inner schema has
// accepted and never changes the value. A plain error from fn surfaces as
// refinement_failed carrying the refinement name; structured Issues pass
// through unchanged.
func Refine[T any](s gokata.Schema[T], name string, fn func(context.Context, T) error) gokata.Schema[T] {
	return refineSchema[T]{inner: s, name: name, fn: fn}
}

type refineSchema[T any] struct {
	inner gokata.Schema[T]
	name  string
	fn    func(context.Context, T) error
}

func (r refineSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	var zero T
	t, err := r.inner.Parse(ctx, v)
	if err != nil {
		return zero, err
	}
	if err := r.check(ctx, t); err != nil {
		return zero, err
	}
	return t, nil
}

// Validate delegates to the inner schema. Refinements operate on parsed
// values, so structural probing does not run them.
func (r refineSchema[T]) Validate(ctx context.Context, v any) error {
	return r.inner.Validate(ctx, v)
}

func (r refineSchema[T]) ValidateValue(ctx context.Context, v T) error {
	if err := r.inner.ValidateValue(ctx, v); err != nil {
		return err
	}
	return r.check(ctx, v)
}

func (r refineSchema[T]) JSONSchema() (*js.Schema, error) { return r.inner.JSONSchema() }

func (r refineSchema[T]) check(ctx context.Context, t T) error {
	if r.fn == nil {
		return nil
	}
	err := r.fn(ctx, t)
	if err == nil {
		return nil
	}
	if iss, ok := gokata.AsIssues(err); ok {
		return iss
	}
	return gokata.Issues{gokata.Issue{
		Path:    "/",
		Code:    gokata.CodeRefinementFailed,
		Message: i18n.T(gokata.CodeRefinementFailed, nil),
		Hint:    err.Error(),
		Cause:   err,
		Params:  map[string]any{"refine": r.name},
	}}
}

// RefineOf is the AnyAdapter form of Refine for object fields.
func RefineOf[T any](s gokata.Schema[T], name string, fn func(context.Context, T) error) AnyAdapter {
	return anyAdapterFromSchema[T](Refine(s, name, fn))
}
