package dsl

import (
	"context"

	gokata "github.com/reoring/gokata"
	js "github.com/reoring/gokata/jsonschema"
)

// SchemaOf converts an arbitrary Schema[T] into an AnyAdapter for object fields.
func SchemaOf[T any](s gokata.Schema[T]) AnyAdapter { return anyAdapterFromSchema[T](s) }

// ArrayOfSchema converts a constrained ArrayBuilder[E] into an AnyAdapter.
// Example: Field("tags", ArrayOfSchema[string](Array(String()).Min(2)))
func ArrayOfSchema[E any](ab ArrayBuilder[E]) AnyAdapter { return anyAdapterFromSchema[[]E](ab) }

// Any returns a schema that accepts any decoded value unchanged.
func Any() gokata.Schema[any] { return anyPassSchema{} }

type anyPassSchema struct{}

func (anyPassSchema) Parse(ctx context.Context, v any) (any, error) { return v, nil }
func (anyPassSchema) Validate(ctx context.Context, v any) error     { return nil }
func (anyPassSchema) ValidateValue(ctx context.Context, v any) error {
	return nil
}
func (anyPassSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{}, nil }

// SchemaAsAny lifts a Schema[T] to Schema[any] so unions can mix value types:
// Union[any](SchemaAsAny(String()), SchemaAsAny(NumberJSON())).
func SchemaAsAny[T any](s gokata.Schema[T]) gokata.Schema[any] { return anySchema[T]{inner: s} }

type anySchema[T any] struct{ inner gokata.Schema[T] }

func (a anySchema[T]) Parse(ctx context.Context, v any) (any, error) {
	t, err := a.inner.Parse(ctx, v)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (a anySchema[T]) Validate(ctx context.Context, v any) error {
	return a.inner.Validate(ctx, v)
}

func (a anySchema[T]) ValidateValue(ctx context.Context, v any) error {
	t, ok := v.(T)
	if !ok {
		return typeMismatch(nil)
	}
	return a.inner.ValidateValue(ctx, t)
}

func (a anySchema[T]) JSONSchema() (*js.Schema, error) { return a.inner.JSONSchema() }
