package dsl

import (
	"context"

	gokata "github.com/reoring/gokata"
	"github.com/reoring/gokata/codec"
	js "github.com/reoring/gokata/jsonschema"
)

// IdentitySchema exposes Decode/Encode methods on top of Schema[T].
// This is a thin view that delegates to codec.Identity(inner).
type IdentitySchema[T any] interface {
	gokata.Schema[T]
	Decode(ctx context.Context, v T) (T, error)
	Encode(ctx context.Context, v T) (T, error)
}

// WithIdentity wraps a Schema[T] and provides Decode/Encode sugar.
func WithIdentity[T any](s gokata.Schema[T]) IdentitySchema[T] {
	return identitySchemaView[T]{inner: s}
}

type identitySchemaView[T any] struct{ inner gokata.Schema[T] }

func (w identitySchemaView[T]) Parse(ctx context.Context, v any) (T, error) {
	return w.inner.Parse(ctx, v)
}

func (w identitySchemaView[T]) Validate(ctx context.Context, v any) error {
	return w.inner.Validate(ctx, v)
}

func (w identitySchemaView[T]) ValidateValue(ctx context.Context, v T) error {
	return w.inner.ValidateValue(ctx, v)
}

func (w identitySchemaView[T]) JSONSchema() (*js.Schema, error) { return w.inner.JSONSchema() }

func (w identitySchemaView[T]) Decode(ctx context.Context, v T) (T, error) {
	return codec.Identity(w.inner).Decode(ctx, v)
}

func (w identitySchemaView[T]) Encode(ctx context.Context, v T) (T, error) {
	return codec.Identity(w.inner).Encode(ctx, v)
}
