package dsl

import (
	"context"

	gokata "github.com/reoring/gokata"
	js "github.com/reoring/gokata/jsonschema"
)

// Codec adapts a Codec[A,B] into a Schema[B] that accepts wire A and produces
// domain B. Parse runs In.Parse, Decode, then Out.ValidateValue; a Decode
// failure surfaces as transform_error. Validate (wire input) delegates to In;
// ValidateValue (domain value) delegates to Out.
func Codec[A, B any](c gokata.Codec[A, B]) gokata.Schema[B] { return codecSchema[A, B]{c: c} }

type codecSchema[A, B any] struct{ c gokata.Codec[A, B] }

func (s codecSchema[A, B]) Parse(ctx context.Context, v any) (B, error) {
	var zero B
	a, err := s.c.In().Parse(ctx, v)
	if err != nil {
		return zero, issuesFromErr("/", err)
	}
	b, err := s.c.Decode(ctx, a)
	if err != nil {
		return zero, transformIssues(err)
	}
	if err := s.c.Out().ValidateValue(ctx, b); err != nil {
		return zero, issuesFromErr("/", err)
	}
	return b, nil
}

func (s codecSchema[A, B]) Validate(ctx context.Context, v any) error {
	return s.c.In().Validate(ctx, v)
}

func (s codecSchema[A, B]) ValidateValue(ctx context.Context, v B) error {
	return s.c.Out().ValidateValue(ctx, v)
}

func (s codecSchema[A, B]) JSONSchema() (*js.Schema, error) { return s.c.Out().JSONSchema() }
