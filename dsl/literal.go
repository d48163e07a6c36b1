package dsl

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	gokata "github.com/reoring/gokata"
	"github.com/reoring/gokata/i18n"
	js "github.com/reoring/gokata/jsonschema"
)

// Literal returns a schema that accepts exactly the given value.
// A value of the right type but the wrong content reports literal_mismatch;
// a value of a different fundamental type reports type_mismatch.
func Literal[T comparable](want T) gokata.Schema[T] { return literalSchema[T]{want: want} }

type literalSchema[T comparable] struct{ want T }

func (s literalSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	var zero T
	got, ok := coerceComparable[T](v)
	if !ok {
		return zero, typeMismatch(nil)
	}
	if got != s.want {
		return zero, gokata.Issues{{
			Path:    "/",
			Code:    gokata.CodeLiteralMismatch,
			Message: i18n.T(gokata.CodeLiteralMismatch, nil),
			Hint:    fmt.Sprintf("expected %v", s.want),
			Params:  map[string]any{"expected": s.want},
		}}
	}
	return got, nil
}

func (s literalSchema[T]) Validate(ctx context.Context, v any) error {
	_, err := s.Parse(ctx, v)
	return err
}

func (s literalSchema[T]) ValidateValue(ctx context.Context, v T) error {
	if v != s.want {
		return gokata.Issues{{
			Path:    "/",
			Code:    gokata.CodeLiteralMismatch,
			Message: i18n.T(gokata.CodeLiteralMismatch, nil),
			Hint:    fmt.Sprintf("expected %v", s.want),
			Params:  map[string]any{"expected": s.want},
		}}
	}
	return nil
}

func (s literalSchema[T]) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Const: s.want}, nil
}

// LiteralOf returns an AnyAdapter for a literal schema, for use in object fields.
func LiteralOf[T comparable](want T) AnyAdapter {
	return anyAdapterFromSchema[T](literalSchema[T]{want: want})
}

// Enum returns a schema that accepts any one of the given values.
// A value of the right type outside the set reports invalid_enum.
func Enum[T comparable](allowed ...T) gokata.Schema[T] {
	return enumSchema[T]{allowed: allowed}
}

type enumSchema[T comparable] struct{ allowed []T }

func (s enumSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	var zero T
	got, ok := coerceComparable[T](v)
	if !ok {
		return zero, typeMismatch(nil)
	}
	for _, a := range s.allowed {
		if got == a {
			return got, nil
		}
	}
	return zero, s.enumIssue()
}

func (s enumSchema[T]) Validate(ctx context.Context, v any) error {
	_, err := s.Parse(ctx, v)
	return err
}

func (s enumSchema[T]) ValidateValue(ctx context.Context, v T) error {
	for _, a := range s.allowed {
		if v == a {
			return nil
		}
	}
	return s.enumIssue()
}

func (s enumSchema[T]) enumIssue() error {
	vals := make([]any, 0, len(s.allowed))
	for _, a := range s.allowed {
		vals = append(vals, a)
	}
	return gokata.Issues{{
		Path:    "/",
		Code:    gokata.CodeInvalidEnum,
		Message: i18n.T(gokata.CodeInvalidEnum, nil),
		Hint:    fmt.Sprintf("allowed: %v", vals),
		Params:  map[string]any{"allowed": vals},
	}}
}

func (s enumSchema[T]) JSONSchema() (*js.Schema, error) {
	vals := make([]any, 0, len(s.allowed))
	for _, a := range s.allowed {
		vals = append(vals, a)
	}
	return &js.Schema{Enum: vals}, nil
}

// EnumOf returns an AnyAdapter for an enum schema, for use in object fields.
func EnumOf[T comparable](allowed ...T) AnyAdapter {
	return anyAdapterFromSchema[T](enumSchema[T]{allowed: allowed})
}

// Null returns a schema that accepts only JSON null.
func Null() gokata.Schema[any] { return nullSchema{} }

type nullSchema struct{}

func (nullSchema) Parse(ctx context.Context, v any) (any, error) {
	if v != nil {
		return nil, typeMismatch(nil)
	}
	return nil, nil
}

func (nullSchema) Validate(ctx context.Context, v any) error {
	if v != nil {
		return typeMismatch(nil)
	}
	return nil
}

func (nullSchema) ValidateValue(ctx context.Context, v any) error {
	if v != nil {
		return typeMismatch(nil)
	}
	return nil
}

func (nullSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "null"}, nil }

// coerceComparable widens wire-shaped values (json.Number, float64) into the
// comparable target type so literal and enum checks can compare by value.
// It refuses lossy conversions such as fractional input for integer targets.
func coerceComparable[T comparable](v any) (T, bool) {
	var zero T
	if t, ok := v.(T); ok {
		return t, true
	}
	rt := reflect.TypeOf(zero)
	if rt == nil {
		return zero, false
	}
	switch rt.Kind() {
	case reflect.String:
		if s, ok := v.(string); ok {
			return reflect.ValueOf(s).Convert(rt).Interface().(T), true
		}
	case reflect.Bool:
		if b, ok := v.(bool); ok {
			return reflect.ValueOf(b).Convert(rt).Interface().(T), true
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		f, ok := wireFloat(v)
		if !ok {
			return zero, false
		}
		switch rt.Kind() {
		case reflect.Float32, reflect.Float64:
		default:
			if f != math.Trunc(f) {
				return zero, false
			}
		}
		rv := reflect.ValueOf(f)
		if !rv.CanConvert(rt) {
			return zero, false
		}
		return rv.Convert(rt).Interface().(T), true
	}
	return zero, false
}

// wireFloat extracts a float64 from the numeric shapes a decoded document can carry.
func wireFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
