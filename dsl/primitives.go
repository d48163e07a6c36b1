package dsl

import (
	"context"
	"encoding/json"
	"math"
	"reflect"
	"strconv"

	gokata "github.com/reoring/gokata"
	"github.com/reoring/gokata/i18n"
	js "github.com/reoring/gokata/jsonschema"
)

// String returns the minimal string schema implementation.
func String() gokata.Schema[string] { return stringSchema{} }

// Bool returns the minimal bool schema implementation.
func Bool() gokata.Schema[bool] { return boolSchema{} }

// NumberBuilder exposes chaining options for number schemas while implementing Schema[json.Number].
type NumberBuilder interface {
	gokata.Schema[json.Number]
	CoerceFromString() NumberBuilder
}

// NumberJSON returns the minimal json.Number schema implementation (no string coerce by default).
func NumberJSON() NumberBuilder { return &numberJSONSchema{} }

// typeMismatch builds the single-issue error every primitive reports when the
// input's fundamental type differs from the declared one.
func typeMismatch(cause error) gokata.Issues {
	return gokata.Issues{{Path: "/", Code: gokata.CodeTypeMismatch, Message: i18n.T(gokata.CodeTypeMismatch, nil), Cause: cause}}
}

// ---------------- string ----------------

type stringSchema struct{}

func (stringSchema) Parse(ctx context.Context, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", typeMismatch(nil)
	}
	return s, nil
}

func (stringSchema) Validate(ctx context.Context, v any) error {
	if _, ok := v.(string); !ok {
		return typeMismatch(nil)
	}
	return nil
}

func (stringSchema) ValidateValue(ctx context.Context, v string) error { return nil }

func (stringSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "string"}, nil }

// stringAsSchema projects the string wire schema onto a domain type T.
type stringAsSchema[T ~string] struct{}

func (stringAsSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	s, err := (stringSchema{}).Parse(ctx, v)
	if err != nil {
		var zero T
		return zero, err
	}
	return T(s), nil
}
func (stringAsSchema[T]) Validate(ctx context.Context, v any) error {
	return (stringSchema{}).Validate(ctx, v)
}
func (stringAsSchema[T]) ValidateValue(ctx context.Context, v T) error {
	return (stringSchema{}).ValidateValue(ctx, string(v))
}
func (stringAsSchema[T]) JSONSchema() (*js.Schema, error) { return (stringSchema{}).JSONSchema() }

// StringOf returns an AnyAdapter for a string wire schema projected to domain type T.
func StringOf[T ~string]() AnyAdapter {
	ad := anyAdapterFromSchema[T](stringAsSchema[T]{})
	ad.orig = stringSchema{}
	return ad
}

// ---------------- bool ----------------

type boolSchema struct{}

func (boolSchema) Parse(ctx context.Context, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, typeMismatch(nil)
	}
	return b, nil
}

func (boolSchema) Validate(ctx context.Context, v any) error {
	if _, ok := v.(bool); !ok {
		return typeMismatch(nil)
	}
	return nil
}

func (boolSchema) ValidateValue(ctx context.Context, v bool) error { return nil }

func (boolSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "boolean"}, nil }

// boolAsSchema projects the bool wire schema onto a domain type T.
type boolAsSchema[T ~bool] struct{}

func (boolAsSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	b, err := (boolSchema{}).Parse(ctx, v)
	if err != nil {
		var zero T
		return zero, err
	}
	return T(b), nil
}
func (boolAsSchema[T]) Validate(ctx context.Context, v any) error {
	return (boolSchema{}).Validate(ctx, v)
}
func (boolAsSchema[T]) ValidateValue(ctx context.Context, v T) error {
	return (boolSchema{}).ValidateValue(ctx, bool(v))
}
func (boolAsSchema[T]) JSONSchema() (*js.Schema, error) { return (boolSchema{}).JSONSchema() }

// BoolOf returns an AnyAdapter for a bool wire schema projected to domain type T.
func BoolOf[T ~bool]() AnyAdapter {
	ad := anyAdapterFromSchema[T](boolAsSchema[T]{})
	ad.orig = boolSchema{}
	return ad
}

// ---------------- number ----------------

// numberJSONSchema implements NumberBuilder with optional string coercion.
type numberJSONSchema struct{ coerceFromString bool }

func (n *numberJSONSchema) CoerceFromString() NumberBuilder {
	n.coerceFromString = true
	return n
}

func (n *numberJSONSchema) Parse(ctx context.Context, v any) (json.Number, error) {
	switch t := v.(type) {
	case json.Number:
		return t, nil
	case float64:
		return json.Number(formatFloat(t)), nil
	case string:
		if n.coerceFromString {
			f, err := strconv.ParseFloat(t, 64)
			if err != nil {
				return json.Number(""), typeMismatch(err)
			}
			// Canonicalize via float64 formatting for consistency with float64 input.
			return json.Number(formatFloat(f)), nil
		}
		return json.Number(""), typeMismatch(nil)
	default:
		return json.Number(""), typeMismatch(nil)
	}
}

func (n *numberJSONSchema) Validate(ctx context.Context, v any) error {
	switch v.(type) {
	case json.Number, float64:
		return nil
	case string:
		if n.coerceFromString {
			return nil
		}
		return typeMismatch(nil)
	default:
		return typeMismatch(nil)
	}
}

func (n *numberJSONSchema) ValidateValue(ctx context.Context, v json.Number) error { return nil }

func (n *numberJSONSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "number"}, nil }

// formatFloat mirrors the canonical JSON-like float formatting.
func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// numberAsSchema projects json.Number onto a domain type T with underlying string.
type numberAsSchema[T ~string] struct{ n numberJSONSchema }

func (s numberAsSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	num, err := (&s.n).Parse(ctx, v)
	if err != nil {
		var zero T
		return zero, err
	}
	return T(string(num)), nil
}
func (s numberAsSchema[T]) Validate(ctx context.Context, v any) error { return (&s.n).Validate(ctx, v) }
func (s numberAsSchema[T]) ValidateValue(ctx context.Context, v T) error {
	return (&s.n).ValidateValue(ctx, json.Number(string(v)))
}
func (s numberAsSchema[T]) JSONSchema() (*js.Schema, error) { return (&s.n).JSONSchema() }

// NumberOf returns an AnyAdapter for a json.Number wire schema projected to domain type T.
func NumberOf[T ~string]() AnyAdapter {
	ad := anyAdapterFromSchema[T](numberAsSchema[T]{})
	ad.orig = numberJSONSchema{}
	return ad
}

// ---------------- IntOf[T] ----------------

// intAsSchema projects json.Number onto a domain type T with underlying int.
// It accepts JSON number on the wire and converts with integer-only semantics.
type intAsSchema[T ~int] struct{ n numberJSONSchema }

func (s intAsSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	// Allow direct ints for default application ergonomics.
	switch t := v.(type) {
	case int, int8, int16, int32, int64:
		return T(int(reflect.ValueOf(t).Int())), nil
	case uint, uint8, uint16, uint32, uint64:
		return T(int(reflect.ValueOf(t).Uint())), nil
	}
	num, err := (&s.n).Parse(ctx, v)
	if err != nil {
		var zero T
		return zero, err
	}
	i64, perr := num.Int64()
	if perr != nil {
		var zero T
		return zero, typeMismatch(perr)
	}
	return T(int(i64)), nil
}
func (s intAsSchema[T]) Validate(ctx context.Context, v any) error    { return (&s.n).Validate(ctx, v) }
func (s intAsSchema[T]) ValidateValue(ctx context.Context, v T) error { return nil }
func (s intAsSchema[T]) JSONSchema() (*js.Schema, error)              { return &js.Schema{Type: "integer"}, nil }

// IntOf returns an AnyAdapter for a json.Number wire schema projected to domain type T(~int).
// It accepts JSON numbers like 1 or 2 (not strings unless the schema coerces) and decodes to T.
func IntOf[T ~int]() AnyAdapter {
	ad := anyAdapterFromSchema[T](intAsSchema[T]{})
	ad.orig = numberJSONSchema{}
	return ad
}

// ---------------- FloatOf[T] ----------------

// floatAsSchema projects json.Number onto a domain type T with underlying float64.
type floatAsSchema[T ~float64] struct{ n numberJSONSchema }

func (s floatAsSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	// Accept direct float64 for default application ergonomics.
	if f, ok := v.(float64); ok {
		return T(f), nil
	}
	num, err := (&s.n).Parse(ctx, v)
	if err != nil {
		var zero T
		return zero, err
	}
	f64, perr := strconv.ParseFloat(num.String(), 64)
	if perr != nil {
		var zero T
		return zero, typeMismatch(perr)
	}
	return T(f64), nil
}
func (s floatAsSchema[T]) Validate(ctx context.Context, v any) error    { return (&s.n).Validate(ctx, v) }
func (s floatAsSchema[T]) ValidateValue(ctx context.Context, v T) error { return nil }
func (s floatAsSchema[T]) JSONSchema() (*js.Schema, error)              { return &js.Schema{Type: "number"}, nil }

// FloatOf returns an AnyAdapter for a json.Number wire schema projected to domain type T(~float64).
func FloatOf[T ~float64]() AnyAdapter {
	ad := anyAdapterFromSchema[T](floatAsSchema[T]{})
	ad.orig = numberJSONSchema{}
	return ad
}

// ---------------- UintOf[T] ----------------

// uintAsSchema projects json.Number onto a domain type T with underlying uint64.
type uintAsSchema[T ~uint64] struct{ n numberJSONSchema }

func (s uintAsSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	// Accept common unsigned ints directly for defaults/validation convenience.
	switch t := v.(type) {
	case uint, uint8, uint16, uint32, uint64:
		return T(reflect.ValueOf(t).Convert(reflect.TypeOf(uint64(0))).Uint()), nil
	}
	num, err := (&s.n).Parse(ctx, v)
	if err != nil {
		var zero T
		return zero, err
	}
	// ParseUint avoids float precision pitfalls and rejects negatives or fractions.
	u64, perr := strconv.ParseUint(num.String(), 10, 64)
	if perr != nil {
		var zero T
		return zero, typeMismatch(perr)
	}
	return T(u64), nil
}
func (s uintAsSchema[T]) Validate(ctx context.Context, v any) error    { return (&s.n).Validate(ctx, v) }
func (s uintAsSchema[T]) ValidateValue(ctx context.Context, v T) error { return nil }
func (s uintAsSchema[T]) JSONSchema() (*js.Schema, error)              { return &js.Schema{Type: "integer"}, nil }

// UintOf returns an AnyAdapter for a json.Number wire schema projected to domain type T(~uint64).
func UintOf[T ~uint64]() AnyAdapter {
	ad := anyAdapterFromSchema[T](uintAsSchema[T]{})
	ad.orig = numberJSONSchema{}
	return ad
}

// ---------------- Int32Of[T] ----------------

// int32AsSchema projects json.Number onto a domain type T with underlying int32.
// Values outside the int32 range surface as too_big/too_small.
type int32AsSchema[T ~int32] struct{ n numberJSONSchema }

func int32Range(i64 int64) error {
	if i64 > math.MaxInt32 {
		return boundIssue(gokata.CodeTooBig)
	}
	if i64 < math.MinInt32 {
		return boundIssue(gokata.CodeTooSmall)
	}
	return nil
}

func (s int32AsSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	var zero T
	switch t := v.(type) {
	case int, int8, int16, int32, int64:
		i64 := reflect.ValueOf(t).Int()
		if err := int32Range(i64); err != nil {
			return zero, err
		}
		return T(int32(i64)), nil
	}
	num, err := (&s.n).Parse(ctx, v)
	if err != nil {
		return zero, err
	}
	i64, perr := num.Int64()
	if perr != nil {
		return zero, typeMismatch(perr)
	}
	if err := int32Range(i64); err != nil {
		return zero, err
	}
	return T(int32(i64)), nil
}
func (s int32AsSchema[T]) Validate(ctx context.Context, v any) error    { return (&s.n).Validate(ctx, v) }
func (s int32AsSchema[T]) ValidateValue(ctx context.Context, v T) error { return nil }
func (s int32AsSchema[T]) JSONSchema() (*js.Schema, error)              { return &js.Schema{Type: "integer"}, nil }

// Int32Of returns an AnyAdapter for a json.Number wire schema projected to domain type T(~int32).
func Int32Of[T ~int32]() AnyAdapter {
	ad := anyAdapterFromSchema[T](int32AsSchema[T]{})
	ad.orig = numberJSONSchema{}
	return ad
}
