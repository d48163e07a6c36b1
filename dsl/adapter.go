package dsl

import (
	"context"
	"encoding/json"
	"reflect"
	"strconv"

	gokata "github.com/reoring/gokata"
	"github.com/reoring/gokata/i18n"
	js "github.com/reoring/gokata/jsonschema"
)

// AnyAdapter adapts Schema[T] to an any-typed DSL wrapper.
// It keeps the original schema to support default application and JSON Schema
// augmentation.
type AnyAdapter struct {
	parse         func(context.Context, any) (any, error)
	validate      func(context.Context, any) error
	validateValue func(context.Context, any) error
	applyDefault  func(context.Context) (any, error)
	jsonSchema    func() (*js.Schema, error)
	orig          any
}

// anyAdapterFromSchema wraps a strongly typed Schema[T] as AnyAdapter for Field builders.
func anyAdapterFromSchema[T any](s gokata.Schema[T]) AnyAdapter {
	return AnyAdapter{
		parse:    func(ctx context.Context, v any) (any, error) { return s.Parse(ctx, v) },
		validate: s.Validate,
		validateValue: func(ctx context.Context, v any) error {
			tv, ok := v.(T)
			if !ok {
				return gokata.Issues{gokata.Issue{Path: "/", Code: gokata.CodeTypeMismatch, Message: "invalid field type"}}
			}
			return s.ValidateValue(ctx, tv)
		},
		jsonSchema: s.JSONSchema,
		orig:       s,
	}
}

// Orig returns the original underlying Schema[T] or builder object used to create this adapter.
// It is intended for advanced integrations and may change.
func (ad AnyAdapter) Orig() any { return ad.orig }

// Nullable wraps an AnyAdapter to accept nulls (JSON null) for both parse and validate.
// When the input value is nil, parsing succeeds and returns nil; validation also succeeds.
// JSON Schema export is left to the underlying adapter as our minimal Schema does not
// yet model union types; callers can post-process if needed.
func Nullable(ad AnyAdapter) AnyAdapter {
	prevParse := ad.parse
	prevCheck := ad.validate
	prevValidate := ad.validateValue
	prevJSON := ad.jsonSchema
	out := ad
	out.parse = func(ctx context.Context, v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		if prevParse == nil {
			return v, nil
		}
		return prevParse(ctx, v)
	}
	out.validate = func(ctx context.Context, v any) error {
		if v == nil {
			return nil
		}
		if prevCheck == nil {
			return nil
		}
		return prevCheck(ctx, v)
	}
	out.validateValue = func(ctx context.Context, v any) error {
		if v == nil {
			return nil
		}
		if prevValidate == nil {
			if prevParse == nil {
				return nil
			}
			_, err := prevParse(ctx, v)
			return err
		}
		return prevValidate(ctx, v)
	}
	out.jsonSchema = func() (*js.Schema, error) {
		if prevJSON == nil {
			return &js.Schema{}, nil
		}
		return prevJSON()
	}
	return out
}

// Nullable enables fluent chaining: g.StringOf[T]().Nullable()
func (ad AnyAdapter) Nullable() AnyAdapter { return Nullable(ad) }

// Min sets a numeric minimum (inclusive) constraint at runtime and in JSON Schema.
// Non-numeric values are ignored by this guard (type errors are handled elsewhere).
func (ad AnyAdapter) Min(n float64) AnyAdapter {
	prevParse := ad.parse
	prevCheck := ad.validate
	prevValidate := ad.validateValue
	prevJSON := ad.jsonSchema
	out := ad
	out.parse = func(ctx context.Context, v any) (any, error) {
		if prevParse != nil {
			val, err := prevParse(ctx, v)
			if err != nil {
				return nil, err
			}
			if err := minCheck(val, n); err != nil {
				return nil, err
			}
			return val, nil
		}
		if err := minCheck(v, n); err != nil {
			return nil, err
		}
		return v, nil
	}
	out.validate = func(ctx context.Context, v any) error {
		if prevCheck != nil {
			if err := prevCheck(ctx, v); err != nil {
				return err
			}
		}
		return minCheck(v, n)
	}
	out.validateValue = func(ctx context.Context, v any) error {
		if prevValidate != nil {
			if err := prevValidate(ctx, v); err != nil {
				return err
			}
		}
		return minCheck(v, n)
	}
	out.jsonSchema = func() (*js.Schema, error) {
		s := &js.Schema{}
		if prevJSON != nil {
			ps, err := prevJSON()
			if err != nil {
				return nil, err
			}
			if ps != nil {
				s = ps
			}
		}
		s.Minimum = jsPtrFloat(n)
		if s.Type == "" {
			s.Type = "number"
		}
		return s, nil
	}
	return out
}

// Max sets a numeric maximum (inclusive) constraint at runtime and in JSON Schema.
func (ad AnyAdapter) Max(n float64) AnyAdapter {
	prevParse := ad.parse
	prevCheck := ad.validate
	prevValidate := ad.validateValue
	prevJSON := ad.jsonSchema
	out := ad
	out.parse = func(ctx context.Context, v any) (any, error) {
		if prevParse != nil {
			val, err := prevParse(ctx, v)
			if err != nil {
				return nil, err
			}
			if err := maxCheck(val, n); err != nil {
				return nil, err
			}
			return val, nil
		}
		if err := maxCheck(v, n); err != nil {
			return nil, err
		}
		return v, nil
	}
	out.validate = func(ctx context.Context, v any) error {
		if prevCheck != nil {
			if err := prevCheck(ctx, v); err != nil {
				return err
			}
		}
		return maxCheck(v, n)
	}
	out.validateValue = func(ctx context.Context, v any) error {
		if prevValidate != nil {
			if err := prevValidate(ctx, v); err != nil {
				return err
			}
		}
		return maxCheck(v, n)
	}
	out.jsonSchema = func() (*js.Schema, error) {
		s := &js.Schema{}
		if prevJSON != nil {
			ps, err := prevJSON()
			if err != nil {
				return nil, err
			}
			if ps != nil {
				s = ps
			}
		}
		s.Maximum = jsPtrFloat(n)
		if s.Type == "" {
			s.Type = "number"
		}
		return s, nil
	}
	return out
}

// ---- helpers ----
func jsPtrFloat(v float64) *float64 { return &v }

func boundIssue(code string) error {
	return gokata.Issues{gokata.Issue{Path: "/", Code: code, Message: i18n.T(code, nil)}}
}

func minCheck(v any, min float64) error {
	if v == nil {
		return nil
	}
	switch n := v.(type) {
	case int:
		if float64(n) < min {
			return boundIssue(gokata.CodeTooSmall)
		}
	case int8, int16, int32, int64:
		if reflect.ValueOf(n).Int() < int64(min) {
			return boundIssue(gokata.CodeTooSmall)
		}
	case uint, uint8, uint16, uint32, uint64:
		if float64(reflect.ValueOf(n).Uint()) < min {
			return boundIssue(gokata.CodeTooSmall)
		}
	case float32, float64:
		if reflect.ValueOf(n).Convert(reflect.TypeOf(float64(0))).Float() < min {
			return boundIssue(gokata.CodeTooSmall)
		}
	case json.Number:
		if f, err := strconv.ParseFloat(string(n), 64); err == nil {
			if f < min {
				return boundIssue(gokata.CodeTooSmall)
			}
		}
	}
	return nil
}

func maxCheck(v any, max float64) error {
	if v == nil {
		return nil
	}
	switch n := v.(type) {
	case int:
		if float64(n) > max {
			return boundIssue(gokata.CodeTooBig)
		}
	case int8, int16, int32, int64:
		if reflect.ValueOf(n).Int() > int64(max) {
			return boundIssue(gokata.CodeTooBig)
		}
	case uint, uint8, uint16, uint32, uint64:
		if float64(reflect.ValueOf(n).Uint()) > max {
			return boundIssue(gokata.CodeTooBig)
		}
	case float32, float64:
		if reflect.ValueOf(n).Convert(reflect.TypeOf(float64(0))).Float() > max {
			return boundIssue(gokata.CodeTooBig)
		}
	case json.Number:
		if f, err := strconv.ParseFloat(string(n), 64); err == nil {
			if f > max {
				return boundIssue(gokata.CodeTooBig)
			}
		}
	}
	return nil
}
