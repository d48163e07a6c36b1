package dsl

import (
	"context"
	"strconv"

	gokata "github.com/reoring/gokata"
	"github.com/reoring/gokata/i18n"
	js "github.com/reoring/gokata/jsonschema"
)

// ArrayBuilder exposes chaining methods for array schemas while implementing Schema[[]E].
type ArrayBuilder[E any] interface {
	gokata.Schema[[]E]
	Min(n int) ArrayBuilder[E]
	Max(n int) ArrayBuilder[E]
}

// Array returns an array schema with the given element schema. Element
// failures are reported at "/<index>" with the element's own codes, and every
// element is evaluated unless fail-fast is requested.
func Array[E any](elem gokata.Schema[E]) ArrayBuilder[E] {
	return &ArraySchema[E]{elem: elem, minLen: -1, maxLen: -1}
}

type ArraySchema[E any] struct {
	elem   gokata.Schema[E]
	minLen int
	maxLen int
}

// ArrayOf adapts Array[E] to AnyAdapter for use in object builders.
// Example: Field("tags", ArrayOf[string](String()))
func ArrayOf[E any](elem gokata.Schema[E]) AnyAdapter {
	return anyAdapterFromSchema[[]E](Array[E](elem))
}

// Min sets the minimum length.
func (a *ArraySchema[E]) Min(n int) ArrayBuilder[E] { a.minLen = n; return a }

// Max sets the maximum length.
func (a *ArraySchema[E]) Max(n int) ArrayBuilder[E] { a.maxLen = n; return a }

func (a *ArraySchema[E]) Parse(ctx context.Context, v any) ([]E, error) {
	switch src := v.(type) {
	case []E:
		if err := a.ValidateValue(ctx, src); err != nil {
			return nil, err
		}
		return src, nil
	case []any:
		res := make([]E, 0, len(src))
		var iss gokata.Issues
		for i := range src {
			ev, err := a.elem.Parse(ctx, src[i])
			if err != nil {
				iss = gokata.AppendIssues(iss, rebaseIssues("/"+strconv.Itoa(i), err)...)
				if gokata.IsFailFast(ctx) {
					return nil, iss
				}
				continue
			}
			res = append(res, ev)
		}
		iss = gokata.AppendIssues(iss, a.lengthIssues(len(src))...)
		if len(iss) > 0 {
			return nil, iss
		}
		return res, nil
	default:
		return nil, gokata.Issues{gokata.Issue{Path: "/", Code: gokata.CodeTypeMismatch, Message: i18n.T(gokata.CodeTypeMismatch, nil), Hint: "expected array"}}
	}
}

// Validate checks array shape, length bounds, and each element without
// producing output or running transforms.
func (a *ArraySchema[E]) Validate(ctx context.Context, v any) error {
	var iss gokata.Issues
	switch src := v.(type) {
	case []E:
		iss = a.lengthIssues(len(src))
	case []any:
		for i := range src {
			if err := a.elem.Validate(ctx, src[i]); err != nil {
				iss = gokata.AppendIssues(iss, rebaseIssues("/"+strconv.Itoa(i), err)...)
				if gokata.IsFailFast(ctx) {
					return iss
				}
			}
		}
		iss = gokata.AppendIssues(iss, a.lengthIssues(len(src))...)
	default:
		return gokata.Issues{gokata.Issue{Path: "/", Code: gokata.CodeTypeMismatch, Message: i18n.T(gokata.CodeTypeMismatch, nil), Hint: "expected array"}}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func (a *ArraySchema[E]) ValidateValue(ctx context.Context, v []E) error {
	iss := a.lengthIssues(len(v))
	for i := range v {
		if err := a.elem.ValidateValue(ctx, v[i]); err != nil {
			iss = gokata.AppendIssues(iss, rebaseIssues("/"+strconv.Itoa(i), err)...)
			if gokata.IsFailFast(ctx) {
				return iss
			}
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func (a *ArraySchema[E]) lengthIssues(n int) gokata.Issues {
	var iss gokata.Issues
	if a.minLen >= 0 && n < a.minLen {
		iss = gokata.AppendIssues(iss, gokata.Issue{
			Path: "/", Code: gokata.CodeTooShort,
			Message: i18n.T(gokata.CodeTooShort, nil),
			Hint:    "array is shorter than min",
			Params:  map[string]any{"min": a.minLen, "actual": n},
		})
	}
	if a.maxLen >= 0 && n > a.maxLen {
		iss = gokata.AppendIssues(iss, gokata.Issue{
			Path: "/", Code: gokata.CodeTooLong,
			Message: i18n.T(gokata.CodeTooLong, nil),
			Hint:    "array is longer than max",
			Params:  map[string]any{"max": a.maxLen, "actual": n},
		})
	}
	return iss
}

func (a *ArraySchema[E]) JSONSchema() (*js.Schema, error) {
	es, err := a.elem.JSONSchema()
	if err != nil {
		return nil, err
	}
	s := &js.Schema{Type: "array", Items: es}
	if a.minLen >= 0 {
		n := a.minLen
		s.MinItems = &n
	}
	if a.maxLen >= 0 {
		n := a.maxLen
		s.MaxItems = &n
	}
	return s, nil
}
