package dsl

import (
	"context"
	"sort"

	gokata "github.com/reoring/gokata"
	"github.com/reoring/gokata/i18n"
	js "github.com/reoring/gokata/jsonschema"
)

// MapAny returns a minimal Schema[map[string]any] useful for passthrough targets or loose maps.
func MapAny() gokata.Schema[map[string]any] { return mapAnySchema{} }

type mapAnySchema struct{}

func (mapAnySchema) Parse(ctx context.Context, v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, gokata.Issues{gokata.Issue{Path: "/", Code: gokata.CodeTypeMismatch, Message: i18n.T(gokata.CodeTypeMismatch, nil), Hint: "expected object"}}
	}
	return m, nil
}

func (mapAnySchema) Validate(ctx context.Context, v any) error {
	if _, ok := v.(map[string]any); !ok {
		return gokata.Issues{gokata.Issue{Path: "/", Code: gokata.CodeTypeMismatch, Message: i18n.T(gokata.CodeTypeMismatch, nil), Hint: "expected object"}}
	}
	return nil
}

func (mapAnySchema) ValidateValue(ctx context.Context, v map[string]any) error { return nil }

func (mapAnySchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "object", AdditionalProperties: true}, nil
}

// Map returns a schema for JSON objects whose every property is validated by
// elem. Keys are free-form; value failures are reported at "/<key>".
func Map[V any](elem gokata.Schema[V]) gokata.Schema[map[string]V] { return mapSchema[V]{val: elem} }

// MapOf adapts Map[V] to AnyAdapter for use in object builders.
func MapOf[V any](elem gokata.Schema[V]) AnyAdapter {
	return anyAdapterFromSchema[map[string]V](Map[V](elem))
}

type mapSchema[V any] struct{ val gokata.Schema[V] }

// sortedKeys orders map keys so issue reporting stays deterministic.
func sortedKeys[V any](m map[string]V) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func (m mapSchema[V]) Parse(ctx context.Context, v any) (map[string]V, error) {
	switch src := v.(type) {
	case map[string]V:
		if err := m.ValidateValue(ctx, src); err != nil {
			return nil, err
		}
		return src, nil
	case map[string]any:
		out := make(map[string]V, len(src))
		var iss gokata.Issues
		for _, k := range sortedKeys(src) {
			vv, err := m.val.Parse(ctx, src[k])
			if err != nil {
				iss = gokata.AppendIssues(iss, rebaseIssues("/"+k, err)...)
				if gokata.IsFailFast(ctx) {
					return nil, iss
				}
				continue
			}
			out[k] = vv
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return out, nil
	default:
		return nil, gokata.Issues{gokata.Issue{Path: "/", Code: gokata.CodeTypeMismatch, Message: i18n.T(gokata.CodeTypeMismatch, nil), Hint: "expected object"}}
	}
}

func (m mapSchema[V]) Validate(ctx context.Context, v any) error {
	switch src := v.(type) {
	case map[string]V:
		return nil
	case map[string]any:
		var iss gokata.Issues
		for _, k := range sortedKeys(src) {
			if err := m.val.Validate(ctx, src[k]); err != nil {
				iss = gokata.AppendIssues(iss, rebaseIssues("/"+k, err)...)
				if gokata.IsFailFast(ctx) {
					return iss
				}
			}
		}
		if len(iss) > 0 {
			return iss
		}
		return nil
	default:
		return gokata.Issues{gokata.Issue{Path: "/", Code: gokata.CodeTypeMismatch, Message: i18n.T(gokata.CodeTypeMismatch, nil), Hint: "expected object"}}
	}
}

func (m mapSchema[V]) ValidateValue(ctx context.Context, v map[string]V) error {
	var iss gokata.Issues
	for _, k := range sortedKeys(v) {
		if err := m.val.ValidateValue(ctx, v[k]); err != nil {
			iss = gokata.AppendIssues(iss, rebaseIssues("/"+k, err)...)
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

func (m mapSchema[V]) JSONSchema() (*js.Schema, error) {
	vs, err := m.val.JSONSchema()
	if err != nil {
		return nil, err
	}
	return &js.Schema{Type: "object", AdditionalProperties: vs}, nil
}
