package schemadef

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"unicode/utf8"

	gokata "github.com/reoring/gokata"
	"github.com/reoring/gokata/dsl"
	"github.com/reoring/gokata/i18n"
	js "github.com/reoring/gokata/jsonschema"
)

// adapterFor compiles a property node into a field adapter. Property nodes
// use the same dialect as top-level nodes, nullable included.
func adapterFor(node map[string]any, opts Options, d *simpleDiag) (dsl.AnyAdapter, error) {
	s, err := compileNode(node, opts, d)
	if err != nil {
		return dsl.AnyAdapter{}, err
	}
	return dsl.SchemaOf[any](s), nil
}

func literalSchemaFor(v any) (gokata.Schema[any], error) {
	switch t := v.(type) {
	case string:
		return dsl.SchemaAsAny(dsl.Literal(t)), nil
	case bool:
		return dsl.SchemaAsAny(dsl.Literal(t)), nil
	case float64:
		return dsl.SchemaAsAny(dsl.Literal(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("schemadef: literal %v is not a valid number", t)
		}
		return dsl.SchemaAsAny(dsl.Literal(f)), nil
	case int:
		return dsl.SchemaAsAny(dsl.Literal(float64(t))), nil
	case nil:
		return dsl.Null(), nil
	default:
		return nil, fmt.Errorf("schemadef: unsupported literal type %T", v)
	}
}

func enumSchemaFor(raw any, d *simpleDiag) (gokata.Schema[any], error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("schemadef: enum must be a list, got %T", raw)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("schemadef: enum must not be empty")
	}
	if ss, ok := stringsOnly(list); ok {
		return dsl.SchemaAsAny(dsl.Enum(ss...)), nil
	}
	if fs, ok := numbersOnly(list); ok {
		return dsl.SchemaAsAny(dsl.Enum(fs...)), nil
	}
	d.warnf("mixed-type enum treated as any")
	return dsl.Any(), nil
}

func stringsOnly(list []any) ([]string, bool) {
	out := make([]string, 0, len(list))
	for _, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func numbersOnly(list []any) ([]float64, bool) {
	out := make([]float64, 0, len(list))
	for _, v := range list {
		switch t := v.(type) {
		case float64:
			out = append(out, t)
		case int:
			out = append(out, float64(t))
		case json.Number:
			f, err := t.Float64()
			if err != nil {
				return nil, false
			}
			out = append(out, f)
		default:
			return nil, false
		}
	}
	return out, true
}

// stringSchemaFor builds a string schema with the node's length and pattern
// constraints attached as refinements.
func stringSchemaFor(node map[string]any) (gokata.Schema[string], error) {
	s := dsl.String()
	if n, ok, err := docInt(node, "minLength"); err != nil {
		return nil, err
	} else if ok {
		min := n
		s = dsl.Refine(s, "minLength", func(_ context.Context, v string) error {
			if c := utf8.RuneCountInString(v); c < min {
				return boundIssue(gokata.CodeTooShort, "min", min, c)
			}
			return nil
		})
	}
	if n, ok, err := docInt(node, "maxLength"); err != nil {
		return nil, err
	} else if ok {
		max := n
		s = dsl.Refine(s, "maxLength", func(_ context.Context, v string) error {
			if c := utf8.RuneCountInString(v); c > max {
				return boundIssue(gokata.CodeTooLong, "max", max, c)
			}
			return nil
		})
	}
	if raw, ok := node["pattern"]; ok {
		p, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("schemadef: pattern must be a string, got %T", raw)
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("schemadef: invalid pattern %q: %w", p, err)
		}
		s = dsl.Refine(s, "pattern", func(_ context.Context, v string) error {
			if !re.MatchString(v) {
				return fmt.Errorf("value does not match pattern %s", re.String())
			}
			return nil
		})
	}
	return s, nil
}

// numberSchemaFor builds a number schema. Integer nodes additionally reject
// fractional values.
func numberSchemaFor(node map[string]any, integer bool) (gokata.Schema[json.Number], error) {
	nb := dsl.NumberJSON()
	if b, ok := node["coerce"].(bool); ok && b {
		nb = nb.CoerceFromString()
	}
	var s gokata.Schema[json.Number] = nb
	if integer {
		s = dsl.Refine(s, "integer", func(_ context.Context, v json.Number) error {
			if _, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
				return nil
			}
			f, err := v.Float64()
			if err != nil || f != math.Trunc(f) {
				return gokata.Issues{gokata.Issue{
					Path:    "/",
					Code:    gokata.CodeTypeMismatch,
					Message: i18n.T(gokata.CodeTypeMismatch, nil),
					Hint:    "expected integer",
				}}
			}
			return nil
		})
	}
	if f, ok, err := docFloat(node, "minimum"); err != nil {
		return nil, err
	} else if ok {
		min := f
		s = dsl.Refine(s, "minimum", func(_ context.Context, v json.Number) error {
			fv, err := v.Float64()
			if err == nil && fv < min {
				return boundIssue(gokata.CodeTooSmall, "min", min, fv)
			}
			return nil
		})
	}
	if f, ok, err := docFloat(node, "maximum"); err != nil {
		return nil, err
	} else if ok {
		max := f
		s = dsl.Refine(s, "maximum", func(_ context.Context, v json.Number) error {
			fv, err := v.Float64()
			if err == nil && fv > max {
				return boundIssue(gokata.CodeTooBig, "max", max, fv)
			}
			return nil
		})
	}
	return s, nil
}

func boundIssue(code, key string, limit, actual any) gokata.Issues {
	return gokata.Issues{gokata.Issue{
		Path:    "/",
		Code:    code,
		Message: i18n.T(code, nil),
		Params:  map[string]any{key: limit, "actual": actual},
	}}
}

// docInt reads an integer-valued document field regardless of how the
// decoder surfaced it.
func docInt(node map[string]any, key string) (int, bool, error) {
	raw, ok := node[key]
	if !ok {
		return 0, false, nil
	}
	switch t := raw.(type) {
	case int:
		return t, true, nil
	case int64:
		return int(t), true, nil
	case float64:
		if t != math.Trunc(t) {
			return 0, false, fmt.Errorf("schemadef: %s must be an integer, got %v", key, t)
		}
		return int(t), true, nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, false, fmt.Errorf("schemadef: %s must be an integer, got %v", key, t)
		}
		return int(n), true, nil
	default:
		return 0, false, fmt.Errorf("schemadef: %s must be an integer, got %T", key, raw)
	}
}

func docFloat(node map[string]any, key string) (float64, bool, error) {
	raw, ok := node[key]
	if !ok {
		return 0, false, nil
	}
	switch t := raw.(type) {
	case int:
		return float64(t), true, nil
	case int64:
		return float64(t), true, nil
	case float64:
		return t, true, nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false, fmt.Errorf("schemadef: %s must be a number, got %v", key, t)
		}
		return f, true, nil
	default:
		return 0, false, fmt.Errorf("schemadef: %s must be a number, got %T", key, raw)
	}
}

// nullableAny accepts JSON null alongside the wrapped schema.
type nullableAny struct{ inner gokata.Schema[any] }

func (n nullableAny) Parse(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return n.inner.Parse(ctx, v)
}

func (n nullableAny) Validate(ctx context.Context, v any) error {
	if v == nil {
		return nil
	}
	return n.inner.Validate(ctx, v)
}

func (n nullableAny) ValidateValue(ctx context.Context, v any) error {
	if v == nil {
		return nil
	}
	return n.inner.ValidateValue(ctx, v)
}

func (n nullableAny) JSONSchema() (*js.Schema, error) {
	sch, err := n.inner.JSONSchema()
	if err != nil {
		return nil, err
	}
	if sch == nil {
		return &js.Schema{}, nil
	}
	cp := *sch
	return &cp, nil
}
