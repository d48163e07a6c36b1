// Package schemadef compiles schema documents (JSON or YAML) into runtime
// schemas. A document is a small declarative dialect:
//
//	{"type": "string", "minLength": 1}
//	{"type": "object", "properties": {...}, "required": [...], "unknown": "strict"}
//	{"type": "array", "items": {...}, "minItems": 1}
//	{"literal": "active"} / {"enum": ["a", "b"]} / {"type": "null"}
//	{"union": [cand, ...], "mode": "first_match" | "exclusive"}
//
// Compilation is lenient in the places validation can stay sound: unsupported
// constructs degrade to accept-any with a diagnostic warning, while structural
// mistakes in the document itself (say, a union with one candidate) are errors.
package schemadef

import (
	"context"
	"errors"
	"fmt"
	"sort"

	gokata "github.com/reoring/gokata"
	"github.com/reoring/gokata/dsl"
)

// UnknownBehavior configures how unknown object keys are treated when the
// document itself does not say.
type UnknownBehavior int

const (
	UnknownDefault UnknownBehavior = iota // follow the document; strip when silent
	UnknownStrict
	UnknownStrip
)

// UnionMode selects the resolution policy for union nodes without a "mode" key.
type UnionMode int

const (
	UnionFirstMatch UnionMode = iota
	UnionExclusive
)

// DefaultMode controls how "default" values from the document are applied.
type DefaultMode int

const (
	DefaultIgnore DefaultMode = iota
	DefaultApply
)

// Options controls compilation behavior.
type Options struct {
	Unknown  UnknownBehavior
	Union    UnionMode
	Defaults DefaultMode
}

// Diag carries non-fatal warnings produced during compilation.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }

// Compile compiles a schema document into a runtime schema. The input can be
// a decoded map[string]any or raw JSON bytes.
func Compile(doc any, opts Options) (gokata.Schema[any], Diag, error) {
	d := &simpleDiag{}
	if doc == nil {
		return nil, d, errors.New("schemadef: nil document")
	}
	var root map[string]any
	switch t := doc.(type) {
	case []byte:
		m, err := gokata.ParseFrom(context.Background(), dsl.MapAny(), gokata.JSONBytes(t))
		if err != nil {
			return nil, d, fmt.Errorf("schemadef: invalid JSON document: %w", err)
		}
		root = m
	case map[string]any:
		root = t
	default:
		return nil, d, fmt.Errorf("schemadef: unsupported document type %T", doc)
	}
	s, err := compileNode(root, opts, d)
	if err != nil {
		return nil, d, err
	}
	return s, d, nil
}

// CompileYAML compiles a YAML schema document. YAML shares the JSON node
// model, so the document is decoded through the YAML source and compiled the
// same way.
func CompileYAML(b []byte, opts Options) (gokata.Schema[any], Diag, error) {
	d := &simpleDiag{}
	m, err := gokata.ParseFrom(context.Background(), dsl.MapAny(), gokata.YAMLBytes(b))
	if err != nil {
		return nil, d, fmt.Errorf("schemadef: invalid YAML document: %w", err)
	}
	s, err := compileNode(m, opts, d)
	if err != nil {
		return nil, d, err
	}
	return s, d, nil
}

// compileNode dispatches on the node shape: union, literal, enum, then "type".
// "nullable": true wraps whatever the node compiles to.
func compileNode(node map[string]any, opts Options, d *simpleDiag) (gokata.Schema[any], error) {
	s, err := compileBareNode(node, opts, d)
	if err != nil {
		return nil, err
	}
	return wrapNullable(s, node), nil
}

func compileBareNode(node map[string]any, opts Options, d *simpleDiag) (gokata.Schema[any], error) {
	if raw, ok := node["union"]; ok {
		return compileUnion(node, raw, opts, d)
	}
	if lv, ok := node["literal"]; ok {
		return literalSchemaFor(lv)
	}
	if raw, ok := node["enum"]; ok {
		return enumSchemaFor(raw, d)
	}
	t, _ := node["type"].(string)
	switch t {
	case "string":
		s, err := stringSchemaFor(node)
		if err != nil {
			return nil, err
		}
		return dsl.SchemaAsAny(s), nil
	case "boolean":
		return dsl.SchemaAsAny(dsl.Bool()), nil
	case "number", "integer":
		s, err := numberSchemaFor(node, t == "integer")
		if err != nil {
			return nil, err
		}
		return dsl.SchemaAsAny(s), nil
	case "null":
		return dsl.Null(), nil
	case "object":
		s, err := compileObject(node, opts, d)
		if err != nil {
			return nil, err
		}
		return dsl.SchemaAsAny(s), nil
	case "array":
		ab, err := compileArray(node, opts, d)
		if err != nil {
			return nil, err
		}
		return dsl.SchemaAsAny[[]any](ab), nil
	case "":
		d.warnf("node without type treated as any")
		return dsl.Any(), nil
	default:
		d.warnf("unknown type %q treated as any", t)
		return dsl.Any(), nil
	}
}

func compileUnion(node map[string]any, raw any, opts Options, d *simpleDiag) (gokata.Schema[any], error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("schemadef: union must be a list, got %T", raw)
	}
	cands := make([]gokata.Schema[any], 0, len(list))
	for i, c := range list {
		cm, ok := c.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("schemadef: union candidate %d must be an object, got %T", i, c)
		}
		cs, err := compileNode(cm, opts, d)
		if err != nil {
			return nil, fmt.Errorf("schemadef: union candidate %d: %w", i, err)
		}
		cands = append(cands, cs)
	}
	b := dsl.Union[any](cands...)
	mode, _ := node["mode"].(string)
	switch mode {
	case "exclusive":
		b = b.Exclusive()
	case "first_match", "":
		if mode == "" && opts.Union == UnionExclusive {
			b = b.Exclusive()
		}
	default:
		return nil, fmt.Errorf("schemadef: unknown union mode %q", mode)
	}
	s, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("schemadef: union: %w", err)
	}
	return s, nil
}

func compileObject(node map[string]any, opts Options, d *simpleDiag) (gokata.Schema[map[string]any], error) {
	b := dsl.Object()
	props, _ := node["properties"].(map[string]any)
	// Decoded documents carry no key order; compile properties sorted so the
	// built schema is deterministic.
	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		pm, ok := props[name].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("schemadef: property %q must be an object, got %T", name, props[name])
		}
		ad, err := adapterFor(pm, opts, d)
		if err != nil {
			return nil, fmt.Errorf("schemadef: property %q: %w", name, err)
		}
		step := b.Field(name, ad)
		if dv, ok := pm["default"]; ok && opts.Defaults == DefaultApply {
			step.Default(dv)
		}
	}
	if raw, ok := node["required"]; ok {
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("schemadef: required must be a list, got %T", raw)
		}
		for _, r := range list {
			name, ok := r.(string)
			if !ok {
				return nil, fmt.Errorf("schemadef: required entry must be a string, got %T", r)
			}
			if _, declared := props[name]; !declared {
				return nil, fmt.Errorf("schemadef: required field %q is not declared in properties", name)
			}
			b.Require(name)
		}
	}
	switch resolveUnknown(node, opts) {
	case "strict":
		b.UnknownStrict()
	case "strip":
		b.UnknownStrip()
	default:
		return nil, fmt.Errorf("schemadef: unknown policy %q", resolveUnknown(node, opts))
	}
	return b.Build()
}

// resolveUnknown picks the unknown-key policy: Options override the document,
// the document overrides the strip default.
func resolveUnknown(node map[string]any, opts Options) string {
	switch opts.Unknown {
	case UnknownStrict:
		return "strict"
	case UnknownStrip:
		return "strip"
	}
	if u, ok := node["unknown"].(string); ok && u != "" {
		return u
	}
	return "strip"
}

func compileArray(node map[string]any, opts Options, d *simpleDiag) (dsl.ArrayBuilder[any], error) {
	var elem gokata.Schema[any]
	if raw, ok := node["items"]; ok {
		im, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("schemadef: items must be an object, got %T", raw)
		}
		es, err := compileNode(im, opts, d)
		if err != nil {
			return nil, fmt.Errorf("schemadef: items: %w", err)
		}
		elem = es
	} else {
		d.warnf("array without items accepts any element")
		elem = dsl.Any()
	}
	ab := dsl.Array[any](elem)
	if n, ok, err := docInt(node, "minItems"); err != nil {
		return nil, err
	} else if ok {
		ab = ab.Min(n)
	}
	if n, ok, err := docInt(node, "maxItems"); err != nil {
		return nil, err
	} else if ok {
		ab = ab.Max(n)
	}
	return ab, nil
}

// wrapNullable honors "nullable": true by accepting explicit nulls.
func wrapNullable(s gokata.Schema[any], node map[string]any) gokata.Schema[any] {
	if b, ok := node["nullable"].(bool); ok && b {
		return nullableAny{inner: s}
	}
	return s
}
