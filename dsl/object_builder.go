package dsl

import (
	"context"

	gokata "github.com/reoring/gokata"
	"github.com/reoring/gokata/i18n"
	js "github.com/reoring/gokata/jsonschema"
)

type objectBuilder struct {
	fields        map[string]AnyAdapter
	order         []string
	required      map[string]struct{}
	unknownPolicy gokata.UnknownPolicy
	unknownTarget string
	refines       []objRefine
	discriminator string
	variants      map[string]gokata.Schema[map[string]any]
	variantOrder  []string
}

type fieldStep struct {
	b    *objectBuilder
	name string
}

// Object creates a new object builder. Unknown keys are stripped by default;
// use UnknownStrict or UnknownPassthrough to change that.
func Object() *objectBuilder {
	return &objectBuilder{
		fields:        map[string]AnyAdapter{},
		required:      map[string]struct{}{},
		unknownPolicy: gokata.UnknownStrip,
	}
}

// Field registers a field with its adapter. Declaration order is retained and
// drives evaluation and issue-reporting order.
func (b *objectBuilder) Field(name string, ad AnyAdapter) *fieldStep {
	if _, exists := b.fields[name]; !exists {
		b.order = append(b.order, name)
	}
	b.fields[name] = ad
	return &fieldStep{b: b, name: name}
}

// Required marks the field as required and returns the builder.
func (f *fieldStep) Required() *objectBuilder {
	f.b.required[f.name] = struct{}{}
	return f.b
}

// Optional marks the field as optional (the default) and returns the builder.
func (f *fieldStep) Optional() *objectBuilder {
	delete(f.b.required, f.name)
	return f.b
}

// Default sets a default for the current field and exports it to JSON Schema.
// The default value is materialized by parsing it through the field schema, so
// an ill-typed default surfaces at parse time as the field's own issues.
func (f *fieldStep) Default(v any) *objectBuilder {
	ad := f.b.fields[f.name]
	ad.applyDefault = func(ctx context.Context) (any, error) { return ad.parse(ctx, v) }
	prev := ad.jsonSchema
	ad.jsonSchema = func() (*js.Schema, error) {
		if prev == nil {
			return &js.Schema{Default: v}, nil
		}
		s, err := prev()
		if err != nil {
			return nil, err
		}
		if s == nil {
			s = &js.Schema{}
		}
		s.Default = v
		return s, nil
	}
	f.b.fields[f.name] = ad
	return f.b
}

// The remaining fieldStep methods proxy to the builder so chains like
// Object().Field("a", x).Required().Field("b", y) read naturally.
func (f *fieldStep) Field(name string, ad AnyAdapter) *fieldStep { return f.b.Field(name, ad) }
func (f *fieldStep) Require(names ...string) *objectBuilder      { return f.b.Require(names...) }
func (f *fieldStep) UnknownStrict() *objectBuilder               { return f.b.UnknownStrict() }
func (f *fieldStep) UnknownStrip() *objectBuilder                { return f.b.UnknownStrip() }
func (f *fieldStep) UnknownPassthrough(target string) *objectBuilder {
	return f.b.UnknownPassthrough(target)
}
func (f *fieldStep) Refine(name string, fn func(context.Context, map[string]any) error) *objectBuilder {
	return f.b.Refine(name, fn)
}
func (f *fieldStep) Build() (gokata.Schema[map[string]any], error) { return f.b.Build() }
func (f *fieldStep) MustBuild() gokata.Schema[map[string]any]      { return f.b.MustBuild() }

// Require marks one or more fields as required.
func (b *objectBuilder) Require(names ...string) *objectBuilder {
	for _, n := range names {
		b.required[n] = struct{}{}
	}
	return b
}

// UnknownStrict rejects unknown keys with unrecognized_key issues.
func (b *objectBuilder) UnknownStrict() *objectBuilder {
	b.unknownPolicy = gokata.UnknownStrict
	b.unknownTarget = ""
	return b
}

// UnknownStrip drops unknown keys silently. This is the default.
func (b *objectBuilder) UnknownStrip() *objectBuilder {
	b.unknownPolicy = gokata.UnknownStrip
	b.unknownTarget = ""
	return b
}

// UnknownPassthrough collects unknown keys into the named target field, which
// must be declared and accept map[string]any.
func (b *objectBuilder) UnknownPassthrough(target string) *objectBuilder {
	b.unknownPolicy = gokata.UnknownPassthrough
	b.unknownTarget = target
	return b
}

// Refine adds an object-level refinement executed after field collection.
func (b *objectBuilder) Refine(name string, fn func(context.Context, map[string]any) error) *objectBuilder {
	if fn == nil {
		return b
	}
	b.refines = append(b.refines, objRefine{name: name, fn: fn})
	return b
}

// Discriminator sets the discriminator key for a discriminated union.
func (b *objectBuilder) Discriminator(key string) *objectBuilder {
	b.discriminator = key
	return b
}

// UnionVariant defines a named variant schema for discriminated unions.
type UnionVariant struct {
	name   string
	schema gokata.Schema[map[string]any]
}

// Variant constructs a UnionVariant.
func Variant(name string, s gokata.Schema[map[string]any]) UnionVariant {
	return UnionVariant{name: name, schema: s}
}

// OneOf registers union variants when a discriminator is set.
func (b *objectBuilder) OneOf(vars ...UnionVariant) *objectBuilder {
	if len(vars) == 0 {
		return b
	}
	if b.variants == nil {
		b.variants = make(map[string]gokata.Schema[map[string]any], len(vars))
	}
	for _, v := range vars {
		if v.name == "" || v.schema == nil {
			continue
		}
		if _, exists := b.variants[v.name]; !exists {
			b.variantOrder = append(b.variantOrder, v.name)
		}
		b.variants[v.name] = v.schema
	}
	return b
}

// Build validates the builder and returns a Schema.
func (b *objectBuilder) Build() (gokata.Schema[map[string]any], error) {
	if b.discriminator != "" && len(b.variants) > 0 {
		return &discriminatedSchema{discriminator: b.discriminator, mapping: b.variants, order: b.variantOrder}, nil
	}
	if b.unknownPolicy == gokata.UnknownPassthrough {
		ad, ok := b.fields[b.unknownTarget]
		if !ok || b.unknownTarget == "" {
			return nil, gokata.Issues{gokata.Issue{Path: "/", Code: gokata.CodeParseError, Message: i18n.T(gokata.CodeParseError, nil), Hint: "unknown_target missing for passthrough"}}
		}
		// The target adapter must accept map[string]any.
		if err := ad.validateValue(context.Background(), map[string]any{}); err != nil {
			return nil, gokata.Issues{gokata.Issue{Path: "/" + b.unknownTarget, Code: gokata.CodeTypeMismatch, Message: i18n.T(gokata.CodeTypeMismatch, nil), Hint: "unknown_target must be map[string]any"}}
		}
	}
	order := make([]string, len(b.order))
	copy(order, b.order)
	return &objectSchema{
		fields:        b.fields,
		order:         order,
		required:      b.required,
		unknownPolicy: b.unknownPolicy,
		unknownTarget: b.unknownTarget,
		refines:       b.refines,
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() gokata.Schema[map[string]any] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
