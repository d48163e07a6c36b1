package dsl

import (
	"context"
	"reflect"

	gokata "github.com/reoring/gokata"
	js "github.com/reoring/gokata/jsonschema"
)

// Bind builds an object schema and binds it to struct type T. Wire keys are
// matched to struct fields via the `gokata` tag, then the `json` tag, then the
// field name.
func Bind[T any](b *objectBuilder) (gokata.Schema[T], error) {
	s, err := b.Build()
	if err != nil {
		var zero gokata.Schema[T]
		return zero, err
	}
	os, ok := s.(*objectSchema)
	if !ok {
		var zero gokata.Schema[T]
		return zero, gokata.Issues{gokata.Issue{Path: "/", Code: gokata.CodeParseError, Message: "unexpected schema type for Bind"}}
	}
	return newTypedObjectSchema[T](os)
}

// MustBind is like Bind but panics on error.
func MustBind[T any](b *objectBuilder) gokata.Schema[T] {
	s, err := Bind[T](b)
	if err != nil {
		panic(err)
	}
	return s
}

// typedObjectSchema adapts an objectSchema to a typed struct T using key resolution.
type typedObjectSchema[T any] struct {
	inner      *objectSchema
	t          reflect.Type
	fieldByKey map[string]int // wire key -> struct field index
}

func newTypedObjectSchema[T any](os *objectSchema) (gokata.Schema[T], error) {
	var zero gokata.Schema[T]
	var t T
	rt := reflect.TypeOf(t)
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return zero, gokata.Issues{gokata.Issue{Path: "/", Code: gokata.CodeParseError, Message: "Bind[T] requires struct T"}}
	}
	idxByName := make(map[string]int)
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := gokata.ResolveStructKey(sf)
		if name == "-" || name == "" {
			continue
		}
		idxByName[name] = i
	}
	fm := make(map[string]int)
	for k := range os.fields {
		if i, ok := idxByName[k]; ok {
			fm[k] = i
		}
	}
	return &typedObjectSchema[T]{inner: os, t: rt, fieldByKey: fm}, nil
}

// Parse maps wire -> map via the inner object schema, then fills struct fields.
func (s *typedObjectSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	var zero T
	m, err := s.inner.Parse(ctx, v)
	if err != nil {
		return zero, err
	}
	rv := reflect.New(s.t).Elem()
	for key, idx := range s.fieldByKey {
		val, ok := m[key]
		if !ok {
			continue
		}
		fv := rv.Field(idx)
		if !fv.CanSet() {
			continue
		}
		if val == nil {
			// Explicit nulls zero out nillable fields and leave the rest alone.
			switch fv.Kind() {
			case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
				fv.Set(reflect.Zero(fv.Type()))
			}
			continue
		}
		vv := reflect.ValueOf(val)
		switch {
		case vv.Type().AssignableTo(fv.Type()):
			fv.Set(vv)
		case vv.Type().ConvertibleTo(fv.Type()):
			fv.Set(vv.Convert(fv.Type()))
		default:
			return zero, gokata.Issues{gokata.Issue{Path: "/" + key, Code: gokata.CodeTypeMismatch, Message: "field type mismatch"}}
		}
	}
	return rv.Interface().(T), nil
}

func (s *typedObjectSchema[T]) Validate(ctx context.Context, v any) error {
	return s.inner.Validate(ctx, v)
}

func (s *typedObjectSchema[T]) ValidateValue(ctx context.Context, v T) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	m := make(map[string]any, len(s.fieldByKey))
	for key, idx := range s.fieldByKey {
		fv := rv.Field(idx)
		if !fv.IsValid() {
			continue
		}
		// Zero values count as present so typed structs do not trip required checks.
		m[key] = fv.Interface()
	}
	return s.inner.ValidateValue(ctx, m)
}

func (s *typedObjectSchema[T]) JSONSchema() (*js.Schema, error) { return s.inner.JSONSchema() }
