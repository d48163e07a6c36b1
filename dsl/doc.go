// Package dsl provides the type-safe schema DSL for gokata.
//
// Overview
//   - Builder API: declare JSON object semantics (fields/required/default/unknown/refine)
//     with Object()/Field()/Required()/MustBuild(). Field declaration order is
//     retained and drives issue-reporting order.
//   - Typed build: project wire -> T with ObjectOf[T]().Field(...).MustBind() or Bind[T].
//   - Primitives: String()/Bool()/NumberJSON(), plus Literal(v), Enum(vs...), Null().
//   - Composites: Array(elem), Map(elem), MapAny().
//   - Union: Union[T](a, b, ...).MustBuild() tries candidates in order; first full
//     parse success wins. Union(...).Exclusive() rejects ambiguous inputs instead.
//   - Transform/Refine: Transform(s, fn) maps the parsed value to a new type;
//     Refine(s, name, fn) validates without changing it.
//   - AnyAdapter: adapt any Schema[T] via SchemaOf[T](s) to embed into builders.
//
// Entry points
//   - Object(): create an object builder; chain Field/Required/Unknown* then MustBuild()/Build().
//   - ObjectOf[T](): typed builder; finish with MustBind()/Bind to construct Schema[T].
//   - Union[T](candidates...): ordered-candidate union builder; finish with MustBuild()/Build().
//   - Array(elem), Map(elem)/MapAny(): composite schemas.
//   - Transform(s, fn), Refine(s, name, fn): derived schemas.
//
// Error model: failures are gokata.Issues with JSON Pointer paths. Objects and
// arrays evaluate every member and aggregate issues; fail-fast is an explicit
// parse option, never the default. Union failures lead with no_matching_schema
// and carry each candidate's issues tagged with Params["candidate"].
//
// Example (quickstart)
//
//	package main
//
//	import (
//	    "context"
//	    g "github.com/reoring/gokata/dsl"
//	    "github.com/reoring/gokata"
//	)
//
//	type User struct {
//	    ID    string `json:"id"`
//	    Email string `json:"email"`
//	}
//
//	func main() {
//	    ctx := context.Background()
//	    user := g.ObjectOf[User]().
//	        Field("id",    g.StringOf[string]()).
//	        Field("email", g.StringOf[string]()).
//	        Require("id", "email").
//	        MustBind()
//
//	    data := []byte(`{"id":"u_1","email":"x@example.com"}`)
//	    _, _ = gokata.ParseFrom(ctx, user, gokata.JSONBytes(data))
//	}
//
// Example (union)
//
//	id := g.Union[any](
//	    g.SchemaAsAny(g.String()),
//	    g.SchemaAsAny(g.NumberJSON()),
//	).MustBuild()
//	v, err := gokata.Parse(ctx, id, "u_42")
//
// Example (transform chaining)
//
//	trimmed := g.Transform(g.String(), func(ctx context.Context, s string) (string, error) {
//	    return strings.TrimSpace(s), nil
//	})
//	upper := g.Transform(trimmed, func(ctx context.Context, s string) (string, error) {
//	    return strings.ToUpper(s), nil
//	})
//	// upper parses "  a  " to "A"; the inner transform runs first.
//
// Example (UnknownPassthrough)
//
//	obj := g.Object().
//	    Field("known",    g.StringOf[string]()).
//	    Field("_unknown", g.SchemaOf[map[string]any](g.MapAny())).
//	    UnknownPassthrough("_unknown").
//	    MustBuild()
//	val, _ := gokata.ParseFrom(ctx, obj, gokata.JSONBytes([]byte(`{"known":"ok","x":1}`)))
//	// val["_unknown"] stores {"x":1}
//
// Example (Refine: cross-field validation)
//
//	obj := g.Object().
//	    Field("email",   g.StringOf[string]()).
//	    Field("confirm", g.StringOf[string]()).
//	    Require("email", "confirm").
//	    Refine("email==confirm", func(ctx context.Context, m map[string]any) error {
//	        if m["email"] != m["confirm"] {
//	            return fmt.Errorf("confirm must match email")
//	        }
//	        return nil
//	    }).
//	    MustBuild()
//	_, err := gokata.ParseFrom(ctx, obj, gokata.JSONBytes([]byte(`{"email":"a","confirm":"b"}`)))
//	_ = err // Issues with code refinement_failed
//
// JSON Schema output hints
//
//	sch, _ := s.JSONSchema()
//	// UnknownStrict => additionalProperties=false,
//	// UnknownStrip/UnknownPassthrough => additionalProperties=true
package dsl
