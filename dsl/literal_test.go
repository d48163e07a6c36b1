package dsl_test

import (
	"context"
	"encoding/json"
	"testing"

	gokata "github.com/reoring/gokata"
	g "github.com/reoring/gokata/dsl"
)

func TestLiteral_ExactValue(t *testing.T) {
	ctx := context.Background()

	s := g.Literal("active")
	got, err := s.Parse(ctx, "active")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "active" {
		t.Fatalf("unexpected value: %q", got)
	}
}

func TestLiteral_WrongContentVsWrongType(t *testing.T) {
	ctx := context.Background()

	s := g.Literal("active")

	_, err := s.Parse(ctx, "inactive")
	iss, _ := gokata.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != gokata.CodeLiteralMismatch {
		t.Fatalf("expected literal_mismatch for wrong content, got %v", iss)
	}
	if want, _ := iss[0].Params["expected"].(string); want != "active" {
		t.Fatalf("expected expected=active param, got %v", iss[0].Params)
	}

	_, err = s.Parse(ctx, 42)
	iss, _ = gokata.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != gokata.CodeTypeMismatch {
		t.Fatalf("expected type_mismatch for wrong type, got %v", iss)
	}
}

func TestLiteral_NumericAcceptsWireShapes(t *testing.T) {
	ctx := context.Background()

	s := g.Literal(2)
	for _, in := range []any{2, json.Number("2"), float64(2)} {
		got, err := s.Parse(ctx, in)
		if err != nil {
			t.Fatalf("input %#v: unexpected err: %v", in, err)
		}
		if got != 2 {
			t.Fatalf("input %#v: unexpected value %v", in, got)
		}
	}

	// A fractional wire number never equals an integer literal.
	if _, err := s.Parse(ctx, json.Number("2.5")); err == nil {
		t.Fatalf("expected failure for fractional input against int literal")
	}
}

func TestEnum_MembershipAndCodes(t *testing.T) {
	ctx := context.Background()

	s := g.Enum("small", "medium", "large")
	if _, err := s.Parse(ctx, "medium"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	_, err := s.Parse(ctx, "extra-large")
	iss, _ := gokata.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != gokata.CodeInvalidEnum {
		t.Fatalf("expected invalid_enum, got %v", iss)
	}
	allowed, _ := iss[0].Params["allowed"].([]any)
	if len(allowed) != 3 {
		t.Fatalf("expected allowed param with 3 entries, got %v", iss[0].Params)
	}

	_, err = s.Parse(ctx, true)
	iss, _ = gokata.AsIssues(err)
	if iss[0].Code != gokata.CodeTypeMismatch {
		t.Fatalf("expected type_mismatch for wrong type, got %v", iss)
	}
}

func TestNull_AcceptsOnlyNull(t *testing.T) {
	ctx := context.Background()

	s := g.Null()
	got, err := s.Parse(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != nil {
		t.Fatalf("unexpected value: %#v", got)
	}
	if _, err := s.Parse(ctx, "null"); err == nil {
		t.Fatalf("expected type_mismatch for non-null")
	}
}

func TestLiteral_InObjectField(t *testing.T) {
	ctx := context.Background()

	s := g.Object().
		Field("kind", g.LiteralOf("event")).Required().
		Field("size", g.EnumOf("s", "m", "l")).Required().
		MustBuild()

	if _, err := s.Parse(ctx, map[string]any{"kind": "event", "size": "m"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	_, err := s.Parse(ctx, map[string]any{"kind": "other", "size": "xxl"})
	iss, _ := gokata.AsIssues(err)
	if len(iss) != 2 {
		t.Fatalf("expected 2 issues, got %v", iss)
	}
	if iss[0].Path != "/kind" || iss[0].Code != gokata.CodeLiteralMismatch {
		t.Fatalf("expected literal_mismatch at /kind, got %v", iss[0])
	}
	if iss[1].Path != "/size" || iss[1].Code != gokata.CodeInvalidEnum {
		t.Fatalf("expected invalid_enum at /size, got %v", iss[1])
	}
}

func TestLiteral_JSONSchemaConstAndEnum(t *testing.T) {
	js, err := g.Literal("on").JSONSchema()
	if err != nil {
		t.Fatalf("jsonschema err: %v", err)
	}
	if js.Const != "on" {
		t.Fatalf("expected const, got %#v", js)
	}

	ejs, err := g.Enum(1, 2, 3).JSONSchema()
	if err != nil {
		t.Fatalf("jsonschema err: %v", err)
	}
	if len(ejs.Enum) != 3 {
		t.Fatalf("expected enum values, got %#v", ejs)
	}
}
