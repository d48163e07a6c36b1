package schemadef_test

import (
	"context"
	"strings"
	"testing"

	gokata "github.com/reoring/gokata"
	"github.com/reoring/gokata/schemadef"
)

func mustCompile(t *testing.T, doc any, opts schemadef.Options) gokata.Schema[any] {
	t.Helper()
	s, _, err := schemadef.Compile(doc, opts)
	if err != nil {
		t.Fatalf("compile err: %v", err)
	}
	return s
}

func issuesOf(t *testing.T, err error) gokata.Issues {
	t.Helper()
	iss, ok := gokata.AsIssues(err)
	if !ok {
		t.Fatalf("expected issues, got %v", err)
	}
	return iss
}

func TestCompile_FromJSONBytes(t *testing.T) {
	ctx := context.Background()
	doc := []byte(`{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age":  {"type": "integer"}
		},
		"required": ["name"]
	}`)
	s := mustCompile(t, doc, schemadef.Options{})

	out, err := gokata.ParseFrom(ctx, s, gokata.JSONBytes([]byte(`{"name":"alice","age":30}`)))
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	m, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("expected map output, got %T", out)
	}
	if m["name"] != "alice" {
		t.Fatalf("unexpected name: %v", m["name"])
	}

	_, err = gokata.ParseFrom(ctx, s, gokata.JSONBytes([]byte(`{"age":30}`)))
	iss := issuesOf(t, err)
	if iss[0].Path != "/name" || iss[0].Code != gokata.CodeMissingField {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}
}

func TestCompile_FromMapDocument(t *testing.T) {
	ctx := context.Background()
	doc := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{"type": "string"},
		},
		"required": []any{"id"},
	}
	s := mustCompile(t, doc, schemadef.Options{})

	if _, err := s.Parse(ctx, map[string]any{"id": "x"}); err != nil {
		t.Fatalf("parse err: %v", err)
	}
	_, err := s.Parse(ctx, map[string]any{"id": 42})
	iss := issuesOf(t, err)
	if iss[0].Path != "/id" || iss[0].Code != gokata.CodeTypeMismatch {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}
}

func TestCompile_RejectsUnsupportedDocumentType(t *testing.T) {
	if _, _, err := schemadef.Compile(42, schemadef.Options{}); err == nil {
		t.Fatalf("expected unsupported document type to fail")
	}
	if _, _, err := schemadef.Compile(nil, schemadef.Options{}); err == nil {
		t.Fatalf("expected nil document to fail")
	}
}

func TestCompile_StringBounds(t *testing.T) {
	ctx := context.Background()
	doc := map[string]any{"type": "string", "minLength": 2, "maxLength": 4}
	s := mustCompile(t, doc, schemadef.Options{})

	if _, err := s.Parse(ctx, "abc"); err != nil {
		t.Fatalf("parse err: %v", err)
	}

	_, err := s.Parse(ctx, "a")
	iss := issuesOf(t, err)
	if iss[0].Code != gokata.CodeTooShort {
		t.Fatalf("unexpected code: %s", iss[0].Code)
	}
	if iss[0].Params["min"] != 2 || iss[0].Params["actual"] != 1 {
		t.Fatalf("unexpected params: %+v", iss[0].Params)
	}

	_, err = s.Parse(ctx, "abcde")
	iss = issuesOf(t, err)
	if iss[0].Code != gokata.CodeTooLong {
		t.Fatalf("unexpected code: %s", iss[0].Code)
	}
}

func TestCompile_StringPattern(t *testing.T) {
	ctx := context.Background()
	doc := map[string]any{"type": "string", "pattern": "^[a-z]+$"}
	s := mustCompile(t, doc, schemadef.Options{})

	if _, err := s.Parse(ctx, "abc"); err != nil {
		t.Fatalf("parse err: %v", err)
	}
	_, err := s.Parse(ctx, "ABC")
	iss := issuesOf(t, err)
	if iss[0].Code != gokata.CodeRefinementFailed {
		t.Fatalf("unexpected code: %s", iss[0].Code)
	}
}

func TestCompile_BadPatternIsHardError(t *testing.T) {
	doc := map[string]any{"type": "string", "pattern": "("}
	if _, _, err := schemadef.Compile(doc, schemadef.Options{}); err == nil {
		t.Fatalf("expected invalid pattern to fail compilation")
	}
}

func TestCompile_IntegerRejectsFraction(t *testing.T) {
	ctx := context.Background()
	s := mustCompile(t, map[string]any{"type": "integer"}, schemadef.Options{})

	if _, err := gokata.ParseFrom(ctx, s, gokata.JSONBytes([]byte(`7`))); err != nil {
		t.Fatalf("parse err: %v", err)
	}
	_, err := gokata.ParseFrom(ctx, s, gokata.JSONBytes([]byte(`7.5`)))
	iss := issuesOf(t, err)
	if iss[0].Code != gokata.CodeTypeMismatch {
		t.Fatalf("unexpected code: %s", iss[0].Code)
	}
	if iss[0].Hint != "expected integer" {
		t.Fatalf("unexpected hint: %s", iss[0].Hint)
	}
}

func TestCompile_NumberBounds(t *testing.T) {
	ctx := context.Background()
	doc := map[string]any{"type": "number", "minimum": 0, "maximum": 100}
	s := mustCompile(t, doc, schemadef.Options{})

	if _, err := gokata.ParseFrom(ctx, s, gokata.JSONBytes([]byte(`42`))); err != nil {
		t.Fatalf("parse err: %v", err)
	}

	_, err := gokata.ParseFrom(ctx, s, gokata.JSONBytes([]byte(`-1`)))
	iss := issuesOf(t, err)
	if iss[0].Code != gokata.CodeTooSmall {
		t.Fatalf("unexpected code: %s", iss[0].Code)
	}

	_, err = gokata.ParseFrom(ctx, s, gokata.JSONBytes([]byte(`101`)))
	iss = issuesOf(t, err)
	if iss[0].Code != gokata.CodeTooBig {
		t.Fatalf("unexpected code: %s", iss[0].Code)
	}
}

func TestCompile_NumberCoerceFromString(t *testing.T) {
	ctx := context.Background()
	doc := map[string]any{"type": "number", "coerce": true}
	s := mustCompile(t, doc, schemadef.Options{})

	if _, err := s.Parse(ctx, "42"); err != nil {
		t.Fatalf("parse err: %v", err)
	}
}

func TestCompile_EnumAndLiteral(t *testing.T) {
	ctx := context.Background()

	es := mustCompile(t, map[string]any{"enum": []any{"red", "green", "blue"}}, schemadef.Options{})
	if _, err := es.Parse(ctx, "green"); err != nil {
		t.Fatalf("enum parse err: %v", err)
	}
	_, err := es.Parse(ctx, "yellow")
	iss := issuesOf(t, err)
	if iss[0].Code != gokata.CodeInvalidEnum {
		t.Fatalf("unexpected code: %s", iss[0].Code)
	}

	ls := mustCompile(t, map[string]any{"literal": "on"}, schemadef.Options{})
	if _, err := ls.Parse(ctx, "on"); err != nil {
		t.Fatalf("literal parse err: %v", err)
	}
	_, err = ls.Parse(ctx, "off")
	iss = issuesOf(t, err)
	if iss[0].Code != gokata.CodeLiteralMismatch {
		t.Fatalf("unexpected code: %s", iss[0].Code)
	}

	ns := mustCompile(t, map[string]any{"literal": 2}, schemadef.Options{})
	if _, err := gokata.ParseFrom(ctx, ns, gokata.JSONBytes([]byte(`2`))); err != nil {
		t.Fatalf("numeric literal parse err: %v", err)
	}
}

func TestCompile_UnionModeFromDocument(t *testing.T) {
	ctx := context.Background()
	doc := map[string]any{
		"union": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "number"},
		},
	}
	s := mustCompile(t, doc, schemadef.Options{})

	if _, err := s.Parse(ctx, "hello"); err != nil {
		t.Fatalf("string candidate err: %v", err)
	}
	if _, err := gokata.ParseFrom(ctx, s, gokata.JSONBytes([]byte(`42`))); err != nil {
		t.Fatalf("number candidate err: %v", err)
	}

	_, err := s.Parse(ctx, true)
	iss := issuesOf(t, err)
	if iss[0].Code != gokata.CodeNoMatchingSchema {
		t.Fatalf("unexpected code: %s", iss[0].Code)
	}
}

func TestCompile_UnionExclusiveFromDocument(t *testing.T) {
	ctx := context.Background()
	doc := map[string]any{
		"mode": "exclusive",
		"union": []any{
			map[string]any{"type": "object", "properties": map[string]any{"a": map[string]any{"type": "string"}}},
			map[string]any{"type": "object", "properties": map[string]any{"b": map[string]any{"type": "string"}}},
		},
	}
	s := mustCompile(t, doc, schemadef.Options{})

	// Both candidates strip unknowns, so an empty object matches both.
	_, err := s.Parse(ctx, map[string]any{})
	iss := issuesOf(t, err)
	if len(iss) != 1 || iss[0].Code != gokata.CodeAmbiguousMatch {
		t.Fatalf("expected ambiguous_match, got %v", err)
	}
}

func TestCompile_UnionOptionsFallbackAndDocPrecedence(t *testing.T) {
	ctx := context.Background()
	cands := []any{
		map[string]any{"type": "object", "properties": map[string]any{"a": map[string]any{"type": "string"}}},
		map[string]any{"type": "object", "properties": map[string]any{"b": map[string]any{"type": "string"}}},
	}

	// No mode in the document: Options decide.
	s := mustCompile(t, map[string]any{"union": cands}, schemadef.Options{Union: schemadef.UnionExclusive})
	_, err := s.Parse(ctx, map[string]any{})
	iss := issuesOf(t, err)
	if iss[0].Code != gokata.CodeAmbiguousMatch {
		t.Fatalf("expected options to enable exclusive, got %v", err)
	}

	// Explicit first_match in the document wins over Options.
	s = mustCompile(t, map[string]any{"union": cands, "mode": "first_match"}, schemadef.Options{Union: schemadef.UnionExclusive})
	if _, err := s.Parse(ctx, map[string]any{}); err != nil {
		t.Fatalf("expected first candidate to win, got %v", err)
	}
}

func TestCompile_UnionStructuralErrors(t *testing.T) {
	if _, _, err := schemadef.Compile(map[string]any{"union": "nope"}, schemadef.Options{}); err == nil {
		t.Fatalf("expected non-list union to fail")
	}
	if _, _, err := schemadef.Compile(map[string]any{"union": []any{"x", "y"}}, schemadef.Options{}); err == nil {
		t.Fatalf("expected non-object candidate to fail")
	}
	if _, _, err := schemadef.Compile(map[string]any{
		"union": []any{map[string]any{"type": "string"}},
	}, schemadef.Options{}); err == nil {
		t.Fatalf("expected single-candidate union to fail")
	}
	if _, _, err := schemadef.Compile(map[string]any{
		"union": []any{map[string]any{"type": "string"}, map[string]any{"type": "number"}},
		"mode":  "best_effort",
	}, schemadef.Options{}); err == nil {
		t.Fatalf("expected unknown mode to fail")
	}
}

func TestCompile_UnknownPolicyPrecedence(t *testing.T) {
	ctx := context.Background()
	doc := map[string]any{
		"type":       "object",
		"properties": map[string]any{"a": map[string]any{"type": "string"}},
		"unknown":    "strict",
	}

	// Document says strict.
	s := mustCompile(t, doc, schemadef.Options{})
	_, err := s.Parse(ctx, map[string]any{"a": "x", "extra": 1})
	iss := issuesOf(t, err)
	if iss[0].Path != "/extra" || iss[0].Code != gokata.CodeUnrecognizedKey {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}

	// Options override the document back to strip.
	s = mustCompile(t, doc, schemadef.Options{Unknown: schemadef.UnknownStrip})
	out, err := s.Parse(ctx, map[string]any{"a": "x", "extra": 1})
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if _, kept := out.(map[string]any)["extra"]; kept {
		t.Fatalf("expected extra key to be stripped")
	}

	// Silent document defaults to strip; Options can force strict.
	silent := map[string]any{
		"type":       "object",
		"properties": map[string]any{"a": map[string]any{"type": "string"}},
	}
	s = mustCompile(t, silent, schemadef.Options{})
	if _, err := s.Parse(ctx, map[string]any{"a": "x", "extra": 1}); err != nil {
		t.Fatalf("silent document should strip, got %v", err)
	}
	s = mustCompile(t, silent, schemadef.Options{Unknown: schemadef.UnknownStrict})
	if _, err := s.Parse(ctx, map[string]any{"a": "x", "extra": 1}); err == nil {
		t.Fatalf("expected options to force strict")
	}
}

func TestCompile_DefaultsAppliedOnlyWhenOptedIn(t *testing.T) {
	ctx := context.Background()
	doc := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"role": map[string]any{"type": "string", "default": "viewer"},
		},
	}

	s := mustCompile(t, doc, schemadef.Options{Defaults: schemadef.DefaultApply})
	out, err := s.Parse(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if out.(map[string]any)["role"] != "viewer" {
		t.Fatalf("default not applied: %v", out)
	}

	s = mustCompile(t, doc, schemadef.Options{})
	out, err = s.Parse(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if _, present := out.(map[string]any)["role"]; present {
		t.Fatalf("default should be ignored without DefaultApply")
	}
}

func TestCompile_NullableWrapsAnyNode(t *testing.T) {
	ctx := context.Background()

	s := mustCompile(t, map[string]any{"type": "string", "nullable": true}, schemadef.Options{})
	out, err := s.Parse(ctx, nil)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil, got %v", out)
	}
	if _, err := s.Parse(ctx, "x"); err != nil {
		t.Fatalf("parse err: %v", err)
	}

	// Nullable composes with enum nodes too.
	es := mustCompile(t, map[string]any{"enum": []any{"a", "b"}, "nullable": true}, schemadef.Options{})
	if _, err := es.Parse(ctx, nil); err != nil {
		t.Fatalf("nullable enum should accept null: %v", err)
	}
}

func TestCompile_ArrayItemsAndBounds(t *testing.T) {
	ctx := context.Background()
	doc := map[string]any{
		"type":     "array",
		"items":    map[string]any{"type": "string"},
		"minItems": 1,
		"maxItems": 2,
	}
	s := mustCompile(t, doc, schemadef.Options{})

	if _, err := s.Parse(ctx, []any{"a"}); err != nil {
		t.Fatalf("parse err: %v", err)
	}

	_, err := s.Parse(ctx, []any{})
	iss := issuesOf(t, err)
	if iss[0].Code != gokata.CodeTooShort {
		t.Fatalf("unexpected code: %s", iss[0].Code)
	}

	_, err = s.Parse(ctx, []any{"a", "b", "c"})
	iss = issuesOf(t, err)
	if iss[0].Code != gokata.CodeTooLong {
		t.Fatalf("unexpected code: %s", iss[0].Code)
	}

	_, err = s.Parse(ctx, []any{"a", 2})
	iss = issuesOf(t, err)
	if iss[0].Path != "/1" || iss[0].Code != gokata.CodeTypeMismatch {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}
}

func TestCompile_RequiredMustBeDeclared(t *testing.T) {
	doc := map[string]any{
		"type":       "object",
		"properties": map[string]any{"a": map[string]any{"type": "string"}},
		"required":   []any{"missing"},
	}
	if _, _, err := schemadef.Compile(doc, schemadef.Options{}); err == nil {
		t.Fatalf("expected undeclared required field to fail")
	}
}

func TestCompile_LenientConstructsWarn(t *testing.T) {
	ctx := context.Background()

	s, diag, err := schemadef.Compile(map[string]any{"type": "frobnicate"}, schemadef.Options{})
	if err != nil {
		t.Fatalf("compile err: %v", err)
	}
	if !diag.HasWarnings() {
		t.Fatalf("expected a warning for unknown type")
	}
	if _, err := s.Parse(ctx, "anything"); err != nil {
		t.Fatalf("unknown type should accept any value: %v", err)
	}

	_, diag, err = schemadef.Compile(map[string]any{"type": "array"}, schemadef.Options{})
	if err != nil {
		t.Fatalf("compile err: %v", err)
	}
	found := false
	for _, w := range diag.Warnings() {
		if strings.Contains(w, "items") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected items warning, got %v", diag.Warnings())
	}

	_, diag, err = schemadef.Compile(map[string]any{"enum": []any{"a", 1}}, schemadef.Options{})
	if err != nil {
		t.Fatalf("compile err: %v", err)
	}
	if !diag.HasWarnings() {
		t.Fatalf("expected mixed enum warning")
	}
}

func TestCompileYAML_Document(t *testing.T) {
	ctx := context.Background()
	doc := []byte(`
type: object
properties:
  name:
    type: string
  replicas:
    type: integer
    minimum: 1
required:
  - name
unknown: strict
`)
	s, diag, err := schemadef.CompileYAML(doc, schemadef.Options{})
	if err != nil {
		t.Fatalf("compile err: %v", err)
	}
	if diag.HasWarnings() {
		t.Fatalf("unexpected warnings: %v", diag.Warnings())
	}

	out, err := gokata.ParseFrom(ctx, s, gokata.YAMLBytes([]byte("name: web\nreplicas: 3\n")))
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if out.(map[string]any)["name"] != "web" {
		t.Fatalf("unexpected output: %v", out)
	}

	_, err = gokata.ParseFrom(ctx, s, gokata.YAMLBytes([]byte("name: web\nreplicas: 0\n")))
	iss := issuesOf(t, err)
	if iss[0].Path != "/replicas" || iss[0].Code != gokata.CodeTooSmall {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}

	_, err = gokata.ParseFrom(ctx, s, gokata.YAMLBytes([]byte("name: web\nowner: ops\n")))
	iss = issuesOf(t, err)
	if iss[0].Path != "/owner" || iss[0].Code != gokata.CodeUnrecognizedKey {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}
}

func TestCompile_NestedObjectPaths(t *testing.T) {
	ctx := context.Background()
	doc := []byte(`{
		"type": "object",
		"properties": {
			"spec": {
				"type": "object",
				"properties": {
					"image": {"type": "string"}
				},
				"required": ["image"]
			}
		},
		"required": ["spec"]
	}`)
	s := mustCompile(t, doc, schemadef.Options{})

	_, err := gokata.ParseFrom(ctx, s, gokata.JSONBytes([]byte(`{"spec":{}}`)))
	iss := issuesOf(t, err)
	if iss[0].Path != "/spec/image" || iss[0].Code != gokata.CodeMissingField {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}
}
