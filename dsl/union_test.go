package dsl_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	gokata "github.com/reoring/gokata"
	g "github.com/reoring/gokata/dsl"
)

const testCardNumber = "4111111111111111"

func TestUnion_OrderedFirstMatchWins(t *testing.T) {
	ctx := context.Background()

	// Both candidates accept "hello"; the first must win every time.
	upper := g.Transform[string, string](g.String(), func(_ context.Context, s string) (string, error) {
		return strings.ToUpper(s), nil
	})
	lower := g.Transform[string, string](g.String(), func(_ context.Context, s string) (string, error) {
		return strings.ToLower(s), nil
	})

	u, err := g.Union[string](upper, lower).Build()
	if err != nil {
		t.Fatalf("build err: %v", err)
	}
	for i := 0; i < 100; i++ {
		got, err := u.Parse(ctx, "Hello")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if got != "HELLO" {
			t.Fatalf("first candidate must win, got %q", got)
		}
	}
}

func TestUnion_LaterCandidatesNotEvaluatedAfterWin(t *testing.T) {
	ctx := context.Background()

	var secondRuns int
	first := g.SchemaAsAny(g.String())
	second := g.Transform[string, any](g.String(), func(_ context.Context, s string) (any, error) {
		secondRuns++
		return s, nil
	})

	u := g.Union[any](first, second).MustBuild()
	if _, err := u.Parse(ctx, "x"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if secondRuns != 0 {
		t.Fatalf("second candidate evaluated %d times after first matched", secondRuns)
	}
}

func TestUnion_FallsThroughToLaterCandidate(t *testing.T) {
	ctx := context.Background()

	u := g.Union[any](
		g.SchemaAsAny(g.String()),
		g.SchemaAsAny(g.NumberJSON()),
	).MustBuild()

	got, err := u.Parse(ctx, json.Number("42"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.(json.Number) != json.Number("42") {
		t.Fatalf("unexpected value: %#v", got)
	}
}

func TestUnion_NoMatchAggregatesAllCandidates(t *testing.T) {
	ctx := context.Background()

	u := g.Union[any](
		g.SchemaAsAny(g.String()),
		g.SchemaAsAny(g.Bool()),
	).MustBuild()

	_, err := u.Parse(ctx, []any{"not", "a", "scalar"})
	if err == nil {
		t.Fatalf("expected no_matching_schema")
	}
	iss, ok := gokata.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %T", err)
	}
	if iss[0].Code != gokata.CodeNoMatchingSchema || iss[0].Path != "/" {
		t.Fatalf("expected leading no_matching_schema at /, got %v", iss[0])
	}
	if n, _ := iss[0].Params["candidates"].(int); n != 2 {
		t.Fatalf("expected candidates=2 param, got %v", iss[0].Params)
	}
	// One tagged failure per candidate follows the lead issue.
	seen := map[int]bool{}
	for _, it := range iss[1:] {
		if c, ok := it.Params["candidate"].(int); ok {
			seen[c] = true
		}
	}
	if !seen[0] || !seen[1] {
		t.Fatalf("expected tagged issues for both candidates, got %v", iss)
	}
}

func TestUnion_ExclusiveRejectsAmbiguous(t *testing.T) {
	ctx := context.Background()

	var transforms int
	a := g.Transform[string, any](g.String(), func(_ context.Context, s string) (any, error) {
		transforms++
		return s, nil
	})
	b := g.Transform[string, any](g.String(), func(_ context.Context, s string) (any, error) {
		transforms++
		return strings.ToUpper(s), nil
	})

	u := g.Union[any](a, b).Exclusive().MustBuild()
	_, err := u.Parse(ctx, "hello")
	if err == nil {
		t.Fatalf("expected ambiguous_match")
	}
	iss, _ := gokata.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != gokata.CodeAmbiguousMatch {
		t.Fatalf("expected single ambiguous_match, got %v", iss)
	}
	if transforms != 0 {
		t.Fatalf("no transform may run on ambiguous input, ran %d", transforms)
	}
}

func TestUnion_ExclusiveUniqueMatchParses(t *testing.T) {
	ctx := context.Background()

	u := g.Union[any](
		g.SchemaAsAny(g.String()),
		g.SchemaAsAny(g.Bool()),
	).Exclusive().MustBuild()

	got, err := u.Parse(ctx, true)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != true {
		t.Fatalf("unexpected value: %#v", got)
	}
}

func TestUnion_ExclusiveNoMatch(t *testing.T) {
	ctx := context.Background()

	u := g.Union[any](
		g.SchemaAsAny(g.String()),
		g.SchemaAsAny(g.Bool()),
	).Exclusive().MustBuild()

	_, err := u.Parse(ctx, []any{})
	if err == nil {
		t.Fatalf("expected no_matching_schema")
	}
	iss, _ := gokata.AsIssues(err)
	if iss[0].Code != gokata.CodeNoMatchingSchema {
		t.Fatalf("expected no_matching_schema, got %v", iss)
	}
}

func TestUnion_FailedCandidateIssuesCarryIndex(t *testing.T) {
	ctx := context.Background()

	// Every candidate fails; each aggregated issue must carry its candidate's index.
	refined := g.Refine[string](g.String(), "nonempty", func(_ context.Context, s string) error {
		if s == "" {
			return errors.New("empty")
		}
		return nil
	})
	u := g.Union[any](
		g.SchemaAsAny(g.Bool()),
		g.SchemaAsAny(refined),
	).MustBuild()

	_, err := u.Parse(ctx, "")
	if err == nil {
		t.Fatalf("expected refinement failure")
	}
	iss, _ := gokata.AsIssues(err)
	var found bool
	for _, it := range iss {
		if it.Code == gokata.CodeRefinementFailed {
			if c, _ := it.Params["candidate"].(int); c != 1 {
				t.Fatalf("expected candidate=1 tag, got %v", it.Params)
			}
			found = true
		}
	}
	if !found {
		t.Fatalf("expected refinement_failed among %v", iss)
	}
}

func TestUnion_ExclusiveWinnerParseFailureTagged(t *testing.T) {
	ctx := context.Background()

	// "" structurally matches only candidate 1 (candidate 0 is bool); the unique
	// match then fails its refinement at parse time.
	refined := g.Refine[string](g.String(), "nonempty", func(_ context.Context, s string) error {
		if s == "" {
			return errors.New("empty")
		}
		return nil
	})
	u := g.Union[any](
		g.SchemaAsAny(g.Bool()),
		g.SchemaAsAny(refined),
	).Exclusive().MustBuild()

	_, err := u.Parse(ctx, "")
	if err == nil {
		t.Fatalf("expected refinement failure")
	}
	iss, _ := gokata.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != gokata.CodeRefinementFailed {
		t.Fatalf("expected single refinement_failed, got %v", iss)
	}
	if c, _ := iss[0].Params["candidate"].(int); c != 1 {
		t.Fatalf("expected candidate=1 tag, got %v", iss[0].Params)
	}
}

func TestUnion_BuildRequiresTwoCandidates(t *testing.T) {
	if _, err := g.Union[string](g.String()).Build(); err == nil {
		t.Fatalf("expected build error for single-candidate union")
	}
	if _, err := g.Union[string](g.String(), nil).Build(); err == nil {
		t.Fatalf("expected build error for nil candidate")
	}
}

func TestUnion_ValidateDoesNotRunTransforms(t *testing.T) {
	ctx := context.Background()

	var runs int
	tr := g.Transform[string, any](g.String(), func(_ context.Context, s string) (any, error) {
		runs++
		return s, nil
	})
	u := g.Union[any](tr, g.SchemaAsAny(g.Bool())).MustBuild()

	if err := u.Validate(ctx, "x"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if runs != 0 {
		t.Fatalf("Validate must not run transforms, ran %d", runs)
	}
}

func TestUnion_JSONSchema_OneOfOrder(t *testing.T) {
	u := g.Union[any](
		g.SchemaAsAny(g.String()),
		g.SchemaAsAny(g.Bool()),
	).MustBuild()

	js, err := u.JSONSchema()
	if err != nil {
		t.Fatalf("jsonschema err: %v", err)
	}
	if len(js.OneOf) != 2 || js.OneOf[0].Type != "string" || js.OneOf[1].Type != "boolean" {
		t.Fatalf("expected ordered oneOf [string boolean], got: %#v", js.OneOf)
	}
}

func TestUnion_Discriminator_HappyPath(t *testing.T) {
	ctx := context.Background()

	card, _ := g.Object().
		Field("type", g.StringOf[string]()).
		Field("number", g.StringOf[string]()).
		Require("number").
		UnknownStrict().
		Build()

	bank, _ := g.Object().
		Field("type", g.StringOf[string]()).
		Field("iban", g.StringOf[string]()).
		Require("iban").
		UnknownStrict().
		Build()

	u := g.Object().
		Discriminator("type").
		OneOf(
			g.Variant("card", card),
			g.Variant("bank", bank),
		).
		MustBuild()

	v, err := u.Parse(ctx, map[string]any{"type": "card", "number": testCardNumber})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v["number"] != testCardNumber {
		t.Fatalf("unexpected value: %#v", v)
	}

	v2, err := u.Parse(ctx, map[string]any{"type": "bank", "iban": "DE89 3704 0044 0532 0130 00"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v2["iban"] == nil {
		t.Fatalf("iban missing: %#v", v2)
	}
}

func TestUnion_Discriminator_Missing(t *testing.T) {
	ctx := context.Background()

	card, _ := g.Object().
		Field("type", g.StringOf[string]()).
		Field("number", g.StringOf[string]()).
		Require("number").
		UnknownStrict().
		Build()

	u := g.Object().
		Discriminator("type").
		OneOf(g.Variant("card", card)).
		MustBuild()

	_, err := u.Parse(ctx, map[string]any{"number": "x"})
	if err == nil {
		t.Fatalf("expected discriminator_missing")
	}
	if iss, ok := gokata.AsIssues(err); ok {
		if len(iss) == 0 || iss[0].Code != gokata.CodeDiscriminatorMissing {
			t.Fatalf("expected discriminator_missing, got: %v", iss)
		}
	}
}

func TestUnion_Discriminator_Unknown(t *testing.T) {
	ctx := context.Background()

	card, _ := g.Object().
		Field("type", g.StringOf[string]()).
		Field("number", g.StringOf[string]()).
		Require("number").
		UnknownStrict().
		Build()

	u := g.Object().
		Discriminator("type").
		OneOf(g.Variant("card", card)).
		MustBuild()

	_, err := u.Parse(ctx, map[string]any{"type": "legacy"})
	if err == nil {
		t.Fatalf("expected discriminator_unknown")
	}
	if iss, ok := gokata.AsIssues(err); ok {
		if len(iss) == 0 || iss[0].Code != gokata.CodeDiscriminatorUnknown {
			t.Fatalf("expected discriminator_unknown, got: %v", iss)
		}
	}
}
