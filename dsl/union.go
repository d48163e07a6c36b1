package dsl

import (
	"context"
	"fmt"

	gokata "github.com/reoring/gokata"
	"github.com/reoring/gokata/i18n"
	js "github.com/reoring/gokata/jsonschema"
)

// Union declares an ordered-candidate union over T. Candidates are tried in
// declaration order and the first full parse success wins; candidates after
// the winner are never evaluated. When every candidate fails, the error leads
// with no_matching_schema and carries each candidate's own issues tagged with
// Params["candidate"].
func Union[T any](candidates ...gokata.Schema[T]) *UnionBuilder[T] {
	return &UnionBuilder[T]{candidates: candidates}
}

// UnionBuilder configures a union before Build.
type UnionBuilder[T any] struct {
	candidates []gokata.Schema[T]
	exclusive  bool
}

// Exclusive switches the union to reject inputs that structurally match more
// than one candidate. Matching is probed with Validate, so no candidate's
// transform runs unless it is the unique match.
func (b *UnionBuilder[T]) Exclusive() *UnionBuilder[T] {
	b.exclusive = true
	return b
}

// Build validates the builder and returns the union schema. A union needs at
// least two candidates; fewer is a construction error, not a parse error.
func (b *UnionBuilder[T]) Build() (gokata.Schema[T], error) {
	if len(b.candidates) < 2 {
		return nil, gokata.Issues{gokata.Issue{Path: "/", Code: gokata.CodeParseError, Message: i18n.T(gokata.CodeParseError, nil), Hint: "union requires at least two candidates"}}
	}
	for i, c := range b.candidates {
		if c == nil {
			return nil, gokata.Issues{gokata.Issue{Path: "/", Code: gokata.CodeParseError, Message: i18n.T(gokata.CodeParseError, nil), Hint: fmt.Sprintf("union candidate %d is nil", i)}}
		}
	}
	cands := make([]gokata.Schema[T], len(b.candidates))
	copy(cands, b.candidates)
	return &unionSchema[T]{candidates: cands, exclusive: b.exclusive}, nil
}

// MustBuild is like Build but panics on error.
func (b *UnionBuilder[T]) MustBuild() gokata.Schema[T] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// unionSchema resolves a value against an ordered candidate list.
type unionSchema[T any] struct {
	candidates []gokata.Schema[T]
	exclusive  bool
}

var _ gokata.Schema[any] = (*unionSchema[any])(nil)

func (u *unionSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	var zero T
	if u.exclusive {
		return u.parseExclusive(ctx, v)
	}
	var collected gokata.Issues
	for i, c := range u.candidates {
		got, err := c.Parse(ctx, v)
		if err == nil {
			return got, nil
		}
		collected = append(collected, tagCandidate(i, err)...)
	}
	return zero, u.noMatch(collected)
}

// parseExclusive probes every candidate with Validate before any parse, so a
// transform only ever runs for the unique structural match.
func (u *unionSchema[T]) parseExclusive(ctx context.Context, v any) (T, error) {
	var zero T
	winner := -1
	var collected gokata.Issues
	for i, c := range u.candidates {
		err := c.Validate(ctx, v)
		if err != nil {
			collected = append(collected, tagCandidate(i, err)...)
			continue
		}
		if winner >= 0 {
			return zero, gokata.Issues{ambiguousIssue(winner, i)}
		}
		winner = i
	}
	if winner < 0 {
		return zero, u.noMatch(collected)
	}
	got, err := u.candidates[winner].Parse(ctx, v)
	if err != nil {
		return zero, tagCandidate(winner, err)
	}
	return got, nil
}

// Validate reports whether any candidate accepts the value. No transform runs.
func (u *unionSchema[T]) Validate(ctx context.Context, v any) error {
	winner := -1
	var collected gokata.Issues
	for i, c := range u.candidates {
		err := c.Validate(ctx, v)
		if err == nil {
			if !u.exclusive {
				return nil
			}
			if winner >= 0 {
				return gokata.Issues{ambiguousIssue(winner, i)}
			}
			winner = i
			continue
		}
		collected = append(collected, tagCandidate(i, err)...)
	}
	if winner >= 0 {
		return nil
	}
	return u.noMatch(collected)
}

func (u *unionSchema[T]) ValidateValue(ctx context.Context, v T) error {
	winner := -1
	var collected gokata.Issues
	for i, c := range u.candidates {
		err := c.ValidateValue(ctx, v)
		if err == nil {
			if !u.exclusive {
				return nil
			}
			if winner >= 0 {
				return gokata.Issues{ambiguousIssue(winner, i)}
			}
			winner = i
			continue
		}
		collected = append(collected, tagCandidate(i, err)...)
	}
	if winner >= 0 {
		return nil
	}
	return u.noMatch(collected)
}

func (u *unionSchema[T]) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{OneOf: make([]*js.Schema, 0, len(u.candidates))}
	for _, c := range u.candidates {
		vs, err := c.JSONSchema()
		if err != nil {
			return nil, err
		}
		out.OneOf = append(out.OneOf, vs)
	}
	return out, nil
}

// noMatch builds the aggregate failure: a leading no_matching_schema issue at
// the root followed by every candidate's tagged issues.
func (u *unionSchema[T]) noMatch(collected gokata.Issues) gokata.Issues {
	iss := gokata.Issues{gokata.Issue{
		Path:    "/",
		Code:    gokata.CodeNoMatchingSchema,
		Message: i18n.T(gokata.CodeNoMatchingSchema, nil),
		Hint:    fmt.Sprintf("no candidate matched (%d tried)", len(u.candidates)),
		Params:  map[string]any{"candidates": len(u.candidates)},
	}}
	return append(iss, collected...)
}

func ambiguousIssue(first, second int) gokata.Issue {
	return gokata.Issue{
		Path:    "/",
		Code:    gokata.CodeAmbiguousMatch,
		Message: i18n.T(gokata.CodeAmbiguousMatch, nil),
		Hint:    fmt.Sprintf("candidates %d and %d both match", first, second),
		Params:  map[string]any{"candidates": []int{first, second}},
	}
}

// tagCandidate stamps each issue from a candidate trial with the candidate's
// index so aggregated failures stay traceable to their source.
func tagCandidate(i int, err error) gokata.Issues {
	iss, ok := gokata.AsIssues(err)
	if !ok {
		iss = issuesFromErr("/", err)
	}
	out := make(gokata.Issues, 0, len(iss))
	for _, it := range iss {
		params := map[string]any{"candidate": i}
		for k, val := range it.Params {
			if k == "candidate" {
				continue
			}
			params[k] = val
		}
		it.Params = params
		out = append(out, it)
	}
	return out
}

// discriminatedSchema dispatches on a tag field instead of trying candidates.
// It is built via Object().Discriminator(key).OneOf(Variant(...)...).
type discriminatedSchema struct {
	discriminator string
	mapping       map[string]gokata.Schema[map[string]any]
	order         []string
}

var _ gokata.Schema[map[string]any] = (*discriminatedSchema)(nil)

func (u *discriminatedSchema) selectVariant(m map[string]any) (gokata.Schema[map[string]any], error) {
	tag, _ := m[u.discriminator].(string)
	if tag == "" {
		return nil, gokata.Issues{gokata.Issue{Path: "/" + u.discriminator, Code: gokata.CodeDiscriminatorMissing, Message: i18n.T(gokata.CodeDiscriminatorMissing, nil), Hint: "discriminator missing"}}
	}
	s, ok := u.mapping[tag]
	if !ok {
		return nil, gokata.Issues{gokata.Issue{Path: "/" + u.discriminator, Code: gokata.CodeDiscriminatorUnknown, Message: i18n.T(gokata.CodeDiscriminatorUnknown, nil), Hint: "unknown variant: '" + tag + "'"}}
	}
	return s, nil
}

func (u *discriminatedSchema) Parse(ctx context.Context, v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, gokata.Issues{gokata.Issue{Path: "/", Code: gokata.CodeTypeMismatch, Message: i18n.T(gokata.CodeTypeMismatch, nil), Hint: "expected object"}}
	}
	s, err := u.selectVariant(m)
	if err != nil {
		return nil, err
	}
	return s.Parse(ctx, v)
}

func (u *discriminatedSchema) Validate(ctx context.Context, v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return gokata.Issues{gokata.Issue{Path: "/", Code: gokata.CodeTypeMismatch, Message: i18n.T(gokata.CodeTypeMismatch, nil), Hint: "expected object"}}
	}
	s, err := u.selectVariant(m)
	if err != nil {
		return err
	}
	return s.Validate(ctx, v)
}

func (u *discriminatedSchema) ValidateValue(ctx context.Context, v map[string]any) error {
	s, err := u.selectVariant(v)
	if err != nil {
		return err
	}
	return s.ValidateValue(ctx, v)
}

func (u *discriminatedSchema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{OneOf: make([]*js.Schema, 0, len(u.mapping))}
	for _, name := range u.order {
		vs, err := u.mapping[name].JSONSchema()
		if err != nil {
			return nil, err
		}
		out.OneOf = append(out.OneOf, vs)
	}
	return out, nil
}
