package dsl

import (
	"context"
	"sort"

	gokata "github.com/reoring/gokata"
	"github.com/reoring/gokata/i18n"
	js "github.com/reoring/gokata/jsonschema"
)

// objectSchema is the built form of Object(). Fields are matched by key;
// declaration order governs evaluation and issue-reporting order.
type objectSchema struct {
	fields        map[string]AnyAdapter
	order         []string
	required      map[string]struct{}
	unknownPolicy gokata.UnknownPolicy
	unknownTarget string
	refines       []objRefine
}

var _ gokata.Schema[map[string]any] = (*objectSchema)(nil)

type objRefine struct {
	name string
	fn   func(context.Context, map[string]any) error
}

// rebaseIssues prefixes child issue paths with base ("/field" or "/3") so
// nested failures point into the containing document.
func rebaseIssues(base string, err error) gokata.Issues {
	if err == nil {
		return nil
	}
	child, ok := gokata.AsIssues(err)
	if !ok {
		return issuesFromErr(base, err)
	}
	out := make(gokata.Issues, 0, len(child))
	for _, it := range child {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}

// issuesFromErr converts an error into Issues, wrapping non-Issues with CodeParseError.
func issuesFromErr(path string, err error) gokata.Issues {
	if err == nil {
		return nil
	}
	if i2, ok := gokata.AsIssues(err); ok {
		return i2
	}
	return gokata.Issues{gokata.Issue{Path: path, Code: gokata.CodeParseError, Message: err.Error(), Cause: err}}
}

func missingFieldIssue(k string) gokata.Issue {
	return gokata.Issue{Path: "/" + k, Code: gokata.CodeMissingField, Message: i18n.T(gokata.CodeMissingField, nil), Hint: "required property missing"}
}

func unrecognizedKeyIssue(k string) gokata.Issue {
	return gokata.Issue{Path: "/" + k, Code: gokata.CodeUnrecognizedKey, Message: i18n.T(gokata.CodeUnrecognizedKey, nil)}
}

// unknownKeysSorted lists keys of src not declared on the object. Input maps
// carry no order, so the keys are sorted to keep reporting deterministic.
func (o *objectSchema) unknownKeysSorted(src map[string]any) []string {
	var uks []string
	for k := range src {
		if _, known := o.fields[k]; !known {
			uks = append(uks, k)
		}
	}
	sort.Strings(uks)
	return uks
}

func (o *objectSchema) Parse(ctx context.Context, v any) (map[string]any, error) {
	src, ok := v.(map[string]any)
	if !ok {
		return nil, gokata.Issues{gokata.Issue{Path: "/", Code: gokata.CodeTypeMismatch, Message: i18n.T(gokata.CodeTypeMismatch, nil), Hint: "expected object"}}
	}
	out := make(map[string]any, len(src))
	var iss gokata.Issues
	for _, k := range o.order {
		ad := o.fields[k]
		if val, exists := src[k]; exists {
			parsed, err := ad.parse(ctx, val)
			if err != nil {
				iss = gokata.AppendIssues(iss, rebaseIssues("/"+k, err)...)
				if gokata.IsFailFast(ctx) {
					return nil, iss
				}
				continue
			}
			out[k] = parsed
			continue
		}
		if ad.applyDefault != nil {
			dv, err := ad.applyDefault(ctx)
			if err != nil {
				iss = gokata.AppendIssues(iss, rebaseIssues("/"+k, err)...)
				if gokata.IsFailFast(ctx) {
					return nil, iss
				}
				continue
			}
			out[k] = dv
			continue
		}
		if _, req := o.required[k]; req {
			iss = gokata.AppendIssues(iss, missingFieldIssue(k))
			if gokata.IsFailFast(ctx) {
				return nil, iss
			}
		}
	}
	unknownIss := o.collectUnknown(ctx, src, out)
	if len(unknownIss) > 0 {
		iss = gokata.AppendIssues(iss, unknownIss...)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	if err := o.runRefines(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// collectUnknown applies the unknown-key policy. Passthrough gathers extras
// under the configured target field; strip drops them silently.
func (o *objectSchema) collectUnknown(ctx context.Context, src map[string]any, out map[string]any) gokata.Issues {
	if o.unknownPolicy == gokata.UnknownStrip {
		return nil
	}
	var iss gokata.Issues
	for _, k := range o.unknownKeysSorted(src) {
		switch o.unknownPolicy {
		case gokata.UnknownStrict:
			iss = gokata.AppendIssues(iss, unrecognizedKeyIssue(k))
			if gokata.IsFailFast(ctx) {
				return iss
			}
		case gokata.UnknownPassthrough:
			if o.unknownTarget == "" {
				iss = gokata.AppendIssues(iss, unrecognizedKeyIssue(k))
				continue
			}
			extra, _ := out[o.unknownTarget].(map[string]any)
			if extra == nil {
				extra = map[string]any{}
			}
			extra[k] = src[k]
			out[o.unknownTarget] = extra
		}
	}
	return iss
}

// Validate mirrors Parse's acceptance decision without running transforms or
// materializing output, so union exclusivity probes stay side-effect free.
func (o *objectSchema) Validate(ctx context.Context, v any) error {
	src, ok := v.(map[string]any)
	if !ok {
		return gokata.Issues{gokata.Issue{Path: "/", Code: gokata.CodeTypeMismatch, Message: i18n.T(gokata.CodeTypeMismatch, nil), Hint: "expected object"}}
	}
	var iss gokata.Issues
	for _, k := range o.order {
		ad := o.fields[k]
		if val, exists := src[k]; exists {
			if ad.validate != nil {
				if err := ad.validate(ctx, val); err != nil {
					iss = gokata.AppendIssues(iss, rebaseIssues("/"+k, err)...)
					if gokata.IsFailFast(ctx) {
						return iss
					}
				}
			}
			continue
		}
		if ad.applyDefault != nil {
			continue
		}
		if _, req := o.required[k]; req {
			iss = gokata.AppendIssues(iss, missingFieldIssue(k))
			if gokata.IsFailFast(ctx) {
				return iss
			}
		}
	}
	if o.unknownPolicy == gokata.UnknownStrict {
		for _, k := range o.unknownKeysSorted(src) {
			iss = gokata.AppendIssues(iss, unrecognizedKeyIssue(k))
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

func (o *objectSchema) ValidateValue(ctx context.Context, v map[string]any) error {
	var iss gokata.Issues
	for _, k := range o.order {
		ad := o.fields[k]
		if val, exists := v[k]; exists {
			if err := ad.validateValue(ctx, val); err != nil {
				iss = gokata.AppendIssues(iss, rebaseIssues("/"+k, err)...)
				if gokata.IsFailFast(ctx) {
					return iss
				}
			}
			continue
		}
		if _, req := o.required[k]; req {
			iss = gokata.AppendIssues(iss, missingFieldIssue(k))
			if gokata.IsFailFast(ctx) {
				return iss
			}
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return o.runRefines(ctx, v)
}

func (o *objectSchema) JSONSchema() (*js.Schema, error) {
	props := make(map[string]*js.Schema, len(o.fields))
	for k, ad := range o.fields {
		if ad.jsonSchema != nil {
			if ps, err := ad.jsonSchema(); err == nil && ps != nil {
				props[k] = ps
				continue
			}
		}
		props[k] = &js.Schema{}
	}
	// Required list follows field declaration order.
	var req []string
	for _, k := range o.order {
		if _, ok := o.required[k]; ok {
			req = append(req, k)
		}
	}
	var additional any
	switch o.unknownPolicy {
	case gokata.UnknownStrict:
		additional = false
	case gokata.UnknownStrip, gokata.UnknownPassthrough:
		// Both accept unknown input keys; strip discards them after the fact.
		additional = true
	}
	return &js.Schema{Type: "object", Properties: props, Required: req, AdditionalProperties: additional}, nil
}

// runRefines executes object-level refinements against the collected output.
func (o *objectSchema) runRefines(ctx context.Context, v map[string]any) error {
	if len(o.refines) == 0 {
		return nil
	}
	var iss gokata.Issues
	for _, r := range o.refines {
		if r.fn == nil {
			continue
		}
		if err := r.fn(ctx, v); err != nil {
			if child, ok := gokata.AsIssues(err); ok {
				iss = gokata.AppendIssues(iss, child...)
			} else {
				iss = gokata.AppendIssues(iss, gokata.Issue{
					Path:    "/",
					Code:    gokata.CodeRefinementFailed,
					Message: err.Error(),
					Cause:   err,
					Params:  map[string]any{"refine": r.name},
				})
			}
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
