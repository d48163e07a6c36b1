package codec

import (
	"context"
	"time"

	gokata "github.com/reoring/gokata"
	js "github.com/reoring/gokata/jsonschema"
)

// TimeRFC3339 returns a Codec that converts between RFC3339 strings and time.Time.
func TimeRFC3339() gokata.Codec[string, time.Time] {
	return &rfc3339Codec{
		in:  stringSchema{},
		out: timeSchema{},
	}
}

type rfc3339Codec struct {
	in  gokata.Schema[string]
	out gokata.Schema[time.Time]
}

func (c *rfc3339Codec) In() gokata.Schema[string]     { return c.in }
func (c *rfc3339Codec) Out() gokata.Schema[time.Time] { return c.out }

func (c *rfc3339Codec) Decode(ctx context.Context, a string) (time.Time, error) {
	t, err := parseRFC3339(a)
	if err != nil {
		return time.Time{}, gokata.Issues{{Path: "/", Code: gokata.CodeTransformError, Message: "invalid RFC3339 time", Cause: err}}
	}
	if err := c.out.ValidateValue(ctx, t); err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func (c *rfc3339Codec) Encode(ctx context.Context, b time.Time) (string, error) {
	// Validate using Out, convert to wire(string), then re-validate via In.Parse.
	if err := c.out.ValidateValue(ctx, b); err != nil {
		return "", err
	}
	s := formatRFC3339Canonical(b)
	if _, err := c.in.Parse(ctx, s); err != nil {
		return "", err
	}
	return s, nil
}

// ---- helpers ----

type stringSchema struct{}

func (stringSchema) Parse(ctx context.Context, v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", gokata.Issues{{Path: "/", Code: gokata.CodeTypeMismatch, Message: "expected string"}}
}

func (stringSchema) Validate(ctx context.Context, v any) error {
	if _, ok := v.(string); !ok {
		return gokata.Issues{{Path: "/", Code: gokata.CodeTypeMismatch, Message: "expected string"}}
	}
	return nil
}

func (stringSchema) ValidateValue(ctx context.Context, v string) error { return nil }

func (stringSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "string"}, nil }

type timeSchema struct{}

func (timeSchema) Parse(ctx context.Context, v any) (time.Time, error) {
	if t, ok := v.(time.Time); ok {
		return t, nil
	}
	return time.Time{}, gokata.Issues{{Path: "/", Code: gokata.CodeTypeMismatch, Message: "expected time.Time"}}
}

func (timeSchema) Validate(ctx context.Context, v any) error {
	if _, ok := v.(time.Time); !ok {
		return gokata.Issues{{Path: "/", Code: gokata.CodeTypeMismatch, Message: "expected time.Time"}}
	}
	return nil
}

func (timeSchema) ValidateValue(ctx context.Context, v time.Time) error { return nil }

func (timeSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "date-time"}, nil
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional).
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC; RFC3339Nano trims trailing zeros.
	return t.UTC().Format(time.RFC3339Nano)
}
