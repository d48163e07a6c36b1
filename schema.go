package gokata

import (
	"context"

	js "github.com/reoring/gokata/jsonschema"
)

// Schema describes a single node in a schema tree: it knows how to turn an
// unknown input into T and how to check values without producing output.
// Nodes are immutable once built and safe to share across concurrent parses.
type Schema[T any] interface {
	// Parse matches an unknown input against the node and produces T
	// (match -> default -> transform/refine). It returns an error carrying
	// Issues when the input does not conform.
	Parse(ctx context.Context, v any) (T, error)

	// Validate reports whether v structurally conforms to the node. It is a
	// pure decision procedure: transforms never run and no output is built.
	Validate(ctx context.Context, v any) error

	// ValidateValue verifies a value already typed as T without any conversion.
	ValidateValue(ctx context.Context, v T) error

	// JSONSchema projects the node into a JSON Schema representation.
	JSONSchema() (*js.Schema, error)
}

// Codec performs bidirectional transformation and validation between the wire
// representation A and the domain representation B.
type Codec[A, B any] interface {
	In() Schema[A]                              // Wire schema (input side).
	Out() Schema[B]                             // Domain schema (output side).
	Decode(ctx context.Context, a A) (B, error) // A (In) -> B (convert) -> Out.ValidateValue.
	Encode(ctx context.Context, b B) (A, error) // Out.ValidateValue -> A -> In.Parse for revalidation.
}

// ---- Convenience wrappers (Zod-like entry points) ----

// Decode is a thin wrapper around Schema.Parse for forward (input->output) direction.
// For typed domain decoding via Codec, prefer c.Decode.
func Decode[T any](ctx context.Context, s Schema[T], v any) (T, error) {
	return s.Parse(ctx, v)
}

// Encode is a convenience wrapper over Codec.Encode (output->input) direction.
// Callers must provide a Codec because generic Schema does not define encode semantics.
func Encode[A, B any](ctx context.Context, c Codec[A, B], b B) (A, error) {
	return c.Encode(ctx, b)
}

// Is reports whether v conforms to the schema s without running transforms.
func Is[T any](ctx context.Context, s Schema[T], v any) bool {
	return s.Validate(ctx, v) == nil
}

// ---- Parse-time context options (internal wiring, exported for subpackages) ----

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
)

// WithFailFast returns a child context that marks fail-fast parsing behavior.
// This is set by the entry points based on ParseOpt and consumed by schema implementations.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current parse should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}
