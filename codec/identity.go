package codec

import (
	"context"

	gokata "github.com/reoring/gokata"
)

// Identity returns a Codec[T,T] that performs identity transformations.
// In() and Out() are the provided schema s. Decode/Encode validate via Out()/In() respectively.
func Identity[T any](s gokata.Schema[T]) gokata.Codec[T, T] {
	return &identityCodec[T]{in: s, out: s}
}

type identityCodec[T any] struct {
	in  gokata.Schema[T]
	out gokata.Schema[T]
}

func (c *identityCodec[T]) In() gokata.Schema[T]  { return c.in }
func (c *identityCodec[T]) Out() gokata.Schema[T] { return c.out }

func (c *identityCodec[T]) Decode(ctx context.Context, a T) (T, error) {
	if err := c.out.ValidateValue(ctx, a); err != nil {
		var zero T
		return zero, err
	}
	return a, nil
}

func (c *identityCodec[T]) Encode(ctx context.Context, b T) (T, error) {
	if err := c.out.ValidateValue(ctx, b); err != nil {
		var zero T
		return zero, err
	}
	if err := c.in.ValidateValue(ctx, b); err != nil {
		var zero T
		return zero, err
	}
	return b, nil
}
