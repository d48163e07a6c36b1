package gokata

import (
	"context"
	"errors"
	"io"

	eng "github.com/reoring/gokata/internal/engine"
)

// Parse matches a decoded value against the schema and produces the output.
// It is the strict entry point in error-return form: the returned error, when
// non-nil, always carries Issues. Only ParseOpt.FailFast applies here; the
// source-level bounds concern token decoding and are ignored.
func Parse[T any](ctx context.Context, s Schema[T], v any, opts ...ParseOpt) (T, error) {
	var zero T
	if s == nil {
		return zero, singleIssue(CodeParseError, "nil schema")
	}
	if len(opts) > 0 && opts[len(opts)-1].FailFast {
		ctx = WithFailFast(ctx, true)
	}
	return s.Parse(ctx, v)
}

// MustParse is the throwing variant of Parse: on failure it panics with the
// Issues value so recover can inspect the same error the safe path returns.
func MustParse[T any](ctx context.Context, s Schema[T], v any, opts ...ParseOpt) T {
	out, err := Parse(ctx, s, v, opts...)
	if err != nil {
		panic(toIssues(err))
	}
	return out
}

// SafeParse never panics and never returns a bare error: the Result carries
// either the output value or the full Issues list. Strict and safe parsing
// share the same core, so both report identical issues for identical input.
func SafeParse[T any](ctx context.Context, s Schema[T], v any, opts ...ParseOpt) Result[T] {
	return resultOf(Parse(ctx, s, v, opts...))
}

// ParseFrom is the source-level entry point. It consumes tokens from the
// Source, builds an any value under the configured enforcement, and delegates
// validation to the Schema.
func ParseFrom[T any](ctx context.Context, s Schema[T], src Source, opts ...ParseOpt) (T, error) {
	var zero T
	if s == nil {
		return zero, singleIssue(CodeParseError, "nil schema")
	}

	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	// propagate fail-fast intent via context for schema implementations
	if opt.FailFast {
		ctx = WithFailFast(ctx, true)
	}
	v, err := decodeAnyFromSource(src, opt)
	if err != nil {
		return zero, toIssues(err)
	}

	return s.Parse(ctx, v)
}

// MustParseFrom is the throwing variant of ParseFrom.
func MustParseFrom[T any](ctx context.Context, s Schema[T], src Source, opts ...ParseOpt) T {
	out, err := ParseFrom(ctx, s, src, opts...)
	if err != nil {
		panic(toIssues(err))
	}
	return out
}

// SafeParseFrom is the Result-returning variant of ParseFrom.
func SafeParseFrom[T any](ctx context.Context, s Schema[T], src Source, opts ...ParseOpt) Result[T] {
	return resultOf(ParseFrom(ctx, s, src, opts...))
}

// ---- helpers (parse options, decode, error mapping) ----

func decodeAnyFromSource(src Source, opt ParseOpt) (any, error) {
	engSrc := &tokenSourceAdapter{inner: src}
	enforced := eng.WrapWithEnforcement(engSrc, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   nil,
		FailFast:    opt.FailFast,
	})
	// Switch behavior according to the requested NumberMode.
	switch src.NumberMode() {
	case NumberFloat64:
		return eng.DecodeAnyFromSourceAsFloat64(enforced)
	case NumberJSONNumber:
		fallthrough
	default:
		return eng.DecodeAnyFromSource(enforced)
	}
}

func toIssues(err error) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return AppendIssues(nil, Issue{Code: ie.Code, Path: ie.Path, Message: ie.Message})
	}
	return AppendIssues(nil, Issue{Code: CodeParseError, Path: "/", Message: err.Error()})
}

func singleIssue(code, msg string) Issues {
	return AppendIssues(nil, Issue{Code: code, Path: "/", Message: msg})
}

// StreamParse validates input by streaming tokens from an io.Reader.
// When MaxBytes is set it enforces the size cap up front, otherwise it
// delegates directly to ParseFrom via the Source driver.
func StreamParse[T any](ctx context.Context, s Schema[T], r io.Reader, opts ...ParseOpt) (T, error) {
	if len(opts) > 0 && opts[len(opts)-1].MaxBytes > 0 {
		lr := io.LimitReader(r, opts[len(opts)-1].MaxBytes+1)
		data, err := io.ReadAll(lr)
		if err != nil {
			var zero T
			return zero, singleIssue(CodeParseError, err.Error())
		}
		if int64(len(data)) > opts[len(opts)-1].MaxBytes {
			var zero T
			return zero, singleIssue(CodeTruncated, "max bytes exceeded")
		}
		return ParseFrom[T](ctx, s, JSONBytes(data), opts...)
	}
	return ParseFrom[T](ctx, s, JSONReader(r), opts...)
}

// ---- Source -> engine.TokenSource adapter ----

type tokenSourceAdapter struct{ inner Source }

func (a *tokenSourceAdapter) NextToken() (eng.Token, error) {
	t, err := a.inner.NextToken()
	if err != nil {
		return eng.Token{}, err
	}
	return eng.Token{
		Kind:   toEngineKind(t.Kind),
		String: t.String,
		Number: t.Number,
		Bool:   t.Bool,
		Offset: t.Offset,
	}, nil
}

func (a *tokenSourceAdapter) Location() int64 { return a.inner.Location() }

// EngineTokenSource exposes the engine.TokenSource view of a gokata.Source for internal users.
func EngineTokenSource(s Source) eng.TokenSource {
	// Fast-path: if s is already an engine-backed source, reuse the inner source.
	if ea, ok := s.(*engineSourceAdapter); ok {
		return ea.inner
	}
	return &tokenSourceAdapter{inner: s}
}

func toEngineKind(k tokenKind) eng.Kind {
	switch k {
	case _tokenBeginObject:
		return eng.KindBeginObject
	case _tokenEndObject:
		return eng.KindEndObject
	case _tokenBeginArray:
		return eng.KindBeginArray
	case _tokenEndArray:
		return eng.KindEndArray
	case _tokenKey:
		return eng.KindKey
	case _tokenString:
		return eng.KindString
	case _tokenNumber:
		return eng.KindNumber
	case _tokenBool:
		return eng.KindBool
	case _tokenNull:
		return eng.KindNull
	default:
		return eng.KindNull
	}
}
