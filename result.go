package gokata

// Result is the tagged outcome of a safe parse. Exactly one side is
// meaningful: when Issues is empty the parse succeeded and Value holds the
// output; otherwise Value is the zero of T and Issues holds every failure.
type Result[T any] struct {
	Value  T
	Issues Issues
}

// Ok reports whether the parse succeeded.
func (r Result[T]) Ok() bool { return len(r.Issues) == 0 }

// Err returns the Issues as an error, or nil on success.
func (r Result[T]) Err() error {
	if len(r.Issues) == 0 {
		return nil
	}
	return r.Issues
}

// resultOf wraps a (value, error) pair into a Result, folding non-Issues
// errors into a single parse_error entry so Issues is never empty on failure.
func resultOf[T any](v T, err error) Result[T] {
	if err == nil {
		return Result[T]{Value: v}
	}
	var zero T
	if iss, ok := AsIssues(err); ok && len(iss) > 0 {
		return Result[T]{Value: zero, Issues: iss}
	}
	return Result[T]{Value: zero, Issues: singleIssue(CodeParseError, err.Error())}
}
