package gokata

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeTypeMismatch     = "type_mismatch"
	CodeLiteralMismatch  = "literal_mismatch"
	CodeInvalidEnum      = "invalid_enum"
	CodeMissingField     = "missing_field"
	CodeUnrecognizedKey  = "unrecognized_key"
	CodeNoMatchingSchema = "no_matching_schema"
	CodeAmbiguousMatch   = "ambiguous_match"
	CodeTransformError   = "transform_error"
	CodeRefinementFailed = "refinement_failed"
	// Discriminated unions (tag-dispatch complement to ordered unions).
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	// Source-level enforcement.
	CodeDuplicateKey = "duplicate_key"
	CodeParseError   = "parse_error"
	CodeTruncated    = "truncated"
	// Bounds checks on numbers and lengths.
	CodeTooSmall = "too_small"
	CodeTooBig   = "too_big"
	CodeTooShort = "too_short"
	CodeTooLong  = "too_long"
	// Dependency temporary/unavailable errors (for mapping to 5xx at API layer)
	CodeDependencyUnavailable = "dependency_unavailable"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price); "/" denotes the root.
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	Offset  int64  // Byte offset in the input source (-1 when unknown).
	// Params carries structured parameters (e.g., {"candidate": 2, "got": 42})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
// A failed parse never produces an empty Issues value.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. type_mismatch at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
