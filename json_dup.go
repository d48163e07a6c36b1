package gokata

import (
	"errors"
	"io"

	eng "github.com/reoring/gokata/internal/engine"
)

// DetectJSONDuplicateKeysBytes scans a JSON document for duplicated object
// keys without building a value tree. Issues carry the JSON Pointer of the
// offending key. maxIssues < 0 collects every issue, 0 disables collection,
// > 0 caps the list and appends a truncated marker.
func DetectJSONDuplicateKeysBytes(data []byte, strict Strictness, maxIssues int) (Issues, error) {
	return detectDuplicateKeys(JSONBytes(data), strict, maxIssues)
}

// DetectJSONDuplicateKeysReader scans a JSON document from an io.Reader.
// Note: this will consume the reader fully.
func DetectJSONDuplicateKeysReader(r io.Reader, strict Strictness, maxIssues int) (Issues, error) {
	return detectDuplicateKeys(JSONReader(r), strict, maxIssues)
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

// detectDuplicateKeys drains an enforcement-wrapped source and collects what
// the enforcement layer reports. Duplicate detection therefore has a single
// implementation shared with ParseFrom.
func detectDuplicateKeys(src Source, strict Strictness, maxIssues int) (Issues, error) {
	if strict.OnDuplicateKey == Ignore {
		return nil, nil
	}
	var iss Issues
	full := maxIssues == 0
	add := func(i Issue) {
		if full {
			return
		}
		iss = AppendIssues(iss, i)
		if maxIssues > 0 && len(iss) >= maxIssues {
			iss = AppendIssues(iss, Issue{Code: CodeTruncated, Path: "/", Message: "max issues reached"})
			full = true
		}
	}
	enforced := EnforceSourceWith(src, ParseOpt{Strictness: strict}, add)
	for {
		_, err := enforced.NextToken()
		if err == nil {
			if full && maxIssues > 0 {
				break
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		var ie eng.IssueError
		if errors.As(err, &ie) {
			// Error-mode duplicates arrive here after the sink has already
			// recorded them; stop scanning.
			break
		}
		add(Issue{Code: CodeParseError, Path: "/", Message: err.Error()})
		break
	}
	return iss, nil
}
