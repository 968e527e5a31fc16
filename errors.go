package recskema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeMissingRequired = "missing_required_field"
	CodeTypeMismatch    = "type_mismatch"
	CodeInvalidFormat   = "invalid_format"
	CodeInvalidRole     = "invalid_role"
	CodeLengthExceeded  = "length_exceeded"
	CodePattern         = "pattern_violation"
	CodeTooSmall        = "too_small"
	CodeTooBig          = "too_big"
	CodeUnknownKey      = "unknown_key"
	CodeParseError      = "parse_error"
	CodeCustom          = "custom"
	// Record-level passes (raw map before coercion, typed instance after)
	CodeCrossField   = "cross_field_violation"
	CodeBusinessRule = "business_rule_violation"
	// Mutation after construction
	CodeImmutableField = "immutable_field"
)

// ErrNotFound signals an identifier lookup miss. It is never reported as an
// Issue so callers can tell "no such record" apart from "invalid record".
var ErrNotFound = errors.New("recskema: not found")

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /friends/2).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"max":500, "got":501})
	// for i18n and observability.
	Params map[string]any
	// Rule optionally records the rule name that produced this issue.
	Rule string
}

// Issues is a collection of validation errors that implements error.
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
		// e.g. type_mismatch at /age
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// ByPath groups issue messages by path, preserving the order in which they
// were reported.
func (iss Issues) ByPath() map[string][]string {
	out := make(map[string][]string, len(iss))
	for _, it := range iss {
		msg := it.Message
		if msg == "" {
			msg = it.Code
		}
		out[it.Path] = append(out[it.Path], msg)
	}
	return out
}

// HasCode reports whether any issue at path carries code. An empty path
// matches every path.
func (iss Issues) HasCode(path, code string) bool {
	for _, it := range iss {
		if it.Code == code && (path == "" || it.Path == path) {
			return true
		}
	}
	return false
}

// Rebase prefixes every issue path with base. Root paths ("" or "/") become
// base itself.
func (iss Issues) Rebase(base string) Issues {
	out := make(Issues, 0, len(iss))
	for _, it := range iss {
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

// IssuesFromErr converts an error into Issues at path. Errors that already
// carry Issues are returned as-is; anything else becomes a single issue with
// the fallback code.
func IssuesFromErr(path, code string, err error) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return Issues{Issue{Path: path, Code: code, Message: err.Error(), Cause: err}}
}
