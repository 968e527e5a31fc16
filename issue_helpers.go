package recskema

import (
	"strconv"
	"strings"

	"github.com/reoring/recskema/i18n"
)

// Pointer renders field names as a JSON Pointer, escaping '~' and '/' per
// RFC 6901. Pointer() is "/".
func Pointer(parts ...string) string {
	if len(parts) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(p, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// IndexPointer renders base/i.
func IndexPointer(base string, i int) string {
	if base == "/" {
		base = ""
	}
	return base + "/" + strconv.Itoa(i)
}

// IssueAt creates an Issue at the given path with provided code, message and params map.
// This is a convenience helper to improve readability at call sites with many parameters.
// An empty message falls back to the catalog message for code.
func IssueAt(path, code, msg string, params map[string]any) Issue {
	if msg == "" {
		msg = i18n.T(code, nil)
	}
	return Issue{Path: path, Code: code, Message: msg, Params: params}
}

// Fail is a shorthand for a single-issue Issues value, handy as a rule's
// return value.
func Fail(path, code, msg string) Issues {
	return Issues{IssueAt(path, code, msg, nil)}
}
