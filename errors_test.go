package recskema_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	recskema "github.com/reoring/recskema"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := recskema.Issues{
		{Path: "/name", Code: recskema.CodeMissingRequired},
		{Path: "/email", Code: recskema.CodeInvalidFormat},
		{Path: "/role", Code: recskema.CodeInvalidRole},
		{Path: "/zzz", Code: recskema.CodeUnknownKey},
	}
	msg := iss.Error()
	if !strings.HasPrefix(msg, "missing_required_field at /name; invalid_format at /email") {
		t.Fatalf("msg=%q", msg)
	}
	if !strings.HasSuffix(msg, "(total 4)") {
		t.Fatalf("expected total suffix, got %q", msg)
	}
	if (recskema.Issues{}).Error() != "" {
		t.Fatalf("empty issues must render empty")
	}
}

func TestIssues_ByPathAndHasCode(t *testing.T) {
	iss := recskema.Issues{
		{Path: "/password", Code: recskema.CodePattern, Message: "too weak"},
		{Path: "/password", Code: recskema.CodeCrossField},
		{Path: "/name", Code: recskema.CodeMissingRequired, Message: "Field required"},
	}
	by := iss.ByPath()
	if got := by["/password"]; len(got) != 2 || got[0] != "too weak" || got[1] != recskema.CodeCrossField {
		t.Fatalf("by path=%v", got)
	}
	if !iss.HasCode("/name", recskema.CodeMissingRequired) || iss.HasCode("/name", recskema.CodePattern) {
		t.Fatalf("HasCode by path")
	}
	if !iss.HasCode("", recskema.CodeCrossField) {
		t.Fatalf("empty path matches every path")
	}
}

func TestIssues_Rebase(t *testing.T) {
	iss := recskema.Issues{{Path: "/"}, {Path: ""}, {Path: "/0"}, {Path: "x"}}
	got := iss.Rebase("/friends")
	want := []string{"/friends", "/friends", "/friends/0", "/friends/x"}
	for k, it := range got {
		if it.Path != want[k] {
			t.Fatalf("%d: %q want %q", k, it.Path, want[k])
		}
	}
	if iss[2].Path != "/0" {
		t.Fatalf("Rebase must not mutate the receiver")
	}
}

func TestAsIssues_Wrapped(t *testing.T) {
	base := recskema.Fail("/age", recskema.CodeTooSmall, "")
	wrapped := fmt.Errorf("validate: %w", base)
	iss, ok := recskema.AsIssues(wrapped)
	if !ok || len(iss) != 1 || iss[0].Path != "/age" {
		t.Fatalf("AsIssues=%v %v", iss, ok)
	}
	if iss[0].Message == "" {
		t.Fatalf("empty message falls back to the catalog")
	}
	if _, ok := recskema.AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain errors are not Issues")
	}
	if _, ok := recskema.AsIssues(nil); ok {
		t.Fatalf("nil is not Issues")
	}
}

func TestIssuesFromErr(t *testing.T) {
	plain := errors.New("boom")
	iss := recskema.IssuesFromErr("/", recskema.CodeCustom, plain)
	if len(iss) != 1 || iss[0].Code != recskema.CodeCustom || !errors.Is(iss[0].Cause, plain) {
		t.Fatalf("plain: %+v", iss)
	}
	orig := recskema.Fail("/x", recskema.CodePattern, "bad")
	if got := recskema.IssuesFromErr("/", recskema.CodeCustom, orig); got[0].Code != recskema.CodePattern {
		t.Fatalf("Issues must pass through: %+v", got)
	}
	if recskema.IssuesFromErr("/", recskema.CodeCustom, nil) != nil {
		t.Fatalf("nil error yields nil")
	}
}

func TestPointer(t *testing.T) {
	cases := map[string][]string{
		"/":          nil,
		"/name":      {"name"},
		"/a~1b/c~0d": {"a/b", "c~d"},
	}
	for want, parts := range cases {
		if got := recskema.Pointer(parts...); got != want {
			t.Fatalf("Pointer(%v)=%q want %q", parts, got, want)
		}
	}
	if got := recskema.IndexPointer("/", 2); got != "/2" {
		t.Fatalf("IndexPointer root=%q", got)
	}
	if got := recskema.IndexPointer("/friends", 0); got != "/friends/0" {
		t.Fatalf("IndexPointer=%q", got)
	}
}
