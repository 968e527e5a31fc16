package rules_test

import (
	"context"
	"strings"
	"testing"

	recskema "github.com/reoring/recskema"
	"github.com/reoring/recskema/bitmask"
	g "github.com/reoring/recskema/dsl"
	"github.com/reoring/recskema/rules"
)

var role = bitmask.MustDefine("Role",
	bitmask.Explicit("User", 0),
	bitmask.Auto("Author"),
	bitmask.Auto("Admin"),
)

func asIssues(t *testing.T, err error) recskema.Issues {
	t.Helper()
	iss, ok := recskema.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %v", err)
	}
	return iss
}

func TestNameFormat(t *testing.T) {
	ctx := context.Background()
	for _, ok := range []string{"Arjan", "ab"} {
		if err := rules.NameFormat(ctx, ok); err != nil {
			t.Fatalf("%q: %v", ok, err)
		}
	}
	for _, bad := range []string{"A", "Arjan1", "Ar jan", ""} {
		err := rules.NameFormat(ctx, bad)
		if iss := asIssues(t, err); iss[0].Code != recskema.CodePattern {
			t.Fatalf("%q: %v", bad, iss)
		}
	}
}

func TestStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"Password123": true,
		"password123": false,
		"PASSWORD123": false,
		"Password":    false,
		"Pa1":         false,
		"<bad data>":  false,
	}
	for in, want := range cases {
		if got := rules.StrongPassword(in); got != want {
			t.Fatalf("%q: got %v want %v", in, got, want)
		}
	}
}

func TestBeforeRules(t *testing.T) {
	ctx := context.Background()

	_, err := rules.RequireKeys("name", "password")(ctx, map[string]any{"name": "x"})
	iss := asIssues(t, err)
	if len(iss) != 1 || iss[0].Code != recskema.CodeCrossField || iss[0].Path != "/password" ||
		iss[0].Message != "Name and password are required" {
		t.Fatalf("require keys: %+v", iss)
	}
	_, err = rules.RequireKeys("name", "password")(ctx, map[string]any{})
	if iss := asIssues(t, err); len(iss) != 2 || !iss.HasCode("/name", recskema.CodeCrossField) ||
		!iss.HasCode("/password", recskema.CodeCrossField) {
		t.Fatalf("require keys: %+v", iss)
	}

	notContains := rules.PasswordNotContains("name", "password")
	_, err = notContains(ctx, map[string]any{"name": "Arjan", "password": "xARJANx1"})
	if iss := asIssues(t, err); iss[0].Code != recskema.CodeCrossField || iss[0].Path != "/password" {
		t.Fatalf("contains: %+v", iss)
	}
	if _, err := notContains(ctx, map[string]any{"password": "Arjan123"}); err != nil {
		t.Fatalf("missing name must pass: %v", err)
	}

	complexity := rules.PasswordComplexity("password")
	_, err = complexity(ctx, map[string]any{"password": "short"})
	if iss := asIssues(t, err); iss[0].Code != recskema.CodePattern || !strings.Contains(iss[0].Message, "8 characters") {
		t.Fatalf("complexity: %+v", iss)
	}
	if _, err := complexity(ctx, map[string]any{"password": "Password123"}); err != nil {
		t.Fatalf("strong password rejected: %v", err)
	}
}

func TestDigests(t *testing.T) {
	ctx := context.Background()
	v, err := rules.SHA256Digest()(ctx, "Password123")
	if err != nil {
		t.Fatalf("sha256: %v", err)
	}
	if v != "008c70392e3abfbd0fa47bbc2ed96aa99bd49e159727fcba0f2e6abeb3a9d601" {
		t.Fatalf("sha256=%v", v)
	}
	if v, _ := rules.SHA256Digest()(ctx, 7); v != 7 {
		t.Fatalf("non-text must pass through, got %v", v)
	}

	h, err := rules.BcryptDigest(4)(ctx, "Password123")
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	if !rules.MatchesBcrypt(h.(string), "Password123") || rules.MatchesBcrypt(h.(string), "nope") {
		t.Fatalf("bcrypt digest does not verify")
	}
}

func userSchema(t *testing.T, allowed ...string) *g.Schema {
	t.Helper()
	s, err := g.Record().
		Field("name", g.String()).Required().
		Field("role", g.Flags(role)).Default("User").
		Field("level", g.Int()).Default(0).
		After("admin", rules.RestrictFlags("role", "name", role.MustName("Admin"), allowed...)).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return s
}

func TestRestrictFlags(t *testing.T) {
	ctx := context.Background()
	s := userSchema(t, "Arjan", "Grace")
	for _, name := range []string{"Arjan", "Grace"} {
		if _, err := s.Validate(ctx, map[string]any{"name": name, "role": "Admin"}); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	_, err := s.Validate(ctx, map[string]any{"name": "Bob", "role": "Admin"})
	iss := asIssues(t, err)
	if iss[0].Code != recskema.CodeBusinessRule || iss[0].Path != "/role" || iss[0].Rule != "admin" {
		t.Fatalf("unexpected: %+v", iss)
	}
	// composites containing the privileged bit are restricted too
	if _, err := s.Validate(ctx, map[string]any{"name": "Bob", "role": 3}); err == nil {
		t.Fatalf("expected Author|Admin to be restricted")
	}
	if _, err := s.Validate(ctx, map[string]any{"name": "Bob", "role": "Author"}); err != nil {
		t.Fatalf("unprivileged role: %v", err)
	}

	nobody := userSchema(t)
	if _, err := nobody.Validate(ctx, map[string]any{"name": "Arjan", "role": "Admin"}); err == nil {
		t.Fatalf("empty allow-list must forbid the role")
	}
}

func TestConditionals(t *testing.T) {
	ctx := context.Background()
	s := userSchema(t, "Arjan")
	inst, err := s.Validate(ctx, map[string]any{"name": "Arjan", "role": "Admin", "level": 7})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !rules.If("level", rules.Ge, 5).Holds(inst) || rules.If("level", rules.Lt, 5).Holds(inst) {
		t.Fatalf("numeric comparison across widths")
	}
	if !rules.If("name", rules.Eq, "Arjan").And(rules.If("role", rules.Has, role.MustName("Admin"))).Holds(inst) {
		t.Fatalf("And")
	}
	if !rules.If("name", rules.Eq, "Bob").Or(rules.If("level", rules.Gt, 6)).Holds(inst) {
		t.Fatalf("Or")
	}
	if rules.If("missing", rules.Eq, 1).Holds(inst) {
		t.Fatalf("unknown field must not hold")
	}

	fail := func(msg string) g.AfterRule {
		return func(ctx context.Context, inst *g.Instance) error {
			return recskema.Fail("/", recskema.CodeBusinessRule, msg)
		}
	}
	pass := func(ctx context.Context, inst *g.Instance) error { return nil }

	err = rules.If("level", rules.Gt, 5).Then(fail("a"), fail("b"))(ctx, inst)
	if iss := asIssues(t, err); len(iss) != 2 {
		t.Fatalf("All must aggregate: %v", iss)
	}
	err = rules.If("level", rules.Gt, 5).Then(fail("a"), fail("b"))(recskema.WithFailFast(ctx, true), inst)
	if iss := asIssues(t, err); len(iss) != 1 {
		t.Fatalf("fail-fast must short-circuit: %v", iss)
	}
	if err := rules.If("level", rules.Gt, 50).Then(fail("a"))(ctx, inst); err != nil {
		t.Fatalf("unmet condition must skip: %v", err)
	}
	if err := rules.Any(fail("a"), pass)(ctx, inst); err != nil {
		t.Fatalf("Any: %v", err)
	}
	if err := rules.Any(fail("a"), fail("b")); err(ctx, inst) == nil {
		t.Fatalf("Any of failures must fail")
	}
}
