// Package rules provides reusable field, pre-coercion and post-coercion rules
// for dsl record schemas.
package rules

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"

	recskema "github.com/reoring/recskema"
	"github.com/reoring/recskema/bitmask"
	g "github.com/reoring/recskema/dsl"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z]{2,}$`)

// NameFormat accepts names of at least two ASCII letters.
func NameFormat(ctx context.Context, v any) error {
	s, _ := v.(string)
	if nameRegex.MatchString(s) {
		return nil
	}
	return recskema.Issues{recskema.IssueAt("/", recskema.CodePattern,
		"Name is invalid, must contain only letters and be at least 2 characters long",
		map[string]any{"pattern": nameRegex.String()})}
}

// StrongPassword reports whether s has at least 8 characters with one
// lowercase letter, one uppercase letter and one digit.
func StrongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, c := range s {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

// RequireKeys rejects raw input missing any of keys. Each missing key gets a
// cross_field_violation at its own pointer.
func RequireKeys(keys ...string) g.BeforeRule {
	msg := strings.Join(keys, " and ")
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}
	msg += " are required"
	return func(ctx context.Context, raw map[string]any) (map[string]any, error) {
		var missing []string
		for _, k := range keys {
			if _, ok := raw[k]; !ok {
				missing = append(missing, k)
			}
		}
		if len(missing) == 0 {
			return nil, nil
		}
		iss := make(recskema.Issues, 0, len(missing))
		for _, k := range missing {
			iss = append(iss, recskema.IssueAt(recskema.Pointer(k), recskema.CodeCrossField, msg,
				map[string]any{"missing": missing}))
		}
		return nil, iss
	}
}

// PasswordNotContains rejects raw input whose password contains the name,
// compared case-insensitively. It passes when either key is absent or not
// text so the field pass can report those.
func PasswordNotContains(nameKey, passwordKey string) g.BeforeRule {
	return func(ctx context.Context, raw map[string]any) (map[string]any, error) {
		name, ok1 := raw[nameKey].(string)
		pw, ok2 := raw[passwordKey].(string)
		if !ok1 || !ok2 || name == "" {
			return nil, nil
		}
		if strings.Contains(strings.ToLower(pw), strings.ToLower(name)) {
			return nil, recskema.Issues{recskema.IssueAt(recskema.Pointer(passwordKey), recskema.CodeCrossField,
				"Password cannot contain name", map[string]any{"field": nameKey})}
		}
		return nil, nil
	}
}

// PasswordComplexity rejects raw passwords that fail StrongPassword. It runs
// before hashing, on the plain text.
func PasswordComplexity(passwordKey string) g.BeforeRule {
	return func(ctx context.Context, raw map[string]any) (map[string]any, error) {
		pw, ok := raw[passwordKey].(string)
		if !ok || StrongPassword(pw) {
			return nil, nil
		}
		return nil, recskema.Issues{recskema.IssueAt(recskema.Pointer(passwordKey), recskema.CodePattern,
			"Password is invalid, must contain 8 characters, 1 uppercase, 1 lowercase, 1 number", nil)}
	}
}

// NameIn requires the text field to equal one of allowed.
func NameIn(field string, allowed ...string) g.AfterRule {
	return func(ctx context.Context, inst *g.Instance) error {
		v, _ := g.Value[string](inst, field)
		if slices.Contains(allowed, v) {
			return nil
		}
		return recskema.Issues{recskema.IssueAt(recskema.Pointer(field), recskema.CodeBusinessRule,
			fmt.Sprintf("%s %q is not permitted", field, v), map[string]any{"allowed": allowed})}
	}
}

// RestrictFlags permits a flags value containing privileged only when the
// name field is in allowed. An empty allow-list forbids it for everyone.
func RestrictFlags(flagsField, nameField string, privileged bitmask.Value, allowed ...string) g.AfterRule {
	allowed = slices.Clone(allowed)
	msg := "Only " + strings.Join(allowed, ", ") + " can be " + privileged.Name()
	if len(allowed) == 0 {
		msg = "No one can be " + privileged.Name()
	}
	return If(flagsField, Has, privileged).Then(func(ctx context.Context, inst *g.Instance) error {
		v, _ := g.Value[string](inst, nameField)
		if slices.Contains(allowed, v) {
			return nil
		}
		return recskema.Issues{recskema.IssueAt(recskema.Pointer(flagsField), recskema.CodeBusinessRule, msg,
			map[string]any{"allowed": allowed, "name": v})}
	})
}
