package dsl_test

import (
	"context"
	"errors"
	"testing"

	recskema "github.com/reoring/recskema"
	"github.com/reoring/recskema/bitmask"
	g "github.com/reoring/recskema/dsl"
)

const memberSpecYAML = `
name: Member
unknown: strict
fields:
  - name: username
    type: string
    required: true
    pattern: "[a-z_]{3,}"
  - name: email
    type: email
    required: true
    frozen: true
  - name: role
    type: flags
    default: Reader
    members: ["Reader=0", "Writer", "Reviewer", "Owner=Writer|Reviewer"]
  - name: tags
    type: string_list
    max_length: 2
variants:
  admin:
    - name: access_level
      type: int
      required: true
      min: 5
`

func TestLoadSpecYAML_BuildsSchema(t *testing.T) {
	ctx := context.Background()
	sp, err := g.LoadSpecYAML([]byte(memberSpecYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if names := sp.VariantNames(); len(names) != 1 || names[0] != "admin" {
		t.Fatalf("variants=%v", names)
	}
	s, err := g.BuildSchema(sp)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	inst, err := s.Validate(ctx, map[string]any{"username": "john_doe", "email": "j@example.com", "role": "Owner"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	role, _ := g.Value[bitmask.Value](inst, "role")
	if role.Name() != "Owner" || role.Int() != 3 {
		t.Fatalf("role=%v", role)
	}
	if !inst.IsFrozen("email") {
		t.Fatalf("email must be frozen")
	}

	_, err = s.Validate(ctx, map[string]any{"username": "J", "email": "j@example.com", "tags": []any{"a", "b", "c"}})
	iss := mustIssues(t, err)
	if !iss.HasCode("/username", recskema.CodePattern) || !iss.HasCode("/tags", recskema.CodeLengthExceeded) {
		t.Fatalf("unexpected issues: %v", iss)
	}
}

func TestBuildSchema_VariantsAreIndependent(t *testing.T) {
	ctx := context.Background()
	sp, err := g.LoadSpecYAML([]byte(memberSpecYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	regular, err := g.BuildSchema(sp)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	admin, err := g.BuildSchema(sp, "admin")
	if err != nil {
		t.Fatalf("build admin: %v", err)
	}
	if len(sp.Fields) != 4 {
		t.Fatalf("spec mutated: %d fields", len(sp.Fields))
	}
	if _, ok := regular.Field("access_level"); ok {
		t.Fatalf("regular schema must not carry the admin field")
	}

	base := map[string]any{"username": "admin", "email": "admin@example.com"}
	if _, err := regular.Validate(ctx, base); err != nil {
		t.Fatalf("regular: %v", err)
	}
	_, err = admin.Validate(ctx, base)
	if !mustIssues(t, err).HasCode("/access_level", recskema.CodeMissingRequired) {
		t.Fatalf("expected missing access_level, got %v", err)
	}
	withLevel := map[string]any{"username": "admin", "email": "admin@example.com", "access_level": 4}
	_, err = admin.Validate(ctx, withLevel)
	if !mustIssues(t, err).HasCode("/access_level", recskema.CodeTooSmall) {
		t.Fatalf("expected too_small, got %v", err)
	}
	withLevel["access_level"] = 10
	if _, err := admin.Validate(ctx, withLevel); err != nil {
		t.Fatalf("admin: %v", err)
	}
	_, err = regular.Validate(ctx, withLevel)
	if !mustIssues(t, err).HasCode("/access_level", recskema.CodeUnknownKey) {
		t.Fatalf("regular schema must reject the admin field, got %v", err)
	}
}

func TestBuildSchema_Errors(t *testing.T) {
	cases := map[string]g.Spec{
		"unknown type":    {Name: "X", Fields: []g.FieldDef{{Name: "a", Type: "matrix"}}},
		"unknown policy":  {Name: "X", Unknown: "maybe", Fields: []g.FieldDef{{Name: "a", Type: "string"}}},
		"flags no member": {Name: "X", Fields: []g.FieldDef{{Name: "a", Type: "flags"}}},
		"bad union":       {Name: "X", Fields: []g.FieldDef{{Name: "a", Type: "flags", Members: []string{"A", "B=A|Z"}}}},
		"members on int":  {Name: "X", Fields: []g.FieldDef{{Name: "a", Type: "int", Members: []string{"A"}}}},
	}
	for name, sp := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := g.BuildSchema(sp); !errors.Is(err, g.ErrInvalidSchema) {
				t.Fatalf("expected ErrInvalidSchema, got %v", err)
			}
		})
	}
	if _, err := g.BuildSchema(g.Spec{Name: "X"}, "ghost"); !errors.Is(err, g.ErrInvalidSchema) {
		t.Fatalf("unknown variant: %v", err)
	}
}

func TestLoadSpecYAML_RejectsUnknownKeys(t *testing.T) {
	if _, err := g.LoadSpecYAML([]byte("name: X\nfeilds: []\n")); err == nil {
		t.Fatalf("expected error for misspelled key")
	}
	if _, err := g.LoadSpecYAML([]byte("fields: []\n")); !errors.Is(err, g.ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema for nameless spec, got %v", err)
	}
}
