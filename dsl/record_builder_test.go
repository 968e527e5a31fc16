package dsl_test

import (
	"context"
	"errors"
	"testing"

	g "github.com/reoring/recskema/dsl"
)

func TestBuild_RejectsInconsistentDeclarations(t *testing.T) {
	cases := map[string]func() (*g.Schema, error){
		"duplicate field": func() (*g.Schema, error) {
			return g.Record().Field("a", g.String()).Field("a", g.Int()).Build()
		},
		"required with default": func() (*g.Schema, error) {
			return g.Record().Field("a", g.String()).Default("x").Required().Build()
		},
		"alias equals another field": func() (*g.Schema, error) {
			return g.Record().Field("a", g.String()).Alias("b").Field("b", g.String()).Build()
		},
		"duplicate alias": func() (*g.Schema, error) {
			return g.Record().Field("a", g.String()).Alias("x").Field("b", g.String()).Alias("x").Build()
		},
		"transform on unknown field": func() (*g.Schema, error) {
			return g.Record().Field("a", g.String()).
				Transform("nope", "t", func(ctx context.Context, v any) (any, error) { return v, nil }).Build()
		},
		"invalid fixed default": func() (*g.Schema, error) {
			return g.Record().Field("n", g.Int()).Default("ten").Build()
		},
		"max length on scalar": func() (*g.Schema, error) {
			return g.Record().Field("n", g.Int()).MaxLength(3).Build()
		},
		"bad pattern": func() (*g.Schema, error) {
			return g.Record().Field("s", g.String()).Pattern("(").Build()
		},
		"flags without set": func() (*g.Schema, error) {
			return g.Record().Field("r", g.Flags(nil)).Build()
		},
	}
	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := build(); !errors.Is(err, g.ErrInvalidSchema) {
				t.Fatalf("expected ErrInvalidSchema, got %v", err)
			}
		})
	}
}

func TestBuild_MustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	g.Record().Field("a", g.String()).Field("a", g.String()).MustBuild()
}

func TestBuild_AliasGenerator(t *testing.T) {
	s := g.Record().
		AliasGenerator(func(n string) string { return "x_" + n }).
		Field("a", g.String()).
		Field("b", g.String()).Alias("bee").
		MustBuild()
	if f, _ := s.Field("a"); f.Alias != "x_a" {
		t.Fatalf("generated alias=%q", f.Alias)
	}
	if f, _ := s.Field("b"); f.Alias != "bee" {
		t.Fatalf("explicit alias must win, got %q", f.Alias)
	}
	if f, ok := s.Field("x_a"); !ok || f.Name != "a" {
		t.Fatalf("lookup by alias failed: %+v", f)
	}
}

func TestSchema_FieldsAreCopies(t *testing.T) {
	s := g.Record().
		Field("a", g.Int()).Min(1).Rule("r", func(ctx context.Context, v any) error { return nil }).
		Field("b", g.String()).
		MustBuild()
	fs := s.Fields()
	if len(fs) != 2 || fs[0].Name != "a" || fs[1].Name != "b" {
		t.Fatalf("declaration order lost: %+v", fs)
	}
	*fs[0].Min = 100
	fs[0].Required = true
	again, _ := s.Field("a")
	if *again.Min != 1 || again.Required {
		t.Fatalf("schema mutated through a copy: %+v", again)
	}
	if names := again.RuleNames(); len(names) != 1 || names[0] != "r" {
		t.Fatalf("rule names=%v", names)
	}
}
