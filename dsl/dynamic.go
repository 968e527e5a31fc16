package dsl

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/reoring/recskema/bitmask"
)

// FieldDef is the data form of one field, as read from a spec file.
type FieldDef struct {
	Name        string   `yaml:"name" json:"name"`
	Type        string   `yaml:"type" json:"type"`
	Required    bool     `yaml:"required,omitempty" json:"required,omitempty"`
	Default     any      `yaml:"default,omitempty" json:"default,omitempty"`
	Alias       string   `yaml:"alias,omitempty" json:"alias,omitempty"`
	Frozen      bool     `yaml:"frozen,omitempty" json:"frozen,omitempty"`
	Exclude     bool     `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	Min         *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max         *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	MaxLength   int      `yaml:"max_length,omitempty" json:"max_length,omitempty"`
	Pattern     string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	// Members declares the flags of a bitmask field: "Name" (next bit),
	// "Name=4" (explicit value) or "Name=A|B" (union of earlier members).
	Members []string `yaml:"members,omitempty" json:"members,omitempty"`
}

// Spec describes a record schema as data. Variants hold extra fields
// appended when the matching flag is passed to BuildSchema.
type Spec struct {
	Name     string                `yaml:"name" json:"name"`
	Unknown  string                `yaml:"unknown,omitempty" json:"unknown,omitempty"` // "strict" (default) or "strip"
	Fields   []FieldDef            `yaml:"fields" json:"fields"`
	Variants map[string][]FieldDef `yaml:"variants,omitempty" json:"variants,omitempty"`
}

// VariantNames lists the spec's variant flags in sorted order.
func (sp Spec) VariantNames() []string {
	out := make([]string, 0, len(sp.Variants))
	for k := range sp.Variants {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// BuildSchema turns sp into a Schema. Each enabled flag appends the fields
// of the variant with that name. Every call builds from fresh copies, so
// schemas built from the same Spec never share state.
func BuildSchema(sp Spec, flags ...string) (*Schema, error) {
	defs := append([]FieldDef(nil), sp.Fields...)
	for _, fl := range flags {
		extra, ok := sp.Variants[fl]
		if !ok {
			return nil, fmt.Errorf("%w: unknown variant %q", ErrInvalidSchema, fl)
		}
		defs = append(defs, extra...)
	}

	b := Record().Name(sp.Name)
	switch strings.ToLower(sp.Unknown) {
	case "", "strict", "forbid":
		b.UnknownStrict()
	case "strip", "ignore":
		b.UnknownStrip()
	default:
		return nil, fmt.Errorf("%w: unknown policy %q", ErrInvalidSchema, sp.Unknown)
	}
	for _, d := range defs {
		t, err := d.fieldType()
		if err != nil {
			return nil, err
		}
		st := b.Field(d.Name, t)
		if d.Required {
			st.Required()
		}
		if d.Default != nil {
			st.Default(d.Default)
		}
		if d.Alias != "" {
			st.Alias(d.Alias)
		}
		if d.Frozen {
			st.Frozen()
		}
		if d.Exclude {
			st.Exclude()
		}
		if d.Min != nil {
			st.Min(*d.Min)
		}
		if d.Max != nil {
			st.Max(*d.Max)
		}
		if d.MaxLength > 0 {
			st.MaxLength(d.MaxLength)
		}
		if d.Pattern != "" {
			st.Pattern(d.Pattern)
		}
		if d.Description != "" {
			st.Describe(d.Description)
		}
	}
	return b.Build()
}

func (d FieldDef) fieldType() (Type, error) {
	k, ok := ParseKind(d.Type)
	if !ok {
		return Type{}, fmt.Errorf("%w: field %q: unknown type %q", ErrInvalidSchema, d.Name, d.Type)
	}
	if k != KindBitmask {
		if len(d.Members) > 0 {
			return Type{}, fmt.Errorf("%w: field %q: members on non-flags type", ErrInvalidSchema, d.Name)
		}
		return Type{kind: k}, nil
	}
	set, err := defineMembers(d.Name, d.Members)
	if err != nil {
		return Type{}, fmt.Errorf("%w: field %q: %v", ErrInvalidSchema, d.Name, err)
	}
	return Flags(set), nil
}

func defineMembers(name string, members []string) (*bitmask.Set, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("flags type without members")
	}
	defs := make([]bitmask.Def, 0, len(members))
	for _, m := range members {
		n, v, hasValue := strings.Cut(m, "=")
		n, v = strings.TrimSpace(n), strings.TrimSpace(v)
		switch {
		case !hasValue:
			defs = append(defs, bitmask.Auto(n))
		case strings.Contains(v, "|"):
			parts := strings.Split(v, "|")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			defs = append(defs, bitmask.Union(n, parts...))
		default:
			u, err := strconv.ParseUint(v, 0, 64)
			if err != nil {
				// A single earlier member name is a one-element union.
				defs = append(defs, bitmask.Union(n, v))
				continue
			}
			defs = append(defs, bitmask.Explicit(n, u))
		}
	}
	return bitmask.Define(name, defs...)
}
