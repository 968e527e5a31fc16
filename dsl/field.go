package dsl

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FieldRule checks an already coerced field value. Issues it returns are
// relative to the field ("/" means the field itself); plain errors become a
// single custom issue at the field path.
type FieldRule func(ctx context.Context, v any) error

// FieldSerializer renders a field value for the wire shape.
type FieldSerializer func(ctx context.Context, v any) (any, error)

// BeforeRule sees the raw input map before any field is coerced. It returns
// the (possibly modified) map, or nil to keep the map it was given.
type BeforeRule func(ctx context.Context, raw map[string]any) (map[string]any, error)

// TransformFunc replaces one raw value before field coercion.
type TransformFunc func(ctx context.Context, v any) (any, error)

// AfterRule sees the fully typed instance.
type AfterRule func(ctx context.Context, inst *Instance) error

// RecordSerializer replaces the default wire projection of a whole record.
type RecordSerializer func(ctx context.Context, inst *Instance) (map[string]any, error)

// FieldSpec is the schema metadata of one field. Values returned by
// Schema.Fields are copies; mutating them does not affect the schema.
type FieldSpec struct {
	Name        string
	Type        Type
	Required    bool
	Frozen      bool
	Alias       string
	Exclude     bool // omitted from output unless explicitly included
	MaxLength   int  // list fields; 0 means unbounded
	Min         *float64
	Max         *float64
	Description string

	Default     any
	HasDefault  bool
	DefaultFunc func() any

	rules      []namedFieldRule
	serializer FieldSerializer
}

type namedFieldRule struct {
	name string
	fn   FieldRule
}

// RuleNames lists the field's custom rules in execution order.
func (f FieldSpec) RuleNames() []string {
	out := make([]string, 0, len(f.rules))
	for _, r := range f.rules {
		out = append(out, r.name)
	}
	return out
}

// HasSerializer reports whether a wire serializer override is attached.
func (f FieldSpec) HasSerializer() bool { return f.serializer != nil }

func (f FieldSpec) clone() FieldSpec {
	out := f
	out.rules = append([]namedFieldRule(nil), f.rules...)
	if f.Min != nil {
		m := *f.Min
		out.Min = &m
	}
	if f.Max != nil {
		m := *f.Max
		out.Max = &m
	}
	return out
}

// implicitDefault yields the kind default of an unset optional field.
func implicitDefault(t Type, now func() time.Time, newID func() uuid.UUID) any {
	switch t.kind {
	case KindTimestamp:
		return now()
	case KindUUID:
		return newID()
	case KindUUIDList:
		return []uuid.UUID{}
	case KindStringList:
		return []string{}
	}
	return nil
}
