package dsl

import (
	"context"
	"time"

	"github.com/google/uuid"

	recskema "github.com/reoring/recskema"
	"github.com/reoring/recskema/bitmask"
	js "github.com/reoring/recskema/jsonschema"
)

// Schema is an immutable, declaration-ordered record schema produced by
// Record().Build() or BuildSchema. It is safe for concurrent use.
type Schema struct {
	name       string
	fields     []FieldSpec
	index      map[string]int
	aliases    map[string]string // alias -> canonical name
	before     []beforeRule
	transforms []transformStep
	after      []afterRule
	serializer RecordSerializer
	unknown    recskema.UnknownPolicy
	byAlias    bool
	frozen     bool
	now        func() time.Time
	newID      func() uuid.UUID
}

// Name returns the record's type name.
func (s *Schema) Name() string { return s.name }

// Fields returns copies of the field specs in declaration order.
func (s *Schema) Fields() []FieldSpec {
	out := make([]FieldSpec, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.clone()
	}
	return out
}

// Field returns the spec of a field by canonical name or alias.
func (s *Schema) Field(name string) (FieldSpec, bool) {
	f := s.lookup(name)
	if f == nil {
		return FieldSpec{}, false
	}
	return f.clone(), true
}

// UnknownPolicy reports how keys outside the schema are handled.
func (s *Schema) UnknownPolicy() recskema.UnknownPolicy { return s.unknown }

// Frozen reports whether every field of the record is write-once.
func (s *Schema) Frozen() bool { return s.frozen }

func (s *Schema) lookup(name string) *FieldSpec {
	if i, ok := s.index[name]; ok {
		return &s.fields[i]
	}
	if canon, ok := s.aliases[name]; ok {
		return &s.fields[s.index[canon]]
	}
	return nil
}

func (s *Schema) frozenField(f *FieldSpec) bool { return s.frozen || f.Frozen }

// JSONSchema exports the record as a JSON Schema object.
func (s *Schema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{
		Title:      s.name,
		Type:       "object",
		Properties: make(map[string]*js.Schema, len(s.fields)),
	}
	if s.unknown == recskema.UnknownStrict {
		out.AdditionalProperties = false
	}
	for _, f := range s.fields {
		p := fieldJSONSchema(f)
		key := f.Name
		if s.byAlias && f.Alias != "" {
			key = f.Alias
		}
		out.Properties[key] = p
		if f.Required {
			out.Required = append(out.Required, key)
		}
	}
	return out, nil
}

func fieldJSONSchema(f FieldSpec) *js.Schema {
	p := &js.Schema{Description: f.Description, Minimum: f.Min, Maximum: f.Max}
	switch f.Type.kind {
	case KindString:
		p.Type = "string"
	case KindInt:
		p.Type = "integer"
	case KindFloat:
		p.Type = "number"
	case KindBool:
		p.Type = "boolean"
	case KindEmail:
		p.Type, p.Format = "string", "email"
	case KindSecret:
		p.Type, p.Format, p.WriteOnly = "string", "password", true
	case KindBitmask:
		p.Type = "string"
		for _, n := range f.Type.set.Names() {
			p.Enum = append(p.Enum, n)
		}
	case KindUUID:
		p.Type, p.Format = "string", "uuid"
	case KindTimestamp:
		p.Type, p.Format = "string", "date-time"
	case KindUUIDList:
		p.Type, p.Items = "array", &js.Schema{Type: "string", Format: "uuid"}
	case KindStringList:
		p.Type, p.Items = "array", &js.Schema{Type: "string"}
	}
	if f.MaxLength > 0 {
		n := f.MaxLength
		p.MaxItems = &n
	}
	if f.HasDefault && f.Type.kind != KindSecret {
		p.Default = f.Default
		if f.Type.kind == KindBitmask {
			if cv, iss := coerce(context.Background(), &f, f.Default); iss == nil {
				if bv, ok := cv.(bitmask.Value); ok {
					p.Default = bv.Name()
				}
			}
		}
	}
	if f.Frozen {
		p.ReadOnly = true
	}
	return p
}
