package dsl

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	recskema "github.com/reoring/recskema"
	"github.com/reoring/recskema/bitmask"
)

// Instance is a validated, typed realization of a Schema. It is created only
// by Schema.Validate and is not safe for concurrent mutation.
type Instance struct {
	schema *Schema
	values map[string]any
}

// Schema returns the schema the instance was validated against.
func (i *Instance) Schema() *Schema { return i.schema }

// Get returns a field value by canonical name or alias.
func (i *Instance) Get(name string) (any, bool) {
	f := i.schema.lookup(name)
	if f == nil {
		return nil, false
	}
	v, ok := i.values[f.Name]
	return v, ok
}

// Value returns a field value as T. ok is false when the field is unknown,
// nil, or holds another type.
func Value[T any](i *Instance, name string) (T, bool) {
	var zero T
	v, ok := i.Get(name)
	if !ok || v == nil {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Fields returns the canonical field names in declaration order.
func (i *Instance) Fields() []string {
	out := make([]string, len(i.schema.fields))
	for k, f := range i.schema.fields {
		out[k] = f.Name
	}
	return out
}

// IsFrozen reports whether the field rejects writes after construction.
func (i *Instance) IsFrozen(name string) bool {
	f := i.schema.lookup(name)
	return f != nil && i.schema.frozenField(f)
}

// Set assigns v to a field with validate-on-assignment. The assignment goes
// through the record pipeline: pre-coercion rules see the current record
// with v in place, the field's transforms rewrite v, coercion and field rules
// run, and post-coercion rules check a trial copy. The instance changes only
// when every step passes.
func (i *Instance) Set(ctx context.Context, name string, v any) error {
	s := i.schema
	f := s.lookup(name)
	if f == nil {
		return recskema.Fail(recskema.Pointer(name), recskema.CodeUnknownKey, "")
	}
	path := recskema.Pointer(f.Name)
	if s.frozenField(f) {
		recskema.Logger(ctx).Debug().Str("record", s.name).Str("field", f.Name).Msg("write to frozen field rejected")
		return recskema.Issues{recskema.IssueAt(path, recskema.CodeImmutableField, "", map[string]any{"field": f.Name})}
	}
	trial := i.Clone()
	if v == nil && !f.Required {
		trial.values[f.Name] = nil
	} else {
		in := make(map[string]any, len(i.values))
		for k, cur := range i.values {
			in[k] = cur
		}
		in[f.Name] = v
		in, err := s.runBefore(ctx, in)
		if err != nil {
			return err
		}
		if err := s.runTransforms(ctx, in, f.Name); err != nil {
			return err
		}
		cv, iss := s.check(ctx, f, in[f.Name], path)
		if iss != nil {
			return iss
		}
		trial.values[f.Name] = cv
	}
	if err := s.runAfter(ctx, trial); err != nil {
		return err
	}
	i.values = trial.values
	return nil
}

// Clone returns an independent copy. List values are copied.
func (i *Instance) Clone() *Instance {
	out := &Instance{schema: i.schema, values: make(map[string]any, len(i.values))}
	for k, v := range i.values {
		switch t := v.(type) {
		case []uuid.UUID:
			v = append([]uuid.UUID{}, t...)
		case []string:
			v = append([]string{}, t...)
		}
		out.values[k] = v
	}
	return out
}

// Equal reports whether both instances share a schema and hold equal values.
func (i *Instance) Equal(o *Instance) bool {
	if i == nil || o == nil {
		return i == o
	}
	if i.schema != o.schema {
		return false
	}
	for _, f := range i.schema.fields {
		if !valueEqual(i.values[f.Name], o.values[f.Name]) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	switch x := a.(type) {
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case []uuid.UUID:
		y, ok := b.([]uuid.UUID)
		if !ok || len(x) != len(y) {
			return false
		}
		for k := range x {
			if x[k] != y[k] {
				return false
			}
		}
		return true
	case []string:
		y, ok := b.([]string)
		if !ok || len(x) != len(y) {
			return false
		}
		for k := range x {
			if x[k] != y[k] {
				return false
			}
		}
		return true
	}
	return a == b
}

// String renders name=value pairs in declaration order. Secrets render as
// the placeholder.
func (i *Instance) String() string {
	b := &strings.Builder{}
	for k, f := range i.schema.fields {
		if k > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f.Name)
		b.WriteByte('=')
		b.WriteString(renderValue(i.values[f.Name]))
	}
	return b.String()
}

func renderValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case string:
		return strconv.Quote(t)
	case Secret:
		return fmt.Sprintf("Secret(%q)", t.String())
	case bitmask.Value:
		return "<" + t.String() + ": " + strconv.FormatInt(t.Int(), 10) + ">"
	case time.Time:
		return t.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}
