package dsl

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	recskema "github.com/reoring/recskema"
)

// ErrInvalidSchema is returned by Build for inconsistent declarations.
var ErrInvalidSchema = errors.New("dsl: invalid schema")

type recordBuilder struct {
	name       string
	fields     []FieldSpec
	index      map[string]int
	before     []beforeRule
	transforms []transformStep
	after      []afterRule
	serializer RecordSerializer
	unknown    recskema.UnknownPolicy
	aliasGen   func(string) string
	byAlias    bool
	frozen     bool
	now        func() time.Time
	newID      func() uuid.UUID
	errs       []error
}

type fieldStep struct {
	b   *recordBuilder
	idx int
}

type beforeRule struct {
	name string
	fn   BeforeRule
}

type transformStep struct {
	name  string
	field string
	fn    TransformFunc
}

type afterRule struct {
	name string
	fn   AfterRule
}

// Record creates a new record builder with safe defaults (UnknownStrict).
func Record() *recordBuilder {
	return &recordBuilder{
		index:   map[string]int{},
		unknown: recskema.UnknownStrict,
		now:     time.Now,
		newID:   uuid.New,
	}
}

func (b *recordBuilder) errorf(format string, a ...any) {
	b.errs = append(b.errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidSchema}, a...)...))
}

// Name sets the record's type name (used in logs and JSON Schema titles).
func (b *recordBuilder) Name(name string) *recordBuilder {
	b.name = name
	return b
}

// Field appends a field in declaration order. Fields are optional until
// marked Required.
func (b *recordBuilder) Field(name string, t Type) *fieldStep {
	if name == "" {
		b.errorf("empty field name")
	}
	if _, dup := b.index[name]; dup {
		b.errorf("duplicate field %q", name)
	}
	if t.kind == KindBitmask && t.set == nil {
		b.errorf("field %q: flags type without a set", name)
	}
	b.index[name] = len(b.fields)
	b.fields = append(b.fields, FieldSpec{Name: name, Type: t})
	return &fieldStep{b: b, idx: len(b.fields) - 1}
}

func (f *fieldStep) spec() *FieldSpec { return &f.b.fields[f.idx] }

// Required marks the field as required.
func (f *fieldStep) Required() *fieldStep {
	f.spec().Required = true
	return f
}

// Optional marks the field as optional (default).
func (f *fieldStep) Optional() *fieldStep {
	f.spec().Required = false
	return f
}

// Default sets a fixed default. It is coerced like input on every use.
func (f *fieldStep) Default(v any) *fieldStep {
	s := f.spec()
	s.Default, s.HasDefault, s.DefaultFunc = v, true, nil
	return f
}

// DefaultFunc sets a producer invoked once per instance.
func (f *fieldStep) DefaultFunc(fn func() any) *fieldStep {
	s := f.spec()
	s.Default, s.HasDefault, s.DefaultFunc = nil, false, fn
	return f
}

// Frozen makes the field write-once (construction only).
func (f *fieldStep) Frozen() *fieldStep {
	f.spec().Frozen = true
	return f
}

// Alias sets the alternate input/output name.
func (f *fieldStep) Alias(alias string) *fieldStep {
	f.spec().Alias = alias
	return f
}

// Exclude omits the field from output unless a caller includes it explicitly.
func (f *fieldStep) Exclude() *fieldStep {
	f.spec().Exclude = true
	return f
}

// MaxLength bounds the element count of list fields.
func (f *fieldStep) MaxLength(n int) *fieldStep {
	s := f.spec()
	if !s.Type.isList() {
		f.b.errorf("field %q: MaxLength on non-list kind %s", s.Name, s.Type.kind)
	}
	s.MaxLength = n
	return f
}

// Min sets a numeric minimum (inclusive).
func (f *fieldStep) Min(n float64) *fieldStep {
	f.spec().Min = &n
	return f
}

// Max sets a numeric maximum (inclusive).
func (f *fieldStep) Max(n float64) *fieldStep {
	f.spec().Max = &n
	return f
}

// Describe attaches a human-readable description (exported to JSON Schema).
func (f *fieldStep) Describe(desc string) *fieldStep {
	f.spec().Description = desc
	return f
}

// Rule appends a custom rule executed after canonical coercion.
func (f *fieldStep) Rule(name string, fn FieldRule) *fieldStep {
	if fn == nil {
		return f
	}
	s := f.spec()
	s.rules = append(s.rules, namedFieldRule{name: name, fn: fn})
	return f
}

// Pattern appends a rule requiring string values to match expr in full.
func (f *fieldStep) Pattern(expr string) *fieldStep {
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		f.b.errorf("field %q: pattern: %v", f.spec().Name, err)
		return f
	}
	return f.Rule("pattern", func(ctx context.Context, v any) error {
		s, ok := v.(string)
		if !ok || re.MatchString(s) {
			return nil
		}
		return recskema.Issues{recskema.IssueAt("/", recskema.CodePattern, "", map[string]any{"pattern": expr})}
	})
}

// Serialize overrides the field's wire rendering.
func (f *fieldStep) Serialize(fn FieldSerializer) *fieldStep {
	f.spec().serializer = fn
	return f
}

// Builder-level methods are forwarded so declarations chain naturally.
func (f *fieldStep) Field(name string, t Type) *fieldStep {
	return f.b.Field(name, t)
}

func (f *fieldStep) Before(name string, fn BeforeRule) *recordBuilder {
	return f.b.Before(name, fn)
}

func (f *fieldStep) Transform(field, name string, fn TransformFunc) *recordBuilder {
	return f.b.Transform(field, name, fn)
}

func (f *fieldStep) After(name string, fn AfterRule) *recordBuilder {
	return f.b.After(name, fn)
}

func (f *fieldStep) Serializer(fn RecordSerializer) *recordBuilder {
	return f.b.Serializer(fn)
}

func (f *fieldStep) UnknownStrict() *recordBuilder {
	return f.b.UnknownStrict()
}

func (f *fieldStep) UnknownStrip() *recordBuilder {
	return f.b.UnknownStrip()
}

func (f *fieldStep) Build() (*Schema, error) {
	return f.b.Build()
}

func (f *fieldStep) MustBuild() *Schema {
	return f.b.MustBuild()
}

// Before appends a pre-coercion rule over the raw input map.
func (b *recordBuilder) Before(name string, fn BeforeRule) *recordBuilder {
	if fn != nil {
		b.before = append(b.before, beforeRule{name: name, fn: fn})
	}
	return b
}

// Transform replaces the raw value of field before coercion (after all
// Before rules). It is skipped when the field is absent from the input.
func (b *recordBuilder) Transform(field, name string, fn TransformFunc) *recordBuilder {
	if fn != nil {
		b.transforms = append(b.transforms, transformStep{name: name, field: field, fn: fn})
	}
	return b
}

// After appends a post-coercion rule over the typed instance.
func (b *recordBuilder) After(name string, fn AfterRule) *recordBuilder {
	if fn != nil {
		b.after = append(b.after, afterRule{name: name, fn: fn})
	}
	return b
}

// Serializer replaces the default wire projection when callers pass no
// include/exclude filters.
func (b *recordBuilder) Serializer(fn RecordSerializer) *recordBuilder {
	b.serializer = fn
	return b
}

// UnknownStrict rejects input keys that match no field or alias.
func (b *recordBuilder) UnknownStrict() *recordBuilder {
	b.unknown = recskema.UnknownStrict
	return b
}

// UnknownStrip drops input keys that match no field or alias.
func (b *recordBuilder) UnknownStrip() *recordBuilder {
	b.unknown = recskema.UnknownStrip
	return b
}

// AliasGenerator derives aliases for fields without an explicit one.
func (b *recordBuilder) AliasGenerator(fn func(string) string) *recordBuilder {
	b.aliasGen = fn
	return b
}

// SerializeByAlias keys output by alias by default.
func (b *recordBuilder) SerializeByAlias() *recordBuilder {
	b.byAlias = true
	return b
}

// FrozenRecord makes every field write-once.
func (b *recordBuilder) FrozenRecord() *recordBuilder {
	b.frozen = true
	return b
}

// Clock replaces time.Now for timestamp defaults.
func (b *recordBuilder) Clock(fn func() time.Time) *recordBuilder {
	if fn != nil {
		b.now = fn
	}
	return b
}

// IDSource replaces uuid.New for identifier defaults.
func (b *recordBuilder) IDSource(fn func() uuid.UUID) *recordBuilder {
	if fn != nil {
		b.newID = fn
	}
	return b
}

// Build validates the declarations and returns an immutable Schema.
func (b *recordBuilder) Build() (*Schema, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	s := &Schema{
		name:       b.name,
		fields:     make([]FieldSpec, len(b.fields)),
		index:      make(map[string]int, len(b.fields)),
		aliases:    map[string]string{},
		before:     append([]beforeRule(nil), b.before...),
		transforms: append([]transformStep(nil), b.transforms...),
		after:      append([]afterRule(nil), b.after...),
		serializer: b.serializer,
		unknown:    b.unknown,
		byAlias:    b.byAlias,
		frozen:     b.frozen,
		now:        b.now,
		newID:      b.newID,
	}
	for i, f := range b.fields {
		f = f.clone()
		if f.Alias == "" && b.aliasGen != nil {
			if a := b.aliasGen(f.Name); a != f.Name {
				f.Alias = a
			}
		}
		if f.Required && (f.HasDefault || f.DefaultFunc != nil) {
			return nil, fmt.Errorf("%w: field %q is required and has a default", ErrInvalidSchema, f.Name)
		}
		if f.HasDefault {
			if _, iss := coerce(context.Background(), &f, f.Default); iss != nil {
				return nil, fmt.Errorf("%w: field %q: invalid default: %v", ErrInvalidSchema, f.Name, iss)
			}
		}
		s.fields[i] = f
		s.index[f.Name] = i
	}
	for _, f := range s.fields {
		if f.Alias == "" {
			continue
		}
		if _, clash := s.index[f.Alias]; clash {
			return nil, fmt.Errorf("%w: alias %q of %q collides with a field name", ErrInvalidSchema, f.Alias, f.Name)
		}
		if other, dup := s.aliases[f.Alias]; dup {
			return nil, fmt.Errorf("%w: alias %q used by %q and %q", ErrInvalidSchema, f.Alias, other, f.Name)
		}
		s.aliases[f.Alias] = f.Name
	}
	for _, t := range s.transforms {
		if _, ok := s.index[t.field]; !ok {
			return nil, fmt.Errorf("%w: transform %q targets unknown field %q", ErrInvalidSchema, t.name, t.field)
		}
	}
	return s, nil
}

// MustBuild is like Build but panics on error.
func (b *recordBuilder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
