package dsl

import (
	"context"
	"fmt"
	"time"

	j "github.com/goccy/go-json"
	"github.com/google/uuid"

	recskema "github.com/reoring/recskema"
	"github.com/reoring/recskema/bitmask"
	"github.com/reoring/recskema/codec"
)

// DumpOpt controls one serialization call.
type DumpOpt struct {
	Shape recskema.Shape
	// Include, when non-empty, restricts output to these fields (canonical
	// names or aliases). It also re-admits fields marked Exclude.
	Include []string
	// Exclude removes fields from output.
	Exclude []string
	// ByAlias keys output by alias. The schema's SerializeByAlias sets it
	// for every call.
	ByAlias bool
	// RevealSecrets renders secrets as their raw text.
	RevealSecrets bool
}

// Dump projects inst into a map according to opt.
func (s *Schema) Dump(ctx context.Context, inst *Instance, opt DumpOpt) (map[string]any, error) {
	if inst == nil || inst.schema != s {
		return nil, fmt.Errorf("dsl: instance does not belong to schema %q", s.name)
	}
	if opt.Shape == recskema.ShapeWire && s.serializer != nil && len(opt.Include) == 0 && len(opt.Exclude) == 0 {
		return s.serializer(ctx, inst)
	}
	include := s.nameSet(opt.Include)
	exclude := s.nameSet(opt.Exclude)
	byAlias := opt.ByAlias || s.byAlias

	out := make(map[string]any, len(s.fields))
	for k := range s.fields {
		f := &s.fields[k]
		if _, ok := exclude[f.Name]; ok {
			continue
		}
		if len(include) > 0 {
			if _, ok := include[f.Name]; !ok {
				continue
			}
		} else if f.Exclude {
			continue
		}
		key := f.Name
		if byAlias && f.Alias != "" {
			key = f.Alias
		}
		v := inst.values[f.Name]
		if opt.Shape == recskema.ShapeWire {
			wv, keep, err := s.wireValue(ctx, f, v, opt.RevealSecrets)
			if err != nil {
				return nil, fmt.Errorf("dsl: serialize %s: %w", f.Name, err)
			}
			if !keep {
				continue
			}
			out[key] = wv
			continue
		}
		if sec, ok := v.(Secret); ok {
			if opt.RevealSecrets {
				v = sec.Reveal()
			} else {
				v = sec.String()
			}
		}
		out[key] = copyList(v)
	}
	return out, nil
}

// Dump is shorthand for i.Schema().Dump(ctx, i, opt).
func (i *Instance) Dump(ctx context.Context, opt DumpOpt) (map[string]any, error) {
	return i.schema.Dump(ctx, i, opt)
}

// EncodeJSON renders the wire shape of inst as JSON. opt.Shape is ignored.
func (s *Schema) EncodeJSON(ctx context.Context, inst *Instance, opt DumpOpt) ([]byte, error) {
	opt.Shape = recskema.ShapeWire
	m, err := s.Dump(ctx, inst, opt)
	if err != nil {
		return nil, err
	}
	return j.Marshal(m)
}

func (s *Schema) nameSet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		if f := s.lookup(n); f != nil {
			out[f.Name] = struct{}{}
		}
	}
	return out
}

// wireValue renders v with primitive values only. keep is false for
// secrets that must not leave the process.
func (s *Schema) wireValue(ctx context.Context, f *FieldSpec, v any, reveal bool) (any, bool, error) {
	if f.serializer != nil {
		wv, err := f.serializer(ctx, v)
		return wv, err == nil, err
	}
	switch t := v.(type) {
	case nil:
		return nil, true, nil
	case Secret:
		if !reveal {
			return nil, false, nil
		}
		return t.Reveal(), true, nil
	case bitmask.Value:
		if n := t.Name(); n != "" {
			return n, true, nil
		}
		return t.Int(), true, nil
	case uuid.UUID:
		txt, err := codec.UUIDText().Encode(ctx, t)
		return txt, err == nil, err
	case time.Time:
		txt, err := codec.TimeRFC3339().Encode(ctx, t)
		return txt, err == nil, err
	case []uuid.UUID:
		out := make([]string, len(t))
		for k, id := range t {
			out[k] = id.String()
		}
		return out, true, nil
	case []string:
		return append([]string{}, t...), true, nil
	}
	return v, true, nil
}

func copyList(v any) any {
	switch t := v.(type) {
	case []uuid.UUID:
		return append([]uuid.UUID{}, t...)
	case []string:
		return append([]string{}, t...)
	}
	return v
}
