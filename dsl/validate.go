package dsl

import (
	"context"
	"sort"

	recskema "github.com/reoring/recskema"
	"github.com/reoring/recskema/i18n"
)

// Validate runs the pipeline over raw: alias resolution, pre-coercion rules,
// transforms, field coercion with field rules, unknown-key handling and
// post-coercion rules. raw is never mutated.
//
// Pre- and post-coercion failures abort with a single-cause report. Field
// failures are collected across all fields unless fail-fast is requested.
func (s *Schema) Validate(ctx context.Context, raw map[string]any, opts ...recskema.ParseOpt) (*Instance, error) {
	ctx = recskema.ApplyParseOpt(ctx, opts)
	log := recskema.Logger(ctx)
	if raw == nil {
		raw = map[string]any{}
	}
	in := s.resolveKeys(raw)

	in, err := s.runBefore(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.runTransforms(ctx, in, ""); err != nil {
		return nil, err
	}

	values := make(map[string]any, len(s.fields))
	var issues recskema.Issues
	for i := range s.fields {
		f := &s.fields[i]
		v, iss := s.resolveField(ctx, f, in)
		if iss != nil {
			issues = recskema.AppendIssues(issues, iss...)
			if recskema.IsFailFast(ctx) {
				break
			}
			continue
		}
		values[f.Name] = v
	}
	if s.unknown == recskema.UnknownStrict && !(recskema.IsFailFast(ctx) && len(issues) > 0) {
		issues = recskema.AppendIssues(issues, s.unknownKeys(in)...)
	}
	if len(issues) > 0 {
		log.Debug().Str("record", s.name).Int("issues", len(issues)).Msg("field coercion failed")
		return nil, issues
	}

	inst := &Instance{schema: s, values: values}
	if err := s.runAfter(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// runBefore applies the pre-coercion rules in order. A rule may return a
// replacement map; the first failure aborts.
func (s *Schema) runBefore(ctx context.Context, in map[string]any) (map[string]any, error) {
	for _, r := range s.before {
		next, err := r.fn(ctx, in)
		if err != nil {
			iss := withRule(recskema.IssuesFromErr("/", recskema.CodeCrossField, err), r.name)
			recskema.Logger(ctx).Debug().Str("record", s.name).Str("rule", r.name).Err(iss).Msg("pre-coercion rule rejected input")
			return nil, iss
		}
		if next != nil {
			in = next
		}
	}
	return in, nil
}

// runTransforms rewrites present raw values in place. A non-empty only
// restricts the pass to that field.
func (s *Schema) runTransforms(ctx context.Context, in map[string]any, only string) error {
	for _, t := range s.transforms {
		if only != "" && t.field != only {
			continue
		}
		v, ok := in[t.field]
		if !ok {
			continue
		}
		nv, err := t.fn(ctx, v)
		if err != nil {
			iss := withRule(recskema.IssuesFromErr("/", recskema.CodeCrossField, err), t.name).Rebase(recskema.Pointer(t.field))
			recskema.Logger(ctx).Debug().Str("record", s.name).Str("transform", t.name).Err(iss).Msg("transform failed")
			return iss
		}
		in[t.field] = nv
	}
	return nil
}

func (s *Schema) runAfter(ctx context.Context, inst *Instance) error {
	for _, r := range s.after {
		if err := r.fn(ctx, inst); err != nil {
			iss := withRule(recskema.IssuesFromErr("/", recskema.CodeBusinessRule, err), r.name)
			recskema.Logger(ctx).Debug().Str("record", s.name).Str("rule", r.name).Err(iss).Msg("post-coercion rule rejected instance")
			return iss
		}
	}
	return nil
}

// resolveKeys copies raw with alias keys rewritten to canonical names. A
// canonical key wins over its alias when both are present.
func (s *Schema) resolveKeys(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if canon, ok := s.aliases[k]; ok {
			if _, both := raw[canon]; both {
				continue
			}
			out[canon] = v
			continue
		}
		out[k] = v
	}
	return out
}

func (s *Schema) unknownKeys(in map[string]any) recskema.Issues {
	var keys []string
	for k := range in {
		if _, ok := s.index[k]; !ok {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)
	out := make(recskema.Issues, 0, len(keys))
	for _, k := range keys {
		out = append(out, recskema.IssueAt(recskema.Pointer(k), recskema.CodeUnknownKey, "", nil))
	}
	return out
}

// resolveField picks the source value of f and coerces it. Issues carry
// absolute paths.
func (s *Schema) resolveField(ctx context.Context, f *FieldSpec, in map[string]any) (any, recskema.Issues) {
	path := recskema.Pointer(f.Name)
	v, present := in[f.Name]
	switch {
	case present:
	case f.DefaultFunc != nil:
		v = f.DefaultFunc()
	case f.HasDefault:
		v = f.Default
	case f.Required:
		return nil, recskema.Issues{recskema.Issue{
			Path:    path,
			Code:    recskema.CodeMissingRequired,
			Message: i18n.T(recskema.CodeMissingRequired, nil),
		}}
	default:
		return implicitDefault(f.Type, s.now, s.newID), nil
	}
	if v == nil && !f.Required {
		return nil, nil
	}
	return s.check(ctx, f, v, path)
}

// check runs canonical coercion followed by the field's rules.
func (s *Schema) check(ctx context.Context, f *FieldSpec, v any, path string) (any, recskema.Issues) {
	cv, iss := coerce(ctx, f, v)
	if iss != nil {
		return nil, iss.Rebase(path)
	}
	for _, r := range f.rules {
		if err := r.fn(ctx, cv); err != nil {
			return nil, withRule(recskema.IssuesFromErr("/", recskema.CodeCustom, err), r.name).Rebase(path)
		}
	}
	return cv, nil
}

func withRule(iss recskema.Issues, name string) recskema.Issues {
	out := make(recskema.Issues, len(iss))
	for i, it := range iss {
		if it.Rule == "" {
			it.Rule = name
		}
		out[i] = it
	}
	return out
}
