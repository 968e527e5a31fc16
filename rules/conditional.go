package rules

import (
	"context"
	"math"
	"reflect"

	recskema "github.com/reoring/recskema"
	"github.com/reoring/recskema/bitmask"
	g "github.com/reoring/recskema/dsl"
)

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
	Has // bitmask containment: every bit of want is set
)

// Conditional composes conditional execution of post-coercion rules.
type Conditional struct {
	field string
	op    Op
	want  any
	all   []Conditional // composite AND
	any   []Conditional // composite OR
}

// If builds a conditional that compares a typed field of the instance
// against want using op. Numeric wants of any Go width compare by value.
func If(field string, op Op, want any) Conditional {
	return Conditional{field: field, op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Holds evaluates the conditional against inst.
func (c Conditional) Holds(inst *g.Instance) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.Holds(inst) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.Holds(inst) {
				return true
			}
		}
		return false
	}
	cur, ok := inst.Get(c.field)
	if !ok || cur == nil {
		return false
	}
	return compare(cur, c.op, c.want)
}

// Then attaches rules to run when the condition is satisfied.
func (c Conditional) Then(rules ...g.AfterRule) g.AfterRule {
	all := All(rules...)
	return func(ctx context.Context, inst *g.Instance) error {
		if !c.Holds(inst) {
			return nil
		}
		return all(ctx, inst)
	}
}

// All executes every rule and concatenates their Issues. Under fail-fast it
// stops at the first failing rule.
func All(rules ...g.AfterRule) g.AfterRule {
	return func(ctx context.Context, inst *g.Instance) error {
		var out recskema.Issues
		for _, r := range rules {
			if r == nil {
				continue
			}
			if err := r(ctx, inst); err != nil {
				out = recskema.AppendIssues(out, recskema.IssuesFromErr("/", recskema.CodeBusinessRule, err)...)
				if recskema.IsFailFast(ctx) {
					return out
				}
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
}

// Any succeeds if any rule succeeds. When all fail, the branch with the
// fewest issues is returned.
func Any(rules ...g.AfterRule) g.AfterRule {
	return func(ctx context.Context, inst *g.Instance) error {
		var best recskema.Issues
		for _, r := range rules {
			if r == nil {
				continue
			}
			err := r(ctx, inst)
			if err == nil {
				return nil
			}
			iss := recskema.IssuesFromErr("/", recskema.CodeBusinessRule, err)
			if best == nil || len(iss) < len(best) {
				best = iss
			}
		}
		if best == nil {
			return nil
		}
		return best
	}
}

// ------- helpers -------

func compare(cur any, op Op, want any) bool {
	if op == Has {
		a, ok1 := cur.(bitmask.Value)
		b, ok2 := want.(bitmask.Value)
		return ok1 && ok2 && a.Set() == b.Set() && b.Bits() != 0 && a.Contains(b)
	}
	if a, ok := toFloat(cur); ok {
		if b, ok := toFloat(want); ok {
			return compareOrdered(a, op, b)
		}
	}
	switch op {
	case Eq:
		return reflect.DeepEqual(cur, want)
	case Ne:
		return !reflect.DeepEqual(cur, want)
	}
	return false
}

func compareOrdered(a float64, op Op, b float64) bool {
	switch op {
	case Eq:
		return a == b
	case Ne:
		return a != b
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	}
	return false
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f, !math.IsNaN(f)
	}
	return 0, false
}
