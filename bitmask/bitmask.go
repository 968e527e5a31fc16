// Package bitmask implements closed sets of named integer flags that combine
// by bitwise union, for role- and permission-like categories.
//
//	roles := bitmask.MustDefine("Role",
//		bitmask.Explicit("User", 0),
//		bitmask.Auto("Author"),
//		bitmask.Auto("Editor"),
//		bitmask.Union("Staff", "Author", "Editor"),
//	)
//	staff := roles.MustName("Staff")
//	staff.Contains(roles.MustName("Editor")) // true
package bitmask

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

var (
	// ErrUnknownMember is returned when a name is not declared in the set.
	ErrUnknownMember = errors.New("bitmask: unknown member")
	// ErrUnrepresentable is returned when a number is not a union of declared
	// single-bit members.
	ErrUnrepresentable = errors.New("bitmask: value is not a union of declared members")
	// ErrInvalidDefinition is returned by Define for malformed member lists.
	ErrInvalidDefinition = errors.New("bitmask: invalid definition")
)

type defKind uint8

const (
	defAuto defKind = iota
	defExplicit
	defUnion
)

// Def declares one member of a Set.
type Def struct {
	name  string
	kind  defKind
	value uint64
	of    []string
}

// Auto declares a member holding the next unused power of two.
func Auto(name string) Def { return Def{name: name, kind: defAuto} }

// Explicit declares a member with a fixed value: 0 (base member), a single
// unused bit, or a union of bits already declared.
func Explicit(name string, v uint64) Def { return Def{name: name, kind: defExplicit, value: v} }

// Union declares a composite member as the union of previously declared names.
func Union(name string, names ...string) Def {
	return Def{name: name, kind: defUnion, of: append([]string(nil), names...)}
}

// Set is an immutable, closed set of named flags. It is safe for concurrent use.
type Set struct {
	name    string
	names   []string
	byName  map[string]uint64
	byValue map[uint64]string // first declared name wins
	singles []uint64          // single-bit members in declaration order
	mask    uint64            // union of all single-bit members
}

// Define builds a Set from defs in declaration order.
func Define(name string, defs ...Def) (*Set, error) {
	s := &Set{
		name:    name,
		byName:  make(map[string]uint64, len(defs)),
		byValue: make(map[uint64]string, len(defs)),
	}
	for _, d := range defs {
		if d.name == "" || strings.Contains(d.name, "|") {
			return nil, fmt.Errorf("%w: invalid member name %q", ErrInvalidDefinition, d.name)
		}
		if _, dup := s.byName[d.name]; dup {
			return nil, fmt.Errorf("%w: duplicate member %q", ErrInvalidDefinition, d.name)
		}
		var v uint64
		switch d.kind {
		case defAuto:
			v = s.nextBit()
			if v == 0 {
				return nil, fmt.Errorf("%w: no bits left for %q", ErrInvalidDefinition, d.name)
			}
			s.singles = append(s.singles, v)
			s.mask |= v
		case defExplicit:
			v = d.value
			switch {
			case v == 0:
				if _, taken := s.byValue[0]; taken {
					return nil, fmt.Errorf("%w: second zero member %q", ErrInvalidDefinition, d.name)
				}
			case bits.OnesCount64(v) == 1:
				if s.mask&v != 0 {
					return nil, fmt.Errorf("%w: bit %d of %q already taken", ErrInvalidDefinition, v, d.name)
				}
				s.singles = append(s.singles, v)
				s.mask |= v
			default:
				if v&^s.mask != 0 {
					return nil, fmt.Errorf("%w: %q uses undeclared bits", ErrInvalidDefinition, d.name)
				}
			}
		case defUnion:
			if len(d.of) == 0 {
				return nil, fmt.Errorf("%w: empty union %q", ErrInvalidDefinition, d.name)
			}
			for _, n := range d.of {
				pv, ok := s.byName[n]
				if !ok {
					return nil, fmt.Errorf("%w: union %q references undeclared %q", ErrInvalidDefinition, d.name, n)
				}
				v |= pv
			}
		}
		s.names = append(s.names, d.name)
		s.byName[d.name] = v
		if _, ok := s.byValue[v]; !ok {
			s.byValue[v] = d.name
		}
	}
	return s, nil
}

// MustDefine is like Define but panics on error.
func MustDefine(name string, defs ...Def) *Set {
	s, err := Define(name, defs...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Set) nextBit() uint64 {
	if s.mask == 0 {
		return 1
	}
	hi := 63 - bits.LeadingZeros64(s.mask)
	if hi == 63 {
		return 0
	}
	return 1 << (hi + 1)
}

// Name returns the set's type name.
func (s *Set) Name() string { return s.name }

// Names returns declared member names in declaration order.
func (s *Set) Names() []string { return append([]string(nil), s.names...) }

// Zero returns the empty value of the set.
func (s *Set) Zero() Value { return Value{set: s} }

// FromName looks up a declared member. Names joined with "|" resolve to the
// union of their parts, which is how unnamed unions render.
func (s *Set) FromName(name string) (Value, error) {
	if v, ok := s.byName[name]; ok {
		return Value{set: s, bits: v}, nil
	}
	if strings.Contains(name, "|") {
		var acc uint64
		for _, part := range strings.Split(name, "|") {
			v, ok := s.byName[strings.TrimSpace(part)]
			if !ok {
				return Value{}, fmt.Errorf("%w: %q in %s", ErrUnknownMember, part, s.name)
			}
			acc |= v
		}
		return Value{set: s, bits: acc}, nil
	}
	return Value{}, fmt.Errorf("%w: %q in %s", ErrUnknownMember, name, s.name)
}

// MustName is like FromName but panics on error.
func (s *Set) MustName(name string) Value {
	v, err := s.FromName(name)
	if err != nil {
		panic(err)
	}
	return v
}

// FromNumber accepts n only when every set bit belongs to a declared
// single-bit member. Zero is always representable (the empty union).
func (s *Set) FromNumber(n int64) (Value, error) {
	if n < 0 {
		return Value{}, fmt.Errorf("%w: %d in %s", ErrUnrepresentable, n, s.name)
	}
	u := uint64(n)
	if u&^s.mask != 0 {
		return Value{}, fmt.Errorf("%w: %d in %s", ErrUnrepresentable, n, s.name)
	}
	return Value{set: s, bits: u}, nil
}

// Value is an immutable member or union of members of a Set. Values of the
// same set compare with ==.
type Value struct {
	set  *Set
	bits uint64
}

// Set returns the owning set (nil for the zero Value).
func (v Value) Set() *Set { return v.set }

// Bits returns the underlying bit pattern.
func (v Value) Bits() uint64 { return v.bits }

// Int returns the underlying value as int64.
func (v Value) Int() int64 { return int64(v.bits) }

// Contains reports whether every bit of part is set in v.
func (v Value) Contains(part Value) bool { return v.bits&part.bits == part.bits }

// Or returns the union of v and other.
func (v Value) Or(other Value) Value { return Or(v, other) }

// Members decomposes v into its single-bit members in declaration order.
func (v Value) Members() []Value {
	if v.set == nil {
		return nil
	}
	var out []Value
	for _, b := range v.set.singles {
		if v.bits&b != 0 {
			out = append(out, Value{set: v.set, bits: b})
		}
	}
	return out
}

// Name returns the declared name for v, or the "|"-joined names of its
// single-bit members for unnamed unions. The empty value without a declared
// zero member has no name.
func (v Value) Name() string {
	if v.set == nil {
		return ""
	}
	if n, ok := v.set.byValue[v.bits]; ok {
		return n
	}
	ms := v.Members()
	parts := make([]string, 0, len(ms))
	for _, m := range ms {
		parts = append(parts, v.set.byValue[m.bits])
	}
	return strings.Join(parts, "|")
}

func (v Value) String() string {
	if v.set == nil {
		return "<nil>"
	}
	if n := v.Name(); n != "" {
		return v.set.name + "." + n
	}
	return v.set.name + "(" + strconv.FormatUint(v.bits, 10) + ")"
}

// MarshalText renders the member name.
func (v Value) MarshalText() ([]byte, error) {
	if n := v.Name(); n != "" {
		return []byte(n), nil
	}
	return []byte(strconv.FormatUint(v.bits, 10)), nil
}

// Or returns the bitwise OR of its arguments. All values must belong to
// the same set; mixing sets panics.
func Or(a Value, more ...Value) Value {
	out := a
	for _, m := range more {
		if m.set != out.set && m.set != nil && out.set != nil {
			panic(fmt.Sprintf("bitmask: union of %s and %s", out.set.name, m.set.name))
		}
		if out.set == nil {
			out.set = m.set
		}
		out.bits |= m.bits
	}
	return out
}

// Contains reports whether whole includes every bit of part.
func Contains(whole, part Value) bool { return whole.Contains(part) }
