package dsl

import (
	"strings"

	"github.com/reoring/recskema/bitmask"
)

// Kind is the coercion target of a field.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindInt
	KindFloat
	KindBool
	KindEmail
	KindSecret
	KindBitmask
	KindUUID
	KindUUIDList
	KindStringList
	KindTimestamp
)

var kindNames = map[Kind]string{
	KindString:     "string",
	KindInt:        "int",
	KindFloat:      "float",
	KindBool:       "bool",
	KindEmail:      "email",
	KindSecret:     "secret",
	KindBitmask:    "flags",
	KindUUID:       "uuid",
	KindUUIDList:   "uuid_list",
	KindStringList: "string_list",
	KindTimestamp:  "timestamp",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseKind resolves a kind name as used in dynamic specs. A few common
// spellings are accepted ("integer", "datetime", "bitmask", ...).
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string", "str":
		return KindString, true
	case "int", "integer":
		return KindInt, true
	case "float", "number":
		return KindFloat, true
	case "bool", "boolean":
		return KindBool, true
	case "email":
		return KindEmail, true
	case "secret", "password":
		return KindSecret, true
	case "flags", "bitmask", "role":
		return KindBitmask, true
	case "uuid", "id":
		return KindUUID, true
	case "uuid_list", "uuids":
		return KindUUIDList, true
	case "string_list", "strings", "tags":
		return KindStringList, true
	case "timestamp", "datetime", "date-time":
		return KindTimestamp, true
	}
	return 0, false
}

// Type describes a field's kind together with kind-specific metadata.
type Type struct {
	kind Kind
	set  *bitmask.Set
}

// Kind returns the coercion target.
func (t Type) Kind() Kind { return t.kind }

// Flags returns the bitmask set for KindBitmask types.
func (t Type) Flags() *bitmask.Set { return t.set }

func (t Type) isList() bool { return t.kind == KindUUIDList || t.kind == KindStringList }

// String returns a plain string type.
func String() Type { return Type{kind: KindString} }

// Int returns an integer type; bound it with Min/Max on the field.
func Int() Type { return Type{kind: KindInt} }

// Float returns a floating point type.
func Float() Type { return Type{kind: KindFloat} }

// Bool returns a boolean type.
func Bool() Type { return Type{kind: KindBool} }

// Email returns a string type that must look like local@domain.tld.
func Email() Type { return Type{kind: KindEmail} }

// SecretString returns a string type whose values are wrapped in Secret.
func SecretString() Type { return Type{kind: KindSecret} }

// Flags returns a bitmask type over set.
func Flags(set *bitmask.Set) Type { return Type{kind: KindBitmask, set: set} }

// UUID returns a unique identifier type. Unset optional fields get a fresh
// random identifier.
func UUID() Type { return Type{kind: KindUUID} }

// UUIDList returns a list-of-identifiers type.
func UUIDList() Type { return Type{kind: KindUUIDList} }

// StringList returns a list-of-strings type.
func StringList() Type { return Type{kind: KindStringList} }

// Timestamp returns a time type. Unset optional fields get the schema clock's now.
func Timestamp() Type { return Type{kind: KindTimestamp} }
