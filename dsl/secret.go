package dsl

import (
	"fmt"
	"strconv"

	recskema "github.com/reoring/recskema"
)

// Secret holds a sensitive string. Every default rendering (fmt verbs,
// JSON) shows a placeholder; Reveal is the only way to read the value.
type Secret struct{ v string }

// NewSecret wraps s.
func NewSecret(s string) Secret { return Secret{v: s} }

// Reveal returns the raw value.
func (s Secret) Reveal() string { return s.v }

func (s Secret) String() string {
	if s.v == "" {
		return ""
	}
	return recskema.SecretPlaceholder
}

// GoString keeps %#v from printing the raw value.
func (s Secret) GoString() string { return "Secret(" + strconv.Quote(s.String()) + ")" }

// Format applies the placeholder to every verb.
func (s Secret) Format(f fmt.State, verb rune) {
	switch {
	case verb == 'v' && f.Flag('#'):
		_, _ = f.Write([]byte(s.GoString()))
	case verb == 'q':
		_, _ = f.Write([]byte(strconv.Quote(s.String())))
	default:
		_, _ = f.Write([]byte(s.String()))
	}
}

// MarshalJSON renders the placeholder.
func (s Secret) MarshalJSON() ([]byte, error) { return []byte(strconv.Quote(s.String())), nil }
