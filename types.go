package recskema

// UnknownPolicy controls how unknown keys are handled.
type UnknownPolicy int

const (
	UnknownStrict UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownStrip                       // Drop unknown keys.
)

// Shape selects the output projection of a record.
type Shape int

const (
	ShapeNative Shape = iota // Typed values for in-process consumption.
	ShapeWire                // Primitive-renderable values for JSON-style transport.
)

func (s Shape) String() string {
	switch s {
	case ShapeWire:
		return "wire"
	default:
		return "native"
	}
}

// ParseShape maps "native"/"wire" (and the "python"/"json" spellings) to a Shape.
func ParseShape(s string) (Shape, bool) {
	switch s {
	case "native", "python", "":
		return ShapeNative, true
	case "wire", "json":
		return ShapeWire, true
	}
	return ShapeNative, false
}

// ParseOpt bundles validation options.
type ParseOpt struct {
	// FailFast stops the field coercion pass at the first issue.
	FailFast bool
}

// SecretPlaceholder replaces secret values in default textual renderings.
const SecretPlaceholder = "**********"
