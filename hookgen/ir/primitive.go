package ir

// PrimitiveKind identifies the category of a primitive type.
type PrimitiveKind int

const (
	PrimitiveAny PrimitiveKind = iota
	PrimitiveString
	PrimitiveNumber
	PrimitiveInteger
	PrimitiveBoolean
	PrimitiveNull
)

// String returns the JSON Schema type name of the primitive kind.
func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveString:
		return "string"
	case PrimitiveNumber:
		return "number"
	case PrimitiveInteger:
		return "integer"
	case PrimitiveBoolean:
		return "boolean"
	case PrimitiveNull:
		return "null"
	default:
		return "any"
	}
}

// ParsePrimitiveKind maps a JSON Schema type name to a primitive kind.
// The second result is false for non-primitive names such as "object".
func ParsePrimitiveKind(s string) (PrimitiveKind, bool) {
	switch s {
	case "string":
		return PrimitiveString, true
	case "number":
		return PrimitiveNumber, true
	case "integer":
		return PrimitiveInteger, true
	case "boolean":
		return PrimitiveBoolean, true
	case "null":
		return PrimitiveNull, true
	}
	return PrimitiveAny, false
}

// Compatible reports whether two primitive kinds may describe the same field
// in an intersection. Integer narrows number; any matches everything.
func (k PrimitiveKind) Compatible(other PrimitiveKind) bool {
	if k == other || k == PrimitiveAny || other == PrimitiveAny {
		return true
	}
	numeric := func(p PrimitiveKind) bool { return p == PrimitiveNumber || p == PrimitiveInteger }
	return numeric(k) && numeric(other)
}

// PrimitiveNode represents a built-in primitive type.
type PrimitiveNode struct {
	base
	Primitive PrimitiveKind

	// Format is the declared format hint ("date-time", "binary", ...).
	Format string
}

// Kind returns KindPrimitive.
func (n *PrimitiveNode) Kind() NodeKind { return KindPrimitive }

// Primitive returns a PrimitiveNode of the given kind.
func Primitive(kind PrimitiveKind) *PrimitiveNode {
	return &PrimitiveNode{Primitive: kind}
}
