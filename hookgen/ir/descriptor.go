package ir

// NodeKind identifies the category of a schema node.
type NodeKind int

const (
	KindPrimitive    NodeKind = iota // string, number, integer, boolean, null, any
	KindObject                       // Named fields, optionally with an additional-properties value type
	KindArray                        // Ordered collection of one element type
	KindEnum                         // Fixed set of literal values
	KindUnion                        // oneOf: exactly one alternative matches
	KindAnyOf                        // anyOf: at least one alternative matches
	KindIntersection                 // allOf parts that could not be merged structurally
	KindNegation                     // not: advisory excluded shape
	KindReference                    // Handle to another node; the only place a cycle may pass through
)

// String returns the string representation of the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindObject:
		return "Object"
	case KindArray:
		return "Array"
	case KindEnum:
		return "Enum"
	case KindUnion:
		return "Union"
	case KindAnyOf:
		return "AnyOf"
	case KindIntersection:
		return "Intersection"
	case KindNegation:
		return "Negation"
	case KindReference:
		return "Reference"
	default:
		return "Unknown"
	}
}

// NodeID addresses a node in a Graph. The zero value is NoNode.
type NodeID int

// NoNode is the absent node. Used for opaque responses and objects without
// additional properties.
const NoNode NodeID = 0

// IsZero reports whether id is NoNode.
func (id NodeID) IsZero() bool { return id == NoNode }

// Node is the interface implemented by every schema node.
type Node interface {
	// Kind returns the node kind for type switching.
	Kind() NodeKind

	// Metadata returns the annotations shared by all node kinds.
	Metadata() Meta

	// Ensure only types in this package can implement Node.
	sealed()
}

// Meta holds the annotations every node may carry.
type Meta struct {
	// Name is the canonical component name when this node is the body of a
	// named schema (or a synthesized name for an anonymous recursion target).
	Name string

	Title       string
	Description string

	// Nullable is set for `nullable: true` or a `null` member of a type list.
	Nullable bool

	Deprecated bool
}

type base struct {
	Meta
}

func (b *base) Metadata() Meta   { return b.Meta }
func (b *base) setName(n string) { b.Name = n }
func (*base) sealed()            {}
