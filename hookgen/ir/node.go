package ir

// ObjectNode represents an object with ordered named fields.
//
// An object with no fields and a non-zero Additional is a string-keyed map.
type ObjectNode struct {
	base

	// Fields in declaration order.
	Fields []Field

	// Additional is the value type of additionalProperties, or NoNode.
	Additional NodeID
}

// Kind returns KindObject.
func (n *ObjectNode) Kind() NodeKind { return KindObject }

// IsMap reports whether the object is a pure string-keyed map.
func (n *ObjectNode) IsMap() bool {
	return len(n.Fields) == 0 && !n.Additional.IsZero()
}

// Field is a single object property.
type Field struct {
	Name     string
	Type     NodeID
	Required bool

	// Default is the declared default value; only meaningful when HasDefault.
	Default    any
	HasDefault bool

	Description string
}

// ArrayNode represents an ordered collection.
type ArrayNode struct {
	base
	Element NodeID
}

// Kind returns KindArray.
func (n *ArrayNode) Kind() NodeKind { return KindArray }

// EnumNode represents a fixed set of literal values.
type EnumNode struct {
	base

	// Values are string, int, float64 or bool, in declaration order.
	Values []any

	// Base is the primitive kind the values belong to.
	Base PrimitiveKind
}

// Kind returns KindEnum.
func (n *EnumNode) Kind() NodeKind { return KindEnum }

// UnionNode represents oneOf: a value matches exactly one alternative.
type UnionNode struct {
	base
	Alternatives []NodeID

	// Discriminator narrows which alternative applies, if declared.
	Discriminator *Discriminator
}

// Kind returns KindUnion.
func (n *UnionNode) Kind() NodeKind { return KindUnion }

// Discriminator names the property that selects a union alternative.
type Discriminator struct {
	Property string
	Mapping  []MappingEntry
}

// MappingEntry maps one discriminator value to an alternative.
type MappingEntry struct {
	Value  string
	Target NodeID
}

// AnyOfNode represents anyOf: a value matches at least one alternative.
type AnyOfNode struct {
	base
	Alternatives []NodeID
}

// Kind returns KindAnyOf.
func (n *AnyOfNode) Kind() NodeKind { return KindAnyOf }

// IntersectionNode holds allOf parts that were not merged into one object,
// because at least one part was not (yet) an object when normalized.
type IntersectionNode struct {
	base
	Parts []NodeID
}

// Kind returns KindIntersection.
func (n *IntersectionNode) Kind() NodeKind { return KindIntersection }

// NegationNode represents `not`. It documents an excluded shape and cannot be
// checked by generated types.
type NegationNode struct {
	base
	Excluded NodeID
}

// Kind returns KindNegation.
func (n *NegationNode) Kind() NodeKind { return KindNegation }

// ReferenceNode is a handle to another node. Aliases between named schemas
// and back-edges of recursive schemas are references.
type ReferenceNode struct {
	base

	// Target is the referenced node. It is NoNode only while the enclosing
	// normalization is still in progress.
	Target NodeID

	// Ref is the canonical name of the referenced schema, if any.
	Ref string
}

// Kind returns KindReference.
func (n *ReferenceNode) Kind() NodeKind { return KindReference }
