package normalize

import "fmt"

// UnresolvedReferenceError reports a $ref that names no declared schema.
type UnresolvedReferenceError struct {
	// Ref is the reference as written.
	Ref string

	// Enclosing is the canonical name of the nearest enclosing named schema,
	// or "" when the reference appears outside components.
	Enclosing string
}

func (e *UnresolvedReferenceError) Error() string {
	if e.Enclosing == "" {
		return fmt.Sprintf("unresolved reference %q", e.Ref)
	}
	return fmt.Sprintf("schema %q: unresolved reference %q", e.Enclosing, e.Ref)
}

// CompositionConflictError reports two allOf parts declaring the same field
// with incompatible primitive kinds.
type CompositionConflictError struct {
	// Schema is the canonical name of the enclosing schema.
	Schema string

	Field string

	// First and Second locate the conflicting declarations,
	// e.g. "allOf[0].a" and "Audit.a".
	First  string
	Second string

	FirstKind  string
	SecondKind string
}

func (e *CompositionConflictError) Error() string {
	prefix := "allOf"
	if e.Schema != "" {
		prefix = fmt.Sprintf("schema %q: allOf", e.Schema)
	}
	return fmt.Sprintf("%s: conflicting field %q: %s is %s, %s is %s",
		prefix, e.Field, e.First, e.FirstKind, e.Second, e.SecondKind)
}
