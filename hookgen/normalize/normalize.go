// Package normalize turns raw spec schemas into the cycle-safe ir.Graph.
//
// A Normalizer owns one ir.Builder for a whole generation run. Component
// schemas and the inline schemas of routes are normalized through the same
// Normalizer so that every reference to a named schema yields the same
// NodeID. Recursion is broken with ir.ReferenceNode placeholders that are
// back-filled once the enclosing call returns.
package normalize

import (
	"fmt"

	"github.com/broady/hookgen/hookgen/ir"
	"github.com/broady/hookgen/hookgen/spec"
)

// Normalizer converts spec schemas to IR nodes.
type Normalizer struct {
	doc *spec.Document
	b   *ir.Builder

	// memo maps canonical component names to their node.
	memo map[string]ir.NodeID

	// identity maps already normalized schemas to their node.
	identity map[*spec.Schema]ir.NodeID

	// visiting holds schemas whose normalization is in progress.
	visiting map[*spec.Schema]*frame

	warnings []ir.Warning
}

type frame struct {
	// name is the canonical name being normalized, if any.
	name         string
	placeholders []ir.NodeID
}

// New returns a Normalizer resolving references against doc.
func New(doc *spec.Document) *Normalizer {
	return &Normalizer{
		doc:      doc,
		b:        ir.NewBuilder(),
		memo:     make(map[string]ir.NodeID),
		identity: make(map[*spec.Schema]ir.NodeID),
		visiting: make(map[*spec.Schema]*frame),
	}
}

// Normalize normalizes every component schema of doc and returns the graph.
func Normalize(doc *spec.Document) (*ir.Graph, []ir.Warning, error) {
	n := New(doc)
	if err := n.Components(); err != nil {
		return nil, nil, err
	}
	return n.Graph(), n.Warnings(), nil
}

// Components normalizes all component schemas in declaration order.
func (n *Normalizer) Components() error {
	for _, ns := range n.doc.Schemas {
		if _, err := n.Named(ns.Name); err != nil {
			return err
		}
	}
	return nil
}

// Named returns the node of the component schema called name.
func (n *Normalizer) Named(name string) (ir.NodeID, error) {
	if id, ok := n.memo[name]; ok {
		return id, nil
	}
	s, ok := n.doc.Lookup(name)
	if !ok || s == nil {
		return ir.NoNode, &UnresolvedReferenceError{Ref: name}
	}
	return n.normalize(s, name, name)
}

// Schema normalizes an inline schema. enclosing names the nearest named
// schema for error reporting and synthetic names; it may be empty.
func (n *Normalizer) Schema(s *spec.Schema, enclosing string) (ir.NodeID, error) {
	return n.normalize(s, enclosing, "")
}

// Graph freezes the builder. Schema and Named must not be called afterwards.
func (n *Normalizer) Graph() *ir.Graph {
	order := make([]string, 0, len(n.doc.Schemas))
	for _, ns := range n.doc.Schemas {
		order = append(order, ns.Name)
	}
	return n.b.Graph(order)
}

// Warnings returns the non-fatal issues found so far.
func (n *Normalizer) Warnings() []ir.Warning {
	return n.warnings
}

// Node returns a node added so far. Callers may inspect it but must not
// modify it.
func (n *Normalizer) Node(id ir.NodeID) ir.Node {
	return n.b.Node(id)
}

func (n *Normalizer) warn(code, schema, format string, args ...any) {
	n.warnings = append(n.warnings, ir.Warning{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Schema:  schema,
	})
}

// normalize is the single entry point for every schema. canonical is the
// component name when s is the body of a named schema.
func (n *Normalizer) normalize(s *spec.Schema, enclosing, canonical string) (ir.NodeID, error) {
	if s == nil {
		return n.b.Add(ir.Primitive(ir.PrimitiveAny)), nil
	}
	if canonical != "" {
		if id, ok := n.memo[canonical]; ok {
			return id, nil
		}
	}
	if id, ok := n.identity[s]; ok {
		return id, nil
	}
	if f, ok := n.visiting[s]; ok {
		ph := n.b.Add(&ir.ReferenceNode{Ref: f.name})
		f.placeholders = append(f.placeholders, ph)
		return ph, nil
	}

	f := &frame{name: canonical}
	n.visiting[s] = f
	id, err := n.dispatch(s, enclosing)
	delete(n.visiting, s)
	if err != nil {
		return ir.NoNode, err
	}

	for _, ph := range f.placeholders {
		if ph == id {
			return ir.NoNode, fmt.Errorf("schema %q: reference cycle without structure", enclosing)
		}
	}

	if canonical != "" {
		// A node named elsewhere (an alias of another component) gets its
		// own reference so both names stay addressable.
		if prev := n.b.Node(id).Metadata().Name; prev != "" && prev != canonical {
			ref := &ir.ReferenceNode{Target: id, Ref: prev}
			ref.Meta = metaOf(s)
			id = n.b.Add(ref)
		}
		if err := n.b.Name(id, canonical); err != nil {
			return ir.NoNode, err
		}
		n.memo[canonical] = id
	}

	if len(f.placeholders) > 0 {
		name := n.b.Node(id).Metadata().Name
		if name == "" {
			name = n.syntheticName(enclosing)
			if err := n.b.Name(id, name); err != nil {
				return ir.NoNode, err
			}
			n.warn(ir.WarnSyntheticName, enclosing, "recursive inline schema named %s", name)
		}
		for _, ph := range f.placeholders {
			ref := n.b.Node(ph).(*ir.ReferenceNode)
			ref.Target = id
			ref.Ref = name
		}
	}

	n.identity[s] = id
	return id, nil
}

func (n *Normalizer) syntheticName(enclosing string) string {
	stem := enclosing + "Node"
	if enclosing == "" {
		stem = "AnonymousNode"
	}
	name := stem
	for i := 2; n.b.Has(name); i++ {
		name = fmt.Sprintf("%s%d", stem, i)
	}
	return name
}

func (n *Normalizer) dispatch(s *spec.Schema, enclosing string) (ir.NodeID, error) {
	switch {
	case s.Ref != "":
		return n.reference(s, enclosing)
	case len(s.OneOf) > 0:
		n.checkSiblings(s, "oneOf", enclosing)
		return n.union(s, enclosing)
	case len(s.AnyOf) > 0:
		n.checkSiblings(s, "anyOf", enclosing)
		return n.anyOf(s, enclosing)
	case len(s.AllOf) > 0:
		return n.allOf(s, enclosing)
	case s.Not != nil:
		return n.negation(s, enclosing)
	case len(s.Enum) > 0:
		return n.enum(s, enclosing), nil
	default:
		return n.typed(s, enclosing)
	}
}

func (n *Normalizer) checkSiblings(s *spec.Schema, keyword, enclosing string) {
	if len(s.Properties) > 0 || s.Items != nil || s.AdditionalProperties != nil {
		n.warn(ir.WarnIgnoredSiblings, enclosing, "structural keywords next to %s are ignored", keyword)
	}
}

func (n *Normalizer) reference(s *spec.Schema, enclosing string) (ir.NodeID, error) {
	name, _, ok := n.doc.Resolve(s.Ref)
	if !ok {
		return ir.NoNode, &UnresolvedReferenceError{Ref: s.Ref, Enclosing: enclosing}
	}
	target, err := n.Named(name)
	if err != nil {
		return ir.NoNode, err
	}
	if len(s.Properties) > 0 || len(s.AllOf) > 0 || len(s.OneOf) > 0 || len(s.AnyOf) > 0 {
		n.warn(ir.WarnIgnoredSiblings, enclosing, "keywords next to $ref %s are ignored", s.Ref)
	}
	if !s.Nullable && s.Description == "" && !s.Deprecated {
		return target, nil
	}
	ref := &ir.ReferenceNode{Target: target, Ref: name}
	ref.Meta = metaOf(s)
	return n.b.Add(ref), nil
}

func (n *Normalizer) alternatives(list []*spec.Schema, enclosing string) ([]ir.NodeID, error) {
	ids := make([]ir.NodeID, 0, len(list))
	for _, alt := range list {
		id, err := n.normalize(alt, enclosing, "")
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (n *Normalizer) union(s *spec.Schema, enclosing string) (ir.NodeID, error) {
	alts, err := n.alternatives(s.OneOf, enclosing)
	if err != nil {
		return ir.NoNode, err
	}
	u := &ir.UnionNode{Alternatives: alts}
	u.Meta = metaOf(s)
	if d := s.Discriminator; d != nil && d.PropertyName != "" {
		u.Discriminator = &ir.Discriminator{Property: d.PropertyName}
		for _, m := range d.Mapping {
			name, _, ok := n.doc.Resolve(m.Ref)
			if !ok {
				return ir.NoNode, &UnresolvedReferenceError{Ref: m.Ref, Enclosing: enclosing}
			}
			target, err := n.Named(name)
			if err != nil {
				return ir.NoNode, err
			}
			u.Discriminator.Mapping = append(u.Discriminator.Mapping, ir.MappingEntry{Value: m.Value, Target: target})
		}
	}
	return n.b.Add(u), nil
}

func (n *Normalizer) anyOf(s *spec.Schema, enclosing string) (ir.NodeID, error) {
	alts, err := n.alternatives(s.AnyOf, enclosing)
	if err != nil {
		return ir.NoNode, err
	}
	a := &ir.AnyOfNode{Alternatives: alts}
	a.Meta = metaOf(s)
	return n.b.Add(a), nil
}

func (n *Normalizer) negation(s *spec.Schema, enclosing string) (ir.NodeID, error) {
	excluded, err := n.normalize(s.Not, enclosing, "")
	if err != nil {
		return ir.NoNode, err
	}
	n.warn(ir.WarnAdvisoryNegation, enclosing, "not is advisory and cannot be expressed in generated types")
	neg := &ir.NegationNode{Excluded: excluded}
	neg.Meta = metaOf(s)
	return n.b.Add(neg), nil
}

func (n *Normalizer) typed(s *spec.Schema, enclosing string) (ir.NodeID, error) {
	var types []string
	for _, t := range s.Types {
		if t != "null" {
			types = append(types, t)
		}
	}

	if len(types) > 1 {
		// type: [string, integer] is a union of single-typed copies.
		u := &ir.UnionNode{}
		for _, t := range types {
			variant := *s
			variant.Types = []string{t}
			variant.Nullable = false
			variant.Title, variant.Description = "", ""
			id, err := n.normalize(&variant, enclosing, "")
			if err != nil {
				return ir.NoNode, err
			}
			u.Alternatives = append(u.Alternatives, id)
		}
		u.Meta = metaOf(s)
		return n.b.Add(u), nil
	}

	typ := ""
	if len(types) == 1 {
		typ = types[0]
	} else if len(s.Properties) > 0 || s.AdditionalProperties != nil {
		typ = "object"
	} else if s.Items != nil {
		typ = "array"
	} else if len(s.Types) > 0 {
		typ = "null"
	}

	switch typ {
	case "object":
		return n.object(s, enclosing)
	case "array":
		elem, err := n.normalize(s.Items, enclosing, "")
		if err != nil {
			return ir.NoNode, err
		}
		arr := &ir.ArrayNode{Element: elem}
		arr.Meta = metaOf(s)
		return n.b.Add(arr), nil
	case "":
		p := ir.Primitive(ir.PrimitiveAny)
		p.Meta = metaOf(s)
		return n.b.Add(p), nil
	}

	kind, ok := ir.ParsePrimitiveKind(typ)
	if !ok {
		n.warn(ir.WarnUnknownType, enclosing, "unknown type %q treated as any", typ)
	}
	p := ir.Primitive(kind)
	p.Format = s.Format
	p.Meta = metaOf(s)
	if kind == ir.PrimitiveNull {
		p.Nullable = false
	}
	return n.b.Add(p), nil
}

func (n *Normalizer) object(s *spec.Schema, enclosing string) (ir.NodeID, error) {
	required := make(map[string]bool, len(s.Required))
	for _, r := range s.Required {
		required[r] = true
	}

	obj := &ir.ObjectNode{}
	obj.Meta = metaOf(s)
	for _, p := range s.Properties {
		t, err := n.normalize(p.Schema, enclosing, "")
		if err != nil {
			return ir.NoNode, err
		}
		f := ir.Field{Name: p.Name, Type: t, Required: required[p.Name]}
		if p.Schema != nil {
			f.Description = p.Schema.Description
			if !f.Required && p.Schema.HasDefault {
				f.Default, f.HasDefault = p.Schema.Default, true
			}
		}
		obj.Fields = append(obj.Fields, f)
	}
	if s.AdditionalProperties != nil {
		v, err := n.normalize(s.AdditionalProperties, enclosing, "")
		if err != nil {
			return ir.NoNode, err
		}
		obj.Additional = v
	}
	return n.b.Add(obj), nil
}

func (n *Normalizer) enum(s *spec.Schema, enclosing string) ir.NodeID {
	e := &ir.EnumNode{}
	e.Meta = metaOf(s)
	for _, v := range s.Enum {
		switch x := v.(type) {
		case nil:
			e.Nullable = true
		case string, bool, float64:
			e.Values = append(e.Values, x)
		case int:
			e.Values = append(e.Values, x)
		case int64:
			e.Values = append(e.Values, int(x))
		case uint64:
			e.Values = append(e.Values, int(x))
		default:
			n.warn(ir.WarnUnknownType, enclosing, "enum value %v of type %T dropped", v, v)
		}
	}

	e.Base = ir.PrimitiveAny
	for _, t := range s.Types {
		if k, ok := ir.ParsePrimitiveKind(t); ok && k != ir.PrimitiveNull {
			e.Base = k
			break
		}
	}
	if e.Base == ir.PrimitiveAny {
		e.Base = inferBase(e.Values)
	}
	return n.b.Add(e)
}

func inferBase(values []any) ir.PrimitiveKind {
	base := ir.PrimitiveAny
	for i, v := range values {
		var k ir.PrimitiveKind
		switch v.(type) {
		case string:
			k = ir.PrimitiveString
		case bool:
			k = ir.PrimitiveBoolean
		case int:
			k = ir.PrimitiveInteger
		case float64:
			k = ir.PrimitiveNumber
		}
		switch {
		case i == 0:
			base = k
		case base == k:
		case base.Compatible(k) && base != ir.PrimitiveAny:
			base = ir.PrimitiveNumber
		default:
			return ir.PrimitiveAny
		}
	}
	return base
}

func metaOf(s *spec.Schema) ir.Meta {
	return ir.Meta{
		Title:       s.Title,
		Description: s.Description,
		Nullable:    s.Nullable || s.HasType("null"),
		Deprecated:  s.Deprecated,
	}
}
