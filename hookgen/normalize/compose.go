package normalize

import (
	"fmt"

	"github.com/broady/hookgen/hookgen/ir"
	"github.com/broady/hookgen/hookgen/spec"
)

type part struct {
	id   ir.NodeID
	path string
}

// allOf merges object parts into one object. Fields keep the order of first
// appearance; a later declaration replaces an earlier one and a field is
// required if any part requires it. If a part does not resolve to an object
// (a union, or a reference still being normalized) the parts are kept as an
// Intersection instead.
func (n *Normalizer) allOf(s *spec.Schema, enclosing string) (ir.NodeID, error) {
	var parts []part
	for i, sub := range s.AllOf {
		id, err := n.normalize(sub, enclosing, "")
		if err != nil {
			return ir.NoNode, err
		}
		path := fmt.Sprintf("allOf[%d]", i)
		if sub != nil && sub.Ref != "" {
			path = spec.RefName(sub.Ref)
		}
		parts = append(parts, part{id: id, path: path})
	}
	if len(s.Properties) > 0 || s.AdditionalProperties != nil {
		siblings := &spec.Schema{
			Properties:           s.Properties,
			Required:             s.Required,
			AdditionalProperties: s.AdditionalProperties,
		}
		id, err := n.normalize(siblings, enclosing, "")
		if err != nil {
			return ir.NoNode, err
		}
		parts = append(parts, part{id: id, path: "properties"})
	}

	if len(parts) == 1 && len(s.Required) == 0 {
		if !hasMeta(s) {
			return parts[0].id, nil
		}
		ref := &ir.ReferenceNode{Target: parts[0].id, Ref: n.b.Node(parts[0].id).Metadata().Name}
		ref.Meta = metaOf(s)
		return n.b.Add(ref), nil
	}

	objects := make([]*ir.ObjectNode, len(parts))
	mergeable := true
	for i, p := range parts {
		_, node := n.b.Resolve(p.id)
		obj, ok := node.(*ir.ObjectNode)
		if !ok {
			mergeable = false
			continue
		}
		objects[i] = obj
	}

	merged := &ir.ObjectNode{}
	merged.Meta = metaOf(s)
	index := make(map[string]int)
	origin := make(map[string]string)
	for i, obj := range objects {
		if obj == nil {
			continue
		}
		for _, f := range obj.Fields {
			at, seen := index[f.Name]
			if !seen {
				index[f.Name] = len(merged.Fields)
				origin[f.Name] = parts[i].path
				merged.Fields = append(merged.Fields, f)
				continue
			}
			prev := merged.Fields[at]
			if err := n.checkField(enclosing, f.Name, origin[f.Name], prev.Type, parts[i].path, f.Type); err != nil {
				return ir.NoNode, err
			}
			f.Required = f.Required || prev.Required
			if f.Required {
				f.Default, f.HasDefault = nil, false
			}
			merged.Fields[at] = f
			origin[f.Name] = parts[i].path
		}
		if !obj.Additional.IsZero() {
			merged.Additional = obj.Additional
		}
	}

	if !mergeable {
		inter := &ir.IntersectionNode{}
		inter.Meta = metaOf(s)
		for _, p := range parts {
			inter.Parts = append(inter.Parts, p.id)
		}
		return n.b.Add(inter), nil
	}

	for _, r := range n.requiredNames(s) {
		if at, ok := index[r]; ok {
			merged.Fields[at].Required = true
			merged.Fields[at].Default, merged.Fields[at].HasDefault = nil, false
		}
	}
	return n.b.Add(merged), nil
}

func (n *Normalizer) checkField(enclosing, field, firstPath string, first ir.NodeID, secondPath string, second ir.NodeID) error {
	a, aok := n.primitiveKind(first)
	b, bok := n.primitiveKind(second)
	if !aok || !bok || a.Compatible(b) {
		return nil
	}
	return &CompositionConflictError{
		Schema:     enclosing,
		Field:      field,
		First:      firstPath + "." + field,
		Second:     secondPath + "." + field,
		FirstKind:  a.String(),
		SecondKind: b.String(),
	}
}

// primitiveKind returns the scalar kind of id, if it resolves to a primitive
// or an enum.
func (n *Normalizer) primitiveKind(id ir.NodeID) (ir.PrimitiveKind, bool) {
	_, node := n.b.Resolve(id)
	switch x := node.(type) {
	case *ir.PrimitiveNode:
		return x.Primitive, x.Primitive != ir.PrimitiveAny
	case *ir.EnumNode:
		return x.Base, x.Base != ir.PrimitiveAny
	}
	return ir.PrimitiveAny, false
}

// requiredNames collects the required lists of s and of every allOf part.
// JSON Schema applies them to the combined value, so a part may require a
// field another part declares.
func (n *Normalizer) requiredNames(s *spec.Schema) []string {
	names := append([]string(nil), s.Required...)
	for _, sub := range s.AllOf {
		for hops := 0; sub != nil && sub.Ref != "" && hops < 8; hops++ {
			_, sub, _ = n.doc.Resolve(sub.Ref)
		}
		if sub != nil {
			names = append(names, sub.Required...)
		}
	}
	return names
}

func hasMeta(s *spec.Schema) bool {
	return s.Nullable || s.Description != "" || s.Title != "" || s.Deprecated
}
