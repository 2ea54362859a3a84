package typescript

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/broady/hookgen/hookgen/ir"
)

// Emitter renders normalized schemas as TypeScript types.
type Emitter struct {
	graph  *ir.Graph
	config Config
	indent string
}

// NewEmitter returns an Emitter over g.
func NewEmitter(g *ir.Graph, cfg Config) *Emitter {
	cfg = cfg.withDefaults()
	return &Emitter{graph: g, config: cfg, indent: strings.Repeat(" ", cfg.IndentSize)}
}

// Declarations emits every named schema in graph order, separated by blank
// lines.
func (e *Emitter) Declarations(buf *bytes.Buffer) error {
	for i, name := range e.graph.Names() {
		if i > 0 {
			buf.WriteString("\n")
		}
		if err := e.Declaration(buf, name); err != nil {
			return err
		}
	}
	return nil
}

// Declaration emits the declaration of one named schema.
func (e *Emitter) Declaration(buf *bytes.Buffer, name string) error {
	id, ok := e.graph.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	node := e.graph.Node(id)
	meta := node.Metadata()

	var doc []string
	if meta.Title != "" && meta.Title != name {
		doc = append(doc, meta.Title)
	}
	if meta.Description != "" {
		if len(doc) > 0 {
			doc = append(doc, "")
		}
		doc = append(doc, meta.Description)
	}
	if meta.Deprecated {
		doc = append(doc, "@deprecated")
	}
	buf.WriteString(JSDoc(doc, ""))

	typeName := TypeName(name)
	if obj, ok := node.(*ir.ObjectNode); ok && e.config.UseInterface && len(obj.Fields) > 0 && obj.Additional.IsZero() && !meta.Nullable {
		body, err := e.objectBody(obj, 0)
		if err != nil {
			return fmt.Errorf("schema %s: %w", name, err)
		}
		fmt.Fprintf(buf, "export interface %s %s\n", typeName, body)
		return nil
	}

	expr, err := e.expr(id, 0, true)
	if err != nil {
		return fmt.Errorf("schema %s: %w", name, err)
	}
	fmt.Fprintf(buf, "export type %s = %s;\n", typeName, expr)
	return nil
}

// TypeExpr returns the type expression of id. Named schemas are referenced
// by name. NoNode renders as the unknown type.
func (e *Emitter) TypeExpr(id ir.NodeID) (string, error) {
	if id.IsZero() {
		return e.config.UnknownType, nil
	}
	return e.expr(id, 0, false)
}

func (e *Emitter) expr(id ir.NodeID, depth int, expand bool) (string, error) {
	node := e.graph.Node(id)
	if node == nil {
		return "", fmt.Errorf("dangling node %d", id)
	}
	meta := node.Metadata()
	if !expand && meta.Name != "" {
		return TypeName(meta.Name), nil
	}

	var out string
	var err error
	switch n := node.(type) {
	case *ir.ReferenceNode:
		switch {
		case n.Target.IsZero():
			return "", fmt.Errorf("unresolved reference %q", n.Ref)
		case n.Ref != "":
			out = TypeName(n.Ref)
		default:
			out, err = e.expr(n.Target, depth, false)
		}
	case *ir.PrimitiveNode:
		out = e.primitive(n)
	case *ir.ObjectNode:
		out, err = e.object(n, depth)
	case *ir.ArrayNode:
		out, err = e.array(n, depth)
	case *ir.EnumNode:
		out = e.enum(n)
	case *ir.UnionNode:
		out, err = e.join(n.Alternatives, depth, " | ")
	case *ir.AnyOfNode:
		out, err = e.join(n.Alternatives, depth, " | ")
	case *ir.IntersectionNode:
		out, err = e.join(n.Parts, depth, " & ")
	case *ir.NegationNode:
		// not cannot be expressed; the schema only documents it.
		out = e.config.UnknownType
	default:
		return "", fmt.Errorf("unsupported node kind: %s", node.Kind())
	}
	if err != nil {
		return "", err
	}
	if meta.Nullable && out != "null" {
		out += " | null"
	}
	return out, nil
}

func (e *Emitter) primitive(p *ir.PrimitiveNode) string {
	switch p.Primitive {
	case ir.PrimitiveString:
		if p.Format == "binary" {
			return "File"
		}
		return "string"
	case ir.PrimitiveNumber, ir.PrimitiveInteger:
		return "number"
	case ir.PrimitiveBoolean:
		return "boolean"
	case ir.PrimitiveNull:
		return "null"
	default:
		return e.config.UnknownType
	}
}

func (e *Emitter) object(o *ir.ObjectNode, depth int) (string, error) {
	if len(o.Fields) == 0 {
		value := e.config.UnknownType
		if !o.Additional.IsZero() {
			v, err := e.expr(o.Additional, depth, false)
			if err != nil {
				return "", err
			}
			value = v
		}
		return "{ [key: string]: " + value + " }", nil
	}
	return e.objectBody(o, depth)
}

// objectBody renders a multi-line object type literal.
func (e *Emitter) objectBody(o *ir.ObjectNode, depth int) (string, error) {
	inner := strings.Repeat(e.indent, depth+1)
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, f := range o.Fields {
		var doc []string
		if f.Description != "" {
			doc = append(doc, f.Description)
		}
		if f.HasDefault {
			doc = append(doc, "@default "+Literal(f.Default))
		}
		sb.WriteString(JSDoc(doc, inner))

		typ, err := e.expr(f.Type, depth+1, false)
		if err != nil {
			return "", fmt.Errorf("field %s: %w", f.Name, err)
		}
		sb.WriteString(inner)
		sb.WriteString(PropertyKey(f.Name))
		if !f.Required {
			sb.WriteString("?")
		}
		sb.WriteString(": ")
		sb.WriteString(typ)
		sb.WriteString(";\n")
	}
	if !o.Additional.IsZero() {
		// Declared properties need not match the value type, so the index
		// signature stays open.
		sb.WriteString(inner + "[key: string]: " + e.config.UnknownType + ";\n")
	}
	sb.WriteString(strings.Repeat(e.indent, depth))
	sb.WriteString("}")
	return sb.String(), nil
}

func (e *Emitter) array(a *ir.ArrayNode, depth int) (string, error) {
	elem, err := e.expr(a.Element, depth, false)
	if err != nil {
		return "", err
	}
	if strings.Contains(elem, " | ") || strings.Contains(elem, " & ") {
		elem = "(" + elem + ")"
	}
	if e.config.UseReadonlyArrays {
		return "readonly " + elem + "[]", nil
	}
	return elem + "[]", nil
}

func (e *Emitter) enum(n *ir.EnumNode) string {
	if len(n.Values) == 0 {
		return "never"
	}
	parts := make([]string, len(n.Values))
	for i, v := range n.Values {
		parts[i] = Literal(v)
	}
	return strings.Join(parts, " | ")
}

func (e *Emitter) join(ids []ir.NodeID, depth int, sep string) (string, error) {
	if len(ids) == 0 {
		return "never", nil
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		p, err := e.expr(id, depth, false)
		if err != nil {
			return "", err
		}
		if sep == " & " && strings.Contains(p, " | ") {
			p = "(" + p + ")"
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, sep), nil
}

// ArgsType renders the argument bag of r from its declared schemas:
// { param: {...}; query?: {...}; json: Body }.
func (e *Emitter) ArgsType(r *ir.Route) (string, error) {
	groups := make(map[string][]ir.Param)
	for _, p := range r.Params {
		k := p.In.ArgKey()
		groups[k] = append(groups[k], p)
	}

	var entries []string
	for _, key := range r.ArgKeys() {
		if r.Body != nil && key == r.Body.ArgKey {
			typ, err := e.TypeExpr(r.Body.Type)
			if err != nil {
				return "", fmt.Errorf("request body: %w", err)
			}
			entries = append(entries, optionalKey(key, r.Body.Required)+": "+typ)
			continue
		}

		required := false
		var fields []string
		for _, p := range groups[key] {
			typ, err := e.TypeExpr(p.Type)
			if err != nil {
				return "", fmt.Errorf("parameter %s: %w", p.Name, err)
			}
			required = required || p.Required
			fields = append(fields, optionalKey(PropertyKey(p.Name), p.Required)+": "+typ)
		}
		entries = append(entries, optionalKey(key, required)+": { "+strings.Join(fields, "; ")+" }")
	}
	if len(entries) == 0 {
		return "{}", nil
	}
	return "{ " + strings.Join(entries, "; ") + " }", nil
}

func optionalKey(key string, required bool) string {
	if required {
		return key
	}
	return key + "?"
}
