package ir

import (
	"github.com/goccy/go-json"
)

// JSON serialization support for IR dumps.
// All nodes include a "kind" field for type discrimination.

type jsonMeta struct {
	Name        string `json:"name,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Nullable    bool   `json:"nullable,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty"`
}

func metaJSON(m Meta) jsonMeta {
	return jsonMeta{
		Name:        m.Name,
		Title:       m.Title,
		Description: m.Description,
		Nullable:    m.Nullable,
		Deprecated:  m.Deprecated,
	}
}

// MarshalJSON implements json.Marshaler for PrimitiveNode.
func (n *PrimitiveNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind      string `json:"kind"`
		Primitive string `json:"primitive"`
		Format    string `json:"format,omitempty"`
		jsonMeta
	}{
		Kind:      "primitive",
		Primitive: n.Primitive.String(),
		Format:    n.Format,
		jsonMeta:  metaJSON(n.Meta),
	})
}

// MarshalJSON implements json.Marshaler for ObjectNode.
func (n *ObjectNode) MarshalJSON() ([]byte, error) {
	type field struct {
		Name     string `json:"name"`
		Type     NodeID `json:"type"`
		Required bool   `json:"required,omitempty"`
		Default  any    `json:"default,omitempty"`
	}
	fields := make([]field, 0, len(n.Fields))
	for _, f := range n.Fields {
		fields = append(fields, field{Name: f.Name, Type: f.Type, Required: f.Required, Default: f.Default})
	}
	return json.Marshal(&struct {
		Kind       string  `json:"kind"`
		Fields     []field `json:"fields"`
		Additional NodeID  `json:"additional,omitempty"`
		jsonMeta
	}{
		Kind:       "object",
		Fields:     fields,
		Additional: n.Additional,
		jsonMeta:   metaJSON(n.Meta),
	})
}

// MarshalJSON implements json.Marshaler for ArrayNode.
func (n *ArrayNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind    string `json:"kind"`
		Element NodeID `json:"element"`
		jsonMeta
	}{
		Kind:     "array",
		Element:  n.Element,
		jsonMeta: metaJSON(n.Meta),
	})
}

// MarshalJSON implements json.Marshaler for EnumNode.
func (n *EnumNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind   string `json:"kind"`
		Base   string `json:"base"`
		Values []any  `json:"values"`
		jsonMeta
	}{
		Kind:     "enum",
		Base:     n.Base.String(),
		Values:   n.Values,
		jsonMeta: metaJSON(n.Meta),
	})
}

// MarshalJSON implements json.Marshaler for UnionNode.
func (n *UnionNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind          string         `json:"kind"`
		Alternatives  []NodeID       `json:"alternatives"`
		Discriminator *Discriminator `json:"discriminator,omitempty"`
		jsonMeta
	}{
		Kind:          "union",
		Alternatives:  n.Alternatives,
		Discriminator: n.Discriminator,
		jsonMeta:      metaJSON(n.Meta),
	})
}

// MarshalJSON implements json.Marshaler for AnyOfNode.
func (n *AnyOfNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind         string   `json:"kind"`
		Alternatives []NodeID `json:"alternatives"`
		jsonMeta
	}{
		Kind:         "anyOf",
		Alternatives: n.Alternatives,
		jsonMeta:     metaJSON(n.Meta),
	})
}

// MarshalJSON implements json.Marshaler for IntersectionNode.
func (n *IntersectionNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind  string   `json:"kind"`
		Parts []NodeID `json:"parts"`
		jsonMeta
	}{
		Kind:     "intersection",
		Parts:    n.Parts,
		jsonMeta: metaJSON(n.Meta),
	})
}

// MarshalJSON implements json.Marshaler for NegationNode.
func (n *NegationNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind     string `json:"kind"`
		Excluded NodeID `json:"excluded"`
		jsonMeta
	}{
		Kind:     "not",
		Excluded: n.Excluded,
		jsonMeta: metaJSON(n.Meta),
	})
}

// MarshalJSON implements json.Marshaler for ReferenceNode.
func (n *ReferenceNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind   string `json:"kind"`
		Target NodeID `json:"target"`
		Ref    string `json:"ref,omitempty"`
		jsonMeta
	}{
		Kind:     "reference",
		Target:   n.Target,
		Ref:      n.Ref,
		jsonMeta: metaJSON(n.Meta),
	})
}

// MarshalJSON implements json.Marshaler for Graph. Nodes are listed with their
// ids so references in the dump can be followed by hand.
func (g *Graph) MarshalJSON() ([]byte, error) {
	type entry struct {
		ID   NodeID `json:"id"`
		Node Node   `json:"node"`
	}
	nodes := make([]entry, 0, len(g.nodes))
	for i, n := range g.nodes {
		nodes = append(nodes, entry{ID: NodeID(i + 1), Node: n})
	}
	type named struct {
		Name string `json:"name"`
		ID   NodeID `json:"id"`
	}
	schemas := make([]named, 0, len(g.order))
	for _, name := range g.order {
		schemas = append(schemas, named{Name: name, ID: g.named[name]})
	}
	return json.Marshal(&struct {
		Schemas []named `json:"schemas"`
		Nodes   []entry `json:"nodes"`
	}{
		Schemas: schemas,
		Nodes:   nodes,
	})
}

// MarshalJSON implements json.Marshaler for Route.
func (r *Route) MarshalJSON() ([]byte, error) {
	type param struct {
		Name     string `json:"name"`
		In       string `json:"in"`
		Required bool   `json:"required,omitempty"`
		Type     NodeID `json:"type"`
	}
	type body struct {
		ContentType string `json:"contentType"`
		ArgKey      string `json:"argKey"`
		Required    bool   `json:"required,omitempty"`
		Type        NodeID `json:"type"`
	}
	type response struct {
		Status      string `json:"status"`
		ContentType string `json:"contentType,omitempty"`
		Type        NodeID `json:"type,omitempty"`
	}
	params := make([]param, 0, len(r.Params))
	for _, p := range r.Params {
		params = append(params, param{Name: p.Name, In: string(p.In), Required: p.Required, Type: p.Type})
	}
	var b *body
	if r.Body != nil {
		b = &body{ContentType: r.Body.ContentType, ArgKey: r.Body.ArgKey, Required: r.Body.Required, Type: r.Body.Type}
	}
	responses := make([]response, 0, len(r.Responses))
	for _, resp := range r.Responses {
		responses = append(responses, response{Status: resp.Status, ContentType: resp.ContentType, Type: resp.Type})
	}
	return json.Marshal(&struct {
		Method      string     `json:"method"`
		Path        string     `json:"path"`
		Template    string     `json:"template"`
		OperationID string     `json:"operationId,omitempty"`
		Deprecated  bool       `json:"deprecated,omitempty"`
		Params      []param    `json:"params,omitempty"`
		Body        *body      `json:"body,omitempty"`
		Responses   []response `json:"responses"`
	}{
		Method:      string(r.Method),
		Path:        r.Path,
		Template:    r.Template(),
		OperationID: r.OperationID,
		Deprecated:  r.Deprecated,
		Params:      params,
		Body:        b,
		Responses:   responses,
	})
}
