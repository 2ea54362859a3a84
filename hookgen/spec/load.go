package spec

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of an input document.
type Format int

const (
	// FormatAuto detects JSON by a leading '{' and falls back to YAML.
	FormatAuto Format = iota
	FormatYAML
	FormatJSON
)

// LoadFile reads and parses the document at path. The format is chosen by
// file extension.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec: %w", err)
	}
	format := FormatAuto
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = FormatJSON
	case ".yaml", ".yml":
		format = FormatYAML
	}
	doc, err := Load(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Load parses an OpenAPI document. Map order is preserved for paths,
// methods, properties, responses and component schemas.
//
// References to components.parameters, requestBodies and responses are
// resolved while loading; one that names no declared component fails with
// *UnresolvedReferenceError.
func Load(data []byte, format Format) (*Document, error) {
	if format == FormatAuto {
		format = FormatYAML
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
			format = FormatJSON
		}
	}
	if format == FormatJSON {
		// JSON is decoded through the YAML node tree to keep key order;
		// compacting first removes tab indentation YAML would reject.
		if !json.Valid(data) {
			return nil, fmt.Errorf("invalid JSON document")
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return nil, fmt.Errorf("compact JSON: %w", err)
		}
		data = buf.Bytes()
	}

	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	doc := &Document{
		OpenAPI: raw.OpenAPI,
		Title:   raw.Info.Title,
		Version: raw.Info.Version,
	}

	l, err := newLoader(&raw)
	if err != nil {
		return nil, err
	}

	err = eachPair(&raw.Components.Schemas, func(key string, val *yaml.Node) error {
		var s Schema
		if err := val.Decode(&s); err != nil {
			return fmt.Errorf("components.schemas.%s: %w", key, err)
		}
		doc.AddSchema(key, &s)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachPair(&raw.Paths, func(path string, val *yaml.Node) error {
		item, err := l.pathItem(path, val)
		if err != nil {
			return fmt.Errorf("paths.%s: %w", path, err)
		}
		doc.Paths = append(doc.Paths, item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

type rawDocument struct {
	OpenAPI string `yaml:"openapi"`
	Info    struct {
		Title   string `yaml:"title"`
		Version string `yaml:"version"`
	} `yaml:"info"`
	Paths      yaml.Node `yaml:"paths"`
	Components struct {
		Schemas       yaml.Node `yaml:"schemas"`
		Parameters    yaml.Node `yaml:"parameters"`
		RequestBodies yaml.Node `yaml:"requestBodies"`
		Responses     yaml.Node `yaml:"responses"`
	} `yaml:"components"`
}

type rawParameter struct {
	Name        string  `yaml:"name"`
	In          string  `yaml:"in"`
	Required    bool    `yaml:"required"`
	Description string  `yaml:"description"`
	Schema      *Schema `yaml:"schema"`
}

type rawRequestBody struct {
	Required bool      `yaml:"required"`
	Content  yaml.Node `yaml:"content"`
}

type rawResponse struct {
	Description string    `yaml:"description"`
	Content     yaml.Node `yaml:"content"`
}

type rawOperation struct {
	OperationID string      `yaml:"operationId"`
	Summary     string      `yaml:"summary"`
	Description string      `yaml:"description"`
	Deprecated  bool        `yaml:"deprecated"`
	Parameters  []yaml.Node `yaml:"parameters"`
	RequestBody yaml.Node   `yaml:"requestBody"`
	Responses   yaml.Node   `yaml:"responses"`
}

func (l *loader) pathItem(path string, node *yaml.Node) (*PathItem, error) {
	item := &PathItem{Path: path}
	err := eachPair(node, func(key string, val *yaml.Node) error {
		if key == "parameters" {
			var nodes []yaml.Node
			if err := val.Decode(&nodes); err != nil {
				return fmt.Errorf("parameters: %w", err)
			}
			params, err := l.parameters(nodes)
			if err != nil {
				return err
			}
			item.Parameters = params
			return nil
		}
		if !isMethod(key) {
			// summary, description, servers and extensions
			return nil
		}
		var raw rawOperation
		if err := val.Decode(&raw); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		op, err := l.operation(strings.ToUpper(key), &raw)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		item.Operations = append(item.Operations, op)
		return nil
	})
	return item, err
}

func (l *loader) operation(method string, raw *rawOperation) (*Operation, error) {
	params, err := l.parameters(raw.Parameters)
	if err != nil {
		return nil, err
	}
	op := &Operation{
		Method:      method,
		OperationID: raw.OperationID,
		Summary:     raw.Summary,
		Description: raw.Description,
		Deprecated:  raw.Deprecated,
		Parameters:  params,
	}
	if raw.RequestBody.Kind != 0 && raw.RequestBody.Tag != "!!null" {
		rb, err := l.requestBody(&raw.RequestBody, "requestBody")
		if err != nil {
			return nil, err
		}
		op.RequestBody = rb
	}
	err = eachPair(&raw.Responses, func(status string, val *yaml.Node) error {
		loc := "responses." + status
		r, err := l.response(val, loc)
		if err != nil {
			return err
		}
		op.Responses = append(op.Responses, &Response{Status: status, Description: r.Description, Content: r.Content})
		return nil
	})
	return op, err
}

func (l *loader) parameters(nodes []yaml.Node) ([]*Parameter, error) {
	params := make([]*Parameter, 0, len(nodes))
	for i := range nodes {
		loc := fmt.Sprintf("parameters[%d]", i)
		node, err := l.follow(componentParameters, &nodes[i], loc)
		if err != nil {
			return nil, err
		}
		if node.Tag == "!!null" {
			continue
		}
		p, err := l.parameter(node, loc)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

func (l *loader) parameter(node *yaml.Node, loc string) (*Parameter, error) {
	if p, ok := l.params[node]; ok {
		return p, nil
	}
	var raw rawParameter
	if err := node.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w", loc, err)
	}
	p := &Parameter{
		Name:        raw.Name,
		In:          raw.In,
		Required:    raw.Required,
		Description: raw.Description,
		Schema:      raw.Schema,
	}
	l.params[node] = p
	return p, nil
}

func (l *loader) requestBody(node *yaml.Node, loc string) (*RequestBody, error) {
	node, err := l.follow(componentRequestBodies, node, loc)
	if err != nil {
		return nil, err
	}
	if rb, ok := l.bodies[node]; ok {
		return rb, nil
	}
	var raw rawRequestBody
	if err := node.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w", loc, err)
	}
	content, err := decodeContent(&raw.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", loc, err)
	}
	rb := &RequestBody{Required: raw.Required, Content: content}
	l.bodies[node] = rb
	return rb, nil
}

func (l *loader) response(node *yaml.Node, loc string) (*Response, error) {
	node, err := l.follow(componentResponses, node, loc)
	if err != nil {
		return nil, err
	}
	if r, ok := l.responses[node]; ok {
		return r, nil
	}
	var raw rawResponse
	if err := node.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w", loc, err)
	}
	content, err := decodeContent(&raw.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", loc, err)
	}
	r := &Response{Description: raw.Description, Content: content}
	l.responses[node] = r
	return r, nil
}

func decodeContent(node *yaml.Node) ([]*MediaType, error) {
	var out []*MediaType
	err := eachPair(node, func(mediaType string, val *yaml.Node) error {
		var mt struct {
			Schema *Schema `yaml:"schema"`
		}
		if err := val.Decode(&mt); err != nil {
			return fmt.Errorf("content.%s: %w", mediaType, err)
		}
		out = append(out, &MediaType{Type: mediaType, Schema: mt.Schema})
		return nil
	})
	return out, err
}

func isMethod(key string) bool {
	switch key {
	case "get", "put", "post", "delete", "options", "head", "patch", "trace":
		return true
	}
	return false
}

// eachPair walks a mapping node in order. Zero and null nodes are empty maps.
func eachPair(node *yaml.Node, fn func(key string, val *yaml.Node) error) error {
	if node == nil || node.Kind == 0 {
		return nil
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

type rawSchema struct {
	Ref                  string     `yaml:"$ref"`
	Type                 yaml.Node  `yaml:"type"`
	Format               string     `yaml:"format"`
	Nullable             bool       `yaml:"nullable"`
	Title                string     `yaml:"title"`
	Description          string     `yaml:"description"`
	Deprecated           bool       `yaml:"deprecated"`
	Properties           yaml.Node  `yaml:"properties"`
	Required             []string   `yaml:"required"`
	AdditionalProperties yaml.Node  `yaml:"additionalProperties"`
	Items                *Schema    `yaml:"items"`
	Enum                 []any      `yaml:"enum"`
	Const                yaml.Node  `yaml:"const"`
	Default              yaml.Node  `yaml:"default"`
	OneOf                []*Schema  `yaml:"oneOf"`
	AnyOf                []*Schema  `yaml:"anyOf"`
	AllOf                []*Schema  `yaml:"allOf"`
	Not                  *Schema    `yaml:"not"`
	Discriminator        *yaml.Node `yaml:"discriminator"`
}

// UnmarshalYAML implements yaml.Unmarshaler, keeping property order.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	var raw rawSchema
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*s = Schema{
		Ref:         raw.Ref,
		Format:      raw.Format,
		Nullable:    raw.Nullable,
		Title:       raw.Title,
		Description: raw.Description,
		Deprecated:  raw.Deprecated,
		Required:    raw.Required,
		Items:       raw.Items,
		Enum:        raw.Enum,
		OneOf:       raw.OneOf,
		AnyOf:       raw.AnyOf,
		AllOf:       raw.AllOf,
		Not:         raw.Not,
	}

	switch raw.Type.Kind {
	case yaml.ScalarNode:
		s.Types = []string{raw.Type.Value}
	case yaml.SequenceNode:
		if err := raw.Type.Decode(&s.Types); err != nil {
			return fmt.Errorf("type: %w", err)
		}
	}

	err := eachPair(&raw.Properties, func(name string, val *yaml.Node) error {
		var prop Schema
		if err := val.Decode(&prop); err != nil {
			return fmt.Errorf("properties.%s: %w", name, err)
		}
		s.Properties = append(s.Properties, Property{Name: name, Schema: &prop})
		return nil
	})
	if err != nil {
		return err
	}

	switch raw.AdditionalProperties.Kind {
	case yaml.ScalarNode:
		var allowed bool
		if err := raw.AdditionalProperties.Decode(&allowed); err != nil {
			return fmt.Errorf("additionalProperties: %w", err)
		}
		if allowed {
			s.AdditionalProperties = &Schema{}
		}
	case yaml.MappingNode:
		var ap Schema
		if err := raw.AdditionalProperties.Decode(&ap); err != nil {
			return fmt.Errorf("additionalProperties: %w", err)
		}
		s.AdditionalProperties = &ap
	}

	// const is a single-valued enum.
	if raw.Const.Kind != 0 && len(s.Enum) == 0 {
		var v any
		if err := raw.Const.Decode(&v); err != nil {
			return fmt.Errorf("const: %w", err)
		}
		s.Enum = []any{v}
	}

	if raw.Default.Kind != 0 {
		if err := raw.Default.Decode(&s.Default); err != nil {
			return fmt.Errorf("default: %w", err)
		}
		s.HasDefault = true
	}

	if raw.Discriminator != nil {
		var d struct {
			PropertyName string    `yaml:"propertyName"`
			Mapping      yaml.Node `yaml:"mapping"`
		}
		if err := raw.Discriminator.Decode(&d); err != nil {
			return fmt.Errorf("discriminator: %w", err)
		}
		s.Discriminator = &Discriminator{PropertyName: d.PropertyName}
		err := eachPair(&d.Mapping, func(value string, ref *yaml.Node) error {
			s.Discriminator.Mapping = append(s.Discriminator.Mapping, MappingEntry{Value: value, Ref: ref.Value})
			return nil
		})
		if err != nil {
			return fmt.Errorf("discriminator.mapping: %w", err)
		}
	}
	return nil
}
