// Package spec holds the declarative input of the generator: an ordered
// model of an OpenAPI 3.x document restricted to what client bindings need.
//
// Documents are usually produced by Load, but any authoring layer may build
// them directly. Order is significant everywhere: paths, methods, properties
// and responses keep their declaration order so generated output is stable.
package spec

import "strings"

// SchemaRefPrefix is the prefix of local component schema references.
const SchemaRefPrefix = "#/components/schemas/"

// Document is a parsed API description.
type Document struct {
	OpenAPI string
	Title   string
	Version string

	Paths   []*PathItem   `validate:"dive"`
	Schemas []NamedSchema `validate:"-"`

	index map[string]*Schema
}

// NamedSchema is an entry of components.schemas.
type NamedSchema struct {
	Name   string
	Schema *Schema
}

// PathItem groups the operations declared under one path.
type PathItem struct {
	Path string `validate:"required,startswith=/"`

	// Parameters are inherited by every operation of the item.
	Parameters []*Parameter `validate:"dive"`

	Operations []*Operation `validate:"dive"`
}

// Operation is one method of a path item.
type Operation struct {
	Method      string `validate:"required,oneof=GET PUT POST DELETE OPTIONS HEAD PATCH TRACE"`
	OperationID string
	Summary     string
	Description string
	Deprecated  bool

	Parameters  []*Parameter `validate:"dive"`
	RequestBody *RequestBody `validate:"omitempty"`
	Responses   []*Response  `validate:"dive"`
}

// Parameter is a path, query, header or cookie parameter.
type Parameter struct {
	Name        string `validate:"required"`
	In          string `validate:"required,oneof=path query header cookie"`
	Required    bool
	Description string
	Schema      *Schema `validate:"-"`
}

// RequestBody lists the accepted media types of a request.
type RequestBody struct {
	Required bool
	Content  []*MediaType `validate:"dive"`
}

// Response is the declaration for one status code ("200", "4XX", "default").
type Response struct {
	Status      string `validate:"required"`
	Description string
	Content     []*MediaType `validate:"dive"`
}

// MediaType pairs a content type with its schema.
type MediaType struct {
	Type   string  `validate:"required"`
	Schema *Schema `validate:"-"`
}

// Schema is a raw, unnormalized JSON Schema node.
type Schema struct {
	Ref string

	// Types holds the declared type, or several for `type: [string, null]`.
	Types    []string
	Format   string
	Nullable bool

	Title       string
	Description string
	Deprecated  bool

	Properties           []Property
	Required             []string
	AdditionalProperties *Schema
	Items                *Schema

	Enum       []any
	Default    any
	HasDefault bool

	OneOf []*Schema
	AnyOf []*Schema
	AllOf []*Schema
	Not   *Schema

	Discriminator *Discriminator
}

// Property is one entry of an object schema's properties.
type Property struct {
	Name   string
	Schema *Schema
}

// Discriminator is the oneOf hint naming the selecting property.
type Discriminator struct {
	PropertyName string
	Mapping      []MappingEntry
}

// MappingEntry maps a discriminator value to a schema reference.
type MappingEntry struct {
	Value string
	Ref   string
}

// HasType reports whether t is among the declared types.
func (s *Schema) HasType(t string) bool {
	for _, x := range s.Types {
		if x == t {
			return true
		}
	}
	return false
}

// AddSchema appends a component schema. Later additions with the same name
// replace earlier ones in lookups but keep the first declaration position.
func (d *Document) AddSchema(name string, s *Schema) {
	if d.index == nil {
		d.reindex()
	}
	if _, ok := d.index[name]; ok {
		for i := range d.Schemas {
			if d.Schemas[i].Name == name {
				d.Schemas[i].Schema = s
			}
		}
	} else {
		d.Schemas = append(d.Schemas, NamedSchema{Name: name, Schema: s})
	}
	d.index[name] = s
}

// Lookup returns the component schema with the given name.
func (d *Document) Lookup(name string) (*Schema, bool) {
	if d.index == nil || len(d.index) != len(d.Schemas) {
		d.reindex()
	}
	s, ok := d.index[name]
	return s, ok
}

// Resolve maps a reference ("#/components/schemas/User" or a bare "User") to
// its canonical component name and schema.
func (d *Document) Resolve(ref string) (string, *Schema, bool) {
	name := RefName(ref)
	if name == "" {
		return "", nil, false
	}
	s, ok := d.Lookup(name)
	return name, s, ok
}

func (d *Document) reindex() {
	d.index = make(map[string]*Schema, len(d.Schemas))
	for _, ns := range d.Schemas {
		d.index[ns.Name] = ns.Schema
	}
}

// RefName returns the component name of a local schema reference. Bare names
// are accepted; other JSON pointers return "".
func RefName(ref string) string {
	if strings.HasPrefix(ref, SchemaRefPrefix) {
		return unescapePointer(strings.TrimPrefix(ref, SchemaRefPrefix))
	}
	if strings.HasPrefix(ref, "#") || strings.Contains(ref, "/") {
		return ""
	}
	return ref
}

func unescapePointer(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	return strings.ReplaceAll(s, "~0", "~")
}
