package spec

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const petstore = `
openapi: 3.1.0
info:
  title: Pets
  version: 1.0.0
paths:
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        required: true
        schema:
          type: string
    get:
      operationId: getPet
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
        '404':
          description: missing
    delete:
      responses:
        '204':
          description: gone
  /pets:
    post:
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
      responses:
        '201':
          description: created
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        zeta:
          type: [string, 'null']
        name:
          type: string
          default: rex
        tags:
          type: object
          additionalProperties:
            type: integer
        extra:
          type: object
          additionalProperties: true
    Kind:
      const: dog
    Shape:
      oneOf:
        - $ref: '#/components/schemas/Pet'
        - $ref: '#/components/schemas/Kind'
      discriminator:
        propertyName: kind
        mapping:
          pet: '#/components/schemas/Pet'
          kind: '#/components/schemas/Kind'
`

func TestLoad_YAMLOrder(t *testing.T) {
	doc, err := Load([]byte(petstore), FormatYAML)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if doc.Title != "Pets" || doc.OpenAPI != "3.1.0" {
		t.Errorf("header = %q %q", doc.Title, doc.OpenAPI)
	}

	var paths []string
	for _, p := range doc.Paths {
		for _, op := range p.Operations {
			paths = append(paths, op.Method+" "+p.Path)
		}
	}
	want := []string{"GET /pets/{petId}", "DELETE /pets/{petId}", "POST /pets"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("operation order mismatch (-want +got):\n%s", diff)
	}

	if got := len(doc.Paths[0].Parameters); got != 1 {
		t.Errorf("path-level parameters = %d, want 1", got)
	}

	get := doc.Paths[0].Operations[0]
	if get.OperationID != "getPet" {
		t.Errorf("operationId = %q", get.OperationID)
	}
	if len(get.Responses) != 2 || get.Responses[0].Status != "200" || get.Responses[1].Status != "404" {
		t.Fatalf("responses = %+v", get.Responses)
	}
	if len(get.Responses[1].Content) != 0 {
		t.Error("404 should have no content")
	}
	if ref := get.Responses[0].Content[0].Schema.Ref; ref != "#/components/schemas/Pet" {
		t.Errorf("response ref = %q", ref)
	}

	post := doc.Paths[1].Operations[0]
	if post.RequestBody == nil || !post.RequestBody.Required || post.RequestBody.Content[0].Type != "application/json" {
		t.Errorf("requestBody = %+v", post.RequestBody)
	}

	var names []string
	for _, ns := range doc.Schemas {
		names = append(names, ns.Name)
	}
	if diff := cmp.Diff([]string{"Pet", "Kind", "Shape"}, names); diff != "" {
		t.Errorf("schema order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_SchemaDetails(t *testing.T) {
	doc, err := Load([]byte(petstore), FormatAuto)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pet, ok := doc.Lookup("Pet")
	if !ok {
		t.Fatal("Pet not found")
	}

	var props []string
	for _, p := range pet.Properties {
		props = append(props, p.Name)
	}
	if diff := cmp.Diff([]string{"zeta", "name", "tags", "extra"}, props); diff != "" {
		t.Errorf("property order mismatch (-want +got):\n%s", diff)
	}

	zeta := pet.Properties[0].Schema
	if !zeta.HasType("string") || !zeta.HasType("null") {
		t.Errorf("zeta types = %v", zeta.Types)
	}
	name := pet.Properties[1].Schema
	if !name.HasDefault || name.Default != "rex" {
		t.Errorf("name default = %v (has=%v)", name.Default, name.HasDefault)
	}
	tags := pet.Properties[2].Schema
	if tags.AdditionalProperties == nil || !tags.AdditionalProperties.HasType("integer") {
		t.Errorf("tags additionalProperties = %+v", tags.AdditionalProperties)
	}
	extra := pet.Properties[3].Schema
	if extra.AdditionalProperties == nil || len(extra.AdditionalProperties.Types) != 0 {
		t.Errorf("additionalProperties: true should be an untyped schema, got %+v", extra.AdditionalProperties)
	}

	kind, _ := doc.Lookup("Kind")
	if len(kind.Enum) != 1 || kind.Enum[0] != "dog" {
		t.Errorf("const should load as single enum, got %v", kind.Enum)
	}

	shape, _ := doc.Lookup("Shape")
	if shape.Discriminator == nil || shape.Discriminator.PropertyName != "kind" {
		t.Fatalf("discriminator = %+v", shape.Discriminator)
	}
	want := []MappingEntry{
		{Value: "pet", Ref: "#/components/schemas/Pet"},
		{Value: "kind", Ref: "#/components/schemas/Kind"},
	}
	if diff := cmp.Diff(want, shape.Discriminator.Mapping); diff != "" {
		t.Errorf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_JSONWithTabs(t *testing.T) {
	src := "{\n\t\"openapi\": \"3.0.0\",\n\t\"paths\": {\n\t\t\"/b\": {\"get\": {\"responses\": {\"200\": {\"description\": \"ok\"}}}},\n\t\t\"/a\": {\"get\": {\"responses\": {}}}\n\t},\n\t\"components\": {\"schemas\": {\"Z\": {\"type\": \"string\"}, \"A\": {\"type\": \"integer\"}}}\n}"

	doc, err := Load([]byte(src), FormatAuto)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Paths) != 2 || doc.Paths[0].Path != "/b" || doc.Paths[1].Path != "/a" {
		t.Errorf("paths out of order: %+v", doc.Paths)
	}
	if doc.Schemas[0].Name != "Z" || doc.Schemas[1].Name != "A" {
		t.Errorf("schemas out of order: %+v", doc.Schemas)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	_, err := Load([]byte(`{"openapi": `), FormatJSON)
	if err == nil || !strings.Contains(err.Error(), "invalid JSON") {
		t.Errorf("err = %v, want invalid JSON", err)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	src := `
paths:
  /x:
    get:
      parameters:
        - name: id
          in: body
      responses: {}
  nope:
    get:
      responses: {}
`
	_, err := Load([]byte(src), FormatYAML)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	joined := strings.Join(verr.Problems, "\n")
	for _, want := range []string{"Parameters[0].In: must be one of path query header cookie", `Paths[1].Path: must start with "/"`} {
		if !strings.Contains(joined, want) {
			t.Errorf("problems missing %q:\n%s", want, joined)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.yml")
	if err := os.WriteFile(path, []byte(petstore), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(doc.Paths) != 2 {
		t.Errorf("paths = %d, want 2", len(doc.Paths))
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadFile of missing file should fail")
	}
}

func TestRefName(t *testing.T) {
	tests := map[string]string{
		"#/components/schemas/User":     "User",
		"#/components/schemas/a~1b":     "a/b",
		"User":                          "User",
		"#/components/parameters/Limit": "",
		"other.yaml#/User":              "",
	}
	for in, want := range tests {
		if got := RefName(in); got != want {
			t.Errorf("RefName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDocument_AddSchemaReplaces(t *testing.T) {
	doc := &Document{}
	first := &Schema{Types: []string{"string"}}
	second := &Schema{Types: []string{"integer"}}
	doc.AddSchema("A", first)
	doc.AddSchema("B", first)
	doc.AddSchema("A", second)

	if len(doc.Schemas) != 2 || doc.Schemas[0].Name != "A" {
		t.Fatalf("schemas = %+v", doc.Schemas)
	}
	if s, _ := doc.Lookup("A"); s != second {
		t.Error("Lookup(A) should return the replacement")
	}
}

const componentRefs = `
paths:
  /pets/{petId}:
    parameters:
      - $ref: '#/components/parameters/PetID'
    get:
      parameters:
        - $ref: '#/components/parameters/Limit'
      responses:
        '200':
          $ref: '#/components/responses/PetResp'
  /pets:
    post:
      requestBody:
        $ref: '#/components/requestBodies/NewPet'
      responses:
        '201':
          $ref: '#/components/responses/Created'
components:
  parameters:
    PetID:
      name: petId
      in: path
      required: true
      schema:
        type: string
    Limit:
      name: limit
      in: query
      schema:
        type: integer
  requestBodies:
    NewPet:
      required: true
      content:
        application/json:
          schema:
            $ref: '#/components/schemas/Pet'
  responses:
    Created:
      $ref: '#/components/responses/PetResp'
    PetResp:
      description: a pet
      content:
        application/json:
          schema:
            $ref: '#/components/schemas/Pet'
  schemas:
    Pet:
      type: object
`

func TestLoad_ComponentReferences(t *testing.T) {
	doc, err := Load([]byte(componentRefs), FormatYAML)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	item := doc.Paths[0]
	if len(item.Parameters) != 1 || item.Parameters[0].Name != "petId" || item.Parameters[0].In != "path" {
		t.Errorf("path-level parameters = %+v", item.Parameters)
	}
	get := item.Operations[0]
	if len(get.Parameters) != 1 || get.Parameters[0].Name != "limit" || !get.Parameters[0].Schema.HasType("integer") {
		t.Errorf("operation parameters = %+v", get.Parameters)
	}
	if len(get.Responses) != 1 || get.Responses[0].Status != "200" || get.Responses[0].Description != "a pet" {
		t.Fatalf("GET responses = %+v", get.Responses)
	}
	if ref := get.Responses[0].Content[0].Schema.Ref; ref != "#/components/schemas/Pet" {
		t.Errorf("response schema ref = %q", ref)
	}

	post := doc.Paths[1].Operations[0]
	if post.RequestBody == nil || !post.RequestBody.Required || len(post.RequestBody.Content) != 1 {
		t.Fatalf("requestBody = %+v", post.RequestBody)
	}
	if ref := post.RequestBody.Content[0].Schema.Ref; ref != "#/components/schemas/Pet" {
		t.Errorf("requestBody schema ref = %q", ref)
	}

	created := post.Responses[0]
	if created.Status != "201" || created.Description != "a pet" {
		t.Errorf("chained response = %+v", created)
	}
	if created.Content[0].Schema != get.Responses[0].Content[0].Schema {
		t.Error("references to one component should share its schema")
	}
}

func TestLoad_UnresolvedComponentReference(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		ref      string
		location string
	}{
		{
			name:     "parameter",
			op:       "parameters:\n        - $ref: '#/components/parameters/Missing'\n      responses: {}",
			ref:      "#/components/parameters/Missing",
			location: "parameters[0]",
		},
		{
			name:     "request body",
			op:       "requestBody:\n        $ref: '#/components/requestBodies/Missing'\n      responses: {}",
			ref:      "#/components/requestBodies/Missing",
			location: "requestBody",
		},
		{
			name:     "response",
			op:       "responses:\n        '200':\n          $ref: '#/components/responses/Missing'",
			ref:      "#/components/responses/Missing",
			location: "responses.200",
		},
		{
			name:     "wrong section",
			op:       "requestBody:\n        $ref: '#/components/schemas/Pet'\n      responses: {}",
			ref:      "#/components/schemas/Pet",
			location: "requestBody",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "paths:\n  /pets:\n    post:\n      " + tt.op + "\ncomponents:\n  schemas:\n    Pet:\n      type: object\n"
			_, err := Load([]byte(src), FormatYAML)
			var unresolved *UnresolvedReferenceError
			if !errors.As(err, &unresolved) {
				t.Fatalf("err = %v, want *UnresolvedReferenceError", err)
			}
			want := &UnresolvedReferenceError{Ref: tt.ref, Location: tt.location}
			if diff := cmp.Diff(want, unresolved); diff != "" {
				t.Errorf("error mismatch (-want +got):\n%s", diff)
			}
			if !strings.Contains(err.Error(), "paths./pets: post: ") {
				t.Errorf("err = %q, want the operation location", err)
			}
		})
	}
}

func TestLoad_ComponentReferenceCycle(t *testing.T) {
	src := `
paths:
  /pets:
    get:
      responses:
        '200':
          $ref: '#/components/responses/A'
components:
  responses:
    A:
      $ref: '#/components/responses/B'
    B:
      $ref: '#/components/responses/A'
`
	_, err := Load([]byte(src), FormatYAML)
	if err == nil || !strings.Contains(err.Error(), "reference cycle") {
		t.Errorf("err = %v, want reference cycle", err)
	}
}
