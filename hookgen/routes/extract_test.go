package routes

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/broady/hookgen/hookgen/ir"
	"github.com/broady/hookgen/hookgen/normalize"
	"github.com/broady/hookgen/hookgen/spec"
)

const api = `
openapi: 3.1.0
paths:
  /:
    get:
      responses:
        '200':
          description: ok
  /applications/{application_id}:
    parameters:
      - name: application_id
        in: path
        schema:
          type: string
      - name: verbose
        in: query
        schema:
          type: boolean
    get:
      operationId: getApplication
      parameters:
        - name: verbose
          in: query
          required: true
          schema:
            type: boolean
        - name: X-Trace
          in: header
          schema:
            type: string
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Application'
        '404':
          description: missing
    delete:
      deprecated: true
      responses:
        '204':
          description: gone
  /users/@me/files/{name}.json:
    put:
      requestBody:
        content:
          text/plain:
            schema:
              type: string
          multipart/form-data:
            schema:
              type: object
              properties:
                file:
                  type: string
                  format: binary
      responses:
        '200':
          description: ok
          content:
            text/csv: {}
  /applications:
    post:
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Application'
      responses:
        '201':
          description: created
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Application'
components:
  schemas:
    Application:
      type: object
      properties:
        id:
          type: string
`

func extract(t *testing.T, src string) ([]ir.Route, []ir.Warning, *ir.Graph) {
	t.Helper()
	doc, err := spec.Load([]byte(src), spec.FormatYAML)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	n := normalize.New(doc)
	if err := n.Components(); err != nil {
		t.Fatalf("Components: %v", err)
	}
	routes, warnings, err := Extract(doc, n)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return routes, warnings, n.Graph()
}

func TestExtract_Order(t *testing.T) {
	routes, _, _ := extract(t, api)
	var keys []string
	for _, r := range routes {
		keys = append(keys, r.Key())
	}
	want := []string{
		"GET /",
		"GET /applications/{application_id}",
		"DELETE /applications/{application_id}",
		"PUT /users/@me/files/{name}.json",
		"POST /applications",
	}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("route order mismatch (-want +got):\n%s", diff)
	}
	if got := routes[0].Template(); got != "/" {
		t.Errorf("root template = %q", got)
	}
	if !routes[2].Deprecated {
		t.Error("DELETE should be deprecated")
	}
}

func TestExtract_ParamInheritance(t *testing.T) {
	routes, _, _ := extract(t, api)
	get := routes[1]

	type param struct {
		Name     string
		In       ir.ParamLocation
		Required bool
	}
	var got []param
	for _, p := range get.Params {
		got = append(got, param{p.Name, p.In, p.Required})
	}
	want := []param{
		{"application_id", ir.InPath, true},
		{"verbose", ir.InQuery, true},
		{"X-Trace", ir.InHeader, false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
	if get.Template() != "/applications/:application_id" {
		t.Errorf("template = %q", get.Template())
	}
	if strings.Join(get.ArgKeys(), ",") != "param,query,header" {
		t.Errorf("arg keys = %v", get.ArgKeys())
	}

	del := routes[2]
	if len(del.Params) != 2 || del.Params[1].Required {
		t.Errorf("DELETE should inherit optional verbose: %+v", del.Params)
	}
}

func TestExtract_Responses(t *testing.T) {
	routes, warnings, g := extract(t, api)
	app, _ := g.Lookup("Application")

	get := routes[1]
	if len(get.Responses) != 2 {
		t.Fatalf("responses = %+v", get.Responses)
	}
	if get.Responses[0].Type != app || get.Responses[0].ContentType != "application/json" {
		t.Errorf("200 = %+v, want Application", get.Responses[0])
	}
	if !get.Responses[1].Opaque() {
		t.Errorf("404 should be opaque: %+v", get.Responses[1])
	}

	post := routes[4]
	if post.Body == nil || post.Body.Type != app || post.Body.ArgKey != "json" || !post.Body.Required {
		t.Errorf("POST body = %+v", post.Body)
	}
	if post.Responses[0].Type != app {
		t.Error("shared schema should normalize to the same node")
	}

	put := routes[3]
	if !put.Responses[0].Opaque() || put.Responses[0].ContentType != "text/csv" {
		t.Errorf("PUT response = %+v", put.Responses[0])
	}

	var codes []string
	for _, w := range warnings {
		codes = append(codes, w.Code+" "+w.Route)
	}
	want := []string{
		"synthesized_param PUT /users/@me/files/{name}.json",
		"ignored_media_type PUT /users/@me/files/{name}.json",
		"opaque_response PUT /users/@me/files/{name}.json",
	}
	if diff := cmp.Diff(want, codes); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_FormBodyAndSynthesizedParam(t *testing.T) {
	routes, _, g := extract(t, api)
	put := routes[3]

	if put.Body == nil || put.Body.ArgKey != "form" || put.Body.ContentType != "multipart/form-data" {
		t.Fatalf("body = %+v", put.Body)
	}
	if len(put.Params) != 1 || put.Params[0].Name != "name" || !put.Params[0].Required {
		t.Errorf("params = %+v", put.Params)
	}
	if _, n := g.Resolve(put.Params[0].Type); n.(*ir.PrimitiveNode).Primitive != ir.PrimitiveString {
		t.Error("synthesized param should be a string")
	}
	if got := put.Template(); got != "/users/@me/files/:name.json" {
		t.Errorf("template = %q", got)
	}
}

func TestExtract_UnresolvedReference(t *testing.T) {
	src := `
paths:
  /things:
    get:
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Thing'
`
	doc, err := spec.Load([]byte(src), spec.FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = Extract(doc, normalize.New(doc))
	if err == nil || !strings.Contains(err.Error(), "GET /things: response 200") {
		t.Fatalf("err = %v", err)
	}
	var unresolved *normalize.UnresolvedReferenceError
	if !errors.As(err, &unresolved) || unresolved.Ref != "#/components/schemas/Thing" {
		t.Errorf("err = %v, want UnresolvedReferenceError", err)
	}
}

func TestExtract_DuplicateRoute(t *testing.T) {
	doc := &spec.Document{Paths: []*spec.PathItem{
		{Path: "/a", Operations: []*spec.Operation{{Method: "GET"}}},
		{Path: "/a", Operations: []*spec.Operation{{Method: "GET"}}},
	}}
	_, _, err := Extract(doc, normalize.New(doc))
	if err == nil || !strings.Contains(err.Error(), "duplicate route GET /a") {
		t.Errorf("err = %v", err)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		path string
		want []ir.Segment
	}{
		{"/", nil},
		{"/not-ref", []ir.Segment{{Value: "not-ref"}}},
		{"/users/@me", []ir.Segment{{Value: "users"}, {Value: "@me"}}},
		{"/files/*", []ir.Segment{{Value: "files"}, {Value: "*"}}},
		{"/a/{id}", []ir.Segment{{Value: "a"}, {Kind: ir.SegmentParam, Value: "id"}}},
		{"/f/{name}.{ext}", []ir.Segment{{Value: "f"}, {Value: ":name.:ext"}}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Tokenize(tt.path)); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.path, diff)
			}
		})
	}
	if got := ParamNames("/f/{name}.{ext}/{id}"); strings.Join(got, ",") != "name,ext,id" {
		t.Errorf("ParamNames = %v", got)
	}
}

func TestMediaTypes(t *testing.T) {
	for _, mt := range []string{"application/json", "application/json; charset=utf-8", "application/problem+json"} {
		if !IsJSON(mt) {
			t.Errorf("IsJSON(%q) = false", mt)
		}
	}
	if IsJSON("text/plain") || !IsForm("multipart/form-data") || IsForm("application/json") {
		t.Error("media type classification wrong")
	}
}

func TestExtract_ComponentReferences(t *testing.T) {
	src := `
paths:
  /pets/{petId}:
    get:
      parameters:
        - $ref: '#/components/parameters/PetID'
      responses:
        '200':
          $ref: '#/components/responses/PetResp'
  /pets:
    post:
      requestBody:
        $ref: '#/components/requestBodies/NewPet'
      responses:
        '200':
          $ref: '#/components/responses/PetResp'
components:
  parameters:
    PetID:
      name: petId
      in: path
      required: true
      schema:
        type: string
  requestBodies:
    NewPet:
      required: true
      content:
        application/json:
          schema:
            $ref: '#/components/schemas/Pet'
  responses:
    PetResp:
      description: ok
      content:
        application/json:
          schema:
            $ref: '#/components/schemas/Pet'
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
`
	routes, warnings, g := extract(t, src)
	pet, _ := g.Lookup("Pet")

	get := routes[0]
	if len(get.Params) != 1 || get.Params[0].Name != "petId" || get.Params[0].In != ir.InPath {
		t.Errorf("GET params = %+v", get.Params)
	}
	if get.Responses[0].Type != pet || get.Responses[0].Opaque() {
		t.Errorf("GET response = %+v, want Pet", get.Responses[0])
	}

	post := routes[1]
	if post.Body == nil || post.Body.Type != pet || post.Body.ArgKey != "json" || !post.Body.Required {
		t.Errorf("POST body = %+v, want required json Pet", post.Body)
	}
	if strings.Join(post.ArgKeys(), ",") != "json" {
		t.Errorf("POST arg keys = %v", post.ArgKeys())
	}
	if post.Responses[0].Type != pet {
		t.Errorf("POST response = %+v, want Pet", post.Responses[0])
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
}
