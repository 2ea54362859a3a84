package dump

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"

	"github.com/broady/hookgen/cmd/hookgen/internal/config"
)

const api = `openapi: 3.1.0
paths:
  /users/@me:
    get:
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/User'
components:
  schemas:
    User:
      type: object
      properties:
        id:
          type: string
`

func TestDump(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "openapi.json")
	if err := os.WriteFile(path, []byte(api), 0o644); err != nil {
		t.Fatal(err)
	}
	// The extension says JSON but the content is YAML.
	var out bytes.Buffer
	if err := (&Cmd{Common: config.Flags{Spec: path}}).run(&out); err == nil {
		t.Fatal("expected a decode error for YAML in a .json file")
	}

	path = filepath.Join(dir, "openapi.yaml")
	if err := os.WriteFile(path, []byte(api), 0o644); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := (&Cmd{Common: config.Flags{Spec: path}}).run(&out); err != nil {
		t.Fatal(err)
	}

	var got struct {
		Graph struct {
			Schemas []struct {
				Name string `json:"name"`
			} `json:"schemas"`
		} `json:"graph"`
		Routes []struct {
			Name string `json:"name"`
		} `json:"routes"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if len(got.Graph.Schemas) != 1 || got.Graph.Schemas[0].Name != "User" {
		t.Errorf("schemas = %+v", got.Graph.Schemas)
	}
	if len(got.Routes) != 1 || got.Routes[0].Name != "GetUsersAtMe" {
		t.Errorf("routes = %+v", got.Routes)
	}
}
