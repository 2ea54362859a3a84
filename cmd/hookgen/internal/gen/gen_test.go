package gen

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/broady/hookgen/cmd/hookgen/internal/config"
)

const api = `openapi: 3.1.0
paths:
  /pets:
    get:
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
`

func setup(t *testing.T) (specPath, out string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	specPath = filepath.Join(dir, "openapi.yaml")
	if err := os.WriteFile(specPath, []byte(api), 0o644); err != nil {
		t.Fatal(err)
	}
	return specPath, filepath.Join(dir, "gen")
}

func TestGen(t *testing.T) {
	specPath, out := setup(t)
	cmd := &Cmd{
		Common:  config.Flags{Spec: specPath},
		Out:     out,
		Targets: []string{"react-query", "types"},
	}
	var stdout bytes.Buffer
	if err := cmd.run(context.Background(), &stdout, io.Discard); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"react-query.ts", "types.ts"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
		if !strings.Contains(stdout.String(), "✓ "+name) {
			t.Errorf("stdout missing %s:\n%s", name, stdout.String())
		}
	}
	hooks, _ := os.ReadFile(filepath.Join(out, "react-query.ts"))
	if !strings.Contains(string(hooks), "export function useGetPets(") {
		t.Errorf("unexpected react-query.ts:\n%s", hooks)
	}
}

func TestGen_Check(t *testing.T) {
	specPath, out := setup(t)
	gen := &Cmd{Common: config.Flags{Spec: specPath}, Out: out, Targets: []string{"rpc"}}
	check := &Cmd{Common: config.Flags{Spec: specPath}, Out: out, Targets: []string{"rpc"}, Check: true}
	ctx := context.Background()

	if err := check.run(ctx, io.Discard, io.Discard); err == nil || !strings.Contains(err.Error(), "rpc.ts") {
		t.Fatalf("check before gen: err = %v, want rpc.ts out of date", err)
	}
	if _, err := os.Stat(filepath.Join(out, "rpc.ts")); err == nil {
		t.Fatal("check mode wrote a file")
	}

	if err := gen.run(ctx, io.Discard, io.Discard); err != nil {
		t.Fatal(err)
	}
	var stdout bytes.Buffer
	if err := check.run(ctx, &stdout, io.Discard); err != nil {
		t.Fatalf("check after gen: %v", err)
	}
	if !strings.Contains(stdout.String(), "1 files up to date") {
		t.Errorf("stdout = %q", stdout.String())
	}

	if err := os.WriteFile(filepath.Join(out, "rpc.ts"), []byte("edited"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := check.run(ctx, io.Discard, io.Discard); err == nil {
		t.Error("check should fail after a manual edit")
	}
}

func TestGen_InvalidTarget(t *testing.T) {
	specPath, out := setup(t)
	cmd := &Cmd{Common: config.Flags{Spec: specPath}, Out: out, Targets: []string{"react-query?keys=flat"}}
	err := cmd.run(context.Background(), io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "unknown key convention") {
		t.Errorf("err = %v", err)
	}
}
