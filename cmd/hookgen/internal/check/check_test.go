package check

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/broady/hookgen/cmd/hookgen/internal/config"
)

const api = `openapi: 3.1.0
paths:
  /files/{id}:
    get:
      responses:
        '200':
          description: raw bytes
          content:
            application/octet-stream: {}
components:
  schemas:
    File:
      type: string
      format: binary
`

func writeSpec(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "openapi.yaml")
	if err := os.WriteFile(path, []byte(api), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheck(t *testing.T) {
	path := writeSpec(t)
	var out bytes.Buffer
	if err := (&Cmd{Common: config.Flags{Spec: path}}).run(&out); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "✓ 1 schemas, 1 routes, 1 targets\n") {
		t.Errorf("summary = %q", got)
	}
	for _, code := range []string{"synthesized_param", "opaque_response"} {
		if !strings.Contains(got, "! "+code) {
			t.Errorf("warning %s not reported:\n%s", code, got)
		}
	}
}

func TestCheck_Strict(t *testing.T) {
	path := writeSpec(t)
	err := (&Cmd{Common: config.Flags{Spec: path}, Strict: true}).run(&bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "warnings") {
		t.Errorf("err = %v, want warnings error", err)
	}
}

func TestCheck_MissingSpec(t *testing.T) {
	t.Chdir(t.TempDir())
	err := (&Cmd{Common: config.Flags{Spec: "nope.yaml"}}).run(&bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "read spec") {
		t.Errorf("err = %v", err)
	}
}
