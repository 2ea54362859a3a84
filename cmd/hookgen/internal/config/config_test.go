package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadBytes_Defaults(t *testing.T) {
	cfg, err := LoadBytes(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Spec:    "openapi.yaml",
		Out:     ".",
		Targets: []string{"rpc"},
		Client:  Client{Name: "client", Import: "./client", Runtime: "hono/client"},
		Types:   Types{Interfaces: true, Unknown: "unknown", Indent: 2},
		Log:     Log{Level: "info", Format: "text"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadBytes_Precedence(t *testing.T) {
	data := []byte(`
spec: api/openapi.yaml
out: web/src/api
targets:
  - rpc
  - react-query?keys=literal-tuple
client:
  import: '@/lib/client'
log:
  level: debug
`)
	t.Setenv("HOOKGEN_LOG_FORMAT", "json")
	t.Setenv("HOOKGEN_LOG_LEVEL", "warn")
	t.Setenv("HOOKGEN_TYPES_READONLY", "true")

	cfg, err := LoadBytes(data, map[string]any{"out": "gen"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Spec != "api/openapi.yaml" {
		t.Errorf("spec = %q, want from file", cfg.Spec)
	}
	if cfg.Out != "gen" {
		t.Errorf("out = %q, flags should win", cfg.Out)
	}
	if diff := cmp.Diff([]string{"rpc", "react-query?keys=literal-tuple"}, cfg.Targets); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
	if cfg.Client.Import != "@/lib/client" || cfg.Client.Name != "client" {
		t.Errorf("client = %+v", cfg.Client)
	}
	if cfg.Log != (Log{Level: "warn", Format: "json"}) {
		t.Errorf("log = %+v, environment should override the file", cfg.Log)
	}
	if !cfg.TypesConfig().UseReadonlyArrays {
		t.Error("HOOKGEN_TYPES_READONLY not applied")
	}
}

func TestLoadBytes_TargetsFromEnv(t *testing.T) {
	t.Setenv("HOOKGEN_TARGETS", "rpc, types")
	cfg, err := LoadBytes(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"rpc", "types"}, cfg.Targets); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadBytes_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"log level", "log:\n  level: loud\n", "log.level: failed oneof validation"},
		{"unknown type", "types:\n  unknown: never\n", "types.unknown: failed oneof validation"},
		{"no targets", "targets: []\n", "targets: failed min validation"},
		{"bad target", "targets: [swr]\n", "unknown flavor"},
		{"bad target option", "targets: ['rpc?file=rpc.js']\n", "must end in .ts or .tsx"},
		{"negative concurrency", "concurrency: -1\n", "concurrency: failed gte validation"},
		{"yaml", "targets: [\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.data), nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("out: dist\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(Options{File: path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Out != "dist" {
		t.Errorf("out = %q, want dist", cfg.Out)
	}

	if _, err := Load(Options{File: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("expected error for a missing named config file")
	}
}

func TestLoad_DefaultFileOptional(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Spec != "openapi.yaml" {
		t.Errorf("spec = %q", cfg.Spec)
	}

	if err := os.WriteFile(DefaultFile, []byte("spec: other.yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Spec != "other.yaml" {
		t.Errorf("spec = %q, want from %s", cfg.Spec, DefaultFile)
	}
}

func TestLogLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := Log{Level: "warn", Format: "json"}.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "code", "opaque_response")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"code":"opaque_response"`) {
		t.Errorf("unexpected JSON log: %s", out)
	}
}
