// Package config loads the hookgen command configuration.
//
// Sources are applied in increasing priority: built-in defaults, the YAML
// config file, HOOKGEN_* environment variables and command-line flags.
// Environment variables map to keys by dropping the prefix, lowering case
// and turning "_" into ".": HOOKGEN_LOG_LEVEL sets log.level.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/broady/hookgen/hookgen/typescript"
	"github.com/broady/hookgen/hookgen/typescript/flavor"
)

// DefaultFile is read when no config file is named. It may be absent.
const DefaultFile = "hookgen.yaml"

const envPrefix = "HOOKGEN_"

type Config struct {
	// Spec is the OpenAPI document to read.
	Spec string `koanf:"spec" validate:"required"`

	// Out is the output directory.
	Out string `koanf:"out" validate:"required"`

	// Targets are target specs, e.g. "react-query?keys=literal-tuple".
	Targets []string `koanf:"targets" validate:"min=1,dive,required"`

	// Concurrency bounds parallel target rendering; 0 means GOMAXPROCS.
	Concurrency int `koanf:"concurrency" validate:"gte=0"`

	Client Client `koanf:"client"`
	Types  Types  `koanf:"types"`
	Log    Log    `koanf:"log"`
}

type Client struct {
	Name    string `koanf:"name" validate:"required"`
	Import  string `koanf:"import" validate:"required"`
	Runtime string `koanf:"runtime" validate:"required"`
}

type Types struct {
	Interfaces bool   `koanf:"interfaces"`
	Readonly   bool   `koanf:"readonly"`
	Unknown    string `koanf:"unknown" validate:"oneof=unknown any"`
	Indent     int    `koanf:"indent" validate:"gte=1,lte=8"`
}

type Log struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

func defaults() map[string]any {
	c := flavor.DefaultClient()
	t := typescript.DefaultConfig()
	return map[string]any{
		"spec":             "openapi.yaml",
		"out":              ".",
		"targets":          []string{"rpc"},
		"concurrency":      0,
		"client.name":      c.Name,
		"client.import":    c.Import,
		"client.runtime":   c.Runtime,
		"types.interfaces": t.UseInterface,
		"types.readonly":   t.UseReadonlyArrays,
		"types.unknown":    t.UnknownType,
		"types.indent":     t.IndentSize,
		"log.level":        "info",
		"log.format":       "text",
	}
}

// Options select the sources of Load.
type Options struct {
	// File is the config file. When empty, DefaultFile is used if present.
	File string

	// Overrides are flag values keyed like the config ("out", "log.level").
	Overrides map[string]any
}

// Load reads the configuration from every source and validates it.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	path := opts.File
	if path == "" {
		path = DefaultFile
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return finish(k, opts.Overrides)
}

// LoadBytes is Load with the config file given as YAML content.
func LoadBytes(data []byte, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return finish(k, overrides)
}

func finish(k *koanf.Koanf, overrides map[string]any) (*Config, error) {
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: transformEnv,
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func transformEnv(key, value string) (string, any) {
	key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, envPrefix)), "_", ".")
	if key == "targets" {
		return key, strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' })
	}
	return key, value
}

var validate = validator.New()

// Validate checks field values and the target specs.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		problems := make([]string, len(verrs))
		for i, fe := range verrs {
			problems[i] = fmt.Sprintf("%s: failed %s validation", configKey(fe.Namespace()), fe.Tag())
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	for _, spec := range cfg.Targets {
		if _, err := flavor.ParseTargetSpec(spec); err != nil {
			return fmt.Errorf("invalid configuration: targets: %w", err)
		}
	}
	return nil
}

// configKey turns "Config.Log.Level" into "log.level".
func configKey(ns string) string {
	return strings.ToLower(strings.TrimPrefix(ns, "Config."))
}

// ClientConfig returns the generator's client settings.
func (c *Config) ClientConfig() flavor.Client {
	return flavor.Client{Name: c.Client.Name, Import: c.Client.Import, Runtime: c.Client.Runtime}
}

// TypesConfig returns the generator's type rendering options.
func (c *Config) TypesConfig() typescript.Config {
	return typescript.Config{
		UseInterface:      c.Types.Interfaces,
		UseReadonlyArrays: c.Types.Readonly,
		UnknownType:       c.Types.Unknown,
		IndentSize:        c.Types.Indent,
	}
}

// Logger builds the logger described by l, writing to w.
func (l Log) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Flags are the options shared by every command.
type Flags struct {
	Config    string `help:"Config file (default: hookgen.yaml when present)." short:"c" type:"path"`
	Spec      string `help:"OpenAPI document (YAML or JSON)." short:"s" type:"path"`
	LogLevel  string `help:"Log level: debug, info, warn or error." name:"log-level"`
	LogFormat string `help:"Log format: text or json." name:"log-format"`
}

// Load loads the configuration with the flags applied over it. extra holds
// command-specific overrides.
func (f Flags) Load(extra map[string]any) (*Config, error) {
	overrides := make(map[string]any, len(extra)+3)
	for k, v := range extra {
		overrides[k] = v
	}
	if f.Spec != "" {
		overrides["spec"] = f.Spec
	}
	if f.LogLevel != "" {
		overrides["log.level"] = f.LogLevel
	}
	if f.LogFormat != "" {
		overrides["log.format"] = f.LogFormat
	}
	return Load(Options{File: f.Config, Overrides: overrides})
}
