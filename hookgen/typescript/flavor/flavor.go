// Package flavor describes the output flavors of the generator and renders
// routes through them.
//
// A flavor is a Target: a declarative descriptor of what to emit (its
// capabilities), how cache keys are shaped and which templates render each
// piece. Every flavor is rendered by the same Renderer strategy; they differ
// only in configuration.
package flavor

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/broady/hookgen/hookgen/naming"
)

// Capability is a set of things a target emits.
type Capability uint8

const (
	// Types emits declarations of the named schemas.
	Types Capability = 1 << iota
	// Calls emits one async request function per route.
	Calls
	// KeyGetter emits a cache-key function per hook.
	KeyGetter
	// Query emits query hook factories for GET and HEAD routes.
	Query
	// Mutation emits mutation hook factories for the other methods.
	Mutation
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{Types, "types"},
	{Calls, "calls"},
	{KeyGetter, "key"},
	{Query, "query"},
	{Mutation, "mutation"},
}

// Has reports whether c includes every capability of o.
func (c Capability) Has(o Capability) bool { return c&o == o }

// String returns the capabilities joined by "|".
func (c Capability) String() string {
	var names []string
	for _, cn := range capabilityNames {
		if c.Has(cn.c) {
			names = append(names, cn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Template names. A capability that renders code needs its template.
const (
	TemplateCall     = "call"
	TemplateKey      = "key"
	TemplateQuery    = "query"
	TemplateMutation = "mutation"

	// TemplateImports renders extra import lines. It is optional.
	TemplateImports = "imports"
)

// Target is the descriptor of one output flavor.
type Target struct {
	Name string `validate:"required"`

	// File is the output path, relative to the output directory.
	File string `validate:"required,endswith=.ts|endswith=.tsx"`

	Capabilities Capability `validate:"required"`

	// Keys is the cache-key convention. Defaults to path-args.
	Keys naming.KeyConvention `validate:"omitempty,oneof=literal-tuple path-args"`

	// Args selects how argument types are written: "infer" asks the client
	// (InferRequestType), "schema" spells them out from the schemas.
	Args string `validate:"omitempty,oneof=infer schema"`

	// HookPrefix is prepended to hook names ("use", "create").
	HookPrefix string `validate:"omitempty,alpha"`

	// Templates maps template names to text/template sources.
	Templates map[string]string

	// Vars are exposed to templates as .Vars.
	Vars map[string]string
}

// Renderer turns one route into source text. It is the strategy every
// target is rendered through.
type Renderer interface {
	RenderCall(w io.Writer, v *RouteView) error
	RenderKeyGetter(w io.Writer, v *RouteView) error
	RenderHookFactory(w io.Writer, v *RouteView) error
}

var builtins = map[string]func() *Target{
	"rpc":          rpcTarget,
	"react-query":  func() *Target { return hookTarget("react-query", react) },
	"vue-query":    func() *Target { return hookTarget("vue-query", vue) },
	"svelte-query": func() *Target { return hookTarget("svelte-query", svelte) },
	"solid-query":  func() *Target { return hookTarget("solid-query", solid) },
	"types":        typesTarget,
}

// Get returns a fresh copy of the built-in target called name.
func Get(name string) (*Target, error) {
	f, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown flavor: %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return f(), nil
}

// Names lists the built-in targets in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Target) keys() naming.KeyConvention {
	if t.Keys == "" {
		return naming.PathArgs
	}
	return t.Keys
}

func (t *Target) schemaArgs() bool { return t.Args == "schema" }
