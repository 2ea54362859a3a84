package flavor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/broady/hookgen/hookgen/ir"
	"github.com/broady/hookgen/hookgen/naming"
	"github.com/broady/hookgen/hookgen/typescript"
)

// Header is the first line of every generated file.
const Header = "// Code generated by hookgen. DO NOT EDIT."

// Client locates the request client the generated code calls.
type Client struct {
	// Name is the exported client binding ("client").
	Name string

	// Import is the module exporting it ("./client").
	Import string

	// Runtime is the module providing parseResponse and the request types
	// ("hono/client").
	Runtime string
}

// DefaultClient returns the client used when none is configured.
func DefaultClient() Client {
	return Client{Name: "client", Import: "./client", Runtime: "hono/client"}
}

func (c Client) withDefaults() Client {
	d := DefaultClient()
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.Import == "" {
		c.Import = d.Import
	}
	if c.Runtime == "" {
		c.Runtime = d.Runtime
	}
	return c
}

// Input is everything a target is rendered from. It is shared read-only
// between targets.
type Input struct {
	Graph  *ir.Graph
	Routes []ir.Route
	Names  *naming.Table
	Client Client
	Types  typescript.Config
}

// SourceFile is one generated file.
type SourceFile struct {
	// Path is relative to the output directory.
	Path    string
	Content []byte
}

// Emit renders in through t. Capability problems are reported before any
// output is produced; the result is byte-identical for identical input.
func Emit(t *Target, in *Input) (*SourceFile, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	r, err := newTemplateRenderer(t)
	if err != nil {
		return nil, err
	}
	client := in.Client.withDefaults()
	emitter := typescript.NewEmitter(in.Graph, in.Types)

	var views []*RouteView
	if t.Capabilities.Has(Calls) {
		views = make([]*RouteView, 0, len(in.Routes))
		for i := range in.Routes {
			route := &in.Routes[i]
			name, ok := in.Names.Lookup(route)
			if !ok {
				return nil, fmt.Errorf("target %s: route %s has no name", t.Name, route.Key())
			}
			v, err := routeView(t, emitter, client.Name, name, route)
			if err != nil {
				return nil, fmt.Errorf("target %s: %w", t.Name, err)
			}
			views = append(views, v)
		}
	}

	var blocks []string

	imports, err := importLines(t, r, client, views)
	if err != nil {
		return nil, err
	}
	if len(imports) > 0 {
		blocks = append(blocks, strings.Join(imports, "\n"))
	}

	if t.Capabilities.Has(Types) && len(in.Graph.Names()) > 0 {
		var buf bytes.Buffer
		if err := emitter.Declarations(&buf); err != nil {
			return nil, fmt.Errorf("target %s: %w", t.Name, err)
		}
		blocks = append(blocks, buf.String())
	}

	for _, v := range views {
		var buf bytes.Buffer
		if err := r.RenderCall(&buf, v); err != nil {
			return nil, err
		}
		blocks = append(blocks, buf.String())

		if !hasHook(t, v) {
			continue
		}
		buf.Reset()
		if err := r.RenderKeyGetter(&buf, v); err != nil {
			return nil, err
		}
		blocks = append(blocks, buf.String())

		buf.Reset()
		if err := r.RenderHookFactory(&buf, v); err != nil {
			return nil, err
		}
		blocks = append(blocks, buf.String())
	}

	var out bytes.Buffer
	out.WriteString(Header)
	out.WriteString("\n")
	for _, b := range blocks {
		out.WriteString("\n")
		out.WriteString(strings.TrimRight(b, "\n"))
		out.WriteString("\n")
	}
	return &SourceFile{Path: t.File, Content: out.Bytes()}, nil
}

func hasHook(t *Target, v *RouteView) bool {
	if v.Query {
		return t.Capabilities.Has(Query)
	}
	return t.Capabilities.Has(Mutation)
}

func importLines(t *Target, r *templateRenderer, client Client, views []*RouteView) ([]string, error) {
	if len(views) == 0 {
		return nil, nil
	}
	types := []string{"ClientRequestOptions"}
	if !t.schemaArgs() {
		for _, v := range views {
			if v.HasArgs {
				types = append(types, "InferRequestType")
				break
			}
		}
	}
	lines := []string{
		fmt.Sprintf("import { parseResponse } from %s", typescript.Quote(client.Runtime)),
		fmt.Sprintf("import type { %s } from %s", strings.Join(types, ", "), typescript.Quote(client.Runtime)),
		fmt.Sprintf("import { %s } from %s", client.Name, typescript.Quote(client.Import)),
	}

	fv := &FileView{Vars: t.Vars}
	if fv.Vars == nil {
		fv.Vars = map[string]string{}
	}
	for _, v := range views {
		if !hasHook(t, v) {
			continue
		}
		if v.Query {
			fv.HasQuery = true
		} else {
			fv.HasMutation = true
		}
	}
	extra, err := r.imports(fv)
	if err != nil {
		return nil, err
	}
	return append(lines, extra...), nil
}
