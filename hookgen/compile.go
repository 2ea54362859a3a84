// Package hookgen generates typed TypeScript request clients, query keys and
// hook factories from an OpenAPI document.
//
// A run compiles the document once (normalize schemas, extract routes,
// resolve names) and then renders each configured target over the result:
//
//	res, err := hookgen.FromFile("openapi.yaml").
//	    WithTarget("rpc").
//	    WithTarget("react-query?keys=literal-tuple").
//	    ToDir(ctx, "./src/api")
package hookgen

import (
	"fmt"

	"github.com/broady/hookgen/hookgen/ir"
	"github.com/broady/hookgen/hookgen/naming"
	"github.com/broady/hookgen/hookgen/normalize"
	"github.com/broady/hookgen/hookgen/routes"
	"github.com/broady/hookgen/hookgen/spec"
)

// Compiled is the target-independent result of a run. It is immutable and
// shared by every target.
type Compiled struct {
	Graph    *ir.Graph
	Routes   []ir.Route
	Names    *naming.Table
	Warnings []ir.Warning
}

// Compile normalizes the schemas of doc, extracts its routes and names them.
// Hook names for hookPrefixes are reserved alongside the default prefixes.
func Compile(doc *spec.Document, hookPrefixes ...string) (*Compiled, error) {
	n := normalize.New(doc)
	if err := n.Components(); err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	rs, routeWarnings, err := routes.Extract(doc, n)
	if err != nil {
		return nil, fmt.Errorf("extract routes: %w", err)
	}
	names, err := naming.Build(rs, hookPrefixes...)
	if err != nil {
		return nil, fmt.Errorf("naming: %w", err)
	}
	warnings := append(append([]ir.Warning(nil), n.Warnings()...), routeWarnings...)
	return &Compiled{
		Graph:    n.Graph(),
		Routes:   rs,
		Names:    names,
		Warnings: warnings,
	}, nil
}
