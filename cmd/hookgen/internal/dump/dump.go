package dump

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/broady/hookgen/cmd/hookgen/internal/config"
	"github.com/broady/hookgen/hookgen"
	"github.com/broady/hookgen/hookgen/ir"
	"github.com/broady/hookgen/hookgen/spec"
)

type Cmd struct {
	Common config.Flags `embed:""`
}

type namedRoute struct {
	Name  string    `json:"name"`
	Route *ir.Route `json:"route"`
}

type document struct {
	Graph    *ir.Graph    `json:"graph"`
	Routes   []namedRoute `json:"routes"`
	Warnings []string     `json:"warnings,omitempty"`
}

func (c *Cmd) Run() error {
	return c.run(os.Stdout)
}

func (c *Cmd) run(stdout io.Writer) error {
	cfg, err := c.Common.Load(nil)
	if err != nil {
		return err
	}
	doc, err := spec.LoadFile(cfg.Spec)
	if err != nil {
		return err
	}
	compiled, err := hookgen.Compile(doc)
	if err != nil {
		return err
	}

	out := document{Graph: compiled.Graph}
	for i := range compiled.Routes {
		r := &compiled.Routes[i]
		name, _ := compiled.Names.Lookup(r)
		out.Routes = append(out.Routes, namedRoute{Name: name.Stem, Route: r})
	}
	for _, w := range compiled.Warnings {
		out.Warnings = append(out.Warnings, w.String())
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err = fmt.Fprintf(stdout, "%s\n", data)
	return err
}
