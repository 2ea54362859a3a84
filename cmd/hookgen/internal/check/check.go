package check

import (
	"fmt"
	"io"
	"os"

	"github.com/broady/hookgen/cmd/hookgen/internal/config"
	"github.com/broady/hookgen/hookgen"
	"github.com/broady/hookgen/hookgen/spec"
)

type Cmd struct {
	Common config.Flags `embed:""`
	Strict bool         `help:"Fail when the document produces warnings."`
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

	fmt.Fprintf(stdout, "✓ %d schemas, %d routes, %d targets\n",
		len(compiled.Graph.Names()), len(compiled.Routes), len(cfg.Targets))
	for _, w := range compiled.Warnings {
		fmt.Fprintf(stdout, "! %s\n", w)
	}
	if c.Strict && len(compiled.Warnings) > 0 {
		return fmt.Errorf("%d warnings", len(compiled.Warnings))
	}
	return nil
}
