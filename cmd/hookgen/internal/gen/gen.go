package gen

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/broady/hookgen/cmd/hookgen/internal/config"
	"github.com/broady/hookgen/hookgen"
	"github.com/broady/hookgen/hookgen/sink"
)

type Cmd struct {
	Common  config.Flags `embed:""`
	Out     string       `help:"Output directory." short:"o" type:"path"`
	Targets []string     `help:"Target spec, repeatable (e.g. react-query?keys=literal-tuple)." short:"t" name:"target"`
	Check   bool         `help:"Report files that differ from the output directory instead of writing them."`
}

func (c *Cmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return c.run(ctx, os.Stdout, os.Stderr)
}

func (c *Cmd) run(ctx context.Context, stdout, stderr io.Writer) error {
	extra := make(map[string]any)
	if c.Out != "" {
		extra["out"] = c.Out
	}
	if len(c.Targets) > 0 {
		extra["targets"] = c.Targets
	}
	cfg, err := c.Common.Load(extra)
	if err != nil {
		return err
	}

	g := hookgen.FromFile(cfg.Spec).
		WithLogger(cfg.Log.Logger(stderr)).
		WithClient(cfg.ClientConfig()).
		WithTypes(cfg.TypesConfig()).
		WithConcurrency(cfg.Concurrency)
	for _, t := range cfg.Targets {
		g.WithTarget(t)
	}

	if c.Check {
		chk := sink.NewCheck(cfg.Out)
		res, err := g.ToSink(ctx, chk)
		if err != nil {
			return err
		}
		if stale := chk.Stale(); len(stale) > 0 {
			return fmt.Errorf("%d of %d files out of date in %s: %s", len(stale), len(res.Files), cfg.Out, strings.Join(stale, ", "))
		}
		fmt.Fprintf(stdout, "✓ %d files up to date in %s\n", len(res.Files), cfg.Out)
		return nil
	}

	res, err := g.ToDir(ctx, cfg.Out)
	if err != nil {
		return err
	}
	for _, f := range res.Files {
		fmt.Fprintf(stdout, "✓ %s\n", f.Path)
	}
	if n := len(res.Warnings); n > 0 {
		fmt.Fprintf(stdout, "%d warnings\n", n)
	}
	return nil
}
