package hookgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/broady/hookgen/hookgen/ir"
	"github.com/broady/hookgen/hookgen/sink"
	"github.com/broady/hookgen/hookgen/spec"
	"github.com/broady/hookgen/hookgen/typescript"
	"github.com/broady/hookgen/hookgen/typescript/flavor"
)

// Result is the output of a run.
type Result struct {
	// Files holds one file per target, in target order.
	Files    []*flavor.SourceFile
	Warnings []ir.Warning
	Compiled *Compiled
}

// Generator provides a fluent API for code generation. Create one with
// FromDocument or FromFile and configure it with method chaining. The first
// configuration error is kept and returned by Generate.
type Generator struct {
	doc         *spec.Document
	load        func() (*spec.Document, error)
	targets     []*flavor.Target
	client      flavor.Client
	types       typescript.Config
	logger      *slog.Logger
	concurrency int
	err         error
}

// FromDocument returns a Generator over a loaded document.
func FromDocument(doc *spec.Document) *Generator {
	return &Generator{doc: doc, types: typescript.DefaultConfig()}
}

// FromFile returns a Generator that loads path when it runs.
func FromFile(path string) *Generator {
	return &Generator{
		load:  func() (*spec.Document, error) { return spec.LoadFile(path) },
		types: typescript.DefaultConfig(),
	}
}

// WithTarget adds a target by spec, e.g. "react-query?keys=literal-tuple".
// Can be called multiple times.
func (g *Generator) WithTarget(targetSpec string) *Generator {
	t, err := flavor.ParseTargetSpec(targetSpec)
	if err != nil {
		g.fail(err)
		return g
	}
	return g.WithTargetConfig(t)
}

// WithTargetConfig adds a custom target.
func (g *Generator) WithTargetConfig(t *flavor.Target) *Generator {
	if err := t.Validate(); err != nil {
		g.fail(err)
		return g
	}
	g.targets = append(g.targets, t)
	return g
}

// WithClient sets the request client the generated code imports.
func (g *Generator) WithClient(c flavor.Client) *Generator {
	g.client = c
	return g
}

// WithTypes sets the type rendering options.
func (g *Generator) WithTypes(cfg typescript.Config) *Generator {
	g.types = cfg
	return g
}

// WithLogger sets the logger. Defaults to slog.Default().
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	g.logger = l
	return g
}

// WithConcurrency bounds the number of targets rendered at once.
// Defaults to GOMAXPROCS.
func (g *Generator) WithConcurrency(n int) *Generator {
	g.concurrency = n
	return g
}

func (g *Generator) fail(err error) {
	if g.err == nil {
		g.err = err
	}
}

func (g *Generator) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}

// Generate runs the pipeline and renders every target. Either all targets
// succeed or no files are returned.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	if g.err != nil {
		return nil, g.err
	}
	if len(g.targets) == 0 {
		return nil, errors.New("no targets configured")
	}
	if err := g.checkFiles(); err != nil {
		return nil, err
	}

	doc := g.doc
	if doc == nil {
		if g.load == nil {
			return nil, errors.New("no document")
		}
		var err error
		if doc, err = g.load(); err != nil {
			return nil, err
		}
	}

	logger := g.log()
	compiled, err := Compile(doc, g.hookPrefixes()...)
	if err != nil {
		return nil, err
	}
	logger.Debug("compiled document",
		"schemas", len(compiled.Graph.Names()),
		"nodes", compiled.Graph.Len(),
		"routes", len(compiled.Routes))
	for _, w := range compiled.Warnings {
		logger.Warn(w.Message, "code", w.Code, "schema", w.Schema, "route", w.Route)
	}

	files, err := g.emit(ctx, compiled)
	if err != nil {
		return nil, err
	}
	return &Result{Files: files, Warnings: compiled.Warnings, Compiled: compiled}, nil
}

func (g *Generator) hookPrefixes() []string {
	var prefixes []string
	for _, t := range g.targets {
		if t.Capabilities.Has(flavor.Query) || t.Capabilities.Has(flavor.Mutation) {
			prefixes = append(prefixes, t.HookPrefix)
		}
	}
	return prefixes
}

// checkFiles rejects two targets writing the same file.
func (g *Generator) checkFiles() error {
	seen := make(map[string]string, len(g.targets))
	for _, t := range g.targets {
		if prev, ok := seen[t.File]; ok {
			return fmt.Errorf("targets %s and %s both write %s", prev, t.Name, t.File)
		}
		seen[t.File] = t.Name
	}
	return nil
}

func (g *Generator) emit(ctx context.Context, c *Compiled) ([]*flavor.SourceFile, error) {
	in := &flavor.Input{
		Graph:  c.Graph,
		Routes: c.Routes,
		Names:  c.Names,
		Client: g.client,
		Types:  g.types,
	}
	limit := g.concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	files := make([]*flavor.SourceFile, len(g.targets))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, t := range g.targets {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := flavor.Emit(t, in)
			if err != nil {
				return err
			}
			g.log().Debug("rendered target", "target", t.Name, "file", f.Path, "bytes", len(f.Content))
			files[i] = f
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// ToSink generates and writes every file to s. Nothing is written when
// generation fails.
func (g *Generator) ToSink(ctx context.Context, s sink.Sink) (*Result, error) {
	res, err := g.Generate(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range res.Files {
		if err := s.WriteFile(ctx, f.Path, f.Content); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.Path, err)
		}
		g.log().Info("emitted file", "path", f.Path)
	}
	return res, nil
}

// ToDir generates into a directory.
func (g *Generator) ToDir(ctx context.Context, dir string) (*Result, error) {
	return g.ToSink(ctx, sink.NewDir(dir))
}
