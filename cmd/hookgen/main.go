package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/broady/hookgen/cmd/hookgen/internal/check"
	"github.com/broady/hookgen/cmd/hookgen/internal/dump"
	"github.com/broady/hookgen/cmd/hookgen/internal/gen"
)

type CLI struct {
	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate TypeScript clients and hooks."`
	Check   check.Cmd  `cmd:"" help:"Load, normalize and name a document without writing files."`
	Dump    dump.Cmd   `cmd:"" help:"Print the normalized schemas and routes as JSON."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("hookgen"),
		kong.Description("Generate typed request clients, query keys and hook factories from OpenAPI."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
