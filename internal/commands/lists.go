package commands

import (
	"context"
	"flag"
	"io"

	"hbexport/internal/config"
	"hbexport/internal/exitcode"
	"hbexport/internal/output"
	"hbexport/internal/service"
)

func init() {
	Register(&ListsCmd{})
}

// ListsCmd implements the lists command.
type ListsCmd struct{}

func (c *ListsCmd) Name() string        { return "lists" }
func (c *ListsCmd) Aliases() []string   { return nil }
func (c *ListsCmd) Synopsis() string    { return "Print Google Tasks lists" }
func (c *ListsCmd) Usage() string       { return "hbexport lists [common flags]" }
func (c *ListsCmd) Needs() service.Need { return service.NeedSink }

func (c *ListsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListsCmd) Run(ctx context.Context, cfg *config.Config, b service.Backends, args []string, out, errOut io.Writer) int {
	lists, err := b.Sink.ListLists(ctx)
	if err != nil {
		return backendFailure(errOut, err)
	}

	for _, list := range lists {
		output.FormatListName(out, list)
	}

	return exitcode.Success
}
