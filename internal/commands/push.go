package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"hbexport/internal/config"
	"hbexport/internal/exitcode"
	"hbexport/internal/export"
	"hbexport/internal/service"
)

// DefaultPushList is the Google Tasks list push writes to.
const DefaultPushList = "Habitica"

func init() {
	Register(&PushCmd{})
}

// PushCmd mirrors unfinished to-dos into a Google Tasks list.
type PushCmd struct {
	listName    string
	concurrency int
}

// SetListName sets the target list name (for testing).
func (c *PushCmd) SetListName(name string) {
	c.listName = name
}

func (c *PushCmd) Name() string        { return "push" }
func (c *PushCmd) Aliases() []string   { return nil }
func (c *PushCmd) Synopsis() string    { return "Copy unfinished to-dos into Google Tasks" }
func (c *PushCmd) Usage() string       { return "hbexport push [--list <list-name>] [--concurrency <n>]" }
func (c *PushCmd) Needs() service.Need { return service.NeedSource | service.NeedSink }

func (c *PushCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", DefaultPushList, "")
	fs.StringVar(&c.listName, "l", DefaultPushList, "")
	fs.IntVar(&c.concurrency, "concurrency", 1, "")
}

func (c *PushCmd) Run(ctx context.Context, cfg *config.Config, b service.Backends, args []string, out, errOut io.Writer) int {
	listName := strings.TrimSpace(c.listName)
	if len(args) > 0 {
		listName = strings.TrimSpace(strings.Join(args, " "))
	}
	if listName == "" {
		listName = DefaultPushList
	}

	res, code := collect(ctx, cfg, b.Source, c.concurrency, progressOut(cfg, out), errOut)
	if code != exitcode.Success {
		return code
	}

	mr, err := export.Mirror(ctx, b.Sink, listName, res.Unfinished)
	if err != nil {
		return backendFailure(errOut, err)
	}

	info(cfg, out, "created %d, skipped %d in %s\n", mr.Created, mr.Skipped, mr.List.Title)
	return exitcode.Success
}
