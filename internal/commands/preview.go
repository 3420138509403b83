package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"hbexport/internal/config"
	"hbexport/internal/exitcode"
	"hbexport/internal/output"
	"hbexport/internal/service"
)

func init() {
	Register(&PreviewCmd{})
}

// PreviewCmd renders the report in the terminal without writing a file.
type PreviewCmd struct {
	width       int
	concurrency int
}

// SetWidth sets the wrap width (for testing).
func (c *PreviewCmd) SetWidth(width int) {
	c.width = width
}

func (c *PreviewCmd) Name() string        { return "preview" }
func (c *PreviewCmd) Aliases() []string   { return []string{"show"} }
func (c *PreviewCmd) Synopsis() string    { return "Render the report in the terminal" }
func (c *PreviewCmd) Usage() string       { return "hbexport preview [--width <n>] [--concurrency <n>]" }
func (c *PreviewCmd) Needs() service.Need { return service.NeedSource }

func (c *PreviewCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.width, "width", output.DefaultWidth, "")
	fs.IntVar(&c.concurrency, "concurrency", 1, "")
}

func (c *PreviewCmd) Run(ctx context.Context, cfg *config.Config, b service.Backends, args []string, out, errOut io.Writer) int {
	// Progress goes to stderr so stdout carries only the report
	res, code := collect(ctx, cfg, b.Source, c.concurrency, progressOut(cfg, errOut), errOut)
	if code != exitcode.Success {
		return code
	}

	md := output.FormatReport(res.Unfinished, res.Completed)
	rendered, err := output.RenderTerminal(md, c.width, isTerminal(out))
	if err != nil {
		fmt.Fprintf(errOut, "error: render failed: %v\n", err)
		return exitcode.OutputError
	}
	fmt.Fprint(out, rendered)
	return exitcode.Success
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
