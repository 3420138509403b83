package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"hbexport/internal/config"
	"hbexport/internal/exitcode"
	"hbexport/internal/export"
	"hbexport/internal/output"
	"hbexport/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
// Handles both `hbexport` (no args) and `hbexport export`.
type ExportCmd struct {
	outputPath  string
	concurrency int
}

// SetOutputPath sets the report path (for testing).
func (c *ExportCmd) SetOutputPath(path string) {
	c.outputPath = path
}

// SetConcurrency sets the fetch concurrency (for testing).
func (c *ExportCmd) SetConcurrency(n int) {
	c.concurrency = n
}

func (c *ExportCmd) Name() string        { return "export" }
func (c *ExportCmd) Aliases() []string   { return []string{"dump"} }
func (c *ExportCmd) Synopsis() string    { return "Write to-dos to a Markdown report" }
func (c *ExportCmd) Usage() string       { return "hbexport export [--output <path>] [--concurrency <n>]" }
func (c *ExportCmd) Needs() service.Need { return service.NeedSource }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.outputPath, "output", config.DefaultOutputFile, "")
	fs.StringVar(&c.outputPath, "o", config.DefaultOutputFile, "")
	fs.IntVar(&c.concurrency, "concurrency", 1, "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, b service.Backends, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	path := strings.TrimSpace(c.outputPath)
	if path == "" {
		path = config.DefaultOutputFile
	}

	res, code := collect(ctx, cfg, b.Source, c.concurrency, progressOut(cfg, out), errOut)
	if code != exitcode.Success {
		return code
	}

	info(cfg, out, "\n📝 正在写入 Markdown 文件...\n")
	report := output.FormatReport(res.Unfinished, res.Completed)
	if err := os.WriteFile(path, []byte(report), 0644); err != nil {
		fmt.Fprintf(errOut, "error: failed to write report: %v\n", err)
		return exitcode.OutputError
	}

	info(cfg, out, "\n✅ 导出完成：%d 个未完成 + %d 个已完成\n", len(res.Unfinished), len(res.Completed))
	info(cfg, out, "📄 保存至：%s\n", path)
	return exitcode.Success
}

// collect runs the export pipeline and maps its fatal error to an exit code.
// A zero concurrency means sequential.
func collect(ctx context.Context, cfg *config.Config, src service.Source, concurrency int, progress, errOut io.Writer) (*export.Result, int) {
	if concurrency < 0 {
		fmt.Fprintf(errOut, "error: invalid concurrency: %d\n", concurrency)
		return nil, exitcode.UserError
	}

	res, err := export.Collect(ctx, src, export.Options{
		Concurrency: concurrency,
		Progress:    progress,
		Logger:      cfg.Log(),
	})
	if err != nil {
		return nil, backendFailure(errOut, err)
	}
	return res, exitcode.Success
}

// backendFailure reports err and picks the exit code: auth failures map to
// AuthError, everything else (an interrupted run included) to BackendError.
func backendFailure(errOut io.Writer, err error) int {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(errOut, "error: interrupted")
		return exitcode.BackendError
	}
	if errors.Is(err, service.ErrUnauthorized) {
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// progressOut returns where progress lines go: out, or nowhere when quiet.
func progressOut(cfg *config.Config, out io.Writer) io.Writer {
	if cfg.Quiet {
		return nil
	}
	return out
}

// info prints an informational line unless quiet.
func info(cfg *config.Config, out io.Writer, format string, args ...any) {
	if cfg.Quiet {
		return
	}
	fmt.Fprintf(out, format, args...)
}
