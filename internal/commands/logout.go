package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"hbexport/internal/config"
	"hbexport/internal/exitcode"
	"hbexport/internal/service"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd removes the stored Google token.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string        { return "logout" }
func (c *LogoutCmd) Aliases() []string   { return nil }
func (c *LogoutCmd) Synopsis() string    { return "Remove stored Google credentials" }
func (c *LogoutCmd) Usage() string       { return "hbexport logout [common flags]" }
func (c *LogoutCmd) Needs() service.Need { return service.NeedNone }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, b service.Backends, args []string, out, errOut io.Writer) int {
	if !cfg.HasToken() {
		info(cfg, out, "not logged in\n")
		return exitcode.Success
	}

	if err := cfg.RemoveToken(); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
		return exitcode.AuthError
	}

	info(cfg, out, "ok\n")
	return exitcode.Success
}
