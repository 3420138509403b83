// Package commands holds the hbexport subcommands and the registry the
// dispatcher resolves them from.
package commands

import (
	"context"
	"flag"
	"io"

	"hbexport/internal/config"
	"hbexport/internal/service"
)

// Info is the part of a command shown by help and used for lookup.
type Info interface {
	Name() string
	Aliases() []string
	Synopsis() string
	Usage() string
}

// Command is a runnable subcommand.
//
// The dispatcher parses flags into the command, builds the backends named by
// Needs, and calls Run with the remaining positional arguments. Backends the
// command did not ask for are nil. Run writes results to out, diagnostics to
// errOut, and returns a process exit code from package exitcode.
type Command interface {
	Info
	Needs() service.Need
	RegisterFlags(fs *flag.FlagSet)
	Run(ctx context.Context, cfg *config.Config, b service.Backends, args []string, out, errOut io.Writer) int
}
